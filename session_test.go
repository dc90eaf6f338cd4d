package e57_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	e57 "github.com/migr8/libE57Format"
)

func TestManualFlow(t *testing.T) {
	w := newTestWriter(t)

	header, buffers := testScan(10)
	header.PointCount = 15 // buffers act as a 10-row staging area

	// Bounds cannot be derived from a partial staging buffer.
	header.PointFields.PointRange.Set(-100, 100)

	index, err := w.NewData3D(header)
	require.NoError(t, err)

	cvw, err := e57.SetUpData3DPoints(w, index, 10, buffers)
	require.NoError(t, err)
	assert.Equal(t, index, cvw.Index())

	n, err := cvw.Write(10)
	require.NoError(t, err)
	assert.Equal(t, int64(10), n)

	// Caller refills the buffers, then commits the remainder.
	n, err = cvw.Write(5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
	assert.Equal(t, int64(15), cvw.Written())

	// Cumulative writes beyond the declared count fail.
	_, err = cvw.Write(1)
	assert.ErrorIs(t, err, e57.ErrWriteExceedsDeclared)

	require.NoError(t, cvw.Close())

	// Closed is terminal.
	assert.ErrorIs(t, cvw.Close(), e57.ErrSessionClosed)
	_, err = cvw.Write(1)
	assert.ErrorIs(t, err, e57.ErrSessionClosed)

	scans := w.RawData3D()
	require.Equal(t, 1, scans.Len())
	written, _ := scans.At(0).Get("pointsWritten")
	assert.Equal(t, int64(15), written)
}

func TestWriteExceedsBufferCapacity(t *testing.T) {
	w := newTestWriter(t)

	header, buffers := testScan(10)
	header.PointCount = 100
	header.PointFields.PointRange.Set(-100, 100)

	index, err := w.NewData3D(header)
	require.NoError(t, err)

	cvw, err := e57.SetUpData3DPoints(w, index, 10, buffers)
	require.NoError(t, err)
	defer cvw.Close()

	_, err = cvw.Write(11)
	assert.ErrorIs(t, err, e57.ErrWriteExceedsBuffer)

	_, err = cvw.Write(-1)
	var cfgErr *e57.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestOneSessionAtATime(t *testing.T) {
	w := newTestWriter(t)

	header1, buffers1 := testScan(5)
	e57.FillMissingBounds(header1, buffers1)
	index1, err := w.NewData3D(header1)
	require.NoError(t, err)

	header2, buffers2 := testScan(5)
	e57.FillMissingBounds(header2, buffers2)
	index2, err := w.NewData3D(header2)
	require.NoError(t, err)

	cvw, err := e57.SetUpData3DPoints(w, index1, 5, buffers1)
	require.NoError(t, err)

	// A second open session on the same container is rejected.
	_, err = e57.SetUpData3DPoints(w, index2, 5, buffers2)
	assert.ErrorIs(t, err, e57.ErrSessionActive)

	require.NoError(t, cvw.Close())

	cvw2, err := e57.SetUpData3DPoints(w, index2, 5, buffers2)
	require.NoError(t, err)
	require.NoError(t, cvw2.Close())
}

func TestSessionPerRecordIsExclusive(t *testing.T) {
	w := newTestWriter(t)

	header, buffers := testScan(5)
	index, err := e57.WriteData3D(w, header, buffers)
	require.NoError(t, err)

	// The single-shot flow already wrote and finalized the payload.
	_, err = e57.SetUpData3DPoints(w, index, 5, buffers)
	var conflict *e57.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, index, conflict.Index)
}

func TestSetUpData3DPointsBadIndex(t *testing.T) {
	w := newTestWriter(t)

	_, buffers := testScan(5)

	_, err := e57.SetUpData3DPoints(w, 7, 5, buffers)
	assert.ErrorIs(t, err, e57.ErrRecordNotFound)

	imageIndex, err := w.NewImage2D(&e57.Image2D{ImageSize: 32})
	require.NoError(t, err)

	_, err = e57.SetUpData3DPoints(w, imageIndex, 5, buffers)
	var cfgErr *e57.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestSetUpData3DPointsValidation(t *testing.T) {
	w := newTestWriter(t)

	header, buffers := testScan(5)
	e57.FillMissingBounds(header, buffers)
	index, err := w.NewData3D(header)
	require.NoError(t, err)

	_, err = e57.SetUpData3DPoints(w, index, 0, buffers)
	var cfgErr *e57.ConfigError
	require.ErrorAs(t, err, &cfgErr)

	// Buffers shorter than the requested capacity are rejected at bind time.
	_, err = e57.SetUpData3DPoints(w, index, 500, buffers)
	require.ErrorAs(t, err, &cfgErr)
}

func TestFloat32Session(t *testing.T) {
	w := newTestWriter(t)

	header := &e57.Data3D{Name: "f32", PointCount: 4}
	header.PointFields.CartesianX = true
	header.PointFields.CartesianY = true
	header.PointFields.CartesianZ = true
	header.PointFields.PointRangeKind = e57.NumericScaledInteger

	buffers := &e57.PointBuffers[float32]{
		CartesianX: []float32{1, 2, 3, 4},
		CartesianY: []float32{0, 0, 0, 0},
		CartesianZ: []float32{-1, -2, -3, -4},
	}

	index, err := e57.WriteData3D(w, header, buffers)
	require.NoError(t, err)

	assert.Equal(t, float64(-4), header.PointFields.PointRange.Min)
	assert.Equal(t, float64(4), header.PointFields.PointRange.Max)

	written, _ := w.RawData3D().At(int(index)).Get("pointsWritten")
	assert.Equal(t, int64(4), written)
}
