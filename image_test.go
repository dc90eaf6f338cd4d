package e57_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	e57 "github.com/migr8/libE57Format"
)

func TestImageChunkedWrites(t *testing.T) {
	w := newTestWriter(t)

	header := &e57.Image2D{Name: "panorama", ImageSize: 150}
	index, err := w.NewImage2D(header)
	require.NoError(t, err)
	require.NotEmpty(t, header.GUID)

	n, err := w.WriteImage2DData(index, e57.ImageJPEG, e57.ProjectionSpherical,
		bytes.Repeat([]byte{0xAA}, 100), 0)
	require.NoError(t, err)
	assert.Equal(t, int64(100), n)

	n2, err := w.WriteImage2DData(index, e57.ImageJPEG, e57.ProjectionSpherical,
		bytes.Repeat([]byte{0xBB}, 50), 100)
	require.NoError(t, err)
	assert.Equal(t, int64(50), n2)

	assert.Equal(t, int64(150), n+n2)

	images := w.RawImages2D()
	require.Equal(t, 1, images.Len())
	written, _ := images.At(0).Get("bytesWritten")
	assert.Equal(t, int64(150), written)
	repr, _ := images.At(0).Get("representation")
	assert.Equal(t, "jpeg", repr)
}

func TestImageWriteTruncation(t *testing.T) {
	w := newTestWriter(t)

	index, err := w.NewImage2D(&e57.Image2D{ImageSize: 150})
	require.NoError(t, err)

	n, err := w.WriteImage2DData(index, e57.ImagePNG, e57.ProjectionVisual,
		make([]byte, 50), 140)
	require.NoError(t, err)
	assert.Equal(t, int64(10), n)

	n, err = w.WriteImage2DData(index, e57.ImagePNG, e57.ProjectionVisual,
		[]byte{1}, 150)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestImageOneCallFlow(t *testing.T) {
	w := newTestWriter(t)

	payload := bytes.Repeat([]byte{0x42}, 64)
	header := &e57.Image2D{Name: "thumb", ImageSize: 64}

	n, err := w.WriteImage2D(header, e57.ImagePNG, e57.ProjectionPinhole, payload, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(64), n)

	images := w.RawImages2D()
	require.Equal(t, 1, images.Len())
	proj, _ := images.At(0).Get("projection")
	assert.Equal(t, "pinhole", proj)
}

func TestImageTypeMismatch(t *testing.T) {
	w := newTestWriter(t)

	index, err := w.NewImage2D(&e57.Image2D{ImageSize: 100})
	require.NoError(t, err)

	_, err = w.WriteImage2DData(index, e57.ImageJPEG, e57.ProjectionVisual, []byte{1}, 0)
	require.NoError(t, err)

	// Representation is fixed by the first write.
	_, err = w.WriteImage2DData(index, e57.ImagePNG, e57.ProjectionVisual, []byte{2}, 1)
	var cfgErr *e57.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "imageType", cfgErr.Field)
}

func TestImageValidation(t *testing.T) {
	w := newTestWriter(t)

	_, err := w.NewImage2D(&e57.Image2D{ImageSize: 0})
	var cfgErr *e57.ConfigError
	require.ErrorAs(t, err, &cfgErr)

	_, err = w.WriteImage2DData(3, e57.ImageJPEG, e57.ProjectionVisual, []byte{1}, 0)
	assert.ErrorIs(t, err, e57.ErrRecordNotFound)

	// A scan record cannot take image bytes.
	header, buffers := testScan(5)
	scanIndex, err := e57.WriteData3D(w, header, buffers)
	require.NoError(t, err)

	_, err = w.WriteImage2DData(scanIndex, e57.ImageJPEG, e57.ProjectionVisual, []byte{1}, 0)
	require.ErrorAs(t, err, &cfgErr)
}

func TestImageWriteWhileSessionActive(t *testing.T) {
	w := newTestWriter(t)

	imageIndex, err := w.NewImage2D(&e57.Image2D{ImageSize: 10})
	require.NoError(t, err)

	header, buffers := testScan(5)
	e57.FillMissingBounds(header, buffers)
	scanIndex, err := w.NewData3D(header)
	require.NoError(t, err)

	cvw, err := e57.SetUpData3DPoints(w, scanIndex, 5, buffers)
	require.NoError(t, err)

	_, err = w.WriteImage2DData(imageIndex, e57.ImageJPEG, e57.ProjectionVisual, []byte{1}, 0)
	assert.ErrorIs(t, err, e57.ErrSessionActive)

	require.NoError(t, cvw.Close())

	_, err = w.WriteImage2DData(imageIndex, e57.ImageJPEG, e57.ProjectionVisual, []byte{1}, 0)
	assert.NoError(t, err)
}
