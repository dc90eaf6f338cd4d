package container

import (
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func createTestContainer(t *testing.T, opts Options) *Container {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.e57")
	c, err := Create(path, opts)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	return c
}

func TestCreateWritesHeader(t *testing.T) {
	c := createTestContainer(t, DefaultOptions)

	if !c.IsOpen() {
		t.Fatal("new container should be open")
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	raw, err := os.ReadFile(c.Path())
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if len(raw) < fileHeaderLen+trailerLen {
		t.Fatalf("file too short: %d bytes", len(raw))
	}
	if string(raw[:4]) != "E57G" {
		t.Errorf("bad header magic: %q", raw[:4])
	}
	if string(raw[len(raw)-4:]) != "E57G" {
		t.Errorf("bad trailer magic: %q", raw[len(raw)-4:])
	}

	dirOff := int64(binary.LittleEndian.Uint64(raw[len(raw)-trailerLen:]))
	dirLen := int64(binary.LittleEndian.Uint64(raw[len(raw)-trailerLen+8:]))
	if dirOff < fileHeaderLen || dirOff+dirLen != int64(len(raw))-trailerLen {
		t.Errorf("trailer does not frame the directory: off=%d len=%d file=%d",
			dirOff, dirLen, len(raw))
	}

	// Directory is self-describing: codec name precedes the encoded bytes.
	nameLen := int(raw[dirOff])
	if got := string(raw[dirOff+1 : dirOff+1+int64(nameLen)]); got != "go-json" {
		t.Errorf("directory codec name = %q, want %q", got, "go-json")
	}
}

func TestRecordIndicesIncrease(t *testing.T) {
	c := createTestContainer(t, DefaultOptions)
	defer c.Close()

	var last int64 = -1
	for i := 0; i < 3; i++ {
		idx, err := c.CreateRecord(KindData3D, map[string]any{"name": "scan"}, 10)
		if err != nil {
			t.Fatalf("CreateRecord failed: %v", err)
		}
		if idx <= last {
			t.Fatalf("indices must strictly increase: got %d after %d", idx, last)
		}
		last = idx
	}
}

func TestPayloadLifecycle(t *testing.T) {
	for _, compression := range []Compression{CompressionNone, CompressionZstd, CompressionLZ4} {
		t.Run(compression.String(), func(t *testing.T) {
			opts := DefaultOptions
			opts.Compression = compression

			c := createTestContainer(t, opts)
			defer c.Close()

			idx, err := c.CreateRecord(KindData3D, nil, 4)
			if err != nil {
				t.Fatalf("CreateRecord failed: %v", err)
			}

			pw, err := c.OpenPayload(idx)
			if err != nil {
				t.Fatalf("OpenPayload failed: %v", err)
			}

			if _, err := c.OpenPayload(idx); !errors.Is(err, ErrActivePayload) {
				t.Errorf("second open while active = %v, want ErrActivePayload", err)
			}

			if _, err := pw.Write(make([]byte, 128)); err != nil {
				t.Fatalf("Write failed: %v", err)
			}
			pw.AddRows(4)

			if err := pw.Close(); err != nil {
				t.Fatalf("Close failed: %v", err)
			}
			if err := pw.Close(); !errors.Is(err, ErrPayloadClosed) {
				t.Errorf("double close = %v, want ErrPayloadClosed", err)
			}
			if _, err := pw.Write([]byte{1}); !errors.Is(err, ErrPayloadClosed) {
				t.Errorf("write after close = %v, want ErrPayloadClosed", err)
			}

			rec, ok := c.Lookup(idx)
			if !ok {
				t.Fatal("Lookup failed")
			}
			if rec.Written != 4 {
				t.Errorf("Written = %d, want 4", rec.Written)
			}
			if rec.PayloadSize <= 0 {
				t.Errorf("PayloadSize = %d, want > 0", rec.PayloadSize)
			}

			if _, err := c.OpenPayload(idx); !errors.Is(err, ErrPayloadExists) {
				t.Errorf("reopen finalized payload = %v, want ErrPayloadExists", err)
			}
		})
	}
}

func TestOpenPayloadWrongKind(t *testing.T) {
	c := createTestContainer(t, DefaultOptions)
	defer c.Close()

	idx, err := c.CreateRecord(KindImage2D, nil, 100)
	if err != nil {
		t.Fatalf("CreateRecord failed: %v", err)
	}

	if _, err := c.OpenPayload(idx); !errors.Is(err, ErrWrongKind) {
		t.Errorf("OpenPayload on image = %v, want ErrWrongKind", err)
	}
	if _, err := c.OpenPayload(99); !errors.Is(err, ErrNotFound) {
		t.Errorf("OpenPayload on missing index = %v, want ErrNotFound", err)
	}
}

func TestImageBytes(t *testing.T) {
	c := createTestContainer(t, DefaultOptions)
	defer c.Close()

	idx, err := c.CreateRecord(KindImage2D, nil, 150)
	if err != nil {
		t.Fatalf("CreateRecord failed: %v", err)
	}

	n, err := c.WriteImageBytes(idx, 0, make([]byte, 100))
	if err != nil {
		t.Fatalf("WriteImageBytes failed: %v", err)
	}
	if n != 100 {
		t.Errorf("accepted %d bytes, want 100", n)
	}

	n, err = c.WriteImageBytes(idx, 100, make([]byte, 50))
	if err != nil {
		t.Fatalf("WriteImageBytes failed: %v", err)
	}
	if n != 50 {
		t.Errorf("accepted %d bytes, want 50", n)
	}

	rec, _ := c.Lookup(idx)
	if rec.Written != 150 {
		t.Errorf("Written = %d, want 150", rec.Written)
	}

	// Past-capacity writes are truncated, not failed.
	n, err = c.WriteImageBytes(idx, 140, make([]byte, 50))
	if err != nil {
		t.Fatalf("WriteImageBytes failed: %v", err)
	}
	if n != 10 {
		t.Errorf("accepted %d bytes, want 10", n)
	}
	n, err = c.WriteImageBytes(idx, 150, []byte{1})
	if err != nil || n != 0 {
		t.Errorf("write at capacity = (%d, %v), want (0, nil)", n, err)
	}
}

func TestImageBytesOverlappingRewrite(t *testing.T) {
	c := createTestContainer(t, DefaultOptions)
	defer c.Close()

	idx, err := c.CreateRecord(KindImage2D, nil, 150)
	if err != nil {
		t.Fatalf("CreateRecord failed: %v", err)
	}

	// Rewriting the same region must not inflate the recorded extent.
	for i := 0; i < 2; i++ {
		n, err := c.WriteImageBytes(idx, 0, make([]byte, 100))
		if err != nil {
			t.Fatalf("WriteImageBytes failed: %v", err)
		}
		if n != 100 {
			t.Errorf("accepted %d bytes, want 100", n)
		}
	}

	rec, _ := c.Lookup(idx)
	if rec.Written != 100 {
		t.Errorf("Written = %d, want 100", rec.Written)
	}
	if rec.Written > rec.Capacity {
		t.Errorf("Written %d exceeds capacity %d", rec.Written, rec.Capacity)
	}
}

func TestImageBytesWrongKind(t *testing.T) {
	c := createTestContainer(t, DefaultOptions)
	defer c.Close()

	idx, err := c.CreateRecord(KindData3D, nil, 10)
	if err != nil {
		t.Fatalf("CreateRecord failed: %v", err)
	}

	if _, err := c.WriteImageBytes(idx, 0, []byte{1}); !errors.Is(err, ErrWrongKind) {
		t.Errorf("WriteImageBytes on scan = %v, want ErrWrongKind", err)
	}
}

func TestSetGroups(t *testing.T) {
	c := createTestContainer(t, DefaultOptions)
	defer c.Close()

	idx, err := c.CreateRecord(KindData3D, nil, 15)
	if err != nil {
		t.Fatalf("CreateRecord failed: %v", err)
	}

	if err := c.SetGroups(idx, []int64{1, 2}, []int64{0, 10}, []int64{10, 5}); err != nil {
		t.Fatalf("SetGroups failed: %v", err)
	}
	if err := c.SetGroups(idx, []int64{3}, []int64{0}, []int64{1}); !errors.Is(err, ErrGroupsExist) {
		t.Errorf("second SetGroups = %v, want ErrGroupsExist", err)
	}

	rec, _ := c.Lookup(idx)
	if rec.Groups == nil || len(rec.Groups.IDs) != 2 {
		t.Fatalf("groups not recorded: %+v", rec.Groups)
	}
}

func TestSetGroupsValidation(t *testing.T) {
	c := createTestContainer(t, DefaultOptions)
	defer c.Close()

	scan, _ := c.CreateRecord(KindData3D, nil, 10)
	img, _ := c.CreateRecord(KindImage2D, nil, 10)

	if err := c.SetGroups(img, []int64{1}, []int64{0}, []int64{1}); !errors.Is(err, ErrWrongKind) {
		t.Errorf("SetGroups on image = %v, want ErrWrongKind", err)
	}
	if err := c.SetGroups(scan, []int64{1, 2}, []int64{0}, []int64{1}); err == nil {
		t.Error("SetGroups with mismatched arrays should fail")
	}
}

func TestClosedContainer(t *testing.T) {
	c := createTestContainer(t, DefaultOptions)

	idx, err := c.CreateRecord(KindData3D, nil, 5)
	if err != nil {
		t.Fatalf("CreateRecord failed: %v", err)
	}

	if err := c.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if c.IsOpen() {
		t.Error("container should report closed")
	}

	if _, err := c.CreateRecord(KindData3D, nil, 5); !errors.Is(err, ErrClosed) {
		t.Errorf("CreateRecord after close = %v, want ErrClosed", err)
	}
	if _, err := c.OpenPayload(idx); !errors.Is(err, ErrClosed) {
		t.Errorf("OpenPayload after close = %v, want ErrClosed", err)
	}
	if err := c.SetGroups(idx, nil, nil, nil); !errors.Is(err, ErrClosed) {
		t.Errorf("SetGroups after close = %v, want ErrClosed", err)
	}
	if err := c.Close(); !errors.Is(err, ErrClosed) {
		t.Errorf("second Close = %v, want ErrClosed", err)
	}
}
