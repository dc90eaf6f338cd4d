// Package container implements the on-disk record container backing the e57
// write path.
//
// A container file is a fixed binary header, a sequence of record payload
// sections (compressed point streams and pre-sized image regions), and a
// codec-encoded record directory written at close. Records are identified by
// monotonically increasing indices assigned at creation and stable for the
// file's lifetime.
//
// The container assumes a single writer. At most one streaming payload may be
// open at a time; callers serialize access.
package container

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/migr8/libE57Format/codec"
	"github.com/migr8/libE57Format/internal/fs"
)

var (
	// ErrClosed is returned when an operation is attempted on a closed container.
	ErrClosed = errors.New("container is closed")

	// ErrActivePayload is returned when an operation conflicts with an open
	// streaming payload.
	ErrActivePayload = errors.New("a streaming payload is already open")

	// ErrNotFound is returned when a record index does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrWrongKind is returned when an operation targets a record of the
	// wrong kind. The index exists but was created through the other path.
	ErrWrongKind = errors.New("operation does not match record kind")

	// ErrPayloadExists is returned when a second streaming payload is opened
	// for a record that already has one.
	ErrPayloadExists = errors.New("record payload already written")

	// ErrGroupsExist is returned when a group index is written twice for the
	// same record.
	ErrGroupsExist = errors.New("group index already written for record")

	// ErrPayloadClosed is returned on writes to a finalized payload.
	ErrPayloadClosed = errors.New("payload is closed")
)

// Kind identifies what a record holds.
type Kind uint8

const (
	// KindData3D is a 3D scan record with a compressed point payload.
	KindData3D Kind = iota + 1

	// KindImage2D is a 2D image record with an opaque byte payload.
	KindImage2D
)

func (k Kind) String() string {
	switch k {
	case KindData3D:
		return "data3d"
	case KindImage2D:
		return "image2d"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Compression selects the codec for streaming point payloads.
// Image payloads are always stored verbatim; typical image formats are
// already compressed.
type Compression uint8

const (
	// CompressionNone stores point payloads verbatim.
	CompressionNone Compression = iota

	// CompressionZstd compresses point payloads with zstd (the default).
	CompressionZstd

	// CompressionLZ4 compresses point payloads with lz4.
	CompressionLZ4
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionZstd:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("compression(%d)", uint8(c))
	}
}

// Options configures a new container file.
type Options struct {
	// Compression selects the point payload codec. Default: CompressionZstd.
	Compression Compression

	// CompressionLevel is the zstd level (1-22). Zero selects the encoder
	// default. Ignored for other codecs.
	CompressionLevel int

	// Codec encodes the record directory. Default: codec.Default.
	Codec codec.Codec

	// FileGUID identifies the file. Empty generates a random UUID.
	FileGUID string

	// CoordinateMetadata is an opaque coordinate system description stored
	// in the directory.
	CoordinateMetadata string

	// FS is the file system to create the container file on.
	// Default: fs.Default.
	FS fs.FileSystem
}

// DefaultOptions are the options applied before caller overrides.
var DefaultOptions = Options{
	Compression: CompressionZstd,
}

// GroupSet holds the group index of a record as parallel triples.
type GroupSet struct {
	IDs    []int64 `json:"ids"`
	Starts []int64 `json:"starts"`
	Counts []int64 `json:"counts"`
}

// Record describes one container record. Snapshots returned by Lookup and
// Records are copies; mutating them does not affect the container.
type Record struct {
	Index         int64
	Kind          Kind
	Header        any
	Capacity      int64 // declared points (data3d) or bytes (image2d)
	Written       int64 // points written (data3d) or region high-water mark (image2d)
	PayloadOffset int64
	PayloadSize   int64
	Groups        *GroupSet

	payloadDone bool
	allocated   bool
}

// Container is an open, writable record container file.
type Container struct {
	f       fs.File
	path    string
	opts    Options
	guid    uuid.UUID
	open    bool
	records []*Record
	active  *PayloadWriter
	off     int64 // next append offset
}

// Create creates a new container file at path, truncating any existing file,
// and writes the fixed file header.
func Create(path string, opts Options) (*Container, error) {
	if opts.Codec == nil {
		opts.Codec = codec.Default
	}
	if opts.FS == nil {
		opts.FS = fs.Default
	}

	guid := uuid.New()
	if opts.FileGUID != "" {
		parsed, err := uuid.Parse(opts.FileGUID)
		if err != nil {
			return nil, fmt.Errorf("invalid file GUID %q: %w", opts.FileGUID, err)
		}
		guid = parsed
	}

	f, err := opts.FS.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_TRUNC, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to create container file: %w", err)
	}

	c := &Container{
		f:    f,
		path: path,
		opts: opts,
		guid: guid,
		open: true,
	}

	n, err := writeFileHeader(f, fileHeaderInfo{
		Compression:      opts.Compression,
		CompressionLevel: opts.CompressionLevel,
		GUID:             guid,
	})
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	c.off = n

	return c, nil
}

// Path returns the file path the container was created at.
func (c *Container) Path() string { return c.path }

// GUID returns the file GUID.
func (c *Container) GUID() string { return c.guid.String() }

// CoordinateMetadata returns the coordinate system description, if any.
func (c *Container) CoordinateMetadata() string { return c.opts.CoordinateMetadata }

// IsOpen reports whether the container accepts further writes.
func (c *Container) IsOpen() bool { return c.open }

// CreateRecord registers a new record and returns its index. Indices are
// assigned in creation order, starting at zero. The header is retained and
// serialized into the directory at close; it must be encodable by the
// configured codec.
func (c *Container) CreateRecord(kind Kind, header any, capacity int64) (int64, error) {
	if !c.open {
		return 0, ErrClosed
	}

	rec := &Record{
		Index:    int64(len(c.records)),
		Kind:     kind,
		Header:   header,
		Capacity: capacity,
	}
	c.records = append(c.records, rec)

	return rec.Index, nil
}

func (c *Container) record(index int64) (*Record, error) {
	if index < 0 || index >= int64(len(c.records)) {
		return nil, fmt.Errorf("%w: index %d", ErrNotFound, index)
	}
	return c.records[index], nil
}

// Lookup returns a snapshot of the record at index.
func (c *Container) Lookup(index int64) (Record, bool) {
	rec, err := c.record(index)
	if err != nil {
		return Record{}, false
	}
	return *rec, true
}

// Records returns snapshots of all records of the given kind, in index order.
// A zero kind selects all records.
func (c *Container) Records(kind Kind) []Record {
	out := make([]Record, 0, len(c.records))
	for _, rec := range c.records {
		if kind != 0 && rec.Kind != kind {
			continue
		}
		out = append(out, *rec)
	}
	return out
}

// WriteImageBytes writes p into the image record's payload region starting at
// byte offset start, and returns the number of bytes accepted. Writes beyond
// the declared capacity are truncated; a start at or past capacity accepts
// zero bytes. The region is allocated at the current end of file on first
// write.
func (c *Container) WriteImageBytes(index, start int64, p []byte) (int64, error) {
	if !c.open {
		return 0, ErrClosed
	}
	if c.active != nil {
		return 0, ErrActivePayload
	}

	rec, err := c.record(index)
	if err != nil {
		return 0, err
	}
	if rec.Kind != KindImage2D {
		return 0, fmt.Errorf("%w: record %d is %s", ErrWrongKind, index, rec.Kind)
	}
	if start < 0 {
		return 0, fmt.Errorf("negative image offset %d", start)
	}
	if start >= rec.Capacity || len(p) == 0 {
		return 0, nil
	}

	if !rec.allocated {
		rec.PayloadOffset = c.off
		rec.PayloadSize = rec.Capacity
		rec.allocated = true
		c.off += rec.Capacity
	}

	n := int64(len(p))
	if start+n > rec.Capacity {
		n = rec.Capacity - start
	}

	if _, err := c.f.WriteAt(p[:n], rec.PayloadOffset+start); err != nil {
		return 0, fmt.Errorf("failed to write image bytes: %w", err)
	}
	// Written is the high-water mark of the region, so overlapping rewrites
	// do not inflate it past the declared capacity.
	if end := start + n; end > rec.Written {
		rec.Written = end
	}

	return n, nil
}

// SetGroups attaches a group index to a 3D record. Exactly one group index is
// allowed per record; a second call fails with ErrGroupsExist.
func (c *Container) SetGroups(index int64, ids, starts, counts []int64) error {
	if !c.open {
		return ErrClosed
	}

	rec, err := c.record(index)
	if err != nil {
		return err
	}
	if rec.Kind != KindData3D {
		return fmt.Errorf("%w: record %d is %s", ErrWrongKind, index, rec.Kind)
	}
	if rec.Groups != nil {
		return fmt.Errorf("%w: record %d", ErrGroupsExist, index)
	}
	if len(ids) != len(starts) || len(ids) != len(counts) {
		return fmt.Errorf("group arrays must have equal length: %d/%d/%d",
			len(ids), len(starts), len(counts))
	}

	gs := &GroupSet{
		IDs:    append([]int64(nil), ids...),
		Starts: append([]int64(nil), starts...),
		Counts: append([]int64(nil), counts...),
	}
	rec.Groups = gs

	return nil
}

// Close serializes the record directory, writes the trailer and closes the
// file. The container accepts no writes afterwards. A payload left open is
// orphaned: the directory records only what its session committed.
func (c *Container) Close() error {
	if !c.open {
		return ErrClosed
	}
	c.open = false
	c.active = nil

	dirOff := c.off
	dirLen, err := writeDirectory(c.f, dirOff, c.opts.Codec, c.directoryDoc())
	if err != nil {
		_ = c.f.Close()
		return err
	}

	if err := writeTrailer(c.f, dirOff+dirLen, dirOff, dirLen); err != nil {
		_ = c.f.Close()
		return err
	}

	if err := c.f.Sync(); err != nil {
		_ = c.f.Close()
		return fmt.Errorf("failed to sync container file: %w", err)
	}
	if err := c.f.Close(); err != nil {
		return fmt.Errorf("failed to close container file: %w", err)
	}

	return nil
}

func (c *Container) directoryDoc() directory {
	doc := directory{
		FileGUID:           c.guid.String(),
		CoordinateMetadata: c.opts.CoordinateMetadata,
		Compression:        c.opts.Compression.String(),
		Records:            make([]directoryRecord, 0, len(c.records)),
	}
	for _, rec := range c.records {
		doc.Records = append(doc.Records, directoryRecord{
			Index:         rec.Index,
			Kind:          rec.Kind.String(),
			Capacity:      rec.Capacity,
			Written:       rec.Written,
			PayloadOffset: rec.PayloadOffset,
			PayloadSize:   rec.PayloadSize,
			Header:        rec.Header,
			Groups:        rec.Groups,
		})
	}
	return doc
}

type directory struct {
	FileGUID           string            `json:"fileGuid"`
	CoordinateMetadata string            `json:"coordinateMetadata,omitempty"`
	Compression        string            `json:"compression"`
	Records            []directoryRecord `json:"records"`
}

type directoryRecord struct {
	Index         int64     `json:"index"`
	Kind          string    `json:"kind"`
	Capacity      int64     `json:"capacity"`
	Written       int64     `json:"written"`
	PayloadOffset int64     `json:"payloadOffset"`
	PayloadSize   int64     `json:"payloadSize"`
	Header        any       `json:"header,omitempty"`
	Groups        *GroupSet `json:"groups,omitempty"`
}
