// filepath: internal/formdata/decoder.go
package formdata

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"os"
)

const (
	// FileField is the only field name whose payload is size-limited on its own.
	FileField = "file"

	// DefaultMemoryBytes is how much of a single field is kept in memory
	// before the payload is spilled to a temporary file.
	DefaultMemoryBytes int64 = 8 << 20

	// SpillPattern is the os.CreateTemp pattern of spilled field payloads.
	SpillPattern = "lanupload-*.part"

	readChunk = 32 << 10
)

// ErrInvalidLimits is returned by Limits.Validate.
var ErrInvalidLimits = errors.New("formdata: invalid limits")

// Limits bounds one decode.
type Limits struct {
	MaxTotalBytes int64  // decoded payload of all fields together
	MaxFileBytes  int64  // payload of the FileField
	MemoryBytes   int64  // per-field in-memory threshold, DefaultMemoryBytes if <= 0
	TempDir       string // spill directory, os.TempDir() if empty
}

// Validate checks that the limits are positive and MaxFileBytes <= MaxTotalBytes.
func (l Limits) Validate() error {
	if l.MaxTotalBytes <= 0 {
		return fmt.Errorf("%w: max total bytes must be positive, got %d", ErrInvalidLimits, l.MaxTotalBytes)
	}
	if l.MaxFileBytes <= 0 {
		return fmt.Errorf("%w: max file bytes must be positive, got %d", ErrInvalidLimits, l.MaxFileBytes)
	}
	if l.MaxFileBytes > l.MaxTotalBytes {
		return fmt.Errorf("%w: max file bytes (%d) exceeds max total bytes (%d)", ErrInvalidLimits, l.MaxFileBytes, l.MaxTotalBytes)
	}
	return nil
}

// Decoder decodes multipart/form-data bodies under fixed limits.
// It holds no per-request state and is safe for concurrent use.
type Decoder struct {
	limits Limits
}

// NewDecoder returns a Decoder for the given limits.
func NewDecoder(limits Limits) *Decoder {
	if limits.MemoryBytes <= 0 {
		limits.MemoryBytes = DefaultMemoryBytes
	}
	return &Decoder{limits: limits}
}

// Decode streams body and returns every field it contains.
//
// Limits are enforced while reading, so an oversized upload is rejected as
// soon as the limit is crossed. On any error all partially buffered data is
// discarded. Modeled failures are *DecodeError; anything else is an
// unexpected transport or local I/O fault.
//
// The caller owns the returned Form and must call RemoveAll on it.
func (d *Decoder) Decode(ctx context.Context, contentType string, body io.Reader) (*Form, error) {
	boundary, err := parseBoundary(contentType)
	if err != nil {
		return nil, &DecodeError{Kind: MalformedRequest, Err: err}
	}

	src := newSourceReader(ctx, body, boundary)
	mr := multipart.NewReader(src, boundary)
	form := &Form{}
	var total int64

	for {
		part, err := mr.NextPart()
		if err == io.EOF && !src.closed {
			// NextPart also reports io.EOF when the body ends inside part headers.
			err = io.ErrUnexpectedEOF
		}
		if err == io.EOF {
			return form, nil
		}
		if err != nil {
			form.RemoveAll()
			return nil, classify(src, err)
		}

		field, err := d.readPart(src, part, total)
		if err != nil {
			// Part.Close would drain the rest of the part from the body.
			form.RemoveAll()
			return nil, err
		}
		part.Close()
		total += field.Size
		form.Fields = append(form.Fields, field)
	}
}

// Decode is a shorthand for NewDecoder(limits).Decode(ctx, contentType, body).
func Decode(ctx context.Context, contentType string, body io.Reader, limits Limits) (*Form, error) {
	return NewDecoder(limits).Decode(ctx, contentType, body)
}

func (d *Decoder) readPart(src *sourceReader, part *multipart.Part, total int64) (*Field, error) {
	field := &Field{
		Name:        part.FormName(),
		FileName:    declaredFileName(part),
		ContentType: part.Header.Get("Content-Type"),
	}
	fieldMax, limited := d.fieldLimit(field.Name)

	sink := &spillBuffer{limit: d.limits.MemoryBytes, dir: d.limits.TempDir}
	buf := make([]byte, readChunk)

	for {
		n, err := part.Read(buf)
		if n > 0 {
			field.Size += int64(n)
			if limited && field.Size > fieldMax {
				sink.discard()
				return nil, &DecodeError{Kind: FieldTooLarge, Field: field.Name}
			}
			if total+field.Size > d.limits.MaxTotalBytes {
				sink.discard()
				return nil, &DecodeError{Kind: TotalTooLarge}
			}
			if werr := sink.Write(buf[:n]); werr != nil {
				sink.discard()
				return nil, fmt.Errorf("formdata: buffering field %q: %w", field.Name, werr)
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			sink.discard()
			return nil, classify(src, err)
		}
	}

	content, tmpFile, err := sink.finish()
	if err != nil {
		return nil, fmt.Errorf("formdata: closing spill file for field %q: %w", field.Name, err)
	}
	field.content = content
	field.tmpFile = tmpFile
	return field, nil
}

func (d *Decoder) fieldLimit(name string) (int64, bool) {
	if name == FileField {
		return d.limits.MaxFileBytes, true
	}
	return 0, false
}

func parseBoundary(contentType string) (string, error) {
	if contentType == "" {
		return "", errNotMultipart
	}
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", err
	}
	if mediaType != "multipart/form-data" {
		return "", errNotMultipart
	}
	boundary := params["boundary"]
	if boundary == "" || len(boundary) > 70 {
		return "", errNoBoundary
	}
	return boundary, nil
}

// declaredFileName returns the filename parameter exactly as sent.
// Part.FileName is not used because it already strips directories.
func declaredFileName(part *multipart.Part) string {
	_, params, err := mime.ParseMediaType(part.Header.Get("Content-Disposition"))
	if err != nil {
		return ""
	}
	return params["filename"]
}

// sourceReader wraps the request body. It stops on context cancellation,
// remembers the last non-EOF error so classify can tell transport faults
// from broken framing, and watches for the closing delimiter.
type sourceReader struct {
	ctx context.Context
	r   io.Reader
	err error
	n   int64

	closing []byte // "\n--boundary--"
	window  []byte
	closed  bool
}

func newSourceReader(ctx context.Context, r io.Reader, boundary string) *sourceReader {
	closing := []byte("\n--" + boundary + "--")
	window := make([]byte, 1, len(closing)+readChunk)
	window[0] = '\n' // the stream start counts as a line start
	return &sourceReader{ctx: ctx, r: r, closing: closing, window: window}
}

func (s *sourceReader) Read(p []byte) (int, error) {
	if err := s.ctx.Err(); err != nil {
		s.err = err
		return 0, err
	}
	n, err := s.r.Read(p)
	s.n += int64(n)
	s.scan(p[:n])
	if err != nil && err != io.EOF {
		s.err = err
	}
	return n, err
}

func (s *sourceReader) scan(p []byte) {
	if s.closed || len(p) == 0 {
		return
	}
	s.window = append(s.window, p...)
	if bytes.Contains(s.window, s.closing) {
		s.closed = true
		s.window = nil
		return
	}
	if keep := len(s.closing) - 1; len(s.window) > keep {
		s.window = append(s.window[:0], s.window[len(s.window)-keep:]...)
	}
}

// spillBuffer keeps a payload in memory up to limit bytes and moves it to
// a temporary file once it grows past that.
type spillBuffer struct {
	limit int64
	dir   string
	mem   bytes.Buffer
	file  *os.File
}

func (s *spillBuffer) Write(p []byte) error {
	if s.file == nil && int64(s.mem.Len()+len(p)) <= s.limit {
		s.mem.Write(p)
		return nil
	}
	if s.file == nil {
		f, err := os.CreateTemp(s.dir, SpillPattern)
		if err != nil {
			return err
		}
		s.file = f
		if _, err := f.Write(s.mem.Bytes()); err != nil {
			return err
		}
		s.mem.Reset()
	}
	_, err := s.file.Write(p)
	return err
}

func (s *spillBuffer) finish() ([]byte, string, error) {
	if s.file == nil {
		return s.mem.Bytes(), "", nil
	}
	name := s.file.Name()
	if err := s.file.Close(); err != nil {
		os.Remove(name)
		return nil, "", err
	}
	return nil, name, nil
}

func (s *spillBuffer) discard() {
	if s.file != nil {
		name := s.file.Name()
		s.file.Close()
		os.Remove(name)
		s.file = nil
	}
	s.mem.Reset()
}
