package formdata

import (
	"bytes"
	"errors"
	"io"
	"os"
)

// Field is one decoded multipart field. FileName and ContentType are copied
// verbatim from the part headers and are not trusted.
type Field struct {
	Name        string
	FileName    string
	ContentType string
	Size        int64

	content []byte
	tmpFile string
}

// Open returns a seekable reader over the field payload.
func (f *Field) Open() (io.ReadSeekCloser, error) {
	if f.tmpFile != "" {
		file, err := os.Open(f.tmpFile)
		if err != nil {
			return nil, err
		}
		return file, nil
	}
	return memoryPayload{bytes.NewReader(f.content)}, nil
}

type memoryPayload struct {
	*bytes.Reader
}

func (memoryPayload) Close() error { return nil }

// Bytes returns the whole payload, reading it back from disk if it was spilled.
func (f *Field) Bytes() ([]byte, error) {
	if f.tmpFile != "" {
		return os.ReadFile(f.tmpFile)
	}
	return f.content, nil
}

// Spilled reports whether the payload lives in a temporary file.
func (f *Field) Spilled() bool { return f.tmpFile != "" }

// Form holds the fields of one request in arrival order.
type Form struct {
	Fields []*Field
}

// File returns every field with the given name, in arrival order.
func (f *Form) File(name string) []*Field {
	var out []*Field
	for _, field := range f.Fields {
		if field.Name == name {
			out = append(out, field)
		}
	}
	return out
}

// First returns the first field with the given name, or nil.
func (f *Form) First(name string) *Field {
	for _, field := range f.Fields {
		if field.Name == name {
			return field
		}
	}
	return nil
}

// TotalSize is the decoded payload size of all fields.
func (f *Form) TotalSize() int64 {
	var n int64
	for _, field := range f.Fields {
		n += field.Size
	}
	return n
}

// RemoveAll deletes any temporary files backing the form.
func (f *Form) RemoveAll() error {
	var errs []error
	for _, field := range f.Fields {
		if field.tmpFile == "" {
			continue
		}
		if err := os.Remove(field.tmpFile); err != nil && !os.IsNotExist(err) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
