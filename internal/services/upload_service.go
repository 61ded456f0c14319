// filepath: internal/services/upload_service.go
package services

import (
	"context"
	"fmt"
	"io"
	"lanupload/internal/formdata"
	"lanupload/internal/logging"
	"lanupload/internal/models"
	"lanupload/internal/storage"
	"path"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
)

// PlaceholderName is used when the client sends no usable filename.
const PlaceholderName = "File"

const maxNameBytes = 255

var _ UploadService = (*uploadService)(nil)

type uploadService struct {
	decoder *formdata.Decoder
	store   storage.Store
}

// NewUploadService creates an UploadService writing into store.
func NewUploadService(limits formdata.Limits, store storage.Store) *uploadService {
	return &uploadService{
		decoder: formdata.NewDecoder(limits),
		store:   store,
	}
}

// Commit decodes the body and writes the first "file" field.
// Client errors come back as a rejected result with a nil error; a
// malformed content type, a transport fault or a storage failure is
// returned as an error.
func (s *uploadService) Commit(ctx context.Context, contentType string, body io.Reader) (models.UploadResult, error) {
	form, err := s.decoder.Decode(ctx, contentType, body)
	if err != nil {
		return rejectionFor(err)
	}
	defer func() {
		if err := form.RemoveAll(); err != nil {
			logging.FromContext(ctx).Warnf("Failed to remove spilled upload data: %v", err)
		}
	}()

	field := form.First(formdata.FileField)
	if field == nil {
		return models.Rejected(models.NoFileProvided), nil
	}

	name := DestinationName(field.FileName)
	payload, err := field.Open()
	if err != nil {
		return models.UploadResult{}, fmt.Errorf("%w: opening payload of %q: %w", ErrStorage, name, err)
	}
	defer payload.Close()

	size, err := s.store.Write(ctx, name, payload)
	if err != nil {
		return models.UploadResult{}, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	logging.FromContext(ctx).WithFields(logrus.Fields{
		"file":         name,
		"size":         size,
		"content_type": field.ContentType,
		"location":     s.store.Location(),
	}).Infof("File `%s` uploaded", name)

	return models.Stored(name, size), nil
}

func rejectionFor(err error) (models.UploadResult, error) {
	kind, ok := formdata.KindOf(err)
	if !ok {
		return models.UploadResult{}, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	switch kind {
	case formdata.TotalTooLarge, formdata.FieldTooLarge:
		return models.Rejected(models.FileTooLarge), nil
	case formdata.IncompleteBody:
		return models.Rejected(models.BodyTruncated), nil
	default:
		return models.UploadResult{}, fmt.Errorf("%w: %w", ErrMalformedRequest, err)
	}
}

// DestinationName turns a client-supplied filename into a flat name that is
// safe to store. Only the last path element survives, control characters
// are dropped, and empty or dot names become PlaceholderName. Names that
// look like in-flight write files get an underscore prefix.
func DestinationName(raw string) string {
	name := path.Base(strings.ReplaceAll(raw, `\`, "/"))
	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, name)
	name = strings.TrimSpace(name)
	if storage.IsReservedName(name) {
		name = "_" + name
	}

	if len(name) > maxNameBytes {
		name = truncateName(name, maxNameBytes)
	}

	switch name {
	case "", ".", "..", "/":
		return PlaceholderName
	}
	return name
}

// truncateName cuts name to at most n bytes on a rune boundary, keeping a
// short extension if there is one.
func truncateName(name string, n int) string {
	ext := path.Ext(name)
	if len(ext) > 16 {
		ext = ""
	}
	stem := name[:len(name)-len(ext)]
	limit := n - len(ext)
	for limit > 0 && !utf8.RuneStart(stem[limit]) {
		limit--
	}
	return stem[:limit] + ext
}
