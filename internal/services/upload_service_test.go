// filepath: internal/services/upload_service_test.go
package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"lanupload/internal/formdata"
	"lanupload/internal/models"
	"lanupload/internal/storage"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockStore is a mock implementation of storage.Store.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Write(ctx context.Context, name string, r io.Reader) (int64, error) {
	data, _ := io.ReadAll(r)
	args := m.Called(name, data)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStore) Location() string { return "mock:" }

type part struct {
	field    string
	filename string
	data     string
}

func multipartBody(t *testing.T, parts ...part) (string, []byte) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, p := range parts {
		var (
			pw  io.Writer
			err error
		)
		if p.filename != "" {
			pw, err = w.CreateFormFile(p.field, p.filename)
		} else {
			pw, err = w.CreateFormField(p.field)
		}
		require.NoError(t, err)
		_, err = io.WriteString(pw, p.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return w.FormDataContentType(), buf.Bytes()
}

func setupDisk(t *testing.T, total, file int64) (*uploadService, string) {
	t.Helper()
	root := t.TempDir()
	store, err := storage.NewDiskStore(root)
	require.NoError(t, err)
	limits := formdata.Limits{MaxTotalBytes: total, MaxFileBytes: file, TempDir: t.TempDir()}
	return NewUploadService(limits, store), store.Root()
}

func listFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestCommit_StoresFile(t *testing.T) {
	service, root := setupDisk(t, 1000, 1000)
	ct, body := multipartBody(t, part{field: "file", filename: "a.txt", data: strings.Repeat("x", 500)})

	result, err := service.Commit(context.Background(), ct, bytes.NewReader(body))

	require.NoError(t, err)
	assert.Equal(t, models.Stored("a.txt", 500), result)
	assert.True(t, result.IsStored())

	data, err := os.ReadFile(filepath.Join(root, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("x", 500), string(data))
}

func TestCommit_FileOverFileLimit(t *testing.T) {
	service, root := setupDisk(t, 1000, 1000)
	ct, body := multipartBody(t, part{field: "file", filename: "a.txt", data: strings.Repeat("x", 1001)})

	result, err := service.Commit(context.Background(), ct, bytes.NewReader(body))

	require.NoError(t, err)
	assert.Equal(t, models.Rejected(models.FileTooLarge), result)
	assert.Empty(t, listFiles(t, root))
}

func TestCommit_ReservedNameIsStored(t *testing.T) {
	service, root := setupDisk(t, 1000, 1000)
	ct, body := multipartBody(t, part{field: "file", filename: ".lanupload-01ABC.tmp", data: "data"})

	result, err := service.Commit(context.Background(), ct, bytes.NewReader(body))

	require.NoError(t, err)
	assert.Equal(t, models.Stored("_.lanupload-01ABC.tmp", 4), result)
	assert.Equal(t, []string{"_.lanupload-01ABC.tmp"}, listFiles(t, root))
}

func TestCommit_FileOverFileLimitWithinTotal(t *testing.T) {
	service, root := setupDisk(t, 1000, 100)
	ct, body := multipartBody(t, part{field: "file", filename: "a.txt", data: strings.Repeat("x", 101)})

	result, err := service.Commit(context.Background(), ct, bytes.NewReader(body))

	require.NoError(t, err)
	assert.Equal(t, models.Rejected(models.FileTooLarge), result)
	assert.Empty(t, listFiles(t, root))
}

func TestCommit_TotalOverLimit(t *testing.T) {
	service, root := setupDisk(t, 1000, 1000)
	ct, body := multipartBody(t,
		part{field: "notes", data: strings.Repeat("n", 900)},
		part{field: "file", filename: "a.txt", data: strings.Repeat("x", 200)},
	)

	result, err := service.Commit(context.Background(), ct, bytes.NewReader(body))

	require.NoError(t, err)
	assert.Equal(t, models.Rejected(models.FileTooLarge), result)
	assert.Empty(t, listFiles(t, root))
}

func TestCommit_NoFileField(t *testing.T) {
	store := new(MockStore)
	service := NewUploadService(formdata.Limits{MaxTotalBytes: 1000, MaxFileBytes: 1000}, store)
	ct, body := multipartBody(t, part{field: "notes", data: "hello"})

	result, err := service.Commit(context.Background(), ct, bytes.NewReader(body))

	require.NoError(t, err)
	assert.Equal(t, models.Rejected(models.NoFileProvided), result)
	store.AssertNotCalled(t, "Write", mock.Anything, mock.Anything)
}

func TestCommit_SameNameTwice(t *testing.T) {
	service, root := setupDisk(t, 1000, 1000)

	ct, body := multipartBody(t, part{field: "file", filename: "a.txt", data: "first version"})
	_, err := service.Commit(context.Background(), ct, bytes.NewReader(body))
	require.NoError(t, err)

	ct, body = multipartBody(t, part{field: "file", filename: "a.txt", data: "second"})
	result, err := service.Commit(context.Background(), ct, bytes.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, "a.txt", result.Name)

	data, err := os.ReadFile(filepath.Join(root, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
	assert.Equal(t, []string{"a.txt"}, listFiles(t, root))
}

func TestCommit_TruncatedBody(t *testing.T) {
	service, root := setupDisk(t, 1000, 1000)
	ct, body := multipartBody(t, part{field: "file", filename: "a.txt", data: strings.Repeat("x", 500)})

	result, err := service.Commit(context.Background(), ct, bytes.NewReader(body[:len(body)-60]))

	require.NoError(t, err)
	assert.Equal(t, models.Rejected(models.BodyTruncated), result)
	assert.Empty(t, listFiles(t, root))
}

func TestCommit_ClientGoneAway(t *testing.T) {
	service, root := setupDisk(t, 1000, 1000)
	ct, body := multipartBody(t, part{field: "file", filename: "a.txt", data: "data"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := service.Commit(ctx, ct, bytes.NewReader(body))

	require.NoError(t, err)
	assert.Equal(t, models.Rejected(models.BodyTruncated), result)
	assert.Empty(t, listFiles(t, root))
}

func TestCommit_MalformedContentType(t *testing.T) {
	service, _ := setupDisk(t, 1000, 1000)

	_, err := service.Commit(context.Background(), "text/plain", strings.NewReader("hello"))

	assert.ErrorIs(t, err, ErrMalformedRequest)
}

type brokenReader struct{}

func (brokenReader) Read([]byte) (int, error) { return 0, errors.New("controller fault") }

func TestCommit_TransportFault(t *testing.T) {
	service, _ := setupDisk(t, 1000, 1000)

	_, err := service.Commit(context.Background(), "multipart/form-data; boundary=abc", brokenReader{})

	assert.ErrorIs(t, err, ErrTransport)
}

func TestCommit_FirstFileWins(t *testing.T) {
	store := new(MockStore)
	store.On("Write", "one.txt", []byte("1")).Return(int64(1), nil).Once()
	service := NewUploadService(formdata.Limits{MaxTotalBytes: 1000, MaxFileBytes: 1000}, store)
	ct, body := multipartBody(t,
		part{field: "file", filename: "one.txt", data: "1"},
		part{field: "file", filename: "two.txt", data: "22"},
	)

	result, err := service.Commit(context.Background(), ct, bytes.NewReader(body))

	require.NoError(t, err)
	assert.Equal(t, models.Stored("one.txt", 1), result)
	store.AssertExpectations(t)
	store.AssertNumberOfCalls(t, "Write", 1)
}

func TestCommit_NamesAreSanitized(t *testing.T) {
	tests := []struct {
		filename string
		expected string
	}{
		{"../../etc/passwd", "passwd"},
		{`C:\Users\me\photo.jpg`, "photo.jpg"},
		{"", PlaceholderName},
		{"..", PlaceholderName},
	}

	for _, tc := range tests {
		t.Run(tc.expected, func(t *testing.T) {
			store := new(MockStore)
			store.On("Write", tc.expected, []byte("data")).Return(int64(4), nil).Once()
			service := NewUploadService(formdata.Limits{MaxTotalBytes: 1000, MaxFileBytes: 1000}, store)

			var ct string
			var body []byte
			if tc.filename == "" {
				// a "file" field without a filename parameter
				ct, body = multipartBody(t, part{field: "file", data: "data"})
			} else {
				ct, body = multipartBody(t, part{field: "file", filename: tc.filename, data: "data"})
			}

			result, err := service.Commit(context.Background(), ct, bytes.NewReader(body))
			require.NoError(t, err)
			assert.Equal(t, tc.expected, result.Name)
			store.AssertExpectations(t)
		})
	}
}

func TestCommit_StorageFailure(t *testing.T) {
	store := new(MockStore)
	store.On("Write", "a.txt", []byte("data")).Return(int64(0), errors.New("disk full")).Once()
	service := NewUploadService(formdata.Limits{MaxTotalBytes: 1000, MaxFileBytes: 1000}, store)
	ct, body := multipartBody(t, part{field: "file", filename: "a.txt", data: "data"})

	result, err := service.Commit(context.Background(), ct, bytes.NewReader(body))

	assert.ErrorIs(t, err, ErrStorage)
	assert.False(t, result.IsStored())
}

func TestCommit_RemovesSpillFiles(t *testing.T) {
	spill := t.TempDir()
	store, err := storage.NewDiskStore(t.TempDir())
	require.NoError(t, err)
	service := NewUploadService(formdata.Limits{MaxTotalBytes: 1 << 20, MaxFileBytes: 1 << 20, MemoryBytes: 64, TempDir: spill}, store)
	ct, body := multipartBody(t, part{field: "file", filename: "big.bin", data: strings.Repeat("b", 64<<10)})

	result, err := service.Commit(context.Background(), ct, bytes.NewReader(body))

	require.NoError(t, err)
	assert.Equal(t, int64(64<<10), result.Size)
	assert.Empty(t, listFiles(t, spill))
}

func TestDestinationName(t *testing.T) {
	long := strings.Repeat("é", 200) + ".txt"

	tests := []struct {
		input    string
		expected string
	}{
		{"a.txt", "a.txt"},
		{"", "File"},
		{".", "File"},
		{"..", "File"},
		{"/", "File"},
		{"dir/", "dir"},
		{"../../secret.txt", "secret.txt"},
		{`..\..\win.ini`, "win.ini"},
		{"bad\x00name\n.txt", "badname.txt"},
		{"  spaced.txt  ", "spaced.txt"},
		{"photo 2024.jpg", "photo 2024.jpg"},
		{".lanupload-01ABC.tmp", "_.lanupload-01ABC.tmp"},
		{"dir/.lanupload-x.tmp", "_.lanupload-x.tmp"},
		{".lanupload-notes.txt", ".lanupload-notes.txt"},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.expected, DestinationName(tc.input), "Mismatch for input: %q", tc.input)
	}

	got := DestinationName(long)
	assert.LessOrEqual(t, len(got), 255)
	assert.True(t, strings.HasSuffix(got, ".txt"))
	assert.True(t, strings.HasPrefix(got, "éé"))
}
