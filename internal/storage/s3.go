// filepath: internal/storage/s3.go
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API is the part of *s3.Client the store needs.
type S3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3ClientOptions configures NewS3Client. Empty credentials fall back to the
// default AWS credential chain; a non-empty Endpoint targets an
// S3-compatible server such as MinIO.
type S3ClientOptions struct {
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

var loadDefaultAWSConfig = config.LoadDefaultConfig

// NewS3Client builds an S3 client from options.
func NewS3Client(ctx context.Context, opts S3ClientOptions) (*s3.Client, error) {
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(opts.Region)}
	if opts.AccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}

	cfg, err := loadDefaultAWSConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("could not load aws config: %w", err)
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// S3Store puts each upload as one object under prefix+name. PutObject
// replaces an existing key atomically.
type S3Store struct {
	client S3API
	bucket string
	prefix string
}

// NewS3Store returns a store writing into bucket.
func NewS3Store(client S3API, bucket, prefix string) *S3Store {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &S3Store{client: client, bucket: bucket, prefix: prefix}
}

func (s *S3Store) Location() string { return "s3://" + s.bucket + "/" + s.prefix }

// Write uploads r. A seekable r is sent as is so the SDK can sign and size
// the request; anything else is counted while being streamed.
func (s *S3Store) Write(ctx context.Context, name string, r io.Reader) (int64, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	key := path.Join(s.prefix, name)

	body := &countingReader{r: r}
	var payload io.Reader = body
	if rs, ok := r.(io.ReadSeeker); ok {
		payload = &countingReadSeeker{countingReader: body, seeker: rs}
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   payload,
		Metadata: map[string]string{
			"original-filename": name,
			"upload-time":       time.Now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return 0, fmt.Errorf("s3 upload of %q failed: %w", key, err)
	}
	return body.n, nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// countingReadSeeker keeps the count correct when the SDK rewinds the body
// to hash it before sending.
type countingReadSeeker struct {
	*countingReader
	seeker io.Seeker
}

func (c *countingReadSeeker) Seek(offset int64, whence int) (int64, error) {
	pos, err := c.seeker.Seek(offset, whence)
	if err == nil {
		c.n = pos
	}
	return pos, err
}
