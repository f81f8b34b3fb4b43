package dataset

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// ErrNotFound is returned when the dataset does not exist.
var ErrNotFound = errors.New("dataset: not found")

// ErrUnsupportedEncoding is returned for an unknown text encoding name.
var ErrUnsupportedEncoding = errors.New("dataset: unsupported encoding")

// Supported encodings.
const (
	EncodingLatin1 = "latin-1"
	EncodingUTF8   = "utf-8"
)

// ObjectGetter is the subset of the S3 client used to fetch datasets.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Opener opens the raw bytes of a dataset location.
type Opener interface {
	Open(ctx context.Context, location string) (io.ReadCloser, error)
}

// FileOpener reads datasets from the local filesystem.
type FileOpener struct{}

// Open opens a local file. A missing file yields ErrNotFound.
func (FileOpener) Open(_ context.Context, location string) (io.ReadCloser, error) {
	f, err := os.Open(location)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, location)
		}
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	return f, nil
}

// S3Opener reads datasets from s3://bucket/key locations.
type S3Opener struct {
	client ObjectGetter
}

// NewS3Opener creates an opener backed by client.
func NewS3Opener(client ObjectGetter) *S3Opener {
	return &S3Opener{client: client}
}

// Open fetches the object. A missing bucket or key yields ErrNotFound.
func (o *S3Opener) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	bucket, key, err := ParseS3Location(location)
	if err != nil {
		return nil, err
	}

	resp, err := o.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, location)
		}
		var nf *types.NotFound
		if errors.As(err, &nf) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, location)
		}
		var nsb *types.NoSuchBucket
		if errors.As(err, &nsb) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, location)
		}
		return nil, fmt.Errorf("failed to get dataset object: %w", err)
	}
	return resp.Body, nil
}

// IsS3Location reports whether location uses the s3:// scheme.
func IsS3Location(location string) bool {
	return strings.HasPrefix(location, "s3://")
}

// ParseS3Location splits s3://bucket/key.
func ParseS3Location(location string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(location, "s3://")
	if !ok {
		return "", "", fmt.Errorf("not an s3 location: %q", location)
	}
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("s3 location needs a bucket and a key: %q", location)
	}
	return bucket, key, nil
}

// Decompress wraps r according to the extension of location: .gz, .zst and
// .lz4 are recognised, anything else is returned unchanged.
func Decompress(r io.Reader, location string) (io.ReadCloser, error) {
	switch strings.ToLower(path.Ext(location)) {
	case ".gz":
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to open gzip stream: %w", err)
		}
		return zr, nil
	case ".zst":
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to open zstd stream: %w", err)
		}
		return zr.IOReadCloser(), nil
	case ".lz4":
		return io.NopCloser(lz4.NewReader(r)), nil
	default:
		return io.NopCloser(r), nil
	}
}

// Decoder returns the text decoding for name. An empty name means latin-1.
func Decoder(name string) (*encoding.Decoder, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", EncodingLatin1, "latin1", "iso-8859-1":
		return charmap.ISO8859_1.NewDecoder(), nil
	case EncodingUTF8, "utf8":
		return unicode.UTF8BOM.NewDecoder(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedEncoding, name)
	}
}

// bufferedReader keeps the decoder from issuing tiny reads on network bodies.
func bufferedReader(r io.Reader) io.Reader {
	return bufio.NewReaderSize(r, 64*1024)
}
