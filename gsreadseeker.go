package chipqc

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
)

// Opener opens QC inputs that live either on local disk or in Google Storage.
// The storage client is only created the first time a gs:// path is seen, so
// purely local runs never need credentials.
type Opener struct {
	Context context.Context

	client *storage.Client
}

// NewOpener returns an Opener bound to ctx. If client is nil, one will be
// created lazily when needed.
func NewOpener(ctx context.Context, client *storage.Client) *Opener {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Opener{Context: ctx, client: client}
}

// IsGoogleStorage reports whether path points at a Google Storage object.
func IsGoogleStorage(path string) bool {
	return strings.HasPrefix(path, "gs://")
}

// Open returns a reader over the raw bytes at path.
func (o *Opener) Open(path string) (io.ReadCloser, error) {
	if !IsGoogleStorage(path) {
		return os.Open(path)
	}

	// Detect the bucket and the path to the actual file
	pathParts := strings.SplitN(strings.TrimPrefix(path, "gs://"), "/", 2)
	if len(pathParts) != 2 {
		return nil, fmt.Errorf("Tried to split your google storage path into 2 parts, but got %d: %v", len(pathParts), pathParts)
	}

	if o.client == nil {
		client, err := storage.NewClient(o.Context)
		if err != nil {
			return nil, pfx.Err(err)
		}
		o.client = client
	}

	rdr, err := o.client.Bucket(pathParts[0]).Object(pathParts[1]).NewReader(o.Context)
	if err != nil {
		return nil, pfx.Err(fmt.Errorf("%s: %s", path, err))
	}

	return rdr, nil
}

// OpenDecompressed is like Open, but transparently unwraps gzip, bzip2, xz,
// zlib and zip payloads.
func (o *Opener) OpenDecompressed(path string) (io.ReadCloser, error) {
	raw, err := o.Open(path)
	if err != nil {
		return nil, err
	}

	rc, err := MaybeDecompressReadCloser(raw)
	if err != nil {
		raw.Close()
		return nil, err
	}

	return rc, nil
}

// ReadAll opens path, decompressing if needed, and returns its full contents.
func (o *Opener) ReadAll(path string) ([]byte, error) {
	rc, err := o.OpenDecompressed(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return io.ReadAll(rc)
}

// Close releases the storage client, if one was created.
func (o *Opener) Close() error {
	if o.client != nil {
		return o.client.Close()
	}

	return nil
}
