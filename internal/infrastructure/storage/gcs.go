package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCS writes objects into a Google Cloud Storage bucket.
type GCS struct {
	client *gcs.Client
	Bucket string
}

// NewGCS creates the client. If credsPath is empty, ADC is used.
func NewGCS(ctx context.Context, bucket, credsPath string) (*GCS, error) {
	if bucket == "" {
		return nil, errors.New("storage/gcs: bucket not configured")
	}
	var (
		c   *gcs.Client
		err error
	)
	if credsPath == "" {
		c, err = gcs.NewClient(ctx)
	} else {
		c, err = gcs.NewClient(ctx, option.WithCredentialsFile(credsPath))
	}
	if err != nil {
		return nil, err
	}
	return &GCS{client: c, Bucket: bucket}, nil
}

func (g *GCS) Put(ctx context.Context, key, contentType string, r io.Reader) (Stored, error) {
	wc := g.client.Bucket(g.Bucket).Object(key).NewWriter(ctx)
	wc.ContentType = contentType
	wc.ChunkSize = 0 // disable chunking for small files
	if _, err := io.Copy(wc, r); err != nil {
		_ = wc.Close()
		return Stored{}, err
	}
	if err := wc.Close(); err != nil {
		return Stored{}, err
	}
	return Stored{URL: PublicURL(g.Bucket, key), ObjectID: key}, nil
}

func (g *GCS) Delete(ctx context.Context, key string) error {
	err := g.client.Bucket(g.Bucket).Object(key).Delete(ctx)
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return nil
	}
	return err
}

func (g *GCS) Close() error { return g.client.Close() }

// PublicURL builds a public URL for an object (assuming public read access)
func PublicURL(bucket, key string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, key)
}

var _ Driver = (*GCS)(nil)
