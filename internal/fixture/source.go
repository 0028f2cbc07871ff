package fixture

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/lightbnb/lightbnb/config"
	"github.com/lightbnb/lightbnb/internal/storage"
)

// ErrUnknownSource is returned for an unsupported FIXTURE_SOURCE.
var ErrUnknownSource = errors.New("unknown fixture source")

// Source opens named fixture collections.
type Source interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Close() error
}

// DirSource reads collections from a local directory.
type DirSource struct {
	dir string
}

func NewDirSource(dir string) *DirSource {
	return &DirSource{dir: dir}
}

func (s *DirSource) Open(_ context.Context, name string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(s.dir, name))
}

func (s *DirSource) Close() error { return nil }

// BucketSource reads collections from an object-storage bucket under prefix.
type BucketSource struct {
	storage *storage.Storage
	prefix  string
	closer  io.Closer
}

func NewBucketSource(store *storage.Storage, prefix string) *BucketSource {
	return &BucketSource{storage: store, prefix: prefix}
}

func (s *BucketSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	key := path.Join(s.prefix, name)
	r, err := s.storage.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("open %s/%s: %w", s.storage.Bucket(), key, err)
	}
	return r, nil
}

func (s *BucketSource) Close() error {
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

// NewSource builds the source selected by cfg.Fixtures.Source.
func NewSource(ctx context.Context, cfg config.Config) (Source, error) {
	switch cfg.Fixtures.Source {
	case config.FixtureSourceDir:
		return NewDirSource(cfg.Fixtures.Dir), nil
	case config.FixtureSourceMinio:
		client, err := storage.NewMinioClient(cfg.Minio)
		if err != nil {
			return nil, err
		}
		return NewBucketSource(storage.NewStorage(client), cfg.Fixtures.Prefix), nil
	case config.FixtureSourceGCS:
		client, err := storage.NewGCSClient(ctx, cfg.GCS)
		if err != nil {
			return nil, err
		}
		source := NewBucketSource(storage.NewStorage(client), cfg.Fixtures.Prefix)
		source.closer = client
		return source, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, cfg.Fixtures.Source)
	}
}
