package storage

import (
	"context"
	"io"
)

// Storage persists uploaded document files. Paths are relative names,
// never absolute; the implementation decides where they land.
type Storage interface {
	Save(ctx context.Context, name string, data io.Reader) (int64, error)
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Delete(ctx context.Context, name string) error
	Path(name string) string
}
