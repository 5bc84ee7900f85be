package media

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
)

// Object is a stored media file: the durable public URL handed to clients and
// the key used to delete it later.
type Object struct {
	Key string
	URL string
}

// Store is the external media collaborator. Uploads must complete before the
// referencing account row is written.
type Store interface {
	Upload(ctx context.Context, filename, contentType string, body io.Reader) (*Object, error)
	Delete(ctx context.Context, key string) error
}

// objectKey partitions uploads by date and randomizes the name so concurrent
// uploads of identically named files never collide.
func objectKey(filename string) string {
	d := time.Now()
	return fmt.Sprintf("uploads/%d/%d/%d/%s%s", d.Year(), d.Month(), d.Day(), uuid.New(), path.Ext(filename))
}
