// Package storage provides pluggable persistence for reading images: a local
// filesystem backend and a MinIO object store backend sharing one key scheme.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
)

// ErrStoreFailed wraps any I/O or transport failure during a store operation.
// The underlying cause is preserved in the error chain.
var ErrStoreFailed = errors.New("storage failure")

// Store persists a binary payload under a computed key and returns that key.
// The backend is selected once at startup; request handling never branches on
// configuration.
type Store interface {
	Put(ctx context.Context, input PutInput) (string, error)
}

// PutInput carries one payload to persist.
type PutInput struct {
	// Payload provides the raw bytes; the caller is responsible for closing.
	Payload io.Reader
	// Size is the payload length in bytes, or -1 if unknown.
	Size int64
	// ContentType is the declared MIME type of the payload.
	ContentType string
	// OriginalFilename is the client-supplied filename, used only for its
	// extension. May be empty.
	OriginalFilename string
	// Timestamp is the reading's instant; it determines the date partition.
	Timestamp time.Time
}

// Key builds the backend-relative object key for a payload:
// YYYY/MM/DD/reading_<uuid><ext>. The date partition comes from the
// timestamp's own calendar fields, not from a UTC normalization, so a reading
// files under the day of its own offset. The extension is taken from the
// original filename, or ".jpg" when the filename is empty or has none.
func Key(timestamp time.Time, originalFilename string) string {
	ext := path.Ext(originalFilename)
	if ext == "" {
		ext = ".jpg"
	}
	year, month, day := timestamp.Date()
	return fmt.Sprintf("%04d/%02d/%02d/reading_%s%s", year, int(month), day, uuid.NewString(), ext)
}
