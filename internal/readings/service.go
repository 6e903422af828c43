// Package readings ingests meter readings: validated photo payloads stored
// through a pluggable backend plus in-memory metadata records.
package readings

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/meterlog/meterlog/internal/storage"
)

// ErrUnsupportedMediaType is returned for payloads whose declared content
// type is not an allowed image type. It is raised before any storage or
// metadata work happens.
var ErrUnsupportedMediaType = errors.New("unsupported media type")

var allowedImageTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
	"image/gif":  {},
}

// CreateInput carries one reading submission.
type CreateInput struct {
	Payload          io.Reader
	Size             int64
	ContentType      string
	OriginalFilename string
	Timestamp        time.Time
}

// Service coordinates photo persistence and metadata records. It owns
// neither: the store owns the bytes, the repository owns the id table.
// Storage always happens before the metadata insert, so a storage failure
// leaves no orphaned record.
type Service struct {
	store  storage.Store
	repo   *Repository
	logger *slog.Logger
}

// NewService creates a readings service over the given store and repository.
func NewService(log *slog.Logger, store storage.Store, repo *Repository) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		store:  store,
		repo:   repo,
		logger: log.With(slog.String("service", "readings")),
	}
}

// Create validates the content type, persists the payload, and records the
// metadata. Storage failures propagate unchanged and leave no record behind.
func (s *Service) Create(ctx context.Context, input CreateInput) (Reading, error) {
	if _, ok := allowedImageTypes[input.ContentType]; !ok {
		return Reading{}, fmt.Errorf("%w: %q", ErrUnsupportedMediaType, input.ContentType)
	}

	key, err := s.store.Put(ctx, storage.PutInput{
		Payload:          input.Payload,
		Size:             input.Size,
		ContentType:      input.ContentType,
		OriginalFilename: input.OriginalFilename,
		Timestamp:        input.Timestamp,
	})
	if err != nil {
		return Reading{}, err
	}

	saved := s.repo.Save(Reading{
		Timestamp: input.Timestamp,
		ImageKey:  key,
	})
	s.logger.Info("reading created",
		slog.Int("id", saved.ID),
		slog.String("key", saved.ImageKey),
	)
	return saved, nil
}

// List returns all recorded readings in insertion order.
func (s *Service) List() []Reading {
	return s.repo.FindAll()
}

// Get returns the reading with the given id; absent is not an error.
func (s *Service) Get(id int) (Reading, bool) {
	return s.repo.FindByID(id)
}
