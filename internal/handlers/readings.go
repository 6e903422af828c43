package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/meterlog/meterlog/internal/auth"
	"github.com/meterlog/meterlog/internal/readings"
	"github.com/meterlog/meterlog/internal/storage"
)

// ReadingsHandler serves the /readings routes. All of them require an
// established identity; the gate itself never rejects, so enforcement
// happens here via auth.RequireSubject.
type ReadingsHandler struct {
	service *readings.Service
	logger  *slog.Logger
}

// NewReadingsHandler creates a readings handler over the ingestion service.
func NewReadingsHandler(log *slog.Logger, service *readings.Service) *ReadingsHandler {
	return &ReadingsHandler{
		service: service,
		logger:  log.With(slog.String("handler", "readings")),
	}
}

// Register mounts the readings routes on the Echo instance.
func (h *ReadingsHandler) Register(e *echo.Echo) {
	e.POST("/readings", h.Create)
	e.GET("/readings", h.List)
	e.GET("/readings/:id", h.Get)
}

// Create accepts a multipart submission with an "image" file part and a
// "timestamp" form field (RFC 3339 with offset) and records the reading.
func (h *ReadingsHandler) Create(c echo.Context) error {
	subject, err := auth.RequireSubject(c)
	if err != nil {
		return err
	}

	raw := c.FormValue("timestamp")
	if raw == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "timestamp is required")
	}
	timestamp, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "timestamp must be RFC 3339")
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "image file is required")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "image file is not readable")
	}
	defer func() {
		_ = file.Close()
	}()

	reading, err := h.service.Create(c.Request().Context(), readings.CreateInput{
		Payload:          file,
		Size:             fileHeader.Size,
		ContentType:      fileHeader.Header.Get(echo.HeaderContentType),
		OriginalFilename: fileHeader.Filename,
		Timestamp:        timestamp,
	})
	if err != nil {
		if errors.Is(err, readings.ErrUnsupportedMediaType) {
			return echo.NewHTTPError(http.StatusUnsupportedMediaType, err.Error())
		}
		if errors.Is(err, storage.ErrStoreFailed) {
			h.logger.Error("store reading failed", slog.Any("error", err))
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to store image")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.logger.Info("reading submitted",
		slog.String("subject", subject),
		slog.Int("id", reading.ID),
	)
	return c.JSON(http.StatusCreated, reading)
}

// List returns all recorded readings.
func (h *ReadingsHandler) List(c echo.Context) error {
	if _, err := auth.RequireSubject(c); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.service.List())
}

// Get returns one reading by id. A non-integer id is a client error, an
// unknown one is a 404.
func (h *ReadingsHandler) Get(c echo.Context) error {
	if _, err := auth.RequireSubject(c); err != nil {
		return err
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id must be an integer")
	}
	reading, ok := h.service.Get(id)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "reading not found")
	}
	return c.JSON(http.StatusOK, reading)
}
