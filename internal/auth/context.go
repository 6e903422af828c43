package auth

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

type subjectKey struct{}

// WithSubject returns a context carrying the authenticated subject.
func WithSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, subjectKey{}, subject)
}

// SubjectFromContext returns the authenticated subject, if one was established.
func SubjectFromContext(ctx context.Context) (string, bool) {
	subject, ok := ctx.Value(subjectKey{}).(string)
	return subject, ok
}

// RequireSubject extracts the authenticated subject from the request, or
// returns a 401 error for requests that reached the handler unauthenticated.
func RequireSubject(c echo.Context) (string, error) {
	subject, ok := SubjectFromContext(c.Request().Context())
	if !ok {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return subject, nil
}
