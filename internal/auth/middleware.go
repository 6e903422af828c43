package auth

import (
	"strings"

	"github.com/labstack/echo/v4"
)

const bearerPrefix = "Bearer "

// JWTMiddleware returns the authentication gate. It inspects the
// Authorization header on every request and, when a valid bearer token is
// presented, attaches the token's subject to the request context. It never
// rejects a request: requests without a usable token simply continue
// unauthenticated, and route handlers decide via RequireSubject whether that
// is acceptable. An identity established by an earlier stage is left
// untouched and the codec is not consulted at all.
func JWTMiddleware(codec *TokenCodec) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if _, ok := SubjectFromContext(req.Context()); ok {
				return next(c)
			}

			header := req.Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(header, bearerPrefix) {
				return next(c)
			}
			token := strings.TrimPrefix(header, bearerPrefix)

			if !codec.IsValid(token) {
				return next(c)
			}
			// Re-decode after the validity check: a failure here leaves the
			// request unauthenticated rather than partially annotated.
			subject, err := codec.Verify(token)
			if err != nil {
				return next(c)
			}

			c.SetRequest(req.WithContext(WithSubject(req.Context(), subject)))
			return next(c)
		}
	}
}
