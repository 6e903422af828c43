package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func newGateTestCodec(t *testing.T) *TokenCodec {
	t.Helper()
	codec, err := NewTokenCodec(testSecret, time.Hour)
	if err != nil {
		t.Fatalf("NewTokenCodec failed: %v", err)
	}
	return codec
}

// runGate sends one request through the middleware and reports the subject
// the downstream handler observed.
func runGate(t *testing.T, codec *TokenCodec, mutate func(*http.Request)) (string, bool) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/readings", nil)
	if mutate != nil {
		mutate(req)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var gotSubject string
	var gotOK bool
	handler := JWTMiddleware(codec)(func(c echo.Context) error {
		gotSubject, gotOK = SubjectFromContext(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("middleware returned error: %v", err)
	}
	return gotSubject, gotOK
}

func TestGateNoHeaderPassesThroughUnauthenticated(t *testing.T) {
	codec := newGateTestCodec(t)
	if _, ok := runGate(t, codec, nil); ok {
		t.Fatal("expected no identity without an Authorization header")
	}
}

func TestGateNonBearerSchemePassesThroughUnauthenticated(t *testing.T) {
	codec := newGateTestCodec(t)
	_, ok := runGate(t, codec, func(req *http.Request) {
		req.Header.Set(echo.HeaderAuthorization, "Basic dXNlcjpwYXNz")
	})
	if ok {
		t.Fatal("expected no identity for a non-Bearer scheme")
	}
}

func TestGateInvalidTokenPassesThroughUnauthenticated(t *testing.T) {
	codec := newGateTestCodec(t)
	_, ok := runGate(t, codec, func(req *http.Request) {
		req.Header.Set(echo.HeaderAuthorization, "Bearer not.a.token")
	})
	if ok {
		t.Fatal("expected no identity for an invalid token")
	}
}

func TestGateExpiredTokenPassesThroughUnauthenticated(t *testing.T) {
	expired, err := NewTokenCodec(testSecret, -time.Minute)
	if err != nil {
		t.Fatalf("NewTokenCodec failed: %v", err)
	}
	token, err := expired.Issue("alice")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	codec := newGateTestCodec(t)
	_, ok := runGate(t, codec, func(req *http.Request) {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	})
	if ok {
		t.Fatal("expected no identity for an expired token")
	}
}

func TestGateValidTokenEstablishesSubject(t *testing.T) {
	codec := newGateTestCodec(t)
	token, err := codec.Issue("alice")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	subject, ok := runGate(t, codec, func(req *http.Request) {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	})
	if !ok {
		t.Fatal("expected identity to be established")
	}
	if subject != "alice" {
		t.Fatalf("expected subject alice, got %q", subject)
	}
}

func TestGateNeverOverridesExistingIdentity(t *testing.T) {
	codec := newGateTestCodec(t)
	token, err := codec.Issue("mallory")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	subject, ok := runGate(t, codec, func(req *http.Request) {
		*req = *req.WithContext(WithSubject(req.Context(), "upstream"))
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	})
	if !ok || subject != "upstream" {
		t.Fatalf("expected pre-established identity to survive, got %q (ok=%v)", subject, ok)
	}
}

func TestRequireSubject(t *testing.T) {
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/readings", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	if _, err := RequireSubject(c); err == nil {
		t.Fatal("expected error for unauthenticated request")
	} else if he, okErr := err.(*echo.HTTPError); !okErr || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}

	req = req.WithContext(WithSubject(req.Context(), "alice"))
	c = e.NewContext(req, httptest.NewRecorder())
	subject, err := RequireSubject(c)
	if err != nil {
		t.Fatalf("RequireSubject failed: %v", err)
	}
	if subject != "alice" {
		t.Fatalf("expected subject alice, got %q", subject)
	}
}
