package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func runChain(t *testing.T, mw echo.MiddlewareFunc, req *http.Request, handler echo.HandlerFunc) (echo.Context, *httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	err := mw(handler)(c)
	return c, rec, err
}

func TestRequestID_Generated(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c, rec, err := runChain(t, RequestID(), req, func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rid, _ := c.Get("request_id").(string)
	if rid == "" {
		t.Fatal("expected a generated request id")
	}
	if rec.Header().Get("X-Request-ID") != rid {
		t.Error("response header must echo the request id")
	}
}

func TestRequestID_HonorsIncomingHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "client-supplied")
	c, rec, err := runChain(t, RequestID(), req, func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rid, _ := c.Get("request_id").(string); rid != "client-supplied" {
		t.Errorf("expected the incoming id, got %q", rid)
	}
	if rec.Header().Get("X-Request-ID") != "client-supplied" {
		t.Error("response header must carry the incoming id")
	}
}

func TestLogger_EmitsRequestLine(t *testing.T) {
	var buf strings.Builder
	logger := zerolog.New(&buf)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/patients", nil)
	_, _, err := runChain(t, Logger(logger), req, func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	line := buf.String()
	if !strings.Contains(line, `"path":"/api/v1/patients"`) {
		t.Errorf("log line missing path: %s", line)
	}
	if !strings.Contains(line, `"method":"GET"`) {
		t.Errorf("log line missing method: %s", line)
	}
}

func TestLogger_StatusFromReturnedError(t *testing.T) {
	var buf strings.Builder
	logger := zerolog.New(&buf)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/hospitals/unknown", nil)
	_, _, err := runChain(t, Logger(logger), req, func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "hospital not found")
	})
	if err == nil {
		t.Fatal("expected the handler error to propagate")
	}
	line := buf.String()
	if !strings.Contains(line, `"status":404`) {
		t.Errorf("log line must carry the error's status: %s", line)
	}
	if !strings.Contains(line, `"level":"warn"`) {
		t.Errorf("client errors must log at warn: %s", line)
	}
}

func TestLogger_ServerErrorLevel(t *testing.T) {
	var buf strings.Builder
	logger := zerolog.New(&buf)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, _, err := runChain(t, Logger(logger), req, func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusInternalServerError, "boom")
	})
	if err == nil {
		t.Fatal("expected the handler error to propagate")
	}
	line := buf.String()
	if !strings.Contains(line, `"status":500`) || !strings.Contains(line, `"level":"error"`) {
		t.Errorf("server errors must log at error with status 500: %s", line)
	}
}

func TestRecovery_ConvertsPanic(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, _, err := runChain(t, Recovery(zerolog.Nop()), req, func(c echo.Context) error {
		panic("boom")
	})
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected an HTTP error, got %v", err)
	}
	if he.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", he.Code)
	}
}
