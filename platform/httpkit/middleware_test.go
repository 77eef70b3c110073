package httpkit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"codemasters_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

type staticAdminToken string

func (s staticAdminToken) GetAdminToken() string { return string(s) }

func init() {
	gin.SetMode(gin.TestMode)
}

func TestClientIP(t *testing.T) {
	cases := []struct {
		name      string
		forwarded string
		remote    string
		want      string
	}{
		{name: "first forwarded entry", forwarded: " 203.0.113.7 , 10.0.0.1", remote: "10.0.0.2:5000", want: "203.0.113.7"},
		{name: "peer address", remote: "198.51.100.4:41234", want: "198.51.100.4"},
		{name: "blank forwarded falls back", forwarded: " ,10.0.0.1", remote: "198.51.100.4:41234", want: "198.51.100.4"},
		{name: "peer without port", remote: "198.51.100.9", want: "198.51.100.9"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tc.remote
			if tc.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tc.forwarded)
			}
			if got := ClientIP(req); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestSharedSecretRequired(t *testing.T) {
	cases := []struct {
		name        string
		secret      string
		header      string
		wantStatus  int
		wantMessage string
	}{
		{name: "secret not configured", secret: "", header: "Bearer anything", wantStatus: http.StatusInternalServerError, wantMessage: "ADMIN_TOKEN is not configured."},
		{name: "missing header", secret: "s3cret", wantStatus: http.StatusUnauthorized, wantMessage: "Unauthorized."},
		{name: "wrong scheme", secret: "s3cret", header: "Basic s3cret", wantStatus: http.StatusUnauthorized, wantMessage: "Unauthorized."},
		{name: "wrong token", secret: "s3cret", header: "Bearer nope", wantStatus: http.StatusUnauthorized, wantMessage: "Unauthorized."},
		{name: "valid token with padding", secret: "s3cret", header: "Bearer  s3cret ", wantStatus: http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/admin", SharedSecretRequired(staticAdminToken(tc.secret), logger.Discard()), func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"ok": true})
			})

			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d", tc.wantStatus, rec.Code)
			}
			if tc.wantMessage == "" {
				return
			}
			var body ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.OK || body.Message != tc.wantMessage {
				t.Fatalf("unexpected body %+v", body)
			}
		})
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextRequestIDKey))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Header().Get(RequestIDHeader) != "abc-123" || rec.Body.String() != "abc-123" {
		t.Fatalf("expected inbound request id to be kept, got header=%q body=%q", rec.Header().Get(RequestIDHeader), rec.Body.String())
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Fatal("expected a generated request id")
	}
}
