package http

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/liaison-server/internal/auth"
	"github.com/vovakirdan/liaison-server/internal/config"
	"github.com/vovakirdan/liaison-server/internal/service/notebook"
	"github.com/vovakirdan/liaison-server/internal/store"
	"github.com/vovakirdan/liaison-server/internal/store/memory"
)

// createTestServer returns a server over a seeded in-memory store.
func createTestServer(t *testing.T, mutate func(*config.Config)) *http.Server {
	t.Helper()

	gin.SetMode(gin.TestMode)

	st := memory.New()
	if err := store.Seed(context.Background(), st, time.Now()); err != nil {
		t.Fatalf("failed to seed store: %v", err)
	}

	cfg := config.Default()
	cfg.Addr = ":0"
	cfg.ReadHeaderTimeout = time.Second
	cfg.ShutdownTimeout = time.Second
	if mutate != nil {
		mutate(&cfg)
	}

	disabledLogger := zerolog.New(nil)
	return NewServer(notebook.New(st), &cfg, &disabledLogger)
}

// doRequest sends a request with the claim headers set when role is non-empty.
func doRequest(t *testing.T, h http.Handler, method, path, role, name, body string) *httptest.ResponseRecorder {
	t.Helper()

	var headers map[string]string
	if role != "" {
		headers = map[string]string{
			auth.HeaderUserType: auth.EncodeHeader(role),
			auth.HeaderUserName: auth.EncodeHeader(name),
		}
	}
	return serve(h, newRawRequest(method, path, body, headers))
}

func newRawRequest(method, path, body string, headers map[string]string) *http.Request {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return req
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)
	return resp
}
