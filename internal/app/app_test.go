package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/liaison-server/internal/auth"
	"github.com/vovakirdan/liaison-server/internal/config"
	"github.com/vovakirdan/liaison-server/internal/proto"
)

func TestNewServesSeededMessages(t *testing.T) {
	gin.SetMode(gin.TestMode)

	for _, driver := range []string{config.StoreMemory, config.StoreSQLite} {
		t.Run(driver, func(t *testing.T) {
			cfg := config.Default()
			cfg.StoreDriver = driver
			cfg.MetricsEnabled = false

			logger := zerolog.Nop()
			application, err := New(&cfg, &logger)
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}
			t.Cleanup(application.cleanup)

			req := httptest.NewRequest(http.MethodGet, "/api/messages", nil)
			req.Header.Set(auth.HeaderUserType, auth.EncodeHeader("parent"))
			req.Header.Set(auth.HeaderUserName, auth.EncodeHeader("parent2"))

			resp := httptest.NewRecorder()
			application.Handler().ServeHTTP(resp, req)

			if resp.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
			}

			var messages []proto.Message
			if err := json.Unmarshal(resp.Body.Bytes(), &messages); err != nil {
				t.Fatalf("failed to unmarshal response: %v", err)
			}
			if len(messages) != 2 || messages[0].ID != 0 || messages[1].ID != 2 {
				t.Fatalf("unexpected messages: %+v", messages)
			}
		})
	}
}

func TestNewWithoutSeedStartsEmpty(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := config.Default()
	cfg.Seed = false
	cfg.MetricsEnabled = false

	logger := zerolog.Nop()
	application, err := New(&cfg, &logger)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(application.cleanup)

	req := httptest.NewRequest(http.MethodGet, "/api/messages", nil)
	req.Header.Set(auth.HeaderUserType, auth.EncodeHeader("professeur"))
	req.Header.Set(auth.HeaderUserName, auth.EncodeHeader("Mme Martin"))

	resp := httptest.NewRecorder()
	application.Handler().ServeHTTP(resp, req)

	if body := resp.Body.String(); body != "[]" {
		t.Fatalf("expected empty array, got %q", body)
	}
}

func TestOpenStoreRejectsUnknownDriver(t *testing.T) {
	if _, err := openStore("postgres"); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}
