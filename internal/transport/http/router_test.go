package httptransport

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"order-gateway/internal/order/service"
	"order-gateway/internal/order/store"
	"order-gateway/internal/template"
	"order-gateway/pkg/testutil"
)

func newRouter(t *testing.T) http.Handler {
	t.Helper()

	registry, err := template.Default()
	if err != nil {
		t.Fatalf("failed to build registry: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.New(registry, store.NewMemory(), service.WithLogger(logger))

	return NewRouter(Deps{Logger: logger, Orders: svc, Registry: registry})
}

func TestRouterWiring(t *testing.T) {
	testutil.Given(t, "the assembled router", func(t *testing.T) {
		router := newRouter(t)

		testutil.When(t, "calling GET /healthz", func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			testutil.Then(t, "it should respond OK", func(t *testing.T) {
				if rec.Code != http.StatusOK {
					t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
				}
			})
		})

		testutil.When(t, "calling GET /metrics", func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			testutil.Then(t, "it should expose Prometheus metrics", func(t *testing.T) {
				if rec.Code != http.StatusOK {
					t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
				}
				if !strings.Contains(rec.Body.String(), "go_goroutines") {
					t.Fatal("expected Prometheus exposition output")
				}
			})
		})

		testutil.When(t, "calling GET /templates", func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/templates", nil)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			testutil.Then(t, "it should list the activation catalog", func(t *testing.T) {
				if rec.Code != http.StatusOK {
					t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
				}
				var resp struct {
					Templates []struct {
						ID string `json:"id"`
					} `json:"templates"`
				}
				if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
					t.Fatalf("failed to decode response: %v", err)
				}
				if len(resp.Templates) == 0 {
					t.Fatal("expected at least one template")
				}
			})
		})

		testutil.When(t, "posting a non-JSON content type", func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader("a=b"))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			testutil.Then(t, "it should reject with 415", func(t *testing.T) {
				if rec.Code != http.StatusUnsupportedMediaType {
					t.Fatalf("expected status %d, got %d", http.StatusUnsupportedMediaType, rec.Code)
				}
			})
		})

		testutil.When(t, "responding to any request", func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			testutil.Then(t, "it should echo a request id header", func(t *testing.T) {
				if rec.Header().Get("X-Request-Id") == "" {
					t.Fatal("expected X-Request-Id header")
				}
			})
		})
	})
}
