package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"order-gateway/internal/order/models"
	"order-gateway/internal/order/service"
	"order-gateway/internal/order/store"
	"order-gateway/internal/order/workflow"
	"order-gateway/internal/platform/middleware"
	"order-gateway/internal/template"
)

func newOrderRouter(t *testing.T) http.Handler {
	t.Helper()

	registry, err := template.Default()
	if err != nil {
		t.Fatalf("failed to build registry: %v", err)
	}
	svc := service.New(registry, store.NewMemory(),
		service.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Actor)
	New(svc, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(r)
	return r
}

func validSubmitBody() map[string]any {
	return map[string]any{
		"template_id": "mobile-sim",
		"fields": map[string]string{
			"first_name":            "Mario",
			"last_name":             "Rossi",
			"fiscal_code":           "RSSMRA80A01H501U",
			"mobile_number":         "3331234567",
			"birth_date":            "1980-01-01",
			"document_type":         "identity-card",
			"document_release_date": "2023-03-10",
		},
		"documents": map[string]any{
			"identity_document": map[string]string{"key": "doc-1", "mime_type": "application/pdf"},
			"signed_contract":   map[string]string{"key": "doc-2", "mime_type": "application/pdf"},
		},
	}
}

func postJSON(t *testing.T, router http.Handler, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Actor", "master-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func submitOrder(t *testing.T, router http.Handler) string {
	t.Helper()
	rec := postJSON(t, router, "/orders", validSubmitBody())
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 submitting order, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode submit response: %v", err)
	}
	return resp.ID
}

func TestSubmitOrder(t *testing.T) {
	router := newOrderRouter(t)
	rec := postJSON(t, router, "/orders", validSubmitBody())

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		ID         string            `json:"id"`
		State      int               `json:"state"`
		StateName  string            `json:"state_name"`
		OfferTitle string            `json:"offer_title"`
		Fields     map[string]string `json:"fields"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if _, err := uuid.Parse(resp.ID); err != nil {
		t.Fatalf("expected a UUID order id, got %q", resp.ID)
	}
	if resp.State != int(models.StateOpen) {
		t.Fatalf("expected state %d, got %d", int(models.StateOpen), resp.State)
	}
	if resp.StateName != "OPEN" {
		t.Fatalf("expected state name OPEN, got %q", resp.StateName)
	}
	if resp.OfferTitle == "" {
		t.Fatal("expected a denormalized offer title")
	}
	if resp.Fields["fiscal_code"] != "RSSMRA80A01H501U" {
		t.Fatalf("expected normalized fiscal code, got %q", resp.Fields["fiscal_code"])
	}
}

func TestSubmitOrderValidationFailure(t *testing.T) {
	router := newOrderRouter(t)

	payload := validSubmitBody()
	fields := payload["fields"].(map[string]string)
	fields["fiscal_code"] = "WRONG"
	delete(fields, "last_name")

	rec := postJSON(t, router, "/orders", payload)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Errors []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Errors) != 2 {
		t.Fatalf("expected 2 field errors, got %d: %s", len(resp.Errors), rec.Body.String())
	}
}

func TestSubmitOrderBadJSON(t *testing.T) {
	router := newOrderRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader("{broken"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSubmitOrderMissingTemplate(t *testing.T) {
	router := newOrderRouter(t)

	rec := postJSON(t, router, "/orders", map[string]any{"template_id": ""})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}

	rec = postJSON(t, router, "/orders", map[string]any{"template_id": "satellite-tv"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown template, got %d", rec.Code)
	}
}

func TestGetOrder(t *testing.T) {
	router := newOrderRouter(t)
	orderID := submitOrder(t, router)

	req := httptest.NewRequest(http.MethodGet, "/orders/"+orderID, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/orders/"+uuid.NewString(), nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown order, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/orders/not-a-uuid", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed id, got %d", rec.Code)
	}
}

func TestTransitionOrder(t *testing.T) {
	router := newOrderRouter(t)
	orderID := submitOrder(t, router)

	rec := postJSON(t, router, "/orders/"+orderID+"/transitions",
		map[string]any{"to_state": int(models.StateProcessing)})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Order struct {
			State   int `json:"state"`
			Version int `json:"version"`
			History []struct {
				Seq     int    `json:"seq"`
				ToState int    `json:"to_state"`
				Actor   string `json:"actor"`
			} `json:"history"`
		} `json:"order"`
		Notification string `json:"notification"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Order.State != int(models.StateProcessing) {
		t.Fatalf("expected state %d, got %d", int(models.StateProcessing), resp.Order.State)
	}
	if resp.Order.Version != 1 {
		t.Fatalf("expected version 1, got %d", resp.Order.Version)
	}
	if len(resp.Order.History) != 1 || resp.Order.History[0].Actor != "master-1" {
		t.Fatalf("expected one history entry by master-1, got %+v", resp.Order.History)
	}
	if resp.Notification != "" {
		t.Fatalf("expected no notification for a silent transition, got %q", resp.Notification)
	}
}

func TestTransitionRejections(t *testing.T) {
	router := newOrderRouter(t)
	orderID := submitOrder(t, router)

	// Not reachable from OPEN
	rec := postJSON(t, router, "/orders/"+orderID+"/transitions",
		map[string]any{"to_state": int(models.StateActivated)})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for illegal transition, got %d", rec.Code)
	}

	// Unknown state number
	rec = postJSON(t, router, "/orders/"+orderID+"/transitions",
		map[string]any{"to_state": 99})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for unknown state, got %d", rec.Code)
	}

	// Cancellation without the mandatory note
	rec = postJSON(t, router, "/orders/"+orderID+"/transitions",
		map[string]any{"to_state": int(models.StateCancelled)})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for missing note, got %d", rec.Code)
	}

	// With the note it goes through and reports the triggered notification
	rec = postJSON(t, router, "/orders/"+orderID+"/transitions",
		map[string]any{"to_state": int(models.StateCancelled), "note": "customer withdrew"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Notification string `json:"notification"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Notification != workflow.NotifyCancelled {
		t.Fatalf("expected %q notification, got %q", workflow.NotifyCancelled, resp.Notification)
	}
}

func TestListOrders(t *testing.T) {
	router := newOrderRouter(t)
	orderID := submitOrder(t, router)

	rec := postJSON(t, router, "/orders/"+orderID+"/transitions",
		map[string]any{"to_state": int(models.StateProcessing)})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/orders?state=2&template_id=mobile-sim", nil)
	recList := httptest.NewRecorder()
	router.ServeHTTP(recList, req)
	if recList.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recList.Code)
	}

	var resp struct {
		Orders []struct {
			ID string `json:"id"`
		} `json:"orders"`
	}
	if err := json.NewDecoder(recList.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Orders) != 1 || resp.Orders[0].ID != orderID {
		t.Fatalf("expected the transitioned order, got %+v", resp.Orders)
	}

	req = httptest.NewRequest(http.MethodGet, "/orders?state=banana", nil)
	recBad := httptest.NewRecorder()
	router.ServeHTTP(recBad, req)
	if recBad.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad state filter, got %d", recBad.Code)
	}
}
