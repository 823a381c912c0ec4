package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/freightops/freight-console/internal/core/domain"
	"github.com/freightops/freight-console/internal/core/ports"
)

type stubShipmentService struct {
	createFn     func(ctx context.Context, input ports.CreateShipmentInput) (*domain.Shipment, error)
	getFn        func(ctx context.Context, id string) (*domain.Shipment, error)
	listFn       func(ctx context.Context, filter ports.ListShipmentsFilter) (*ports.ListShipmentsResult, error)
	updateFn     func(ctx context.Context, id string, input ports.UpdateShipmentInput) (*domain.Shipment, error)
	transitionFn func(ctx context.Context, id string, next domain.Status) (*domain.Shipment, error)
	deleteFn     func(ctx context.Context, id string) error
}

func (s *stubShipmentService) Create(ctx context.Context, input ports.CreateShipmentInput) (*domain.Shipment, error) {
	return s.createFn(ctx, input)
}

func (s *stubShipmentService) Get(ctx context.Context, id string) (*domain.Shipment, error) {
	return s.getFn(ctx, id)
}

func (s *stubShipmentService) List(ctx context.Context, filter ports.ListShipmentsFilter) (*ports.ListShipmentsResult, error) {
	return s.listFn(ctx, filter)
}

func (s *stubShipmentService) Update(ctx context.Context, id string, input ports.UpdateShipmentInput) (*domain.Shipment, error) {
	return s.updateFn(ctx, id, input)
}

func (s *stubShipmentService) Transition(ctx context.Context, id string, next domain.Status) (*domain.Shipment, error) {
	return s.transitionFn(ctx, id, next)
}

func (s *stubShipmentService) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

func newShipmentContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestShipmentHandler_Create_Success(t *testing.T) {
	stub := &stubShipmentService{
		createFn: func(ctx context.Context, input ports.CreateShipmentInput) (*domain.Shipment, error) {
			if input.Origin != "Hamburg" || input.Destination != "Oslo" {
				t.Fatalf("unexpected input: %+v", input)
			}
			if len(input.Lines) != 1 || input.Lines[0].Weight != 2.5 {
				t.Fatalf("unexpected lines: %+v", input.Lines)
			}
			return &domain.Shipment{
				ID:           "ship_1",
				Reference:    "FR-0000AB12",
				Origin:       input.Origin,
				Destination:  input.Destination,
				ShipmentType: domain.TypeExport,
				Status:       domain.StatusDraft,
				TotalWeight:  25,
				TotalPrice:   42.5,
			}, nil
		},
	}
	handler := NewShipmentHandler(stub)

	body := `{
		"origin":"Hamburg","destination":"Oslo","shipment_type":"export",
		"lines":[{"product_name":"Widgets","quantity":10,"weight":2.5}],
		"base_price":10,"distance_km":200
	}`
	c, rec := newShipmentContext(t, http.MethodPost, "/v1/shipments", body)
	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp shipmentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.ID != "ship_1" || resp.Status != "draft" || resp.TotalPrice != 42.5 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.Links.Self != "/v1/shipments/ship_1" {
		t.Fatalf("unexpected self link: %s", resp.Links.Self)
	}
}

func TestShipmentHandler_Create_MissingOrigin(t *testing.T) {
	handler := NewShipmentHandler(&stubShipmentService{})

	c, _ := newShipmentContext(t, http.MethodPost, "/v1/shipments", `{"destination":"Oslo"}`)
	err := handler.Create(c)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestShipmentHandler_Create_UnknownType(t *testing.T) {
	handler := NewShipmentHandler(&stubShipmentService{})

	c, _ := newShipmentContext(t, http.MethodPost, "/v1/shipments",
		`{"origin":"A","destination":"B","shipment_type":"interstellar"}`)
	err := handler.Create(c)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestShipmentHandler_Get_NotFound(t *testing.T) {
	stub := &stubShipmentService{
		getFn: func(ctx context.Context, id string) (*domain.Shipment, error) {
			return nil, domain.ErrShipmentNotFound
		},
	}
	handler := NewShipmentHandler(stub)

	c, _ := newShipmentContext(t, http.MethodGet, "/v1/shipments/ship_x", "")
	c.SetParamNames("id")
	c.SetParamValues("ship_x")

	err := handler.Get(c)
	if !errors.Is(err, domain.ErrShipmentNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestShipmentHandler_Transition_Success(t *testing.T) {
	stub := &stubShipmentService{
		getFn: func(ctx context.Context, id string) (*domain.Shipment, error) {
			return &domain.Shipment{ID: id, Status: domain.StatusDraft}, nil
		},
		transitionFn: func(ctx context.Context, id string, next domain.Status) (*domain.Shipment, error) {
			if next != domain.StatusConfirmed {
				t.Fatalf("unexpected target status: %s", next)
			}
			return &domain.Shipment{ID: id, Status: next}, nil
		},
	}
	handler := NewShipmentHandler(stub)

	c, rec := newShipmentContext(t, http.MethodPost, "/v1/shipments/ship_1/transition",
		`{"status":"confirmed"}`)
	c.SetParamNames("id")
	c.SetParamValues("ship_1")

	if err := handler.Transition(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp shipmentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Status != "confirmed" {
		t.Fatalf("expected confirmed, got %s", resp.Status)
	}
}

func TestShipmentHandler_Transition_UnknownStatus(t *testing.T) {
	handler := NewShipmentHandler(&stubShipmentService{})

	c, _ := newShipmentContext(t, http.MethodPost, "/v1/shipments/ship_1/transition",
		`{"status":"teleported"}`)
	c.SetParamNames("id")
	c.SetParamValues("ship_1")

	err := handler.Transition(c)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestShipmentHandler_Transition_Invalid(t *testing.T) {
	stub := &stubShipmentService{
		getFn: func(ctx context.Context, id string) (*domain.Shipment, error) {
			return &domain.Shipment{ID: id, Status: domain.StatusDraft}, nil
		},
		transitionFn: func(ctx context.Context, id string, next domain.Status) (*domain.Shipment, error) {
			return nil, domain.ErrInvalidTransition
		},
	}
	handler := NewShipmentHandler(stub)

	c, _ := newShipmentContext(t, http.MethodPost, "/v1/shipments/ship_1/transition",
		`{"status":"delivered"}`)
	c.SetParamNames("id")
	c.SetParamValues("ship_1")

	err := handler.Transition(c)
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
}

func TestShipmentHandler_Update_PassesPointerFields(t *testing.T) {
	stub := &stubShipmentService{
		updateFn: func(ctx context.Context, id string, input ports.UpdateShipmentInput) (*domain.Shipment, error) {
			if input.Notes == nil || *input.Notes != "fragile" {
				t.Fatalf("expected notes pointer, got %+v", input)
			}
			if input.Origin != nil {
				t.Fatalf("origin should stay nil when absent")
			}
			return &domain.Shipment{ID: id, Notes: "fragile", Status: domain.StatusDraft}, nil
		},
	}
	handler := NewShipmentHandler(stub)

	c, rec := newShipmentContext(t, http.MethodPatch, "/v1/shipments/ship_1", `{"notes":"fragile"}`)
	c.SetParamNames("id")
	c.SetParamValues("ship_1")

	if err := handler.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestShipmentHandler_List_ParsesFilters(t *testing.T) {
	stub := &stubShipmentService{
		listFn: func(ctx context.Context, filter ports.ListShipmentsFilter) (*ports.ListShipmentsResult, error) {
			if filter.Status != "in_transit" || filter.Page != 2 || filter.Limit != 10 {
				t.Fatalf("unexpected filter: %+v", filter)
			}
			if filter.DateFrom.IsZero() {
				t.Fatalf("expected date_from to be parsed")
			}
			return &ports.ListShipmentsResult{Page: 2, Limit: 10}, nil
		},
	}
	handler := NewShipmentHandler(stub)

	target := "/v1/shipments?status=in_transit&page=2&limit=10&date_from=" +
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Format(time.RFC3339)
	c, rec := newShipmentContext(t, http.MethodGet, target, "")

	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestShipmentHandler_List_BadPage(t *testing.T) {
	handler := NewShipmentHandler(&stubShipmentService{})

	c, _ := newShipmentContext(t, http.MethodGet, "/v1/shipments?page=zero", "")
	err := handler.List(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestShipmentHandler_Delete_Success(t *testing.T) {
	deleted := ""
	stub := &stubShipmentService{
		deleteFn: func(ctx context.Context, id string) error {
			deleted = id
			return nil
		},
	}
	handler := NewShipmentHandler(stub)

	c, rec := newShipmentContext(t, http.MethodDelete, "/v1/shipments/ship_1", "")
	c.SetParamNames("id")
	c.SetParamValues("ship_1")

	if err := handler.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if deleted != "ship_1" {
		t.Fatalf("expected ship_1 deleted, got %q", deleted)
	}
}
