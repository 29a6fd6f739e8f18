package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"masterbook/models"
	"masterbook/services/scheduling"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type stubOrders struct {
	created   models.CreateOrderRequest
	cancelErr error
}

func (s *stubOrders) CreateOrder(_ context.Context, req models.CreateOrderRequest) (*models.Order, error) {
	s.created = req
	return &models.Order{ID: "o-1", ClientID: req.ClientID}, nil
}

func (s *stubOrders) GetOrder(_ context.Context, id string) (*models.Order, error) {
	return nil, scheduling.NotFound("order %s", id)
}

func (s *stubOrders) CancelByMaster(_ context.Context, orderID, masterID string) (*models.CancellationResult, error) {
	if s.cancelErr != nil {
		return nil, s.cancelErr
	}
	return &models.CancellationResult{Voided: true}, nil
}

func (s *stubOrders) CancelByClient(_ context.Context, orderID, clientID string) error {
	return s.cancelErr
}

type stubCalendar struct {
	published []models.TimeOfDay
}

func (s *stubCalendar) PublishSlots(_ context.Context, masterID, date string, times []models.TimeOfDay) (*models.CalendarDay, error) {
	s.published = times
	return &models.CalendarDay{MasterID: masterID, Date: date}, nil
}

func (s *stubCalendar) RemoveSlot(_ context.Context, masterID, date string, t models.TimeOfDay) error {
	return scheduling.Conflict("slot %s is occupied", t)
}

func (s *stubCalendar) GetDay(_ context.Context, masterID, date string) (*models.CalendarDay, error) {
	return &models.CalendarDay{MasterID: masterID, Date: date}, nil
}

func (s *stubCalendar) ListDays(_ context.Context, masterID, from, to string) ([]models.CalendarDay, error) {
	if !models.ValidDate(from) || !models.ValidDate(to) {
		return nil, scheduling.InvalidArgument("invalid date range %s..%s", from, to)
	}
	return []models.CalendarDay{{MasterID: masterID, Date: from}}, nil
}

func newTestRouter(orders *stubOrders, calendar *stubCalendar) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	oh := NewOrderHandler(orders, zap.NewNop())
	ch := NewCalendarHandler(calendar, zap.NewNop())
	r.POST("/api/orders", oh.CreateOrderHandler)
	r.GET("/api/orders/:orderID", oh.GetOrderHandler)
	r.POST("/api/orders/:orderID/cancel/master", oh.CancelByMasterHandler)
	r.POST("/api/orders/:orderID/cancel/client", oh.CancelByClientHandler)
	r.GET("/api/masters/:masterID/days", ch.ListDaysHandler)
	r.PUT("/api/masters/:masterID/days/:date/slots", ch.PublishSlotsHandler)
	r.DELETE("/api/masters/:masterID/days/:date/slots/:time", ch.RemoveSlotHandler)
	return r
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestOrderRoutes(t *testing.T) {
	tests := []struct {
		name      string
		method    string
		path      string
		body      string
		cancelErr error
		want      int
	}{
		{
			name:   "create",
			method: http.MethodPost,
			path:   "/api/orders",
			body:   `{"clientId":"c1","date":"2024-05-01","time":"10:00","location":{"type":"Point","coordinates":[37.62,55.75]},"items":[{"serviceId":"s1"}]}`,
			want:   http.StatusCreated,
		},
		{name: "create with bad time", method: http.MethodPost, path: "/api/orders", body: `{"clientId":"c1","date":"2024-05-01","time":"ten"}`, want: http.StatusBadRequest},
		{name: "missing order", method: http.MethodGet, path: "/api/orders/nope", want: http.StatusNotFound},
		{name: "master cancel", method: http.MethodPost, path: "/api/orders/o-1/cancel/master", body: `{"masterId":"m1"}`, want: http.StatusOK},
		{name: "master cancel without master", method: http.MethodPost, path: "/api/orders/o-1/cancel/master", body: `{}`, want: http.StatusBadRequest},
		{
			name: "locked leg", method: http.MethodPost, path: "/api/orders/o-1/cancel/master", body: `{"masterId":"m1"}`,
			cancelErr: scheduling.PermissionDenied("locked"), want: http.StatusForbidden,
		},
		{
			name: "calendar race", method: http.MethodPost, path: "/api/orders/o-1/cancel/client", body: `{"clientId":"c1"}`,
			cancelErr: scheduling.Conflict("changed"), want: http.StatusConflict,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(&stubOrders{cancelErr: tt.cancelErr}, &stubCalendar{})
			w := do(r, tt.method, tt.path, tt.body)
			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestCreateOrderDecodesTimes(t *testing.T) {
	orders := &stubOrders{}
	r := newTestRouter(orders, &stubCalendar{})
	w := do(r, http.MethodPost, "/api/orders",
		`{"clientId":"c1","date":"2024-05-01","time":"10:30","location":{"type":"Point","coordinates":[37.62,55.75]},"items":[{"serviceId":"s1","masterId":"m1"}]}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d", w.Code)
	}
	if orders.created.Time != models.NewTimeOfDay(10, 30) || orders.created.Items[0].MasterID != "m1" {
		t.Fatalf("request = %+v", orders.created)
	}
}

func TestCalendarRoutes(t *testing.T) {
	cal := &stubCalendar{}
	r := newTestRouter(&stubOrders{}, cal)

	w := do(r, http.MethodPut, "/api/masters/m1/days/2024-05-01/slots", `{"times":["10:00","10:30"]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("publish status = %d", w.Code)
	}
	if len(cal.published) != 2 || cal.published[1] != models.NewTimeOfDay(10, 30) {
		t.Fatalf("published = %v", cal.published)
	}

	w = do(r, http.MethodDelete, "/api/masters/m1/days/2024-05-01/slots/10:00", "")
	if w.Code != http.StatusConflict {
		t.Fatalf("remove status = %d", w.Code)
	}
	var body struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil || body.Code == "" {
		t.Fatalf("error body = %s", w.Body.String())
	}

	w = do(r, http.MethodDelete, "/api/masters/m1/days/2024-05-01/slots/25:00", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad time status = %d", w.Code)
	}
}

func TestListDaysRoute(t *testing.T) {
	r := newTestRouter(&stubOrders{}, &stubCalendar{})

	w := do(r, http.MethodGet, "/api/masters/m1/days?from=2024-05-01&to=2024-05-07", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d (body %s)", w.Code, w.Body.String())
	}
	var body struct {
		Days []models.CalendarDay `json:"days"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Days) != 1 || body.Days[0].MasterID != "m1" || body.Days[0].Date != "2024-05-01" {
		t.Fatalf("days = %+v", body.Days)
	}

	if w := do(r, http.MethodGet, "/api/masters/m1/days?from=yesterday", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("bad range status = %d", w.Code)
	}
}
