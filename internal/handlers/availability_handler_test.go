package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serenespring/massage-booking-api/internal/config"
	"github.com/serenespring/massage-booking-api/internal/domain/scheduling"
	"github.com/serenespring/massage-booking-api/internal/handlers"
	"github.com/serenespring/massage-booking-api/internal/models"
	ucAvailability "github.com/serenespring/massage-booking-api/internal/usecase/availability"
)

type calendarFake struct {
	hours map[int]*models.BusinessHours
}

func (f *calendarFake) GetBusinessHours(_ context.Context, day int) (*models.BusinessHours, error) {
	return f.hours[day], nil
}

func (f *calendarFake) ListBlocks(context.Context, time.Time, time.Time) ([]models.AvailabilityBlock, error) {
	return nil, nil
}

func (f *calendarFake) ListActiveBookings(context.Context, time.Time, time.Time) ([]models.Booking, error) {
	return nil, nil
}

func (f *calendarFake) CountOverlappingBookings(context.Context, time.Time, time.Time) (int64, error) {
	return 0, nil
}

func (f *calendarFake) GetBookingDetail(context.Context, uint) (*models.Booking, error) {
	return nil, nil
}

func (f *calendarFake) GetActiveServiceType(context.Context, uint) (*models.ServiceType, error) {
	return nil, nil
}

func (f *calendarFake) ListActiveServiceTypes(context.Context) ([]models.ServiceType, error) {
	return nil, nil
}

func (f *calendarFake) UpsertCustomerByEmail(context.Context, string, string, string, string) (*models.Customer, error) {
	return nil, nil
}

func (f *calendarFake) CreateBooking(context.Context, *models.Booking) error { return nil }

func (f *calendarFake) ExpireStalePending(context.Context, time.Time) (int64, error) {
	return 0, nil
}

func (f *calendarFake) WithinTransaction(_ context.Context, fn func(scheduling.Repository) error) error {
	return fn(f)
}

var _ scheduling.Repository = (*calendarFake)(nil)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{Timezone: "UTC"}
	repo := &calendarFake{
		hours: map[int]*models.BusinessHours{
			0: {DayOfWeek: 0, StartTime: "09:00", EndTime: "17:00", IsActive: true},
		},
	}

	h := handlers.NewAvailabilityHandler(cfg, ucAvailability.NewGetAvailableSlots(repo))

	r := gin.New()
	r.GET("/api/availability/slots", h.GetSlots)
	return r
}

func get(t *testing.T, r *gin.Engine, url string) *httptest.ResponseRecorder {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func futureSunday(t *testing.T) string {
	t.Helper()
	d := time.Now().UTC().AddDate(0, 0, 7)
	for d.Weekday() != time.Sunday {
		d = d.AddDate(0, 0, 1)
	}
	return d.Format("2006-01-02")
}

func TestGetSlots_MissingParams(t *testing.T) {
	r := newTestRouter()

	w := get(t, r, "/api/availability/slots")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "missing_params")
}

func TestGetSlots_InvalidDate(t *testing.T) {
	r := newTestRouter()

	w := get(t, r, "/api/availability/slots?date=not-a-date&duration=60")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_date")
}

func TestGetSlots_PastDate(t *testing.T) {
	r := newTestRouter()

	w := get(t, r, "/api/availability/slots?date=2020-01-05&duration=60")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "date_in_past")
}

func TestGetSlots_InvalidDuration(t *testing.T) {
	r := newTestRouter()

	w := get(t, r, "/api/availability/slots?date="+futureSunday(t)+"&duration=45")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_duration")
}

func TestGetSlots_OpenSunday(t *testing.T) {
	r := newTestRouter()

	w := get(t, r, "/api/availability/slots?date="+futureSunday(t)+"&duration=60")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		DayOfWeek  int               `json:"day_of_week"`
		Slots      []scheduling.Slot `json:"slots"`
		TotalSlots int               `json:"total_slots"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	assert.Equal(t, 0, body.DayOfWeek)
	assert.Equal(t, 6, body.TotalSlots)
	require.NotEmpty(t, body.Slots)
	assert.True(t, body.Slots[0].Available)
}
