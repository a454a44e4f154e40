package booking_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serenespring/massage-booking-api/internal/domain/scheduling"
	"github.com/serenespring/massage-booking-api/internal/httperr"
	"github.com/serenespring/massage-booking-api/internal/models"
	ucBooking "github.com/serenespring/massage-booking-api/internal/usecase/booking"
)

// ledgerFake is an in-memory store whose WithinTransaction serializes
// writers and restores a snapshot on error, mirroring the rollback
// guarantee of the real serializable transaction.
type ledgerState struct {
	hours      map[int]*models.BusinessHours
	services   map[uint]*models.ServiceType
	customers  []models.Customer
	bookings   []models.Booking
	nextID     uint
	failCreate bool
}

type ledgerFake struct {
	mu    sync.Mutex
	state ledgerState
}

func newLedgerFake() *ledgerFake {
	return &ledgerFake{
		state: ledgerState{
			hours: map[int]*models.BusinessHours{
				0: {DayOfWeek: 0, StartTime: "09:00", EndTime: "17:00", IsActive: true},
			},
			services: map[uint]*models.ServiceType{
				1: {ID: 1, Name: "Standard Massage", DurationMinutes: 60, PriceCents: 9000, IsActive: true},
			},
			nextID: 1,
		},
	}
}

func (s *ledgerState) clone() ledgerState {
	cp := *s
	cp.customers = append([]models.Customer(nil), s.customers...)
	cp.bookings = append([]models.Booking(nil), s.bookings...)
	return cp
}

// ---- unlocked state operations ----

func (s *ledgerState) getBusinessHours(day int) (*models.BusinessHours, error) {
	return s.hours[day], nil
}

func (s *ledgerState) listBlocks(time.Time, time.Time) ([]models.AvailabilityBlock, error) {
	return nil, nil
}

func (s *ledgerState) listActiveBookings(windowStart, windowEnd time.Time) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range s.bookings {
		active := b.Status == string(scheduling.StatusConfirmed) ||
			b.Status == string(scheduling.StatusPendingPayment)
		if active && !b.StartTime.Before(windowStart) && !b.StartTime.After(windowEnd) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *ledgerState) countOverlapping(start, end time.Time) (int64, error) {
	var count int64
	for _, b := range s.bookings {
		released := b.Status == string(scheduling.StatusCancelled) ||
			b.Status == string(scheduling.StatusNoShow)
		if !released && start.Before(b.EndTime) && end.After(b.StartTime) {
			count++
		}
	}
	return count, nil
}

func (s *ledgerState) getActiveServiceType(id uint) (*models.ServiceType, error) {
	svc, ok := s.services[id]
	if !ok || !svc.IsActive {
		return nil, nil
	}
	return svc, nil
}

func (s *ledgerState) upsertCustomer(email, firstName, lastName, phone string) (*models.Customer, error) {
	email = strings.ToLower(email)
	for i := range s.customers {
		if s.customers[i].Email == email {
			s.customers[i].FirstName = firstName
			s.customers[i].LastName = lastName
			s.customers[i].Phone = phone
			return &s.customers[i], nil
		}
	}

	c := models.Customer{
		ID:        s.nextID,
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Phone:     phone,
	}
	s.nextID++
	s.customers = append(s.customers, c)
	return &c, nil
}

func (s *ledgerState) createBooking(b *models.Booking) error {
	if s.failCreate {
		return errors.New("insert failed")
	}
	b.ID = s.nextID
	s.nextID++
	b.CreatedAt = time.Now()
	s.bookings = append(s.bookings, *b)
	return nil
}

func (s *ledgerState) getBookingDetail(id uint) (*models.Booking, error) {
	for _, b := range s.bookings {
		if b.ID == id {
			for _, c := range s.customers {
				if c.ID == b.CustomerID {
					b.Customer = c
				}
			}
			if svc, ok := s.services[b.ServiceTypeID]; ok {
				b.ServiceType = *svc
			}
			return &b, nil
		}
	}
	return nil, nil
}

// ---- locked Repository facade ----

func (f *ledgerFake) GetBusinessHours(_ context.Context, day int) (*models.BusinessHours, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state.getBusinessHours(day)
}

func (f *ledgerFake) ListBlocks(_ context.Context, ws, we time.Time) ([]models.AvailabilityBlock, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state.listBlocks(ws, we)
}

func (f *ledgerFake) ListActiveBookings(_ context.Context, ws, we time.Time) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state.listActiveBookings(ws, we)
}

func (f *ledgerFake) CountOverlappingBookings(_ context.Context, start, end time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state.countOverlapping(start, end)
}

func (f *ledgerFake) GetBookingDetail(_ context.Context, id uint) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state.getBookingDetail(id)
}

func (f *ledgerFake) GetActiveServiceType(_ context.Context, id uint) (*models.ServiceType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state.getActiveServiceType(id)
}

func (f *ledgerFake) ListActiveServiceTypes(context.Context) ([]models.ServiceType, error) {
	return nil, nil
}

func (f *ledgerFake) UpsertCustomerByEmail(_ context.Context, email, firstName, lastName, phone string) (*models.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state.upsertCustomer(email, firstName, lastName, phone)
}

func (f *ledgerFake) CreateBooking(_ context.Context, b *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state.createBooking(b)
}

func (f *ledgerFake) ExpireStalePending(_ context.Context, olderThan time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var n int64
	for i := range f.state.bookings {
		b := &f.state.bookings[i]
		if b.Status == string(scheduling.StatusPending) && b.CreatedAt.Before(olderThan) {
			b.Status = string(scheduling.StatusCancelled)
			n++
		}
	}
	return n, nil
}

func (f *ledgerFake) WithinTransaction(_ context.Context, fn func(scheduling.Repository) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	snapshot := f.state.clone()
	if err := fn(&txLedger{state: &f.state}); err != nil {
		f.state = snapshot
		return err
	}
	return nil
}

var _ scheduling.Repository = (*ledgerFake)(nil)

// txLedger is the transaction-scoped view; the outer fake already holds the
// lock for the duration of the transaction.
type txLedger struct {
	state *ledgerState
}

func (t *txLedger) GetBusinessHours(_ context.Context, day int) (*models.BusinessHours, error) {
	return t.state.getBusinessHours(day)
}

func (t *txLedger) ListBlocks(_ context.Context, ws, we time.Time) ([]models.AvailabilityBlock, error) {
	return t.state.listBlocks(ws, we)
}

func (t *txLedger) ListActiveBookings(_ context.Context, ws, we time.Time) ([]models.Booking, error) {
	return t.state.listActiveBookings(ws, we)
}

func (t *txLedger) CountOverlappingBookings(_ context.Context, start, end time.Time) (int64, error) {
	return t.state.countOverlapping(start, end)
}

func (t *txLedger) GetBookingDetail(_ context.Context, id uint) (*models.Booking, error) {
	return t.state.getBookingDetail(id)
}

func (t *txLedger) GetActiveServiceType(_ context.Context, id uint) (*models.ServiceType, error) {
	return t.state.getActiveServiceType(id)
}

func (t *txLedger) ListActiveServiceTypes(context.Context) ([]models.ServiceType, error) {
	return nil, nil
}

func (t *txLedger) UpsertCustomerByEmail(_ context.Context, email, firstName, lastName, phone string) (*models.Customer, error) {
	return t.state.upsertCustomer(email, firstName, lastName, phone)
}

func (t *txLedger) CreateBooking(_ context.Context, b *models.Booking) error {
	return t.state.createBooking(b)
}

func (t *txLedger) ExpireStalePending(context.Context, time.Time) (int64, error) {
	return 0, nil
}

func (t *txLedger) WithinTransaction(_ context.Context, fn func(scheduling.Repository) error) error {
	return fn(t)
}

var _ scheduling.Repository = (*txLedger)(nil)

// flakyLedger aborts the first `failures` transactions with the given error
// before letting attempts through, mimicking a store that cancels
// serializable transactions under contention.
type flakyLedger struct {
	*ledgerFake
	txErr    error
	failures int
	calls    int
}

func (f *flakyLedger) WithinTransaction(ctx context.Context, fn func(scheduling.Repository) error) error {
	f.calls++
	if f.calls <= f.failures {
		return f.txErr
	}
	return f.ledgerFake.WithinTransaction(ctx, fn)
}

// ======================================================
// TESTS
// ======================================================

// 2026-03-01 is a Sunday
func sunday(hour, min int) time.Time {
	return time.Date(2026, 3, 1, hour, min, 0, 0, time.UTC)
}

func input(start, end time.Time, email string) ucBooking.CreateBookingInput {
	return ucBooking.CreateBookingInput{
		ServiceTypeID: 1,
		StartTime:     start,
		EndTime:       end,
		FirstName:     "Ada",
		LastName:      "Lin",
		Email:         email,
		Phone:         "555-0100",
		Notes:         "first visit",
	}
}

func TestCreateBooking_Success(t *testing.T) {
	repo := newLedgerFake()
	uc := ucBooking.NewCreateBooking(repo, nil)

	detail, err := uc.Execute(context.Background(), input(sunday(10, 15), sunday(11, 15), "ada@example.com"))
	require.NoError(t, err)

	assert.Equal(t, string(scheduling.StatusPending), detail.Status)
	assert.Equal(t, sunday(10, 15), detail.StartTime)
	assert.Equal(t, "ada@example.com", detail.Customer.Email)
	assert.Equal(t, "Standard Massage", detail.Service.Name)
	assert.Equal(t, 90.0, detail.Service.Price)

	assert.Len(t, repo.state.bookings, 1)
	assert.Len(t, repo.state.customers, 1)
}

func TestCreateBooking_InvalidServiceType(t *testing.T) {
	repo := newLedgerFake()
	uc := ucBooking.NewCreateBooking(repo, nil)

	in := input(sunday(10, 15), sunday(11, 15), "ada@example.com")
	in.ServiceTypeID = 99

	_, err := uc.Execute(context.Background(), in)
	assert.True(t, httperr.IsBusiness(err, "invalid_service_type"))
	assert.Empty(t, repo.state.bookings)
	assert.Empty(t, repo.state.customers)
}

func TestCreateBooking_OffGridSlotRejected(t *testing.T) {
	repo := newLedgerFake()
	uc := ucBooking.NewCreateBooking(repo, nil)

	// 09:30 is not on the buffer-aligned grid
	_, err := uc.Execute(context.Background(), input(sunday(9, 30), sunday(10, 30), "ada@example.com"))
	assert.True(t, httperr.IsBusiness(err, "slot_unavailable"))
	assert.Empty(t, repo.state.bookings)
	assert.Empty(t, repo.state.customers)
}

func TestCreateBooking_SlotAlreadyConfirmed(t *testing.T) {
	repo := newLedgerFake()
	repo.state.bookings = []models.Booking{
		{ID: 50, StartTime: sunday(10, 15), EndTime: sunday(11, 15), Status: "confirmed"},
	}
	uc := ucBooking.NewCreateBooking(repo, nil)

	_, err := uc.Execute(context.Background(), input(sunday(10, 15), sunday(11, 15), "ada@example.com"))
	assert.True(t, httperr.IsBusiness(err, "slot_unavailable"))
	assert.Len(t, repo.state.bookings, 1)
	assert.Empty(t, repo.state.customers, "failed attempt must not leave a customer row")
}

func TestCreateBooking_PendingOverlapCaughtByGuard(t *testing.T) {
	repo := newLedgerFake()
	// pending bookings are invisible to the availability computation but
	// still counted by the direct overlap guard
	repo.state.bookings = []models.Booking{
		{ID: 50, StartTime: sunday(10, 15), EndTime: sunday(11, 15), Status: "pending"},
	}
	uc := ucBooking.NewCreateBooking(repo, nil)

	_, err := uc.Execute(context.Background(), input(sunday(10, 15), sunday(11, 15), "ada@example.com"))
	assert.True(t, httperr.IsBusiness(err, "slot_conflict"))
	assert.Len(t, repo.state.bookings, 1)
	assert.Empty(t, repo.state.customers)
}

func TestCreateBooking_InsertFailureRollsBackCustomer(t *testing.T) {
	repo := newLedgerFake()
	repo.state.failCreate = true
	uc := ucBooking.NewCreateBooking(repo, nil)

	_, err := uc.Execute(context.Background(), input(sunday(10, 15), sunday(11, 15), "ada@example.com"))
	require.Error(t, err)
	assert.False(t, httperr.IsAnyBusiness(err))

	assert.Empty(t, repo.state.bookings)
	assert.Empty(t, repo.state.customers, "rollback must undo the customer upsert")
}

func TestCreateBooking_UpsertUpdatesExistingCustomer(t *testing.T) {
	repo := newLedgerFake()
	repo.state.customers = []models.Customer{
		{ID: 7, FirstName: "Old", LastName: "Name", Email: "ada@example.com", Phone: "555-9999"},
	}
	uc := ucBooking.NewCreateBooking(repo, nil)

	detail, err := uc.Execute(context.Background(), input(sunday(10, 15), sunday(11, 15), "Ada@Example.com"))
	require.NoError(t, err)

	require.Len(t, repo.state.customers, 1)
	assert.Equal(t, uint(7), detail.Customer.ID)
	assert.Equal(t, "Ada", repo.state.customers[0].FirstName)
	assert.Equal(t, "555-0100", repo.state.customers[0].Phone)
}

func TestCreateBooking_ConcurrentSameSlot(t *testing.T) {
	repo := newLedgerFake()
	uc := ucBooking.NewCreateBooking(repo, nil)

	results := make(chan error, 2)
	var wg sync.WaitGroup
	for _, email := range []string{"first@example.com", "second@example.com"} {
		wg.Add(1)
		go func(email string) {
			defer wg.Done()
			_, err := uc.Execute(context.Background(), input(sunday(10, 15), sunday(11, 15), email))
			results <- err
		}(email)
	}
	wg.Wait()
	close(results)

	var successes, conflicts int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case httperr.IsBusiness(err, "slot_unavailable"), httperr.IsBusiness(err, "slot_conflict"):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, successes, "exactly one attempt must win the slot")
	assert.Equal(t, 1, conflicts)
	assert.Len(t, repo.state.bookings, 1)
}

func TestCreateBooking_RetriesSerializationFailure(t *testing.T) {
	repo := &flakyLedger{
		ledgerFake: newLedgerFake(),
		txErr:      &pgconn.PgError{Code: "40001"},
		failures:   1,
	}
	uc := ucBooking.NewCreateBooking(repo, nil)

	detail, err := uc.Execute(context.Background(), input(sunday(10, 15), sunday(11, 15), "ada@example.com"))
	require.NoError(t, err)

	assert.Equal(t, 2, repo.calls, "aborted attempt must be retried")
	assert.Equal(t, string(scheduling.StatusPending), detail.Status)
	assert.Len(t, repo.state.bookings, 1)
}

func TestCreateBooking_GivesUpAfterThreeAbortedAttempts(t *testing.T) {
	repo := &flakyLedger{
		ledgerFake: newLedgerFake(),
		txErr:      &pgconn.PgError{Code: "40001"},
		failures:   10,
	}
	uc := ucBooking.NewCreateBooking(repo, nil)

	_, err := uc.Execute(context.Background(), input(sunday(10, 15), sunday(11, 15), "ada@example.com"))
	require.Error(t, err)

	var pgErr *pgconn.PgError
	require.ErrorAs(t, err, &pgErr)
	assert.Equal(t, "40001", pgErr.Code)

	assert.Equal(t, 3, repo.calls)
	assert.Empty(t, repo.state.bookings)
}

func TestCreateBooking_NonSerializationFailureNotRetried(t *testing.T) {
	repo := &flakyLedger{
		ledgerFake: newLedgerFake(),
		txErr:      errors.New("connection reset"),
		failures:   10,
	}
	uc := ucBooking.NewCreateBooking(repo, nil)

	_, err := uc.Execute(context.Background(), input(sunday(10, 15), sunday(11, 15), "ada@example.com"))
	require.Error(t, err)

	assert.Equal(t, 1, repo.calls, "only aborted serializable transactions are retried")
	assert.Empty(t, repo.state.bookings)
}

func TestExpirePending(t *testing.T) {
	repo := newLedgerFake()
	now := time.Now()
	repo.state.bookings = []models.Booking{
		{ID: 1, Status: "pending", CreatedAt: now.Add(-30 * time.Minute)},
		{ID: 2, Status: "pending", CreatedAt: now.Add(-5 * time.Minute)},
		{ID: 3, Status: "confirmed", CreatedAt: now.Add(-30 * time.Minute)},
	}

	uc := ucBooking.NewExpirePending(repo)
	expired, err := uc.Execute(context.Background(), now)
	require.NoError(t, err)

	assert.Equal(t, int64(1), expired)
	assert.Equal(t, string(scheduling.StatusCancelled), repo.state.bookings[0].Status)
	assert.Equal(t, string(scheduling.StatusPending), repo.state.bookings[1].Status)
	assert.Equal(t, string(scheduling.StatusConfirmed), repo.state.bookings[2].Status)
}
