package booking

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/salon-booking/internal/domain/booking"
	"github.com/BruksfildServices01/salon-booking/internal/httperr"
	"github.com/BruksfildServices01/salon-booking/internal/lock"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func testDeps(repo *memoryRepo) Deps {
	return Deps{
		Repo:   repo,
		Locker: lock.NewKeyedMutex(),
		Log:    quietLogger(),
		Hours:  domain.DefaultBusinessHours(),
		Scope:  domain.ScopePerService,
		Retry:  RetryPolicy{Attempts: 3, InitialInterval: time.Millisecond, MaxInterval: 2 * time.Millisecond},
	}
}

func bookingInput(phone string, serviceID uint, start string) CreateBookingInput {
	return CreateBookingInput{
		CustomerName:  "Ana",
		CustomerPhone: phone,
		ServiceID:     serviceID,
		BookingDate:   "2026-01-18",
		StartTime:     start,
	}
}

func TestCreateBooking_ComputesEndFromDuration(t *testing.T) {
	repo := newMemoryRepo(testServices()...)
	uc := NewCreateBooking(testDeps(repo))

	res, err := uc.Execute(context.Background(), bookingInput("555-0101", 2, "10:00"))
	require.NoError(t, err)

	assert.Equal(t, "10:00", res.Booking.StartTime)
	assert.Equal(t, "10:45", res.Booking.EndTime)
	assert.Equal(t, string(domain.StatusConfirmed), res.Booking.Status)
	assert.NotNil(t, res.Booking.ConfirmedAt)
	assert.NotEmpty(t, res.Booking.Reference)
	assert.Equal(t, "35.5", res.ServicePrice.String())
	assert.Equal(t, res.Booking.CustomerID, res.CustomerID)
}

func TestCreateBooking_OverlapIsRejected(t *testing.T) {
	repo := newMemoryRepo(testServices()...)
	uc := NewCreateBooking(testDeps(repo))
	ctx := context.Background()

	_, err := uc.Execute(ctx, bookingInput("555-0101", 2, "10:00"))
	require.NoError(t, err)

	_, err = uc.Execute(ctx, bookingInput("555-0102", 2, "10:30"))
	require.Error(t, err)
	assert.True(t, domain.IsSlotConflict(err))
	assert.Equal(t, "10:00-10:45", httperr.DetailOf(err))
}

func TestCreateBooking_TouchingIntervalsAreAccepted(t *testing.T) {
	repo := newMemoryRepo(testServices()...)
	uc := NewCreateBooking(testDeps(repo))
	ctx := context.Background()

	_, err := uc.Execute(ctx, bookingInput("555-0101", 2, "10:00"))
	require.NoError(t, err)

	res, err := uc.Execute(ctx, bookingInput("555-0102", 2, "10:45"))
	require.NoError(t, err)
	assert.Equal(t, "11:30", res.Booking.EndTime)

	res, err = uc.Execute(ctx, bookingInput("555-0103", 2, "09:15"))
	require.NoError(t, err)
	assert.Equal(t, "10:00", res.Booking.EndTime)
}

func TestCreateBooking_ConcurrentIdenticalRequests(t *testing.T) {
	repo := newMemoryRepo(testServices()...)
	uc := NewCreateBooking(testDeps(repo))

	const workers = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)

	start := make(chan struct{})
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := uc.Execute(context.Background(), bookingInput("555-0101", 2, "14:00"))

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case domain.IsSlotConflict(err):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, workers-1, conflicts)
}

func TestCreateBooking_CancelledBookingDoesNotBlock(t *testing.T) {
	repo := newMemoryRepo(testServices()...)
	deps := testDeps(repo)
	create := NewCreateBooking(deps)
	update := NewUpdateBookingStatus(deps)
	ctx := context.Background()

	res, err := create.Execute(ctx, bookingInput("555-0101", 1, "11:00"))
	require.NoError(t, err)

	_, err = update.Execute(ctx, UpdateStatusInput{BookingID: res.Booking.ID, Transition: TransitionCancel})
	require.NoError(t, err)

	_, err = create.Execute(ctx, bookingInput("555-0102", 1, "11:00"))
	assert.NoError(t, err)
}

func TestCreateBooking_ServiceDurationChangeKeepsStoredEnd(t *testing.T) {
	repo := newMemoryRepo(testServices()...)
	deps := testDeps(repo)
	uc := NewCreateBooking(deps)
	ctx := context.Background()

	res, err := uc.Execute(ctx, bookingInput("555-0101", 2, "10:00"))
	require.NoError(t, err)

	repo.SetServiceDuration(2, 90)

	stored, err := repo.GetBooking(ctx, res.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, "10:45", stored.EndTime)

	// 10:45 is still free because the stored span did not grow.
	_, err = uc.Execute(ctx, bookingInput("555-0102", 2, "10:45"))
	assert.NoError(t, err)
}

func TestCreateBooking_Validation(t *testing.T) {
	repo := newMemoryRepo(testServices()...)
	uc := NewCreateBooking(testDeps(repo))

	cases := []struct {
		name   string
		mutate func(*CreateBookingInput)
		code   string
		detail string
	}{
		{"missing phone", func(in *CreateBookingInput) { in.CustomerPhone = "  " }, domain.CodeMissingField, "customer_phone"},
		{"missing service", func(in *CreateBookingInput) { in.ServiceID = 0 }, domain.CodeMissingField, "service_id"},
		{"missing date", func(in *CreateBookingInput) { in.BookingDate = "" }, domain.CodeMissingField, "booking_date"},
		{"missing start", func(in *CreateBookingInput) { in.StartTime = "" }, domain.CodeMissingField, "start_time"},
		{"bad time", func(in *CreateBookingInput) { in.StartTime = "25:00" }, domain.CodeInvalidTimeFormat, ""},
		{"bad date", func(in *CreateBookingInput) { in.BookingDate = "2026-02-30" }, domain.CodeInvalidTimeFormat, ""},
		{"unknown service", func(in *CreateBookingInput) { in.ServiceID = 99 }, domain.CodeServiceNotFound, ""},
		{"completed status", func(in *CreateBookingInput) { in.Status = "completed" }, domain.CodeInvalidStatus, ""},
		{"crosses midnight", func(in *CreateBookingInput) { in.StartTime = "23:40" }, domain.CodeInvalidTimeFormat, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := bookingInput("555-0101", 2, "10:00")
			tc.mutate(&in)

			_, err := uc.Execute(context.Background(), in)
			require.Error(t, err)

			code, ok := httperr.CodeOf(err)
			require.True(t, ok)
			assert.Equal(t, tc.code, code)
			if tc.detail != "" {
				assert.Equal(t, tc.detail, httperr.DetailOf(err))
			}
		})
	}
}

func TestCreateBooking_RetriesStoreUnavailable(t *testing.T) {
	repo := newMemoryRepo(testServices()...)
	repo.FailNext(2)
	uc := NewCreateBooking(testDeps(repo))

	res, err := uc.Execute(context.Background(), bookingInput("555-0101", 1, "09:00"))
	require.NoError(t, err)
	assert.Equal(t, "09:30", res.Booking.EndTime)
	assert.Equal(t, 3, repo.ServiceCalls())
}

func TestCreateBooking_StoreUnavailableSurfacesAfterAttempts(t *testing.T) {
	repo := newMemoryRepo(testServices()...)
	repo.FailNext(10)
	uc := NewCreateBooking(testDeps(repo))

	_, err := uc.Execute(context.Background(), bookingInput("555-0101", 1, "09:00"))
	require.Error(t, err)
	assert.True(t, domain.IsStoreUnavailable(err))
	assert.Equal(t, 3, repo.ServiceCalls())
}

func TestCreateBooking_RetryAfterLostCommitReturnsOwnBooking(t *testing.T) {
	for _, status := range []string{"confirmed", "pending"} {
		t.Run(status, func(t *testing.T) {
			repo := newMemoryRepo(testServices()...)
			repo.LoseNextInsertAck()
			uc := NewCreateBooking(testDeps(repo))

			in := bookingInput("555-0101", 2, "10:00")
			in.Status = status
			res, err := uc.Execute(context.Background(), in)
			require.NoError(t, err)

			assert.Equal(t, 1, repo.BookingCount())
			assert.Equal(t, "10:45", res.Booking.EndTime)
			assert.Equal(t, status, res.Booking.Status)
			assert.Equal(t, "35.5", res.ServicePrice.String())
			assert.NotEmpty(t, res.Booking.Reference)
		})
	}
}

func TestCreateBooking_ConflictIsNotRetried(t *testing.T) {
	repo := newMemoryRepo(testServices()...)
	uc := NewCreateBooking(testDeps(repo))
	ctx := context.Background()

	_, err := uc.Execute(ctx, bookingInput("555-0101", 1, "09:00"))
	require.NoError(t, err)

	repo.ResetServiceCalls()
	_, err = uc.Execute(ctx, bookingInput("555-0102", 1, "09:00"))
	require.True(t, domain.IsSlotConflict(err))
	assert.Equal(t, 1, repo.ServiceCalls())
}

func TestCreateBooking_ConflictScope(t *testing.T) {
	ctx := context.Background()

	t.Run("per service lets other services overlap", func(t *testing.T) {
		repo := newMemoryRepo(testServices()...)
		uc := NewCreateBooking(testDeps(repo))

		_, err := uc.Execute(ctx, bookingInput("555-0101", 1, "10:00"))
		require.NoError(t, err)
		_, err = uc.Execute(ctx, bookingInput("555-0102", 3, "10:00"))
		assert.NoError(t, err)
	})

	t.Run("per business blocks every service", func(t *testing.T) {
		repo := newMemoryRepo(testServices()...)
		deps := testDeps(repo)
		deps.Scope = domain.ScopePerBusiness
		uc := NewCreateBooking(deps)

		_, err := uc.Execute(ctx, bookingInput("555-0101", 1, "10:00"))
		require.NoError(t, err)
		_, err = uc.Execute(ctx, bookingInput("555-0102", 3, "09:30"))
		assert.True(t, domain.IsSlotConflict(err))
	})
}

func TestCreateBooking_UpsertsCustomerByPhone(t *testing.T) {
	repo := newMemoryRepo(testServices()...)
	uc := NewCreateBooking(testDeps(repo))
	ctx := context.Background()

	first, err := uc.Execute(ctx, bookingInput("555-0101", 1, "09:00"))
	require.NoError(t, err)

	in := bookingInput("555-0101", 1, "12:00")
	in.CustomerName = "Ana Souza"
	in.CustomerEmail = "ANA@example.com"
	second, err := uc.Execute(ctx, in)
	require.NoError(t, err)

	assert.Equal(t, first.CustomerID, second.CustomerID)
	assert.Equal(t, "Ana Souza", second.Booking.Customer.Name)
	assert.Equal(t, "ana@example.com", second.Booking.Customer.Email)
	assert.Equal(t, 1, repo.CustomerCount())
}

func TestCreateBooking_EnforcedBusinessHours(t *testing.T) {
	repo := newMemoryRepo(testServices()...)
	deps := testDeps(repo)
	deps.EnforceHours = true
	uc := NewCreateBooking(deps)

	_, err := uc.Execute(context.Background(), bookingInput("555-0101", 3, "17:30"))
	assert.True(t, httperr.IsBusiness(err, domain.CodeOutsideBusinessHours))

	in := bookingInput("555-0101", 3, "10:00")
	in.BookingDate = "2026-01-19" // Monday
	_, err = uc.Execute(context.Background(), in)
	assert.True(t, httperr.IsBusiness(err, domain.CodeOutsideBusinessHours))
}

func TestCreateBooking_EmailCheck(t *testing.T) {
	repo := newMemoryRepo(testServices()...)
	deps := testDeps(repo)
	deps.EmailCheck = func(string) bool { return false }
	uc := NewCreateBooking(deps)

	in := bookingInput("555-0101", 1, "09:00")
	in.CustomerEmail = "nobody@invalid.test"
	_, err := uc.Execute(context.Background(), in)
	assert.True(t, httperr.IsBusiness(err, domain.CodeInvalidEmail))
}

func TestCreateBooking_PendingSkipsConflictCheck(t *testing.T) {
	repo := newMemoryRepo(testServices()...)
	uc := NewCreateBooking(testDeps(repo))
	ctx := context.Background()

	_, err := uc.Execute(ctx, bookingInput("555-0101", 1, "09:00"))
	require.NoError(t, err)

	in := bookingInput("555-0102", 1, "09:00")
	in.Status = "pending"
	res, err := uc.Execute(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusPending), res.Booking.Status)
	assert.Nil(t, res.Booking.ConfirmedAt)
}
