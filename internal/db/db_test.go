package db

import (
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"

	"github.com/BruksfildServices01/salon-booking/internal/domain/booking"
	"github.com/BruksfildServices01/salon-booking/internal/models"
)

// int4range has no bigint overload, so the range columns must migrate as
// integer for the exclusion constraint to be created.
func TestBookingRangeColumnsMigrateAsInteger(t *testing.T) {
	s, err := schema.Parse(&models.Booking{}, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)

	dialector := postgres.Dialector{Config: &postgres.Config{}}
	for _, name := range []string{"StartMinute", "EndMinute"} {
		field := s.LookUpField(name)
		require.NotNil(t, field, name)
		assert.Equal(t, "integer", dialector.DataTypeOf(field), name)
	}
}

func TestOverlapConstraintPerScope(t *testing.T) {
	want, drop, stmt := overlapConstraint(booking.ScopePerService)
	assert.Equal(t, constraintPerService, want)
	assert.Equal(t, constraintPerBusiness, drop)
	assert.Contains(t, stmt, "service_id WITH =, booking_date WITH =")
	assert.Contains(t, stmt, "int4range(start_minute, end_minute) WITH &&")
	assert.Contains(t, stmt, "status IN ('confirmed', 'completed')")

	want, drop, stmt = overlapConstraint(booking.ScopePerBusiness)
	assert.Equal(t, constraintPerBusiness, want)
	assert.Equal(t, constraintPerService, drop)
	assert.NotContains(t, stmt, "service_id")
	assert.Contains(t, stmt, "ADD CONSTRAINT "+constraintPerBusiness)
}

func TestEnsureOverlapConstraintStopsWhenLookupFails(t *testing.T) {
	// Dry-run statements succeed without a server but Scan is unsupported,
	// so the constraint lookup fails.
	db, err := gorm.Open(postgres.Open("host=127.0.0.1 port=1 user=x dbname=x sslmode=disable"), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               logger.Discard,
	})
	require.NoError(t, err)

	log, hook := test.NewNullLogger()
	ensureOverlapConstraint(db, booking.ScopePerService, log)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, "could not inspect overlap constraint", entry.Message)
	for _, e := range hook.AllEntries() {
		assert.NotEqual(t, "overlap constraint installed", e.Message)
	}
}
