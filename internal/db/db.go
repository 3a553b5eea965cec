package db

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BruksfildServices01/salon-booking/internal/config"
	"github.com/BruksfildServices01/salon-booking/internal/domain/booking"
	"github.com/BruksfildServices01/salon-booking/internal/models"
)

func NewDB(cfg *config.Config, log *logrus.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
		Logger:      logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Service{},
		&models.Customer{},
		&models.Booking{},
		&models.AuditLog{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	scope, err := cfg.Scope()
	if err != nil {
		return nil, err
	}
	ensureOverlapConstraint(db, scope, log)

	if err := SeedAdmin(db, cfg, log); err != nil {
		return nil, fmt.Errorf("failed to seed admin: %w", err)
	}

	return db, nil
}

const (
	constraintPerService  = "bookings_no_overlap_per_service"
	constraintPerBusiness = "bookings_no_overlap_per_business"
)

// overlapConstraint returns the constraint to install for scope, the one to
// drop, and the DDL adding the wanted one. The range columns are integer, so
// int4range applies to them without a cast.
func overlapConstraint(scope booking.ConflictScope) (want, drop, stmt string) {
	want, drop = constraintPerService, constraintPerBusiness
	columns := "service_id WITH =, booking_date WITH ="
	if scope == booking.ScopePerBusiness {
		want, drop = constraintPerBusiness, constraintPerService
		columns = "booking_date WITH ="
	}

	stmt = fmt.Sprintf(`
        ALTER TABLE bookings
        ADD CONSTRAINT %s
        EXCLUDE USING gist (%s, int4range(start_minute, end_minute) WITH &&)
        WHERE (status IN ('confirmed', 'completed'))
    `, want, columns)
	return want, drop, stmt
}

// ensureOverlapConstraint installs the exclusion constraint matching the
// configured conflict scope and drops the other one. Existing overlapping
// rows make the ALTER fail; the lock discipline still applies then, so it is
// only logged.
func ensureOverlapConstraint(db *gorm.DB, scope booking.ConflictScope, log *logrus.Logger) {
	want, drop, stmt := overlapConstraint(scope)

	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS btree_gist").Error; err != nil {
		log.WithError(err).Warn("btree_gist unavailable, overlap constraint skipped")
		return
	}

	if err := db.Exec(fmt.Sprintf("ALTER TABLE bookings DROP CONSTRAINT IF EXISTS %s", drop)).Error; err != nil {
		log.WithError(err).WithField("constraint", drop).Warn("could not drop overlap constraint")
	}

	var count int64
	if err := db.Raw("SELECT COUNT(*) FROM pg_constraint WHERE conname = ?", want).Scan(&count).Error; err != nil {
		log.WithError(err).WithField("constraint", want).Warn("could not inspect overlap constraint")
		return
	}
	if count > 0 {
		return
	}

	if err := db.Exec(stmt).Error; err != nil {
		log.WithError(err).WithField("constraint", want).Warn("could not add overlap constraint")
		return
	}
	log.WithField("constraint", want).Info("overlap constraint installed")
}
