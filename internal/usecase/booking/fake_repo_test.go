package booking

import (
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/salon-booking/internal/infra/repository"
	"github.com/BruksfildServices01/salon-booking/internal/models"
)

type memoryRepo = repository.MemoryBookingRepository

func newMemoryRepo(services ...models.Service) *memoryRepo {
	return repository.NewMemoryBookingRepository(services...)
}

func testServices() []models.Service {
	return []models.Service{
		{ID: 1, Name: "Haircut", Price: decimal.RequireFromString("25.00"), DurationMinutes: 30},
		{ID: 2, Name: "Manicure", Price: decimal.RequireFromString("35.50"), DurationMinutes: 45},
		{ID: 3, Name: "Coloring", Price: decimal.RequireFromString("80.00"), DurationMinutes: 60},
	}
}
