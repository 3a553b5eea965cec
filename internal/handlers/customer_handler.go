package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-booking/internal/httperr"
	"github.com/BruksfildServices01/salon-booking/internal/httpresp"
	"github.com/BruksfildServices01/salon-booking/internal/models"
)

type CustomerHandler struct {
	db *gorm.DB
}

func NewCustomerHandler(db *gorm.DB) *CustomerHandler {
	return &CustomerHandler{db: db}
}

type CustomerListItem struct {
	models.Customer
	Bookings int64 `json:"bookings"`
}

// ======================================================
// LIST CUSTOMERS
// ======================================================
func (h *CustomerHandler) List(c *gin.Context) {
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	q := h.db.WithContext(c.Request.Context()).
		Model(&models.Customer{}).
		Select("customers.*, COUNT(bookings.id) AS bookings").
		Joins("LEFT JOIN bookings ON bookings.customer_id = customers.id").
		Group("customers.id")

	if query != "" {
		like := "%" + query + "%"
		q = q.Where(
			"LOWER(customers.name) LIKE ? OR customers.phone LIKE ? OR LOWER(customers.email) LIKE ?",
			like, like, like,
		)
	}

	var customers []CustomerListItem
	if err := q.
		Order("customers.created_at DESC").
		Limit(limit).
		Scan(&customers).Error; err != nil {

		httperr.Internal(c, "failed_to_list_customers", "Could not list customers.")
		return
	}

	httpresp.List(c, customers)
}
