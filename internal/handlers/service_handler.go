package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-booking/internal/audit"
	"github.com/BruksfildServices01/salon-booking/internal/cache"
	domain "github.com/BruksfildServices01/salon-booking/internal/domain/booking"
	"github.com/BruksfildServices01/salon-booking/internal/httperr"
	"github.com/BruksfildServices01/salon-booking/internal/httpresp"
	"github.com/BruksfildServices01/salon-booking/internal/media"
	"github.com/BruksfildServices01/salon-booking/internal/middleware"
	"github.com/BruksfildServices01/salon-booking/internal/models"
)

type ServiceHandler struct {
	db    *gorm.DB
	media media.Store
	cache cache.AvailabilityCache
	audit *audit.Dispatcher
	log   *logrus.Logger
}

// NewServiceHandler accepts a nil media store; image uploads then answer 503.
func NewServiceHandler(
	db *gorm.DB,
	store media.Store,
	availability cache.AvailabilityCache,
	dispatcher *audit.Dispatcher,
	log *logrus.Logger,
) *ServiceHandler {
	if availability == nil {
		availability = cache.Noop{}
	}
	return &ServiceHandler{
		db:    db,
		media: store,
		cache: availability,
		audit: dispatcher,
		log:   log,
	}
}

// --------- Requests ---------

type CreateServiceRequest struct {
	Name            string          `json:"name" binding:"required"`
	Description     string          `json:"description"`
	DurationMinutes int             `json:"duration_minutes" binding:"required,min=1"`
	Price           decimal.Decimal `json:"price"`
	DisplayOrder    int             `json:"display_order"`
	Category        string          `json:"category"`
}

type UpdateServiceRequest struct {
	Name            *string          `json:"name,omitempty"`
	Description     *string          `json:"description,omitempty"`
	DurationMinutes *int             `json:"duration_minutes,omitempty"`
	Price           *decimal.Decimal `json:"price,omitempty"`
	DisplayOrder    *int             `json:"display_order,omitempty"`
	Category        *string          `json:"category,omitempty"`
}

// --------- Handlers ---------

// List serves both the public catalog and the admin listing.
func (h *ServiceHandler) List(c *gin.Context) {
	category := strings.ToLower(strings.TrimSpace(c.Query("category")))
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.WithContext(c.Request.Context())

	if category != "" {
		q = q.Where("LOWER(category) = ?", category)
	}

	if query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var services []models.Service
	if err := q.
		Order("display_order ASC, id ASC").
		Find(&services).Error; err != nil {

		httperr.Internal(c, "failed_to_list_services", "Could not list services.")
		return
	}

	httpresp.List(c, services)
}

func (h *ServiceHandler) Get(c *gin.Context) {
	svc, ok := h.load(c)
	if !ok {
		return
	}
	httpresp.OK(c, svc)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.WriteDetail(c, http.StatusBadRequest, "invalid_request", "Invalid request body.", err.Error())
		return
	}
	if req.Price.IsNegative() {
		httperr.BadRequest(c, "invalid_price", "Price cannot be negative.")
		return
	}

	svc := models.Service{
		Name:            strings.TrimSpace(req.Name),
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		Price:           req.Price,
		DisplayOrder:    req.DisplayOrder,
		Category:        strings.ToLower(strings.TrimSpace(req.Category)),
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&svc).Error; err != nil {
		httperr.Internal(c, "failed_to_create_service", "Could not create service.")
		return
	}

	h.record(c, "service_created", svc.ID, gin.H{"name": svc.Name})
	httpresp.Created(c, svc)
}

// Update never touches existing bookings: their end times were fixed when
// they were created.
func (h *ServiceHandler) Update(c *gin.Context) {
	svc, ok := h.load(c)
	if !ok {
		return
	}

	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.WriteDetail(c, http.StatusBadRequest, "invalid_request", "Invalid request body.", err.Error())
		return
	}

	if req.Name != nil {
		svc.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		svc.Description = *req.Description
	}
	if req.DurationMinutes != nil {
		if *req.DurationMinutes <= 0 {
			httperr.BadRequest(c, "invalid_duration", "Duration must be a positive number of minutes.")
			return
		}
		svc.DurationMinutes = *req.DurationMinutes
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			httperr.BadRequest(c, "invalid_price", "Price cannot be negative.")
			return
		}
		svc.Price = *req.Price
	}
	if req.DisplayOrder != nil {
		svc.DisplayOrder = *req.DisplayOrder
	}
	if req.Category != nil {
		svc.Category = strings.ToLower(strings.TrimSpace(*req.Category))
	}

	if err := h.db.WithContext(c.Request.Context()).Save(svc).Error; err != nil {
		httperr.Internal(c, "failed_to_update_service", "Could not update service.")
		return
	}

	// Cached slot lists were computed with the old duration.
	if req.DurationMinutes != nil {
		h.cache.InvalidateAll(c.Request.Context())
	}

	h.record(c, "service_updated", svc.ID, nil)
	httpresp.OK(c, svc)
}

func (h *ServiceHandler) Delete(c *gin.Context) {
	svc, ok := h.load(c)
	if !ok {
		return
	}

	var inUse int64
	if err := h.db.WithContext(c.Request.Context()).
		Model(&models.Booking{}).
		Where("service_id = ?", svc.ID).
		Count(&inUse).Error; err != nil {

		httperr.Internal(c, "failed_to_delete_service", "Could not delete service.")
		return
	}
	if inUse > 0 {
		mapBookingError(c, domain.ErrServiceInUse)
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Delete(svc).Error; err != nil {
		if inUseErr := deleteConflict(err); inUseErr != nil {
			mapBookingError(c, inUseErr)
			return
		}
		httperr.Internal(c, "failed_to_delete_service", "Could not delete service.")
		return
	}

	h.record(c, "service_deleted", svc.ID, gin.H{"name": svc.Name})
	c.Status(http.StatusNoContent)
}

// deleteConflict covers a booking inserted between the count and the delete:
// the RESTRICT foreign key refuses the delete.
func deleteConflict(err error) error {
	if httperr.IsForeignKeyViolation(err) {
		return domain.ErrServiceInUse
	}
	return nil
}

// UploadImage takes a multipart "image" field.
func (h *ServiceHandler) UploadImage(c *gin.Context) {
	if h.media == nil {
		httperr.Unavailable(c, "media_unavailable", "Image storage is not configured.")
		return
	}

	svc, ok := h.load(c)
	if !ok {
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		httperr.BadRequest(c, "missing_image", "Send the image in the \"image\" field.")
		return
	}

	f, err := file.Open()
	if err != nil {
		httperr.BadRequest(c, "invalid_image", "Could not read the image.")
		return
	}
	defer f.Close()

	body, err := media.ToWebP(f, media.DefaultMaxWidth)
	if err != nil {
		if errors.Is(err, media.ErrUnsupportedImage) || errors.Is(err, media.ErrImageTooLarge) {
			httperr.BadRequest(c, "invalid_image", "Use a JPEG, PNG or WebP image up to 8MB.")
			return
		}
		httperr.Internal(c, "image_processing_failed", "Could not process the image.")
		return
	}

	key := fmt.Sprintf("services/%d/%d.webp", svc.ID, time.Now().UnixNano())
	url, err := h.media.Put(c.Request.Context(), key, body, "image/webp")
	if err != nil {
		h.log.WithError(err).WithField("service_id", svc.ID).Error("image upload failed")
		httperr.Unavailable(c, "media_unavailable", "Could not store the image.")
		return
	}

	svc.ImageURL = url
	if err := h.db.WithContext(c.Request.Context()).
		Model(svc).
		Update("image_url", url).Error; err != nil {

		httperr.Internal(c, "failed_to_update_service", "Could not update service.")
		return
	}

	h.record(c, "service_image_uploaded", svc.ID, gin.H{"url": url})
	httpresp.OK(c, svc)
}

// --------- Helpers ---------

func (h *ServiceHandler) load(c *gin.Context) (*models.Service, bool) {
	id, ok := idParam(c)
	if !ok {
		return nil, false
	}

	var svc models.Service
	if err := h.db.WithContext(c.Request.Context()).First(&svc, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			mapBookingError(c, domain.ErrServiceNotFound)
			return nil, false
		}
		httperr.Internal(c, "failed_to_get_service", "Could not load service.")
		return nil, false
	}
	return &svc, true
}

func (h *ServiceHandler) record(c *gin.Context, action string, id uint, meta any) {
	h.audit.Dispatch(audit.Event{
		UserID:   middleware.ActorID(c),
		Action:   action,
		Entity:   "service",
		EntityID: audit.Ptr(id),
		Metadata: meta,
	})
}
