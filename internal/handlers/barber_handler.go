package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/domain/availability"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/imaging"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/storage"
)

const (
	maxPhotoBytes = 5 << 20
	photoMaxSide  = 800
)

type BarberHandler struct {
	db    *gorm.DB
	store storage.ObjectStore
	audit audit.Sink
	log   *zap.Logger
}

// NewBarberHandler accepts a nil store; photo uploads then answer 503.
func NewBarberHandler(db *gorm.DB, store storage.ObjectStore, sink audit.Sink, log *zap.Logger) *BarberHandler {
	return &BarberHandler{db: db, store: store, audit: sink, log: log}
}

// --------- Requests ---------

type CreateBarberRequest struct {
	Name        string `json:"name" binding:"required"`
	Phone       string `json:"phone"`
	Description string `json:"description"`
}

// --------- Public ---------

// List returns barbers ordered by name. ?query= matches the barber name or
// the name of any of its services.
func (h *BarberHandler) List(c *gin.Context) {
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.Model(&models.Barber{})

	if query != "" {
		like := "%" + query + "%"
		q = q.Where(
			"LOWER(barbers.name) LIKE ? OR EXISTS (SELECT 1 FROM services WHERE services.barber_id = barbers.id AND LOWER(services.name) LIKE ?)",
			like, like,
		)
	}

	var barbers []models.Barber
	if err := q.Order("name ASC").Find(&barbers).Error; err != nil {
		h.log.Error("list barbers", zap.Error(err))
		httperr.Internal(c, "failed_to_list_barbers", "Erro ao listar barbeiros.")
		return
	}

	c.JSON(http.StatusOK, barbers)
}

func (h *BarberHandler) Get(c *gin.Context) {
	var barber models.Barber
	err := h.db.
		Preload("Services", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }).
		Preload("BusinessHours").
		Where("id = ?", c.Param("id")).
		First(&barber).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "barber_not_found", "Barbeiro não encontrado.")
			return
		}
		h.log.Error("get barber", zap.Error(err))
		httperr.Internal(c, "failed_to_get_barber", "Erro ao buscar barbeiro.")
		return
	}

	sortBusinessHours(barber.BusinessHours)
	c.JSON(http.StatusOK, barber)
}

// sortBusinessHours orders monday..sunday, then by opening time.
func sortBusinessHours(hours []models.BusinessHours) {
	sort.SliceStable(hours, func(i, j int) bool {
		di := availability.DayOfWeek(hours[i].DayOfWeek).Index()
		dj := availability.DayOfWeek(hours[j].DayOfWeek).Index()
		if di != dj {
			return di < dj
		}
		return hours[i].StartTime < hours[j].StartTime
	})
}

// --------- Admin ---------

func (h *BarberHandler) Create(c *gin.Context) {
	var req CreateBarberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	barber := models.Barber{
		Name:        strings.TrimSpace(req.Name),
		Phone:       req.Phone,
		Description: req.Description,
	}

	if err := h.db.Create(&barber).Error; err != nil {
		h.log.Error("create barber", zap.Error(err))
		httperr.Internal(c, "failed_to_create_barber", "Erro ao criar barbeiro.")
		return
	}

	userID := middleware.UserID(c)
	h.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "barber_created",
		Entity:   "barber",
		EntityID: &barber.ID,
	})

	c.JSON(http.StatusCreated, barber)
}

// UploadPhoto expects a multipart "photo" field, stores it as WebP and
// points the barber at the new URL.
func (h *BarberHandler) UploadPhoto(c *gin.Context) {
	if h.store == nil {
		httperr.Unavailable(c, "storage_disabled", "Armazenamento de imagens não configurado.")
		return
	}

	var barber models.Barber
	if err := h.db.Where("id = ?", c.Param("id")).First(&barber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "barber_not_found", "Barbeiro não encontrado.")
			return
		}
		httperr.Internal(c, "failed_to_get_barber", "Erro ao buscar barbeiro.")
		return
	}

	fh, err := c.FormFile("photo")
	if err != nil {
		httperr.BadRequest(c, "missing_photo", "Envie a imagem no campo photo.")
		return
	}
	if fh.Size > maxPhotoBytes {
		httperr.BadRequest(c, "photo_too_large", "Imagem maior que 5MB.")
		return
	}

	f, err := fh.Open()
	if err != nil {
		httperr.BadRequest(c, "missing_photo", "Não foi possível ler a imagem.")
		return
	}
	defer f.Close()

	data, err := imaging.ToWebP(f, photoMaxSide)
	if err != nil {
		if errors.Is(err, imaging.ErrUnsupportedImage) {
			httperr.BadRequest(c, "unsupported_image", "Formato de imagem não suportado.")
			return
		}
		h.log.Error("convert photo", zap.Error(err))
		httperr.Internal(c, "failed_to_convert_photo", "Erro ao processar imagem.")
		return
	}

	key := fmt.Sprintf("barbers/%s/%s.webp", barber.ID, uuid.NewString())
	url, err := h.store.Put(c.Request.Context(), key, "image/webp", data)
	if err != nil {
		h.log.Error("store photo", zap.Error(err), zap.String("key", key))
		httperr.Internal(c, "failed_to_store_photo", "Erro ao salvar imagem.")
		return
	}

	if err := h.db.Model(&barber).Update("photo_url", url).Error; err != nil {
		httperr.Internal(c, "failed_to_update_barber", "Erro ao atualizar barbeiro.")
		return
	}

	userID := middleware.UserID(c)
	h.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "barber_photo_uploaded",
		Entity:   "barber",
		EntityID: &barber.ID,
		Metadata: map[string]any{"url": url, "bytes": len(data)},
	})

	c.JSON(http.StatusOK, gin.H{"photo_url": url})
}
