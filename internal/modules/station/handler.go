package station

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/PhatDylan/Battery-Swap-Station-Management-BE-sub001/internal/middleware"
	"github.com/PhatDylan/Battery-Swap-Station-Management-BE-sub001/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/stations", h.ListStations)
	rg.GET("/stations/:id", h.GetStation)
	rg.GET("/stations/:id/summary", h.GetSummary)

	staff := rg.Group("/")
	staff.Use(middleware.StaffOnly())
	{
		staff.GET("/stations/:id/slots", h.ListSlots)
		staff.POST("/slots/:id/occupy", h.OccupySlot)
		staff.POST("/slots/:id/release", h.ReleaseSlot)
		staff.POST("/stations/:id/reset-slots", h.ResetSlots)
	}

	admin := rg.Group("/")
	admin.Use(middleware.AdminOnly())
	{
		admin.POST("/stations", h.CreateStation)
	}
}

func (h *Handler) CreateStation(c *gin.Context) {
	var req CreateStationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	st, err := h.service.CreateStation(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Created(c, gin.H{"station": st})
}

func (h *Handler) ListStations(c *gin.Context) {
	stations, err := h.service.ListStations(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"stations": stations})
}

func (h *Handler) GetStation(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid id")
		return
	}

	st, err := h.service.GetStation(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"station": st})
}

func (h *Handler) GetSummary(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid id")
		return
	}

	sum, err := h.service.Summary(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"summary": sum})
}

func (h *Handler) ListSlots(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid id")
		return
	}

	slots, err := h.service.ListSlots(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"slots": slots})
}

func (h *Handler) OccupySlot(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid id")
		return
	}

	var req OccupySlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	if err := h.service.OccupySlot(c.Request.Context(), id, req); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"slot_id": id})
}

func (h *Handler) ReleaseSlot(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid id")
		return
	}

	if err := h.service.ReleaseSlot(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"slot_id": id})
}

func (h *Handler) ResetSlots(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid id")
		return
	}

	res, err := h.service.ResetStationBatterySlot(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"result": res})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, ErrConflict):
		response.Error(c, http.StatusConflict, "CONFLICT", err.Error())
	case errors.Is(err, ErrInvalidState):
		response.Error(c, http.StatusConflict, "INVALID_STATE", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
	}
}
