package booking

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/PhatDylan/Battery-Swap-Station-Management-BE-sub001/internal/domain"
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
	rg.POST("/bookings", h.CreateBooking)
	rg.GET("/bookings/:id", h.GetBooking)
	rg.PATCH("/bookings/:id/cancel", h.CancelBooking)
	rg.GET("/stations/:id/availability", h.GetAvailability)
	rg.GET("/users/me/bookings", h.GetMyBookings)

	staff := rg.Group("/")
	staff.Use(middleware.StaffOnly())
	{
		staff.PATCH("/bookings/:id/confirm", h.ConfirmBooking)
		staff.PATCH("/bookings/:id/reject", h.RejectBooking)
		staff.GET("/stations/:id/bookings", h.GetStationBookings)
	}
}

func (h *Handler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	req.UserID = c.GetInt64("user_id")

	b, err := h.service.CreateBooking(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Created(c, gin.H{"booking": b})
}

func (h *Handler) GetBooking(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) ConfirmBooking(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	b, err := h.service.ConfirmBooking(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) RejectBooking(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req RejectBookingRequest
	_ = c.ShouldBindJSON(&req) // reason is optional

	b, err := h.service.RejectBooking(c.Request.Context(), id, req.Reason)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) CancelBooking(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	b, err := h.service.CancelBooking(c.Request.Context(), id, c.GetInt64("user_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) GetAvailability(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	date := c.Query("date")
	filter := domain.BookingStatus(c.Query("status"))

	avail, err := h.service.GetAvailability(c.Request.Context(), id, date, filter)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, avail)
}

func (h *Handler) GetMyBookings(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	bookings, err := h.service.GetMyBookings(c.Request.Context(), c.GetInt64("user_id"), limit, offset)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"bookings": bookings})
}

func (h *Handler) GetStationBookings(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	bookings, err := h.service.GetStationBookings(c.Request.Context(), id, limit, offset)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"bookings": bookings})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch err {
	case ErrValidation:
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking input")
	case ErrNotFound:
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Resource not found")
	case ErrSlotConflict:
		response.Error(c, http.StatusConflict, "SLOT_CONFLICT", "Time slot is already booked")
	case ErrInvalidState:
		response.Error(c, http.StatusConflict, "INVALID_STATE", "Booking is not in the required state")
	case ErrNoAvailableBattery:
		response.Error(c, http.StatusConflict, "NO_AVAILABLE_BATTERY", "No charged battery of the requested type at this station")
	case ErrForbidden:
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You do not own this resource")
	case ErrCancelWindowClosed:
		response.Error(c, http.StatusConflict, "CANCEL_WINDOW_CLOSED", "The booking can no longer be cancelled")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Unexpected error")
	}
}

func paramID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid id")
		return 0, false
	}
	return id, true
}
