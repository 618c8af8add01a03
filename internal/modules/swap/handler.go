package swap

import (
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
	rg.GET("/users/me/swaps", h.GetMySwaps)

	staff := rg.Group("/")
	staff.Use(middleware.StaffOnly())
	{
		staff.POST("/swaps", h.CreateSwap)
		staff.PATCH("/swaps/:id/status", h.UpdateSwapStatus)
		staff.PATCH("/swaps/:id/payment", h.AttachPayment)
	}
}

func (h *Handler) CreateSwap(c *gin.Context) {
	var req CreateSwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	req.StaffID = c.GetInt64("user_id")

	sw, err := h.service.CreateSwapFromBooking(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Created(c, gin.H{"swap": sw})
}

func (h *Handler) UpdateSwapStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid id")
		return
	}

	var req UpdateSwapStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	sw, err := h.service.UpdateSwapStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"swap": sw})
}

func (h *Handler) AttachPayment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid id")
		return
	}

	var req AttachPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	if err := h.service.AttachPayment(c.Request.Context(), id, req.PaymentID); err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"swap_id": id, "payment_id": req.PaymentID})
}

func (h *Handler) GetMySwaps(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	swaps, err := h.service.GetMySwaps(c.Request.Context(), c.GetInt64("user_id"), limit, offset)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"swaps": swaps})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch err {
	case ErrValidation:
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid swap input")
	case ErrNotFound:
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Resource not found")
	case ErrInvalidState:
		response.Error(c, http.StatusConflict, "INVALID_STATE", "Swap precondition not met")
	case ErrConflict:
		response.Error(c, http.StatusConflict, "CONFLICT", "Swap lost a concurrent update")
	case ErrQuotaExceeded:
		response.Error(c, http.StatusConflict, "QUOTA_EXCEEDED", "Monthly swap allowance exhausted")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Unexpected error")
	}
}
