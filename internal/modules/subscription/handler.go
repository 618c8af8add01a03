package subscription

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PhatDylan/Battery-Swap-Station-Management-BE-sub001/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/plans", h.ListPlans)
	rg.POST("/subscriptions", h.Subscribe)
	rg.GET("/users/me/subscription", h.MySubscription)
	rg.DELETE("/users/me/subscription", h.Cancel)
}

func (h *Handler) ListPlans(c *gin.Context) {
	plans, err := h.service.ListPlans(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"plans": plans})
}

func (h *Handler) Subscribe(c *gin.Context) {
	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	sub, err := h.service.Subscribe(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Created(c, gin.H{"subscription": sub})
}

func (h *Handler) MySubscription(c *gin.Context) {
	sub, err := h.service.MySubscription(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"subscription": sub})
}

func (h *Handler) Cancel(c *gin.Context) {
	if err := h.service.Cancel(c.Request.Context(), c.GetInt64("user_id")); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"cancelled": true})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, ErrAlreadyActive):
		response.Error(c, http.StatusConflict, "ALREADY_SUBSCRIBED", err.Error())
	case errors.Is(err, ErrInvalidState):
		response.Error(c, http.StatusConflict, "INVALID_STATE", err.Error())
	case errors.Is(err, ErrQuotaExceeded):
		response.Error(c, http.StatusConflict, "QUOTA_EXCEEDED", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
	}
}
