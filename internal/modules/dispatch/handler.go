package dispatch

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

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
	admin := rg.Group("/")
	admin.Use(middleware.AdminOnly())
	{
		admin.POST("/dispatch/plan", h.PlanRebalance)
		admin.POST("/dispatch/plans/:id/execute", h.ExecuteMoves)
	}
}

func (h *Handler) PlanRebalance(c *gin.Context) {
	plan, err := h.service.PlanRebalance(c.Request.Context())
	if errors.Is(err, ErrNoMoves) {
		response.Success(c, http.StatusOK, gin.H{"plan": nil})
		return
	}
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Created(c, gin.H{"plan": plan})
}

func (h *Handler) ExecuteMoves(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid plan id")
		return
	}

	results, err := h.service.ExecuteMoves(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrStalePlan) && len(results) > 0 {
			response.ErrorWithDetails(c, http.StatusConflict, "STALE_PLAN", err.Error(), gin.H{"results": results})
			return
		}
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"results": results})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, ErrStalePlan):
		response.Error(c, http.StatusConflict, "STALE_PLAN", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
	}
}
