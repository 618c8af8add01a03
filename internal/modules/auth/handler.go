package auth

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

// RegisterPublicRoutes mounts the endpoints that work without a token.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/register", h.Register)
	rg.POST("/auth/login", h.Login)
}

// RegisterRoutes mounts the endpoints behind auth middleware.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/users/me", h.Me)
	rg.GET("/users/me/vehicles", h.MyVehicles)
	rg.POST("/users/me/vehicles", h.RegisterVehicle)
}

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	res, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Created(c, res)
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

func (h *Handler) Me(c *gin.Context) {
	u, err := h.service.Me(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": u})
}

func (h *Handler) RegisterVehicle(c *gin.Context) {
	var req RegisterVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	v, err := h.service.RegisterVehicle(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Created(c, gin.H{"vehicle": v})
}

func (h *Handler) MyVehicles(c *gin.Context) {
	vehicles, err := h.service.MyVehicles(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"vehicles": vehicles})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrEmailTaken):
		response.Error(c, http.StatusConflict, "EMAIL_TAKEN", err.Error())
	case errors.Is(err, ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", err.Error())
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
	}
}
