package monitor

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/PhatDylan/Battery-Swap-Station-Management-BE-sub001/internal/middleware"
	"github.com/PhatDylan/Battery-Swap-Station-Management-BE-sub001/internal/pkg/response"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Dashboards connect from operator tooling on other origins;
	// access control is the bearer token, not the Origin header.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type Handler struct {
	hub *Hub
}

func NewHandler(hub *Hub) *Handler {
	return &Handler{hub: hub}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	staff := rg.Group("/")
	staff.Use(middleware.StaffOnly())
	{
		staff.GET("/stations/:id/monitor", h.Monitor)
	}
}

// Monitor upgrades the request and streams station events until the
// client hangs up.
func (h *Handler) Monitor(c *gin.Context) {
	stationID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid id")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	h.hub.Register(stationID, conn)
	defer h.hub.Unregister(stationID, conn)

	// Drain control frames; monitors are one-way.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
