package handler

import (
	"legal-docchat-be/internal/pkg/logger"
	"legal-docchat-be/internal/pkg/serverutils"
	"legal-docchat-be/internal/service"
	internalWS "legal-docchat-be/internal/websocket"
	"legal-docchat-be/pkg/toast"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

type NotificationHandler struct {
	service *service.NotificationService
	hub     *internalWS.Hub
	logger  logger.ILogger
}

func NewNotificationHandler(svc *service.NotificationService, hub *internalWS.Hub, log logger.ILogger) *NotificationHandler {
	return &NotificationHandler{
		service: svc,
		hub:     hub,
		logger:  log,
	}
}

// ServeWs upgrades the connection and attaches it to the toast hub. The
// session is shared process-wide, so no authentication handshake is needed.
func (h *NotificationHandler) ServeWs(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			h.logger.Info("NotificationHandler", "Starting WebSocket session", map[string]interface{}{"remote": conn.RemoteAddr().String()})
			internalWS.ServeWs(h.hub, conn)
			h.logger.Info("NotificationHandler", "WebSocket session ended", nil)
		})(c)
	}
	return fiber.ErrUpgradeRequired
}

// GetActive returns the toasts currently on display, oldest first. Lets a
// reconnecting client rebuild its toast stack.
func (h *NotificationHandler) GetActive(c *fiber.Ctx) error {
	active := h.service.Active()
	if active == nil {
		active = []toast.Toast{}
	}
	return c.JSON(serverutils.SuccessResponse("Active toasts retrieved", active))
}

// Dismiss removes a toast. Dismissing an unknown or already-expired id is a
// no-op and still succeeds.
func (h *NotificationHandler) Dismiss(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Toast id is required")
	}
	h.service.Dismiss(id)
	return c.JSON(serverutils.SuccessResponse("Toast dismissed", fiber.Map{"id": id}))
}

// RegisterRoutes registers the notification routes.
func (h *NotificationHandler) RegisterRoutes(router fiber.Router) {
	notif := router.Group("/notifications")
	notif.Get("/", h.GetActive)
	notif.Delete("/:id", h.Dismiss)

	// WebSocket
	router.Get("/ws", h.ServeWs)
}
