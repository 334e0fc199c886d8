package handler

import (
	"log"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lily666-hub/cityrun-backend-go/internal/middleware"
	"github.com/lily666-hub/cityrun-backend-go/internal/models"
	"github.com/lily666-hub/cityrun-backend-go/internal/service"
	"github.com/lily666-hub/cityrun-backend-go/pkg/response"
)

// AdviceHandler handles HTTP requests for the advice chat
type AdviceHandler struct {
	adviceService *service.AdviceService
}

// NewAdviceHandler creates a new advice handler
func NewAdviceHandler(adviceService *service.AdviceService) *AdviceHandler {
	return &AdviceHandler{
		adviceService: adviceService,
	}
}

// Chat handles POST /api/v1/advice/chat
func (h *AdviceHandler) Chat(c *gin.Context) {
	ownerID := middleware.OwnerID(c)

	var req models.AdviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "A message is required")
		return
	}

	reply, err := h.adviceService.Chat(c.Request.Context(), ownerID, req)
	if err != nil {
		// Degraded offline mode: the reply tells the client to fall back
		// to stored history
		log.Printf("[AdviceHandler] chat degraded: %v", err)
		response.ServiceUnavailable(c, "Advice service unavailable", reply)
		return
	}
	response.Success(c, reply)
}

// History handles GET /api/v1/advice/history
func (h *AdviceHandler) History(c *gin.Context) {
	ownerID := middleware.OwnerID(c)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	messages, err := h.adviceService.History(ownerID, limit)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, gin.H{
		"data":  messages,
		"count": len(messages),
	})
}
