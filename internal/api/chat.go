package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Subasree2717/agropredictor/internal/models"
	"github.com/Subasree2717/agropredictor/internal/service"
	"github.com/Subasree2717/agropredictor/internal/types"
)

// ChatHandler handles farming assistant requests
type ChatHandler struct {
	svc service.IChatService
}

func NewChatHandler(svc service.IChatService) *ChatHandler {
	return &ChatHandler{svc: svc}
}

// Chat answers one message
func (h *ChatHandler) Chat(c *gin.Context) {
	var req types.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		errorJSON(c, http.StatusBadRequest, "message is required")
		return
	}

	msg, err := h.svc.Reply(c.Request.Context(), req.Message)
	if err != nil {
		_ = c.Error(err)
		errorJSON(c, http.StatusInternalServerError, "failed to answer message")
		return
	}
	c.JSON(http.StatusOK, types.ChatResponse{Response: msg.BotResponse})
}

// History lists stored chat exchanges
func (h *ChatHandler) History(c *gin.Context) {
	var filter models.HistoryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}

	list, err := h.svc.History(c.Request.Context(), filter)
	if err != nil {
		_ = c.Error(err)
		errorJSON(c, http.StatusInternalServerError, "failed to load chat history")
		return
	}
	c.JSON(http.StatusOK, types.ChatHistoryResponse{Chats: list})
}
