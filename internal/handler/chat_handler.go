package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/syriagpt/syriagpt-go/internal/model"
	"github.com/syriagpt/syriagpt-go/internal/service"
	"go.uber.org/zap"
)

// ChatHandler 对话回答处理器
type ChatHandler struct {
	answerService *service.AnswerService
	logger        *zap.Logger
}

// NewChatHandler 创建对话回答处理器
func NewChatHandler(answerService *service.AnswerService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		answerService: answerService,
		logger:        logger,
	}
}

// Answer 对话回答接口
//
// 空消息返回 400；其余情况保证 200 + 非空回答（编排器两级降级）。
func (h *ChatHandler) Answer(c *gin.Context) {
	var req model.ChatAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "invalid request"})
		return
	}

	result, err := h.answerService.Answer(req.Message, req.History)
	if err != nil {
		if errors.Is(err, service.ErrEmptyMessage) {
			c.JSON(400, gin.H{"error": "message 不能为空"})
			return
		}
		// 不向调用方泄漏内部细节
		h.logger.Error("对话回答失败", zap.Error(err))
		c.JSON(500, gin.H{"error": "服务器内部错误，请稍后再试"})
		return
	}

	h.logger.Info("对话回答完成",
		zap.String("source", result.Source),
		zap.Int("answerLength", len(result.Answer)))

	c.JSON(200, model.ChatAnswerResponse{
		Answer:    result.Answer,
		Source:    result.Source,
		Timestamp: time.Now(),
	})
}
