package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/syriagpt/syriagpt-go/internal/model"
	"github.com/syriagpt/syriagpt-go/internal/service"
	"go.uber.org/zap"
)

// QAHandler 智能问答处理器
type QAHandler struct {
	qaService *service.QAService
	logger    *zap.Logger
}

// NewQAHandler 创建智能问答处理器
func NewQAHandler(qaService *service.QAService, logger *zap.Logger) *QAHandler {
	return &QAHandler{
		qaService: qaService,
		logger:    logger,
	}
}

// Ask 智能问答接口
func (h *QAHandler) Ask(c *gin.Context) {
	var req model.QARequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "invalid request"})
		return
	}

	result, related, err := h.qaService.Ask(c.Request.Context(), req.Question)
	if err != nil {
		if errors.Is(err, service.ErrEmptyMessage) {
			c.JSON(400, gin.H{"error": "question 不能为空"})
			return
		}
		h.logger.Error("智能问答失败", zap.Error(err))
		c.JSON(500, gin.H{"error": "服务器内部错误，请稍后再试"})
		return
	}

	h.logger.Info("智能问答完成",
		zap.String("source", result.Source),
		zap.Int("relatedCount", len(related)))

	c.JSON(200, model.QAResponse{
		Answer:           result.Answer,
		RelatedQuestions: related,
		Timestamp:        time.Now(),
	})
}
