package handler

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/syriagpt/syriagpt-go/internal/model"
	"github.com/syriagpt/syriagpt-go/internal/service"
	"go.uber.org/zap"
)

// WebSocketHandler 实时对话网关
type WebSocketHandler struct {
	answerService *service.AnswerService
	logger        *zap.Logger
	upgrader      websocket.Upgrader
}

// NewWebSocketHandler 创建实时对话网关
func NewWebSocketHandler(answerService *service.AnswerService, logger *zap.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		answerService: answerService,
		logger:        logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// wsConn 带写锁的连接包装：回答异步推送，写操作需要串行化
type wsConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsConn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

// Handle WebSocket 连接入口
func (h *WebSocketHandler) Handle(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("WebSocket 升级失败", zap.Error(err))
		return
	}
	defer conn.Close()

	sessionID := c.Query("sessionId")
	if sessionID == "" {
		sessionID = uuid.New().String()
	}
	h.logger.Info("WebSocket 连接建立", zap.String("sessionId", sessionID))

	wc := &wsConn{conn: conn}
	for {
		var msg model.ChatMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("WebSocket 连接异常断开", zap.Error(err))
			}
			break
		}

		switch msg.Type {
		case "CHAT":
			h.handleChat(wc, sessionID, msg)
		case "HEARTBEAT":
			h.logger.Debug("收到心跳", zap.String("sessionId", sessionID))
		default:
			h.logger.Warn("未知消息类型", zap.String("type", msg.Type))
		}
	}

	h.logger.Info("WebSocket 连接关闭", zap.String("sessionId", sessionID))
}

// handleChat 先回确认，再异步求解并推送 AI_RESPONSE
func (h *WebSocketHandler) handleChat(wc *wsConn, sessionID string, msg model.ChatMessage) {
	if err := wc.WriteJSON(model.ChatAck{
		Success:   true,
		MessageID: msg.MessageID,
		Message:   "received",
	}); err != nil {
		h.logger.Error("发送确认失败", zap.Error(err))
		return
	}

	go func() {
		result, err := h.answerService.Answer(msg.Content, nil)
		if err != nil {
			h.logger.Error("WebSocket 对话回答失败", zap.Error(err))
			result = &model.AnswerResult{
				Answer: "عذراً، حدث خطأ أثناء معالجة رسالتك. حاول مرة أخرى.",
				Source: model.SourceLastResort,
			}
		}

		if err := wc.WriteJSON(model.ChatMessage{
			MessageID: uuid.New().String(),
			Type:      "AI_RESPONSE",
			Content:   result.Answer,
			Source:    result.Source,
			SessionID: sessionID,
			Timestamp: time.Now(),
		}); err != nil {
			h.logger.Error("推送回答失败", zap.Error(err))
		}
	}()
}
