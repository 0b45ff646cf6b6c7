package model

import "time"

// ChatMessage WebSocket 消息
type ChatMessage struct {
	MessageID string    `json:"messageId"`
	Type      string    `json:"type"` // CHAT, HEARTBEAT, AI_RESPONSE
	Content   string    `json:"content"`
	Source    string    `json:"source,omitempty"`
	SessionID string    `json:"sessionId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatAck 聊天确认响应
type ChatAck struct {
	Success   bool   `json:"success"`
	MessageID string `json:"messageId,omitempty"`
	Message   string `json:"message"`
}
