package model

import "time"

// 消息发送方
const (
	SenderUser = "user"
	SenderBot  = "bot"
)

// 回答来源层级
const (
	SourcePrimary    = "primary"     // 主生成后端
	SourceFallback   = "fallback"    // 本地知识兜底
	SourceLastResort = "last-resort" // 固定道歉语（理论上不可达）
	SourceCache      = "cache"       // 问答缓存命中
)

// Attachment 附件
type Attachment struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Size          int64  `json:"size"`
	MIMEType      string `json:"mimeType"`
	Data          []byte `json:"-"`
	ExtractedText string `json:"extractedText,omitempty"`
}

// Message 会话消息
type Message struct {
	ID          string       `json:"id"`
	Sender      string       `json:"sender"` // user, bot
	Content     string       `json:"content"`
	Timestamp   time.Time    `json:"timestamp"`
	IsTyping    bool         `json:"isTyping,omitempty"` // 占位消息标记
	Attachments []Attachment `json:"attachments,omitempty"`
}

// AnswerResult 编排器回答结果
type AnswerResult struct {
	Answer string `json:"answer"`
	Source string `json:"source"` // primary, fallback, last-resort
}

// ChatAnswerRequest 对话回答请求
type ChatAnswerRequest struct {
	Message string    `json:"message"`
	History []Message `json:"history,omitempty"`
}

// ChatAnswerResponse 对话回答响应
type ChatAnswerResponse struct {
	Answer    string    `json:"answer"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
}

// QARequest 智能问答请求
type QARequest struct {
	Question string `json:"question"`
}

// QAResponse 智能问答响应
type QAResponse struct {
	Answer           string    `json:"answer"`
	RelatedQuestions []string  `json:"related_questions"`
	Timestamp        time.Time `json:"timestamp"`
}

// FileAnalysisResponse 文件分析响应
type FileAnalysisResponse struct {
	Success        bool      `json:"success"`
	FileName       string    `json:"fileName"`
	FileSize       int64     `json:"fileSize"`
	FileType       string    `json:"fileType"`
	ExtractedText  string    `json:"extractedText"`
	Analysis       string    `json:"analysis"`
	AnalysisSource string    `json:"analysisSource"`
	Timestamp      time.Time `json:"timestamp"`
}
