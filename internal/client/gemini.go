package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// 调用失败分类，供编排器区分降级原因
var (
	ErrUnauthorized  = errors.New("gemini: 鉴权失败")
	ErrQuotaExceeded = errors.New("gemini: 配额耗尽")
	ErrEmptyAnswer   = errors.New("gemini: 返回为空")
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GeminiClient Gemini 客户端
type GeminiClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewGeminiClient 创建 Gemini 客户端
func NewGeminiClient(apiKey, model string, logger *zap.Logger) *GeminiClient {
	return &GeminiClient{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// SetBaseURL 覆盖接口地址（测试用）
func (c *GeminiClient) SetBaseURL(url string) {
	c.baseURL = strings.TrimRight(url, "/")
}

// IsConfigured 是否已配置 API Key
func (c *GeminiClient) IsConfigured() bool {
	return c.apiKey != ""
}

// Message 消息
type Message struct {
	Role    string `json:"role"` // system, user, assistant
	Content string `json:"content"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type generateRequest struct {
	SystemInstruction *geminiContent   `json:"systemInstruction,omitempty"`
	Contents          []geminiContent  `json:"contents"`
	GenerationConfig  generationConfig `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
	} `json:"usageMetadata"`
}

// Chat 调用 Gemini 生成接口
//
// system 角色消息合并为 systemInstruction，assistant 映射为 model 角色。
// 生成预算固定：temperature 0.7，maxOutputTokens 2000。
func (c *GeminiClient) Chat(messages []Message) (string, error) {
	if !c.IsConfigured() {
		return "", ErrUnauthorized
	}

	req := generateRequest{
		GenerationConfig: generationConfig{
			Temperature:     0.7,
			MaxOutputTokens: 2000,
		},
	}

	for _, msg := range messages {
		switch msg.Role {
		case "system":
			if req.SystemInstruction == nil {
				req.SystemInstruction = &geminiContent{}
			}
			req.SystemInstruction.Parts = append(req.SystemInstruction.Parts, geminiPart{Text: msg.Content})
		case "assistant":
			req.Contents = append(req.Contents, geminiContent{
				Role:  "model",
				Parts: []geminiPart{{Text: msg.Content}},
			})
		default:
			req.Contents = append(req.Contents, geminiContent{
				Role:  "user",
				Parts: []geminiPart{{Text: msg.Content}},
			})
		}
	}

	jsonData, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("序列化请求失败: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	httpReq, err := http.NewRequest("POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("创建请求失败: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("请求失败: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("读取响应失败: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", fmt.Errorf("%w: %d", ErrUnauthorized, resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", fmt.Errorf("%w: %s", ErrQuotaExceeded, string(body))
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("API 返回错误: %d, body: %s", resp.StatusCode, string(body))
	}

	var genResp generateResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		return "", fmt.Errorf("解析响应失败: %w", err)
	}

	if len(genResp.Candidates) == 0 {
		return "", ErrEmptyAnswer
	}

	var builder strings.Builder
	for _, part := range genResp.Candidates[0].Content.Parts {
		builder.WriteString(part.Text)
	}

	answer := strings.TrimSpace(builder.String())
	if answer == "" {
		return "", ErrEmptyAnswer
	}

	c.logger.Debug("Gemini 调用成功",
		zap.Int("promptTokens", genResp.UsageMetadata.PromptTokenCount),
		zap.Int("outputTokens", genResp.UsageMetadata.CandidatesTokenCount))

	return answer, nil
}

// SimpleChat 简单聊天（单轮对话）
func (c *GeminiClient) SimpleChat(systemPrompt, userMessage string) (string, error) {
	messages := []Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userMessage},
	}
	return c.Chat(messages)
}
