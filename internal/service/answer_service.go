package service

import (
	"errors"
	"strings"

	"github.com/syriagpt/syriagpt-go/internal/client"
	"github.com/syriagpt/syriagpt-go/internal/model"
	"go.uber.org/zap"
)

// ErrEmptyMessage 输入校验错误：消息为空
var ErrEmptyMessage = errors.New("消息不能为空")

// personaPrompt 叙利亚助手人设（阿拉伯语系统指令）
const personaPrompt = `أنت مساعد ذكي متخصص في الإجابة على الأسئلة المتعلقة بسوريا.
يجب أن تكون إجاباتك دقيقة ومحدثة ومفيدة. استخدم المعلومات المتاحة في السياق المقدم.
إذا لم تكن متأكداً من إجابة، اعترف بذلك وقدم أفضل ما يمكنك من معلومات.`

// apologyAnswer 终极兜底道歉语。兜底引擎保证非空，正常情况下不会走到这里。
const apologyAnswer = "عذراً، لم أتمكن من معالجة سؤالك في الوقت الحالي. حاول مرة أخرى من فضلك."

// maxHistoryTurns 上下文携带的历史消息上限
const maxHistoryTurns = 10

// LLMClient 主生成后端抽象
type LLMClient interface {
	Chat(messages []client.Message) (string, error)
	IsConfigured() bool
}

// FallbackEngine 本地兜底引擎抽象
type FallbackEngine interface {
	Respond(message string, history []model.Message) string
}

// AnswerService 回答编排服务
//
// 两级策略：先尝试主生成后端（单次调用，不重试），任何失败立即转入
// 本地兜底引擎。除输入校验外不向调用方抛错，保证总能返回非空回答。
type AnswerService struct {
	llm      LLMClient
	fallback FallbackEngine
	logger   *zap.Logger
}

// NewAnswerService 创建回答编排服务
func NewAnswerService(llm LLMClient, fallback FallbackEngine, logger *zap.Logger) *AnswerService {
	return &AnswerService{
		llm:      llm,
		fallback: fallback,
		logger:   logger,
	}
}

// Answer 生成对 message 的回答，history 只取最近 maxHistoryTurns 条
func (s *AnswerService) Answer(message string, history []model.Message) (*model.AnswerResult, error) {
	if strings.TrimSpace(message) == "" {
		return nil, ErrEmptyMessage
	}

	if len(history) > maxHistoryTurns {
		history = history[len(history)-maxHistoryTurns:]
	}

	if s.llm != nil && s.llm.IsConfigured() {
		answer, err := s.llm.Chat(buildContext(message, history))
		if err == nil && strings.TrimSpace(answer) != "" {
			return &model.AnswerResult{Answer: answer, Source: model.SourcePrimary}, nil
		}

		// 鉴权错误单独记录，便于运维排查，但不作为失败上抛
		switch {
		case errors.Is(err, client.ErrUnauthorized):
			s.logger.Error("主后端鉴权失败，请检查 API Key 配置", zap.Error(err))
		case errors.Is(err, client.ErrQuotaExceeded):
			s.logger.Warn("主后端配额耗尽，转入本地兜底", zap.Error(err))
		case err != nil:
			s.logger.Warn("主后端调用失败，转入本地兜底", zap.Error(err))
		default:
			s.logger.Warn("主后端返回空回答，转入本地兜底")
		}
	}

	if answer := s.fallback.Respond(message, history); strings.TrimSpace(answer) != "" {
		return &model.AnswerResult{Answer: answer, Source: model.SourceFallback}, nil
	}

	s.logger.Error("兜底引擎返回空回答，使用固定道歉语", zap.String("message", message))
	return &model.AnswerResult{Answer: apologyAnswer, Source: model.SourceLastResort}, nil
}

// buildContext 构建有界上下文：人设 + 最近历史 + 当前消息
func buildContext(message string, history []model.Message) []client.Message {
	messages := make([]client.Message, 0, len(history)+2)
	messages = append(messages, client.Message{Role: "system", Content: personaPrompt})

	for _, h := range history {
		if h.IsTyping || strings.TrimSpace(h.Content) == "" {
			continue
		}
		role := "user"
		if h.Sender == model.SenderBot {
			role = "assistant"
		}
		messages = append(messages, client.Message{Role: role, Content: h.Content})
	}

	messages = append(messages, client.Message{Role: "user", Content: message})
	return messages
}
