package session

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/syriagpt/syriagpt-go/internal/model"
	"go.uber.org/zap"
)

// failureContent 解析失败时写入会话的用户可见内容
const failureContent = "عذراً، حدث خطأ أثناء معالجة رسالتك. حاول مرة أخرى من فضلك."

// Resolver 回答解析器抽象：本地编排器或远程 HTTP 服务均可
type Resolver interface {
	Resolve(message string, attachments []model.Attachment, history []model.Message) (*model.AnswerResult, []string, error)
}

// Store 会话消息账本
//
// 对话的唯一事实来源，仅通过下列方法修改。同一时刻至多一个解析请求在
// 途：loading 期间的 Submit 直接丢弃（不排队）。epoch 计数器保证 Clear
// 之后迟到的响应被忽略，不会污染已清空的会话。
type Store struct {
	mu       sync.Mutex
	resolver Resolver
	logger   *zap.Logger

	messages []model.Message
	loading  bool
	lastErr  string
	related  []string
	epoch    int
	nextSeq  int
}

// NewStore 创建会话账本
func NewStore(resolver Resolver, logger *zap.Logger) *Store {
	return &Store{
		resolver: resolver,
		logger:   logger,
	}
}

// Submit 提交用户输入，接受则返回 true
//
// 文本与附件均为空、或已有请求在途时为空操作。接受后原子地追加用户
// 消息和输入占位消息，并在后台发起解析。
func (s *Store) Submit(text string, attachments []model.Attachment) bool {
	text = strings.TrimSpace(text)

	s.mu.Lock()
	if (text == "" && len(attachments) == 0) || s.loading {
		s.mu.Unlock()
		return false
	}

	// 解析上下文只携带提交之前的历史
	history := make([]model.Message, len(s.messages))
	copy(history, s.messages)

	userMsg := s.newMessageLocked(model.SenderUser, text)
	userMsg.Attachments = attachments
	typing := s.newMessageLocked(model.SenderBot, "")
	typing.IsTyping = true
	s.messages = append(s.messages, userMsg, typing)

	s.loading = true
	s.lastErr = ""
	s.related = nil
	epoch := s.epoch
	s.mu.Unlock()

	go s.resolve(epoch, text, attachments, history)
	return true
}

// Clear 清空会话。在途请求的响应会因 epoch 递增而被忽略。
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.epoch++
	s.messages = nil
	s.related = nil
	s.lastErr = ""
	s.loading = false
}

// Messages 返回消息列表快照
func (s *Store) Messages() []model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make([]model.Message, len(s.messages))
	copy(snapshot, s.messages)
	return snapshot
}

// IsLoading 是否有解析请求在途
func (s *Store) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// LastError 最近一次解析错误，空串表示无错误
func (s *Store) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// RelatedQuestions 最近一次成功解析附带的推荐问题
func (s *Store) RelatedQuestions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	related := make([]string, len(s.related))
	copy(related, s.related)
	return related
}

// resolve 后台解析：无论成功、失败还是 panic，loading 都会被复位
func (s *Store) resolve(epoch int, text string, attachments []model.Attachment, history []model.Message) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("解析过程发生 panic", zap.Any("panic", r))
			s.finish(epoch, nil, nil, fmt.Errorf("resolver panic: %v", r))
		}
	}()

	result, related, err := s.resolver.Resolve(text, attachments, history)
	s.finish(epoch, result, related, err)
}

// finish 将解析结果写回账本
func (s *Store) finish(epoch int, result *model.AnswerResult, related []string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if epoch != s.epoch {
		s.logger.Debug("会话已清空，忽略过期响应")
		return
	}

	s.removeTypingLocked()
	s.loading = false

	if err != nil || result == nil || strings.TrimSpace(result.Answer) == "" {
		// 失败也是对话内容的一部分：以 bot 消息形式留在记录里
		if err != nil {
			s.lastErr = err.Error()
		} else {
			s.lastErr = "empty answer"
		}
		botMsg := s.newMessageLocked(model.SenderBot, failureContent)
		s.messages = append(s.messages, botMsg)
		s.logger.Warn("解析失败，已写入错误消息", zap.String("error", s.lastErr))
		return
	}

	botMsg := s.newMessageLocked(model.SenderBot, result.Answer)
	s.messages = append(s.messages, botMsg)
	s.related = related
}

// removeTypingLocked 移除输入占位消息（至多存在一条）
func (s *Store) removeTypingLocked() {
	for i := len(s.messages) - 1; i >= 0; i-- {
		if s.messages[i].IsTyping {
			s.messages = append(s.messages[:i], s.messages[i+1:]...)
			return
		}
	}
}

// newMessageLocked 创建消息，ID 按创建顺序单调递增
func (s *Store) newMessageLocked(sender, content string) model.Message {
	s.nextSeq++
	return model.Message{
		ID:        fmt.Sprintf("msg-%06d", s.nextSeq),
		Sender:    sender,
		Content:   content,
		Timestamp: time.Now(),
	}
}
