package knowledge

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/syriagpt/syriagpt-go/internal/model"
)

// Engine 本地知识兜底引擎
//
// 纯函数式、确定性、不依赖网络：对任意输入都返回非空回答，是整个回答
// 管线的最后一道安全网。主题表在创建时构建一次，之后全程只读。
//
// 匹配策略是刻意选择的"宽度优先"子串匹配：按分类优先级顺序逐个检查
// 触发关键词，第一个命中的分类与次级意图获胜，不做打分或模糊匹配。
type Engine struct {
	categories []category
	catchAll   []string
}

// NewEngine 创建兜底引擎
func NewEngine() *Engine {
	return &Engine{
		categories: buildCategories(),
		catchAll:   catchAllPool,
	}
}

// Respond 返回对 message 的确定性回答，保证非空
//
// history 是扩展位：会检查最近一条 bot 消息是否存在，但当前不参与分支。
func (e *Engine) Respond(message string, history []model.Message) string {
	normalized := Normalize(message)

	// 最近一条 bot 消息仅做可用性检查，暂不影响匹配结果
	_ = lastBotMessage(history)

	for _, cat := range e.categories {
		for _, t := range cat.topics {
			if !containsAny(normalized, t.keywords) {
				continue
			}
			for _, si := range t.subIntents {
				if containsAny(normalized, si.keywords) {
					return si.answer
				}
			}
			return t.summary
		}
	}

	return e.catchAllAnswer(message, normalized)
}

// RelatedQuestions 返回与输入相关的推荐问题
//
// 命中分类时返回该分类的问题菜单，否则返回固定默认集合。
func (e *Engine) RelatedQuestions(message string) []string {
	normalized := Normalize(message)

	for _, cat := range e.categories {
		for _, t := range cat.topics {
			if containsAny(normalized, t.keywords) {
				related := make([]string, len(cat.related))
				copy(related, cat.related)
				return related
			}
		}
	}

	related := make([]string, len(defaultRelatedQuestions))
	copy(related, defaultRelatedQuestions)
	return related
}

// catchAllAnswer 兜底回答：从固定模板池中按输入哈希确定性选取并回显输入
func (e *Engine) catchAllAnswer(message, normalized string) string {
	echo := strings.TrimSpace(message)
	if len([]rune(echo)) > 60 {
		echo = string([]rune(echo)[:60]) + "..."
	}

	h := fnv.New32a()
	h.Write([]byte(normalized))
	idx := int(h.Sum32()) % len(e.catchAll)
	if idx < 0 {
		idx += len(e.catchAll)
	}

	return fmt.Sprintf(e.catchAll[idx], echo)
}

// lastBotMessage 取最近一条 bot 消息
func lastBotMessage(history []model.Message) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Sender == model.SenderBot && !history[i].IsTyping {
			return history[i].Content
		}
	}
	return ""
}
