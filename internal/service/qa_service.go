package service

import (
	"context"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/syriagpt/syriagpt-go/internal/knowledge"
	"github.com/syriagpt/syriagpt-go/internal/model"
	"go.uber.org/zap"
)

// QAService 智能问答服务
//
// 在编排器之上增加一层 Redis 回答缓存（可选），并为每个回答附带推荐
// 问题。Redis 不可用时自动退化为无缓存模式，不影响回答。
type QAService struct {
	answerService *AnswerService
	engine        *knowledge.Engine
	redisClient   *redis.Client // 可为 nil：表示不启用缓存
	cacheExpire   time.Duration
	logger        *zap.Logger
}

// NewQAService 创建智能问答服务
func NewQAService(answerService *AnswerService, engine *knowledge.Engine, redisClient *redis.Client, cacheExpire time.Duration, logger *zap.Logger) *QAService {
	return &QAService{
		answerService: answerService,
		engine:        engine,
		redisClient:   redisClient,
		cacheExpire:   cacheExpire,
		logger:        logger,
	}
}

// Ask 处理问答请求，返回回答结果与推荐问题
func (s *QAService) Ask(ctx context.Context, question string) (*model.AnswerResult, []string, error) {
	related := s.engine.RelatedQuestions(question)

	// 1. 缓存查询
	cacheKey := s.cacheKey(question)
	if s.redisClient != nil {
		cached, err := s.redisClient.Get(ctx, cacheKey).Result()
		if err == nil && cached != "" {
			s.logger.Debug("问答缓存命中", zap.String("key", cacheKey))
			return &model.AnswerResult{Answer: cached, Source: model.SourceCache}, related, nil
		}
	}

	// 2. 两级解析
	result, err := s.answerService.Answer(question, nil)
	if err != nil {
		return nil, nil, err
	}

	// 3. 仅缓存主后端的高质量回答
	if s.redisClient != nil && result.Source == model.SourcePrimary {
		if err := s.redisClient.Set(ctx, cacheKey, result.Answer, s.cacheExpire).Err(); err != nil {
			s.logger.Warn("写入问答缓存失败", zap.Error(err))
		}
	}

	return result, related, nil
}

// cacheKey 按归一化问题生成缓存键
func (s *QAService) cacheKey(question string) string {
	h := fnv.New64a()
	h.Write([]byte(knowledge.Normalize(question)))
	return fmt.Sprintf("qa:answer:%x", h.Sum64())
}
