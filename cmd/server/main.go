package main

import (
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/syriagpt/syriagpt-go/internal/client"
	"github.com/syriagpt/syriagpt-go/internal/config"
	"github.com/syriagpt/syriagpt-go/internal/handler"
	"github.com/syriagpt/syriagpt-go/internal/knowledge"
	"github.com/syriagpt/syriagpt-go/internal/middleware"
	"github.com/syriagpt/syriagpt-go/internal/service"
	"github.com/syriagpt/syriagpt-go/pkg/logger"
	"github.com/syriagpt/syriagpt-go/pkg/redis"
	"go.uber.org/zap"
)

func main() {
	// 加载配置
	cfg, err := config.LoadConfig("configs/server.yaml")
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 初始化日志
	zapLogger, err := logger.NewLogger(cfg.Log.Level)
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("server 服务启动中...", zap.String("name", cfg.Server.Name))

	// 初始化 Redis（缓存层可选，连接失败只降级不退出）
	redisClient, err := redis.NewRedisClient(cfg.Redis)
	if err != nil {
		zapLogger.Warn("Redis 不可用，问答缓存已禁用", zap.Error(err))
		redisClient = nil
	}

	// 初始化 LLM 客户端与降级引擎
	llmClient := client.NewGeminiClient(cfg.Gemini.APIKey, cfg.Gemini.Model, zapLogger)
	if !llmClient.IsConfigured() {
		zapLogger.Warn("未配置 Gemini API Key，所有回答将走本地降级引擎")
	}
	engine := knowledge.NewEngine()

	// 初始化业务服务
	answerService := service.NewAnswerService(llmClient, engine, zapLogger)
	qaService := service.NewQAService(answerService, engine, redisClient,
		time.Duration(cfg.Chat.CacheExpireSec)*time.Second, zapLogger)
	fileService := service.NewFileService(llmClient, cfg.Chat.MaxFileSize, cfg.Chat.PreviewLength, zapLogger)

	// 初始化处理器
	chatHandler := handler.NewChatHandler(answerService, zapLogger)
	qaHandler := handler.NewQAHandler(qaService, zapLogger)
	fileHandler := handler.NewFileHandler(fileService, zapLogger)
	wsHandler := handler.NewWebSocketHandler(answerService, zapLogger)

	// 初始化路由
	r := gin.Default()
	r.Use(middleware.CORS())

	r.POST("/api/chat/answer", chatHandler.Answer)
	r.POST("/api/qa/ask", qaHandler.Ask)
	r.POST("/api/files/analyze", fileHandler.Analyze)
	r.GET("/ws/chat", wsHandler.Handle)

	// 健康检查
	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":         "ok",
			"service":        cfg.Server.Name,
			"geminiReady":    llmClient.IsConfigured(),
			"cacheEnabled":   redisClient != nil,
			"fallbackEngine": "ready",
		})
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	zapLogger.Info("server 服务已启动", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		log.Fatalf("启动服务失败: %v", err)
	}
}
