package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config 应用配置
type Config struct {
	Server ServerConfig `yaml:"server"`
	Redis  RedisConfig  `yaml:"redis"`
	Gemini GeminiConfig `yaml:"gemini"`
	Chat   ChatConfig   `yaml:"chat"`
	Log    LogConfig    `yaml:"log"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port int    `yaml:"port"`
	Name string `yaml:"name"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// GeminiConfig Gemini 配置
type GeminiConfig struct {
	APIKey string `yaml:"apiKey"`
	Model  string `yaml:"model"`
}

// ChatConfig 对话配置
type ChatConfig struct {
	HistoryWindow  int   `yaml:"historyWindow"`  // 上下文携带的历史轮数上限
	MaxFileSize    int64 `yaml:"maxFileSize"`    // 附件大小上限（字节）
	PreviewLength  int   `yaml:"previewLength"`  // 提取文本预览长度（字符）
	CacheExpireSec int   `yaml:"cacheExpireSec"` // 问答缓存过期时间（秒）
}

// LogConfig 日志配置
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// LoadConfig 加载配置文件
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// applyDefaults 填充缺省值
func (c *Config) applyDefaults() {
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-1.5-flash"
	}
	if c.Chat.HistoryWindow <= 0 {
		c.Chat.HistoryWindow = 10
	}
	if c.Chat.MaxFileSize <= 0 {
		c.Chat.MaxFileSize = 10 << 20 // 10 MiB
	}
	if c.Chat.PreviewLength <= 0 {
		c.Chat.PreviewLength = 500
	}
	if c.Chat.CacheExpireSec <= 0 {
		c.Chat.CacheExpireSec = 3600 * 24
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}
