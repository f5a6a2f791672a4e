package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config 统一配置结构
type Config struct {
	Server   ServerConfig
	Mongo    MongoConfig
	AI       AIConfig
	Data     DataConfig
	Log      LogConfig
	Security SecurityConfig
	Upload   UploadConfig
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Env  string // dev, staging, production
	Port string
}

// MongoConfig 文档库配置
// URI 为空时使用内存后端（仅限开发/测试）
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
	Timeout    time.Duration
}

// AIConfig OpenRouter 配置
type AIConfig struct {
	APIKey       string
	Model        string
	BaseURL      string
	Timeout      time.Duration
	CacheTTL     time.Duration
	CacheEntries int
}

// DataConfig 数据目录配置
type DataConfig struct {
	UsersDir     string
	AuditLogsDir string
}

// LogConfig 日志配置
type LogConfig struct {
	Level string // debug, info, warn, error
	File  string // 可选：日志文件路径（启用轮转）
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	JWTSecret            string
	AdminDefaultPassword string
	CORSAllowedOrigins   []string
}

// UploadConfig 简历上传限制
type UploadConfig struct {
	MaxFileBytes int64
}

const (
	defaultModel   = "meta-llama/llama-3.3-70b-instruct:free"
	defaultBaseURL = "https://openrouter.ai/api/v1/chat/completions"
)

// LoadConfig 从环境变量加载配置
// 启动时先尝试读取 .env（本地开发），再读取可选的 ROADGEN_CONFIG 指向的 YAML 覆盖文件
func LoadConfig() (*Config, error) {
	// .env 不存在不算错误，与生产环境（纯环境变量）兼容
	_ = godotenv.Load(".env")

	cfg := &Config{
		Server: ServerConfig{
			Env:  getEnv("ENV", "dev"),
			Port: getEnv("PORT", "8000"),
		},
		Mongo: MongoConfig{
			URI:        getEnv("MONGO_URI", ""),
			Database:   getEnv("MONGO_DATABASE", "roadgen"),
			Collection: getEnv("MONGO_COLLECTION", "roadmaps"),
			Timeout:    getEnvDuration("MONGO_TIMEOUT", 10*time.Second),
		},
		AI: AIConfig{
			APIKey:       getEnv("OPENROUTER_API_KEY", ""),
			Model:        getEnv("OPENROUTER_MODEL", defaultModel),
			BaseURL:      getEnv("OPENROUTER_BASE_URL", defaultBaseURL),
			Timeout:      getEnvDuration("OPENROUTER_TIMEOUT", 120*time.Second),
			CacheTTL:     getEnvDuration("AI_CACHE_TTL", 5*time.Minute),
			CacheEntries: getEnvInt("AI_CACHE_ENTRIES", 256),
		},
		Data: DataConfig{
			UsersDir:     getEnv("USERS_DIR", "./users"),
			AuditLogsDir: getEnv("AUDIT_LOGS_DIR", "./audit_logs"),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", ""),
		},
		Security: SecurityConfig{
			JWTSecret:            getEnv("USER_JWT_SECRET", ""),
			AdminDefaultPassword: getEnv("ADMIN_DEFAULT_PASSWORD", ""),
			CORSAllowedOrigins:   parseStringList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")),
		},
		Upload: UploadConfig{
			MaxFileBytes: getEnvInt64("UPLOAD_MAX_BYTES", 5*1024*1024),
		},
	}

	if path := os.Getenv("ROADGEN_CONFIG"); path != "" {
		if err := applyYAMLOverrides(cfg, path); err != nil {
			return nil, fmt.Errorf("apply config overrides: %w", err)
		}
	}

	return cfg, nil
}

// yamlOverrides 可选 YAML 覆盖文件的结构，仅覆盖非零字段
type yamlOverrides struct {
	Server struct {
		Env  string `yaml:"env"`
		Port string `yaml:"port"`
	} `yaml:"server"`
	Mongo struct {
		URI        string `yaml:"uri"`
		Database   string `yaml:"database"`
		Collection string `yaml:"collection"`
	} `yaml:"mongo"`
	AI struct {
		Model   string `yaml:"model"`
		BaseURL string `yaml:"base_url"`
	} `yaml:"ai"`
	Log struct {
		Level string `yaml:"level"`
		File  string `yaml:"file"`
	} `yaml:"log"`
}

func applyYAMLOverrides(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var ov yamlOverrides
	if err := yaml.Unmarshal(data, &ov); err != nil {
		return err
	}
	if ov.Server.Env != "" {
		cfg.Server.Env = ov.Server.Env
	}
	if ov.Server.Port != "" {
		cfg.Server.Port = ov.Server.Port
	}
	if ov.Mongo.URI != "" {
		cfg.Mongo.URI = ov.Mongo.URI
	}
	if ov.Mongo.Database != "" {
		cfg.Mongo.Database = ov.Mongo.Database
	}
	if ov.Mongo.Collection != "" {
		cfg.Mongo.Collection = ov.Mongo.Collection
	}
	if ov.AI.Model != "" {
		cfg.AI.Model = ov.AI.Model
	}
	if ov.AI.BaseURL != "" {
		cfg.AI.BaseURL = ov.AI.BaseURL
	}
	if ov.Log.Level != "" {
		cfg.Log.Level = ov.Log.Level
	}
	if ov.Log.File != "" {
		cfg.Log.File = ov.Log.File
	}
	return nil
}

// ValidateConfig 验证配置的有效性
func ValidateConfig(cfg *Config) error {
	var errors []string

	// 1. JWT Secret 验证
	if cfg.Security.JWTSecret == "" {
		errors = append(errors, "USER_JWT_SECRET is required")
	} else if len(cfg.Security.JWTSecret) < 32 {
		errors = append(errors, "USER_JWT_SECRET must be at least 32 characters long")
	}

	// 2. OpenRouter API Key：缺失时 AI 端点不可用，生产环境视为错误
	if cfg.AI.APIKey == "" && cfg.Server.Env == "production" {
		errors = append(errors, "OPENROUTER_API_KEY is required in production environment")
	}

	// 3. 生产环境必须配置管理员密码和真实文档库
	if cfg.Server.Env == "production" {
		if cfg.Security.AdminDefaultPassword == "" {
			errors = append(errors, "ADMIN_DEFAULT_PASSWORD is required in production environment")
		} else if len(cfg.Security.AdminDefaultPassword) < 8 {
			errors = append(errors, "ADMIN_DEFAULT_PASSWORD must be at least 8 characters long in production")
		}
		if cfg.Mongo.URI == "" {
			errors = append(errors, "MONGO_URI is required in production environment (memory backend is dev-only)")
		}
	}

	// 4. 端口验证
	if port, err := strconv.Atoi(cfg.Server.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid PORT value: %s (must be 1-65535)", cfg.Server.Port))
	}

	// 5. 日志级别验证
	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[cfg.Log.Level] {
		errors = append(errors, fmt.Sprintf("invalid LOG_LEVEL: %s (must be: debug, info, warn, error)", cfg.Log.Level))
	}

	// 6. 环境验证
	validEnvs := map[string]bool{"dev": true, "development": true, "staging": true, "production": true}
	if !validEnvs[cfg.Server.Env] {
		errors = append(errors, fmt.Sprintf("invalid ENV: %s (must be: dev, development, staging, production)", cfg.Server.Env))
	}

	// 7. 上传限制验证
	if cfg.Upload.MaxFileBytes <= 0 {
		errors = append(errors, "UPLOAD_MAX_BYTES must be positive")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

// IsProduction 判断是否为生产环境
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// IsDevelopment 判断是否为开发环境
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "dev" || c.Server.Env == "development"
}

// GetServerAddr 获取服务器监听地址
func (c *Config) GetServerAddr() string {
	return ":" + c.Server.Port
}

// PrintConfig 打印配置（脱敏）
func (c *Config) PrintConfig() string {
	return fmt.Sprintf(`Configuration Loaded:
  Environment: %s
  Server Port: %s
  Mongo:
    - URI: %s
    - Database: %s
    - Collection: %s
  AI:
    - Model: %s
    - Base URL: %s
    - API Key: %s
    - Cache TTL: %s
  Data Directories:
    - Users: %s
    - Audit Logs: %s
  Logging:
    - Level: %s
    - File: %s
  Security:
    - JWT Secret: %s
    - Admin Password: %s
    - CORS Origins: %v`,
		c.Server.Env,
		c.Server.Port,
		maskSecret(c.Mongo.URI),
		c.Mongo.Database,
		c.Mongo.Collection,
		c.AI.Model,
		c.AI.BaseURL,
		maskSecret(c.AI.APIKey),
		c.AI.CacheTTL,
		c.Data.UsersDir,
		c.Data.AuditLogsDir,
		c.Log.Level,
		c.Log.File,
		maskSecret(c.Security.JWTSecret),
		maskSecret(c.Security.AdminDefaultPassword),
		c.Security.CORSAllowedOrigins,
	)
}

// 辅助函数

// getEnv 获取环境变量，如果不存在则返回默认值
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// parseStringList 解析逗号分隔的字符串列表
func parseStringList(value string) []string {
	if value == "" {
		return []string{}
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// maskSecret 对敏感信息进行脱敏
func maskSecret(secret string) string {
	if secret == "" {
		return "<not set>"
	}
	if len(secret) <= 8 {
		return "***"
	}
	return secret[:4] + "***" + secret[len(secret)-4:]
}
