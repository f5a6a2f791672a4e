package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Config 保存 CLI 全局配置
type Config struct {
	ServerURL string `yaml:"server_url"`
	Token     string `yaml:"token"`
	SessionID string `yaml:"session_id"`
	Output    string `yaml:"-"`
}

// LoadConfig 从命令行标志、环境变量、配置文件加载配置（优先级从高到低）
func LoadConfig(cmd *cobra.Command) *Config {
	cfg := &Config{}

	loadConfigFile(cfg)

	// 环境变量覆盖配置文件
	if v := os.Getenv("ROADGEN_SERVER_URL"); v != "" {
		cfg.ServerURL = v
	}
	if v := os.Getenv("ROADGEN_TOKEN"); v != "" {
		cfg.Token = v
	}
	if v := os.Getenv("ROADGEN_SESSION_ID"); v != "" {
		cfg.SessionID = v
	}

	// 命令行标志覆盖环境变量
	if v, _ := cmd.Flags().GetString("server-url"); v != "" {
		cfg.ServerURL = v
	}
	if v, _ := cmd.Flags().GetString("token"); v != "" {
		cfg.Token = v
	}
	if v, _ := cmd.Flags().GetString("session-id"); v != "" {
		cfg.SessionID = v
	}
	if v, _ := cmd.Flags().GetString("output"); v != "" {
		cfg.Output = v
	}

	if cfg.ServerURL == "" {
		cfg.ServerURL = "http://localhost:8000"
	}
	if cfg.Output == "" {
		cfg.Output = "json"
	}
	return cfg
}

// configPath 返回 ~/.roadgen/config.yaml
func configPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".roadgen", "config.yaml")
}

func loadConfigFile(cfg *Config) {
	path := configPath()
	if path == "" {
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	// 配置文件损坏时忽略,按空配置起步
	_ = yaml.Unmarshal(data, cfg)
}

// SaveConfigFile 把当前令牌和会话写回配置文件,login 后调用
func SaveConfigFile(cfg *Config) error {
	path := configPath()
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
