package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newResumeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resume",
		Short: "简历上传与分析",
	}
	cmd.AddCommand(newResumeUploadCmd())
	cmd.AddCommand(newResumeAnalyzeCmd())
	return cmd
}

func newResumeUploadCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "upload <file>",
		Short: "上传简历 (pdf/docx/txt), 会话 ID 写入配置文件",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := LoadConfig(cmd)
			client := NewAPIClient(cfg)
			resp, err := client.UploadFile("/api/v1/resume/upload", args[0])
			if err != nil {
				return err
			}
			var result struct {
				Data struct {
					SessionID string `json:"session_id"`
				} `json:"data"`
			}
			if err := json.Unmarshal(resp, &result); err == nil && result.Data.SessionID != "" {
				cfg.SessionID = result.Data.SessionID
				if err := SaveConfigFile(cfg); err != nil {
					fmt.Printf("warning: session id not saved: %v\n", err)
				}
			}
			return printOutput(cfg.Output, resp)
		},
	}
	return c
}

func newResumeAnalyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze",
		Short: "分析已上传的简历,产出技能画像",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := LoadConfig(cmd)
			client := NewAPIClient(cfg)
			resp, err := client.Request("POST", "/api/v1/resume/analyze", nil)
			if err != nil {
				return err
			}
			return printOutput(cfg.Output, resp)
		},
	}
}
