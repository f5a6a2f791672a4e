package main

import (
	"strings"

	"github.com/spf13/cobra"
)

func newChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat <message...>",
		Short: "与学习助手对话 (带当前画像和路线图上下文)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := LoadConfig(cmd)
			client := NewAPIClient(cfg)
			resp, err := client.Request("POST", "/api/v1/chat", map[string]string{
				"message": strings.Join(args, " "),
			})
			if err != nil {
				return err
			}
			return printOutput(cfg.Output, resp)
		},
	}
}
