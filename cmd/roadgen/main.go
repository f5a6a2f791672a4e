package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:     "roadgen",
		Short:   "Roadgen CLI - 职业学习路线图服务命令行工具",
		Long:    "通过命令行直接调用 Roadgen 后端 HTTP API：上传简历、生成路线图、管理进度。",
		Version: version,
	}

	addGlobalFlags(rootCmd)

	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newResumeCmd())
	rootCmd.AddCommand(newRoadmapCmd())
	rootCmd.AddCommand(newFlowCmd())
	rootCmd.AddCommand(newChatCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// addGlobalFlags 为所有子命令注册全局标志
func addGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("server-url", "", "后端地址 (默认 http://localhost:8000, 或 ROADGEN_SERVER_URL)")
	cmd.PersistentFlags().String("token", "", "Bearer 令牌 (或 ROADGEN_TOKEN)")
	cmd.PersistentFlags().String("session-id", "", "会话 ID (或 ROADGEN_SESSION_ID)")
	cmd.PersistentFlags().StringP("output", "o", "", "输出格式: json | text (默认 json)")
}
