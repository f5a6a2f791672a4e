package main

import (
	"github.com/spf13/cobra"
)

func newRoadmapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "roadmap",
		Aliases: []string{"rm"},
		Short:   "路线图管理 (生成、保存、列表、进度)",
	}
	cmd.AddCommand(newRoadmapRecommendCmd())
	cmd.AddCommand(newRoadmapSelectToolsCmd())
	cmd.AddCommand(newRoadmapGenerateCmd())
	cmd.AddCommand(newRoadmapSaveCmd())
	cmd.AddCommand(newRoadmapListCmd())
	cmd.AddCommand(newRoadmapGetCmd())
	cmd.AddCommand(newRoadmapDeleteCmd())
	cmd.AddCommand(newRoadmapSetStatusCmd())
	cmd.AddCommand(newRoadmapToggleItemCmd())
	cmd.AddCommand(newRoadmapToggleToolCmd())
	return cmd
}

func newRoadmapRecommendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recommend",
		Short: "基于技能画像推荐职业方向和工具",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := LoadConfig(cmd)
			client := NewAPIClient(cfg)
			resp, err := client.Request("POST", "/api/v1/domains/recommend", nil)
			if err != nil {
				return err
			}
			return printOutput(cfg.Output, resp)
		},
	}
}

func newRoadmapSelectToolsCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "select-tools <tool> [tool...]",
		Short: "选择要学习的工具 (2 到 8 个)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := LoadConfig(cmd)
			client := NewAPIClient(cfg)
			resp, err := client.Request("POST", "/api/v1/tools/select", map[string]any{
				"tools": args,
			})
			if err != nil {
				return err
			}
			return printOutput(cfg.Output, resp)
		},
	}
	return c
}

func newRoadmapGenerateCmd() *cobra.Command {
	var hours int
	var style string
	c := &cobra.Command{
		Use:   "generate",
		Short: "按已选工具和学习偏好生成路线图预览",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := LoadConfig(cmd)
			client := NewAPIClient(cfg)
			resp, err := client.Request("POST", "/api/v1/roadmaps/generate", map[string]any{
				"preferences": map[string]any{
					"hours_per_week": hours,
					"learning_style": style,
				},
			})
			if err != nil {
				return err
			}
			return printOutput(cfg.Output, resp)
		},
	}
	c.Flags().IntVar(&hours, "hours-per-week", 6, "每周学习小时数")
	c.Flags().StringVar(&style, "style", "", "学习风格 (如 project-based, video)")
	return c
}

func newRoadmapSaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "save",
		Short: "保存当前会话里的路线图预览",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := LoadConfig(cmd)
			client := NewAPIClient(cfg)
			resp, err := client.Request("POST", "/api/v1/roadmaps", nil)
			if err != nil {
				return err
			}
			return printOutput(cfg.Output, resp)
		},
	}
}

func newRoadmapListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "列出我的路线图 (按创建时间倒序)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := LoadConfig(cmd)
			client := NewAPIClient(cfg)
			resp, err := client.Get("/api/v1/roadmaps")
			if err != nil {
				return err
			}
			return printOutput(cfg.Output, resp)
		},
	}
}

func newRoadmapGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "查看单个路线图",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := LoadConfig(cmd)
			client := NewAPIClient(cfg)
			resp, err := client.Get("/api/v1/roadmaps/" + args[0])
			if err != nil {
				return err
			}
			return printOutput(cfg.Output, resp)
		},
	}
}

func newRoadmapDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "删除路线图",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := LoadConfig(cmd)
			client := NewAPIClient(cfg)
			resp, err := client.Request("DELETE", "/api/v1/roadmaps/"+args[0], nil)
			if err != nil {
				return err
			}
			return printOutput(cfg.Output, resp)
		},
	}
}

func newRoadmapSetStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-status <id> <active|archived|completed>",
		Short: "更新路线图状态",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := LoadConfig(cmd)
			client := NewAPIClient(cfg)
			resp, err := client.Request("PATCH", "/api/v1/roadmaps/"+args[0]+"/status", map[string]string{
				"status": args[1],
			})
			if err != nil {
				return err
			}
			return printOutput(cfg.Output, resp)
		},
	}
}

func newRoadmapToggleItemCmd() *cobra.Command {
	var kind string
	c := &cobra.Command{
		Use:   "toggle-item <roadmap-id> <phase-id> <item-id>",
		Short: "勾选/取消勾选清单项",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := LoadConfig(cmd)
			client := NewAPIClient(cfg)
			resp, err := client.Request("POST", "/api/v1/roadmaps/"+args[0]+"/checklist/toggle", map[string]string{
				"phase_id": args[1],
				"item_id":  args[2],
				"kind":     kind,
			})
			if err != nil {
				return err
			}
			return printOutput(cfg.Output, resp)
		},
	}
	c.Flags().StringVar(&kind, "kind", "objective", "条目类型: objective | milestone")
	return c
}

func newRoadmapToggleToolCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle-tool <roadmap-id> <tool>",
		Short: "标记/取消标记工具完成",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := LoadConfig(cmd)
			client := NewAPIClient(cfg)
			resp, err := client.Request("POST", "/api/v1/roadmaps/"+args[0]+"/tools/toggle", map[string]string{
				"tool": args[1],
			})
			if err != nil {
				return err
			}
			return printOutput(cfg.Output, resp)
		},
	}
}
