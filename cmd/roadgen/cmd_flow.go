package main

import (
	"github.com/spf13/cobra"
)

func newFlowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flow",
		Short: "引导流程状态查看与导航",
	}
	cmd.AddCommand(newFlowStateCmd())
	cmd.AddCommand(newFlowEventCmd())
	return cmd
}

func newFlowStateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "state",
		Short: "查看当前会话的流程状态",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := LoadConfig(cmd)
			client := NewAPIClient(cfg)
			resp, err := client.Get("/api/v1/flow")
			if err != nil {
				return err
			}
			return printOutput(cfg.Output, resp)
		},
	}
}

func newFlowEventCmd() *cobra.Command {
	var roadmapID string
	c := &cobra.Command{
		Use:   "event <back|start_over|open_list|open_detail|close_detail>",
		Short: "应用一个导航事件",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := LoadConfig(cmd)
			client := NewAPIClient(cfg)
			body := map[string]string{"event": args[0]}
			if roadmapID != "" {
				body["roadmap_id"] = roadmapID
			}
			resp, err := client.Request("POST", "/api/v1/flow/events", body)
			if err != nil {
				return err
			}
			return printOutput(cfg.Output, resp)
		},
	}
	c.Flags().StringVar(&roadmapID, "roadmap-id", "", "open_detail 需要的路线图 ID")
	return c
}
