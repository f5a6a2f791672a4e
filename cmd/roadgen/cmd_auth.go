package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "登录与账号管理",
	}
	cmd.AddCommand(newAuthLoginCmd())
	cmd.AddCommand(newAuthSignupCmd())
	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	var username, password string
	c := &cobra.Command{
		Use:   "login",
		Short: "登录并把令牌写入 ~/.roadgen/config.yaml",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := LoadConfig(cmd)
			client := NewAPIClient(cfg)
			resp, err := client.Request("POST", "/api/v1/auth/login", map[string]string{
				"username": username,
				"password": password,
			})
			if err != nil {
				return err
			}
			var result struct {
				Data struct {
					Token string `json:"token"`
				} `json:"data"`
			}
			if err := json.Unmarshal(resp, &result); err != nil {
				return fmt.Errorf("parse login response: %w", err)
			}
			cfg.Token = result.Data.Token
			if err := SaveConfigFile(cfg); err != nil {
				return fmt.Errorf("save config: %w", err)
			}
			fmt.Println("login ok, token saved")
			return nil
		},
	}
	c.Flags().StringVarP(&username, "username", "u", "", "用户名")
	c.Flags().StringVarP(&password, "password", "p", "", "密码")
	c.MarkFlagRequired("username")
	c.MarkFlagRequired("password")
	return c
}

func newAuthSignupCmd() *cobra.Command {
	var username, password string
	c := &cobra.Command{
		Use:   "signup",
		Short: "注册新账号",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := LoadConfig(cmd)
			client := NewAPIClient(cfg)
			resp, err := client.Request("POST", "/api/v1/auth/signup", map[string]string{
				"username": username,
				"password": password,
			})
			if err != nil {
				return err
			}
			return printOutput(cfg.Output, resp)
		},
	}
	c.Flags().StringVarP(&username, "username", "u", "", "用户名")
	c.Flags().StringVarP(&password, "password", "p", "", "密码 (至少 8 位)")
	c.MarkFlagRequired("username")
	c.MarkFlagRequired("password")
	return c
}
