package main

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// printOutput 按指定格式输出响应数据
func printOutput(format string, data []byte) error {
	if format == "json" {
		var out bytes.Buffer
		if err := json.Indent(&out, data, "", "  "); err != nil {
			// 非 JSON 数据直接输出
			fmt.Println(string(data))
			return nil
		}
		fmt.Println(out.String())
		return nil
	}
	fmt.Println(string(data))
	return nil
}
