package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// APIClient 封装 HTTP 客户端
type APIClient struct {
	BaseURL    string
	Token      string
	SessionID  string
	HTTPClient *http.Client
}

// NewAPIClient 创建新的 API 客户端
// 生成接口可能跑满后端对模型的 120 秒超时,客户端留更长
func NewAPIClient(cfg *Config) *APIClient {
	return &APIClient{
		BaseURL:   cfg.ServerURL,
		Token:     cfg.Token,
		SessionID: cfg.SessionID,
		HTTPClient: &http.Client{
			Timeout: 150 * time.Second,
		},
	}
}

// Get 发送 GET 请求
func (c *APIClient) Get(path string) ([]byte, error) {
	return c.doRequest("GET", path, nil, "")
}

// Request 发送带 JSON body 的请求 (POST/PATCH/DELETE)
func (c *APIClient) Request(method, path string, body interface{}) ([]byte, error) {
	var reader io.Reader
	contentType := ""
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
		contentType = "application/json"
	}
	return c.doRequest(method, path, reader, contentType)
}

// UploadFile 以 multipart 形式上传文件
func (c *APIClient) UploadFile(path, filePath string) ([]byte, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filePath, err)
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filepath.Base(filePath))
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(fw, f); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}
	return c.doRequest("POST", path, &buf, mw.FormDataContentType())
}

// doRequest 执行 HTTP 请求
func (c *APIClient) doRequest(method, path string, body io.Reader, contentType string) ([]byte, error) {
	url := c.BaseURL + path
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	if c.SessionID != "" {
		req.Header.Set("X-Session-ID", c.SessionID)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed (check ROADGEN_SERVER_URL=%s): %w", c.BaseURL, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == 401 {
		return nil, fmt.Errorf("authentication failed (401): check ROADGEN_TOKEN or run 'roadgen auth login'")
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(data))
	}
	return data, nil
}
