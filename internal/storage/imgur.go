package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// ImgurResponse Imgur API 响应结构
type ImgurResponse struct {
	Data struct {
		ID         string `json:"id"`
		Link       string `json:"link"`
		DeleteHash string `json:"deletehash"`
		Type       string `json:"type"`
	} `json:"data"`
	Success bool `json:"success"`
	Status  int  `json:"status"`
}

// ImgurClient 通过 Imgur API 转存远程图片。
// Imgur 支持直接提交图片 URL，由 Imgur 侧抓取。
type ImgurClient struct {
	clientID string
	apiURL   string
	http     *http.Client
}

func NewImgurClient(clientID, apiURL string) *ImgurClient {
	return &ImgurClient{
		clientID: clientID,
		apiURL:   apiURL,
		http:     &http.Client{Timeout: 30 * time.Second},
	}
}

// Upload 提交远程图片地址给 Imgur，返回托管链接
func (c *ImgurClient) Upload(ctx context.Context, sourceURL string) (string, error) {
	var requestBody bytes.Buffer
	writer := multipart.NewWriter(&requestBody)

	if err := writer.WriteField("image", sourceURL); err != nil {
		return "", fmt.Errorf("写入请求体失败: %w", err)
	}
	if err := writer.WriteField("type", "url"); err != nil {
		return "", fmt.Errorf("写入请求体失败: %w", err)
	}
	writer.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, &requestBody)
	if err != nil {
		return "", fmt.Errorf("创建请求失败: %w", err)
	}
	req.Header.Set("Authorization", "Client-ID "+c.clientID)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("上传请求失败: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("读取响应失败: %w", err)
	}

	var imgurResp ImgurResponse
	if err := json.Unmarshal(body, &imgurResp); err != nil {
		return "", fmt.Errorf("解析响应失败: %w", err)
	}
	if !imgurResp.Success {
		return "", fmt.Errorf("Imgur 上传失败: status %d", imgurResp.Status)
	}

	return imgurResp.Data.Link, nil
}

// IsHosted 判断地址是否已经是 Imgur 托管链接
func (c *ImgurClient) IsHosted(url string) bool {
	return strings.Contains(url, "i.imgur.com")
}
