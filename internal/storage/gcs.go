package storage

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

// GCSClient 把远程图片抓取后转存到 GCS 存储桶
type GCSClient struct {
	client     *storage.Client
	bucketName string
	http       *http.Client
}

func NewGCSClient(projectID, bucketName, credentialsFile string) (*GCSClient, error) {
	ctx := context.Background()
	client, err := storage.NewClient(ctx, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, err
	}

	return &GCSClient{
		client:     client,
		bucketName: bucketName,
		http:       &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// Upload 抓取 sourceURL 的图片内容并写入存储桶，返回公开地址
func (c *GCSClient) Upload(ctx context.Context, sourceURL string) (string, error) {
	data, contentType, err := fetchImage(ctx, c.http, sourceURL)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("images/%s%s", uuid.NewString(), path.Ext(sourceURL))
	obj := c.client.Bucket(c.bucketName).Object(key)

	writer := obj.NewWriter(ctx)
	writer.ContentType = contentType
	if _, err := writer.Write(data); err != nil {
		writer.Close()
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", c.bucketName, key), nil
}

// IsHosted 判断地址是否已在当前存储桶中
func (c *GCSClient) IsHosted(url string) bool {
	return strings.Contains(url, fmt.Sprintf("storage.googleapis.com/%s/", c.bucketName))
}
