package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
)

// S3Client 把远程图片抓取后转存到 S3 存储桶
type S3Client struct {
	s3     *s3.S3
	bucket string
	http   *http.Client
}

func NewS3Client(region, bucket string) (*S3Client, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region),
	})
	if err != nil {
		return nil, err
	}

	return &S3Client{
		s3:     s3.New(sess),
		bucket: bucket,
		http:   &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// Upload 抓取 sourceURL 的图片内容并写入存储桶，返回公开地址
func (c *S3Client) Upload(ctx context.Context, sourceURL string) (string, error) {
	data, contentType, err := fetchImage(ctx, c.http, sourceURL)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("images/%s%s", uuid.NewString(), path.Ext(sourceURL))
	_, err = c.s3.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", c.bucket, key), nil
}

// IsHosted 判断地址是否已在当前存储桶中
func (c *S3Client) IsHosted(url string) bool {
	return strings.Contains(url, fmt.Sprintf("%s.s3.amazonaws.com", c.bucket))
}

// fetchImage 抓取远程图片内容，供对象存储后端复用
func fetchImage(ctx context.Context, client *http.Client, sourceURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("创建请求失败: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("抓取图片失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("抓取图片失败: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("读取图片内容失败: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return data, contentType, nil
}
