package oss

import (
	"context"
	"fmt"

	"tube-bite/pkg/errors"

	"github.com/aliyun/alibabacloud-oss-go-sdk-v2/oss"
	"github.com/aliyun/alibabacloud-oss-go-sdk-v2/oss/credentials"
)

// Client stores rendered assets in an Aliyun OSS bucket.
type Client struct {
	client   *oss.Client
	bucket   string
	endpoint string
}

func NewClient(endpoint, region, bucket, accessKeyId, accessKeySecret string) *Client {
	cfg := oss.LoadDefaultConfig().
		WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKeyId, accessKeySecret)).
		WithRegion(region).
		WithEndpoint(endpoint)

	return &Client{
		client:   oss.NewClient(cfg),
		bucket:   bucket,
		endpoint: endpoint,
	}
}

func (c *Client) Put(ctx context.Context, localPath string, remoteName string) (string, error) {
	_, err := c.client.PutObjectFromFile(ctx, &oss.PutObjectRequest{
		Bucket: oss.Ptr(c.bucket),
		Key:    oss.Ptr(remoteName),
	}, localPath)
	if err != nil {
		return "", errors.Wrap(errors.CodeUploadFailed, "oss upload failed", err)
	}
	return fmt.Sprintf("https://%s.%s/%s", c.bucket, c.endpoint, remoteName), nil
}

func (c *Client) Remove(ctx context.Context, remoteName string) error {
	_, err := c.client.DeleteObject(ctx, &oss.DeleteObjectRequest{
		Bucket: oss.Ptr(c.bucket),
		Key:    oss.Ptr(remoteName),
	})
	if err != nil {
		return errors.Wrap(errors.CodeUploadFailed, "oss delete failed", err)
	}
	return nil
}
