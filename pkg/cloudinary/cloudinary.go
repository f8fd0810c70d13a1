package cloudinary

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"tube-bite/pkg/errors"

	"github.com/go-resty/resty/v2"
)

const apiBase = "https://api.cloudinary.com/v1_1"

// Client uploads rendered clips and thumbnails to Cloudinary using the
// signed upload API.
type Client struct {
	cloudName string
	apiKey    string
	apiSecret string
	http      *resty.Client
}

func NewClient(cloudName, apiKey, apiSecret string) *Client {
	return &Client{
		cloudName: cloudName,
		apiKey:    apiKey,
		apiSecret: apiSecret,
		http:      resty.New().SetTimeout(5 * time.Minute),
	}
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	Error     struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Put uploads localPath under the given public id and returns the CDN URL.
// Images go through the image endpoint, everything else is treated as video.
func (c *Client) Put(ctx context.Context, localPath string, remoteName string) (string, error) {
	resourceType := resourceTypeFor(localPath)
	timestamp := fmt.Sprintf("%d", time.Now().Unix())

	var result uploadResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetFile("file", localPath).
		SetFormData(map[string]string{
			"api_key":   c.apiKey,
			"public_id": remoteName,
			"timestamp": timestamp,
			"signature": c.sign(map[string]string{"public_id": remoteName, "timestamp": timestamp}),
		}).
		SetResult(&result).
		Post(fmt.Sprintf("%s/%s/%s/upload", apiBase, c.cloudName, resourceType))
	if err != nil {
		return "", errors.Wrap(errors.CodeUploadFailed, "cloudinary upload failed", err)
	}
	if resp.IsError() || result.SecureURL == "" {
		return "", errors.WrapWithDetail(errors.CodeUploadFailed, "cloudinary rejected upload",
			result.Error.Message, fmt.Errorf("status %d", resp.StatusCode()))
	}
	return result.SecureURL, nil
}

// Remove destroys the asset. Public ids carry no extension, so both the
// video and image endpoints are tried.
func (c *Client) Remove(ctx context.Context, remoteName string) error {
	var lastErr error
	for _, resourceType := range []string{"video", "image"} {
		timestamp := fmt.Sprintf("%d", time.Now().Unix())
		resp, err := c.http.R().
			SetContext(ctx).
			SetFormData(map[string]string{
				"api_key":   c.apiKey,
				"public_id": remoteName,
				"timestamp": timestamp,
				"signature": c.sign(map[string]string{"public_id": remoteName, "timestamp": timestamp}),
			}).
			Post(fmt.Sprintf("%s/%s/%s/destroy", apiBase, c.cloudName, resourceType))
		if err != nil {
			lastErr = err
			continue
		}
		if strings.Contains(resp.String(), `"ok"`) {
			return nil
		}
	}
	if lastErr != nil {
		return errors.Wrap(errors.CodeUploadFailed, "cloudinary destroy failed", lastErr)
	}
	return nil
}

// sign builds the SHA1 request signature over the sorted parameter string.
func (c *Client) sign(params map[string]string) string {
	// Only two parameters are ever signed here, keep the ordering explicit.
	toSign := fmt.Sprintf("public_id=%s&timestamp=%s%s", params["public_id"], params["timestamp"], c.apiSecret)
	sum := sha1.Sum([]byte(toSign))
	return hex.EncodeToString(sum[:])
}

func resourceTypeFor(localPath string) string {
	switch strings.ToLower(filepath.Ext(localPath)) {
	case ".jpg", ".jpeg", ".png", ".webp":
		return "image"
	default:
		return "video"
	}
}
