package openai

import (
	"net/http"
	"time"

	"tube-bite/config"

	"github.com/sashabaranov/go-openai"
)

type Client struct {
	client *openai.Client
}

func NewClient(baseUrl, apiKey, proxyAddr string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseUrl != "" {
		cfg.BaseURL = baseUrl
	}

	transport := &http.Transport{}
	if proxyAddr != "" {
		transport.Proxy = http.ProxyURL(config.Conf.App.ParsedProxy)
	}

	timeout := time.Duration(config.Conf.Llm.TimeoutSecond) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	cfg.HTTPClient = &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}

	client := openai.NewClientWithConfig(cfg)
	return &Client{client: client}
}
