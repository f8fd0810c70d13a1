package service

import (
	"tube-bite/config"
	"tube-bite/internal/types"
	"tube-bite/log"
	"tube-bite/pkg/cloudinary"
	"tube-bite/pkg/openai"
	"tube-bite/pkg/oss"
	"tube-bite/pkg/whisper"
	"tube-bite/pkg/whispercpp"

	"go.uber.org/zap"
)

type Service struct {
	Transcriber   types.Transcriber
	ChatCompleter types.ChatCompleter
	// Store is nil when the local provider is configured: rendered files
	// are then served straight from the output directory.
	Store types.AssetStore

	// Progress, when set, receives coarse job progress updates. The
	// websocket layer plugs in here.
	Progress func(jobId string, percent int, message string)
}

func NewService() *Service {
	var transcriber types.Transcriber

	switch config.Conf.Transcribe.Provider {
	case "whispercpp":
		transcriber = whispercpp.NewWhispercppProcessor(config.Conf.Transcribe.Whispercpp.Model)
	default:
		baseUrl := config.Conf.Transcribe.Openai.BaseUrl
		apiKey := config.Conf.Transcribe.Openai.ApiKey
		if apiKey == "" {
			// fall back to the main LLM credentials
			baseUrl = config.Conf.Llm.BaseUrl
			apiKey = config.Conf.Llm.ApiKey
		}
		transcriber = whisper.NewClient(baseUrl, apiKey, config.Conf.Transcribe.Openai.Model, config.Conf.App.Proxy)
	}
	log.GetLogger().Info("transcribe provider selected", zap.String("provider", config.Conf.Transcribe.Provider))

	chatCompleter := openai.NewClient(config.Conf.Llm.BaseUrl, config.Conf.Llm.ApiKey, config.Conf.App.Proxy)

	var store types.AssetStore
	switch config.Conf.Store.Provider {
	case "cloudinary":
		c := config.Conf.Store.Cloudinary
		store = cloudinary.NewClient(c.CloudName, c.ApiKey, c.ApiSecret)
	case "oss":
		o := config.Conf.Store.Oss
		store = oss.NewClient(o.Endpoint, o.Region, o.Bucket, o.AccessKeyId, o.AccessKeySecret)
	default:
		store = nil
	}
	log.GetLogger().Info("asset store selected", zap.String("provider", config.Conf.Store.Provider))

	return &Service{
		Transcriber:   transcriber,
		ChatCompleter: chatCompleter,
		Store:         store,
	}
}

func (s *Service) progress(jobId string, percent int, message string) {
	if s.Progress != nil {
		s.Progress(jobId, percent, message)
	}
}
