package config

import (
	"net/url"
	"os"
	"path/filepath"

	"tube-bite/internal/appdirs"
	"tube-bite/log"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
)

type Server struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

type App struct {
	Proxy       string   `toml:"proxy"`
	ParsedProxy *url.URL `toml:"-"`
	// ClipParallelNum caps how many clips render concurrently per job.
	ClipParallelNum int `toml:"clip_parallel_num"`
	// QueueBackend selects how jobs are dispatched: "memory" runs an
	// in-process worker pool, "redis" pushes to asynq.
	QueueBackend string `toml:"queue_backend"`
}

type Llm struct {
	BaseUrl       string `toml:"base_url"`
	ApiKey        string `toml:"api_key"`
	Model         string `toml:"model"`
	FallbackModel string `toml:"fallback_model"`
	TimeoutSecond int    `toml:"timeout_second"`
	// ChunkChars and ChunkOverlapChars control how long transcripts are
	// split before being sent to the model.
	ChunkChars        int `toml:"chunk_chars"`
	ChunkOverlapChars int `toml:"chunk_overlap_chars"`
}

type OpenaiTranscribe struct {
	BaseUrl string `toml:"base_url"`
	ApiKey  string `toml:"api_key"`
	Model   string `toml:"model"`
}

type WhispercppTranscribe struct {
	Model string `toml:"model"`
}

type Transcribe struct {
	// Provider is "openai" or "whispercpp".
	Provider   string               `toml:"provider"`
	Openai     OpenaiTranscribe     `toml:"openai"`
	Whispercpp WhispercppTranscribe `toml:"whispercpp"`
}

type Clipper struct {
	// GuardBandSec is the minimum spacing enforced between selected clips.
	GuardBandSec float64 `toml:"guard_band_sec"`
	// MinClipSec/ExtendToSec: clips shorter than MinClipSec are extended to
	// ExtendToSec; clips longer than MaxClipSec are truncated.
	MinClipSec      float64 `toml:"min_clip_sec"`
	ExtendToSec     float64 `toml:"extend_to_sec"`
	MaxClipSec      float64 `toml:"max_clip_sec"`
	FallbackClipSec float64 `toml:"fallback_clip_sec"`
	// CaptionGroupSize is how many words share one karaoke caption line.
	CaptionGroupSize int `toml:"caption_group_size"`
}

type CloudinaryStore struct {
	CloudName string `toml:"cloud_name"`
	ApiKey    string `toml:"api_key"`
	ApiSecret string `toml:"api_secret"`
}

type OssStore struct {
	Endpoint        string `toml:"endpoint"`
	Region          string `toml:"region"`
	Bucket          string `toml:"bucket"`
	AccessKeyId     string `toml:"access_key_id"`
	AccessKeySecret string `toml:"access_key_secret"`
}

type Store struct {
	// Provider is "local", "cloudinary" or "oss". Local serves finished
	// clips from the /output static route.
	Provider   string          `toml:"provider"`
	Cloudinary CloudinaryStore `toml:"cloudinary"`
	Oss        OssStore        `toml:"oss"`
}

type Redis struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

type Config struct {
	Server     Server     `toml:"server"`
	App        App        `toml:"app"`
	Llm        Llm        `toml:"llm"`
	Transcribe Transcribe `toml:"transcribe"`
	Clipper    Clipper    `toml:"clipper"`
	Store      Store      `toml:"store"`
	Redis      Redis      `toml:"redis"`
}

var Conf Config

// resolveConfigPath is swapped out in tests.
var resolveConfigPath = func() (string, error) {
	paths, err := appdirs.Resolve()
	if err != nil {
		return "", err
	}
	return paths.ConfigFile, nil
}

func ResolveConfigPath() (string, error) {
	return resolveConfigPath()
}

func defaultConfig() Config {
	return Config{
		Server: Server{
			Host: "127.0.0.1",
			Port: 8888,
		},
		App: App{
			ClipParallelNum: 2,
			QueueBackend:    "memory",
		},
		Llm: Llm{
			BaseUrl:           "https://openrouter.ai/api/v1",
			Model:             "nvidia/nemotron-3-nano-30b-a3b:free",
			FallbackModel:     "openai/gpt-4o-mini",
			TimeoutSecond:     60,
			ChunkChars:        6000,
			ChunkOverlapChars: 500,
		},
		Transcribe: Transcribe{
			Provider: "openai",
			Openai: OpenaiTranscribe{
				Model: "whisper-1",
			},
		},
		Clipper: Clipper{
			GuardBandSec:     3,
			MinClipSec:       10,
			ExtendToSec:      15,
			MaxClipSec:       60,
			FallbackClipSec:  30,
			CaptionGroupSize: 3,
		},
		Store: Store{
			Provider: "local",
		},
		Redis: Redis{
			Addr: "127.0.0.1:6379",
		},
	}
}

// LoadOrCreateConfig reads the config file, writing the defaults first when
// the file does not exist yet. Returns whether a new file was created.
func LoadOrCreateConfig() (bool, error) {
	configPath, err := resolveConfigPath()
	if err != nil {
		return false, err
	}

	if _, err = os.Stat(configPath); os.IsNotExist(err) {
		Conf = defaultConfig()
		if err = SaveConfig(); err != nil {
			return false, err
		}
		if log.GetLogger() != nil {
			log.GetLogger().Info("wrote default config", zap.String("path", configPath))
		}
		return true, nil
	} else if err != nil {
		return false, err
	}

	if _, err = toml.DecodeFile(configPath, &Conf); err != nil {
		return false, err
	}
	if err = parseProxy(); err != nil {
		return false, err
	}
	return false, nil
}

// SaveConfig writes the current Conf to the resolved config path, creating
// parent directories as needed.
func SaveConfig() error {
	configPath, err := resolveConfigPath()
	if err != nil {
		return err
	}
	if err = os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return err
	}

	file, err := os.Create(configPath)
	if err != nil {
		return err
	}
	defer file.Close()

	return toml.NewEncoder(file).Encode(Conf)
}

func parseProxy() error {
	if Conf.App.Proxy == "" {
		Conf.App.ParsedProxy = nil
		return nil
	}
	parsed, err := url.Parse(Conf.App.Proxy)
	if err != nil {
		return err
	}
	Conf.App.ParsedProxy = parsed
	return nil
}
