package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	Logger     LoggerConfig
	Redis      RedisConfig
	Generation GenerationConfig
	Pipeline   PipelineConfig
	Captions   CaptionsConfig
	Speech     SpeechConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type LoggerConfig struct {
	Level string `yaml:"level"`
	Env   string `yaml:"env"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// GenerationConfig selects and configures the generation capability backend.
// Source is "openai" (hosted, quota-limited) or "ollama" (self-hosted).
type GenerationConfig struct {
	Source string       `yaml:"source"`
	OpenAI OpenAIConfig `yaml:"openai"`
	Ollama OllamaConfig `yaml:"ollama"`
}

type OpenAIConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

type OllamaConfig struct {
	ServerURL string `yaml:"server_url"`
	Model     string `yaml:"model"`
}

// PipelineConfig tunes batching and the two retry layers.
type PipelineConfig struct {
	MaxBatchQuota        int
	DefaultQuestionCount int
	CallMaxAttempts      int
	CallBackoffStep      time.Duration
	BatchMaxAttempts     int
	BatchBackoffStep     time.Duration
	IndexTTL             time.Duration
}

type CaptionsConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type SpeechConfig struct {
	ServerURL string        `yaml:"server_url"`
	Timeout   time.Duration `yaml:"timeout"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Add config paths based on environment
	if os.Getenv("ENV") == "test" {
		viper.AddConfigPath("../../configs")
		viper.AddConfigPath("../../")
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("./configs")
	}

	viper.AutomaticEnv()

	viper.SetDefault("server.port", 8090)
	viper.SetDefault("server.read_timeout", 30)
	viper.SetDefault("server.write_timeout", 600)
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.env", "development")
	viper.SetDefault("generation.source", "ollama")
	viper.SetDefault("generation.openai.model", "gpt-4o-mini")
	viper.SetDefault("generation.ollama.server_url", "http://localhost:11434")
	viper.SetDefault("generation.ollama.model", "qwen3:0.6b")
	viper.SetDefault("pipeline.max_batch_quota", 25)
	viper.SetDefault("pipeline.default_question_count", 2)
	viper.SetDefault("pipeline.call_max_attempts", 3)
	viper.SetDefault("pipeline.call_backoff_step", 10)
	viper.SetDefault("pipeline.batch_max_attempts", 5)
	viper.SetDefault("pipeline.batch_backoff_step", 10)
	viper.SetDefault("pipeline.index_ttl", 0)
	viper.SetDefault("captions.timeout", 15)
	viper.SetDefault("speech.timeout", 120)

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is fine; defaults plus env cover every key.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	config := &Config{
		Server: ServerConfig{
			Port:         viper.GetInt("server.port"),
			ReadTimeout:  viper.GetDuration("server.read_timeout") * time.Second,
			WriteTimeout: viper.GetDuration("server.write_timeout") * time.Second,
		},
		Logger: LoggerConfig{
			Level: viper.GetString("logger.level"),
			Env:   viper.GetString("logger.env"),
		},
		Redis: RedisConfig{
			Address:  viper.GetString("redis.address"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		},
		Generation: GenerationConfig{
			Source: viper.GetString("generation.source"),
			OpenAI: OpenAIConfig{
				APIKey: viper.GetString("generation.openai.api_key"),
				Model:  viper.GetString("generation.openai.model"),
			},
			Ollama: OllamaConfig{
				ServerURL: viper.GetString("generation.ollama.server_url"),
				Model:     viper.GetString("generation.ollama.model"),
			},
		},
		Pipeline: PipelineConfig{
			MaxBatchQuota:        viper.GetInt("pipeline.max_batch_quota"),
			DefaultQuestionCount: viper.GetInt("pipeline.default_question_count"),
			CallMaxAttempts:      viper.GetInt("pipeline.call_max_attempts"),
			CallBackoffStep:      viper.GetDuration("pipeline.call_backoff_step") * time.Second,
			BatchMaxAttempts:     viper.GetInt("pipeline.batch_max_attempts"),
			BatchBackoffStep:     viper.GetDuration("pipeline.batch_backoff_step") * time.Second,
			IndexTTL:             viper.GetDuration("pipeline.index_ttl") * time.Second,
		},
		Captions: CaptionsConfig{
			BaseURL: viper.GetString("captions.base_url"),
			Timeout: viper.GetDuration("captions.timeout") * time.Second,
		},
		Speech: SpeechConfig{
			ServerURL: viper.GetString("speech.server_url"),
			Timeout:   viper.GetDuration("speech.timeout") * time.Second,
		},
	}

	// Override with environment variables if set
	if addr := os.Getenv("REDIS_ADDRESS"); addr != "" {
		config.Redis.Address = addr
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		config.Generation.OpenAI.APIKey = key
	}
	if url := os.Getenv("OLLAMA_SERVER_URL"); url != "" {
		config.Generation.Ollama.ServerURL = url
	}

	return config, nil
}
