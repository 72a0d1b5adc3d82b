// Package config is the only place that reads process environment. Everything
// downstream receives explicit values.
package config

import (
	"net"
	"strconv"
	"time"

	"github.com/spektr-org/asksql/llm"
)

// Config holds all configuration for the application
type Config struct {
	LLM      LLMConfig
	Pipeline PipelineConfig
	Data     DataConfig
	Log      LogConfig
	Server   ServerConfig
}

// LLMConfig selects the language-model provider
type LLMConfig struct {
	Provider     string        `mapstructure:"llm_provider" validate:"oneof=openai gemini"`
	OpenAIAPIKey string        `mapstructure:"openai_api_key"`
	GeminiAPIKey string        `mapstructure:"gemini_api_key"`
	Endpoint     string        `mapstructure:"llm_endpoint" validate:"omitempty,url"`
	Model        string        `mapstructure:"llm_model" validate:"required"`
	Timeout      time.Duration `mapstructure:"llm_timeout" validate:"gt=0s"`
}

// APIKey returns the key for the selected provider.
func (c LLMConfig) APIKey() string {
	if c.Provider == llm.ProviderGemini {
		return c.GeminiAPIKey
	}
	return c.OpenAIAPIKey
}

// ClientConfig converts to the llm package's config.
func (c LLMConfig) ClientConfig() llm.Config {
	return llm.Config{
		Provider: c.Provider,
		APIKey:   c.APIKey(),
		Endpoint: c.Endpoint,
		Timeout:  c.Timeout,
	}
}

// PipelineConfig tunes the question pipeline
type PipelineConfig struct {
	TranslationTemperature float64       `mapstructure:"translation_temperature" validate:"gte=0,lte=2"`
	SummaryTemperature     float64       `mapstructure:"summary_temperature" validate:"gte=0,lte=2"`
	MaxPreviewRows         int           `mapstructure:"max_preview_rows" validate:"gte=1,lte=100"`
	TableName              string        `mapstructure:"table_name" validate:"required"`
	ExecTimeout            time.Duration `mapstructure:"exec_timeout" validate:"gte=0s"`
}

// DataConfig points at the dataset file
type DataConfig struct {
	Path  string `mapstructure:"data_path"`
	Sheet string `mapstructure:"data_sheet"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"log_format" validate:"oneof=json console"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host        string `mapstructure:"server_host"`
	Port        int    `mapstructure:"server_port" validate:"gte=1,lte=65535"`
	HistorySize int    `mapstructure:"history_size" validate:"gte=1"`
}

// Addr returns host:port for the listener.
func (c ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
