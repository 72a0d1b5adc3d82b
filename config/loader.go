package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// validate is the singleton validator instance
var validate = validator.New()

// LoadOptions controls where Load looks.
type LoadOptions struct {
	// ConfigFile is an explicit config file; it must exist when set.
	// When empty, asksql.{yaml,json,toml} is searched in . and ./config.
	ConfigFile string
	// EnvFile is loaded into the process environment first; missing is fine.
	// Defaults to ".env".
	EnvFile string
	// Flags maps config keys to command-line flags. A flag only overrides
	// the other sources when the user actually set it.
	Flags map[string]*pflag.Flag
}

// Load loads configuration from .env, environment variables, an optional
// config file and command-line flags, in increasing order of precedence.
func Load(opts LoadOptions) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Read from environment variables
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", opts.ConfigFile, err)
		}
	} else {
		v.SetConfigName("asksql")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	for key, flag := range opts.Flags {
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return nil, fmt.Errorf("failed to bind flag %s: %w", flag.Name, err)
		}
	}

	var cfg Config

	// LLM
	cfg.LLM.Provider = strings.ToLower(v.GetString("llm_provider"))
	cfg.LLM.OpenAIAPIKey = v.GetString("openai_api_key")
	cfg.LLM.GeminiAPIKey = v.GetString("gemini_api_key")
	cfg.LLM.Endpoint = v.GetString("llm_endpoint")
	cfg.LLM.Model = v.GetString("llm_model")
	cfg.LLM.Timeout = v.GetDuration("llm_timeout")
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = defaultModel(cfg.LLM.Provider)
	}

	// Pipeline
	cfg.Pipeline.TranslationTemperature = v.GetFloat64("translation_temperature")
	cfg.Pipeline.SummaryTemperature = v.GetFloat64("summary_temperature")
	cfg.Pipeline.MaxPreviewRows = v.GetInt("max_preview_rows")
	cfg.Pipeline.TableName = v.GetString("table_name")
	cfg.Pipeline.ExecTimeout = v.GetDuration("exec_timeout")

	// Data
	cfg.Data.Path = v.GetString("data_path")
	cfg.Data.Sheet = v.GetString("data_sheet")

	// Logging
	cfg.Log.Level = strings.ToLower(v.GetString("log_level"))
	cfg.Log.Format = strings.ToLower(v.GetString("log_format"))

	// Server
	cfg.Server.Host = v.GetString("server_host")
	cfg.Server.Port = v.GetInt("server_port")
	cfg.Server.HistorySize = v.GetInt("history_size")

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %q (%s)", fe.Namespace(), fe.Tag(), fe.Param()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	// LLM defaults
	v.SetDefault("llm_provider", "openai")
	v.SetDefault("llm_endpoint", "")
	v.SetDefault("llm_model", "")
	v.SetDefault("llm_timeout", 60*time.Second)
	v.SetDefault("openai_api_key", "")
	v.SetDefault("gemini_api_key", "")

	// Pipeline defaults
	v.SetDefault("translation_temperature", 0.2)
	v.SetDefault("summary_temperature", 0.4)
	v.SetDefault("max_preview_rows", 5)
	v.SetDefault("table_name", "df")
	v.SetDefault("exec_timeout", 30*time.Second)

	// Data defaults
	v.SetDefault("data_path", "")
	v.SetDefault("data_sheet", "")

	// Logging defaults
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")

	// Server defaults
	v.SetDefault("server_host", "127.0.0.1")
	v.SetDefault("server_port", 8080)
	v.SetDefault("history_size", 50)
}

func defaultModel(provider string) string {
	if provider == "gemini" {
		return "gemini-2.5-flash"
	}
	return "gpt-4o-mini"
}
