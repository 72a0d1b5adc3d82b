package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnvFile(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(LoadOptions{EnvFile: noEnvFile(t)})
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, 60*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 0.2, cfg.Pipeline.TranslationTemperature)
	assert.Equal(t, 0.4, cfg.Pipeline.SummaryTemperature)
	assert.Equal(t, 5, cfg.Pipeline.MaxPreviewRows)
	assert.Equal(t, "df", cfg.Pipeline.TableName)
	assert.Equal(t, 30*time.Second, cfg.Pipeline.ExecTimeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Addr())
	assert.Equal(t, 50, cfg.Server.HistorySize)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "Gemini")
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("OPENAI_API_KEY", "sk-key")
	t.Setenv("SUMMARY_TEMPERATURE", "0.7")
	t.Setenv("EXEC_TIMEOUT", "5s")

	cfg, err := Load(LoadOptions{EnvFile: noEnvFile(t)})
	require.NoError(t, err)

	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, "gemini-2.5-flash", cfg.LLM.Model)
	assert.Equal(t, "g-key", cfg.LLM.APIKey())
	assert.Equal(t, "g-key", cfg.LLM.ClientConfig().APIKey)
	assert.Equal(t, 0.7, cfg.Pipeline.SummaryTemperature)
	assert.Equal(t, 5*time.Second, cfg.Pipeline.ExecTimeout)
}

func TestLoad_DotEnv(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("ASKSQL_TEST_ONLY=1\nMAX_PREVIEW_ROWS=9\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("ASKSQL_TEST_ONLY")
		os.Unsetenv("MAX_PREVIEW_ROWS")
	})

	cfg, err := Load(LoadOptions{EnvFile: envFile})
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Pipeline.MaxPreviewRows)
}

func TestLoad_ConfigFileAndFlags(t *testing.T) {
	file := filepath.Join(t.TempDir(), "asksql.yaml")
	require.NoError(t, os.WriteFile(file, []byte("llm_model: gpt-4.1-mini\ntable_name: accruals\nserver_port: 9090\n"), 0o600))

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("port", 0, "")
	flags.String("model", "", "")
	require.NoError(t, flags.Parse([]string{"--port", "7070"}))

	cfg, err := Load(LoadOptions{
		ConfigFile: file,
		EnvFile:    noEnvFile(t),
		Flags: map[string]*pflag.Flag{
			"server_port": flags.Lookup("port"),
			"llm_model":   flags.Lookup("model"),
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "gpt-4.1-mini", cfg.LLM.Model, "unset flag must not override the file")
	assert.Equal(t, "accruals", cfg.Pipeline.TableName)
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	_, err := Load(LoadOptions{ConfigFile: filepath.Join(t.TempDir(), "nope.yaml"), EnvFile: noEnvFile(t)})
	assert.Error(t, err)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown provider", map[string]string{"LLM_PROVIDER": "claude"}},
		{"temperature too high", map[string]string{"TRANSLATION_TEMPERATURE": "3"}},
		{"negative temperature", map[string]string{"SUMMARY_TEMPERATURE": "-0.1"}},
		{"zero preview rows", map[string]string{"MAX_PREVIEW_ROWS": "0"}},
		{"bad log level", map[string]string{"LOG_LEVEL": "loud"}},
		{"bad endpoint", map[string]string{"LLM_ENDPOINT": "not a url"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(LoadOptions{EnvFile: noEnvFile(t)})
			assert.ErrorContains(t, err, "invalid configuration")
		})
	}
}
