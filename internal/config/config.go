package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"pdfquiz/internal/llm"
	"pdfquiz/internal/quizgen"
	"pdfquiz/internal/r2"
)

// Config is the full service configuration.
type Config struct {
	Server struct {
		Port           string `yaml:"port"`
		FrontendURL    string `yaml:"frontend_url"`
		MaxUploadBytes int64  `yaml:"max_upload_bytes"`
	} `yaml:"server"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`

	LLM        llm.Config     `yaml:"llm"`
	Generation quizgen.Config `yaml:"generation"`

	Quiz struct {
		StrictSubmit bool `yaml:"strict_submit"`
	} `yaml:"quiz"`

	DatabaseURL string    `yaml:"database_url"`
	R2          r2.Config `yaml:"r2"`
}

// Default returns the built-in configuration.
func Default() Config {
	var cfg Config
	cfg.Server.Port = "8080"
	cfg.Server.FrontendURL = "http://localhost:5173"
	cfg.Server.MaxUploadBytes = 32 << 20
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	cfg.LLM = llm.DefaultConfig()
	cfg.Generation = quizgen.DefaultConfig()
	return cfg
}

// Load builds the configuration from defaults, the optional YAML file at
// path, a .env file in the working directory and the process environment,
// each overriding the previous. When no LLM provider is named, the first
// available API key selects one.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("error loading .env file: %w", err)
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	cfg.LLM.Discover()
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Server.Port, "PORT")
	setString(&cfg.Server.FrontendURL, "FRONTEND_URL")
	setString(&cfg.Log.Level, "LOG_LEVEL")
	setString(&cfg.Log.Format, "LOG_FORMAT")

	setString(&cfg.LLM.Provider, "PDFQUIZ_LLM_PROVIDER")
	setString(&cfg.LLM.OpenAI.APIKey, "OPENAI_API_KEY")
	setString(&cfg.LLM.OpenAI.Model, "OPENAI_MODEL")
	setString(&cfg.LLM.OpenAI.BaseURL, "OPENAI_BASE_URL")
	setString(&cfg.LLM.Gemini.APIKey, "GEMINI_API_KEY")
	setString(&cfg.LLM.Gemini.Model, "GEMINI_MODEL")
	setString(&cfg.LLM.Anthropic.APIKey, "ANTHROPIC_API_KEY")
	setString(&cfg.LLM.Anthropic.Model, "ANTHROPIC_MODEL")

	setString(&cfg.DatabaseURL, "DATABASE_URL")
	setString(&cfg.R2.AccountID, "CLOUDFLARE_ACCOUNT_ID")
	setString(&cfg.R2.BucketName, "R2_BUCKET_NAME")
	setString(&cfg.R2.AccessKeyID, "R2_ACCESS_KEY_ID")
	setString(&cfg.R2.SecretAccessKey, "R2_SECRET_ACCESS_KEY")
	setString(&cfg.R2.Endpoint, "R2_ENDPOINT")

	if err := setInt64(&cfg.Server.MaxUploadBytes, "MAX_UPLOAD_BYTES"); err != nil {
		return err
	}
	if err := setInt(&cfg.Generation.MaxTextLength, "PDFQUIZ_MAX_TEXT_LENGTH"); err != nil {
		return err
	}
	if err := setInt(&cfg.Generation.MaxQuestions, "PDFQUIZ_MAX_QUESTIONS"); err != nil {
		return err
	}
	if v, ok := lookup("PDFQUIZ_STRICT_SUBMIT"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("PDFQUIZ_STRICT_SUBMIT: %w", err)
		}
		cfg.Quiz.StrictSubmit = b
	}
	return nil
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func setString(dst *string, key string) {
	if v, ok := lookup(key); ok {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v, ok := lookup(key)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func setInt64(dst *int64, key string) error {
	v, ok := lookup(key)
	if !ok {
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}
