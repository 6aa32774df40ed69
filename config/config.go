package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Generation service (DashScope-compatible chat completions API)
	AIAPIKey  string
	ModelName string
	AIBaseURL string

	// Conversion loop
	MaxAttempts int
	ExecTimeout time.Duration
	PythonBin   string
	SampleLines int

	// Storage
	DBPath  string
	WorkDir string
	GCS     GCSConfig
}

type GCSConfig struct {
	Bucket              string
	DefaultFolder       string
	SignedURLExpiration time.Duration
}

func GetConfig() Config {
	return Config{
		Port:        getEnv("PORT", "9090"),
		AIAPIKey:    getEnv("AI_API_KEY", ""),
		ModelName:   getEnv("AI_MODEL", "qwen3-coder"),
		AIBaseURL:   getEnv("AI_BASE_URL", "https://dashscope.aliyuncs.com/api/v1/services/aigc/text-generation/generation"),
		MaxAttempts: getEnvInt("MAX_RETRY_ATTEMPTS", 3),
		ExecTimeout: time.Duration(getEnvInt("EXEC_TIMEOUT_SECONDS", 60)) * time.Second,
		PythonBin:   getEnv("PYTHON_BIN", "python3"),
		SampleLines: getEnvInt("SAMPLE_LINES", 1),
		DBPath:      getEnv("DB_PATH", "./data/badger"),
		WorkDir:     getEnv("WORK_DIR", os.TempDir()),
		GCS: GCSConfig{
			Bucket:              getEnv("GCS_BUCKET_NAME", ""),
			DefaultFolder:       getEnv("GCS_DEFAULT_FOLDER", "intermediatecsv"),
			SignedURLExpiration: time.Duration(getEnvInt("SIGNED_URL_EXPIRATION", 3600)) * time.Second,
		},
	}
}

// Validate checks the values the service cannot run without.
func (c Config) Validate() error {
	if c.AIAPIKey == "" {
		return fmt.Errorf("AI_API_KEY environment variable is required")
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("MAX_RETRY_ATTEMPTS must be at least 1")
	}
	if c.SampleLines < 1 {
		return fmt.Errorf("SAMPLE_LINES must be at least 1")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
