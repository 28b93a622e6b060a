package profile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Profile is configuration to start the main server.
type Profile struct {
	// Unified LLM configuration (OpenAI-compatible protocol).
	// All providers (openai, deepseek, siliconflow, ollama) use the same config.
	LLMProvider string // Provider identifier: openai, deepseek, siliconflow, ollama
	LLMAPIKey   string // Unified LLM API key
	LLMBaseURL  string // Unified LLM base URL (optional, has default per provider)
	LLMModel    string // Model name: gpt-5.2, deepseek-chat, etc.
	LLMTimeout  int    // LLM request timeout in seconds (default: 60)

	// Classifier configuration. Uses a lightweight model for fast,
	// cost-effective sentiment/emotion classification.
	ClassifierModel   string
	ClassifierAPIKey  string
	ClassifierBaseURL string
	ClassifierTimeout int // Classifier request timeout in seconds (default: 10)

	// Agent discovery / external transport configuration.
	DiscoveryURL     string // Base URL of the agent discovery registry (optional)
	TransportTimeout int    // External agent reply timeout in seconds (default: 20)

	// Therapy session configuration.
	SessionWindowTurns int // Max turns passed to generation before compaction (default: 20)

	Mode        string // demo, dev, prod
	Addr        string
	Port        int
	Data        string
	Driver      string // sqlite, postgres
	DSN         string
	Version     string
	MetricsPath string
}

// Provider default configurations for the LLM.
// Used when WELLSPRING_LLM_BASE_URL is not explicitly set.
var llmProviderDefaults = map[string]struct {
	BaseURL string
	Model   string
}{
	"openai": {
		BaseURL: "https://api.openai.com/v1",
		Model:   "gpt-5.2",
	},
	"deepseek": {
		BaseURL: "https://api.deepseek.com",
		Model:   "deepseek-chat",
	},
	"siliconflow": {
		BaseURL: "https://api.siliconflow.cn/v1",
		Model:   "Qwen/Qwen2.5-72B-Instruct",
	},
	"ollama": {
		BaseURL: "http://localhost:11434/v1",
		Model:   "llama3.1",
	},
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// IsAIEnabled returns true if an LLM API key is configured.
func (p *Profile) IsAIEnabled() bool {
	return p.LLMAPIKey != ""
}

// getEnvOrDefault returns environment variable value or default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvOrDefaultInt returns environment variable value as int or default value.
func getEnvOrDefaultInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// FromEnv loads configuration from environment variables.
func (p *Profile) FromEnv() {
	p.LLMProvider = getEnvOrDefault("WELLSPRING_LLM_PROVIDER", "openai")
	p.LLMAPIKey = getEnvOrDefault("WELLSPRING_LLM_API_KEY", "")
	p.LLMBaseURL = getEnvOrDefault("WELLSPRING_LLM_BASE_URL", "")
	p.LLMModel = getEnvOrDefault("WELLSPRING_LLM_MODEL", "")
	p.LLMTimeout = getEnvOrDefaultInt("WELLSPRING_LLM_TIMEOUT_SECONDS", 60)

	if _, ok := llmProviderDefaults[p.LLMProvider]; !ok {
		slog.Warn("unknown LLM provider, using default: openai", "provider", p.LLMProvider)
		p.LLMProvider = "openai"
	}
	if defaults, ok := llmProviderDefaults[p.LLMProvider]; ok {
		if p.LLMBaseURL == "" {
			p.LLMBaseURL = defaults.BaseURL
		}
		if p.LLMModel == "" {
			p.LLMModel = defaults.Model
		}
	}

	// Classifier falls back to the main LLM credentials when not set.
	p.ClassifierModel = getEnvOrDefault("WELLSPRING_CLASSIFIER_MODEL", "Qwen/Qwen2.5-7B-Instruct")
	p.ClassifierAPIKey = getEnvOrDefault("WELLSPRING_CLASSIFIER_API_KEY", p.LLMAPIKey)
	p.ClassifierBaseURL = getEnvOrDefault("WELLSPRING_CLASSIFIER_BASE_URL", p.LLMBaseURL)
	p.ClassifierTimeout = getEnvOrDefaultInt("WELLSPRING_CLASSIFIER_TIMEOUT_SECONDS", 10)

	p.DiscoveryURL = getEnvOrDefault("WELLSPRING_DISCOVERY_URL", "")
	p.TransportTimeout = getEnvOrDefaultInt("WELLSPRING_TRANSPORT_TIMEOUT_SECONDS", 20)

	p.SessionWindowTurns = getEnvOrDefaultInt("WELLSPRING_SESSION_WINDOW_TURNS", 20)

	p.MetricsPath = getEnvOrDefault("WELLSPRING_METRICS_PATH", "/metrics")
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}

	if p.Mode == "prod" && p.Data == "" {
		p.Data = "/var/opt/wellspring"
		if _, err := os.Stat(p.Data); os.IsNotExist(err) {
			if err := os.MkdirAll(p.Data, 0770); err != nil {
				return errors.Wrapf(err, "failed to create data directory %s", p.Data)
			}
		}
	}

	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		return err
	}
	p.Data = dataDir

	if p.Driver == "" {
		p.Driver = "sqlite"
	}
	if p.Driver == "sqlite" && p.DSN == "" {
		p.DSN = filepath.Join(dataDir, fmt.Sprintf("wellspring_%s.db", p.Mode))
	}
	if p.Driver == "postgres" && p.DSN == "" {
		return errors.New("dsn is required for postgres driver")
	}
	if p.Driver != "sqlite" && p.Driver != "postgres" {
		return errors.Errorf("unsupported database driver %q", p.Driver)
	}

	if p.SessionWindowTurns <= 0 {
		p.SessionWindowTurns = 20
	}
	return nil
}
