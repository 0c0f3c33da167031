package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk YAML configuration shape for Sensit. Fields are
// pointers so an absent key is distinguishable from a zero value when
// overlaying file config under CLI flags.
type FileConfig struct {
	AIProvider *string `yaml:"ai_provider"`

	OpenAI *ProviderConfig `yaml:"openai"`
	Gemini *ProviderConfig `yaml:"gemini"`
	Ollama *ProviderConfig `yaml:"ollama"`
	Azure  *AzureConfig    `yaml:"azure_openai"`

	Scanning   *ScanningConfig   `yaml:"scanning"`
	Extraction *ExtractionConfig `yaml:"extraction"`
	Validation *ValidationConfig `yaml:"validation"`

	// RulesPath points at a custom rule pattern file; the builtin set is
	// used when absent.
	RulesPath *string `yaml:"rules"`
}

// ProviderConfig configures one LLM provider.
type ProviderConfig struct {
	APIKey    *string  `yaml:"api_key"`
	Model     *string  `yaml:"model"`
	BaseURL   *string  `yaml:"base_url"`
	MaxTokens *int     `yaml:"max_tokens"`
	BatchSize *int     `yaml:"batch_size"`
	Temp      *float64 `yaml:"temperature"`
}

// AzureConfig configures the Azure OpenAI provider, which needs an endpoint
// and deployment on top of the key.
type AzureConfig struct {
	APIKey     *string `yaml:"api_key"`
	Endpoint   *string `yaml:"endpoint"`
	Deployment *string `yaml:"deployment"`
	MaxTokens  *int    `yaml:"max_tokens"`
	BatchSize  *int    `yaml:"batch_size"`
}

// ScanningConfig tunes source acquisition.
type ScanningConfig struct {
	MaxBytes      *int64  `yaml:"max_bytes"`
	Include       *string `yaml:"include"`
	Exclude       *string `yaml:"exclude"`
	CrawlDepth    *int    `yaml:"crawl_depth"`
	CrawlMaxPages *int    `yaml:"crawl_max_pages"`
}

// ExtractionConfig tunes the entropy analyzer.
type ExtractionConfig struct {
	MinEntropy *float64 `yaml:"min_entropy"`
	MinLength  *int     `yaml:"min_length"`
}

// ValidationConfig tunes AI and live validation.
type ValidationConfig struct {
	MinConfidence *float64 `yaml:"min_confidence"`
	NoAI          *bool    `yaml:"no_ai"`
	NoAPI         *bool    `yaml:"no_api"`
	TimeoutSecs   *int     `yaml:"timeout_seconds"`
}

// LoadFile reads a YAML config file from the provided path.
func LoadFile(path string) (FileConfig, error) {
	var cfg FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadLocal searches for a config file in the given directory. It supports
// .sensit.yml/.yaml and sensit.yml/.yaml.
func LoadLocal(root string) (FileConfig, error) {
	var cfg FileConfig
	for _, name := range []string{".sensit.yml", ".sensit.yaml", "sensit.yml", "sensit.yaml"} {
		p := filepath.Join(root, name)
		if _, err := os.Stat(p); err == nil {
			return LoadFile(p)
		}
	}
	return cfg, errors.New("no local config")
}

// LoadGlobal loads the global config file from XDG base directory or ~/.config.
func LoadGlobal() (FileConfig, error) {
	var cfg FileConfig
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		if home != "" {
			base = filepath.Join(home, ".config")
		}
	}
	if base == "" {
		return cfg, errors.New("no config dir")
	}
	p := filepath.Join(base, "sensit", "config.yml")
	if _, err := os.Stat(p); err == nil {
		return LoadFile(p)
	}
	return cfg, errors.New("no global config")
}

// ApplyEnv fills provider credentials from the conventional environment
// variables. Explicit file values win over the environment.
func (fc *FileConfig) ApplyEnv() {
	setIfEnv := func(dst **string, key string) {
		if *dst == nil {
			if v := os.Getenv(key); v != "" {
				*dst = &v
			}
		}
	}
	if fc.OpenAI == nil {
		fc.OpenAI = &ProviderConfig{}
	}
	setIfEnv(&fc.OpenAI.APIKey, "OPENAI_API_KEY")
	if fc.Gemini == nil {
		fc.Gemini = &ProviderConfig{}
	}
	setIfEnv(&fc.Gemini.APIKey, "GEMINI_API_KEY")
	if fc.Ollama == nil {
		fc.Ollama = &ProviderConfig{}
	}
	setIfEnv(&fc.Ollama.BaseURL, "OLLAMA_BASE_URL")
	if fc.Azure == nil {
		fc.Azure = &AzureConfig{}
	}
	setIfEnv(&fc.Azure.APIKey, "AZURE_OPENAI_API_KEY")
	setIfEnv(&fc.Azure.Endpoint, "AZURE_OPENAI_ENDPOINT")
	setIfEnv(&fc.Azure.Deployment, "AZURE_OPENAI_DEPLOYMENT")
}
