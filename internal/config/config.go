package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// PubMedConfig holds connection details for the NCBI E-utilities API.
type PubMedConfig struct {
	BaseURL     string `yaml:"base_url"`
	Email       string `yaml:"email"`
	TimeoutSecs int    `yaml:"timeout_secs"`
	FetchLimit  int    `yaml:"fetch_limit"`
}

// EmbedderConfig configures the embedding endpoint (Ollama or any
// OpenAI-compatible server).
type EmbedderConfig struct {
	BaseURL     string `yaml:"base_url"`
	Model       string `yaml:"model"`
	APIKeyEnv   string `yaml:"api_key_env,omitempty"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// LLMConfig configures the text-generation endpoint used for summaries and
// grounded answers.
type LLMConfig struct {
	BaseURL     string `yaml:"base_url"`
	Model       string `yaml:"model"`
	Enabled     bool   `yaml:"enabled"`
	TimeoutSecs int    `yaml:"timeout_secs"`
	MaxAttempts int    `yaml:"max_attempts"`
}

// IndexConfig locates the persisted vector index generation.
type IndexConfig struct {
	Dir       string `yaml:"dir"`
	CachePath string `yaml:"cache_path"`
}

// ChatConfig tunes the interactive session.
type ChatConfig struct {
	TopK int `yaml:"top_k"`
}

// AppConfig is the root application configuration structure. It is built once
// at process start and passed into constructors; nothing reads it from
// globals.
type AppConfig struct {
	PubMed   PubMedConfig   `yaml:"pubmed"`
	Embedder EmbedderConfig `yaml:"embedder"`
	LLM      LLMConfig      `yaml:"llm"`
	Index    IndexConfig    `yaml:"index"`
	Chat     ChatConfig     `yaml:"chat"`
}

// Load reads a config from a specified path. If the file does not exist,
// returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/pubmedrag/config.yaml.
// If neither exists, it writes defaults to the user path and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "pubmedrag", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		PubMed: PubMedConfig{
			BaseURL:     "https://eutils.ncbi.nlm.nih.gov/entrez/eutils",
			TimeoutSecs: 10,
			FetchLimit:  5,
		},
		Embedder: EmbedderConfig{
			BaseURL:     "http://localhost:11434",
			Model:       "nomic-embed-text",
			TimeoutSecs: 60,
		},
		LLM: LLMConfig{
			BaseURL:     "http://localhost:11434",
			Model:       "mistral",
			Enabled:     true,
			TimeoutSecs: 60,
			MaxAttempts: 3,
		},
		Index: IndexConfig{
			Dir:       "data/vector_store",
			CachePath: ".last_results.json",
		},
		Chat: ChatConfig{TopK: 3},
	}
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	def := defaultConfig()
	if cfg.PubMed.BaseURL == "" {
		cfg.PubMed.BaseURL = def.PubMed.BaseURL
	}
	if cfg.PubMed.TimeoutSecs == 0 {
		cfg.PubMed.TimeoutSecs = def.PubMed.TimeoutSecs
	}
	if cfg.PubMed.FetchLimit == 0 {
		cfg.PubMed.FetchLimit = def.PubMed.FetchLimit
	}
	if cfg.Embedder.BaseURL == "" {
		cfg.Embedder.BaseURL = def.Embedder.BaseURL
	}
	if cfg.Embedder.Model == "" {
		cfg.Embedder.Model = def.Embedder.Model
	}
	if cfg.Embedder.TimeoutSecs == 0 {
		cfg.Embedder.TimeoutSecs = def.Embedder.TimeoutSecs
	}
	if cfg.LLM.BaseURL == "" {
		cfg.LLM.BaseURL = def.LLM.BaseURL
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = def.LLM.Model
	}
	if cfg.LLM.TimeoutSecs == 0 {
		cfg.LLM.TimeoutSecs = def.LLM.TimeoutSecs
	}
	if cfg.LLM.MaxAttempts == 0 {
		cfg.LLM.MaxAttempts = def.LLM.MaxAttempts
	}
	if cfg.Index.Dir == "" {
		cfg.Index.Dir = def.Index.Dir
	}
	if cfg.Index.CachePath == "" {
		cfg.Index.CachePath = def.Index.CachePath
	}
	if cfg.Chat.TopK == 0 {
		cfg.Chat.TopK = def.Chat.TopK
	}
}
