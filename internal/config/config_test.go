package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return p
}

func TestLoadFile_Basic(t *testing.T) {
	dir := t.TempDir()
	body := "ai_provider: ollama\n" +
		"openai:\n  api_key: sk-file\n  model: gpt-4o\n" +
		"extraction:\n  min_entropy: 4.2\n  min_length: 16\n" +
		"validation:\n  min_confidence: 50\n  no_api: true\n"
	p := writeTemp(t, dir, "sensit.yaml", body)
	cfg, err := LoadFile(p)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.AIProvider == nil || *cfg.AIProvider != "ollama" {
		t.Fatalf("expected ai_provider=ollama, got %#v", cfg.AIProvider)
	}
	if cfg.OpenAI == nil || cfg.OpenAI.APIKey == nil || *cfg.OpenAI.APIKey != "sk-file" {
		t.Fatalf("expected openai api_key from file, got %#v", cfg.OpenAI)
	}
	if cfg.Extraction == nil || cfg.Extraction.MinEntropy == nil || *cfg.Extraction.MinEntropy != 4.2 {
		t.Fatalf("expected min_entropy=4.2, got %#v", cfg.Extraction)
	}
	if cfg.Validation == nil || cfg.Validation.NoAPI == nil || !*cfg.Validation.NoAPI {
		t.Fatalf("expected no_api=true, got %#v", cfg.Validation)
	}
	if cfg.RulesPath != nil {
		t.Fatalf("expected absent rules path to stay nil")
	}
}

func TestLoadLocal_PrefersDotfile(t *testing.T) {
	dir := t.TempDir()
	// place both, expect the dotfile to be picked first by search order
	writeTemp(t, dir, "sensit.yaml", "ai_provider: openai\n")
	writeTemp(t, dir, ".sensit.yaml", "ai_provider: gemini\n")
	cfg, err := LoadLocal(dir)
	if err != nil {
		t.Fatalf("LoadLocal: %v", err)
	}
	if cfg.AIProvider == nil || *cfg.AIProvider != "gemini" {
		t.Fatalf("expected ai_provider=gemini from .sensit.yaml, got %#v", cfg.AIProvider)
	}
}

func TestLoadLocal_NoConfig(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadLocal(dir); err == nil {
		t.Fatal("expected error when no local config exists")
	}
}

func TestLoadGlobal_XDG_Config(t *testing.T) {
	dir := t.TempDir()
	cfgDir := filepath.Join(dir, "sensit")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	p := filepath.Join(cfgDir, "config.yml")
	if err := os.WriteFile(p, []byte("ai_provider: azure-openai\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("XDG_CONFIG_HOME", dir)
	cfg, err := LoadGlobal()
	if err != nil {
		t.Fatalf("LoadGlobal: %v", err)
	}
	if cfg.AIProvider == nil || *cfg.AIProvider != "azure-openai" {
		t.Fatalf("expected ai_provider from global config, got %#v", cfg.AIProvider)
	}
}

func TestLoadGlobal_NoConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	// Simulate no HOME as well by clearing HOME; LoadGlobal should error
	t.Setenv("HOME", "")
	if _, err := LoadGlobal(); err == nil {
		t.Fatal("expected error when no global config dir exists")
	}
}

func TestApplyEnv_FileWins(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-env")
	t.Setenv("AZURE_OPENAI_ENDPOINT", "https://env.openai.azure.com")

	fileKey := "sk-file"
	cfg := FileConfig{OpenAI: &ProviderConfig{APIKey: &fileKey}}
	cfg.ApplyEnv()

	if *cfg.OpenAI.APIKey != "sk-file" {
		t.Fatalf("file value should win over env, got %q", *cfg.OpenAI.APIKey)
	}
	if cfg.Azure == nil || cfg.Azure.Endpoint == nil || *cfg.Azure.Endpoint != "https://env.openai.azure.com" {
		t.Fatalf("expected azure endpoint from env, got %#v", cfg.Azure)
	}
	if cfg.Azure.APIKey != nil {
		t.Fatalf("unset env should leave field nil")
	}
}
