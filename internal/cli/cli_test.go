package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	c := New(io.Discard, log.InfoLevel)
	root := c.RootCommand()

	want := []string{"extract", "analyze", "layout", "render", "serve", "browse", "cache", "completion"}
	for _, name := range want {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/custom-cache")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join("/tmp/custom-cache", appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestCacheDirDefault(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")
	os.Unsetenv("XDG_CACHE_HOME")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, ".cache", appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestBaseName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"notes.sections.json", "notes"},
		{"notes.json", "notes"},
		{"dir/notes.sections.json", "dir/notes"},
		{"notes", "notes"},
	}
	for _, tt := range tests {
		if got := baseName(tt.in); got != tt.want {
			t.Errorf("baseName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseFormats(t *testing.T) {
	if got := parseFormats(""); len(got) != 1 || got[0] != "svg" {
		t.Errorf("parseFormats(\"\") = %v, want [svg]", got)
	}
	if got := parseFormats("svg,png"); len(got) != 2 || got[1] != "png" {
		t.Errorf("parseFormats(\"svg,png\") = %v", got)
	}
}

func TestValidateFormats(t *testing.T) {
	if err := validateFormats([]string{"svg", "dot", "pdf", "png"}); err != nil {
		t.Errorf("valid formats rejected: %v", err)
	}
	if err := validateFormats([]string{"tiff"}); err == nil {
		t.Error("invalid format accepted")
	}
}

func TestOutputFor(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		output string
		format string
		multi  bool
		want   string
	}{
		{"explicit single", "a.layout.json", "out.svg", "svg", false, "out.svg"},
		{"derived single", "a.layout.json", "", "svg", false, "a.svg"},
		{"derived multi", "a.layout.json", "", "png", true, "a.png"},
		{"base path multi", "a.layout.json", "diagram", "dot", true, "diagram.dot"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outputFor(tt.input, tt.output, tt.format, tt.multi); got != tt.want {
				t.Errorf("outputFor() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := strings.Join([]string{
		`groq_api_key = "file-key"`,
		`model = "file-model"`,
		`mongo_uri = "mongodb://localhost:27017"`,
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("GROQ_API_KEY", "")
	os.Unsetenv("GROQ_API_KEY")
	t.Setenv("BRAINLIFT_MODEL", "")
	os.Unsetenv("BRAINLIFT_MODEL")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.GroqAPIKey != "file-key" {
		t.Errorf("GroqAPIKey = %q, want file-key", cfg.GroqAPIKey)
	}
	if cfg.Model != "file-model" {
		t.Errorf("Model = %q, want file-model", cfg.Model)
	}
	if cfg.Listen != ":8080" {
		t.Errorf("Listen = %q, want default :8080", cfg.Listen)
	}
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(`model = "file-model"`), 0600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("BRAINLIFT_MODEL", "env-model")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.Model != "env-model" {
		t.Errorf("Model = %q, want env override", cfg.Model)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("missing config file should not error: %v", err)
	}
	if cfg.Model == "" {
		t.Error("defaults should apply without a config file")
	}
}

func TestReadExtractFile(t *testing.T) {
	dir := t.TempDir()

	full := filepath.Join(dir, "full.sections.json")
	fullJSON := `{
		"name": "Test",
		"share_id": "Abc123",
		"sections": {"dok3_insights": {"raw": "", "items": [{"index": 1, "content": "Insight"}]}}
	}`
	if err := os.WriteFile(full, []byte(fullJSON), 0600); err != nil {
		t.Fatal(err)
	}

	extract, err := readExtractFile(full)
	if err != nil {
		t.Fatalf("readExtractFile() error: %v", err)
	}
	if extract.Name != "Test" || extract.Sections.Insights.ItemCount() != 1 {
		t.Errorf("unexpected extract: %+v", extract)
	}

	// Bare sections without the extract envelope.
	bare := filepath.Join(dir, "bare.json")
	bareJSON := `{"dok3_insights": {"raw": "", "items": [{"index": 1, "content": "Insight"}]}}`
	if err := os.WriteFile(bare, []byte(bareJSON), 0600); err != nil {
		t.Fatal(err)
	}
	extract, err = readExtractFile(bare)
	if err != nil {
		t.Fatalf("readExtractFile() bare error: %v", err)
	}
	if extract.Sections.Insights.ItemCount() != 1 {
		t.Errorf("bare sections not parsed: %+v", extract.Sections)
	}
}
