package config

import (
	"bytes"
	"strings"
	"testing"
)

func TestRunSetupAcceptsDefaults(t *testing.T) {
	var out bytes.Buffer
	cfg, err := RunSetup(nil, strings.NewReader("\n\n\n\n"), &out)
	if err != nil {
		t.Fatalf("RunSetup: %v", err)
	}
	if cfg.APIURL != "" || cfg.Store != "file" || cfg.Clipboard != "system" || !cfg.Markdown() {
		t.Errorf("expected defaults, got %+v", cfg)
	}
	if !strings.Contains(out.String(), "Rephrase service URL") {
		t.Errorf("missing prompt in output: %q", out.String())
	}
}

func TestRunSetupCustomValues(t *testing.T) {
	in := strings.NewReader("https://api.example.com\nsqlite\nosc52\nn\n")
	cfg, err := RunSetup(nil, in, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("RunSetup: %v", err)
	}
	if cfg.APIURL != "https://api.example.com" {
		t.Errorf("APIURL: got %q", cfg.APIURL)
	}
	if cfg.Store != "sqlite" || cfg.Clipboard != "osc52" {
		t.Errorf("got store %q clipboard %q", cfg.Store, cfg.Clipboard)
	}
	if cfg.Markdown() {
		t.Error("markdown should be off")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("result should validate: %v", err)
	}
}

func TestRunSetupKeepsExisting(t *testing.T) {
	existing := &Config{APIURL: "http://old:9000", Store: "sqlite"}
	cfg, err := RunSetup(existing, strings.NewReader("\n\n\n\n"), &bytes.Buffer{})
	if err != nil {
		t.Fatalf("RunSetup: %v", err)
	}
	if cfg.APIURL != "http://old:9000" || cfg.Store != "sqlite" {
		t.Errorf("existing values lost: %+v", cfg)
	}
}

func TestRunSetupEOF(t *testing.T) {
	if _, err := RunSetup(nil, strings.NewReader(""), &bytes.Buffer{}); err == nil {
		t.Fatal("expected error on empty input")
	}
}

func TestRunSetupResetsAPIURL(t *testing.T) {
	existing := &Config{APIURL: "http://old:9000"}
	var out bytes.Buffer
	cfg, err := RunSetup(existing, strings.NewReader("-\n\n\n\n"), &out)
	if err != nil {
		t.Fatalf("RunSetup: %v", err)
	}
	if cfg.APIURL != "" {
		t.Errorf("APIURL should be reset to the default origin, got %q", cfg.APIURL)
	}
	if !strings.Contains(out.String(), "- for http://localhost:8080") {
		t.Errorf("prompt should explain the reset: %q", out.String())
	}
}
