package config

import (
	"testing"

	"github.com/wlwallpaperd/wlwallpaperd/internal/common"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil, "")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Quiet {
		t.Errorf("Quiet = true, want false")
	}
	if cfg.NoCache {
		t.Errorf("NoCache = true, want false")
	}
	if cfg.Format != nil {
		t.Errorf("Format = %v, want nil", cfg.Format)
	}
}

func TestLoadFlags(t *testing.T) {
	cfg, err := Load([]string{"--quiet", "--no-cache", "--format=xbgr"}, "")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !cfg.Quiet {
		t.Errorf("Quiet = false, want true")
	}
	if !cfg.NoCache {
		t.Errorf("NoCache = false, want true")
	}
	if cfg.Format == nil {
		t.Fatalf("Format = nil, want set")
	}
	if got, want := *cfg.Format, common.XBGR8888; got != want {
		t.Errorf("Format = %v, want %v", got, want)
	}
}

func TestParseFormatUnknown(t *testing.T) {
	if _, err := parseFormat("nonsense"); err == nil {
		t.Errorf("parseFormat(%q) succeeded, want error", "nonsense")
	}
}

func TestLoadSocketPathDefaultAndOverride(t *testing.T) {
	cfg, err := Load(nil, "")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.SocketPath == "" {
		t.Errorf("SocketPath = %q, want non-empty default", cfg.SocketPath)
	}

	cfg, err = Load([]string{"--socket=/tmp/custom.sock"}, "")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if got, want := cfg.SocketPath, "/tmp/custom.sock"; got != want {
		t.Errorf("SocketPath = %q, want %q", got, want)
	}
}
