package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/phanxgames/tabletop"
)

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() {
		configPath = ""
		verbose = false
	})
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestConfigCommandDefaults(t *testing.T) {
	out, err := runRoot(t, "config")
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := tabletop.ParseConfig([]byte(out))
	if err != nil {
		t.Fatalf("output is not a valid config: %v\n%s", err, out)
	}
	if cfg.Spawn.Kind != tabletop.KindTank || len(cfg.Pieces) != 1 {
		t.Errorf("config = %+v", cfg)
	}
}

func TestConfigCommandFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tabletop.yaml")
	if err := os.WriteFile(path, []byte("spawn:\n  kind: disc\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := runRoot(t, "config", "--config", path)
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := tabletop.ParseConfig([]byte(out))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Spawn.Kind != tabletop.KindDisc {
		t.Errorf("spawn.kind = %q, want disc", cfg.Spawn.Kind)
	}
}

func TestConfigCommandBadFile(t *testing.T) {
	if _, err := runRoot(t, "config", "-c", filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing config file accepted")
	}
}
