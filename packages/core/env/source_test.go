package env

import (
	"os"
	"path/filepath"
	"testing"
)

func TestChainLookupOrder(t *testing.T) {
	chain := Chain{
		MapSource{"a": "first"},
		nil,
		MapSource{"a": "second", "b": "second"},
		MapSource{"b": "third", "c": "third"},
	}

	tests := []struct {
		name   string
		want   string
		wantOK bool
	}{
		{"a", "first", true},
		{"b", "second", true},
		{"c", "third", true},
		{"d", "", false},
	}

	for _, tt := range tests {
		got, ok := chain.Lookup(tt.name)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("Lookup(%q) = (%q, %v), want (%q, %v)", tt.name, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestChainWithPrepends(t *testing.T) {
	base := Chain{MapSource{"a": "base"}}
	chain := base.With(MapSource{"a": "front"})

	if got, _ := chain.Lookup("a"); got != "front" {
		t.Errorf("Lookup(a) = %q, want front", got)
	}
	if got, _ := base.Lookup("a"); got != "base" {
		t.Errorf("base chain modified: Lookup(a) = %q", got)
	}
}

func TestOSEnvPrefix(t *testing.T) {
	t.Setenv("RESPVARS_TEST_TOKEN", "secret")
	t.Setenv("RESPVARS_TEST_EMPTY", "")

	src := OSEnv{Prefix: "RESPVARS_TEST_"}

	if got, ok := src.Lookup("TOKEN"); !ok || got != "secret" {
		t.Errorf("Lookup(TOKEN) = (%q, %v)", got, ok)
	}
	if got, ok := src.Lookup("EMPTY"); !ok || got != "" {
		t.Errorf("Lookup(EMPTY) = (%q, %v), want set but empty", got, ok)
	}
	if _, ok := src.Lookup("MISSING"); ok {
		t.Error("Lookup(MISSING) should not be found")
	}
}

func TestNewChain(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	if err := os.WriteFile(envFile, []byte("token=from-file\nregion=eu\n"), 0644); err != nil {
		t.Fatalf("failed to write env file: %v", err)
	}
	t.Setenv("RV_region", "from-env")
	t.Setenv("RV_zone", "a")

	chain, err := NewChain(Options{
		Overrides: map[string]string{"token": "from-config"},
		Files:     []string{envFile},
		Prefix:    "RV_",
	})
	if err != nil {
		t.Fatalf("NewChain() error = %v", err)
	}

	cases := map[string]string{
		"token":  "from-config",
		"region": "eu",
		"zone":   "a",
	}
	for name, want := range cases {
		if got, _ := chain.Lookup(name); got != want {
			t.Errorf("Lookup(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestNewChainMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.env")

	if _, err := NewChain(Options{Files: []string{missing}}); err == nil {
		t.Error("NewChain() expected error for missing env file")
	}

	if _, err := NewChain(Options{Files: []string{missing}, IgnoreMissingFiles: true}); err != nil {
		t.Errorf("NewChain() with IgnoreMissingFiles error = %v", err)
	}
}

func TestNewChainFileOrder(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.env")
	second := filepath.Join(dir, "second.env")
	if err := os.WriteFile(first, []byte("export cursor=from-first\n"), 0644); err != nil {
		t.Fatalf("failed to write env file: %v", err)
	}
	if err := os.WriteFile(second, []byte("cursor=from-second\nstate=from-second\n"), 0644); err != nil {
		t.Fatalf("failed to write env file: %v", err)
	}

	chain, err := NewChain(Options{Files: []string{first, second}})
	if err != nil {
		t.Fatalf("NewChain() error = %v", err)
	}

	if got, _ := chain.Lookup("cursor"); got != "from-first" {
		t.Errorf("Lookup(cursor) = %q, want from-first", got)
	}
	if got, _ := chain.Lookup("state"); got != "from-second" {
		t.Errorf("Lookup(state) = %q, want from-second", got)
	}

	cli := chain.With(MapSource{"cursor": "from-flag"})
	if got, _ := cli.Lookup("cursor"); got != "from-flag" {
		t.Errorf("With() Lookup(cursor) = %q, want from-flag", got)
	}
}
