package env

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeEnvFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write env file: %v", err)
	}
	return path
}

func TestLoadDotEnv(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    map[string]string
	}{
		{
			name:    "shell export lines",
			content: "export TOKEN=abc\nexport   REGION=eu\nexported=yes",
			want:    map[string]string{"TOKEN": "abc", "REGION": "eu", "exported": "yes"},
		},
		{
			name:    "quotes are stripped only when balanced",
			content: "A=\"x y\"\nB='x y'\nC=\"open\nD='mixed\"\nE=\"\"",
			want:    map[string]string{"A": "x y", "B": "x y", "C": `"open`, "D": `'mixed"`, "E": ""},
		},
		{
			name:    "value keeps placeholders and later equals signs",
			content: "URL=https://api.example.com/items?cursor=${cursor}&limit=10",
			want:    map[string]string{"URL": "https://api.example.com/items?cursor=${cursor}&limit=10"},
		},
		{
			name:    "lines without a key are skipped",
			content: "# cursor=ignored\n\nnot a pair\n=orphan\n  cursor = 42  ",
			want:    map[string]string{"cursor": "42"},
		},
		{
			name:    "later lines win within a file",
			content: "state=old\nstate=new",
			want:    map[string]string{"state": "new"},
		},
		{
			name:    "empty value is kept",
			content: "cursor=",
			want:    map[string]string{"cursor": ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LoadDotEnv(writeEnvFile(t, ".env", tt.content))
			if err != nil {
				t.Fatalf("LoadDotEnv() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("LoadDotEnv() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoadDotEnvMissingFile(t *testing.T) {
	_, err := LoadDotEnv(filepath.Join(t.TempDir(), "nope.env"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("LoadDotEnv() error = %v, want os.ErrNotExist", err)
	}
}
