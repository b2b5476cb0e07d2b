package execution

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func TestExpandTilde(t *testing.T) {
	testHome := "/home/testuser"
	t.Setenv("HOME", testHome)
	t.Setenv("KEY_DIR", "keys")

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"no tilde", "/absolute/path", "/absolute/path"},
		{"tilde only", "~", testHome},
		{"tilde with path", "~/.ssh/id_rsa", testHome + "/.ssh/id_rsa"},
		{"environment variable", "$HOME/.ssh/id_rsa", testHome + "/.ssh/id_rsa"},
		{"tilde with env var", "~/$KEY_DIR/id_rsa", testHome + "/keys/id_rsa"},
		{"inner tilde untouched", "~/path/~/another", testHome + "/path/~/another"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExpandTilde(tt.input); got != tt.expected {
				t.Errorf("ExpandTilde(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestShellQuote(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"plain", "'plain'"},
		{"with space", "'with space'"},
		{"it's", `'it'\''s'`},
		{"", "''"},
	}
	for _, tt := range tests {
		if got := shellQuote(tt.input); got != tt.expected {
			t.Errorf("shellQuote(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestFetchToFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("success", func(t *testing.T) {
		p := filepath.Join(dir, "artifact")
		err := fetchToFile(p, func(f *os.File) error {
			_, err := f.WriteString("payload")
			return err
		})
		if err != nil {
			t.Fatalf("fetchToFile: %v", err)
		}
		data, err := os.ReadFile(p)
		if err != nil || string(data) != "payload" {
			t.Fatalf("content = %q, err = %v", data, err)
		}
	})

	t.Run("failed copy leaves no partial file", func(t *testing.T) {
		p := filepath.Join(dir, "partial")
		copyErr := errors.New("connection reset")
		err := fetchToFile(p, func(f *os.File) error {
			f.WriteString("half of the")
			return copyErr
		})
		if !errors.Is(err, copyErr) {
			t.Fatalf("err = %v, want %v", err, copyErr)
		}
		if _, err := os.Stat(p); !errors.Is(err, fs.ErrNotExist) {
			t.Fatalf("partial file left behind: %v", err)
		}
	})
}

func TestBuildCommand(t *testing.T) {
	got := buildCommand(Request{
		Path: "fio",
		Args: []string{"fio-input-tmp.fio", "--output-format=json+"},
		Dir:  "/var/bench",
	})
	want := "cd '/var/bench' && 'fio' 'fio-input-tmp.fio' '--output-format=json+'"
	if got != want {
		t.Fatalf("buildCommand = %q, want %q", got, want)
	}

	got = buildCommand(Request{Path: "fio", Args: []string{"job.fio"}})
	want = "'fio' 'job.fio'"
	if got != want {
		t.Fatalf("buildCommand = %q, want %q", got, want)
	}
}
