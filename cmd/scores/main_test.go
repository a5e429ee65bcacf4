package main

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/playperu/geoquiz/internal/scoreboard"
	"github.com/playperu/geoquiz/internal/storage"
)

func seed(t *testing.T, path string) {
	t.Helper()
	ctx := context.Background()
	st, err := storage.Open(ctx, storage.Options{Kind: storage.SQLite, DBPath: path})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer st.Close()

	board := scoreboard.New(ctx, scoreboard.Options{Backend: st.Backend})
	fast, slow := 15.0, 20.0
	board.Record(ctx, 3, 5, nil)
	board.Record(ctx, 5, 5, &slow)
	board.Record(ctx, 5, 5, &fast)
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newCmd(&Config{})
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestListAndReset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.db")
	seed(t, path)

	out, err := execute(t, "list", "--db-path", path)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header + 3 lines, got %d:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[1], "5/5") || !strings.Contains(lines[1], "15.0 s") {
		t.Errorf("expected first row 5/5 in 15.0 s, got %q", lines[1])
	}
	if f := strings.Fields(lines[3]); len(f) < 4 || f[2] != "3/5" || f[3] != "-" {
		t.Errorf("expected last row untimed 3/5, got %q", lines[3])
	}

	out, err = execute(t, "list", "--db-path", path, "--capacity", "1", "--json")
	if err != nil {
		t.Fatalf("list --json: %v", err)
	}
	if strings.Count(out, `"correct"`) != 1 {
		t.Errorf("expected 1 json entry, got %d:\n%s", strings.Count(out, `"correct"`), out)
	}

	if _, err := execute(t, "reset", "--db-path", path); !errors.Is(err, errNotConfirmed) {
		t.Fatalf("expected reset without --yes err errNotConfirmed, got %v", err)
	}

	if _, err := execute(t, "reset", "--db-path", path, "--yes"); err != nil {
		t.Fatalf("reset: %v", err)
	}

	out, err = execute(t, "list", "--db-path", path)
	if err != nil {
		t.Fatalf("list after reset: %v", err)
	}
	if !strings.Contains(out, "No scores yet") {
		t.Errorf("output after reset = %q", out)
	}
}

func TestEnvOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env.db")
	seed(t, path)
	t.Setenv("GEOQUIZ_DB_PATH", path)

	out, err := execute(t, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "RANK") {
		t.Errorf("expected output ranked table, got %q", out)
	}
}

func TestInvalidFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"memory backend", []string{"list", "--backend", "memory"}},
		{"zero capacity", []string{"list", "--capacity", "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, tt.args...); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}
