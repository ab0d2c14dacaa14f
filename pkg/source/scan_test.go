package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestMatchExcerpt(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
		ok   bool
	}{
		{"bare edge", "an edge a --> b in prose", "a --> b", true},
		{"edge with comment", `// a --> b :: talks over grpc`, "a --> b :: talks over grpc", true},
		{"directive", "# ..attr: a, The A: color=red", "..attr: a, The A: color=red", true},
		{"subgraph directive", "..subgraph: grp: a, b", "..subgraph: grp: a, b", true},
		{"no statement", "plain prose without an arrow", "", false},
		{"single dash arrow", "a -> b", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := matchExcerpt(tt.line)
			if ok != tt.ok || got != tt.want {
				t.Errorf("matchExcerpt(%q) = %q, %v, want %q, %v", tt.line, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestScan_WalksTree(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "nested")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	files := map[string]string{
		filepath.Join(dir, "a.sh"):      "#!/bin/sh\n# deploy --> verify :: gated by CI\necho hi\n",
		filepath.Join(sub, "notes.txt"): "random text\nbuild --> deploy\n",
		filepath.Join(dir, "empty.go"):  "package empty\n",
	}
	for path, content := range files {
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	lines, err := Scan{Paths: []string{dir}}.Lines(context.Background())
	if err != nil {
		t.Fatalf("Lines() error: %v", err)
	}

	found := make(map[string]bool, len(lines))
	for _, l := range lines {
		found[l] = true
	}
	if !found["deploy --> verify :: gated by CI"] {
		t.Errorf("commented edge missing from %v", lines)
	}
	if !found["build --> deploy"] {
		t.Errorf("nested file edge missing from %v", lines)
	}
	if len(lines) != 2 {
		t.Errorf("Lines() = %v, want exactly two excerpts", lines)
	}
}

func TestScan_MissingPath(t *testing.T) {
	_, err := Scan{Paths: []string{filepath.Join(t.TempDir(), "absent")}}.Lines(context.Background())
	if err == nil {
		t.Fatal("Lines() should fail for a missing path")
	}
}

func TestFile_Lines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.txt")
	if err := os.WriteFile(path, []byte("a --> b\r\nb --> c"), 0o644); err != nil {
		t.Fatal(err)
	}

	lines, err := File{Path: path}.Lines(context.Background())
	if err != nil {
		t.Fatalf("Lines() error: %v", err)
	}
	if len(lines) != 2 || lines[0] != "a --> b" || lines[1] != "b --> c" {
		t.Errorf("Lines() = %v", lines)
	}
}

func TestExec_Lines(t *testing.T) {
	lines, err := Exec{Command: "printf 'a --> b\\nb --> c'"}.Lines(context.Background())
	if err != nil {
		t.Fatalf("Lines() error: %v", err)
	}
	if len(lines) != 2 || lines[0] != "a --> b" {
		t.Errorf("Lines() = %v", lines)
	}
}
