// Package source fetches the raw text a profile parses. A Source produces
// lines; everything downstream (scanning, model building, rendering) is
// independent of where the text came from.
package source

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"

	gserrors "github.com/graphspec/graphspec/pkg/errors"
)

// Source produces the input lines for one parse invocation.
type Source interface {
	Lines(ctx context.Context) ([]string, error)
}

// File reads a single file.
type File struct {
	Path string
}

// Lines returns the file contents split into lines.
func (s File) Lines(ctx context.Context) ([]string, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, gserrors.Wrap(gserrors.ErrCodeSource, err, "read %s", s.Path)
	}
	return splitLines(data), nil
}

// Exec runs a shell command and captures its stdout. Profiles using Exec
// run arbitrary code; anyone able to edit the profile file controls what
// gets executed.
type Exec struct {
	Command string
}

// Lines runs the command and returns its stdout split into lines.
func (s Exec) Lines(ctx context.Context) ([]string, error) {
	cmd := exec.CommandContext(ctx, "sh", "-c", s.Command)
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return nil, gserrors.Wrap(gserrors.ErrCodeSource, err, "run %q", s.Command)
	}
	return splitLines(out.Bytes()), nil
}

func splitLines(data []byte) []string {
	return strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
}
