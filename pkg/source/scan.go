package source

import (
	"bufio"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	gserrors "github.com/graphspec/graphspec/pkg/errors"
)

// Statement-bearing excerpts, matched against every line of every file.
// Order matters: an edge with a comment must win over the bare edge so the
// comment text is kept.
var excerptRes = []*regexp.Regexp{
	regexp.MustCompile(`[^ ]+ --> [^ ,]+ *:: *.*`),             // edge with a comment
	regexp.MustCompile(`\.\.(subgraph|attr|allPaths|ancestors|descendants):.*`), // directive
	regexp.MustCompile(`[^ ]+ --> [^ ,]+`),                     // bare edge
}

// Scan walks a set of paths and extracts only the statement-bearing
// excerpts from every file found. This keeps graph definitions living in
// source trees usable: prose and code around the statements never reaches
// the parser.
type Scan struct {
	Paths []string
}

// Lines walks every path and returns the matched excerpts, one per line.
func (s Scan) Lines(ctx context.Context) ([]string, error) {
	var lines []string
	for _, root := range s.Paths {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if d.IsDir() {
				return nil
			}
			found, err := scanFile(path)
			if err != nil {
				return err
			}
			lines = append(lines, found...)
			return nil
		})
		if err != nil {
			return nil, gserrors.Wrap(gserrors.ErrCodeSource, err, "scan %s", root)
		}
	}
	return lines, nil
}

func scanFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if excerpt, ok := matchExcerpt(scanner.Text()); ok {
			lines = append(lines, excerpt)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// matchExcerpt returns the first matching excerpt of a line.
func matchExcerpt(line string) (string, bool) {
	for _, re := range excerptRes {
		if m := re.FindString(line); m != "" {
			return m, true
		}
	}
	return "", false
}
