package rules

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strconv"
	"strings"
)

//go:embed data/*.yaml
var embedded embed.FS

// Source provides the raw rule file for a fiscal year.
type Source interface {
	// Open returns the file contents, or an error wrapping ErrRulesNotAvailable.
	Open(year int) ([]byte, error)
	// Years lists the fiscal years the source can serve, ascending.
	Years() ([]int, error)
}

// FSSource reads "<year>.yaml" files from a filesystem.
type FSSource struct {
	FS   fs.FS
	Name string // used in error messages
}

// NewEmbeddedSource serves the rule files compiled into the binary.
func NewEmbeddedSource() *FSSource {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		// the embed pattern guarantees the directory exists
		panic(err)
	}
	return &FSSource{FS: sub, Name: "embedded"}
}

// NewDirSource serves rule files from a directory on disk.
func NewDirSource(dir string) *FSSource {
	return &FSSource{FS: os.DirFS(dir), Name: dir}
}

func (s *FSSource) Open(year int) ([]byte, error) {
	name := fmt.Sprintf("%d.yaml", year)
	data, err := fs.ReadFile(s.FS, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: no rule table for %d in %s", ErrRulesNotAvailable, year, s.Name)
		}
		return nil, fmt.Errorf("failed to read %s from %s: %w", name, s.Name, err)
	}
	return data, nil
}

func (s *FSSource) Years() ([]int, error) {
	matches, err := fs.Glob(s.FS, "*.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to list rule files in %s: %w", s.Name, err)
	}
	years := make([]int, 0, len(matches))
	for _, m := range matches {
		y, err := strconv.Atoi(strings.TrimSuffix(path.Base(m), ".yaml"))
		if err != nil {
			continue
		}
		years = append(years, y)
	}
	sort.Ints(years)
	return years, nil
}
