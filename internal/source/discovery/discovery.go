// Package discovery locates documentation files eligible for diagram
// extraction, matching glob patterns against slash-normalized paths relative
// to each configured root.
package discovery

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

type Config struct {
	Roots         []string
	Include       []string
	Exclude       []string
	MaxFileSizeKB int
}

// SourceFile is one readable documentation file, content already loaded.
type SourceFile struct {
	Path    string
	Content string
}

type Finder struct {
	roots    []string
	include  []glob.Glob
	exclude  []glob.Glob
	maxBytes int64
}

func NewFinder(cfg Config) (*Finder, error) {
	include := cfg.Include
	if len(include) == 0 {
		include = []string{"**/*.md", "**/*.markdown", "*.md", "*.markdown"}
	}
	exclude := cfg.Exclude
	if len(exclude) == 0 {
		// Both forms: gobwas **/ requires a literal slash, so the bare
		// prefix pattern is needed for directories at the root.
		exclude = []string{"node_modules/**", "**/node_modules/**", ".git/**", "**/.git/**"}
	}
	maxKB := cfg.MaxFileSizeKB
	if maxKB <= 0 {
		maxKB = 1024
	}

	f := &Finder{roots: cfg.Roots, maxBytes: int64(maxKB) * 1024}
	for _, pattern := range include {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("compile include pattern %q: %w", pattern, err)
		}
		f.include = append(f.include, g)
	}
	for _, pattern := range exclude {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("compile exclude pattern %q: %w", pattern, err)
		}
		f.exclude = append(f.exclude, g)
	}
	return f, nil
}

// Find walks every root and returns matching files in sorted path order.
// Unreadable or oversized files become warnings, never a failed discovery.
func (f *Finder) Find() ([]SourceFile, []string, error) {
	var files []SourceFile
	var warnings []string

	for _, root := range f.roots {
		info, err := os.Stat(root)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("skip root %s: %v", root, err))
			continue
		}
		if !info.IsDir() {
			if file, warn := f.load(root, filepath.Base(root)); warn != "" {
				warnings = append(warnings, warn)
			} else if file != nil {
				files = append(files, *file)
			}
			continue
		}

		walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				warnings = append(warnings, fmt.Sprintf("walk %s: %v", path, err))
				return nil
			}
			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				return nil
			}
			rel = filepath.ToSlash(rel)
			if d.IsDir() {
				if f.excluded(rel + "/") {
					return filepath.SkipDir
				}
				return nil
			}
			if !f.matches(rel) {
				return nil
			}
			if file, warn := f.load(path, rel); warn != "" {
				warnings = append(warnings, warn)
			} else if file != nil {
				files = append(files, *file)
			}
			return nil
		})
		if walkErr != nil {
			return nil, warnings, fmt.Errorf("walk root %s: %w", root, walkErr)
		}
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, warnings, nil
}

func (f *Finder) matches(rel string) bool {
	if f.excluded(rel) {
		return false
	}
	for _, g := range f.include {
		if g.Match(rel) {
			return true
		}
	}
	return false
}

func (f *Finder) excluded(rel string) bool {
	for _, g := range f.exclude {
		if g.Match(rel) {
			return true
		}
		// Directory prefixes match patterns like **/.git/** even when the
		// walked path itself has no trailing segment yet.
		if strings.HasSuffix(rel, "/") && g.Match(rel+"x") {
			return true
		}
	}
	return false
}

func (f *Finder) load(path, rel string) (*SourceFile, string) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Sprintf("stat %s: %v", rel, err)
	}
	if info.Size() > f.maxBytes {
		return nil, fmt.Sprintf("skip %s: %d bytes exceeds limit", rel, info.Size())
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Sprintf("read %s: %v", rel, err)
	}
	return &SourceFile{Path: path, Content: string(content)}, ""
}
