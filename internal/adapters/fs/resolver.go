package fs

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"go.trai.ch/mint/internal/core/domain"
	"go.trai.ch/mint/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.InputResolver = (*Resolver)(nil)

// Resolver implements ports.InputResolver with gobwas/glob patterns matched
// against a walk of the project tree.
type Resolver struct {
	walker *Walker
}

// NewResolver creates a new Resolver.
func NewResolver(walker *Walker) *Resolver {
	return &Resolver{walker: walker}
}

// ResolveInputs resolves cache input patterns to sorted, deduplicated absolute paths.
// Directories are returned as-is and hashed recursively by the Hasher.
func (r *Resolver) ResolveInputs(inputs []string, root string) ([]string, error) {
	compiled, err := compilePatterns(inputs)
	if err != nil {
		return nil, err
	}

	var files []string
	unique := make(map[string]bool)

	for _, p := range compiled {
		if p.negate {
			return nil, zerr.With(domain.ErrInvalidPattern, "pattern", p.raw)
		}

		if p.literal != "" {
			abs := filepath.Join(root, filepath.FromSlash(p.literal))
			if _, statErr := os.Stat(abs); statErr != nil {
				return nil, zerr.With(domain.ErrInputNotFound, "path", abs)
			}
			unique[abs] = true
			continue
		}

		if files == nil {
			if files, err = r.relativeFiles(root); err != nil {
				return nil, err
			}
		}
		found := false
		for _, rel := range files {
			if p.match(rel) {
				unique[filepath.Join(root, filepath.FromSlash(rel))] = true
				found = true
			}
		}
		if !found {
			return nil, zerr.With(domain.ErrInputNotFound, "pattern", p.raw)
		}
	}

	result := make([]string, 0, len(unique))
	for path := range unique {
		result = append(result, path)
	}
	slices.Sort(result)
	return result, nil
}

// Expand resolves ordered patterns to root-relative, slash-separated file paths.
// A literal pattern naming a file that does not exist is an error; a glob that
// matches nothing contributes nothing.
func (r *Resolver) Expand(patterns []string, root string) ([]string, error) {
	compiled, err := compilePatterns(patterns)
	if err != nil {
		return nil, err
	}

	var files []string
	var result []string
	selected := make(map[string]bool)

	for _, p := range compiled {
		var matches []string

		switch {
		case p.literal != "" && !p.negate:
			abs := filepath.Join(root, filepath.FromSlash(p.literal))
			info, statErr := os.Stat(abs)
			if statErr != nil {
				if errors.Is(statErr, fs.ErrNotExist) {
					return nil, zerr.With(domain.ErrInputNotFound, "path", p.literal)
				}
				return nil, zerr.With(zerr.Wrap(statErr, domain.ErrPathStatFailed.Error()), "path", abs)
			}
			if !info.IsDir() {
				matches = []string{p.literal}
				break
			}
			fallthrough
		default:
			if files == nil {
				if files, err = r.relativeFiles(root); err != nil {
					return nil, err
				}
			}
			for _, rel := range files {
				if p.match(rel) {
					matches = append(matches, rel)
				}
			}
		}

		if p.negate {
			for _, m := range matches {
				delete(selected, m)
			}
			result = slices.DeleteFunc(result, func(rel string) bool { return !selected[rel] })
			continue
		}

		for _, m := range matches {
			if _, seen := selected[m]; seen {
				continue
			}
			selected[m] = true
			result = append(result, m)
		}
	}

	return result, nil
}

// ExpandMapping is Expand with every result paired to destRoot.
func (r *Resolver) ExpandMapping(patterns []string, destRoot, root string) ([]domain.FileMapping, error) {
	files, err := r.Expand(patterns, root)
	if err != nil {
		return nil, err
	}
	mappings := make([]domain.FileMapping, 0, len(files))
	for _, f := range files {
		mappings = append(mappings, domain.FileMapping{Source: f, DestRoot: destRoot})
	}
	return mappings, nil
}

// Match reports whether the root-relative path rel is selected by patterns.
// Later patterns override earlier ones.
func (r *Resolver) Match(patterns []string, rel string) (bool, error) {
	compiled, err := compilePatterns(patterns)
	if err != nil {
		return false, err
	}
	return selects(compiled, filepath.ToSlash(rel)), nil
}

// relativeFiles lists every file below root as a sorted, slash-separated
// relative path. A failed walk returns no files at all.
func (r *Resolver) relativeFiles(root string) ([]string, error) {
	files := []string{}
	for path, err := range r.walker.WalkFiles(root) {
		if err != nil {
			return nil, err
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil, zerr.With(zerr.Wrap(relErr, domain.ErrFailedToResolveRelativePath.Error()), "path", path)
		}
		files = append(files, filepath.ToSlash(rel))
	}
	slices.Sort(files)
	return files, nil
}
