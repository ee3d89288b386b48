package fs

import (
	"path"
	"strings"

	"github.com/gobwas/glob"
	"go.trai.ch/mint/internal/core/domain"
	"go.trai.ch/zerr"
)

// pattern is one compiled entry of an ordered pattern list.
type pattern struct {
	raw     string
	negate  bool
	literal string
	globs   []glob.Glob
}

func compilePatterns(patterns []string) ([]pattern, error) {
	compiled := make([]pattern, 0, len(patterns))
	for _, raw := range patterns {
		p, err := compilePattern(raw)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, p)
	}
	return compiled, nil
}

func compilePattern(raw string) (pattern, error) {
	p := pattern{raw: raw}
	expr := raw
	if rest, ok := strings.CutPrefix(expr, "!"); ok {
		p.negate = true
		expr = rest
	}
	expr = normalize(expr)
	if expr == "" {
		return pattern{}, zerr.With(domain.ErrInvalidPattern, "pattern", raw)
	}
	if expr == ".." || strings.HasPrefix(expr, "../") || path.IsAbs(expr) {
		return pattern{}, zerr.With(domain.ErrPatternOutsideRoot, "pattern", raw)
	}

	if !hasMeta(expr) {
		p.literal = expr
		return p, nil
	}

	for _, variant := range globstarVariants(expr) {
		g, err := glob.Compile(variant, '/')
		if err != nil {
			return pattern{}, zerr.With(zerr.Wrap(err, domain.ErrInvalidPattern.Error()), "pattern", raw)
		}
		p.globs = append(p.globs, g)
	}
	return p, nil
}

// match reports whether the slash-separated relative path rel is selected.
// A literal pattern selects the path itself and everything below it.
func (p pattern) match(rel string) bool {
	if p.literal != "" {
		return rel == p.literal || strings.HasPrefix(rel, p.literal+"/")
	}
	for _, g := range p.globs {
		if g.Match(rel) {
			return true
		}
	}
	return false
}

func normalize(expr string) string {
	expr = strings.ReplaceAll(expr, "\\", "/")
	expr = strings.TrimPrefix(expr, "./")
	if expr == "" {
		return ""
	}
	cleaned := path.Clean(expr)
	if cleaned == "." {
		return ""
	}
	return cleaned
}

func hasMeta(expr string) bool {
	return strings.ContainsAny(expr, "*?[{")
}

// globstarVariants returns expr plus every form with one or more "**/"
// segments removed, so "js/**/*.js" also selects files directly in js/.
func globstarVariants(expr string) []string {
	seen := map[string]bool{expr: true}
	queue := []string{expr}
	for i := 0; i < len(queue); i++ {
		cur := queue[i]
		for idx := 0; ; {
			off := strings.Index(cur[idx:], "**/")
			if off < 0 {
				break
			}
			at := idx + off
			if at == 0 || cur[at-1] == '/' {
				next := cur[:at] + cur[at+3:]
				if !seen[next] {
					seen[next] = true
					queue = append(queue, next)
				}
			}
			idx = at + 3
		}
	}
	return queue
}
