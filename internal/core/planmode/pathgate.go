package planmode

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/colonyops/stagehand/internal/host"
)

// WriteGate decides whether a file write is permitted during the planning
// phase. Only paths that resolve strictly inside the plan directory (or
// match an operator-configured extra glob) pass; every resolution failure
// fails closed.
type WriteGate struct {
	root       string
	extraGlobs []string
}

// NewWriteGate creates a gate over the plan artifact directory. extraGlobs
// are doublestar patterns matched against the resolved absolute path.
func NewWriteGate(root string, extraGlobs []string) *WriteGate {
	return &WriteGate{root: root, extraGlobs: extraGlobs}
}

// Check gates one write target.
func (g *WriteGate) Check(target string) host.Decision {
	resolved, err := ResolvePath(target)
	if err != nil {
		return host.Block(fmt.Sprintf("cannot resolve %s: %v", target, err))
	}

	root, err := ResolvePath(g.root)
	if err != nil {
		return host.Block(fmt.Sprintf("cannot resolve plan directory %s: %v", g.root, err))
	}

	rel, err := filepath.Rel(root, resolved)
	if err == nil && rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return host.Allow()
	}

	for _, glob := range g.extraGlobs {
		if ok, globErr := doublestar.Match(glob, resolved); globErr == nil && ok {
			return host.Allow()
		}
	}

	return host.Block(fmt.Sprintf("%s is outside the plan directory; plan mode only writes the plan artifact", target))
}

// ResolvePath fully resolves symlinks on every existing component of path.
// For a path that does not exist yet, the deepest existing ancestor is
// resolved and the remaining segments are reattached, so a fresh file under
// a resolved directory gates correctly while a symlinked escape does not.
//
// A dangling symlink is an error, not an absent path: Lstat sees it, so it
// is treated as existing and its failed resolution blocks the write.
func ResolvePath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	existing := abs
	var rest []string
	for {
		if _, err := os.Lstat(existing); err == nil {
			break
		} else if !os.IsNotExist(err) {
			return "", err
		}

		parent := filepath.Dir(existing)
		if parent == existing {
			break
		}
		rest = append([]string{filepath.Base(existing)}, rest...)
		existing = parent
	}

	resolved, err := filepath.EvalSymlinks(existing)
	if err != nil {
		return "", err
	}

	if len(rest) > 0 {
		resolved = filepath.Join(append([]string{resolved}, rest...)...)
	}
	return filepath.Clean(resolved), nil
}
