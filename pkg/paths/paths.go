package paths

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/snipsync/pkg/errors"
)

// Environment variable names
const (
	// EnvWorkspace overrides workspace discovery
	EnvWorkspace = "SNIPSYNC_WORKSPACE"
)

// Default directories and files
const (
	// AppName is used for XDG directories
	AppName = "snipsync"

	// ConfigFileName is the workspace configuration file
	ConfigFileName = ".snipsync.toml"

	// DefaultSnippetRoot is where references are resolved, relative to the
	// workspace root
	DefaultSnippetRoot = "codesnippets/src"
)

// Paths holds the resolved workspace layout.
type Paths struct {
	workspace    string
	snippetRoot  string
	usedFallback bool
}

// New discovers the workspace. An empty workspace argument triggers
// discovery starting from the current directory.
func New(workspace string) (*Paths, error) {
	p := &Paths{snippetRoot: DefaultSnippetRoot}

	if workspace == "" {
		root, usedFallback, err := findWorkspaceRoot()
		if err != nil {
			return nil, err
		}
		workspace = root
		p.usedFallback = usedFallback
	}

	abs, err := filepath.Abs(expandHome(workspace))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrWorkspace, "failed to get absolute path for workspace %s", workspace)
	}
	p.workspace = abs
	return p, nil
}

// WithSnippetRoot returns a copy resolving references against root. A
// relative root is taken relative to the workspace.
func (p *Paths) WithSnippetRoot(root string) *Paths {
	cp := *p
	if root != "" {
		cp.snippetRoot = root
	}
	return &cp
}

// Workspace returns the absolute workspace root.
func (p *Paths) Workspace() string { return p.workspace }

// UsedFallback reports whether the current directory was used because no
// better root was found.
func (p *Paths) UsedFallback() bool { return p.usedFallback }

// SnippetRoot returns the absolute directory references are resolved in.
func (p *Paths) SnippetRoot() string {
	if filepath.IsAbs(p.snippetRoot) {
		return filepath.Clean(p.snippetRoot)
	}
	return filepath.Join(p.workspace, p.snippetRoot)
}

// RootHint returns the snippet root as configured, for messages.
func (p *Paths) RootHint() string {
	return filepath.ToSlash(p.snippetRoot)
}

// Resolve maps a snippetPath reference to an absolute path. Absolute
// references are used as they are.
func (p *Paths) Resolve(ref string) string {
	if filepath.IsAbs(ref) {
		return filepath.Clean(ref)
	}
	return filepath.Join(p.SnippetRoot(), filepath.FromSlash(ref))
}

// ConfigPath returns the workspace configuration file path.
func (p *Paths) ConfigPath() string {
	return filepath.Join(p.workspace, ConfigFileName)
}

// Abs makes path absolute against the workspace root.
func (p *Paths) Abs(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(p.workspace, path)
}

// Rel returns path relative to the workspace when it lies inside it.
func (p *Paths) Rel(path string) string {
	rel, err := filepath.Rel(p.workspace, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}

// StateDir returns the XDG state directory for snipsync.
func StateDir() string {
	return filepath.Join(xdg.StateHome, AppName)
}

// findWorkspaceRoot returns the workspace root and whether the current
// directory was used as a fallback.
func findWorkspaceRoot() (string, bool, error) {
	if root := os.Getenv(EnvWorkspace); root != "" {
		return root, false, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", false, errors.Wrap(err, errors.ErrWorkspace, "failed to get current directory")
	}

	if root, ok := findConfigRoot(cwd); ok {
		return root, false, nil
	}

	if gitRoot, err := findGitRoot(); err == nil && gitRoot != "" {
		return gitRoot, false, nil
	}

	return cwd, true, nil
}

// findConfigRoot walks up from dir looking for a configuration file.
func findConfigRoot(dir string) (string, bool) {
	for {
		if _, err := os.Stat(filepath.Join(dir, ConfigFileName)); err == nil {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// findGitRoot attempts to find the root of the current git repository
func findGitRoot() (string, error) {
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	output, err := cmd.Output()
	if err != nil {
		return "", errors.Wrap(err, errors.ErrNotFound, "not inside a git repository")
	}

	gitRoot := strings.TrimSpace(string(output))
	if gitRoot == "" {
		return "", errors.New(errors.ErrNotFound, "git root is empty")
	}
	return gitRoot, nil
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
