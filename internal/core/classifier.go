// Package core implements the manifest rewriting engine: dependency
// classification, the rewrite policies, version resolution, workspace
// unification and the patch section composer.
package core

import (
	"fmt"
	"net/url"
	"strings"

	"repoint/internal/tomldoc"
	"repoint/internal/types"
)

// repoBaseName extracts the repository name from a git remote URL.
// Both transport URLs (https://host/org/repo.git) and scp-like remotes
// (git@host:org/repo.git) are understood.
func repoBaseName(remote string) (string, error) {
	path := remote
	if strings.Contains(remote, "://") {
		parsed, err := url.Parse(remote)
		if err != nil {
			return "", fmt.Errorf("invalid git url %q: %w", remote, err)
		}
		path = parsed.Path
	} else if at := strings.IndexByte(remote, '@'); at >= 0 {
		colon := strings.IndexByte(remote[at:], ':')
		if colon < 0 {
			return "", fmt.Errorf("invalid git remote %q", remote)
		}
		path = remote[at+colon+1:]
	}
	path = strings.TrimSuffix(strings.TrimRight(path, "/"), ".git")
	base := path
	if idx := strings.LastIndexByte(path, '/'); idx >= 0 {
		base = path[idx+1:]
	}
	if base == "" {
		return "", fmt.Errorf("git remote %q has no repository name", remote)
	}
	return base, nil
}

// effectiveName returns the package a dependency entry refers to: the
// explicit `package` alias if present, else the declared key.
func effectiveName(declared string, dep *tomldoc.InlineTable) string {
	if pkg, ok := dep.GetString("package"); ok && pkg != "" {
		return pkg
	}
	return declared
}

// matchesFamily reports whether a git remote belongs to the scope's
// repository family. ScopeAll matches any remote.
func matchesFamily(scope types.ScopeKind, remote string) bool {
	if scope == types.ScopeAll {
		return true
	}
	base, err := repoBaseName(remote)
	if err != nil {
		return false
	}
	return base == scope.RepoName()
}

// isDependencyTable reports whether a table path addresses direct
// dependency declarations ([dependencies], [dev-dependencies],
// [workspace.dependencies], [target.X.dependencies], ...). Only the
// last segment counts: fields inside an expanded per-dependency table
// like [dependencies.foo] are not dependency entries themselves.
func isDependencyTable(path []string) bool {
	if len(path) == 0 {
		return false
	}
	return strings.Contains(path[len(path)-1], "dependencies")
}
