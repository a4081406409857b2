package core

import (
	"context"
	"os"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/rs/zerolog/log"

	"repoint/internal/tomldoc"
	"repoint/internal/types"
)

// refFields are the git ref qualifiers cleared before pinning, plus the
// workspace inheritance marker: a dependency inheriting workspace
// defaults cannot carry an explicit ref, so pinning converts it into an
// explicit dependency.
var refFields = []string{"tag", "branch", "rev", "workspace"}

// Rewriter applies one RewriteRequest to manifest files. The zero value
// is not usable; populate Request, and Versions for version targets.
type Rewriter struct {
	Request  types.RewriteRequest
	Excluded map[string]bool
	Versions *VersionResolver
}

// RewriteFile rewrites every matching dependency entry of one manifest
// in place. It returns the entries changed; the file is rewritten only
// if at least one entry changed, so non-matching files keep their exact
// bytes. Per-entry problems (unparseable git URLs, ineligible shapes)
// skip the entry; resolution failures fail the whole file.
func (r Rewriter) RewriteFile(ctx context.Context, path string) ([]types.ChangedEntry, error) {
	assert.NotEmpty(ctx, string(r.Request.Target), "rewrite target must be set")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := tomldoc.Parse(data)
	if err != nil {
		return nil, err
	}
	changed, err := r.rewriteDoc(ctx, doc)
	if err != nil {
		return nil, err
	}
	if len(changed) == 0 {
		return nil, nil
	}
	if err := os.WriteFile(path, doc.Bytes(), 0644); err != nil {
		return nil, err
	}
	return changed, nil
}

func (r Rewriter) rewriteDoc(ctx context.Context, doc *tomldoc.Document) ([]types.ChangedEntry, error) {
	var changed []types.ChangedEntry
	for _, entry := range doc.Entries(isDependencyTable) {
		dep := entry.KV.Inline()
		if dep == nil {
			// Not the single-line inline form; out of scope for
			// mutation.
			continue
		}
		result, err := r.rewriteEntry(ctx, entry.KV.Key(), dep)
		if err != nil {
			return nil, err
		}
		if result != nil {
			changed = append(changed, *result)
		}
	}
	return changed, nil
}

func (r Rewriter) rewriteEntry(ctx context.Context, declared string, dep *tomldoc.InlineTable) (*types.ChangedEntry, error) {
	name := effectiveName(declared, dep)
	if r.Excluded[name] {
		log.Debug().Str("package", name).Msg("skipping excluded package")
		return nil, nil
	}
	if r.Request.ExpectsGitRef() {
		return r.pinRef(declared, name, dep)
	}
	return r.pinVersion(ctx, declared, name, dep)
}

// pinRef applies the pin-to-ref policy: drop stale ref qualifiers,
// optionally rewrite the git remote, then insert exactly one of
// tag/branch/rev.
func (r Rewriter) pinRef(declared string, name string, dep *tomldoc.InlineTable) (*types.ChangedEntry, error) {
	remote, ok := dep.GetString("git")
	if !ok {
		// No git source to repoint.
		return nil, nil
	}
	if _, err := repoBaseName(remote); err != nil {
		log.Debug().Str("package", name).Str("git", remote).Msg("ignoring unparseable git url")
		return nil, nil
	}
	if !matchesFamily(r.Request.Scope, remote) {
		return nil, nil
	}
	if r.Request.NewGit != "" {
		dep.SetString("git", r.Request.NewGit)
	}
	for _, field := range refFields {
		dep.Remove(field)
	}
	dep.SetString(string(r.Request.Target), r.Request.Value)
	log.Debug().Str("package", declared).Str(string(r.Request.Target), r.Request.Value).Msg("pinned")
	return &types.ChangedEntry{Name: declared, Field: string(r.Request.Target), Value: r.Request.Value}, nil
}

// pinVersion applies the pin-to-version policy: resolve a concrete
// version and make the entry a plain registry dependency. Entries with
// no source fields at all gain a fresh version; they were already
// registry-implicit.
func (r Rewriter) pinVersion(ctx context.Context, declared string, name string, dep *tomldoc.InlineTable) (*types.ChangedEntry, error) {
	version, err := r.Versions.Resolve(ctx, name)
	if err != nil {
		return nil, err
	}
	dep.SetString("version", version)
	for _, field := range refFields {
		dep.Remove(field)
	}
	dep.Remove("path")
	dep.Remove("git")
	log.Debug().Str("package", declared).Str("version", version).Msg("pinned")
	return &types.ChangedEntry{Name: declared, Field: "version", Value: version}, nil
}
