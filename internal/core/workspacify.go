package core

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"repoint/internal/tomldoc"
	"repoint/internal/types"
)

// depFieldRank is the canonical field order for collapsed path
// dependencies, for readability and diff stability.
func depFieldRank(field string) int {
	switch field {
	case "package":
		return 0
	case "git", "path":
		return 10
	case "version", "branch", "tag":
		return 30
	case "default-features":
		return 40
	case "features":
		return 50
	case "optional":
		return 60
	default:
		return 100
	}
}

// BuildPackageIndex maps every package name declared in the given
// manifests to its manifest path. All collisions are collected so a
// failed run reports every duplicate, not just the first.
func BuildPackageIndex(manifests []string, nameOf func(path string) (string, error)) (types.PackageIndex, []types.Collision, error) {
	index := types.PackageIndex{}
	paths := map[string][]string{}
	for _, manifest := range manifests {
		name, err := nameOf(manifest)
		if err != nil {
			return nil, nil, err
		}
		if name == "" {
			// Virtual manifests (workspace roots) declare no package.
			continue
		}
		index[name] = manifest
		paths[name] = append(paths[name], manifest)
	}
	var collisions []types.Collision
	for name, declared := range paths {
		if len(declared) > 1 {
			sort.Strings(declared)
			collisions = append(collisions, types.Collision{Name: name, Paths: declared})
		}
	}
	sort.Slice(collisions, func(i, j int) bool { return collisions[i].Name < collisions[j].Name })
	return index, collisions, nil
}

// CollisionError renders duplicate package names as a precondition
// failure.
func CollisionError(collisions []types.Collision) error {
	var parts []string
	for _, c := range collisions {
		parts = append(parts, fmt.Sprintf("%s (%s)", c.Name, strings.Join(c.Paths, ", ")))
	}
	return errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg("duplicate packages detected: " + strings.Join(parts, "; "))
}

// UpdateWorkspaceMembers rewrites (or creates) the root manifest's
// workspace member list: every package directory relative to the root,
// sorted by manifest path, one per line.
func UpdateWorkspaceMembers(root string, index types.PackageIndex) error {
	manifests := make([]string, 0, len(index))
	for _, path := range index {
		manifests = append(manifests, path)
	}
	sort.Strings(manifests)

	var members []string
	for _, manifest := range manifests {
		rel, err := filepath.Rel(root, filepath.Dir(manifest))
		if err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg(fmt.Sprintf("cannot make %q relative to workspace root", manifest)).
				WithCause(err)
		}
		if rel == "." {
			// The root package is implicit in its own workspace.
			continue
		}
		members = append(members, filepath.ToSlash(rel))
	}

	rootManifest := filepath.Join(root, "Cargo.toml")
	content, err := os.ReadFile(rootManifest)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	doc, err := tomldoc.Parse(content)
	if err != nil {
		return err
	}
	doc.Set([]string{"workspace"}, "members", renderMemberArray(members))
	return os.WriteFile(rootManifest, doc.Bytes(), 0644)
}

func renderMemberArray(members []string) string {
	var b strings.Builder
	b.WriteString("[")
	for _, member := range members {
		b.WriteString("\n\t")
		b.WriteString(tomldoc.Quote(member))
		b.WriteString(",")
	}
	b.WriteString("\n]")
	return b.String()
}

// CollapseManifest rewrites every dependency on a workspace-internal
// package into a path dependency relative to the manifest's directory,
// and sorts the entry's fields into canonical order. External
// dependencies are left untouched.
func CollapseManifest(path string, index types.PackageIndex) ([]types.ChangedEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := tomldoc.Parse(data)
	if err != nil {
		return nil, err
	}
	var changed []types.ChangedEntry
	for _, entry := range doc.Entries(isDependencyTable) {
		dep := entry.KV.Inline()
		if dep == nil {
			continue
		}
		name := effectiveName(entry.KV.Key(), dep)
		target, ok := index[name]
		if !ok {
			continue
		}
		rel, err := filepath.Rel(filepath.Dir(path), filepath.Dir(target))
		if err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg(fmt.Sprintf("cannot make %q relative to %q", target, path)).
				WithCause(err)
		}
		rel = filepath.ToSlash(rel)
		dep.Remove("git")
		dep.Remove("branch")
		dep.Remove("version")
		dep.Remove("workspace")
		dep.SetString("path", rel)
		dep.SortKeys(depFieldRank)
		changed = append(changed, types.ChangedEntry{Name: entry.KV.Key(), Field: "path", Value: rel})
	}
	if len(changed) == 0 {
		return nil, nil
	}
	log.Debug().Str("manifest", path).Int("entries", len(changed)).Msg("collapsed to path dependencies")
	if err := os.WriteFile(path, doc.Bytes(), 0644); err != nil {
		return nil, err
	}
	return changed, nil
}
