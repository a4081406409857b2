package core

import (
	"fmt"
	"os"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"repoint/internal/tomldoc"
	"repoint/internal/types"
)

// ComposePatches inserts or updates a [patch.<target>] entry for each
// package in the root manifest, pointing at the package's local path or
// at a git branch/commit. The whole manifest is re-serialized once
// after all entries are added; an ineligible existing entry aborts the
// run before anything is written.
func ComposePatches(rootManifest string, target types.PatchTarget, packages []types.MemberPackage, pointTo types.PointTo) error {
	data, err := os.ReadFile(rootManifest)
	if err != nil {
		return err
	}
	doc, err := tomldoc.Parse(data)
	if err != nil {
		return err
	}
	tablePath := []string{"patch", target.Name}
	doc.EnsureTable(tablePath)
	for _, pkg := range packages {
		log.Info().Str("package", pkg.Name).Msg("adding patch")
		dir := strings.TrimSuffix(pkg.ManifestDir, "/Cargo.toml")
		if err := patchEntry(doc, tablePath, pkg.Name, dir, pointTo); err != nil {
			return err
		}
	}
	return os.WriteFile(rootManifest, doc.Bytes(), 0644)
}

func patchEntry(doc *tomldoc.Document, tablePath []string, name string, dir string, pointTo types.PointTo) error {
	// An existing expanded [patch.<target>.<name>] table cannot be
	// edited as an inline entry; adding one next to it would declare
	// the key twice.
	entryPath := append(append([]string(nil), tablePath...), name)
	if doc.HasTable(entryPath) {
		return errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("patch entry for %q is not an inline table", name))
	}
	kv, ok := doc.Get(tablePath, name)
	var dep *tomldoc.InlineTable
	if ok {
		dep = kv.Inline()
	}
	if dep == nil {
		doc.Set(tablePath, name, "{}")
		kv, _ = doc.Get(tablePath, name)
		dep = kv.Inline()
	}
	for _, field := range []string{"git", "branch", "rev", "path"} {
		dep.Remove(field)
	}
	switch pointTo.Kind {
	case types.PointToGitBranch:
		dep.SetString("git", pointTo.Repository)
		dep.SetString("branch", pointTo.Ref)
	case types.PointToGitCommit:
		dep.SetString("git", pointTo.Repository)
		dep.SetString("rev", pointTo.Ref)
	default:
		dep.SetString("path", dir)
	}
	return nil
}
