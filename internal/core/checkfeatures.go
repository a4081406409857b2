package core

import (
	"fmt"
	"os"
	"strings"

	"repoint/internal/tomldoc"
)

// FeatureFinding is a dependency that opts out of default features but
// is missing from the std feature list.
type FeatureFinding struct {
	Manifest   string
	Dependency string
}

func (f FeatureFinding) String() string {
	return fmt.Sprintf("%s: %s has `default-features = false` but is not present in feature `std`",
		f.Manifest, f.Dependency)
}

// CheckManifestFeatures audits one manifest for dependencies with
// `default-features = false` that the `std` feature does not re-enable.
func CheckManifestFeatures(path string) ([]FeatureFinding, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := tomldoc.Parse(data)
	if err != nil {
		return nil, err
	}

	var nonDefault []string
	for _, entry := range doc.Entries(func(p []string) bool {
		return len(p) == 1 && p[0] == "dependencies"
	}) {
		dep := entry.KV.Inline()
		if dep == nil {
			continue
		}
		if flag, ok := dep.GetBool("default-features"); ok && !flag {
			nonDefault = append(nonDefault, entry.KV.Key())
		}
	}
	if len(nonDefault) == 0 {
		return nil, nil
	}

	std, ok := doc.Get([]string{"features"}, "std")
	if !ok {
		return nil, fmt.Errorf("no `std` feature in %s", path)
	}
	stdCrates := make(map[string]struct{})
	for _, item := range std.Strings() {
		crate, _, _ := strings.Cut(item, "/")
		stdCrates[crate] = struct{}{}
	}

	var findings []FeatureFinding
	for _, name := range nonDefault {
		if _, ok := stdCrates[name]; !ok {
			findings = append(findings, FeatureFinding{Manifest: path, Dependency: name})
		}
	}
	return findings, nil
}
