// Package types holds the request and domain types shared between the
// cli, app and core layers.
package types

// RewriteRequest describes one rewrite operation over a manifest tree.
// It is built once per invocation from validated options and never
// mutated afterwards.
type RewriteRequest struct {
	// Scope decides which dependency entries are in reach.
	Scope ScopeKind
	// Target is the mutation applied to matched entries.
	Target TargetKind
	// Value is the tag, branch, rev or resolved-at-runtime version
	// request, depending on Target.
	Value string
	// NewGit, when non-empty, replaces the git URL of matched entries.
	// Only meaningful for family scopes with a ref target.
	NewGit string
	// VersionSource qualifies Value when Target is TargetVersion.
	VersionSource VersionSourceKind
}

// ExpectsGitRef reports whether the request pins a git reference, as
// opposed to a registry version or a local path.
func (r RewriteRequest) ExpectsGitRef() bool {
	switch r.Target {
	case TargetTag, TargetBranch, TargetRev:
		return true
	default:
		return false
	}
}

// PackageIndex maps package names to the manifest path declaring them.
type PackageIndex map[string]string

// Collision is one duplicated package name found while indexing a tree.
type Collision struct {
	Name  string
	Paths []string
}

// MemberPackage is one member of a cargo workspace, as reported by the
// workspace metadata collaborator.
type MemberPackage struct {
	Name string
	// ManifestDir is the directory containing the member's Cargo.toml.
	ManifestDir string
}

// PatchTarget names the table a patch section is written under, e.g.
// "crates-io" or a git URL.
type PatchTarget struct {
	Name string
}

// PatchTargetCrates is the registry patch target.
func PatchTargetCrates() PatchTarget {
	return PatchTarget{Name: "crates-io"}
}

// PatchTargetGit targets the given repository URL.
func PatchTargetGit(url string) PatchTarget {
	return PatchTarget{Name: url}
}

// PointTo describes where patch entries point.
type PointTo struct {
	Kind PointToKind
	// Repository and Ref are set for the git kinds.
	Repository string
	Ref        string
}

// ChangedEntry records one rewritten dependency entry for reporting.
type ChangedEntry struct {
	Name  string `yaml:"name"`
	Field string `yaml:"field"`
	Value string `yaml:"value"`
}

// FileReport records the entries changed in one manifest.
type FileReport struct {
	Path    string         `yaml:"path"`
	Entries []ChangedEntry `yaml:"entries"`
}

// RunReport is the machine-readable summary written by --report.
type RunReport struct {
	Tool      string       `yaml:"tool"`
	Version   string       `yaml:"version"`
	StartedAt string       `yaml:"started_at"`
	Files     []FileReport `yaml:"files,omitempty"`
}
