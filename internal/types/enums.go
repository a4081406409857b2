package types

// ScopeKind selects which dependency entries a rewrite applies to.
type ScopeKind string

const (
	ScopeAll       ScopeKind = "all"
	ScopeSubstrate ScopeKind = "substrate"
	ScopePolkadot  ScopeKind = "polkadot"
	ScopeCumulus   ScopeKind = "cumulus"
	ScopeBeefy     ScopeKind = "beefy"
)

// RepoName returns the git repository base-name a family scope matches
// against. ScopeAll matches regardless of repository.
func (s ScopeKind) RepoName() string {
	switch s {
	case ScopeSubstrate:
		return "substrate"
	case ScopePolkadot:
		return "polkadot"
	case ScopeCumulus:
		return "cumulus"
	case ScopeBeefy:
		return "grandpa-bridge-gadget"
	default:
		return ""
	}
}

// TargetKind is the mutation a rewrite applies to matched entries.
type TargetKind string

const (
	TargetTag     TargetKind = "tag"
	TargetBranch  TargetKind = "branch"
	TargetRev     TargetKind = "rev"
	TargetVersion TargetKind = "version"
	TargetPath    TargetKind = "path"
)

// VersionSourceKind is where pin-to-version rewrites resolve versions from.
type VersionSourceKind string

const (
	VersionSourceRegistry VersionSourceKind = "registry"
	VersionSourceURL      VersionSourceKind = "url"
	VersionSourceFile     VersionSourceKind = "file"
)

// PointToKind is where a patch section entry points.
type PointToKind string

const (
	PointToPath      PointToKind = "path"
	PointToGitBranch PointToKind = "git-branch"
	PointToGitCommit PointToKind = "git-commit"
)
