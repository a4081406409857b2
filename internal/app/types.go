package app

import "repoint/internal/types"

// UpdateRequest describes one `update` invocation. Scope, Target and
// Value arrive pre-validated from the CLI flag layer; the app layer
// validates the filesystem and source semantics.
type UpdateRequest struct {
	Path        string
	Scope       types.ScopeKind
	Target      types.TargetKind
	Value       string
	NewGit      string
	ExcludePath string
	ReportPath  string
}

type UpdateResult struct {
	FilesVisited int
	FilesChanged int
	FilesSkipped int
}

type PatchRequest struct {
	Path          string
	CratesToPatch string
	Target        types.PatchTarget
	PointTo       types.PointTo
}

type PatchResult struct {
	RootManifest string
	Patched      int
}

type WorkspacifyRequest struct {
	Path       string
	ReportPath string
}

type WorkspacifyResult struct {
	Packages     int
	FilesChanged int
}

type CheckFeaturesRequest struct {
	Path string
}

type CheckFeaturesResult struct {
	Findings []string
}
