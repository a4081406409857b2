package adapters

import (
	"os"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/pelletier/go-toml/v2"
)

type manifestMeta struct {
	Package struct {
		Name string `toml:"name"`
	} `toml:"package"`
}

// PackageName returns the declared package name of a manifest, or ""
// for manifests without a [package] section (virtual workspace roots).
func PackageName(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to read manifest").
			WithCause(err)
	}
	var meta manifestMeta
	if err := toml.Unmarshal(data, &meta); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse manifest").
			WithCause(err)
	}
	return meta.Package.Name, nil
}
