package adapters

import (
	"os"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/pelletier/go-toml/v2"
)

// excludeMarker is the top-level key prefix identifying exclusion
// tables in the side-manifest.
const excludeMarker = "diener_exclude"

// LoadExclusions reads the optional exclusion side-manifest. Tables
// whose key contains the exclusion marker list packages to skip; an
// entry may carry an explicit `package =` override naming the real
// package.
func LoadExclusions(path string) (map[string]bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("failed to open exclude file").
			WithCause(err)
	}
	var decoded map[string]map[string]any
	if err := toml.Unmarshal(data, &decoded); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse exclude file").
			WithCause(err)
	}
	excluded := make(map[string]bool)
	for tableKey, table := range decoded {
		if !strings.Contains(tableKey, excludeMarker) {
			continue
		}
		for name, value := range table {
			entry, ok := value.(map[string]any)
			if !ok {
				continue
			}
			if override, ok := entry["package"].(string); ok && override != "" {
				name = override
			}
			excluded[name] = true
		}
	}
	return excluded, nil
}
