package adapters

import (
	"os"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"repoint/internal/types"
)

// YAMLReportAdapter writes the run summary produced by --report.
type YAMLReportAdapter struct{}

func NewYAMLReportAdapter() YAMLReportAdapter {
	return YAMLReportAdapter{}
}

func (a YAMLReportAdapter) Write(path string, report types.RunReport) error {
	data, err := yaml.Marshal(report)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to encode run report").
			WithCause(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write run report").
			WithCause(err)
	}
	return nil
}
