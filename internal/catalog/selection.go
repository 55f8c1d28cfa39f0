package catalog

import (
	"os"
	"slices"
	"strings"

	"github.com/brizzai/auto-jira/internal/logger"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// PathSelection keeps the listed methods of one path.
type PathSelection struct {
	Path    string   `yaml:"path"`
	Methods []string `yaml:"methods"`
}

// DescriptionOverride replaces the description of one route.
type DescriptionOverride struct {
	Path        string `yaml:"path"`
	Method      string `yaml:"method"`
	Description string `yaml:"description"`
}

// SelectionFile is the YAML layout of a selection file.
type SelectionFile struct {
	Routes       []PathSelection       `yaml:"routes,omitempty"`
	Operations   []string              `yaml:"operations,omitempty"`
	Descriptions []DescriptionOverride `yaml:"descriptions,omitempty"`
}

// Selection filters the routes a catalog exposes and overrides their
// descriptions. An empty selection keeps everything.
type Selection struct {
	file SelectionFile
}

// NewSelection creates a selection that keeps every route.
func NewSelection() *Selection {
	return &Selection{}
}

// Load reads a selection file. A missing file leaves the selection empty.
func (s *Selection) Load(filePath string) error {
	if filePath == "" {
		return nil
	}

	logger.Info("Loading route selection", zap.String("file", filePath))
	data, err := os.ReadFile(filePath)
	if os.IsNotExist(err) {
		logger.Warn("Selection file not found, exposing all routes", zap.String("file", filePath))
		return nil
	}
	if err != nil {
		return err
	}
	return s.Parse(data)
}

// Parse replaces the selection with a YAML document.
func (s *Selection) Parse(data []byte) error {
	var file SelectionFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return err
	}
	s.file = file
	return nil
}

// Includes reports whether a route is selected. Path selections and operation
// ids are alternatives: matching either keeps the route.
func (s *Selection) Includes(route *Route) bool {
	if len(s.file.Routes) == 0 && len(s.file.Operations) == 0 {
		return true
	}
	if slices.Contains(s.file.Operations, route.OperationID) {
		return true
	}
	for _, sel := range s.file.Routes {
		if sel.Path != route.Path {
			continue
		}
		for _, m := range sel.Methods {
			if strings.EqualFold(m, route.Method) {
				return true
			}
		}
	}
	return false
}

// Description returns the overridden description for path and method, or original.
func (s *Selection) Description(path, method, original string) string {
	for _, d := range s.file.Descriptions {
		if d.Path == path && strings.EqualFold(d.Method, method) {
			return d.Description
		}
	}
	return original
}
