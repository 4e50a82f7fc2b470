package templates

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/ajitpratap0/rime/pkg/errors"
	"github.com/ajitpratap0/rime/pkg/scene"
)

// Manifest lists the templates of both pool families.
type Manifest struct {
	TypeWell []*scene.Template `yaml:"type_well" json:"type_well"`
	NameWell []*scene.Template `yaml:"name_well" json:"name_well"`
}

// ParseManifest decodes data as JSON when format is "json" and as YAML otherwise.
func ParseManifest(data []byte, format string) (*Manifest, error) {
	var m Manifest
	var err error
	if format == "json" {
		err = json.Unmarshal(data, &m)
	} else {
		err = yaml.Unmarshal(data, &m)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "failed to parse template manifest").
			WithDetail("format", format)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// LoadManifest reads a manifest file; the format follows the file extension.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is supplied by the operator
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to read template manifest").
			WithDetail("path", path)
	}
	format := "yaml"
	if strings.EqualFold(filepath.Ext(path), ".json") {
		format = "json"
	}
	return ParseManifest(data, format)
}

// Validate reports every unnamed or duplicated template.
func (m *Manifest) Validate() error {
	var errs error
	errs = multierr.Append(errs, validateWell(TypeWell, m.TypeWell))
	errs = multierr.Append(errs, validateWell(NameWell, m.NameWell))
	if errs != nil {
		return errors.Wrap(errs, errors.ErrorTypeValidation, "invalid template manifest")
	}
	return nil
}

func validateWell(well string, list []*scene.Template) error {
	var errs error
	seen := make(map[string]bool, len(list))
	for i, t := range list {
		if t == nil || t.Name == "" {
			errs = multierr.Append(errs, fmt.Errorf("%s[%d]: template name is required", well, i))
			continue
		}
		if seen[t.Name] {
			errs = multierr.Append(errs, fmt.Errorf("%s[%d]: duplicate template %q", well, i, t.Name))
		}
		seen[t.Name] = true
	}
	return errs
}

// Apply registers every manifest template at its conventional path
func (m *Manifest) Apply(r *Registry) {
	for _, t := range m.TypeWell {
		r.RegisterType(t.Name, t)
	}
	for _, t := range m.NameWell {
		r.RegisterNamed(t.Name, t)
	}
}
