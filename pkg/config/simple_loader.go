package config

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ajitpratap0/rime/pkg/errors"
)

// Load decodes a YAML file into out after ${VAR} substitution.
// Fields absent from the file keep the value already held by out.
func Load(filePath string, out interface{}) error {
	data, err := os.ReadFile(filePath) //nolint:gosec // G304: path is supplied by the operator
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to read config file").
			WithDetail("path", filePath)
	}

	content := substituteEnvVars(string(data))

	if err := yaml.Unmarshal([]byte(content), out); err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "failed to parse YAML").
			WithDetail("path", filePath)
	}

	return nil
}

// LoadConfig reads filePath on top of NewConfig defaults and validates the result.
func LoadConfig(filePath string) (*Config, error) {
	cfg := NewConfig("rime")
	if err := Load(filePath, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes a configuration to a YAML file
func Save(filePath string, in interface{}) error {
	data, err := yaml.Marshal(in)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "failed to marshal YAML")
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil { //nolint:gosec
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to write config file").
			WithDetail("path", filePath)
	}

	return nil
}

// substituteEnvVars replaces ${VAR_NAME} with environment variable values
func substituteEnvVars(content string) string {
	var b strings.Builder
	b.Grow(len(content))
	for {
		start := strings.Index(content, "${")
		if start == -1 {
			break
		}
		end := strings.Index(content[start:], "}")
		if end == -1 {
			break
		}
		end += start

		b.WriteString(content[:start])
		b.WriteString(os.Getenv(content[start+2 : end]))
		content = content[end+1:]
	}
	b.WriteString(content)
	return b.String()
}
