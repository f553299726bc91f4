package scriptcell

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/scriptcell/scriptcell/pkg/adapters/process"
	"github.com/scriptcell/scriptcell/pkg/feedback"
)

const configFileName = "scriptcell.yaml"

// Config is the document-level configuration, read from scriptcell.yaml in
// the document directory.
type Config struct {
	Interpreter process.Config  `yaml:"interpreter"`
	Feedback    feedback.Config `yaml:"feedback"`
}

// LoadConfig reads the configuration file from the given directory. A
// missing file yields the zero configuration, not an error.
func LoadConfig(dir string) (Config, error) {
	var cfg Config
	if dir == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(filepath.Join(dir, configFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading %s: %w", configFileName, err)
	}

	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", configFileName, err)
	}
	return cfg, nil
}
