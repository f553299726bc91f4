package feedback

import "fmt"

// Mode selects which backend protocol the pipeline uses.
type Mode string

const (
	// ModeRemote uses the model-listing chat API.
	ModeRemote Mode = "remote"
	// ModeLocal uses the fixed local endpoint.
	ModeLocal Mode = "local"
)

// Config is the feedback section of the document configuration file.
type Config struct {
	Mode           Mode   `yaml:"mode"`
	BaseURL        string `yaml:"base_url"`
	Credential     string `yaml:"credential"`
	PreferredModel string `yaml:"preferred_model"`
	LocalEndpoint  string `yaml:"local_endpoint"`
}

// Backend builds the configured backend. An empty mode defaults to local, so
// a document without feedback configuration still works against a local
// development server.
func (c Config) Backend() (Backend, error) {
	switch c.Mode {
	case ModeRemote:
		return NewRemote(c.BaseURL, c.Credential,
			WithPreferredModel(c.PreferredModel)), nil
	case ModeLocal, "":
		return NewLocal(WithEndpoint(c.LocalEndpoint)), nil
	default:
		return nil, fmt.Errorf("unknown feedback mode: %q", c.Mode)
	}
}
