package process

// Config is the interpreter section of the document configuration file.
type Config struct {
	// Command starts the worker, e.g. "python3".
	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`
	// Dir is the worker's working directory; empty inherits the host's.
	Dir string `yaml:"dir"`
}
