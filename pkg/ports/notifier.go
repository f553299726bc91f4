package ports

// Notifier surfaces user-visible messages from the feedback pipeline.
// Alerts report failures (network, response shape); prompts ask the user to
// act (e.g. store a credential). Implementations must not block.
type Notifier interface {
	Alert(msg string)
	Prompt(msg string)
}
