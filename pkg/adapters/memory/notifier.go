package memory

import "sync"

// Notifier records alerts and prompts for inspection in tests.
type Notifier struct {
	mu      sync.Mutex
	alerts  []string
	prompts []string
}

// NewNotifier creates an empty recording notifier.
func NewNotifier() *Notifier {
	return &Notifier{}
}

// Alert records a failure message.
func (n *Notifier) Alert(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alerts = append(n.alerts, msg)
}

// Prompt records a call-to-action message.
func (n *Notifier) Prompt(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.prompts = append(n.prompts, msg)
}

// Alerts returns the recorded failure messages.
func (n *Notifier) Alerts() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string{}, n.alerts...)
}

// Prompts returns the recorded call-to-action messages.
func (n *Notifier) Prompts() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string{}, n.prompts...)
}
