package process

// request is one adapter-to-worker message.
type request struct {
	// Op is "run" or "deps".
	Op     string `json:"op"`
	ID     string `json:"id"`
	Source string `json:"source"`
}

const (
	opRun  = "run"
	opDeps = "deps"
)

// event is one worker-to-adapter message.
type event struct {
	// Event is "ready", "stream", "graphic", "result" or "error".
	Event string `json:"event"`
	ID    string `json:"id,omitempty"`

	// stream fields
	Kind string `json:"kind,omitempty"`
	Text string `json:"text,omitempty"`

	// graphic fields
	MIME string `json:"mime,omitempty"`
	Data []byte `json:"data,omitempty"`

	// result / error fields
	Value any    `json:"value,omitempty"`
	Trace string `json:"trace,omitempty"`
}

const (
	eventReady   = "ready"
	eventStream  = "stream"
	eventGraphic = "graphic"
	eventResult  = "result"
	eventError   = "error"
)
