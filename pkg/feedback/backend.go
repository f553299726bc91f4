package feedback

import (
	"context"
	"fmt"
)

const systemInstruction = "You are a patient programming tutor embedded in an " +
	"interactive document. A learner just ran a code cell; review the run " +
	"output together with the source and reply with short, concrete feedback."

const rubric = "Feedback rubric: say whether the output looks correct for the " +
	"code, point out the single most important improvement, and keep the " +
	"whole reply under five sentences."

// Message is one chat message of an exchange.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Exchange is one ephemeral request/response pair. No history is kept.
type Exchange struct {
	Messages []Message `json:"messages"`
}

// NewExchange builds the two-message exchange for one run: the fixed system
// instruction plus a user message carrying the runtime output, the source
// text and the fixed rubric.
func NewExchange(output, source string) Exchange {
	user := fmt.Sprintf("The cell produced this output:\n%s\nThe source was:\n%s\n%s",
		output, source, rubric)
	return Exchange{
		Messages: []Message{
			{Role: "system", Content: systemInstruction},
			{Role: "user", Content: user},
		},
	}
}

// Backend submits an exchange and returns the reply text.
type Backend interface {
	// Name identifies the backend in logs and metrics.
	Name() string
	Submit(ctx context.Context, ex Exchange) (string, error)
}

// ShapeError reports a backend response missing the expected fields. The
// pipeline never renders a partial reply on a shape error.
type ShapeError struct {
	Backend string
	Detail  string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s backend returned an unexpected response shape: %s", e.Backend, e.Detail)
}

// chatResponse is the reply envelope both backends share.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (r chatResponse) content(backend string) (string, error) {
	if len(r.Choices) == 0 {
		return "", &ShapeError{Backend: backend, Detail: "missing or empty choices"}
	}
	return r.Choices[0].Message.Content, nil
}
