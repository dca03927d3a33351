package authclient

import (
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// Polarity tags a message list for the UI: positive for confirmations,
// negative for failures.
type Polarity string

const (
	PolarityPositive Polarity = "positive"
	PolarityNegative Polarity = "negative"
)

// Message is the inline message list auth forms render. ID gives list
// renderers a stable key.
type Message struct {
	ID       string   `json:"id"`
	Texts    []string `json:"texts"`
	Polarity Polarity `json:"polarity"`
}

func NewMessage(polarity Polarity, texts ...string) Message {
	return Message{
		ID:       uuid.NewString(),
		Texts:    texts,
		Polarity: polarity,
	}
}

// MessageFromError renders a negative message from a gateway or validation
// error. Backend detail lines travel in the rich error's metadata; when
// present they replace the generic message.
func MessageFromError(err error) Message {
	if err == nil {
		return NewMessage(PolarityNegative, "An unexpected error occurred.")
	}

	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return NewMessage(PolarityNegative, err.Error())
	}

	if details, ok := richErr.Metadata["details"]; ok {
		switch d := details.(type) {
		case []string:
			if len(d) > 0 {
				return NewMessage(PolarityNegative, d...)
			}
		case string:
			if d != "" {
				return NewMessage(PolarityNegative, d)
			}
		}
	}

	return NewMessage(PolarityNegative, richErr.Message)
}
