package bot

import (
	"context"
	"errors"
	"fmt"
)

// Button is a single inline button: a label and the payload sent back when pressed.
type Button struct {
	Text string
	Data string
}

// Keyboard is an inline keyboard laid out as rows of buttons.
type Keyboard [][]Button

// Reply is a message body plus the keyboard shown beneath it.
type Reply struct {
	Text     string
	Markdown bool
	Keyboard Keyboard
}

// Messenger is the outbound side of the chat transport.
type Messenger interface {
	Send(ctx context.Context, chatID int64, r Reply) (int, error)
	Edit(ctx context.Context, chatID int64, messageID int, r Reply) error
	Delete(ctx context.Context, chatID int64, messageID int) error
	AnswerCallback(ctx context.Context, callbackID, text string) error
}

// ErrMessageNotModified is returned by Edit when the new content equals the
// current content. The transport rejects such edits; it is not a real failure.
var ErrMessageNotModified = errors.New("message is not modified")

// TransportError wraps a failed call to the chat transport.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
