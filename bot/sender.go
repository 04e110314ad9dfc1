package bot

import "context"

// Keyboard is a fixed-choice reply selector: rows of button labels.
type Keyboard [][]string

// SendOptions carries presentation hints alongside a reply. A nil Keyboard
// leaves whatever selector the transport currently shows.
type SendOptions struct {
	Keyboard Keyboard
	Markdown bool
}

// Sender is the presentation boundary. The core never depends on delivery
// confirmation; a failed send is logged and the conversation proceeds.
type Sender interface {
	Send(ctx context.Context, chatKey, text string, opts SendOptions) error
}
