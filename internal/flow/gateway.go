package flow

import (
	"context"
	"io"

	"bazarbot/internal/session"
)

// Event is one inbound chat update, already stripped of transport
// details. Exactly one of Text, Callback, Attachment carries the
// payload; Text may be empty on bare media messages.
type Event struct {
	UserID     int64
	Text       string
	Callback   *Callback
	Attachment *Attachment
}

// Callback is a pressed inline button, split into the button key and
// its payload (usually a numeric id, may be empty).
type Callback struct {
	Key     string
	Payload string
}

// Attachment references an inbound media file on the chat platform.
// Bytes are fetched lazily through Gateway.Download.
type Attachment struct {
	Ref         string
	Kind        session.MediaKind
	Filename    string
	ContentType string
}

// Button is one keyboard button. A non-empty Key makes it an inline
// callback button; otherwise it is a plain reply button.
type Button struct {
	Text    string
	Key     string
	Payload string
}

// Keyboard is a transport-neutral keyboard layout.
type Keyboard struct {
	Inline bool
	Rows   [][]Button
}

// ReplyMenu builds a reply keyboard, one row per argument.
func ReplyMenu(rows ...[]string) *Keyboard {
	kb := &Keyboard{}
	for _, row := range rows {
		btns := make([]Button, 0, len(row))
		for _, text := range row {
			btns = append(btns, Button{Text: text})
		}
		kb.Rows = append(kb.Rows, btns)
	}
	return kb
}

// InlineRows builds an inline keyboard from prebuilt button rows.
func InlineRows(rows ...[]Button) *Keyboard {
	return &Keyboard{Inline: true, Rows: rows}
}

// Gateway sends outbound messages and fetches attachment bytes. Every
// call blocks until the platform acknowledges delivery; the engine
// never advances state on an unconfirmed send.
type Gateway interface {
	SendText(ctx context.Context, userID int64, text string, kb *Keyboard) error
	SendMediaGroup(ctx context.Context, userID int64, urls []string, caption string) error
	Download(ctx context.Context, ref string) (io.ReadCloser, error)
}
