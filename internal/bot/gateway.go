// Package bot binds the conversation engine to the Telegram transport:
// it translates telebot updates into engine events and implements the
// outbound gateway over the bot API.
package bot

import (
	"context"
	"io"
	"strings"

	tele "gopkg.in/telebot.v4"

	"bazarbot/core/telegram/keyboard"
	"bazarbot/core/telegram/sender"
	"bazarbot/internal/flow"
)

// Gateway implements flow.Gateway on top of a telebot instance.
// Outbound calls go through the retrying sender, so the engine only
// sees a result after the platform acknowledged or gave up.
type Gateway struct {
	bot    *tele.Bot
	sender *sender.Sender
}

// NewGateway returns an unbound gateway. Bind must be called with the
// running bot before the poller delivers the first update.
func NewGateway(s *sender.Sender) *Gateway {
	return &Gateway{sender: s}
}

// Bind attaches the bot instance created by the transport runtime.
func (g *Gateway) Bind(b *tele.Bot) { g.bot = b }

var _ flow.Gateway = (*Gateway)(nil)

func (g *Gateway) SendText(ctx context.Context, userID int64, text string, kb *flow.Keyboard) error {
	to := &tele.User{ID: userID}
	markup := toMarkup(kb)
	return g.sender.Do(ctx, "send_text", func() error {
		var err error
		if markup != nil {
			_, err = g.bot.Send(to, text, markup)
		} else {
			_, err = g.bot.Send(to, text)
		}
		return err
	})
}

func (g *Gateway) SendMediaGroup(ctx context.Context, userID int64, urls []string, caption string) error {
	to := &tele.User{ID: userID}
	album := make(tele.Album, 0, len(urls))
	for i, url := range urls {
		var item tele.Inputtable
		if isVideoURL(url) {
			v := &tele.Video{File: tele.FromURL(url)}
			if i == 0 {
				v.Caption = caption
			}
			item = v
		} else {
			p := &tele.Photo{File: tele.FromURL(url)}
			if i == 0 {
				p.Caption = caption
			}
			item = p
		}
		album = append(album, item)
	}
	return g.sender.Do(ctx, "send_album", func() error {
		_, err := g.bot.SendAlbum(to, album)
		return err
	})
}

func (g *Gateway) Download(ctx context.Context, ref string) (io.ReadCloser, error) {
	var rc io.ReadCloser
	err := g.sender.Do(ctx, "download_file", func() error {
		var err error
		rc, err = g.bot.File(&tele.File{FileID: ref})
		return err
	})
	if err != nil {
		return nil, err
	}
	return rc, nil
}

// toMarkup converts the engine's transport-neutral keyboard into a
// telebot reply markup.
func toMarkup(kb *flow.Keyboard) *tele.ReplyMarkup {
	if kb == nil {
		return nil
	}
	if !kb.Inline {
		rows := make([][]string, 0, len(kb.Rows))
		for _, row := range kb.Rows {
			labels := make([]string, 0, len(row))
			for _, btn := range row {
				labels = append(labels, btn.Text)
			}
			rows = append(rows, labels)
		}
		return keyboard.ReplyButtons(rows...)
	}
	rows := make([][]keyboard.InlineBtn, 0, len(kb.Rows))
	for _, row := range kb.Rows {
		btns := make([]keyboard.InlineBtn, 0, len(row))
		for _, btn := range row {
			btns = append(btns, keyboard.InlineBtn{Text: btn.Text, Unique: btn.Key, Data: btn.Payload})
		}
		rows = append(rows, btns)
	}
	return keyboard.InlineButtonsRows(rows...)
}

func isVideoURL(url string) bool {
	lower := strings.ToLower(url)
	return strings.HasSuffix(lower, ".mp4") ||
		strings.HasSuffix(lower, ".mov") ||
		strings.HasSuffix(lower, ".webm")
}
