package bot

import (
	"context"

	tele "gopkg.in/telebot.v4"

	"bazarbot/core/logger"
	"bazarbot/core/telegram"
	"bazarbot/core/telegram/callbacks"
	"bazarbot/internal/flow"
	"bazarbot/internal/session"
)

// Routes binds every update type the engine understands.
func Routes(e *flow.Engine) []telegram.Route {
	return []telegram.Route{
		{Endpoint: tele.OnText, Handler: onText(e)},
		{Endpoint: tele.OnPhoto, Handler: onPhoto(e)},
		{Endpoint: tele.OnVideo, Handler: onVideo(e)},
		{Endpoint: tele.OnDocument, Handler: onUnsupported(e)},
		{Endpoint: tele.OnSticker, Handler: onUnsupported(e)},
		{Endpoint: tele.OnCallback, Handler: onCallback(e)},
	}
}

// Commands lists the slash commands shown in the Telegram menu.
func Commands(e *flow.Engine) []telegram.Command {
	return []telegram.Command{
		{Name: flow.CmdStart, Description: "open the main menu", Handler: onText(e)},
	}
}

// eventCtx attaches update metadata to the context so every log line
// of this event carries the same request id.
func eventCtx(c tele.Context) context.Context {
	var userID, chatID int64
	if c.Sender() != nil {
		userID = c.Sender().ID
	}
	if c.Chat() != nil {
		chatID = c.Chat().ID
	}
	upd := c.Update()
	ctx := logger.WithUpdateMeta(context.Background(), upd.ID, userID, chatID)
	return logger.WithRID(ctx, logger.BuildRID(upd.ID, chatID, userID))
}

func onText(e *flow.Engine) tele.HandlerFunc {
	return func(c tele.Context) error {
		return e.Handle(eventCtx(c), flow.Event{
			UserID: c.Sender().ID,
			Text:   c.Text(),
		})
	}
}

func onPhoto(e *flow.Engine) tele.HandlerFunc {
	return func(c tele.Context) error {
		photo := c.Message().Photo
		if photo == nil {
			return nil
		}
		return e.Handle(eventCtx(c), flow.Event{
			UserID: c.Sender().ID,
			Attachment: &flow.Attachment{
				Ref:         photo.FileID,
				Kind:        session.MediaImage,
				Filename:    photo.UniqueID + ".jpg",
				ContentType: "image/jpeg",
			},
		})
	}
}

func onVideo(e *flow.Engine) tele.HandlerFunc {
	return func(c tele.Context) error {
		video := c.Message().Video
		if video == nil {
			return nil
		}
		filename := video.FileName
		if filename == "" {
			filename = video.UniqueID + ".mp4"
		}
		contentType := video.MIME
		if contentType == "" {
			contentType = "video/mp4"
		}
		return e.Handle(eventCtx(c), flow.Event{
			UserID: c.Sender().ID,
			Attachment: &flow.Attachment{
				Ref:         video.FileID,
				Kind:        session.MediaVideo,
				Filename:    filename,
				ContentType: contentType,
			},
		})
	}
}

// onUnsupported feeds documents and stickers through as unsupported
// attachments so the media step can reject them with a re-prompt.
func onUnsupported(e *flow.Engine) tele.HandlerFunc {
	return func(c tele.Context) error {
		return e.Handle(eventCtx(c), flow.Event{
			UserID:     c.Sender().ID,
			Attachment: &flow.Attachment{Kind: session.MediaUnsupported},
		})
	}
}

func onCallback(e *flow.Engine) tele.HandlerFunc {
	return func(c tele.Context) error {
		// ack first so the client stops the button spinner
		_ = c.Respond()
		return e.Handle(eventCtx(c), flow.Event{
			UserID: c.Sender().ID,
			Callback: &flow.Callback{
				Key:     callbacks.CallbackKey(c),
				Payload: callbacks.CallbackPayload(c),
			},
		})
	}
}
