package middleware

import (
	"context"
	"log/slog"

	tele "gopkg.in/telebot.v4"

	"bazarbot/core/logger"
)

// Logging logs a single receipt line per update and tags it with a rid.
func Logging(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		upd := c.Update()
		user := c.Sender()
		chat := c.Chat()

		chatID, userID := int64(0), int64(0)
		if chat != nil {
			chatID = chat.ID
		}
		if user != nil {
			userID = user.ID
		}
		rid := logger.BuildRID(upd.ID, chatID, userID)
		c.Set("rid", rid)

		attrs := []slog.Attr{
			slog.String("event", "update.received"),
			slog.String("rid", rid),
			slog.Int("update_id", upd.ID),
			slog.Int64("user_id", userID),
		}
		switch {
		case upd.Callback != nil:
			attrs = append(attrs, slog.String("payload", logger.SanitizeLimit(upd.Callback.Data, 128)))
		case upd.Message != nil:
			if t := c.Text(); t != "" {
				attrs = append(attrs, slog.String("payload", logger.SanitizeLimit(t, 128)))
			}
		}
		logger.TG.LogAttrs(context.Background(), slog.LevelDebug, "update received", attrs...)

		return next(c)
	}
}
