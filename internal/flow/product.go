package flow

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"bazarbot/core/logger"
	"bazarbot/internal/catalog"
	"bazarbot/internal/form"
	"bazarbot/internal/session"
)

func (e *Engine) startProduct(ctx context.Context, s *session.Session) error {
	if _, err := e.cat.GetUser(ctx, s.UserID); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return e.send(ctx, s.UserID, msgNeedAccount, MainMenu())
		}
		return e.fail(ctx, s.UserID, "product.user.fail", err)
	}
	s.StartProduct(false, e.mediaLimit)
	return e.advanceProduct(ctx, s)
}

// startProductUpdate enters the edit workflow from an inline button on
// one of the user's own listings. The draft is preloaded with the
// target id and category; every other field is collected anew.
func (e *Engine) startProductUpdate(ctx context.Context, s *session.Session, payload string) error {
	id, ok := parseID(payload)
	if !ok {
		return e.send(ctx, s.UserID, msgFailure, MainMenu())
	}
	products, err := e.cat.UserProducts(ctx, s.UserID)
	if err != nil {
		return e.fail(ctx, s.UserID, "product.list.fail", err)
	}
	var target *catalog.Product
	for i := range products {
		if products[i].ID == id {
			target = &products[i]
			break
		}
	}
	if target == nil {
		return e.send(ctx, s.UserID, msgListingGone, MainMenu())
	}
	f := s.StartProduct(true, e.mediaLimit)
	f.Draft.ProductID = id
	f.Draft.CategoryID = target.CategoryID
	return e.advanceProduct(ctx, s)
}

// productAnswer copies an inbound text answer into the draft field the
// current step expects, or handles the media control words.
func (e *Engine) productAnswer(ctx context.Context, s *session.Session, step session.Step, raw, normalized string) error {
	f := s.Product
	switch step {
	case session.StepName:
		f.Draft.Name = raw
	case session.StepCurrency:
		if !form.CurrencyAllowed(raw, e.currencies) {
			return e.send(ctx, s.UserID, msgBadCurrency, e.currencyKeyboard())
		}
		f.Draft.Currency = raw
	case session.StepPrice:
		price, ok := form.ParsePrice(raw)
		if !ok {
			return e.send(ctx, s.UserID, msgBadPrice, nil)
		}
		f.Draft.Price = price
	case session.StepDescription:
		f.Draft.Description = raw
	case session.StepMedia:
		switch normalized {
		case CmdResend:
			f.Media.Clear()
			return e.send(ctx, s.UserID, msgMediaCleared, mediaKeyboard())
		case CmdDone:
			if f.Media.Len() == 0 {
				return e.send(ctx, s.UserID, msgMediaEmpty, mediaKeyboard())
			}
			f.Media.MarkComplete()
		default:
			return e.send(ctx, s.UserID, msgMediaOnly, mediaKeyboard())
		}
	}
	return e.advanceProduct(ctx, s)
}

// advanceProduct asks the validator for the next missing field,
// prompting for it or submitting the finished draft.
func (e *Engine) advanceProduct(ctx context.Context, s *session.Session) error {
	res, err := form.NextProductStep(s.Product, e.currencies)
	if err != nil {
		logger.Warn(ctx, "flow", "product.target.missing", slog.Int64("user_id", s.UserID))
		s.Reset()
		return e.send(ctx, s.UserID, msgFailure, MainMenu())
	}
	if res.Complete {
		return e.submitProduct(ctx, s)
	}
	return e.promptProductStep(ctx, s, res.Step, res.MediaCount)
}

func (e *Engine) promptProductStep(ctx context.Context, s *session.Session, step session.Step, mediaCount int) error {
	s.Product.Step = step
	switch step {
	case session.StepCategory:
		cats, err := e.cat.ListCategories(ctx)
		if err != nil {
			return e.fail(ctx, s.UserID, "product.categories.fail", err)
		}
		if len(cats) == 0 {
			s.Reset()
			return e.send(ctx, s.UserID, msgNoCategories, MainMenu())
		}
		return e.send(ctx, s.UserID, msgPickCategory, categoryKeyboard(cats))
	case session.StepName:
		return e.send(ctx, s.UserID, msgAskName, ReplyMenu([]string{CmdBack}))
	case session.StepCurrency:
		return e.send(ctx, s.UserID, msgAskCurrency, e.currencyKeyboard())
	case session.StepPrice:
		return e.send(ctx, s.UserID, msgAskPrice, nil)
	case session.StepDescription:
		return e.send(ctx, s.UserID, msgAskDescription, nil)
	case session.StepMedia:
		if mediaCount > 0 {
			text := fmt.Sprintf("Got %d of %d. Send more or \"done\".", mediaCount, s.Product.Media.Limit())
			return e.send(ctx, s.UserID, text, mediaKeyboard())
		}
		return e.send(ctx, s.UserID, msgAskMedia, mediaKeyboard())
	}
	return nil
}

// submitProduct publishes the draft: create or update the listing,
// then replace its attachments with the buffered ones. Any failure is
// surfaced once and the session stays put so "done" retries the rest.
func (e *Engine) submitProduct(ctx context.Context, s *session.Session) error {
	f := s.Product
	in := catalog.ProductInput{
		OwnerID:     s.UserID,
		CategoryID:  f.Draft.CategoryID,
		Name:        f.Draft.Name,
		Price:       f.Draft.Price,
		Currency:    f.Draft.Currency,
		Description: f.Draft.Description,
	}

	id := f.Draft.ProductID
	switch {
	case f.Update:
		if err := e.cat.UpdateProduct(ctx, id, in); err != nil {
			return e.fail(ctx, s.UserID, "product.update.fail", err)
		}
		if err := e.cat.DeleteMedia(ctx, id); err != nil {
			return e.fail(ctx, s.UserID, "product.media.clear.fail", err)
		}
	case id == 0:
		created, err := e.cat.CreateProduct(ctx, in)
		if err != nil {
			return e.fail(ctx, s.UserID, "product.create.fail", err)
		}
		id = created
		// Remember the id so a retry after a failed upload does not
		// publish a second listing.
		f.Draft.ProductID = id
	default:
		// Retrying a create whose upload failed midway: drop the
		// partial attachments before uploading again.
		if err := e.cat.DeleteMedia(ctx, id); err != nil {
			return e.fail(ctx, s.UserID, "product.media.clear.fail", err)
		}
	}

	for _, item := range f.Media.Items() {
		err := e.cat.UploadMedia(ctx, id, bytes.NewReader(item.Data), item.Filename, item.ContentType)
		if err != nil {
			return e.fail(ctx, s.UserID, "product.media.upload.fail", err)
		}
	}

	logger.Info(ctx, "flow", "product.submitted",
		slog.Int64("user_id", s.UserID),
		slog.Int64("product_id", id),
		slog.Bool("update", f.Update),
		slog.Int("media", f.Media.Len()))

	text := msgPublished
	if f.Update {
		text = msgUpdated
	}
	s.Reset()
	return e.send(ctx, s.UserID, text, MainMenu())
}

// handleAttachment buffers an inbound media file while in the media
// step; anywhere else the attachment is rejected without a state change.
func (e *Engine) handleAttachment(ctx context.Context, s *session.Session, ev Event) error {
	if s.Product == nil || s.Product.Step != session.StepMedia {
		if s.Idle() {
			return e.send(ctx, s.UserID, msgUnknown, MainMenu())
		}
		return e.send(ctx, s.UserID, msgAnswerAbove, nil)
	}

	at := ev.Attachment
	if at.Kind != session.MediaImage && at.Kind != session.MediaVideo {
		return e.send(ctx, s.UserID, msgMediaOnly, mediaKeyboard())
	}

	rc, err := e.gw.Download(ctx, at.Ref)
	if err != nil {
		return e.fail(ctx, s.UserID, "media.download.fail", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return e.fail(ctx, s.UserID, "media.download.fail", err)
	}

	buf := s.Product.Media
	buf.Append(session.MediaItem{
		Data:        data,
		Kind:        at.Kind,
		Filename:    at.Filename,
		ContentType: at.ContentType,
	})
	if buf.Len() >= buf.Limit() {
		return e.send(ctx, s.UserID, msgMediaFull, mediaKeyboard())
	}
	text := fmt.Sprintf("Got %d of %d. Send more or \"done\".", buf.Len(), buf.Limit())
	return e.send(ctx, s.UserID, text, mediaKeyboard())
}

func (e *Engine) showMyListings(ctx context.Context, s *session.Session) error {
	products, err := e.cat.UserProducts(ctx, s.UserID)
	if err != nil {
		return e.fail(ctx, s.UserID, "product.list.fail", err)
	}
	if len(products) == 0 {
		return e.send(ctx, s.UserID, msgNoListings, MainMenu())
	}
	for _, p := range products {
		payload := strconv.FormatInt(p.ID, 10)
		kb := InlineRows([]Button{
			{Text: "update", Key: CBUpdate, Payload: payload},
			{Text: "delete", Key: CBDelete, Payload: payload},
		})
		if err := e.send(ctx, s.UserID, productCaption(p), kb); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) deleteListing(ctx context.Context, s *session.Session, payload string) error {
	id, ok := parseID(payload)
	if !ok {
		return e.send(ctx, s.UserID, msgFailure, MainMenu())
	}
	if err := e.cat.DeleteMedia(ctx, id); err != nil {
		return e.fail(ctx, s.UserID, "product.media.clear.fail", err)
	}
	if err := e.cat.DeleteProduct(ctx, id); err != nil {
		return e.fail(ctx, s.UserID, "product.delete.fail", err)
	}
	logger.Info(ctx, "flow", "product.deleted",
		slog.Int64("user_id", s.UserID), slog.Int64("product_id", id))
	return e.send(ctx, s.UserID, msgDeleted, MainMenu())
}

func (e *Engine) currencyKeyboard() *Keyboard {
	return ReplyMenu(e.currencies, []string{CmdBack})
}

func mediaKeyboard() *Keyboard {
	return ReplyMenu([]string{CmdResend, CmdDone}, []string{CmdBack})
}

func parseID(payload string) (int64, bool) {
	id, err := strconv.ParseInt(payload, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func productCaption(p catalog.Product) string {
	price := strconv.FormatFloat(p.Price, 'f', -1, 64)
	text := fmt.Sprintf("%s\n%s %s", p.Name, price, p.Currency)
	if p.Location != "" {
		text += "\n" + p.Location
	}
	if p.Description != "" {
		text += "\n\n" + p.Description
	}
	return text
}
