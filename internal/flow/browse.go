package flow

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"bazarbot/core/logger"
	"bazarbot/internal/catalog"
	"bazarbot/internal/session"
)

func (e *Engine) startBrowse(ctx context.Context, s *session.Session) error {
	s.StartBrowse(session.SourceCatalog)
	return e.promptBrowseCategories(ctx, s, msgPickCategory)
}

func (e *Engine) startFavorites(ctx context.Context, s *session.Session) error {
	b := s.StartBrowse(session.SourceFavorites)
	b.Step = session.StepSortOrder
	return e.send(ctx, s.UserID, msgPickSort, sortKeyboard())
}

func sortKeyboard() *Keyboard {
	return InlineRows([]Button{
		{Text: "first new", Key: CBFirstNew},
		{Text: "first old", Key: CBFirstOld},
	})
}

// promptBrowseCategories fetches the category list and keeps the
// session waiting for a selection. An empty catalog ends browsing.
func (e *Engine) promptBrowseCategories(ctx context.Context, s *session.Session, lead string) error {
	cats, err := e.cat.ListCategories(ctx)
	if err != nil {
		return e.fail(ctx, s.UserID, "browse.categories.fail", err)
	}
	if len(cats) == 0 {
		s.Reset()
		return e.send(ctx, s.UserID, msgNoCategories, MainMenu())
	}
	s.Browse.Step = session.StepBrowseCategory
	return e.send(ctx, s.UserID, lead, categoryKeyboard(cats))
}

// categoryChosen routes a category callback to whichever workflow is
// waiting for one; a stale button press falls through to the menu.
func (e *Engine) categoryChosen(ctx context.Context, s *session.Session, payload string) error {
	id, ok := parseID(payload)
	if !ok {
		return e.send(ctx, s.UserID, msgFailure, MainMenu())
	}

	switch {
	case s.Browse != nil && s.Browse.Source == session.SourceCatalog &&
		s.Browse.Step == session.StepBrowseCategory:
		products, err := e.cat.ProductsByCategory(ctx, id)
		if err != nil {
			return e.fail(ctx, s.UserID, "browse.fetch.fail", err)
		}
		if len(products) == 0 {
			return e.promptBrowseCategories(ctx, s, msgEmptyCat)
		}
		s.Browse.CategoryID = id
		s.Browse.Queue.Fill(products)
		s.Browse.Step = session.StepSwiping
		logger.Debug(ctx, "flow", "browse.queue.filled",
			slog.Int64("category_id", id), slog.Int("count", len(products)))
		return e.showNext(ctx, s)
	case s.Product != nil && s.Product.Step == session.StepCategory:
		s.Product.Draft.CategoryID = id
		return e.advanceProduct(ctx, s)
	}
	return e.send(ctx, s.UserID, msgUnknown, MainMenu())
}

// fillFavorites replaces the browse queue wholesale with the user's
// favorites in the requested order. A sort button pressed while another
// workflow owns the session is stale and must not displace its draft.
func (e *Engine) fillFavorites(ctx context.Context, s *session.Session, order catalog.SortOrder) error {
	if s.Browse == nil || s.Browse.Source != session.SourceFavorites {
		return e.send(ctx, s.UserID, msgUnknown, MainMenu())
	}
	products, err := e.cat.Favorites(ctx, s.UserID, order)
	if err != nil {
		return e.fail(ctx, s.UserID, "favorites.fetch.fail", err)
	}
	if len(products) == 0 {
		s.Reset()
		return e.send(ctx, s.UserID, msgEndOfList, MainMenu())
	}
	s.Browse.Sort = order
	s.Browse.Queue.Fill(products)
	s.Browse.Step = session.StepSwiping
	return e.showNext(ctx, s)
}

// swipe reacts to a like/dislike/remove/next button and advances the
// queue. A failed favorite call keeps the current item on screen.
func (e *Engine) swipe(ctx context.Context, s *session.Session, cb *Callback) error {
	if s.Browse == nil || s.Browse.Step != session.StepSwiping {
		return e.send(ctx, s.UserID, msgUnknown, MainMenu())
	}

	switch cb.Key {
	case CBLike:
		id, ok := parseID(cb.Payload)
		if !ok {
			return e.send(ctx, s.UserID, msgFailure, nil)
		}
		if err := e.cat.AddFavorite(ctx, s.UserID, id); err != nil {
			return e.fail(ctx, s.UserID, "favorites.add.fail", err)
		}
	case CBDelLiked:
		id, ok := parseID(cb.Payload)
		if !ok {
			return e.send(ctx, s.UserID, msgFailure, nil)
		}
		if err := e.cat.RemoveFavorite(ctx, s.UserID, id); err != nil {
			return e.fail(ctx, s.UserID, "favorites.remove.fail", err)
		}
	}
	return e.showNext(ctx, s)
}

// showNext pops the queue head and displays it. A drained catalog
// queue returns to category selection; drained favorites end the
// browsing session.
func (e *Engine) showNext(ctx context.Context, s *session.Session) error {
	b := s.Browse
	p, ok := b.Queue.Pop()
	if !ok {
		if b.Source == session.SourceCatalog {
			return e.promptBrowseCategories(ctx, s, msgQueueDrained)
		}
		s.Reset()
		return e.send(ctx, s.UserID, msgEndOfList, MainMenu())
	}
	return e.showProduct(ctx, s, p)
}

// showProduct renders one candidate with its swipe buttons. The media
// lookup may fail independently; display falls back to text only.
func (e *Engine) showProduct(ctx context.Context, s *session.Session, p catalog.Product) error {
	payload := strconv.FormatInt(p.ID, 10)
	var kb *Keyboard
	if s.Browse.Source == session.SourceFavorites {
		kb = InlineRows(
			[]Button{{Text: "remove", Key: CBDelLiked, Payload: payload}, {Text: "next", Key: CBNext}},
			[]Button{{Text: "write to seller", Key: CBWrite, Payload: payload}},
		)
	} else {
		kb = InlineRows(
			[]Button{{Text: "like", Key: CBLike, Payload: payload}, {Text: "dislike", Key: CBDislike, Payload: payload}},
			[]Button{{Text: "write to seller", Key: CBWrite, Payload: payload}},
		)
	}

	caption := productCaption(p)
	urls, err := e.cat.ProductMedia(ctx, p.ID)
	if err != nil {
		logger.Warn(ctx, "flow", "browse.media.fail",
			slog.Int64("product_id", p.ID), slog.String("error", logger.Sanitize(err.Error())))
		urls = nil
	}
	if len(urls) == 0 {
		return e.send(ctx, s.UserID, caption, kb)
	}
	if err := e.gw.SendMediaGroup(ctx, s.UserID, urls, caption); err != nil {
		logger.Warn(ctx, "flow", "browse.album.fail",
			slog.Int64("product_id", p.ID), slog.String("error", logger.Sanitize(err.Error())))
		return e.send(ctx, s.UserID, caption, kb)
	}
	return e.send(ctx, s.UserID, msgSwipePrompt, kb)
}

// writeSeller resolves the listing owner's contact without advancing
// the queue.
func (e *Engine) writeSeller(ctx context.Context, s *session.Session, payload string) error {
	id, ok := parseID(payload)
	if !ok {
		return e.send(ctx, s.UserID, msgFailure, nil)
	}
	seller, err := e.cat.SellerInfo(ctx, id)
	if err != nil {
		return e.fail(ctx, s.UserID, "seller.fetch.fail", err)
	}
	text := fmt.Sprintf("Contact the seller: @%s", seller.Username)
	if seller.Username == "" {
		text = fmt.Sprintf("Contact the seller: id %d", seller.ID)
	}
	return e.send(ctx, s.UserID, text, nil)
}

func categoryKeyboard(cats []catalog.Category) *Keyboard {
	kb := &Keyboard{Inline: true}
	row := []Button{}
	for _, c := range cats {
		row = append(row, Button{Text: c.Name, Key: CBCategory, Payload: strconv.FormatInt(c.ID, 10)})
		if len(row) == 2 {
			kb.Rows = append(kb.Rows, row)
			row = []Button{}
		}
	}
	if len(row) > 0 {
		kb.Rows = append(kb.Rows, row)
	}
	return kb
}
