// Package flow is the conversation engine: it turns the stream of
// inbound chat events into multi-step workflows over per-user session
// state. Every event for a user is handled inside that user's critical
// section, so duplicate deliveries cannot interleave partial writes.
package flow

import (
	"context"
	"log/slog"
	"strings"

	"bazarbot/core/logger"
	"bazarbot/internal/catalog"
	"bazarbot/internal/session"
)

// Engine dispatches inbound events to the product, profile, and
// browsing workflows.
type Engine struct {
	store      *session.Store
	cat        catalog.Client
	gw         Gateway
	currencies []string
	mediaLimit int
}

// Options configures a new Engine.
type Options struct {
	Store      *session.Store
	Catalog    catalog.Client
	Gateway    Gateway
	Currencies []string
	MediaLimit int
}

// NewEngine builds the conversation engine.
func NewEngine(opts Options) *Engine {
	st := opts.Store
	if st == nil {
		st = session.NewStore()
	}
	limit := opts.MediaLimit
	if limit <= 0 {
		limit = session.DefaultMediaLimit
	}
	return &Engine{
		store:      st,
		cat:        opts.Catalog,
		gw:         opts.Gateway,
		currencies: opts.Currencies,
		mediaLimit: limit,
	}
}

// Handle processes one inbound event under the user's session lock.
// The returned error is internal only; anything the user should know
// about has already been sent through the gateway.
func (e *Engine) Handle(ctx context.Context, ev Event) error {
	return e.store.Do(ev.UserID, func(s *session.Session) error {
		switch {
		case ev.Callback != nil:
			return e.handleCallback(ctx, s, ev)
		case ev.Attachment != nil:
			return e.handleAttachment(ctx, s, ev)
		default:
			return e.handleText(ctx, s, ev)
		}
	})
}

func (e *Engine) handleText(ctx context.Context, s *session.Session, ev Event) error {
	text := strings.ToLower(strings.TrimSpace(ev.Text))

	// Top-level commands displace whatever workflow is in progress.
	switch text {
	case CmdStart:
		s.Reset()
		return e.send(ctx, s.UserID, msgGreeting, MainMenu())
	case CmdBack:
		return e.cancel(ctx, s)
	case CmdProfile:
		s.Reset()
		return e.showProfile(ctx, s)
	case CmdCreateAccount:
		return e.startProfile(ctx, s, false)
	case CmdUpdateData:
		return e.startProfile(ctx, s, true)
	case CmdAddProduct:
		return e.startProduct(ctx, s)
	case CmdMyListings:
		s.Reset()
		return e.showMyListings(ctx, s)
	case CmdBrowse:
		return e.startBrowse(ctx, s)
	case CmdFavorites:
		return e.startFavorites(ctx, s)
	}

	switch step := s.Step(); step {
	case session.StepNickname, session.StepLocation:
		return e.profileAnswer(ctx, s, step, ev.Text)
	case session.StepName, session.StepCurrency, session.StepPrice,
		session.StepDescription, session.StepMedia:
		return e.productAnswer(ctx, s, step, ev.Text, text)
	case session.StepCategory:
		return e.promptProductStep(ctx, s, session.StepCategory, 0)
	case session.StepBrowseCategory:
		return e.promptBrowseCategories(ctx, s, msgUseButtons)
	case session.StepSortOrder:
		return e.send(ctx, s.UserID, msgPickSort, sortKeyboard())
	case session.StepSwiping:
		return e.send(ctx, s.UserID, msgUseButtons, nil)
	}

	logger.Debug(ctx, "flow", "text.unknown", slog.String("text", logger.SanitizeLimit(ev.Text, 64)))
	return e.send(ctx, s.UserID, msgUnknown, MainMenu())
}

func (e *Engine) handleCallback(ctx context.Context, s *session.Session, ev Event) error {
	cb := ev.Callback
	logger.Debug(ctx, "flow", "callback",
		slog.String("key", cb.Key), slog.String("payload", logger.SanitizeLimit(cb.Payload, 32)))

	switch cb.Key {
	case CBCategory:
		return e.categoryChosen(ctx, s, cb.Payload)
	case CBLike, CBDislike, CBDelLiked, CBNext:
		return e.swipe(ctx, s, cb)
	case CBWrite:
		return e.writeSeller(ctx, s, cb.Payload)
	case CBUpdate:
		return e.startProductUpdate(ctx, s, cb.Payload)
	case CBDelete:
		return e.deleteListing(ctx, s, cb.Payload)
	case CBFirstOld:
		return e.fillFavorites(ctx, s, catalog.SortOldestFirst)
	case CBFirstNew:
		return e.fillFavorites(ctx, s, catalog.SortNewestFirst)
	}

	logger.Warn(ctx, "flow", "callback.unknown", slog.String("key", cb.Key))
	return e.send(ctx, s.UserID, msgUnknown, MainMenu())
}

// cancel aborts the active workflow, discarding the draft. Profile
// sessions are dropped from the store entirely.
func (e *Engine) cancel(ctx context.Context, s *session.Session) error {
	hadProfile := s.Profile != nil
	s.Reset()
	if hadProfile {
		e.store.Remove(s.UserID)
	}
	return e.send(ctx, s.UserID, msgCanceled, MainMenu())
}

// send delivers one outbound text and logs the failure. Gateway
// failures are not surfaced to the user again: there is nothing left
// to send them with.
func (e *Engine) send(ctx context.Context, userID int64, text string, kb *Keyboard) error {
	if err := e.gw.SendText(ctx, userID, text, kb); err != nil {
		logger.Error(ctx, "flow", "send.fail",
			slog.Int64("user_id", userID), slog.String("error", logger.Sanitize(err.Error())))
		return err
	}
	return nil
}

// fail reports a collaborator failure to the user, preserving session
// state so the same input can be retried.
func (e *Engine) fail(ctx context.Context, userID int64, op string, err error) error {
	logger.Error(ctx, "flow", op,
		slog.Int64("user_id", userID), slog.String("error", logger.Sanitize(err.Error())))
	return e.send(ctx, userID, msgFailure, nil)
}
