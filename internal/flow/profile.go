package flow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"bazarbot/core/logger"
	"bazarbot/internal/catalog"
	"bazarbot/internal/form"
	"bazarbot/internal/session"
)

func (e *Engine) showProfile(ctx context.Context, s *session.Session) error {
	u, err := e.cat.GetUser(ctx, s.UserID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return e.send(ctx, s.UserID, msgNeedAccount, MainMenu())
		}
		return e.fail(ctx, s.UserID, "profile.fetch.fail", err)
	}
	text := fmt.Sprintf("Nickname: %s\nLocation: %s", u.Nickname, u.Location)
	kb := ReplyMenu([]string{CmdUpdateData}, []string{CmdBack})
	return e.send(ctx, s.UserID, text, kb)
}

func (e *Engine) startProfile(ctx context.Context, s *session.Session, update bool) error {
	_, err := e.cat.GetUser(ctx, s.UserID)
	switch {
	case err == nil && !update:
		return e.send(ctx, s.UserID, msgAlreadyHaveAcc, MainMenu())
	case errors.Is(err, catalog.ErrNotFound) && update:
		return e.send(ctx, s.UserID, msgNeedAccount, MainMenu())
	case err != nil && !errors.Is(err, catalog.ErrNotFound):
		return e.fail(ctx, s.UserID, "profile.fetch.fail", err)
	}
	s.StartProfile(update)
	return e.advanceProfile(ctx, s)
}

func (e *Engine) profileAnswer(ctx context.Context, s *session.Session, step session.Step, raw string) error {
	answer := strings.TrimSpace(raw)
	f := s.Profile
	switch step {
	case session.StepNickname:
		f.Draft.Nickname = answer
	case session.StepLocation:
		f.Draft.Location = answer
	}
	return e.advanceProfile(ctx, s)
}

// advanceProfile re-derives the next missing field after every answer;
// an empty answer lands back on the same prompt.
func (e *Engine) advanceProfile(ctx context.Context, s *session.Session) error {
	f := s.Profile
	res := form.NextProfileStep(f)
	if !res.Complete {
		f.Step = res.Step
		text := msgAskNickname
		if res.Step == session.StepLocation {
			text = msgAskLocation
		}
		return e.send(ctx, s.UserID, text, ReplyMenu([]string{CmdBack}))
	}

	u := catalog.User{ID: s.UserID, Nickname: f.Draft.Nickname, Location: f.Draft.Location}
	var err error
	if f.Update {
		err = e.cat.UpdateUser(ctx, u)
	} else {
		err = e.cat.CreateUser(ctx, u)
	}
	if err != nil {
		return e.fail(ctx, s.UserID, "profile.submit.fail", err)
	}

	logger.Info(ctx, "flow", "profile.submitted",
		slog.Int64("user_id", s.UserID), slog.Bool("update", f.Update))

	text := msgAccountCreated
	if f.Update {
		text = msgAccountUpdated
	}
	s.Reset()
	e.store.Remove(s.UserID)
	return e.send(ctx, s.UserID, text, MainMenu())
}
