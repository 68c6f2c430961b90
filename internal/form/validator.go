// Package form derives the next missing step of a partially filled draft.
// It is a pure function of the draft: no I/O, no session mutation. The
// checks run in a fixed priority order and short-circuit, so callers may
// re-invoke it after every answer and always land on the first gap.
package form

import (
	"errors"
	"strconv"
	"strings"

	"bazarbot/internal/session"
)

// ErrMissingTarget reports an update workflow without a known listing id.
// The workflow fails immediately; no further checks run.
var ErrMissingTarget = errors.New("form: update target id missing")

// Result is the outcome of a validation pass.
type Result struct {
	// Complete is true when every check passed and the caller may submit.
	Complete bool
	// Step is the next step to prompt for when not complete.
	Step session.Step
	// MediaCount carries the running attachment count when the media
	// step re-prompts after at least one item was received.
	MediaCount int
}

// NextProductStep returns the first unsatisfied step of a listing draft,
// in priority order: category (creation only), name, price currency,
// price amount, description, media.
func NextProductStep(f *session.ProductFlow, currencies []string) (Result, error) {
	if f.Update {
		if f.Draft.ProductID == 0 {
			return Result{}, ErrMissingTarget
		}
	} else if f.Draft.CategoryID == 0 {
		return Result{Step: session.StepCategory}, nil
	}

	if strings.TrimSpace(f.Draft.Name) == "" {
		return Result{Step: session.StepName}, nil
	}
	if !CurrencyAllowed(f.Draft.Currency, currencies) {
		return Result{Step: session.StepCurrency}, nil
	}
	if f.Draft.Price <= 0 {
		return Result{Step: session.StepPrice}, nil
	}
	if strings.TrimSpace(f.Draft.Description) == "" {
		return Result{Step: session.StepDescription}, nil
	}

	switch {
	case f.Media.Len() == 0:
		return Result{Step: session.StepMedia}, nil
	case f.Media.AcceptingMore():
		// At least one item buffered, but the user has not said "done":
		// re-prompt with the running count instead of submitting.
		return Result{Step: session.StepMedia, MediaCount: f.Media.Len()}, nil
	}

	return Result{Complete: true}, nil
}

// NextProfileStep returns the first unsatisfied step of a profile draft:
// nickname, then location.
func NextProfileStep(f *session.ProfileFlow) Result {
	if strings.TrimSpace(f.Draft.Nickname) == "" {
		return Result{Step: session.StepNickname}
	}
	if strings.TrimSpace(f.Draft.Location) == "" {
		return Result{Step: session.StepLocation}
	}
	return Result{Complete: true}
}

// CurrencyAllowed reports whether the symbol is one of the accepted ones.
func CurrencyAllowed(symbol string, currencies []string) bool {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return false
	}
	for _, cur := range currencies {
		if symbol == cur {
			return true
		}
	}
	return false
}

// ParsePrice parses a user-entered price amount. The amount must be a
// decimal strictly greater than zero.
func ParsePrice(input string) (float64, bool) {
	input = strings.TrimSpace(strings.ReplaceAll(input, ",", "."))
	v, err := strconv.ParseFloat(input, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}
