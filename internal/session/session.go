// Package session tracks per-user conversational state across independent
// inbound events: which workflow owns the conversation, how far the form
// has progressed, buffered media, and the browsing queue.
package session

import "bazarbot/internal/catalog"

// Step identifies a conversational step inside a workflow.
type Step string

const (
	// StepIdle indicates there is no active conversation with the user.
	StepIdle Step = "idle"

	// Product form steps.
	StepCategory    Step = "waiting_category"
	StepName        Step = "waiting_name"
	StepCurrency    Step = "waiting_currency"
	StepPrice       Step = "waiting_price"
	StepDescription Step = "waiting_description"
	StepMedia       Step = "waiting_media"

	// Profile form steps.
	StepNickname Step = "waiting_nickname"
	StepLocation Step = "waiting_location"

	// Browsing steps.
	StepBrowseCategory Step = "awaiting_browse_category"
	StepSortOrder      Step = "awaiting_sort_order"
	StepSwiping        Step = "swiping"
)

// Action names the workflow owning a session.
type Action string

const (
	ActionNone          Action = ""
	ActionCreateProduct Action = "create-product"
	ActionUpdateProduct Action = "update-product"
	ActionRegisterUser  Action = "register-user"
	ActionUpdateUser    Action = "update-user"
)

// ProductDraft is a partially filled listing; it has no identity until
// submitted and is discarded when the session resets.
type ProductDraft struct {
	// ProductID is non-zero only when updating an existing listing.
	ProductID   int64
	CategoryID  int64
	Name        string
	Currency    string
	Price       float64
	Description string
}

// ProfileDraft is a partially filled account profile.
type ProfileDraft struct {
	Nickname string
	Location string
}

// ProductFlow is the create/update listing sub-state.
type ProductFlow struct {
	Update bool
	Step   Step
	Draft  ProductDraft
	Media  *MediaBuffer
}

// ProfileFlow is the register/update profile sub-state.
type ProfileFlow struct {
	Update bool
	Step   Step
	Draft  ProfileDraft
}

// BrowseSource selects where swiped products come from.
type BrowseSource string

const (
	// SourceCatalog browses fresh listings by category.
	SourceCatalog BrowseSource = "catalog"
	// SourceFavorites replays previously liked listings.
	SourceFavorites BrowseSource = "favorites"
)

// BrowseFlow is the swipe-browsing sub-state.
type BrowseFlow struct {
	Source     BrowseSource
	Step       Step
	CategoryID int64
	Sort       catalog.SortOrder
	Queue      BrowseQueue
}

// Session is the conversational state of a single user. At most one of
// the three optional sub-states is non-nil at a time; the Start methods
// enforce that invariant.
type Session struct {
	UserID  int64
	Product *ProductFlow
	Profile *ProfileFlow
	Browse  *BrowseFlow
}

// New returns an idle session for the given user.
func New(userID int64) *Session {
	return &Session{UserID: userID}
}

// StartProduct begins a create or update listing workflow, displacing any
// other active sub-state.
func (s *Session) StartProduct(update bool, mediaLimit int) *ProductFlow {
	s.Reset()
	s.Product = &ProductFlow{
		Update: update,
		Step:   StepIdle,
		Media:  NewMediaBuffer(mediaLimit),
	}
	return s.Product
}

// StartProfile begins a register or update profile workflow, displacing
// any other active sub-state.
func (s *Session) StartProfile(update bool) *ProfileFlow {
	s.Reset()
	s.Profile = &ProfileFlow{Update: update, Step: StepIdle}
	return s.Profile
}

// StartBrowse begins a swipe-browsing session, displacing any other
// active sub-state.
func (s *Session) StartBrowse(source BrowseSource) *BrowseFlow {
	s.Reset()
	s.Browse = &BrowseFlow{
		Source: source,
		Step:   StepBrowseCategory,
		Sort:   catalog.SortNewestFirst,
	}
	return s.Browse
}

// Reset returns the session to defaults: no action, no drafts, media
// buffer and browse queue dropped.
func (s *Session) Reset() {
	s.Product = nil
	s.Profile = nil
	s.Browse = nil
}

// Idle reports whether no workflow owns the session.
func (s *Session) Idle() bool {
	return s.Product == nil && s.Profile == nil && s.Browse == nil
}

// Action names the workflow currently owning the session.
func (s *Session) Action() Action {
	switch {
	case s.Product != nil && s.Product.Update:
		return ActionUpdateProduct
	case s.Product != nil:
		return ActionCreateProduct
	case s.Profile != nil && s.Profile.Update:
		return ActionUpdateUser
	case s.Profile != nil:
		return ActionRegisterUser
	}
	return ActionNone
}

// Step returns the current conversational step across sub-states.
func (s *Session) Step() Step {
	switch {
	case s.Product != nil:
		return s.Product.Step
	case s.Profile != nil:
		return s.Profile.Step
	case s.Browse != nil:
		return s.Browse.Step
	}
	return StepIdle
}
