package session

// MediaKind is the declared content kind of a buffered attachment.
type MediaKind string

const (
	MediaImage       MediaKind = "image"
	MediaVideo       MediaKind = "video"
	MediaUnsupported MediaKind = "unsupported"
)

// MediaItem is one in-flight attachment collected during the media step.
type MediaItem struct {
	Data        []byte
	Kind        MediaKind
	Filename    string
	ContentType string
}

// DefaultMediaLimit caps attachments per listing unless configured otherwise.
const DefaultMediaLimit = 5

// MediaBuffer is a bounded ordered collection of attachments gathered
// across multiple inbound events before submission.
type MediaBuffer struct {
	items         []MediaItem
	limit         int
	acceptingMore bool
}

// NewMediaBuffer returns an empty buffer accepting up to limit items.
func NewMediaBuffer(limit int) *MediaBuffer {
	if limit <= 0 {
		limit = DefaultMediaLimit
	}
	return &MediaBuffer{limit: limit, acceptingMore: true}
}

// Append adds an attachment, then truncates the buffer back to the limit.
// Truncation keeps the FIRST items in arrival order and drops the excess;
// the earliest uploads win over later ones.
func (b *MediaBuffer) Append(item MediaItem) {
	b.items = append(b.items, item)
	if len(b.items) > b.limit {
		b.items = b.items[:b.limit]
	}
}

// Clear drops all buffered items and reopens the buffer for more input.
func (b *MediaBuffer) Clear() {
	b.items = nil
	b.acceptingMore = true
}

// MarkComplete records that the user finished uploading; the form may
// now submit once at least one item is buffered.
func (b *MediaBuffer) MarkComplete() {
	b.acceptingMore = false
}

// AcceptingMore reports whether the user has not yet signalled completion.
func (b *MediaBuffer) AcceptingMore() bool {
	return b.acceptingMore
}

// Len returns the number of buffered items.
func (b *MediaBuffer) Len() int {
	return len(b.items)
}

// Limit returns the maximum number of buffered items.
func (b *MediaBuffer) Limit() int {
	return b.limit
}

// Items returns the buffered attachments in arrival order.
func (b *MediaBuffer) Items() []MediaItem {
	return b.items
}
