package digest

import (
	"fmt"
	"time"

	"daily-brief/internal/domain/entity"
)

const (
	// TopCount is the size of the highlighted section.
	TopCount = 5

	minCap = 10
	maxCap = 20

	humanTimeLayout   = "Jan 02, 15:04 UTC"
	subjectDateLayout = "Jan 02, 2006"
	longDateLayout    = "Monday, January 02, 2006"
	archiveDateLayout = "2006-01-02"

	// NoTimestamp is shown for items without a publication time.
	NoTimestamp = "—"
)

// CapPolicy bounds the digest length. A zero Limit means no cap.
type CapPolicy struct {
	Limit int
}

// NewCapPolicy maps a configured maximum to a policy. Non-positive values
// disable the cap; anything else is clamped to [10, 20].
func NewCapPolicy(maxItems int) CapPolicy {
	if maxItems <= 0 {
		return CapPolicy{}
	}
	return CapPolicy{Limit: max(minCap, min(maxItems, maxCap))}
}

// Apply truncates items to the limit.
func (p CapPolicy) Apply(items []entity.Item) []entity.Item {
	if p.Limit <= 0 || len(items) <= p.Limit {
		return items
	}
	return items[:p.Limit]
}

// Digest is the assembled, ordered content of one edition.
type Digest struct {
	Title string
	// Date is the UTC instant the edition was assembled.
	Date  time.Time
	Items []entity.Item
}

// Count is the number of items in the edition.
func (d *Digest) Count() int { return len(d.Items) }

// Top returns the first TopCount items.
func (d *Digest) Top() []entity.Item {
	return d.Items[:min(TopCount, len(d.Items))]
}

// Rest returns the items after the top section.
func (d *Digest) Rest() []entity.Item {
	return d.Items[min(TopCount, len(d.Items)):]
}

// Subject is the email subject line.
func (d *Digest) Subject() string {
	return fmt.Sprintf("%s — %s", d.Title, d.Date.Format(subjectDateLayout))
}

// LongDate is the date line shown in the email header.
func (d *Digest) LongDate() string {
	return d.Date.Format(longDateLayout)
}

// ArchiveName is the date stamp the archive file is named after.
func (d *Digest) ArchiveName() string {
	return d.Date.Format(archiveDateLayout)
}

// PreviewText is the preheader line shown by mail clients.
func (d *Digest) PreviewText() string {
	if d.Count() == 1 {
		return "1 update from the last 24 hours"
	}
	return fmt.Sprintf("%d updates from the last 24 hours", d.Count())
}

// HumanTime formats a publication timestamp for display.
func HumanTime(t time.Time) string {
	if t.IsZero() {
		return NoTimestamp
	}
	return t.UTC().Format(humanTimeLayout)
}

// Assemble caps the ranked items and stamps their display time. Order is kept.
func Assemble(ranked []entity.Item, policy CapPolicy, title string, now time.Time) *Digest {
	capped := policy.Apply(ranked)
	items := make([]entity.Item, len(capped))
	for i, it := range capped {
		it.PublishedHuman = HumanTime(it.Published)
		items[i] = it
	}
	return &Digest{Title: title, Date: now.UTC(), Items: items}
}
