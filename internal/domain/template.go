package domain

import "time"

// TemplateRevision is an immutable version of an event's outbound
// message text. Revisions are never updated or deleted; the current
// template is the most recently created revision.
type TemplateRevision struct {
	ID        string
	EventID   string
	Content   string
	CreatedBy string
	CreatedAt time.Time
}
