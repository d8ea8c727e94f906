package newsletter

import (
	"time"

	"github.com/google/uuid"
)

// Subscriber is one newsletter signup. Unsubscribing keeps the row
// with Active=false so a later resubscribe restores it.
type Subscriber struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	Email          string     `db:"email" json:"email"`
	Active         bool       `db:"active" json:"active"`
	SubscribedAt   time.Time  `db:"subscribed_at" json:"subscribed_at"`
	UnsubscribedAt *time.Time `db:"unsubscribed_at" json:"unsubscribed_at,omitempty"`
}
