package dialog

import "context"

// OrderRepository looks up orders by id.
type OrderRepository interface {
	GetByID(ctx context.Context, orderID string) (Order, bool, error)
}

// SessionStore persists dialog state. Load of an unknown id returns an Idle
// session and no error.
type SessionStore interface {
	Load(ctx context.Context, id string) (Session, error)
	Save(ctx context.Context, session Session) error
}
