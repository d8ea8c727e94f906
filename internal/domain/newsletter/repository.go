package newsletter

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository abstracts subscriber persistence.
type Repository interface {
	Upsert(ctx context.Context, email string) (*Subscriber, bool, error)
	Deactivate(ctx context.Context, email string) error
	List(ctx context.Context, activeOnly bool) ([]*Subscriber, error)
	CountActive(ctx context.Context) (int, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates the Postgres-backed repository.
func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

// Upsert subscribes an email, reactivating a previous unsubscribe.
// Returns the subscriber and whether the row was newly active.
func (r *postgresRepository) Upsert(ctx context.Context, email string) (*Subscriber, bool, error) {
	var sub Subscriber
	err := r.db.GetContext(ctx, &sub,
		`SELECT * FROM newsletter_subscribers WHERE email = $1`, email)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, false, err
	}

	if errors.Is(err, sql.ErrNoRows) {
		sub = Subscriber{
			ID:           uuid.New(),
			Email:        email,
			Active:       true,
			SubscribedAt: time.Now(),
		}
		_, err = r.db.ExecContext(ctx, `
			INSERT INTO newsletter_subscribers (id, email, active, subscribed_at)
			VALUES ($1,$2,$3,$4)`, sub.ID, sub.Email, sub.Active, sub.SubscribedAt)
		if err != nil {
			return nil, false, err
		}
		return &sub, true, nil
	}

	if sub.Active {
		return &sub, false, nil
	}

	sub.Active = true
	sub.UnsubscribedAt = nil
	sub.SubscribedAt = time.Now()
	_, err = r.db.ExecContext(ctx, `
		UPDATE newsletter_subscribers
		SET active = true, unsubscribed_at = NULL, subscribed_at = $2
		WHERE email = $1`, email, sub.SubscribedAt)
	if err != nil {
		return nil, false, err
	}
	return &sub, true, nil
}

func (r *postgresRepository) Deactivate(ctx context.Context, email string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE newsletter_subscribers
		SET active = false, unsubscribed_at = NOW()
		WHERE email = $1 AND active = true`, email)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return ErrNotSubscribed
	}
	return nil
}

func (r *postgresRepository) List(ctx context.Context, activeOnly bool) ([]*Subscriber, error) {
	query := `SELECT * FROM newsletter_subscribers`
	if activeOnly {
		query += ` WHERE active = true`
	}
	query += ` ORDER BY subscribed_at DESC`

	var subs []*Subscriber
	if err := r.db.SelectContext(ctx, &subs, query); err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *postgresRepository) CountActive(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM newsletter_subscribers WHERE active = true`)
	return count, err
}

// memoryRepository is the demo-mode subscriber store.
type memoryRepository struct {
	mu   sync.RWMutex
	subs map[string]*Subscriber
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() Repository {
	return &memoryRepository{subs: make(map[string]*Subscriber)}
}

func (r *memoryRepository) Upsert(ctx context.Context, email string) (*Subscriber, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(email)
	if sub, ok := r.subs[key]; ok {
		if sub.Active {
			out := *sub
			return &out, false, nil
		}
		sub.Active = true
		sub.UnsubscribedAt = nil
		sub.SubscribedAt = time.Now()
		out := *sub
		return &out, true, nil
	}

	sub := &Subscriber{
		ID:           uuid.New(),
		Email:        email,
		Active:       true,
		SubscribedAt: time.Now(),
	}
	r.subs[key] = sub
	out := *sub
	return &out, true, nil
}

func (r *memoryRepository) Deactivate(ctx context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sub, ok := r.subs[strings.ToLower(email)]
	if !ok || !sub.Active {
		return ErrNotSubscribed
	}
	now := time.Now()
	sub.Active = false
	sub.UnsubscribedAt = &now
	return nil
}

func (r *memoryRepository) List(ctx context.Context, activeOnly bool) ([]*Subscriber, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*Subscriber{}
	for _, sub := range r.subs {
		if activeOnly && !sub.Active {
			continue
		}
		copied := *sub
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].SubscribedAt.After(out[j].SubscribedAt)
	})
	return out, nil
}

func (r *memoryRepository) CountActive(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, sub := range r.subs {
		if sub.Active {
			count++
		}
	}
	return count, nil
}
