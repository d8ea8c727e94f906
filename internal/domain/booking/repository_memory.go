package booking

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// memoryRepository is the demo-mode booking store.
type memoryRepository struct {
	mu       sync.RWMutex
	bookings map[uuid.UUID]*Booking
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() Repository {
	return &memoryRepository{bookings: make(map[uuid.UUID]*Booking)}
}

func copyBooking(b *Booking) *Booking {
	out := *b
	out.AddOns = append([]AddOnLine(nil), b.AddOns...)
	return &out
}

func (r *memoryRepository) Create(ctx context.Context, b *Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings[b.ID] = copyBooking(b)
	return nil
}

func (r *memoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyBooking(b), nil
}

func (r *memoryRepository) GetByReference(ctx context.Context, ref string) (*Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, b := range r.bookings {
		if b.Reference == ref {
			return copyBooking(b), nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryRepository) ListByCustomer(ctx context.Context, customerID string) ([]*Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*Booking{}
	for _, b := range r.bookings {
		if b.CustomerID == customerID {
			out = append(out, copyBooking(b))
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *memoryRepository) List(ctx context.Context, f Filter) ([]*Booking, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := []*Booking{}
	for _, b := range r.bookings {
		if f.Status != "" && b.Status != f.Status {
			continue
		}
		if f.ExperienceID != uuid.Nil && b.ExperienceID != f.ExperienceID {
			continue
		}
		if f.Date != "" && b.Date != f.Date {
			continue
		}
		matched = append(matched, copyBooking(b))
	}
	sortNewestFirst(matched)

	total := len(matched)
	if f.Offset >= total {
		return []*Booking{}, total, nil
	}
	end := f.Offset + f.Limit
	if f.Limit <= 0 || end > total {
		end = total
	}
	return matched[f.Offset:end], total, nil
}

func (r *memoryRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok {
		return ErrNotFound
	}
	b.Status = status
	b.UpdatedAt = time.Now()
	return nil
}

func (r *memoryRepository) Stats(ctx context.Context) (*StatsResponse, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := &StatsResponse{ByStatus: make(map[string]int)}
	counts := make(map[string]int)
	for _, b := range r.bookings {
		stats.Total++
		stats.ByStatus[string(b.Status)]++
		if b.Status == StatusConfirmed || b.Status == StatusCompleted {
			stats.Revenue += b.TotalPrice
		}
		if b.Status != StatusCancelled {
			counts[b.ExperienceTitle]++
		}
	}

	for title, count := range counts {
		stats.TopTitles = append(stats.TopTitles, TitleCount{Title: title, Count: count})
	}
	sort.Slice(stats.TopTitles, func(i, j int) bool {
		if stats.TopTitles[i].Count != stats.TopTitles[j].Count {
			return stats.TopTitles[i].Count > stats.TopTitles[j].Count
		}
		return stats.TopTitles[i].Title < stats.TopTitles[j].Title
	})
	if len(stats.TopTitles) > 5 {
		stats.TopTitles = stats.TopTitles[:5]
	}
	return stats, nil
}

func sortNewestFirst(bookings []*Booking) {
	sort.Slice(bookings, func(i, j int) bool {
		return bookings[i].CreatedAt.After(bookings[j].CreatedAt)
	})
}
