package experience

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// memoryRepository is the demo-mode store: everything lives in one
// guarded map, replacing the browser-localStorage blob the product
// originally shipped with. Also used by tests.
type memoryRepository struct {
	mu          sync.RWMutex
	experiences map[uuid.UUID]*Experience
	images      []*Image
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() Repository {
	return &memoryRepository{
		experiences: make(map[uuid.UUID]*Experience),
	}
}

// NewMemoryRepositoryFromSeed creates an in-memory repository
// populated from a JSON seed file holding an array of experiences.
func NewMemoryRepositoryFromSeed(path string) (Repository, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var seeded []*Experience
	if err := json.Unmarshal(data, &seeded); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}

	repo := &memoryRepository{
		experiences: make(map[uuid.UUID]*Experience, len(seeded)),
	}
	now := time.Now()
	for _, exp := range seeded {
		if exp.ID == uuid.Nil {
			exp.ID = uuid.New()
		}
		if exp.CreatedAt.IsZero() {
			exp.CreatedAt = now
		}
		exp.UpdatedAt = exp.CreatedAt
		assignRelationIDs(exp)
		repo.experiences[exp.ID] = exp
	}
	return repo, nil
}

func assignRelationIDs(exp *Experience) {
	for i := range exp.AddOns {
		if exp.AddOns[i].ID == uuid.Nil {
			exp.AddOns[i].ID = uuid.New()
		}
		exp.AddOns[i].ExperienceID = exp.ID
	}
	for i := range exp.Availability {
		d := &exp.Availability[i]
		if d.ID == uuid.Nil {
			d.ID = uuid.New()
		}
		d.ExperienceID = exp.ID
		for j := range d.Slots {
			if d.Slots[j].ID == uuid.Nil {
				d.Slots[j].ID = uuid.New()
			}
			d.Slots[j].DayID = d.ID
		}
	}
}

// clone deep-copies via JSON so callers never share memory with the
// store.
func clone(exp *Experience) *Experience {
	data, _ := json.Marshal(exp)
	var out Experience
	_ = json.Unmarshal(data, &out)
	out.ID = exp.ID
	out.CreatedAt = exp.CreatedAt
	out.UpdatedAt = exp.UpdatedAt
	for i := range exp.AddOns {
		out.AddOns[i].ID = exp.AddOns[i].ID
		out.AddOns[i].ExperienceID = exp.AddOns[i].ExperienceID
	}
	for i := range exp.Availability {
		out.Availability[i].ID = exp.Availability[i].ID
		out.Availability[i].ExperienceID = exp.Availability[i].ExperienceID
		for j := range exp.Availability[i].Slots {
			out.Availability[i].Slots[j].ID = exp.Availability[i].Slots[j].ID
			out.Availability[i].Slots[j].DayID = exp.Availability[i].Slots[j].DayID
		}
	}
	return &out
}

func (r *memoryRepository) List(ctx context.Context, f Filter) ([]*Experience, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Experience, 0, len(r.experiences))
	for _, exp := range r.experiences {
		if f.Category != "" && exp.Category != f.Category {
			continue
		}
		if f.Location != "" && exp.Location != f.Location {
			continue
		}
		out = append(out, clone(exp))
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *memoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*Experience, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	exp, ok := r.experiences[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(exp), nil
}

func (r *memoryRepository) GetBySlug(ctx context.Context, slug string) (*Experience, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, exp := range r.experiences {
		if exp.Slug == slug {
			return clone(exp), nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryRepository) Create(ctx context.Context, exp *Experience) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.experiences {
		if existing.Slug == exp.Slug {
			return ErrSlugTaken
		}
	}
	assignRelationIDs(exp)
	r.experiences[exp.ID] = clone(exp)
	return nil
}

func (r *memoryRepository) Update(ctx context.Context, exp *Experience) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.experiences[exp.ID]; !ok {
		return ErrNotFound
	}
	for _, existing := range r.experiences {
		if existing.ID != exp.ID && existing.Slug == exp.Slug {
			return ErrSlugTaken
		}
	}
	assignRelationIDs(exp)
	r.experiences[exp.ID] = clone(exp)
	return nil
}

func (r *memoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.experiences[id]; !ok {
		return ErrNotFound
	}
	delete(r.experiences, id)
	return nil
}

func (r *memoryRepository) ReserveSeat(ctx context.Context, slotID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	slot := r.findSlot(slotID)
	if slot == nil {
		return ErrSlotNotFound
	}
	if !slot.Bookable() {
		return ErrSlotFull
	}
	slot.CurrentBookings++
	return nil
}

func (r *memoryRepository) ReleaseSeat(ctx context.Context, slotID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	slot := r.findSlot(slotID)
	if slot == nil {
		return ErrSlotNotFound
	}
	if slot.CurrentBookings > 0 {
		slot.CurrentBookings--
	}
	return nil
}

func (r *memoryRepository) findSlot(slotID uuid.UUID) *TimeSlot {
	for _, exp := range r.experiences {
		for i := range exp.Availability {
			for j := range exp.Availability[i].Slots {
				if exp.Availability[i].Slots[j].ID == slotID {
					return &exp.Availability[i].Slots[j]
				}
			}
		}
	}
	return nil
}

func (r *memoryRepository) AddImage(ctx context.Context, img *Image) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.images = append(r.images, img)
	if exp, ok := r.experiences[img.ExperienceID]; ok {
		exp.Images = append(exp.Images, img.URL)
	}
	return nil
}
