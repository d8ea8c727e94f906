package experience

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Filter narrows catalog listings.
type Filter struct {
	Category string
	Location string
}

// Repository abstracts experience persistence so the pricing and
// availability core never depends on a concrete storage mechanism.
// Implementations: Postgres, in-memory (demo mode), Redis cache
// decorator.
type Repository interface {
	List(ctx context.Context, f Filter) ([]*Experience, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Experience, error)
	GetBySlug(ctx context.Context, slug string) (*Experience, error)
	Create(ctx context.Context, exp *Experience) error
	Update(ctx context.Context, exp *Experience) error
	Delete(ctx context.Context, id uuid.UUID) error

	// ReserveSeat increments a slot's booking count iff the slot is
	// still bookable. ReleaseSeat undoes one reservation.
	ReserveSeat(ctx context.Context, slotID uuid.UUID) error
	ReleaseSeat(ctx context.Context, slotID uuid.UUID) error

	// AddImage records an uploaded image pending processing.
	AddImage(ctx context.Context, img *Image) error
}

// Image processing states, advanced by the image worker.
const (
	ImageStatusPending = "pending"
	ImageStatusDone    = "done"
	ImageStatusFailed  = "failed"
)

// Image is an uploaded experience photo awaiting (or done with)
// optimization by the image worker.
type Image struct {
	ID            uuid.UUID `db:"id" json:"id"`
	ExperienceID  uuid.UUID `db:"experience_id" json:"experience_id"`
	ObjectKey     string    `db:"object_key" json:"object_key"`
	URL           string    `db:"url" json:"url"`
	ProcessStatus string    `db:"process_status" json:"process_status"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

type postgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates the Postgres-backed repository.
func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

// experienceRow maps the experiences table. Array and JSONB columns
// need explicit conversion.
type experienceRow struct {
	ID               uuid.UUID      `db:"id"`
	Title            string         `db:"title"`
	Slug             string         `db:"slug"`
	Category         string         `db:"category"`
	Location         string         `db:"location"`
	Duration         string         `db:"duration"`
	BasePrice        int64          `db:"base_price"`
	Rating           float64        `db:"rating"`
	ShortDescription string         `db:"short_description"`
	Description      string         `db:"description"`
	Images           pq.StringArray `db:"images"`
	Highlights       pq.StringArray `db:"highlights"`
	Included         pq.StringArray `db:"included"`
	Pricing          []byte         `db:"pricing"`
	CreatedAt        time.Time      `db:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at"`
}

func (r experienceRow) toEntity() (*Experience, error) {
	exp := &Experience{
		ID:               r.ID,
		Title:            r.Title,
		Slug:             r.Slug,
		Category:         r.Category,
		Location:         r.Location,
		Duration:         r.Duration,
		BasePrice:        r.BasePrice,
		Rating:           r.Rating,
		ShortDescription: r.ShortDescription,
		Description:      r.Description,
		Images:           r.Images,
		Highlights:       r.Highlights,
		Included:         r.Included,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
	if len(r.Pricing) > 0 {
		if err := json.Unmarshal(r.Pricing, &exp.Pricing); err != nil {
			return nil, err
		}
	}
	return exp, nil
}

func (r *postgresRepository) List(ctx context.Context, f Filter) ([]*Experience, error) {
	query := `SELECT * FROM experiences WHERE 1=1`
	args := []interface{}{}

	if f.Category != "" {
		args = append(args, f.Category)
		query += ` AND category = $1`
	}
	if f.Location != "" {
		args = append(args, f.Location)
		if len(args) == 1 {
			query += ` AND location = $1`
		} else {
			query += ` AND location = $2`
		}
	}
	query += ` ORDER BY created_at DESC`

	var rows []experienceRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	experiences := make([]*Experience, 0, len(rows))
	for _, row := range rows {
		exp, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		if err := r.loadRelations(ctx, exp); err != nil {
			return nil, err
		}
		experiences = append(experiences, exp)
	}
	return experiences, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Experience, error) {
	return r.getOne(ctx, `SELECT * FROM experiences WHERE id = $1`, id)
}

func (r *postgresRepository) GetBySlug(ctx context.Context, slug string) (*Experience, error) {
	return r.getOne(ctx, `SELECT * FROM experiences WHERE slug = $1`, slug)
}

func (r *postgresRepository) getOne(ctx context.Context, query string, arg interface{}) (*Experience, error) {
	var row experienceRow
	if err := r.db.GetContext(ctx, &row, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	exp, err := row.toEntity()
	if err != nil {
		return nil, err
	}
	if err := r.loadRelations(ctx, exp); err != nil {
		return nil, err
	}
	return exp, nil
}

// loadRelations fills add-ons and the availability calendar.
func (r *postgresRepository) loadRelations(ctx context.Context, exp *Experience) error {
	if err := r.db.SelectContext(ctx, &exp.AddOns,
		`SELECT * FROM add_ons WHERE experience_id = $1 ORDER BY name`, exp.ID); err != nil {
		return err
	}

	if err := r.db.SelectContext(ctx, &exp.Availability,
		`SELECT id, experience_id, to_char(day, 'YYYY-MM-DD') AS day
		 FROM availability_days WHERE experience_id = $1 ORDER BY day`, exp.ID); err != nil {
		return err
	}

	for i := range exp.Availability {
		if err := r.db.SelectContext(ctx, &exp.Availability[i].Slots,
			`SELECT id, day_id, to_char(slot_time, 'HH24:MI') AS slot_time,
			        booking_type, max_capacity, current_bookings, available
			 FROM time_slots WHERE day_id = $1 ORDER BY slot_time`,
			exp.Availability[i].ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *postgresRepository) Create(ctx context.Context, exp *Experience) error {
	pricing, err := json.Marshal(exp.Pricing)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO experiences (id, title, slug, category, location, duration, base_price,
		                         rating, short_description, description, images, highlights,
		                         included, pricing, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`,
		exp.ID, exp.Title, exp.Slug, exp.Category, exp.Location, exp.Duration, exp.BasePrice,
		exp.Rating, exp.ShortDescription, exp.Description, pq.StringArray(exp.Images),
		pq.StringArray(exp.Highlights), pq.StringArray(exp.Included), pricing,
		exp.CreatedAt, exp.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrSlugTaken
		}
		return err
	}

	if err := upsertRelations(ctx, tx, exp); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *postgresRepository) Update(ctx context.Context, exp *Experience) error {
	pricing, err := json.Marshal(exp.Pricing)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE experiences
		SET title = $2, slug = $3, category = $4, location = $5, duration = $6,
		    base_price = $7, rating = $8, short_description = $9, description = $10,
		    images = $11, highlights = $12, included = $13, pricing = $14, updated_at = $15
		WHERE id = $1`,
		exp.ID, exp.Title, exp.Slug, exp.Category, exp.Location, exp.Duration,
		exp.BasePrice, exp.Rating, exp.ShortDescription, exp.Description,
		pq.StringArray(exp.Images), pq.StringArray(exp.Highlights),
		pq.StringArray(exp.Included), pricing, exp.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrSlugTaken
		}
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return ErrNotFound
	}

	// Replace add-ons and calendar wholesale; admin edits send the
	// full document.
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM add_ons WHERE experience_id = $1`, exp.ID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM availability_days WHERE experience_id = $1`, exp.ID); err != nil {
		return err
	}
	if err := upsertRelations(ctx, tx, exp); err != nil {
		return err
	}
	return tx.Commit()
}

func upsertRelations(ctx context.Context, tx *sqlx.Tx, exp *Experience) error {
	for i := range exp.AddOns {
		a := &exp.AddOns[i]
		if a.ID == uuid.Nil {
			a.ID = uuid.New()
		}
		a.ExperienceID = exp.ID
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO add_ons (id, experience_id, name, price, calculation_type, active, description)
			VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			a.ID, a.ExperienceID, a.Name, a.Price, a.CalculationType, a.Active, a.Description); err != nil {
			return err
		}
	}

	for i := range exp.Availability {
		d := &exp.Availability[i]
		if d.ID == uuid.Nil {
			d.ID = uuid.New()
		}
		d.ExperienceID = exp.ID
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO availability_days (id, experience_id, day)
			VALUES ($1,$2,$3)`, d.ID, d.ExperienceID, d.Date); err != nil {
			return err
		}
		for j := range d.Slots {
			s := &d.Slots[j]
			if s.ID == uuid.Nil {
				s.ID = uuid.New()
			}
			s.DayID = d.ID
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO time_slots (id, day_id, slot_time, booking_type, max_capacity, current_bookings, available)
				VALUES ($1,$2,$3,$4,$5,$6,$7)`,
				s.ID, s.DayID, s.Time, s.BookingType, s.MaxCapacity, s.CurrentBookings, s.Available); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM experiences WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return ErrNotFound
	}
	return nil
}

// ReserveSeat takes one seat in a slot. The WHERE clause re-checks the
// bookable invariant so a slot that filled up since the quote is
// rejected, not oversold.
func (r *postgresRepository) ReserveSeat(ctx context.Context, slotID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE time_slots
		SET current_bookings = current_bookings + 1
		WHERE id = $1 AND available = true AND current_bookings < max_capacity`, slotID)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		var exists bool
		if err := r.db.GetContext(ctx, &exists,
			`SELECT EXISTS (SELECT 1 FROM time_slots WHERE id = $1)`, slotID); err != nil {
			return err
		}
		if !exists {
			return ErrSlotNotFound
		}
		return ErrSlotFull
	}
	return nil
}

func (r *postgresRepository) ReleaseSeat(ctx context.Context, slotID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE time_slots
		SET current_bookings = current_bookings - 1
		WHERE id = $1 AND current_bookings > 0`, slotID)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return ErrSlotNotFound
	}
	return nil
}

func (r *postgresRepository) AddImage(ctx context.Context, img *Image) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO experience_images (id, experience_id, object_key, url, process_status, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		img.ID, img.ExperienceID, img.ObjectKey, img.URL, img.ProcessStatus, img.CreatedAt)
	return err
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
