package dashboard

import (
	"context"

	"github.com/sanskriti-tours/sanskriti-api/internal/domain/booking"
	"github.com/sanskriti-tours/sanskriti-api/internal/domain/experience"
	"github.com/sanskriti-tours/sanskriti-api/internal/domain/newsletter"
)

// AdminOverview is the back-office landing page payload.
type AdminOverview struct {
	Experiences       int                    `json:"experiences"`
	Bookings          *booking.StatsResponse `json:"bookings"`
	ActiveSubscribers int                    `json:"active_subscribers"`
}

// CustomerSummary is the customer dashboard header payload.
type CustomerSummary struct {
	TotalBookings int            `json:"total_bookings"`
	ByStatus      map[string]int `json:"by_status"`
	TotalSpent    int64          `json:"total_spent"`
	Upcoming      int            `json:"upcoming"`
}

// Service aggregates stats from the other domains.
type Service struct {
	expRepo    experience.Repository
	bookingSvc *booking.Service
	newsSvc    *newsletter.Service
}

// NewService creates dashboard service
func NewService(expRepo experience.Repository, bookingSvc *booking.Service, newsSvc *newsletter.Service) *Service {
	return &Service{expRepo: expRepo, bookingSvc: bookingSvc, newsSvc: newsSvc}
}

// AdminOverview builds the back-office landing page stats.
func (s *Service) AdminOverview(ctx context.Context) (*AdminOverview, error) {
	experiences, err := s.expRepo.List(ctx, experience.Filter{})
	if err != nil {
		return nil, err
	}
	bookingStats, err := s.bookingSvc.Stats(ctx)
	if err != nil {
		return nil, err
	}
	subscribers, err := s.newsSvc.CountActive(ctx)
	if err != nil {
		return nil, err
	}

	return &AdminOverview{
		Experiences:       len(experiences),
		Bookings:          bookingStats,
		ActiveSubscribers: subscribers,
	}, nil
}

// CustomerSummary builds the customer dashboard header from their
// booking history.
func (s *Service) CustomerSummary(ctx context.Context, customerID string) (*CustomerSummary, error) {
	bookings, err := s.bookingSvc.ListMine(ctx, customerID)
	if err != nil {
		return nil, err
	}

	summary := &CustomerSummary{ByStatus: make(map[string]int)}
	for _, b := range bookings {
		summary.TotalBookings++
		summary.ByStatus[string(b.Status)]++
		switch b.Status {
		case booking.StatusConfirmed, booking.StatusCompleted:
			summary.TotalSpent += b.TotalPrice
		}
		if b.Status == booking.StatusPending || b.Status == booking.StatusConfirmed {
			summary.Upcoming++
		}
	}
	return summary, nil
}
