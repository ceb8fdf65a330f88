package report

import (
	"context"
	"time"

	"github.com/SarvaniBalivada/sports-schedular/internal/model"
	"github.com/SarvaniBalivada/sports-schedular/internal/storage"
)

// Service aggregates session activity for administrators
type Service struct {
	storage storage.Storage
	loc     *time.Location
}

// New creates a new report Service. Date ranges are interpreted as calendar
// dates in loc.
func New(storage storage.Storage, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{storage: storage, loc: loc}
}

// SessionReport counts sessions scheduled within the inclusive date range,
// overall and per sport. Only admins may request it.
func (s *Service) SessionReport(ctx context.Context, requester model.Identity, r model.DateRange) (*model.Report, error) {
	if !requester.IsAdmin() {
		return nil, model.ErrAdminRequired
	}

	defaults := model.DefaultReportRange()
	if r.Start.IsZero() {
		r.Start = defaults.Start
	}
	if r.End.IsZero() {
		r.End = defaults.End
	}
	if r.End.Before(r.Start) {
		return nil, model.Invalid("end date must not be before start date")
	}

	from, to := r.Bounds(s.loc)

	total, err := s.storage.CountSessions(ctx, from, to)
	if err != nil {
		return nil, err
	}
	popularity, err := s.storage.CountSessionsBySport(ctx, from, to)
	if err != nil {
		return nil, err
	}

	return &model.Report{
		Range:           r,
		TotalSessions:   total,
		SportPopularity: popularity,
	}, nil
}
