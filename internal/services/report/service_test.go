package report

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/SarvaniBalivada/sports-schedular/internal/model"
	"github.com/SarvaniBalivada/sports-schedular/internal/storage/memory"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	service *Service
	ctx     context.Context
	admin   model.Identity
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.service = New(s.storage, time.UTC)
	s.ctx = context.Background()

	admin := &model.User{Name: "Admin", Email: "admin@example.com", Role: model.RoleAdmin}
	s.Require().NoError(s.storage.SaveUser(s.ctx, admin))
	s.admin = model.Identity{UserID: admin.ID, Role: model.RoleAdmin}

	football := &model.Sport{Name: "Football", CreatedBy: admin.ID}
	tennis := &model.Sport{Name: "Tennis", CreatedBy: admin.ID}
	s.Require().NoError(s.storage.SaveSport(s.ctx, football))
	s.Require().NoError(s.storage.SaveSport(s.ctx, tennis))

	for _, seed := range []struct {
		sport model.SportID
		at    time.Time
	}{
		{football.ID, time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)},
		{football.ID, time.Date(2024, 6, 15, 18, 0, 0, 0, time.UTC)},
		{football.ID, time.Date(2024, 6, 30, 23, 59, 0, 0, time.UTC)},
		{tennis.ID, time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)},
		{tennis.ID, time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)},
	} {
		s.Require().NoError(s.storage.SaveSession(s.ctx, &model.Session{
			SportID: seed.sport, CreatorID: admin.ID, DateTime: seed.at,
			Venue: "Park", MaxPlayers: 4, Status: model.SessionStatusActive,
		}))
	}
}

func june() model.DateRange {
	return model.DateRange{
		Start: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC),
	}
}

func (s *ServiceSuite) TestReportForRange() {
	report, err := s.service.SessionReport(s.ctx, s.admin, june())
	s.Require().NoError(err)
	s.Equal(4, report.TotalSessions)
	s.Equal([]model.SportCount{
		{Name: "Football", Count: 3},
		{Name: "Tennis", Count: 1},
	}, report.SportPopularity)
}

func (s *ServiceSuite) TestDefaultRangeCoversEverything() {
	report, err := s.service.SessionReport(s.ctx, s.admin, model.DateRange{})
	s.Require().NoError(err)
	s.Equal(5, report.TotalSessions)
	s.Equal(model.DefaultReportRange(), report.Range)
	s.Equal([]model.SportCount{
		{Name: "Football", Count: 3},
		{Name: "Tennis", Count: 2},
	}, report.SportPopularity)
}

func (s *ServiceSuite) TestTiesOrderedByName() {
	r := model.DateRange{
		Start: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
	}
	report, err := s.service.SessionReport(s.ctx, s.admin, r)
	s.Require().NoError(err)
	s.Equal([]model.SportCount{
		{Name: "Football", Count: 1},
		{Name: "Tennis", Count: 1},
	}, report.SportPopularity)
}

func (s *ServiceSuite) TestNonAdminForbidden() {
	_, err := s.service.SessionReport(s.ctx, model.Identity{UserID: 2, Role: model.RolePlayer}, june())
	s.ErrorIs(err, model.ErrForbidden)
}

func (s *ServiceSuite) TestInvertedRangeInvalid() {
	r := june()
	r.Start, r.End = r.End, r.Start
	_, err := s.service.SessionReport(s.ctx, s.admin, r)
	s.ErrorIs(err, model.ErrInvalidInput)
}

func (s *ServiceSuite) TestEmptyRange() {
	r := model.DateRange{
		Start: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2030, 1, 2, 0, 0, 0, 0, time.UTC),
	}
	report, err := s.service.SessionReport(s.ctx, s.admin, r)
	s.Require().NoError(err)
	s.Zero(report.TotalSessions)
	s.Empty(report.SportPopularity)
}
