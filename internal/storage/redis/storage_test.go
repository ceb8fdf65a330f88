package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/SarvaniBalivada/sports-schedular/internal/dependencies/mocks"
	"github.com/SarvaniBalivada/sports-schedular/internal/model"
)

type DenylistSuite struct {
	suite.Suite
	mini     *miniredis.Miniredis
	clock    *mocks.MockClock
	denylist *Denylist
	ctx      context.Context
}

func TestDenylistSuite(t *testing.T) {
	suite.Run(t, new(DenylistSuite))
}

func (s *DenylistSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	s.clock = mocks.NewMockClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	s.denylist = NewWithClient(client, s.clock)
	s.ctx = context.Background()
}

func (s *DenylistSuite) TearDownTest() {
	if s.denylist != nil {
		_ = s.denylist.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *DenylistSuite) TestRevokeAndCheck() {
	revoked, err := s.denylist.IsRevoked(s.ctx, "jti-1")
	s.Require().NoError(err)
	s.False(revoked)

	err = s.denylist.Revoke(s.ctx, "jti-1", s.clock.Now().Add(time.Hour))
	s.Require().NoError(err)

	revoked, err = s.denylist.IsRevoked(s.ctx, "jti-1")
	s.Require().NoError(err)
	s.True(revoked)

	revoked, err = s.denylist.IsRevoked(s.ctx, "jti-2")
	s.Require().NoError(err)
	s.False(revoked)
}

func (s *DenylistSuite) TestKeyExpiresWithToken() {
	err := s.denylist.Revoke(s.ctx, "jti-1", s.clock.Now().Add(30*time.Minute))
	s.Require().NoError(err)

	s.Equal(30*time.Minute, s.mini.TTL(revokedTokenKey("jti-1")))

	s.mini.FastForward(31 * time.Minute)

	revoked, err := s.denylist.IsRevoked(s.ctx, "jti-1")
	s.Require().NoError(err)
	s.False(revoked)
}

func (s *DenylistSuite) TestRevokeExpiredTokenIsNoop() {
	err := s.denylist.Revoke(s.ctx, "jti-1", s.clock.Now().Add(-time.Minute))
	s.Require().NoError(err)
	s.False(s.mini.Exists(revokedTokenKey("jti-1")))
}

func (s *DenylistSuite) TestUnavailable() {
	s.mini.Close()

	_, err := s.denylist.IsRevoked(s.ctx, "jti-1")
	s.ErrorIs(err, model.ErrUnavailable)
}
