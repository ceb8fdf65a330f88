package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSeedTeamAlternates(t *testing.T) {
	assert.Equal(t, Team1, SeedTeam(0))
	assert.Equal(t, Team2, SeedTeam(1))
	assert.Equal(t, Team1, SeedTeam(2))
	assert.Equal(t, Team2, SeedTeam(3))
}

func TestTeamCountsNext(t *testing.T) {
	tests := []struct {
		name   string
		counts TeamCounts
		want   Team
	}{
		{"empty session goes to team 1", TeamCounts{}, Team1},
		{"team 1 ahead goes to team 2", TeamCounts{Team1: 1, Team2: 0}, Team2},
		{"tie goes to team 1", TeamCounts{Team1: 2, Team2: 2}, Team1},
		{"team 2 ahead goes to team 1", TeamCounts{Team1: 0, Team2: 1}, Team1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.counts.Next())
		})
	}
}

func TestTeamCountsAdd(t *testing.T) {
	var c TeamCounts
	c.Add(Team1)
	c.Add(Team2)
	c.Add(Team2)
	c.Add(Team(3))

	assert.Equal(t, 1, c.Team1)
	assert.Equal(t, 2, c.Team2)
	assert.Equal(t, 3, c.Total())
}

func TestSessionIsJoinable(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(time.Hour)

	tests := []struct {
		name    string
		session Session
		current int
		want    bool
	}{
		{"active future with room", Session{Status: SessionStatusActive, DateTime: future, MaxPlayers: 2}, 1, true},
		{"full", Session{Status: SessionStatusActive, DateTime: future, MaxPlayers: 2}, 2, false},
		{"cancelled", Session{Status: SessionStatusCancelled, DateTime: future, MaxPlayers: 2}, 0, false},
		{"scheduled now", Session{Status: SessionStatusActive, DateTime: now, MaxPlayers: 2}, 0, false},
		{"in the past", Session{Status: SessionStatusActive, DateTime: now.Add(-time.Minute), MaxPlayers: 2}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.session.IsJoinable(now, tt.current))
		})
	}
}
