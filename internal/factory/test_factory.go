package factory

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/SarvaniBalivada/sports-schedular/internal/dependencies/mocks"
	"github.com/SarvaniBalivada/sports-schedular/internal/metrics"
	"github.com/SarvaniBalivada/sports-schedular/internal/services/auth"
	"github.com/SarvaniBalivada/sports-schedular/internal/services/session"
	"github.com/SarvaniBalivada/sports-schedular/internal/storage/memory"
	"github.com/SarvaniBalivada/sports-schedular/internal/testutil"
)

// TestAppStart is the instant the mock clock starts at
var TestAppStart = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock *mocks.MockClock
	Memory    *memory.Storage
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(TestAppStart)

	authCfg := auth.DefaultConfig()
	authCfg.Secret = "test-secret"
	authCfg.BcryptCost = bcrypt.MinCost

	app := newWithDependencies(store, store, mockClock, metrics.New(), authCfg, session.DefaultConfig(), testutil.NopLogger())

	return &TestApp{
		App:       app,
		MockClock: mockClock,
		Memory:    store,
	}
}
