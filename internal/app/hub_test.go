package app

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chairs/internal/config"
	"chairs/internal/domain"
)

func newTestHub(t *testing.T) *GameHub {
	t.Helper()
	opts := DefaultHubOptions()
	opts.Game = fastSettings()
	opts.Seed = 1
	hub := NewGameHub(opts, testLogger())
	t.Cleanup(hub.Close)
	return hub
}

func TestHubCreatesAndFindsTables(t *testing.T) {
	hub := newTestHub(t)

	a, err := hub.CreateTable()
	require.NoError(t, err)
	b, err := hub.CreateTable()
	require.NoError(t, err)

	assert.Len(t, a.GetRoomCode(), DefaultRoomCodeLength)
	assert.NotEqual(t, a.GetRoomCode(), b.GetRoomCode())
	for _, c := range a.GetRoomCode() {
		assert.Contains(t, RoomCodeChars, string(c))
	}

	found, err := hub.GetSession(a.GetRoomCode())
	require.NoError(t, err)
	assert.Same(t, a, found)

	assert.Equal(t, 2, hub.GetSessionCount())
	assert.Equal(t, 20, hub.GetTotalParticipantCount())
}

func TestHubGetSessionNotFound(t *testing.T) {
	hub := newTestHub(t)

	_, err := hub.GetSession("NOPE00")
	assert.ErrorIs(t, err, ErrTableNotFound)
}

func TestHubDeleteSessionClosesIt(t *testing.T) {
	hub := newTestHub(t)
	session, err := hub.CreateTable()
	require.NoError(t, err)

	hub.DeleteSession(session.GetRoomCode())

	assert.Equal(t, 0, hub.GetSessionCount())
	assert.ErrorIs(t, session.Start(), ErrSessionClosed)
}

func TestHubRandomPolicy(t *testing.T) {
	opts := DefaultHubOptions()
	opts.Policy = domain.PolicyRandom
	opts.Seed = 99
	hub := NewGameHub(opts, testLogger())
	defer hub.Close()

	session, err := hub.CreateTable()
	require.NoError(t, err)
	assert.Equal(t, domain.PolicyRandom, session.State().Policy)
}

func TestHubRejectsUnknownPolicy(t *testing.T) {
	opts := DefaultHubOptions()
	opts.Policy = "musical"
	hub := NewGameHub(opts, testLogger())
	defer hub.Close()

	_, err := hub.CreateTable()
	assert.ErrorIs(t, err, domain.ErrUnknownPolicy)
	assert.Equal(t, 0, hub.GetSessionCount())
}

func TestHubCleansUpStaleTables(t *testing.T) {
	hub := newTestHub(t)

	idle, err := hub.CreateTable()
	require.NoError(t, err)
	watched, err := hub.CreateTable()
	require.NoError(t, err)
	watched.RegisterClient("c1", newMockClient("c1"))

	assert.Equal(t, 0, hub.cleanupStaleTables(time.Now()))

	removed := hub.cleanupStaleTables(time.Now().Add(DefaultStaleTableTimeout + time.Minute))
	assert.Equal(t, 1, removed)

	_, err = hub.GetSession(idle.GetRoomCode())
	assert.ErrorIs(t, err, ErrTableNotFound)
	_, err = hub.GetSession(watched.GetRoomCode())
	assert.NoError(t, err)
}

func TestHubOptionsFromConfig(t *testing.T) {
	t.Setenv("PARTICIPANTS", "7")
	t.Setenv("ALLOW_RESUME", "true")
	t.Setenv("CHAIR_POLICY", "random")
	t.Setenv("TICK_HZ", "30")
	cfg := config.Load(filepath.Join(t.TempDir(), "missing.env"))

	opts := HubOptionsFromConfig(cfg)

	assert.Equal(t, 7, opts.Game.Participants)
	assert.True(t, opts.Game.AllowResume)
	assert.Equal(t, domain.PolicyRandom, opts.Policy)
	assert.Equal(t, 30, opts.Session.TickHz)
	require.NoError(t, opts.Game.Validate())
}
