package ws

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestPresenceRegistry_TouchAndForget(t *testing.T) {
	registry := NewPresenceRegistry(time.Minute)
	userID := uuid.New()

	assert.False(t, registry.Online(userID))

	registry.Touch(userID)
	assert.True(t, registry.Online(userID))

	registry.Forget(userID)
	assert.False(t, registry.Online(userID))
}

func TestPresenceRegistry_ExpiresAfterTTL(t *testing.T) {
	registry := NewPresenceRegistry(20 * time.Millisecond)
	userID := uuid.New()

	registry.Touch(userID)
	assert.True(t, registry.Online(userID))

	time.Sleep(40 * time.Millisecond)
	assert.False(t, registry.Online(userID))
}

func TestPresenceRegistry_TouchRenews(t *testing.T) {
	registry := NewPresenceRegistry(50 * time.Millisecond)
	userID := uuid.New()

	registry.Touch(userID)
	time.Sleep(30 * time.Millisecond)
	registry.Touch(userID)
	time.Sleep(30 * time.Millisecond)

	assert.True(t, registry.Online(userID))
}

func TestPresenceRegistry_Snapshot(t *testing.T) {
	registry := NewPresenceRegistry(time.Minute)
	first := uuid.New()
	second := uuid.New()

	registry.Touch(first)
	registry.Touch(second)

	online := registry.Snapshot()
	assert.Len(t, online, 2)
	assert.Contains(t, online, first)
	assert.Contains(t, online, second)

	registry.Forget(first)
	online = registry.Snapshot()
	assert.Equal(t, []uuid.UUID{second}, online)
}

func TestPresenceRegistry_SweepRemovesExpired(t *testing.T) {
	registry := NewPresenceRegistry(10 * time.Millisecond)
	userID := uuid.New()

	registry.Touch(userID)
	time.Sleep(20 * time.Millisecond)
	registry.sweep()

	registry.mu.RLock()
	_, kept := registry.seen[userID]
	registry.mu.RUnlock()
	assert.False(t, kept)
}
