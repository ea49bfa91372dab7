package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testConfig() Config {
	return Config{
		General: AuthLimits{
			Authenticated:   Limit{Capacity: 3, RefillTokens: 3, RefillInterval: time.Minute},
			Unauthenticated: Limit{Capacity: 1, RefillTokens: 1, RefillInterval: time.Hour},
		},
		RAG: AuthLimits{
			Authenticated:   Limit{Capacity: 2, RefillTokens: 2, RefillInterval: 30 * time.Second},
			Unauthenticated: Limit{Capacity: 1, RefillTokens: 1, RefillInterval: time.Minute},
		},
	}
}

func TestAllow_ExhaustsCapacity(t *testing.T) {
	l := New(testConfig())

	assert.True(t, l.Allow("user:1", CategoryGeneral, true))
	assert.True(t, l.Allow("user:1", CategoryGeneral, true))
	assert.True(t, l.Allow("user:1", CategoryGeneral, true))
	assert.False(t, l.Allow("user:1", CategoryGeneral, true))
}

func TestAllow_KeysAreIndependent(t *testing.T) {
	l := New(testConfig())

	assert.True(t, l.Allow("ip:10.0.0.1", CategoryGeneral, false))
	assert.False(t, l.Allow("ip:10.0.0.1", CategoryGeneral, false))

	// A different key still has a full bucket.
	assert.True(t, l.Allow("ip:10.0.0.2", CategoryGeneral, false))
}

func TestAllow_CategoriesAreIndependent(t *testing.T) {
	l := New(testConfig())

	assert.True(t, l.Allow("user:7", CategoryRAG, true))
	assert.True(t, l.Allow("user:7", CategoryRAG, true))
	assert.False(t, l.Allow("user:7", CategoryRAG, true))

	// General bucket for the same key is untouched.
	assert.True(t, l.Allow("user:7", CategoryGeneral, true))
}

func TestRetryAfter_SingleLookup(t *testing.T) {
	l := New(testConfig())

	assert.Equal(t, time.Minute, l.RetryAfter(CategoryGeneral, true))
	assert.Equal(t, time.Hour, l.RetryAfter(CategoryGeneral, false))
	assert.Equal(t, 30*time.Second, l.RetryAfter(CategoryRAG, true))
	assert.Equal(t, time.Minute, l.RetryAfter(CategoryRAG, false))
}

func TestDefaultConfig_Shape(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 100, cfg.General.Authenticated.Capacity)
	assert.Equal(t, 5, cfg.RAG.Unauthenticated.Capacity)
}
