package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/saralabs/sara-agent/internal/domain"
)

func TestTokenExpired(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	assert.False(t, domain.TokenExpired(now.Add(time.Second), now), "future expiry must be valid")
	assert.True(t, domain.TokenExpired(now, now), "exact boundary instant must count as expired")
	assert.True(t, domain.TokenExpired(now.Add(-time.Second), now), "past expiry must be expired")
}
