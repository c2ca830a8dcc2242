package lock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLockKey(t *testing.T) {
	assert.Equal(t, "agent:game:abc-123:lock", LockKey("abc-123"))
}

func TestNewRedisLockerNeedsClient(t *testing.T) {
	_, err := NewRedisLocker(nil, time.Minute)
	assert.Error(t, err)
}
