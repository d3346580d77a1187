package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyedLockExcludesSameKey(t *testing.T) {
	locks := NewKeyedLock()

	release, ok := locks.TryAcquire("items:a")
	require.True(t, ok)

	_, ok = locks.TryAcquire("items:a")
	assert.False(t, ok, "same key must conflict while held")

	release()

	release2, ok := locks.TryAcquire("items:a")
	assert.True(t, ok, "released key must be acquirable again")
	release2()
}

func TestKeyedLockIndependentKeys(t *testing.T) {
	locks := NewKeyedLock()

	releaseA, ok := locks.TryAcquire("items:a")
	require.True(t, ok)
	defer releaseA()

	releaseB, ok := locks.TryAcquire("items:b")
	assert.True(t, ok, "different keys must not conflict")
	defer releaseB()
}

func TestKeyedLockReleaseIsIdempotent(t *testing.T) {
	locks := NewKeyedLock()

	release, ok := locks.TryAcquire("k")
	require.True(t, ok)
	release()
	release() // second call must be a no-op

	release2, ok := locks.TryAcquire("k")
	require.True(t, ok)
	release2()
}
