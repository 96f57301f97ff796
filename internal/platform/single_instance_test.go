package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPortFromNameIsStableAndInRange(t *testing.T) {
	port := portFromName("Countdown")

	assert.Equal(t, port, portFromName("Countdown"))
	assert.GreaterOrEqual(t, port, 20000)
	assert.LessOrEqual(t, port, 39999)
}

func TestSecondInstanceIsRejected(t *testing.T) {
	name := "CountdownInstanceTest-" + t.Name()
	guard, err := AcquireSingleInstance(name)
	require.NoError(t, err)
	assert.Equal(t, lockAddress(name), guard.Address())

	_, err = AcquireSingleInstance(name)
	assert.ErrorIs(t, err, ErrAlreadyRunning)

	require.NoError(t, guard.Release())
	assert.Empty(t, guard.Address())

	again, err := AcquireSingleInstance(name)
	require.NoError(t, err)
	require.NoError(t, again.Release())
}

func TestReleaseNilGuard(t *testing.T) {
	var guard *InstanceGuard

	assert.NoError(t, guard.Release())
	assert.Empty(t, guard.Address())
}
