package courier_test

import (
	"testing"

	"grocery/internal/core/domain/model/courier"
	"grocery/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustPoint(t *testing.T, lat, lon float64) kernel.GeoPoint {
	t.Helper()
	p, err := kernel.NewGeoPoint(lat, lon)
	require.NoError(t, err)
	return p
}

func TestNewCourier(t *testing.T) {
	t.Run("should create offline courier", func(t *testing.T) {
		id := kernel.NewUUID()
		pos := mustPoint(t, 12.97, 77.59)

		c, err := courier.NewCourier(id, " Ravi ", "+91-9000000000", pos)

		require.NoError(t, err)
		require.NoError(t, c.Validate())
		assert.True(t, c.ID().IsEqual(id))
		assert.Equal(t, "Ravi", c.Name())
		assert.Equal(t, pos, c.Position())
		assert.False(t, c.IsOnline())
		assert.False(t, c.Reachable())
	})

	t.Run("should join validation errors", func(t *testing.T) {
		var id kernel.UUID
		var pos kernel.GeoPoint

		c, err := courier.NewCourier(id, "", "", pos)

		require.Error(t, err)
		assert.Nil(t, c)
		require.ErrorIs(t, err, courier.ErrNameIsRequired)
		require.ErrorIs(t, err, courier.ErrMobileIsRequired)
		assert.Contains(t, err.Error(), "geo point")
	})

	t.Run("nil courier is not constructed", func(t *testing.T) {
		var c *courier.Courier

		require.ErrorIs(t, c.Validate(), courier.ErrCourierIsNotConstructed)
	})
}

func TestCourier_Presence(t *testing.T) {
	c, err := courier.NewCourier(kernel.NewUUID(), "Asha", "98765", mustPoint(t, 1, 1))
	require.NoError(t, err)

	t.Run("identify is idempotent and overwrites handle", func(t *testing.T) {
		require.NoError(t, c.Identify("conn-1"))
		require.NoError(t, c.Identify("conn-2"))

		assert.True(t, c.IsOnline())
		assert.Equal(t, "conn-2", c.Handle())
		assert.True(t, c.Reachable())
	})

	t.Run("identify requires a handle", func(t *testing.T) {
		require.ErrorIs(t, c.Identify("  "), courier.ErrHandleIsRequired)
		assert.Equal(t, "conn-2", c.Handle())
	})

	t.Run("disconnect keeps the position", func(t *testing.T) {
		before := c.Position()

		c.Disconnect()

		assert.False(t, c.IsOnline())
		assert.Empty(t, c.Handle())
		assert.Equal(t, before, c.Position())
	})
}

func TestRestoreCourier(t *testing.T) {
	c, err := courier.RestoreCourier(kernel.NewUUID(), "Vik", "1", mustPoint(t, 0, 0), true, "h")

	require.NoError(t, err)
	assert.True(t, c.Reachable())
}
