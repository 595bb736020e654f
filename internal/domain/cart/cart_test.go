package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCart_Set(t *testing.T) {
	t.Run("stores positive counts", func(t *testing.T) {
		c := New()
		c.Set(7, 2, true)
		assert.Equal(t, Entry{Count: 2, Selected: true}, c[7])
	})

	t.Run("zero count removes the line", func(t *testing.T) {
		c := Cart{7: {Count: 2, Selected: true}}
		c.Set(7, 0, true)
		assert.True(t, c.IsEmpty())
	})
}

func TestCart_Partition(t *testing.T) {
	c := Cart{
		9: {Count: 1, Selected: false},
		7: {Count: 2, Selected: true},
		3: {Count: 4, Selected: true},
	}

	selected, deselected := c.Partition()
	assert.Equal(t, []int64{3, 7}, selected)
	assert.Equal(t, []int64{9}, deselected)
	assert.Equal(t, map[int64]int{3: 4, 7: 2}, c.SelectedCounts())
}

func TestCart_SelectAll(t *testing.T) {
	c := Cart{1: {Count: 1}, 2: {Count: 3, Selected: true}}
	c.SelectAll(true)
	assert.True(t, c[1].Selected)
	assert.True(t, c[2].Selected)

	c.SelectAll(false)
	selected, _ := c.Partition()
	assert.Empty(t, selected)
}

func TestCodec(t *testing.T) {
	t.Run("round trips a cart", func(t *testing.T) {
		in := Cart{7: {Count: 2, Selected: true}, 9: {Count: 1, Selected: false}}
		value, err := Encode(in)
		require.NoError(t, err)
		assert.NotContains(t, value, "{")

		assert.Equal(t, in, Decode(value))
	})

	t.Run("garbage decodes to an empty cart", func(t *testing.T) {
		assert.True(t, Decode("%%%not-base64").IsEmpty())
		assert.True(t, Decode("").IsEmpty())
	})

	t.Run("drops lines with non-positive counts", func(t *testing.T) {
		value, err := Encode(Cart{7: {Count: 0, Selected: true}, 8: {Count: 1}})
		require.NoError(t, err)
		assert.Equal(t, Cart{8: {Count: 1}}, Decode(value))
	})
}
