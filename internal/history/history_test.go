package history

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/grocery/internal/store"
)

func TestSetDeduplicatesExactly(t *testing.T) {
	s := NewSet("Milk", "milk", "Milk", "  ")
	assert.Equal(t, []string{"Milk", "milk"}, s.Values())
	assert.Equal(t, 2, s.Len())

	assert.False(t, s.Add("Milk"))
	assert.True(t, s.Add("Eggs"))
	assert.True(t, s.Contains("Eggs"))
	assert.False(t, s.Contains("eggs"))
}

func TestValuesIsACopy(t *testing.T) {
	s := NewSet("Milk")
	v := s.Values()
	v[0] = "Bread"
	assert.Equal(t, []string{"Milk"}, s.Values())
}

func TestRecord(t *testing.T) {
	h := NewSets()
	assert.True(t, h.Record("Onion", "chopped"))
	assert.True(t, h.Record("Onion", "sliced"))
	assert.False(t, h.Record("Onion", ""))
	assert.Equal(t, []string{"Onion"}, h.Items.Values())
	assert.Equal(t, []string{"chopped", "sliced"}, h.Preparations.Values())
}

func TestLoadSave(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()

	h, err := Load(ctx, s)
	require.NoError(t, err)
	assert.Zero(t, h.Items.Len())

	h.Record("टोमॅटो", "चिरलेला")
	h.Record("Milk", "")
	require.NoError(t, h.Save(ctx, s))

	raw, err := s.Get(ctx, store.KeyPreviousItems)
	require.NoError(t, err)
	assert.JSONEq(t, `["टोमॅटो","Milk"]`, string(raw))

	again, err := Load(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, h.Items.Values(), again.Items.Values())
	assert.Equal(t, []string{"चिरलेला"}, again.Preparations.Values())
}

func TestCloneIsIndependent(t *testing.T) {
	h := NewSets()
	h.Record("Milk", "cold")
	c := h.Clone()

	assert.True(t, h.Record("Tea", "hot"))
	assert.Equal(t, []string{"Milk"}, c.Items.Values())
	assert.Equal(t, []string{"cold"}, c.Preparations.Values())
	assert.False(t, c.Items.Contains("Tea"))
}
