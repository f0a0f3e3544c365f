package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriorityPolicyRemovesBottomRowFirst(t *testing.T) {
	policy := NewPriorityPolicy()
	chairs := NewChairSet()

	var order []int
	for chairs.PresentCount() > 0 {
		c := policy.Pick(chairs.Available())
		require.True(t, chairs.Remove(c))
		order = append(order, c)
	}

	assert.Equal(t, BottomUpOrder, order)
	for i := 1; i < len(order); i++ {
		prev, cur := order[i-1], order[i]
		assert.GreaterOrEqual(t, ChairRow(prev), ChairRow(cur), "row order broken at %d", i)
		if ChairRow(prev) == ChairRow(cur) {
			assert.True(t, ChairIsLeft(prev), "left chair should go before right in row %d", ChairRow(cur))
		}
	}
}

func TestRandomPolicyIsSeededAndPicksAvailable(t *testing.T) {
	a := NewRandomPolicy(42)
	b := NewRandomPolicy(42)
	available := []int{1, 4, 6}

	for i := 0; i < 20; i++ {
		pa := a.Pick(available)
		assert.Equal(t, pa, b.Pick(available))
		assert.Contains(t, available, pa)
	}
}

func TestNewChairPolicy(t *testing.T) {
	p, err := NewChairPolicy("priority", 0)
	require.NoError(t, err)
	assert.Equal(t, PolicyPriority, p.Name())

	p, err = NewChairPolicy("random", 7)
	require.NoError(t, err)
	assert.Equal(t, PolicyRandom, p.Name())

	_, err = NewChairPolicy("shuffle", 0)
	assert.ErrorIs(t, err, ErrUnknownPolicy)
}

func TestChairSetRemoveIsPermanent(t *testing.T) {
	chairs := NewChairSet()

	assert.True(t, chairs.Remove(3))
	assert.False(t, chairs.Remove(3))
	assert.False(t, chairs.IsPresent(3))
	assert.Equal(t, []int{3}, chairs.Absent())
	assert.Equal(t, ChairCount-1, chairs.PresentCount())

	chairs.Restore()
	assert.Empty(t, chairs.Absent())
}
