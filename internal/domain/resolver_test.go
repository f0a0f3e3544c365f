package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// expectedOrderIndex derives the eliminated order index straight from the table
func expectedOrderIndex(t *testing.T, settled, missing int, table []int) int {
	t.Helper()
	for pathIdx, chair := range table {
		if chair == missing {
			return ((pathIdx-settled)%len(table) + len(table)) % len(table)
		}
	}
	t.Fatalf("chair %d not in table", missing)
	return -1
}

func TestResolveTenParticipantsSettledOnThree(t *testing.T) {
	table := PathToChair[:]
	roster := FullRoster(10)

	res, err := Resolve(3, roster, table, 5)
	require.NoError(t, err)

	want := expectedOrderIndex(t, 3, 5, table)
	assert.Equal(t, want, res.OrderIndex)
	assert.Equal(t, roster[want], res.Participant)
	assert.Equal(t, 5, table[(3+res.OrderIndex)%10])
	assert.Equal(t, res.PathSlot, (3+res.OrderIndex)%10)
	assert.Equal(t, 5, res.Chair)
}

func TestResolveEveryChairEverySlot(t *testing.T) {
	table := PathToChair[:]
	roster := FullRoster(10)

	for settled := 0; settled < 10; settled++ {
		for chair := 0; chair < ChairCount; chair++ {
			res, err := Resolve(settled, roster, table, chair)
			require.NoError(t, err)
			assert.Equal(t, expectedOrderIndex(t, settled, chair, table), res.OrderIndex)
		}
	}
}

func TestResolveUsesOrderIndexNotID(t *testing.T) {
	table := PathToChair[:]
	roster := Roster{0, 2, 5, 7, 9}

	res, err := Resolve(0, roster, table, 5)
	require.NoError(t, err)
	// chair 5 is path slot 3, so the fourth walker in the roster
	assert.Equal(t, 3, res.OrderIndex)
	assert.Equal(t, 7, res.Participant)
}

func TestResolveNoMatch(t *testing.T) {
	table := PathToChair[:]
	roster := Roster{0, 1}

	_, err := Resolve(0, roster, table, 9)
	assert.ErrorIs(t, err, ErrNoEliminationMatch)
}

func TestSeatsFollowRosterOrder(t *testing.T) {
	seats := Seats(8, Roster{4, 6, 1}, PathToChair[:])

	require.Len(t, seats, 3)
	assert.Equal(t, Seat{OrderIndex: 0, Participant: 4, PathSlot: 8, Chair: 4}, seats[0])
	assert.Equal(t, Seat{OrderIndex: 1, Participant: 6, PathSlot: 9, Chair: 2}, seats[1])
	assert.Equal(t, Seat{OrderIndex: 2, Participant: 1, PathSlot: 0, Chair: 0}, seats[2])
}
