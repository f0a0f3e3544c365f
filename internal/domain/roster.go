package domain

// Roster is the ordered sequence of participant ids still in play.
// A participant's position in the roster, not its id, sets its phase offset on the path.
type Roster []int

// FullRoster returns ids 0..n-1 in id order
func FullRoster(n int) Roster {
	r := make(Roster, n)
	for i := range r {
		r[i] = i
	}
	return r
}

// IndexOf returns the order index of a participant, or -1
func (r Roster) IndexOf(id int) int {
	for i, pid := range r {
		if pid == id {
			return i
		}
	}
	return -1
}

// RemoveAt returns the roster without the participant at orderIndex, keeping the
// relative order of everyone else.
func (r Roster) RemoveAt(orderIndex int) Roster {
	if orderIndex < 0 || orderIndex >= len(r) {
		return r
	}
	out := make(Roster, 0, len(r)-1)
	out = append(out, r[:orderIndex]...)
	return append(out, r[orderIndex+1:]...)
}

// Clone returns a copy safe to hand out
func (r Roster) Clone() Roster {
	out := make(Roster, len(r))
	copy(out, r)
	return out
}
