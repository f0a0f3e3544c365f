package domain


// ChairCount is the number of chairs in the fixed layout: five rows of a left and a right chair
const ChairCount = 10

// NoChair marks the absence of a pending chair
const NoChair = -1

// PathToChair is the correspondence table from path waypoint index to physical chair index.
// Chairs are numbered row by row (left then right, top row first); the path visits them in
// racetrack order, so the two orders differ.
var PathToChair = [ChairCount]int{0, 1, 3, 5, 7, 9, 8, 6, 4, 2}

// ChairRow returns the row of a chair, 0 being the top row
func ChairRow(chair int) int {
	return chair / 2
}

// ChairIsLeft reports whether a chair sits in the left column
func ChairIsLeft(chair int) bool {
	return chair%2 == 0
}

// ChairSet tracks which chairs are still standing
type ChairSet struct {
	present [ChairCount]bool
}

// NewChairSet returns a set with every chair present
func NewChairSet() *ChairSet {
	cs := &ChairSet{}
	cs.Restore()
	return cs
}

// Restore puts every chair back. Only reset does this.
func (cs *ChairSet) Restore() {
	for i := range cs.present {
		cs.present[i] = true
	}
}

// IsPresent reports whether a chair is still standing
func (cs *ChairSet) IsPresent(chair int) bool {
	if chair < 0 || chair >= ChairCount {
		return false
	}
	return cs.present[chair]
}

// Remove marks a chair permanently absent. It returns false if the chair was already gone.
func (cs *ChairSet) Remove(chair int) bool {
	if !cs.IsPresent(chair) {
		return false
	}
	cs.present[chair] = false
	return true
}

// Available returns the present chairs in ascending index order
func (cs *ChairSet) Available() []int {
	chairs := make([]int, 0, ChairCount)
	for i, ok := range cs.present {
		if ok {
			chairs = append(chairs, i)
		}
	}
	return chairs
}

// Absent returns the removed chairs in ascending index order
func (cs *ChairSet) Absent() []int {
	chairs := make([]int, 0, ChairCount)
	for i, ok := range cs.present {
		if !ok {
			chairs = append(chairs, i)
		}
	}
	return chairs
}

// PresentCount returns the number of chairs still standing
func (cs *ChairSet) PresentCount() int {
	count := 0
	for _, ok := range cs.present {
		if ok {
			count++
		}
	}
	return count
}
