package domain

// Resolution is the outcome of matching the roster against the missing chair
type Resolution struct {
	SettledSlot int `json:"settledSlot"`
	OrderIndex  int `json:"orderIndex"`
	Participant int `json:"participant"`
	PathSlot    int `json:"pathSlot"`
	Chair       int `json:"chair"`
}

// Seat is where one participant ends up when the path settles
type Seat struct {
	OrderIndex  int `json:"orderIndex"`
	Participant int `json:"participant"`
	PathSlot    int `json:"pathSlot"`
	Chair       int `json:"chair"`
}

// Seats computes the path slot and chair of every participant in roster order
// when the path settles on settledSlot.
func Seats(settledSlot int, roster Roster, table []int) []Seat {
	n := len(table)
	seats := make([]Seat, 0, len(roster))
	if n == 0 {
		return seats
	}
	for i, id := range roster {
		slot := ((settledSlot+i)%n + n) % n
		seats = append(seats, Seat{
			OrderIndex:  i,
			Participant: id,
			PathSlot:    slot,
			Chair:       table[slot],
		})
	}
	return seats
}

// Resolve finds the participant who settled on the missing chair.
// It returns ErrNoEliminationMatch when nobody did.
func Resolve(settledSlot int, roster Roster, table []int, missingChair int) (Resolution, error) {
	for _, seat := range Seats(settledSlot, roster, table) {
		if seat.Chair == missingChair {
			return Resolution{
				SettledSlot: settledSlot,
				OrderIndex:  seat.OrderIndex,
				Participant: seat.Participant,
				PathSlot:    seat.PathSlot,
				Chair:       seat.Chair,
			}, nil
		}
	}
	return Resolution{SettledSlot: settledSlot, OrderIndex: -1, Participant: -1, PathSlot: -1, Chair: missingChair}, ErrNoEliminationMatch
}
