package domain

import (
	"fmt"
	"math/rand"
)

// Chair policy names accepted by NewChairPolicy
const (
	PolicyPriority = "priority"
	PolicyRandom   = "random"
)

// ChairPolicy chooses which standing chair disappears in a round
type ChairPolicy interface {
	// Pick returns one of the available chairs. available is never empty.
	Pick(available []int) int
	Name() string
}

// BottomUpOrder removes the bottom row first, left chair before right, working up to the top row.
var BottomUpOrder = []int{8, 9, 6, 7, 4, 5, 2, 3, 0, 1}

// PriorityPolicy removes chairs in a fixed order, skipping chairs already gone
type PriorityPolicy struct {
	Order []int
}

// NewPriorityPolicy returns the bottom-up priority policy
func NewPriorityPolicy() *PriorityPolicy {
	return &PriorityPolicy{Order: BottomUpOrder}
}

// Pick returns the first chair in the priority order that is still available
func (p *PriorityPolicy) Pick(available []int) int {
	present := make(map[int]bool, len(available))
	for _, c := range available {
		present[c] = true
	}
	for _, c := range p.Order {
		if present[c] {
			return c
		}
	}
	// Chairs outside the order fall back to the lowest index
	return available[0]
}

// Name returns the policy name
func (p *PriorityPolicy) Name() string {
	return PolicyPriority
}

// RandomPolicy removes a uniformly chosen available chair
type RandomPolicy struct {
	rng *rand.Rand
}

// NewRandomPolicy returns a random policy seeded with seed so runs can be replayed
func NewRandomPolicy(seed int64) *RandomPolicy {
	return &RandomPolicy{rng: rand.New(rand.NewSource(seed))}
}

// Pick returns a random available chair
func (p *RandomPolicy) Pick(available []int) int {
	return available[p.rng.Intn(len(available))]
}

// Name returns the policy name
func (p *RandomPolicy) Name() string {
	return PolicyRandom
}

// NewChairPolicy builds a policy by name
func NewChairPolicy(name string, seed int64) (ChairPolicy, error) {
	switch name {
	case PolicyPriority, "":
		return NewPriorityPolicy(), nil
	case PolicyRandom:
		return NewRandomPolicy(seed), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
	}
}
