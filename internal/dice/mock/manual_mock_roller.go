package mockdice

import (
	"fmt"
	"sync"
)

// ManualSource implements dice.Source with predetermined die faces
type ManualSource struct {
	mu        sync.Mutex
	rolls     []int
	rollIndex int
}

// NewManualSource creates a new scripted source
func NewManualSource(rolls ...int) *ManualSource {
	return &ManualSource{
		rolls: append([]int{}, rolls...),
	}
}

// SetNextRoll appends a face to the script
func (m *ManualSource) SetNextRoll(roll int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rolls = append(m.rolls, roll)
}

// SetRolls replaces the script
func (m *ManualSource) SetRolls(rolls []int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rolls = rolls
	m.rollIndex = 0
}

// Remaining returns how many scripted faces are left
func (m *ManualSource) Remaining() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rolls) - m.rollIndex
}

// Intn returns the next scripted face minus one. It panics when the script
// is exhausted or the face does not fit the die, which fails the test.
func (m *ManualSource) Intn(n int) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.rollIndex >= len(m.rolls) {
		panic(fmt.Sprintf("no more predetermined rolls available (used %d of %d)", m.rollIndex, len(m.rolls)))
	}

	roll := m.rolls[m.rollIndex]
	if roll < 1 || roll > n {
		panic(fmt.Sprintf("invalid roll %d for d%d", roll, n))
	}
	m.rollIndex++

	return roll - 1
}
