// Package score keeps the session score and its on-screen projection.
package score

import "strconv"

// Label prefixes the score in its display text.
const Label = "Apples: "

// Tracker is a monotonic score counter. The display text is updated in the same
// call that changes the value, so readers never observe the two out of step.
type Tracker struct {
	value int
	text  string
}

// NewTracker returns a tracker at zero.
func NewTracker() *Tracker {
	return &Tracker{text: Label + "0"}
}

// Add increases the score by amount. Negative amounts are ignored.
func (t *Tracker) Add(amount int) {
	if amount <= 0 {
		return
	}
	t.value += amount
	t.text = Label + strconv.Itoa(t.value)
}

// Value returns the current score.
func (t *Tracker) Value() int {
	return t.value
}

// Text returns the display projection, e.g. "Apples: 20".
func (t *Tracker) Text() string {
	return t.text
}
