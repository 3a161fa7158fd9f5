package doubles

import "sort"

// Counter tracks how many matches each roster member has been placed into.
// A Counter belongs to one scheduling run and is handed to each phase by pointer.
type Counter struct {
	counts map[string]int
	order  []string // roster order, for deterministic iteration
}

// NewCounter starts every player at zero.
func NewCounter(players []Player) *Counter {
	c := &Counter{counts: make(map[string]int, len(players))}
	for _, p := range players {
		if _, ok := c.counts[p.ID]; ok {
			continue
		}
		c.counts[p.ID] = 0
		c.order = append(c.order, p.ID)
	}
	return c
}

// CountMatches builds a Counter for the roster from an existing schedule.
func CountMatches(players []Player, matches []Match) *Counter {
	c := NewCounter(players)
	for _, m := range matches {
		c.Add(m)
	}
	return c
}

// Count returns the player's current count.
func (c *Counter) Count(id string) int {
	return c.counts[id]
}

// Inc records one more match for the player.
func (c *Counter) Inc(id string) {
	if _, ok := c.counts[id]; !ok {
		c.order = append(c.order, id)
	}
	c.counts[id]++
}

// Dec removes one match from the player, never going below zero.
func (c *Counter) Dec(id string) {
	if c.counts[id] > 0 {
		c.counts[id]--
	}
}

// Add records every player in the match.
func (c *Counter) Add(m Match) {
	for _, p := range m.Players() {
		c.Inc(p.ID)
	}
}

// Below returns ids with fewer than n matches, lowest count first, roster order on ties.
func (c *Counter) Below(n int) []string {
	var ids []string
	for _, id := range c.order {
		if c.counts[id] < n {
			ids = append(ids, id)
		}
	}
	sort.SliceStable(ids, func(i, j int) bool {
		return c.counts[ids[i]] < c.counts[ids[j]]
	})
	return ids
}

// Zero returns ids that have not been placed at all.
func (c *Counter) Zero() []string {
	return c.Below(1)
}

// Ascending returns every id, lowest count first, roster order on ties.
func (c *Counter) Ascending() []string {
	ids := make([]string, len(c.order))
	copy(ids, c.order)
	sort.SliceStable(ids, func(i, j int) bool {
		return c.counts[ids[i]] < c.counts[ids[j]]
	})
	return ids
}

// Snapshot copies the counts.
func (c *Counter) Snapshot() map[string]int {
	out := make(map[string]int, len(c.counts))
	for id, n := range c.counts {
		out[id] = n
	}
	return out
}

// Len is the number of tracked players.
func (c *Counter) Len() int {
	return len(c.order)
}
