package doubles

import (
	"fmt"

	"github.com/google/uuid"
)

// Team is two distinct players on the same side of the net.
type Team struct {
	Player1 Player
	Player2 Player
}

// NewTeam pairs two players.
func NewTeam(a, b Player) Team {
	return Team{Player1: a, Player2: b}
}

// Valid reports whether the team holds two distinct players.
func (t Team) Valid() bool {
	return t.Player1.ID != "" && t.Player2.ID != "" && t.Player1.ID != t.Player2.ID
}

// Has reports whether the player is on the team.
func (t Team) Has(id string) bool {
	return t.Player1.ID == id || t.Player2.ID == id
}

// Overlaps reports whether the two teams share a player.
func (t Team) Overlaps(o Team) bool {
	return t.Has(o.Player1.ID) || t.Has(o.Player2.ID)
}

func (t Team) String() string {
	return fmt.Sprintf("%s & %s", t.Player1, t.Player2)
}

// Match is a doubles fixture: two teams on a court.
type Match struct {
	ID    string
	Team1 Team
	Team2 Team
	Court int // 1-based, cyclic across courts
	Round int // 1-based wave of concurrent matches
}

// NewMatch builds a match with a fresh id. Court and round are assigned later.
func NewMatch(t1, t2 Team) Match {
	return Match{ID: uuid.NewString(), Team1: t1, Team2: t2}
}

// Players returns the four players in slot order: team1 then team2.
func (m Match) Players() [4]Player {
	return [4]Player{m.Team1.Player1, m.Team1.Player2, m.Team2.Player1, m.Team2.Player2}
}

// Slot returns a pointer to the player at slot i (0..3) in Players order.
func (m *Match) Slot(i int) *Player {
	switch i {
	case 0:
		return &m.Team1.Player1
	case 1:
		return &m.Team1.Player2
	case 2:
		return &m.Team2.Player1
	default:
		return &m.Team2.Player2
	}
}

// Has reports whether the player appears anywhere in the match.
func (m Match) Has(id string) bool {
	return m.Team1.Has(id) || m.Team2.Has(id)
}

// Shares reports whether the two matches have a player in common.
func (m Match) Shares(o Match) bool {
	for _, p := range o.Players() {
		if m.Has(p.ID) {
			return true
		}
	}
	return false
}

// Valid reports whether the match holds four pairwise-distinct players.
func (m Match) Valid() bool {
	seen := make(map[string]bool, 4)
	for _, p := range m.Players() {
		if p.ID == "" || seen[p.ID] {
			return false
		}
		seen[p.ID] = true
	}
	return true
}

func (m Match) String() string {
	return fmt.Sprintf("%s vs %s", m.Team1, m.Team2)
}

// Clone returns a copy of the schedule. Matches are values so a shallow copy suffices.
func Clone(matches []Match) []Match {
	out := make([]Match, len(matches))
	copy(out, matches)
	return out
}
