package doubles

import (
	"fmt"
	"strings"
)

// Gender is only consulted by the mixed-gender strategy.
type Gender string

const (
	Unspecified Gender = ""
	Male        Gender = "male"
	Female      Gender = "female"
)

// ParseGender accepts the spellings a roster file is likely to use.
func ParseGender(s string) (Gender, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return Unspecified, nil
	case "m", "male", "man":
		return Male, nil
	case "f", "female", "woman":
		return Female, nil
	default:
		return Unspecified, fmt.Errorf("unknown gender %q", s)
	}
}

func (g Gender) String() string {
	if g == Unspecified {
		return "unspecified"
	}
	return string(g)
}

// Player is a roster entry. Players are never mutated during a run.
type Player struct {
	ID         string
	Name       string
	SkillLevel string // tier code, e.g. "A1" (strongest) … "E2" (weakest)
	Gender     Gender
}

// SkillGroup returns the coarse group of the player's tier: its leading character.
func (p Player) SkillGroup() string {
	if p.SkillLevel == "" {
		return ""
	}
	return p.SkillLevel[:1]
}

func (p Player) String() string {
	if p.Name != "" {
		return p.Name
	}
	return p.ID
}

// Roster indexes players by id.
type Roster map[string]Player

// NewRoster builds a Roster from a player list. Later duplicates win.
func NewRoster(players []Player) Roster {
	r := make(Roster, len(players))
	for _, p := range players {
		r[p.ID] = p
	}
	return r
}
