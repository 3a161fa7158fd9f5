package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/derekprior/doubles/internal/doubles"
	"github.com/derekprior/doubles/internal/schedule"
	"github.com/derekprior/doubles/internal/strategy"
)

type PlayerEntry struct {
	ID         string `yaml:"id"`
	Name       string `yaml:"name"`
	SkillLevel string `yaml:"skill_level"`
	Gender     string `yaml:"gender"`
}

// Budgets caps the work of each engine phase. Zero keeps the engine default.
type Budgets struct {
	Construction int `yaml:"construction"`
	Rescue       int `yaml:"rescue"`
	Optimize     int `yaml:"optimize"`
	Sequence     int `yaml:"sequence"`
}

type Config struct {
	Courts            int            `yaml:"courts"`
	MinGamesPerPlayer int            `yaml:"min_games_per_player"`
	Strategy          string         `yaml:"strategy"`
	MaxTeamScoreDiff  *int           `yaml:"max_team_score_diff"`
	MaxMatches        int            `yaml:"max_matches"`
	Seed              int64          `yaml:"seed"`
	Refine            *bool          `yaml:"refine"`
	Jitter            *float64       `yaml:"jitter"`
	Budgets           Budgets        `yaml:"budgets"`
	Tiers             map[string]int `yaml:"tiers"`
	Players           []PlayerEntry  `yaml:"players"`
}

// LoadFromBytes parses YAML bytes into a Config and validates it.
func LoadFromBytes(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromFile reads and parses a YAML config file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromBytes(data)
}

// Scorer returns the scoring model described by the config.
func (c *Config) Scorer() doubles.Scorer {
	sc := doubles.NewScorer()
	if len(c.Tiers) > 0 {
		sc.Tiers = make(map[string]int, len(c.Tiers))
		for tier, pts := range c.Tiers {
			sc.Tiers[strings.ToUpper(strings.TrimSpace(tier))] = pts
		}
	}
	if c.MaxTeamScoreDiff != nil {
		sc.MaxDiff = *c.MaxTeamScoreDiff
	}
	return sc
}

// Roster converts the player entries. The config has already been validated,
// so unknown genders cannot occur here.
func (c *Config) Roster() []doubles.Player {
	players := make([]doubles.Player, 0, len(c.Players))
	for _, p := range c.Players {
		g, _ := doubles.ParseGender(p.Gender)
		players = append(players, doubles.Player{
			ID:         p.ID,
			Name:       p.Name,
			SkillLevel: strings.ToUpper(strings.TrimSpace(p.SkillLevel)),
			Gender:     g,
		})
	}
	return players
}

// Options builds engine options from the config.
func (c *Config) Options(logger zerolog.Logger) schedule.Options {
	opts := schedule.DefaultOptions()
	opts.Courts = c.Courts
	opts.MinGamesPerPlayer = c.MinGamesPerPlayer
	if c.Strategy != "" {
		opts.Strategy = strategy.Kind(c.Strategy)
	}
	opts.Scorer = c.Scorer()
	opts.MaxMatches = c.MaxMatches
	if c.Refine != nil {
		opts.Refine = *c.Refine
	}
	if c.Jitter != nil {
		opts.Jitter = *c.Jitter
	}
	opts.RNG = doubles.NewRand(c.Seed)
	opts.Budgets = doubles.Budgets{
		Construction: doubles.Budget{MaxAttempts: c.Budgets.Construction},
		Rescue:       doubles.Budget{MaxAttempts: c.Budgets.Rescue},
		Optimize:     doubles.Budget{MaxAttempts: c.Budgets.Optimize},
		Sequence:     doubles.Budget{MaxAttempts: c.Budgets.Sequence},
	}.WithDefaults()
	opts.Logger = logger
	return opts
}

func (c *Config) validate() error {
	if c.Courts < 1 {
		return fmt.Errorf("courts must be at least 1, got %d", c.Courts)
	}
	if c.MinGamesPerPlayer < 1 {
		return fmt.Errorf("min_games_per_player must be at least 1, got %d", c.MinGamesPerPlayer)
	}
	if _, err := strategy.Get(strategy.Kind(c.Strategy)); err != nil {
		return err
	}
	if c.MaxTeamScoreDiff != nil && *c.MaxTeamScoreDiff < 0 {
		return fmt.Errorf("max_team_score_diff cannot be negative")
	}
	if c.MaxMatches < schedule.NoMatchCap {
		return fmt.Errorf("max_matches must be -1 (no cap), 0 (target) or positive, got %d", c.MaxMatches)
	}
	if c.Jitter != nil && *c.Jitter < 0 {
		return fmt.Errorf("jitter cannot be negative")
	}
	b := c.Budgets
	if b.Construction < 0 || b.Rescue < 0 || b.Optimize < 0 || b.Sequence < 0 {
		return fmt.Errorf("budgets cannot be negative")
	}
	for tier, pts := range c.Tiers {
		if pts < 0 {
			return fmt.Errorf("tier %q has negative score %d", tier, pts)
		}
	}

	if len(c.Players) < 4 {
		return fmt.Errorf("at least 4 players are required, got %d", len(c.Players))
	}

	sc := c.Scorer()
	ids := make(map[string]bool)
	names := make(map[string]bool)
	for i, p := range c.Players {
		if p.ID == "" {
			return fmt.Errorf("player %d has no id", i+1)
		}
		if ids[p.ID] {
			return fmt.Errorf("player id %q appears more than once", p.ID)
		}
		ids[p.ID] = true
		if p.Name == "" {
			return fmt.Errorf("player %q has no name", p.ID)
		}
		if names[p.Name] {
			return fmt.Errorf("player name %q appears more than once", p.Name)
		}
		names[p.Name] = true
		if tier := strings.ToUpper(strings.TrimSpace(p.SkillLevel)); !sc.Known(tier) {
			return fmt.Errorf("player %q: unknown skill level %q", p.ID, p.SkillLevel)
		}
		if _, err := doubles.ParseGender(p.Gender); err != nil {
			return fmt.Errorf("player %q: %w", p.ID, err)
		}
	}

	return nil
}
