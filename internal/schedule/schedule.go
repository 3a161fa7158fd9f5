package schedule

import (
	"fmt"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"

	"github.com/derekprior/doubles/internal/doubles"
	"github.com/derekprior/doubles/internal/strategy"
)

// NoMatchCap lets repair append matches without limit.
const NoMatchCap = -1

// Options configures a scheduling run. Start from DefaultOptions.
type Options struct {
	Courts            int
	MinGamesPerPlayer int
	Strategy          strategy.Kind
	Scorer            doubles.Scorer
	MaxMatches        int // 0 caps at strategy.TargetMatches; NoMatchCap removes the cap
	Refine            bool
	Jitter            float64
	RNG               doubles.RNG
	Budgets           doubles.Budgets
	Logger            zerolog.Logger
}

// DefaultOptions returns options for one court, one game each, skill-balanced.
func DefaultOptions() Options {
	return Options{
		Courts:            1,
		MinGamesPerPlayer: 1,
		Strategy:          strategy.SkillBalancedKind,
		Scorer:            doubles.NewScorer(),
		Refine:            true,
		Jitter:            strategy.DefaultJitter,
		Budgets:           doubles.DefaultBudgets(),
		Logger:            zerolog.Nop(),
	}
}

func (o Options) withDefaults() Options {
	if o.RNG == nil {
		o.RNG = doubles.NewRand(0)
	}
	o.Budgets = o.Budgets.WithDefaults()
	return o
}

func (o Options) validate() error {
	if o.Courts < 1 {
		return fmt.Errorf("%w: courts must be at least 1, got %d", doubles.ErrInvalidOptions, o.Courts)
	}
	if o.MinGamesPerPlayer < 1 {
		return fmt.Errorf("%w: min games per player must be at least 1, got %d", doubles.ErrInvalidOptions, o.MinGamesPerPlayer)
	}
	if o.MaxMatches < NoMatchCap {
		return fmt.Errorf("%w: max matches must be %d (no cap), 0 (target) or positive, got %d", doubles.ErrInvalidOptions, NoMatchCap, o.MaxMatches)
	}
	return nil
}

func (o Options) construction() strategy.Options {
	return strategy.Options{
		Courts:   o.Courts,
		MinGames: o.MinGamesPerPlayer,
		Scorer:   o.Scorer,
		RNG:      o.RNG,
		Jitter:   o.Jitter,
		Budget:   o.Budgets.Construction,
		Logger:   o.Logger,
	}
}

// PlayerMetrics holds per-player schedule statistics.
type PlayerMetrics struct {
	Matches    int
	Shortfall  int // matches missing to reach MinGamesPerPlayer
	BackToBack int // times the player appears in two adjacent matches
}

// Result is the output of a scheduling run.
type Result struct {
	Matches []doubles.Match
	Counts  map[string]int
	Players map[string]*PlayerMetrics

	// Underserved lists player ids below MinGamesPerPlayer. Not fatal.
	Underserved []string
	// Unbalanced lists match ids whose team-score difference exceeds the gate. Not fatal.
	Unbalanced []string

	AdjacentConflicts int
	MaxDiff           int
	MeanGames         float64
	StdDevGames       float64
	Warnings          []string
}

// Generate builds a schedule for the roster: construction, coverage repair,
// optional local-search refinement, sequencing, then court assignment.
// Coverage and balance shortfalls are reported on the Result, not as errors.
func Generate(players []doubles.Player, opts Options) (*Result, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if len(players) < 4 {
		return &Result{Counts: map[string]int{}, Players: map[string]*PlayerMetrics{}},
			fmt.Errorf("scheduling %d players: %w", len(players), doubles.ErrInsufficientPlayers)
	}
	opts = opts.withDefaults()

	strat, err := strategy.Get(opts.Strategy)
	if err != nil {
		return nil, err
	}

	counter := doubles.NewCounter(players)
	matches, err := strategy.Construct(strat, players, counter, opts.construction())
	if err != nil {
		return nil, fmt.Errorf("constructing matches: %w", err)
	}

	matches = Repair(matches, players, counter, opts)
	if opts.Refine {
		matches = Optimize(matches, opts)
	}
	matches = SequenceWithBudget(matches, opts.Budgets.Sequence)
	AssignCourts(matches, opts.Courts)

	result := buildResult(players, matches, opts)
	opts.Logger.Debug().
		Int("matches", len(result.Matches)).
		Int("max_diff", result.MaxDiff).
		Int("underserved", len(result.Underserved)).
		Int("adjacent_conflicts", result.AdjacentConflicts).
		Msg("schedule generated")
	return result, nil
}

// GenerateMatches is the short form of Generate with default options.
func GenerateMatches(players []doubles.Player, courts, minGamesPerPlayer int, kind strategy.Kind) ([]doubles.Match, error) {
	opts := DefaultOptions()
	opts.Courts = courts
	opts.MinGamesPerPlayer = minGamesPerPlayer
	opts.Strategy = kind
	result, err := Generate(players, opts)
	if err != nil {
		return nil, err
	}
	return result.Matches, nil
}

// Summarize computes metrics and warnings for an existing schedule.
func Summarize(players []doubles.Player, matches []doubles.Match, opts Options) *Result {
	return buildResult(players, matches, opts)
}

func buildResult(players []doubles.Player, matches []doubles.Match, opts Options) *Result {
	sc := opts.Scorer
	counter := doubles.CountMatches(players, matches)
	r := &Result{
		Matches: matches,
		Counts:  counter.Snapshot(),
		Players: make(map[string]*PlayerMetrics, len(players)),
		MaxDiff: sc.MaxDiffOf(matches),
	}

	games := make([]float64, 0, len(players))
	for _, p := range players {
		n := counter.Count(p.ID)
		m := &PlayerMetrics{Matches: n}
		if n < opts.MinGamesPerPlayer {
			m.Shortfall = opts.MinGamesPerPlayer - n
		}
		r.Players[p.ID] = m
		games = append(games, float64(n))
	}
	if len(games) > 0 {
		r.MeanGames, r.StdDevGames = stat.MeanStdDev(games, nil)
	}

	for _, p := range players {
		n := counter.Count(p.ID)
		switch {
		case n == 0:
			r.Underserved = append(r.Underserved, p.ID)
			r.Warnings = append(r.Warnings, fmt.Sprintf("%s has no matches", p))
		case n < opts.MinGamesPerPlayer:
			r.Underserved = append(r.Underserved, p.ID)
			r.Warnings = append(r.Warnings, fmt.Sprintf("%s has %d of %d matches", p, n, opts.MinGamesPerPlayer))
		}
	}

	for i, m := range matches {
		if d := sc.Diff(m); d > sc.MaxDiff {
			r.Unbalanced = append(r.Unbalanced, m.ID)
			r.Warnings = append(r.Warnings, fmt.Sprintf(
				"Match %d (%s) team scores %d vs %d (diff %d, max %d)",
				i+1, m, sc.TeamScore(m.Team1), sc.TeamScore(m.Team2), d, sc.MaxDiff))
		}
	}

	for i := 1; i < len(matches); i++ {
		shared := sharedPlayers(matches[i-1], matches[i])
		if len(shared) == 0 {
			continue
		}
		r.AdjacentConflicts++
		for _, p := range shared {
			if m, ok := r.Players[p.ID]; ok {
				m.BackToBack++
			}
		}
		r.Warnings = append(r.Warnings, fmt.Sprintf("Matches %d and %d share %s", i, i+1, joinPlayers(shared)))
	}

	return r
}
