package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/derekprior/doubles/internal/config"
	"github.com/derekprior/doubles/internal/doubles"
	"github.com/derekprior/doubles/internal/excel"
	"github.com/derekprior/doubles/internal/logger"
	"github.com/derekprior/doubles/internal/schedule"
	"github.com/derekprior/doubles/internal/strategy"
	"github.com/derekprior/doubles/internal/validator"
)

const defaultConfigFile = "doubles.yaml"

func resolveConfigPath(configFlag string, env config.Env) (string, error) {
	if configFlag != "" {
		return configFlag, nil
	}
	if env.ConfigPath != "" {
		return env.ConfigPath, nil
	}
	if _, err := os.Stat(defaultConfigFile); err == nil {
		return defaultConfigFile, nil
	}
	return "", fmt.Errorf("no config file found. Either create %s in the current directory, set DOUBLES_CONFIG, or pass --config", defaultConfigFile)
}

func main() {
	env, err := config.LoadEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "✗ %s\n", err)
		os.Exit(1)
	}

	rootCmd := &cobra.Command{
		Use:   "doubles",
		Short: "Doubles match generator for club sessions",
	}

	var initOutputPath string
	initCmd := &cobra.Command{
		Use:          "init",
		Short:        "Create a starter doubles.yaml in the current directory",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(initOutputPath)
		},
	}
	initCmd.Flags().StringVarP(&initOutputPath, "output", "o", defaultConfigFile, "Output path for the config file")

	scheduleCmd := &cobra.Command{
		Use:   "schedule",
		Short: "Generate, validate and rebalance match schedules",
	}

	var configFile, logLevel string
	scheduleCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to config file (default: $DOUBLES_CONFIG or doubles.yaml)")
	scheduleCmd.PersistentFlags().StringVar(&logLevel, "log-level", env.LogLevel, "Engine log level on stderr (debug, info, warn)")

	load := func() (*config.Config, zerolog.Logger, error) {
		log := logger.New(logLevel)
		path, err := resolveConfigPath(configFile, env)
		if err != nil {
			return nil, log, err
		}
		cfg, err := config.LoadFromFile(path)
		if err != nil {
			return nil, log, fmt.Errorf("loading config: %w", err)
		}
		env.Apply(cfg)
		log.Debug().Str("config", path).Int("players", len(cfg.Players)).Msg("configuration loaded")
		return cfg, log, nil
	}

	var outputFile, strategyName string
	var seed int64
	generateCmd := &cobra.Command{
		Use:          "generate",
		Short:        "Generate a schedule from a config file",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("seed") {
				cfg.Seed = seed
			}
			if strategyName != "" {
				if _, err := strategy.Get(strategy.Kind(strategyName)); err != nil {
					return err
				}
				cfg.Strategy = strategyName
			}
			return runGenerate(cfg, log, outputFile)
		},
	}
	generateCmd.Flags().StringVarP(&outputFile, "output", "o", "schedule.xlsx", "Output Excel file path")
	generateCmd.Flags().Int64Var(&seed, "seed", 0, "Random seed (0 = time-seeded)")
	generateCmd.Flags().StringVar(&strategyName, "strategy", "", "Override the config strategy")

	validateCmd := &cobra.Command{
		Use:          "validate <schedule.xlsx>",
		Short:        "Validate a schedule against the roster and rules",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := load()
			if err != nil {
				return err
			}
			return runValidate(cfg, args[0])
		},
	}

	var optimizeOutput string
	optimizeCmd := &cobra.Command{
		Use:          "optimize <schedule.xlsx>",
		Short:        "Rebalance and resequence an existing schedule",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := load()
			if err != nil {
				return err
			}
			out := optimizeOutput
			if out == "" {
				out = args[0]
			}
			return runOptimize(cfg, log, args[0], out)
		},
	}
	optimizeCmd.Flags().StringVarP(&optimizeOutput, "output", "o", "", "Output Excel file path (default: overwrite the input)")

	scheduleCmd.AddCommand(generateCmd, validateCmd, optimizeCmd)
	rootCmd.AddCommand(initCmd, scheduleCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runInit(outputPath string) error {
	if _, err := os.Stat(outputPath); err == nil {
		return fmt.Errorf("%s already exists; remove it first or use -o to write elsewhere", outputPath)
	}

	if err := os.WriteFile(outputPath, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Printf("✓ Created %s\n", outputPath)
	return nil
}

const configTemplate = `# Doubles Session Configuration
# =============================
# This file describes one session: the roster, the courts, and how matches
# should be drawn up.

# Number of courts available. Matches are dealt onto courts in order, so each
# round plays one match per court.
courts: 2

# Every player should get at least this many matches. The engine schedules
# extra matches (or swaps players in) to get under-served players up to it.
min_games_per_player: 2

# Strategy determines how teams are formed.
#   skill_balanced       strongest balanced pairs first, with a little noise
#   randomized_balanced  random pairings that avoid two players of the same
#                        skill letter on one team where possible
#   mixed_gender         prefers male+female teams; needs 2 men and 2 women
strategy: skill_balanced

# Opposing team scores may differ by at most this much. Use 0 to only accept
# exactly even matches.
max_team_score_diff: 1

# Cap on the number of matches. 0 uses the fewest matches that can give every
# player min_games_per_player; -1 means no cap. Once the cap is hit,
# under-served players are swapped into existing matches instead.
max_matches: 0

# Random seed. 0 picks a new draw every run; any other value repeats it.
seed: 0

# Run the balance search after coverage repair.
refine: true

# Work limits per phase. Leave out to use the defaults.
# budgets:
#   construction: 100
#   rescue: 50
#   optimize: 100000
#   sequence: 5

# Skill tiers and their points, strongest first. Leave out to use the
# defaults below.
# tiers:
#   A1: 10
#   A2: 9
#   B1: 8
#   B2: 7
#   C1: 6
#   C2: 5
#   D1: 4
#   D2: 3
#   E1: 2
#   E2: 1

# Players. Ids and names must be unique. Gender is optional (male/female) and
# only used by the mixed_gender strategy.
players:
  - {id: p1, name: Alice, skill_level: A1, gender: female}
  - {id: p2, name: Bob, skill_level: A2, gender: male}
  - {id: p3, name: Carol, skill_level: B1, gender: female}
  - {id: p4, name: Dan, skill_level: B2, gender: male}
  - {id: p5, name: Erin, skill_level: C1, gender: female}
  - {id: p6, name: Frank, skill_level: C2, gender: male}
  - {id: p7, name: Gina, skill_level: D1, gender: female}
  - {id: p8, name: Hal, skill_level: E2, gender: male}
`

func runGenerate(cfg *config.Config, log zerolog.Logger, outputPath string) error {
	players := cfg.Roster()
	opts := cfg.Options(log)

	fmt.Printf("Scheduling %d players on %d court(s), at least %d match(es) each (%s)...\n",
		len(players), cfg.Courts, cfg.MinGamesPerPlayer, opts.Strategy)

	result, err := schedule.Generate(players, opts)
	if errors.Is(err, doubles.ErrInsufficientGenderMix) {
		fmt.Fprintf(os.Stderr, "⚠ %s\n", err)
		fmt.Fprintf(os.Stderr, "\nFalling back to %s...\n", strategy.SkillBalancedKind)
		cfg.Strategy = string(strategy.SkillBalancedKind)
		opts = cfg.Options(log)
		result, err = schedule.Generate(players, opts)
	}
	if err != nil {
		return fmt.Errorf("generating schedule: %w", err)
	}

	fmt.Printf("✓ %d matches scheduled over %d round(s)\n", len(result.Matches), len(schedule.Rounds(result.Matches)))

	printMetrics(players, result)

	if len(result.Warnings) > 0 {
		fmt.Printf("\nWarnings (%d):\n", len(result.Warnings))
		for _, w := range result.Warnings {
			fmt.Printf("  ⚠ %s\n", w)
		}
	} else {
		fmt.Println("\n✓ No warnings")
	}

	f, err := excel.Generate(cfg, result)
	if err != nil {
		return fmt.Errorf("generating Excel: %w", err)
	}

	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("saving file: %w", err)
	}

	fmt.Printf("\n✓ Schedule saved to %s\n", outputPath)
	return nil
}

func printMetrics(players []doubles.Player, result *schedule.Result) {
	fmt.Println("\nPer Player Metrics:")
	fmt.Printf("  %-20s %5s %8s %9s\n", "Player", "Skill", "Matches", "Back2Back")
	for _, p := range players {
		m := result.Players[p.ID]
		if m == nil {
			continue
		}
		fmt.Printf("  %-20s %5s %8d %9d\n", p, p.SkillLevel, m.Matches, m.BackToBack)
	}
	fmt.Printf("\n  Matches per player: mean %.2f, std dev %.2f\n", result.MeanGames, result.StdDevGames)
	fmt.Printf("  Largest team-score difference: %d\n", result.MaxDiff)
}

func runValidate(cfg *config.Config, schedulePath string) error {
	violations, err := validator.Validate(cfg, schedulePath)
	if err != nil {
		return fmt.Errorf("validating: %w", err)
	}

	errs := 0
	warnings := 0
	for _, v := range violations {
		where := ""
		if v.Row > 0 {
			where = fmt.Sprintf(" (row %d)", v.Row)
		}
		switch v.Type {
		case "error":
			errs++
			fmt.Printf("✗ Rule violation%s: %s\n", where, v.Message)
		case "warning":
			warnings++
			fmt.Printf("⚠ Guideline violation%s: %s\n", where, v.Message)
		}
	}

	fmt.Printf("\nValidation complete: %d rule violations, %d guideline violations\n", errs, warnings)

	if errs > 0 {
		return fmt.Errorf("%d constraint violations found", errs)
	}

	// Regenerate derived sheets from the match list
	if err := excel.UpdateSheets(schedulePath, cfg); err != nil {
		return fmt.Errorf("updating sheets: %w", err)
	}
	fmt.Printf("✓ Rounds and Players sheets updated in %s\n", schedulePath)
	return nil
}

func runOptimize(cfg *config.Config, log zerolog.Logger, inputPath, outputPath string) error {
	players := cfg.Roster()
	matches, err := excel.ReadMatches(inputPath, players)
	if err != nil {
		return fmt.Errorf("reading schedule: %w", err)
	}

	opts := cfg.Options(log)
	before := opts.Scorer.MaxDiffOf(matches)
	conflictsBefore := schedule.Conflicts(matches)

	matches = schedule.Optimize(matches, opts)
	matches = schedule.SequenceWithBudget(matches, opts.Budgets.Sequence)
	schedule.AssignCourts(matches, cfg.Courts)
	result := schedule.Summarize(players, matches, opts)

	fmt.Printf("✓ Largest team-score difference: %d → %d\n", before, result.MaxDiff)
	fmt.Printf("✓ Back-to-back conflicts: %d → %d\n", conflictsBefore, result.AdjacentConflicts)
	for _, w := range result.Warnings {
		fmt.Printf("  ⚠ %s\n", w)
	}

	f, err := excel.Generate(cfg, result)
	if err != nil {
		return fmt.Errorf("generating Excel: %w", err)
	}
	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("saving file: %w", err)
	}
	fmt.Printf("\n✓ Schedule saved to %s\n", outputPath)
	return nil
}
