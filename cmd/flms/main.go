package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"flms/internal/config"
	"flms/internal/excel"
	"flms/internal/league"
	"flms/internal/schedule"
	"flms/internal/standings"
	"flms/internal/store"
	"flms/internal/validator"
)

const (
	defaultConfigFile = "league.yaml"
	defaultStoreFile  = "league.db"
	configEnvVar      = "FLMS_CONFIG"
	storeEnvVar       = "FLMS_DB"
)

func resolveConfigPath(configFlag string) (string, error) {
	if configFlag != "" {
		return configFlag, nil
	}
	if env := os.Getenv(configEnvVar); env != "" {
		return env, nil
	}
	if _, err := os.Stat(defaultConfigFile); err == nil {
		return defaultConfigFile, nil
	}
	return "", fmt.Errorf("no league file found. Either create %s in the current directory, set %s, or pass --config", defaultConfigFile, configEnvVar)
}

func resolveStorePath(storeFlag string) string {
	if storeFlag != "" {
		return storeFlag
	}
	if env := os.Getenv(storeEnvVar); env != "" {
		return env
	}
	return defaultStoreFile
}

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	cw := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	return zerolog.New(cw).Level(level).With().Timestamp().Logger()
}

func main() {
	var (
		configFile string
		storeFile  string
		verbose    bool
	)

	rootCmd := &cobra.Command{
		Use:   "flms",
		Short: "Football league fixture scheduler",
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to league file (default: league.yaml in current directory)")
	rootCmd.PersistentFlags().StringVar(&storeFile, "db", "", "Path to fixture database (default: league.db in current directory)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	var initOutputPath string
	initCmd := &cobra.Command{
		Use:          "init",
		Short:        "Create a starter league.yaml in the current directory",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(initOutputPath)
		},
	}
	initCmd.Flags().StringVarP(&initOutputPath, "output", "o", defaultConfigFile, "Output path for the league file")

	var generateForce bool
	generateCmd := &cobra.Command{
		Use:          "generate",
		Short:        "Generate the double round-robin fixture calendar",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context(), newLogger(verbose), configFile, resolveStorePath(storeFile), generateForce)
		},
	}
	generateCmd.Flags().BoolVar(&generateForce, "force", false, "Overwrite an existing calendar")

	validateCmd := &cobra.Command{
		Use:          "validate",
		Short:        "Check the stored calendar for scheduling conflicts",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.Context(), newLogger(verbose), configFile, resolveStorePath(storeFile))
		},
	}

	rescheduleCmd := &cobra.Command{
		Use:          "reschedule <fixture-id> <week>",
		Short:        "Move a fixture to another week",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			week, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("week must be a number, got %q", args[1])
			}
			return runReschedule(cmd.Context(), newLogger(verbose), resolveStorePath(storeFile), args[0], week)
		},
	}

	regenerateCmd := &cobra.Command{
		Use:          "regenerate",
		Short:        "Rebuild the calendar from the current roster, discarding results",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegenerate(cmd.Context(), newLogger(verbose), configFile, resolveStorePath(storeFile))
		},
	}

	var fixturesTeam string
	var fixturesWeek int
	fixturesCmd := &cobra.Command{
		Use:          "fixtures",
		Short:        "List fixtures, optionally filtered by team or week",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFixtures(cmd.Context(), newLogger(verbose), configFile, resolveStorePath(storeFile), fixturesTeam, fixturesWeek)
		},
	}
	fixturesCmd.Flags().StringVar(&fixturesTeam, "team", "", "Show only fixtures involving this team id")
	fixturesCmd.Flags().IntVar(&fixturesWeek, "week", 0, "Show only fixtures in this week")

	resultCmd := &cobra.Command{
		Use:          "result <fixture-id> <home-score> <away-score>",
		Short:        "Record a final score for a fixture",
		Args:         cobra.ExactArgs(3),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			home, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("home score must be a number, got %q", args[1])
			}
			away, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("away score must be a number, got %q", args[2])
			}
			return runResult(cmd.Context(), newLogger(verbose), configFile, resolveStorePath(storeFile), args[0], home, away)
		},
	}

	tableCmd := &cobra.Command{
		Use:          "table",
		Short:        "Show the league table computed from recorded results",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTable(cmd.Context(), newLogger(verbose), configFile, resolveStorePath(storeFile))
		},
	}

	var exportOutputPath string
	exportCmd := &cobra.Command{
		Use:          "export",
		Short:        "Export the calendar as an Excel workbook",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd.Context(), newLogger(verbose), configFile, resolveStorePath(storeFile), exportOutputPath)
		},
	}
	exportCmd.Flags().StringVarP(&exportOutputPath, "output", "o", "schedule.xlsx", "Output Excel file path")

	var snapshotOutputPath string
	snapshotCmd := &cobra.Command{
		Use:          "snapshot",
		Short:        "Write the season to a portable JSON file",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshot(cmd.Context(), newLogger(verbose), configFile, resolveStorePath(storeFile), snapshotOutputPath)
		},
	}
	snapshotCmd.Flags().StringVarP(&snapshotOutputPath, "output", "o", "season.json", "Output JSON file path")

	restoreCmd := &cobra.Command{
		Use:          "restore <snapshot.json>",
		Short:        "Load a season snapshot into the fixture database",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRestore(cmd.Context(), newLogger(verbose), resolveStorePath(storeFile), args[0])
		},
	}

	rootCmd.AddCommand(initCmd, generateCmd, validateCmd, rescheduleCmd, regenerateCmd,
		fixturesCmd, resultCmd, tableCmd, exportCmd, snapshotCmd, restoreCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runInit(outputPath string) error {
	if _, err := os.Stat(outputPath); err == nil {
		return fmt.Errorf("%s already exists; remove it first or use -o to write elsewhere", outputPath)
	}

	if err := os.WriteFile(outputPath, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing league file: %w", err)
	}

	fmt.Printf("✓ Created %s\n", outputPath)
	return nil
}

const configTemplate = `# Football League Season Configuration
# ====================================
# This file defines the league and its roster. The fixture calendar is
# generated from the team list with a double round-robin: every pair of
# teams meets twice, once at each team's venue.

league: "Sunday District League"
season: "2026/27"

# Teams need a name and a home venue. The id is optional; when omitted
# it is derived from the name (lowercased, spaces become underscores).
#
# A league needs at least 4 teams. Odd-sized rosters work too: each
# week one team sits out.
teams:
  - name: "Rovers"
    venue: "Rovers Park"
  - name: "United"
    venue: "Union Road"
  - name: "Athletic"
    venue: "Athletic Ground"
  - name: "Wanderers"
    venue: "Wanderers Lane"
`

func loadLeague(configFlag string) (*config.Config, error) {
	path, err := resolveConfigPath(configFlag)
	if err != nil {
		return nil, err
	}
	cfg, err := config.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading league file: %w", err)
	}
	return cfg, nil
}

func runGenerate(ctx context.Context, log zerolog.Logger, configFlag, storePath string, force bool) error {
	cfg, err := loadLeague(configFlag)
	if err != nil {
		return err
	}

	st, err := store.Open(storePath, log)
	if err != nil {
		return err
	}
	defer st.Close()

	if _, _, err := st.LoadCalendar(ctx); err == nil && !force {
		return fmt.Errorf("a calendar already exists in %s; pass --force to overwrite, or use regenerate after a roster change", storePath)
	}

	roster := cfg.Roster()
	cal, err := schedule.Generate(roster)
	if err != nil {
		return fmt.Errorf("generating calendar: %w", err)
	}

	meta := store.Meta{
		League:      cfg.League,
		Season:      cfg.Season,
		Algorithm:   schedule.Algorithm,
		GeneratedAt: time.Now().UTC(),
	}
	if err := st.SaveCalendar(ctx, meta, cal); err != nil {
		return err
	}

	weeks := cal.Weeks()
	fmt.Printf("✓ Generated %d fixtures across %d weeks for %d teams\n", cal.Len(), len(weeks), len(roster))

	errCount, warnCount := printViolations(validator.Validate(cal, roster))
	if errCount == 0 && warnCount == 0 {
		fmt.Println("✓ Calendar passes validation")
	}

	fmt.Printf("✓ Saved to %s\n", storePath)
	return nil
}

func runValidate(ctx context.Context, log zerolog.Logger, configFlag, storePath string) error {
	cfg, err := loadLeague(configFlag)
	if err != nil {
		return err
	}

	st, err := store.Open(storePath, log)
	if err != nil {
		return err
	}
	defer st.Close()

	_, cal, err := st.LoadCalendar(ctx)
	if err != nil {
		return err
	}

	errCount, warnCount := printViolations(validator.Validate(cal, cfg.Roster()))
	fmt.Printf("\nValidation complete: %d errors, %d warnings\n", errCount, warnCount)

	if errCount > 0 {
		return fmt.Errorf("%d scheduling conflicts found", errCount)
	}
	return nil
}

func printViolations(violations []validator.Violation) (errCount, warnCount int) {
	for _, v := range violations {
		switch v.Severity {
		case "error":
			errCount++
			fmt.Printf("✗ %s\n", v.Message)
		case "warning":
			warnCount++
			fmt.Printf("⚠ %s\n", v.Message)
		}
	}
	return errCount, warnCount
}

func runReschedule(ctx context.Context, log zerolog.Logger, storePath, fixtureID string, week int) error {
	st, err := store.Open(storePath, log)
	if err != nil {
		return err
	}
	defer st.Close()

	_, cal, err := st.LoadCalendar(ctx)
	if err != nil {
		return err
	}

	if err := schedule.Reschedule(cal, fixtureID, week); err != nil {
		return err
	}

	fx := cal.Find(fixtureID)
	if err := st.UpdateFixture(ctx, *fx); err != nil {
		return err
	}

	fmt.Printf("✓ %s moved to week %d\n", fixtureID, week)
	return nil
}

func runRegenerate(ctx context.Context, log zerolog.Logger, configFlag, storePath string) error {
	cfg, err := loadLeague(configFlag)
	if err != nil {
		return err
	}

	st, err := store.Open(storePath, log)
	if err != nil {
		return err
	}
	defer st.Close()

	_, cal, err := st.LoadCalendar(ctx)
	if errors.Is(err, store.ErrNotGenerated) {
		cal = &league.Calendar{}
	} else if err != nil {
		return err
	}

	played := 0
	for _, fx := range cal.Fixtures {
		if fx.Played {
			played++
		}
	}
	if played > 0 {
		fmt.Printf("⚠ Discarding %d recorded results\n", played)
	}

	roster := cfg.Roster()
	regenErr := schedule.Regenerate(cal, roster)

	meta := store.Meta{
		League:      cfg.League,
		Season:      cfg.Season,
		Algorithm:   schedule.Algorithm,
		GeneratedAt: time.Now().UTC(),
	}
	if err := st.SaveCalendar(ctx, meta, cal); err != nil {
		return err
	}

	if regenErr != nil {
		return fmt.Errorf("regenerating calendar: %w", regenErr)
	}

	fmt.Printf("✓ Regenerated %d fixtures across %d weeks for %d teams\n", cal.Len(), len(cal.Weeks()), len(roster))
	fmt.Printf("✓ Saved to %s\n", storePath)
	return nil
}

func runFixtures(ctx context.Context, log zerolog.Logger, configFlag, storePath, teamID string, week int) error {
	cfg, err := loadLeague(configFlag)
	if err != nil {
		return err
	}

	st, err := store.Open(storePath, log)
	if err != nil {
		return err
	}
	defer st.Close()

	_, cal, err := st.LoadCalendar(ctx)
	if err != nil {
		return err
	}

	byID := rosterByID(cfg.Roster())
	if teamID != "" {
		if _, ok := byID[teamID]; !ok {
			return fmt.Errorf("unknown team id %q", teamID)
		}
	}

	var fixtures []league.Fixture
	switch {
	case teamID != "" && week > 0:
		for _, fx := range cal.ByTeam(teamID) {
			if fx.Week == week {
				fixtures = append(fixtures, fx)
			}
		}
	case teamID != "":
		fixtures = cal.ByTeam(teamID)
	case week > 0:
		fixtures = cal.ByWeek(week)
	default:
		fixtures = cal.Sorted()
	}

	if len(fixtures) == 0 {
		fmt.Println("No fixtures to show")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Week", "Fixture", "Home", "Away", "Status", "Score"})
	for _, fx := range fixtures {
		score := ""
		if fx.Played {
			score = fmt.Sprintf("%d-%d", fx.HomeScore, fx.AwayScore)
		}
		t.AppendRow(table.Row{fx.Week, fx.ID, displayName(byID, fx.HomeID), displayName(byID, fx.AwayID), string(fx.Status), score})
	}
	t.SetStyle(table.StyleLight)
	t.Render()
	return nil
}

func runResult(ctx context.Context, log zerolog.Logger, configFlag, storePath, fixtureID string, homeScore, awayScore int) error {
	cfg, err := loadLeague(configFlag)
	if err != nil {
		return err
	}

	st, err := store.Open(storePath, log)
	if err != nil {
		return err
	}
	defer st.Close()

	_, cal, err := st.LoadCalendar(ctx)
	if err != nil {
		return err
	}

	if err := standings.RecordResult(cal, fixtureID, homeScore, awayScore); err != nil {
		return err
	}

	fx := cal.Find(fixtureID)
	if err := st.UpdateFixture(ctx, *fx); err != nil {
		return err
	}

	byID := rosterByID(cfg.Roster())
	fmt.Printf("✓ %s %d - %d %s\n", displayName(byID, fx.HomeID), homeScore, awayScore, displayName(byID, fx.AwayID))
	return nil
}

func runTable(ctx context.Context, log zerolog.Logger, configFlag, storePath string) error {
	cfg, err := loadLeague(configFlag)
	if err != nil {
		return err
	}

	st, err := store.Open(storePath, log)
	if err != nil {
		return err
	}
	defer st.Close()

	_, cal, err := st.LoadCalendar(ctx)
	if err != nil {
		return err
	}

	rows := standings.Table(cal, cfg.Roster())

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Pos", "Team", "P", "W", "D", "L", "GF", "GA", "GD", "Pts"})
	for _, r := range rows {
		t.AppendRow(table.Row{r.Pos, r.Name, r.Played, r.Won, r.Drawn, r.Lost, r.GoalsFor, r.GoalsAgainst, r.GoalDiff, r.Points})
	}
	t.SetStyle(table.StyleLight)
	t.Render()
	return nil
}

func runExport(ctx context.Context, log zerolog.Logger, configFlag, storePath, outputPath string) error {
	cfg, err := loadLeague(configFlag)
	if err != nil {
		return err
	}

	st, err := store.Open(storePath, log)
	if err != nil {
		return err
	}
	defer st.Close()

	_, cal, err := st.LoadCalendar(ctx)
	if err != nil {
		return err
	}

	f, err := excel.Generate(cfg.League, cfg.Season, cfg.Roster(), cal)
	if err != nil {
		return fmt.Errorf("generating Excel: %w", err)
	}

	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("saving file: %w", err)
	}

	fmt.Printf("✓ Schedule saved to %s\n", outputPath)
	return nil
}

func runSnapshot(ctx context.Context, log zerolog.Logger, configFlag, storePath, outputPath string) error {
	cfg, err := loadLeague(configFlag)
	if err != nil {
		return err
	}

	st, err := store.Open(storePath, log)
	if err != nil {
		return err
	}
	defer st.Close()

	meta, cal, err := st.LoadCalendar(ctx)
	if err != nil {
		return err
	}

	snap := store.BuildSnapshot(meta, cfg.Roster(), cal)
	if err := store.WriteSnapshot(outputPath, snap); err != nil {
		return err
	}

	fmt.Printf("✓ Wrote %d fixtures and %d teams to %s\n", len(snap.Fixtures), len(snap.Teams), outputPath)
	return nil
}

func runRestore(ctx context.Context, log zerolog.Logger, storePath, snapshotPath string) error {
	snap, err := store.ReadSnapshot(snapshotPath)
	if err != nil {
		return err
	}

	st, err := store.Open(storePath, log)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.SaveCalendar(ctx, snap.Meta(), snap.Calendar()); err != nil {
		return err
	}

	fmt.Printf("✓ Restored %d fixtures from %s\n", len(snap.Fixtures), snapshotPath)
	return nil
}

func rosterByID(teams []league.Team) map[string]league.Team {
	byID := make(map[string]league.Team, len(teams))
	for _, t := range teams {
		byID[t.ID] = t
	}
	return byID
}

func displayName(byID map[string]league.Team, id string) string {
	if t, ok := byID[id]; ok {
		return t.Name
	}
	return id
}
