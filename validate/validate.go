// Command validate checks stage definition files for structural and
// playability problems. It verifies:
//   - JSON/YAML structure and required fields
//   - Board dimensions, wall and forbidden-cell placement
//   - Player, enemy, and item positions (in bounds, not overlapping)
//   - Victory conditions are satisfiable (a goal exists when reach_goal is set)
//   - Reachability: the goal and every beneficial item can be walked to from
//     the player's starting position
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/codequest-labs/gridquest/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Notes contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File  string
	Valid bool
	Notes []string
}

func (r *ValidationResult) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Notes = append(r.Notes, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) info(format string, args ...interface{}) {
	r.Notes = append(r.Notes, "✓ "+fmt.Sprintf(format, args...))
}

// validateStageFile loads and validates a single stage definition file.
func validateStageFile(path string) ValidationResult {
	result := ValidationResult{
		File:  filepath.Base(path),
		Valid: true,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	var stage engine.Stage
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &stage); err != nil {
			result.fail("Invalid JSON: %v", err)
			return result
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &stage); err != nil {
			result.fail("Invalid YAML: %v", err)
			return result
		}
	default:
		result.fail("Unrecognized extension %q (want .json, .yaml, or .yml)", filepath.Ext(path))
		return result
	}

	if stage.ID == "" {
		result.fail("Missing stage id")
	}
	if stage.Name == "" {
		result.fail("Missing stage name")
	}

	gs, err := engine.BuildGameState(&stage)
	if err != nil {
		result.fail("Stage rejected: %v", err)
		return result
	}

	checkReachability(gs, &result)

	if result.Valid {
		result.info("Name: %s", stage.Name)
		result.info("Board: %dx%d (%d walls, %d forbidden)",
			stage.Board.Width, stage.Board.Height,
			len(stage.Board.Walls), len(stage.Board.Forbidden))
		result.info("Enemies: %d", len(stage.Enemies))
		result.info("Items: %d", len(stage.Items))
		if stage.MaxTurns > 0 {
			result.info("Turn limit: %d", stage.MaxTurns)
		} else {
			result.info("Turn limit: none")
		}
	}

	return result
}

// checkReachability walks from the player's starting cell and reports any
// beneficial item the player could never reach. The goal is already checked
// during the build; items are not. Enemies are ignored because they move and
// die; walls and forbidden ground are permanent.
func checkReachability(gs *engine.GameState, result *ValidationResult) {
	maxSteps := gs.Board.Width * gs.Board.Height
	start := gs.Player.Position

	// Reachability is checked against terrain only
	terrain := &engine.GameState{
		Board:  gs.Board,
		Player: gs.Player,
	}

	if gs.Goal != nil {
		result.info("Goal at (%d,%d) reachable from start", gs.Goal.X, gs.Goal.Y)
	}

	unreachable := 0
	for _, item := range gs.Items {
		if item.Kind != engine.ItemBeneficial {
			continue
		}
		if !engine.CanReach(terrain, start, item.Position, maxSteps) {
			unreachable++
			result.fail("Item %q at (%d,%d) is unreachable from the player start",
				item.Name, item.Position.X, item.Position.Y)
		}
	}
	if unreachable == 0 && len(gs.Items) > 0 {
		result.info("All items reachable from start")
	}
}

// findStageFiles lists the stage definition files in a directory.
func findStageFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read stage directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".json", ".yaml", ".yml":
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	return files, nil
}

// report prints the validation results and returns whether all files passed.
func report(results []ValidationResult) bool {
	allValid := true
	for _, result := range results {
		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, note := range result.Notes {
				fmt.Println("  " + note)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, note := range result.Notes {
				if !strings.HasPrefix(note, "✓") {
					fmt.Println("  ❌ " + note)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All stages are valid!")
	} else {
		fmt.Println("❌ Some stages have problems")
	}
	return allValid
}

func main() {
	cmd := &cli.Command{
		Name:      "validate",
		Usage:     "validate stage definition files",
		ArgsUsage: "[stage files]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "dir",
				Aliases: []string{"d"},
				Value:   "stages",
				Usage:   "directory scanned for stage files when none are given",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			files := cmd.Args().Slice()
			if len(files) == 0 {
				var err error
				files, err = findStageFiles(cmd.String("dir"))
				if err != nil {
					return cli.Exit(err.Error(), 1)
				}
				if len(files) == 0 {
					return cli.Exit(fmt.Sprintf("no stage files found in %s", cmd.String("dir")), 1)
				}
			}

			results := make([]ValidationResult, 0, len(files))
			for _, file := range files {
				results = append(results, validateStageFile(file))
			}

			if !report(results) {
				return cli.Exit("", 1)
			}
			return nil
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
