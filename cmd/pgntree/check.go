package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lgbarn/pgntree/internal/chess"
	"github.com/lgbarn/pgntree/internal/parser"
	"github.com/lgbarn/pgntree/internal/processing"
	"github.com/lgbarn/pgntree/internal/source"
)

func newCheckCmd(a *app) *cobra.Command {
	var analyze bool

	cmd := &cobra.Command{
		Use:   "check FILE...",
		Short: "Report games that fail to parse",
		Long: `Load each file and print how many games parsed, followed by one line
per failed game. The command fails if any game failed.

With --analyze, every parsed game also gets a one-line summary of its tree.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			failed := 0
			for _, path := range args {
				report, err := a.load(cmd.Context(), path)
				if err != nil {
					return err
				}
				printReport(w, source.Name(path), report)
				failed += report.Failed()

				if analyze {
					if err := a.printAnalysis(w, report); err != nil {
						return err
					}
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d games failed to parse", failed)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&analyze, "analyze", false, "summarize each parsed game")
	return cmd
}

func printReport(w io.Writer, name string, report *parser.LoadReport) {
	fmt.Fprintf(w, "%s: %s\n", name, report.Summary())
	for _, f := range report.Errors {
		fmt.Fprintf(w, "  game %d: %v\n", f.Index+1, f.Err)
	}
}

func (a *app) printAnalysis(w io.Writer, report *parser.LoadReport) error {
	for i, game := range report.Games.All() {
		an, err := processing.AnalyzeGame(game, a.rules)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "  #%d %s: %s\n", i+1, gameTitle(game), formatAnalysis(an))
	}
	return nil
}

func formatAnalysis(an *processing.GameAnalysis) string {
	parts := []string{
		fmt.Sprintf("%d plies", an.Plies),
		fmt.Sprintf("%d nodes", an.Nodes),
		fmt.Sprintf("%d variations (depth %d)", an.Variations, an.MaxVariationDepth),
		fmt.Sprintf("%d comments", an.Comments),
		fmt.Sprintf("%d evals", an.Evaluations),
		fmt.Sprintf("%d NAGs", an.NAGs),
	}
	if an.HasRepetition {
		parts = append(parts, "threefold repetition")
	}
	if an.HasFiftyMoveRule {
		parts = append(parts, "fifty-move rule")
	}
	if an.HasUnderpromotion {
		parts = append(parts, "underpromotion")
	}
	if len(an.MissingTags) > 0 {
		parts = append(parts, "missing "+strings.Join(an.MissingTags, ","))
	}
	if an.InvalidResult {
		parts = append(parts, "invalid Result tag")
	}
	return strings.Join(parts, ", ")
}

// gameTitle names a game by its players, falling back to "?".
func gameTitle(game *chess.GameRecord) string {
	white, black := game.GetTag("White"), game.GetTag("Black")
	if white == "" {
		white = "?"
	}
	if black == "" {
		black = "?"
	}
	return white + " - " + black
}
