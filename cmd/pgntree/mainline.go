package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lgbarn/pgntree/internal/annotation"
	"github.com/lgbarn/pgntree/internal/chess"
	"github.com/lgbarn/pgntree/internal/navigator"
	"github.com/lgbarn/pgntree/internal/parser"
	"github.com/lgbarn/pgntree/internal/source"
)

func newMainlineCmd(a *app) *cobra.Command {
	var (
		gameNum  int
		comments bool
	)
	cmd := &cobra.Command{
		Use:   "mainline FILE",
		Short: "Print the mainline of a game with its evaluations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := a.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !report.OK() {
				printReport(cmd.ErrOrStderr(), source.Name(args[0]), report)
			}
			game, err := pickGame(report, gameNum)
			if err != nil {
				return err
			}
			nav, err := navigator.New(game, a.rules, navigator.WithLogger(a.cfg.Log()), navigator.WithStats(a.stats))
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for node := range nav.MainlineMoves() {
				line := moveLabel(game, node)
				if eval := node.Annotation.Eval; eval.Kind != chess.Unscored {
					line += "  " + eval.String()
				}
				if comments {
					if text := annotation.Display(node.Comment); text != "" {
						line += "  {" + text + "}"
					}
				}
				fmt.Fprintln(w, line)
			}
			fmt.Fprintln(w, game.EffectiveResult())
			return nil
		},
	}
	cmd.Flags().IntVarP(&gameNum, "game", "g", 1, "1-based game number")
	cmd.Flags().BoolVar(&comments, "comments", false, "print comment text after each move")
	return cmd
}

// moveLabel renders a move with its number, e.g. "12. Nf3" or "12... Nf6".
func moveLabel(game *chess.GameRecord, node *chess.Node) string {
	num, side := chess.MoveNumberAt(game.PlyOf(node))
	if side == chess.White {
		return fmt.Sprintf("%d. %s", num, node.SAN)
	}
	return fmt.Sprintf("%d... %s", num, node.SAN)
}

// pickGame returns game n, counting from 1 over every game of the load with
// failed ones included, so numbers match those printed by check.
func pickGame(report *parser.LoadReport, n int) (*chess.GameRecord, error) {
	if n < 1 || n > report.Total {
		return nil, fmt.Errorf("game %d not found: %s", n, report.Summary())
	}
	index, parsed := n-1, n-1
	for _, f := range report.Errors {
		switch {
		case f.Index == index:
			return nil, fmt.Errorf("game %d failed to parse: %w", n, f.Err)
		case f.Index < index:
			parsed--
		}
	}
	return report.Games.At(parsed), nil
}
