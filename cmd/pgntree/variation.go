package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lgbarn/pgntree/internal/chess"
	"github.com/lgbarn/pgntree/internal/navigator"
	"github.com/lgbarn/pgntree/internal/source"
)

// variationFlags select the edit point shared by the variation subcommands.
type variationFlags struct {
	gameNum int
	at      string
	out     outputFlags
}

func (f *variationFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&f.gameNum, "game", "g", 1, "1-based game number")
	cmd.Flags().StringVar(&f.at, "at", "", `moves from the start to the edit point, e.g. "e4 e5 Nf3"`)
	f.out.register(cmd)
}

func newVariationCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "variation",
		Short: "Edit the variations of a game",
		Long: `Edit one game of a file and write the whole file back out.

The edit point is the position reached by the --at moves, which may run
through variations. Children are numbered from 0, the mainline. Games are
numbered from 1 as check reports them. A file with games that fail to parse
is not rewritten, since those games could not be written back.`,
	}
	cmd.AddCommand(
		newVariationEditCmd(a, "promote", "Make a variation the mainline",
			func(nav *navigator.Navigator, at *chess.Node, index int, _ string) error {
				return nav.PromoteToMain(at, index)
			}),
		newVariationEditCmd(a, "remove", "Delete a variation and everything after it",
			func(nav *navigator.Navigator, at *chess.Node, index int, _ string) error {
				return nav.RemoveVariation(at, index)
			}),
		newVariationEditCmd(a, "add", "Add a move as a new variation",
			func(nav *navigator.Navigator, at *chess.Node, _ int, san string) error {
				_, err := nav.AddVariationSAN(at, san)
				return err
			}),
	)
	return cmd
}

type editFunc func(nav *navigator.Navigator, at *chess.Node, index int, san string) error

func newVariationEditCmd(a *app, name, short string, edit editFunc) *cobra.Command {
	var (
		vf    variationFlags
		index int
		move  string
	)
	cmd := &cobra.Command{
		Use:   name + " FILE",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := a.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !report.OK() {
				name := source.Name(args[0])
				printReport(cmd.ErrOrStderr(), name, report)
				return fmt.Errorf("%d games failed to parse; not rewriting %s", report.Failed(), name)
			}
			game, err := pickGame(report, vf.gameNum)
			if err != nil {
				return err
			}
			nav, err := navigator.New(game, a.rules, navigator.WithLogger(a.cfg.Log()), navigator.WithStats(a.stats))
			if err != nil {
				return err
			}
			at, err := nav.Find(strings.Fields(vf.at)...)
			if err != nil {
				return err
			}
			if err := edit(nav, at, index, move); err != nil {
				return err
			}
			a.cfg.Log().Info("edited game",
				zap.String("edit", name),
				zap.Int("game", vf.gameNum),
				zap.String("at", vf.at))
			return a.writeGames(cmd, &vf.out, false, report.Games.Games())
		},
	}
	vf.register(cmd)
	if name == "add" {
		cmd.Flags().StringVar(&move, "move", "", "move to add, in SAN")
		_ = cmd.MarkFlagRequired("move")
	} else {
		cmd.Flags().IntVar(&index, "index", 1, "child index of the variation")
	}
	return cmd
}
