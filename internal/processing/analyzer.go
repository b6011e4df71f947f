// Package processing loads game collections, in parallel when configured, and
// analyzes the loaded trees.
package processing

import (
	"strconv"
	"strings"

	"github.com/lgbarn/pgntree/internal/chess"
	"github.com/lgbarn/pgntree/internal/hashing"
	"github.com/lgbarn/pgntree/internal/rules"
)

// GameAnalysis holds the results of replaying a game's mainline and walking
// its tree.
type GameAnalysis struct {
	FinalFEN string
	Plies    int

	// Tree shape.
	Nodes             int
	Variations        int
	MaxVariationDepth int
	Comments          int
	Evaluations       int
	NAGs              int

	// Mainline features.
	HasFiftyMoveRule  bool
	HasRepetition     bool
	HasUnderpromotion bool

	// Header problems.
	MissingTags   []string
	InvalidResult bool
}

// AnalyzeGame replays the mainline of game and counts what the tree holds.
// The game is read under its read lock.
func AnalyzeGame(game *chess.GameRecord, rl rules.Rules) (*GameAnalysis, error) {
	game.RLock()
	defer game.RUnlock()

	analysis := &GameAnalysis{}
	analyzeTree(game.Root, analysis)
	analyzeTags(game, analysis)

	start, err := rules.StartOf(rl, game)
	if err != nil {
		return nil, err
	}
	positionCount := map[uint64]int{hashing.PositionHash(start.FEN()): 1}

	final, err := rules.ReplayMainline(rl, game, func(node *chess.Node, pos rules.Position) bool {
		analysis.Plies++
		if p := node.Move.Promotion; p != chess.NoPiece && p != chess.Queen {
			analysis.HasUnderpromotion = true
		}

		fen := pos.FEN()
		if halfmoveClock(fen) >= 100 {
			analysis.HasFiftyMoveRule = true
		}
		key := hashing.PositionHash(fen)
		positionCount[key]++
		if positionCount[key] >= 3 {
			analysis.HasRepetition = true
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	analysis.FinalFEN = final.FEN()
	return analysis, nil
}

// analyzeTree counts nodes, variations and annotations below root.
func analyzeTree(root *chess.Node, analysis *GameAnalysis) {
	type entry struct {
		node  *chess.Node
		depth int
	}
	stack := []entry{{root, 0}}
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := e.node
		if !n.IsRoot() {
			analysis.Nodes++
			if n.Annotation.Eval.Kind != chess.Unscored {
				analysis.Evaluations++
			}
			analysis.NAGs += len(n.Annotation.NAGs)
		}
		if n.Comment != "" {
			analysis.Comments++
		}
		if n.PreComment != "" {
			analysis.Comments++
		}
		analysis.MaxVariationDepth = max(analysis.MaxVariationDepth, e.depth)

		for i, child := range n.Children {
			depth := e.depth
			if i > 0 {
				analysis.Variations++
				depth++
			}
			stack = append(stack, entry{child, depth})
		}
	}
}

func analyzeTags(game *chess.GameRecord, analysis *GameAnalysis) {
	for _, tag := range chess.SevenTagRoster {
		if !game.Headers.Has(tag) {
			analysis.MissingTags = append(analysis.MissingTags, tag)
		}
	}
	if r, ok := game.Headers.Get(chess.ResultTag); ok && !chess.IsResult(r) {
		analysis.InvalidResult = true
	}
}

func halfmoveClock(fen string) int {
	fields := strings.Fields(fen)
	if len(fields) < 5 {
		return 0
	}
	n, _ := strconv.Atoi(fields[4])
	return n
}
