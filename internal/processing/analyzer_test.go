package processing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lgbarn/pgntree/internal/chess"
	"github.com/lgbarn/pgntree/internal/rules/notnilrules"
	"github.com/lgbarn/pgntree/internal/testutil"
)

func analyze(t *testing.T, pgn string) *GameAnalysis {
	t.Helper()
	a, err := AnalyzeGame(testutil.MustParseGame(t, pgn), notnilrules.New())
	require.NoError(t, err)
	return a
}

func TestAnalyzeTreeCounts(t *testing.T) {
	tests := []struct {
		name string
		pgn  string
		want GameAnalysis
	}{
		{
			name: "plain mainline",
			pgn:  "1. e4 e5 2. Nf3 *",
			want: GameAnalysis{Plies: 3, Nodes: 3},
		},
		{
			name: "sibling variations",
			pgn:  "1. e4 {king pawn} e5 (1... c5 $1) (1... e6) 2. Nf3 *",
			want: GameAnalysis{Plies: 3, Nodes: 5, Variations: 2, MaxVariationDepth: 1, Comments: 1, NAGs: 1},
		},
		{
			name: "nested variation",
			pgn:  "1. e4 e5 (1... c5 2. Nf3 (2. Nc3 {closed} Nc6)) 2. Nf3 *",
			want: GameAnalysis{Plies: 3, Nodes: 7, Variations: 2, MaxVariationDepth: 2, Comments: 1},
		},
		{
			name: "evaluations and pre-comments",
			pgn:  "{start} 1. e4 {+0.25} e5 ({sharp} 1... c5 {#3}) *",
			want: GameAnalysis{Plies: 2, Nodes: 3, Variations: 1, MaxVariationDepth: 1, Comments: 4, Evaluations: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := analyze(t, tt.pgn)
			assert.Equal(t, tt.want.Plies, got.Plies, "plies")
			assert.Equal(t, tt.want.Nodes, got.Nodes, "nodes")
			assert.Equal(t, tt.want.Variations, got.Variations, "variations")
			assert.Equal(t, tt.want.MaxVariationDepth, got.MaxVariationDepth, "depth")
			assert.Equal(t, tt.want.Comments, got.Comments, "comments")
			assert.Equal(t, tt.want.Evaluations, got.Evaluations, "evaluations")
			assert.Equal(t, tt.want.NAGs, got.NAGs, "nags")
		})
	}
}

func TestAnalyzeMainlineFeatures(t *testing.T) {
	t.Run("repetition", func(t *testing.T) {
		a := analyze(t, "1. Nf3 Nf6 2. Ng1 Ng8 3. Nf3 Nf6 4. Ng1 Ng8 *")
		assert.True(t, a.HasRepetition)
		assert.False(t, a.HasFiftyMoveRule)
	})

	t.Run("repetition only in a variation", func(t *testing.T) {
		a := analyze(t, "1. Nf3 Nf6 2. Ng1 (2. Nc3 Ng8 3. Nb1 Nf6 4. Ng1 Ng8 5. Nf3 Nf6 6. Ng1 Ng8) 2... Ng8 *")
		assert.False(t, a.HasRepetition)
	})

	t.Run("underpromotion", func(t *testing.T) {
		a := analyze(t, `[FEN "8/P7/8/8/8/8/8/k6K w - - 0 1"]

1. a8=N *`)
		assert.True(t, a.HasUnderpromotion)
		assert.True(t, strings.HasPrefix(a.FinalFEN, "N7/8/8/8/8/8/8/k6K b "), a.FinalFEN)
	})

	t.Run("queen promotion", func(t *testing.T) {
		a := analyze(t, `[FEN "8/P7/8/8/8/8/8/k6K w - - 0 1"]

1. a8=Q *`)
		assert.False(t, a.HasUnderpromotion)
	})

	t.Run("fifty moves", func(t *testing.T) {
		a := analyze(t, `[FEN "8/8/8/4k3/8/8/8/4K2R w K - 99 80"]

80. Rh2 *`)
		assert.True(t, a.HasFiftyMoveRule)
	})
}

func TestAnalyzeTags(t *testing.T) {
	a := analyze(t, "1. e4 *")
	assert.Equal(t, chess.SevenTagRoster, a.MissingTags)
	assert.False(t, a.InvalidResult)

	a = analyze(t, `[Event "E"]
[Site "S"]
[Date "2024.01.01"]
[Round "1"]
[White "W"]
[Black "B"]
[Result "won"]

1. e4 *`)
	assert.Empty(t, a.MissingTags)
	assert.True(t, a.InvalidResult)
}

func TestAnalyzeFinalPosition(t *testing.T) {
	a := analyze(t, "1. e4 e5 (1... c5) *")
	assert.True(t, strings.HasPrefix(a.FinalFEN, "rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq "), a.FinalFEN)
	assert.Equal(t, 2, a.Plies)
}

func TestAnalyzeBadFEN(t *testing.T) {
	game := chess.NewGameRecord()
	game.SetTag(chess.FENTag, "not a fen")
	_, err := AnalyzeGame(game, notnilrules.New())
	assert.Error(t, err)
}
