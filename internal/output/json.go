package output

import (
	"encoding/json"
	"io"

	"github.com/lgbarn/pgntree/internal/chess"
	"github.com/lgbarn/pgntree/internal/config"
)

// JSONGame represents a game in JSON format.
type JSONGame struct {
	Tags       map[string]string `json:"tags"`
	Comment    string            `json:"comment,omitempty"`
	Moves      []JSONMove        `json:"moves,omitempty"`
	Result     string            `json:"result"`
	PlyCount   int               `json:"plyCount"`
	InitialFEN string            `json:"initialFEN,omitempty"`
}

// JSONMove represents one move and the alternatives to it.
type JSONMove struct {
	MoveNumber int          `json:"moveNumber"`
	Color      string       `json:"color"` // "white" or "black"
	SAN        string       `json:"san"`
	UCI        string       `json:"uci"`
	NAGs       []string     `json:"nags,omitempty"`
	PreComment string       `json:"preComment,omitempty"`
	Comment    string       `json:"comment,omitempty"`
	Eval       *JSONEval    `json:"eval,omitempty"`
	Variations [][]JSONMove `json:"variations,omitempty"`
}

// JSONEval is an engine evaluation taken from a move's comment.
type JSONEval struct {
	Kind       string `json:"kind"`
	Centipawns int    `json:"centipawns,omitempty"`
	Mate       int    `json:"mate,omitempty"`
	Mating     string `json:"mating,omitempty"`
	Depth      int    `json:"depth,omitempty"`
	Text       string `json:"text"`
}

// JSONOutput holds multiple games for array output.
type JSONOutput struct {
	Games []*JSONGame `json:"games"`
}

// WriteJSON writes a single game as an indented JSON object.
func WriteJSON(w io.Writer, game *chess.GameRecord, cfg *config.Config) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(GameToJSON(game, cfg))
}

// GameToJSON converts a game tree to JSON form. Variations hang off the move
// they replace, as in PGN.
func GameToJSON(game *chess.GameRecord, cfg *config.Config) *JSONGame {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	game.RLock()
	defer game.RUnlock()

	jg := &JSONGame{
		Tags:       copyTags(game),
		Result:     game.EffectiveResult(),
		PlyCount:   game.PlyCount(),
		InitialFEN: game.GetTag(chess.FENTag),
	}
	if cfg.Output.IncludeComments {
		jg.Comment = game.Root.Comment
	}
	if first := game.Root.Mainline(); first != nil {
		jg.Moves = convertLine(first, game.StartPly, true, cfg)
	}
	return jg
}

// copyTags copies game tags and ensures the seven tag roster has values.
func copyTags(game *chess.GameRecord) map[string]string {
	result := make(map[string]string, game.Headers.Len()+len(chess.SevenTagRoster))
	for k, v := range game.Headers.All() {
		result[k] = v
	}
	for _, tag := range chess.SevenTagRoster {
		if _, ok := result[tag]; !ok {
			result[tag] = "?"
		}
	}
	return result
}

// convertLine mirrors outputLine.
func convertLine(first *chess.Node, ply int, withSiblings bool, cfg *config.Config) []JSONMove {
	var result []JSONMove
	for node := first; node != nil; node = node.Mainline() {
		jm := convertMove(node, ply, cfg)
		if cfg.Output.IncludeVariations && (node != first || withSiblings) {
			for _, v := range node.Parent().Variations() {
				line := convertLine(v, ply, false, cfg)
				if cfg.Output.IncludeComments {
					line[0].PreComment = v.PreComment
				}
				jm.Variations = append(jm.Variations, line)
			}
		}
		result = append(result, jm)
		ply++
	}
	return result
}

func convertMove(node *chess.Node, ply int, cfg *config.Config) JSONMove {
	num, side := chess.MoveNumberAt(ply)
	jm := JSONMove{
		MoveNumber: num,
		Color:      colorName(side),
		SAN:        node.SAN,
		UCI:        node.Move.UCI(),
	}

	if cfg.Output.IncludeNAGs {
		for _, nag := range node.Annotation.NAGs {
			jm.NAGs = append(jm.NAGs, nag.String())
		}
	}
	if cfg.Output.IncludeComments {
		jm.Comment = node.Comment
	}
	if eval := node.Annotation.Eval; eval.Kind != chess.Unscored {
		jm.Eval = convertEval(eval)
	}
	return jm
}

func convertEval(e chess.Evaluation) *JSONEval {
	je := &JSONEval{
		Kind:  e.Kind.String(),
		Depth: e.Depth,
		Text:  e.String(),
	}
	switch e.Kind {
	case chess.Centipawn:
		je.Centipawns = e.Centipawns
	case chess.MateIn:
		je.Mate = e.Mate
		je.Mating = colorName(e.Mating)
	}
	return je
}

// colorName returns "white" or "black".
func colorName(c chess.Colour) string {
	if c == chess.White {
		return "white"
	}
	return "black"
}
