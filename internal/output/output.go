// Package output serializes game trees as PGN text and JSON.
package output

import (
	"io"
	"strconv"
	"strings"

	"github.com/lgbarn/pgntree/internal/chess"
	"github.com/lgbarn/pgntree/internal/config"
)

// OutputWriter handles formatted output with line length control. Tokens are
// never split; a token longer than the line limit gets a line to itself.
type OutputWriter struct {
	w             io.Writer
	lineLength    int
	maxLineLength int
	needsSpace    bool
	err           error
}

// NewOutputWriter creates a new output writer. A maxLineLength of zero or
// less disables wrapping.
func NewOutputWriter(w io.Writer, maxLineLength int) *OutputWriter {
	return &OutputWriter{
		w:             w,
		maxLineLength: maxLineLength,
	}
}

// Write writes a token, adding a space separator or line break if needed.
func (o *OutputWriter) Write(s string) {
	if s == "" {
		return
	}
	if o.needsSpace {
		if o.maxLineLength > 0 && o.lineLength+1+firstLineLen(s) > o.maxLineLength {
			o.NewLine()
		} else {
			o.emit(" ")
		}
	}
	o.emit(s)
	o.needsSpace = true
}

// WriteNoSpace writes a token directly after the previous one.
func (o *OutputWriter) WriteNoSpace(s string) {
	o.emit(s)
	o.needsSpace = true
}

// Open writes a token that the next token attaches to, such as "(".
func (o *OutputWriter) Open(s string) {
	o.Write(s)
	o.needsSpace = false
}

// NewLine starts a new line.
func (o *OutputWriter) NewLine() {
	o.emit("\n")
	o.needsSpace = false
}

// Err returns the first write error.
func (o *OutputWriter) Err() error {
	return o.err
}

func (o *OutputWriter) emit(s string) {
	if o.err != nil {
		return
	}
	if _, err := io.WriteString(o.w, s); err != nil {
		o.err = err
		return
	}
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		o.lineLength = len(s) - i - 1
	} else {
		o.lineLength += len(s)
	}
}

func firstLineLen(s string) int {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return i
	}
	return len(s)
}

// WritePGN writes record as one PGN game: tags, a blank line, then the
// movetext ending with the result. The tree is read under the game's read
// lock.
func WritePGN(w io.Writer, record *chess.GameRecord, cfg *config.Config) error {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	record.RLock()
	defer record.RUnlock()

	ow := NewOutputWriter(w, cfg.Output.LineWidth)
	if outputTags(record, cfg, ow) {
		ow.NewLine()
	}
	outputMoves(record, cfg, ow)
	return ow.Err()
}

// outputTags writes the tag section and reports whether any tag was written.
func outputTags(record *chess.GameRecord, cfg *config.Config, ow *OutputWriter) bool {
	switch cfg.Output.TagFormat {
	case config.NoTags:
		return false
	case config.SevenTagRoster:
		for _, tag := range chess.SevenTagRoster {
			value := record.GetTag(tag)
			switch {
			case tag == chess.ResultTag:
				value = record.EffectiveResult()
			case value == "":
				value = "?"
			}
			writeTag(ow, tag, value)
		}
		return true
	}

	written := false
	for name, value := range record.Headers.All() {
		writeTag(ow, name, value)
		written = true
	}
	return written
}

func writeTag(ow *OutputWriter, name, value string) {
	ow.WriteNoSpace("[" + name + " \"" + escapeTagValue(value) + "\"]")
	ow.NewLine()
}

// escapeTagValue escapes special characters in tag values.
func escapeTagValue(s string) string {
	// Fast path: if no escaping needed, return original string
	if !strings.ContainsAny(s, "\\\"") {
		return s
	}
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	return s
}

// outputMoves writes the game comment, the move tree and the result.
func outputMoves(record *chess.GameRecord, cfg *config.Config, ow *OutputWriter) {
	if cfg.Output.IncludeComments {
		outputComment(record.Root.Comment, ow)
	}
	if first := record.Root.Mainline(); first != nil {
		outputLine(first, record.StartPly, true, cfg, ow)
	}
	ow.Write(record.EffectiveResult())
	ow.NewLine()
}

// outputLine writes first and its mainline continuation. After each move the
// alternatives to it are written in brackets; withSiblings controls whether
// that includes the alternatives to first itself, which the caller writes
// when first opens a variation.
func outputLine(first *chess.Node, ply int, withSiblings bool, cfg *config.Config, ow *OutputWriter) {
	needNumber := true
	for node := first; node != nil; node = node.Mainline() {
		needNumber = outputMove(node, ply, needNumber, cfg, ow)

		if cfg.Output.IncludeVariations && (node != first || withSiblings) {
			for _, v := range node.Parent().Variations() {
				outputVariation(v, ply, cfg, ow)
				needNumber = true
			}
		}
		ply++
	}
}

// outputVariation writes one bracketed alternative starting at v.
func outputVariation(v *chess.Node, ply int, cfg *config.Config, ow *OutputWriter) {
	ow.Open("(")
	if cfg.Output.IncludeComments {
		outputComment(v.PreComment, ow)
	}
	outputLine(v, ply, false, cfg, ow)
	ow.WriteNoSpace(")")
}

// outputMove writes one move with its number, glyphs and comment. It reports
// whether the next Black move needs its number repeated.
func outputMove(node *chess.Node, ply int, needNumber bool, cfg *config.Config, ow *OutputWriter) bool {
	num, side := chess.MoveNumberAt(ply)
	if side == chess.White {
		ow.Write(strconv.Itoa(num) + ".")
	} else if needNumber {
		ow.Write(strconv.Itoa(num) + "...")
	}
	ow.Write(node.SAN)

	if cfg.Output.IncludeNAGs {
		for _, nag := range node.Annotation.NAGs {
			ow.Write(nag.String())
		}
	}
	if cfg.Output.IncludeComments && node.Comment != "" {
		outputComment(node.Comment, ow)
		return true
	}
	return false
}

// outputComment writes text as a brace comment. Text holding '}', which only
// a ';' comment can produce, is written as a ';' comment running to the end
// of the line; newlines in it become spaces.
func outputComment(text string, ow *OutputWriter) {
	if text == "" {
		return
	}
	if strings.Contains(text, "}") {
		ow.Write(";" + strings.ReplaceAll(text, "\n", " "))
		ow.NewLine()
		return
	}
	ow.Write("{" + text + "}")
}
