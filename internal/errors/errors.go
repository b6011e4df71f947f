// Package errors provides sentinel errors and error types for pgntree.
// It defines the tokenizer, parser, navigation and move-legality failures
// as structured types that preserve context while allowing inspection
// with errors.Is() and errors.As().
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure conditions.
// Use these with errors.Is() to check for specific error types.
var (
	// ErrUnterminatedComment indicates input ended inside a { } comment.
	ErrUnterminatedComment = errors.New("unterminated comment")

	// ErrUnterminatedVariation indicates input ended inside a ( ) variation.
	ErrUnterminatedVariation = errors.New("unterminated variation")

	// ErrIllegalMove indicates a move that violates chess rules.
	ErrIllegalMove = errors.New("illegal move")

	// ErrUnbalancedVariation indicates mismatched variation parentheses.
	ErrUnbalancedVariation = errors.New("unbalanced variation")

	// ErrInvalidFEN indicates a malformed FEN string.
	ErrInvalidFEN = errors.New("invalid FEN string")

	// ErrVariationTooDeep indicates nesting beyond the configured limit.
	ErrVariationTooDeep = errors.New("variation nesting too deep")

	// ErrForeignNode indicates a node outside the game being navigated.
	ErrForeignNode = errors.New("node does not belong to this game")

	// ErrIndexOutOfRange indicates a child index outside the node's children.
	ErrIndexOutOfRange = errors.New("variation index out of range")

	// ErrMainlineRemoval indicates an attempt to delete the mainline child.
	ErrMainlineRemoval = errors.New("cannot remove the mainline; promote a variation first")

	// ErrLineNotFound indicates a move sequence that is not in the tree.
	ErrLineNotFound = errors.New("line not found in game tree")

	// ErrInvalidComment indicates comment text that cannot be written as PGN.
	ErrInvalidComment = errors.New("invalid comment text")

	// ErrInvalidConfig indicates invalid configuration values.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidCriterion indicates a game selection criterion that cannot
	// be parsed.
	ErrInvalidCriterion = errors.New("invalid selection criterion")

	// ErrNoECOEntries indicates an ECO file without a single usable line.
	ErrNoECOEntries = errors.New("no ECO entries")
)

// TokenizeError reports a lexical failure at end of input.
type TokenizeError struct {
	Err  error // ErrUnterminatedComment or ErrUnterminatedVariation
	Line int   // Line where the open construct started
}

// Error returns a formatted error message.
func (e *TokenizeError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying sentinel.
func (e *TokenizeError) Unwrap() error {
	return e.Err
}

// ParseKind classifies parse failures.
type ParseKind int

const (
	IllegalMove ParseKind = iota
	UnbalancedVariation
	InvalidFEN
	VariationTooDeep
)

var parseKindSentinels = [...]error{
	IllegalMove:         ErrIllegalMove,
	UnbalancedVariation: ErrUnbalancedVariation,
	InvalidFEN:          ErrInvalidFEN,
	VariationTooDeep:    ErrVariationTooDeep,
}

// String returns the kind name.
func (k ParseKind) String() string {
	switch k {
	case IllegalMove:
		return "IllegalMove"
	case UnbalancedVariation:
		return "UnbalancedVariation"
	case InvalidFEN:
		return "InvalidFEN"
	case VariationTooDeep:
		return "VariationTooDeep"
	}
	return "Unknown"
}

// ParseError represents a failure while building one game's tree.
type ParseError struct {
	Kind     ParseKind
	Token    string // Offending token text (if applicable)
	Position string // FEN of the position the token was read in (if applicable)
	File     string // Source file name (if known)
	Line     int    // Line number (1-based, if known)
	Err      error  // Underlying cause (if any)
}

// Error returns a formatted error message with location and context.
func (e *ParseError) Error() string {
	var parts []string

	if e.File != "" {
		loc := e.File
		if e.Line > 0 {
			loc += fmt.Sprintf(":%d", e.Line)
		}
		parts = append(parts, loc)
	} else if e.Line > 0 {
		parts = append(parts, fmt.Sprintf("line %d", e.Line))
	}

	msg := e.sentinel().Error()
	if e.Token != "" {
		msg += fmt.Sprintf(" %q", e.Token)
	}
	if e.Position != "" {
		msg += fmt.Sprintf(" in position %s", e.Position)
	}
	parts = append(parts, msg)

	if e.Err != nil && !errors.Is(e.Err, e.sentinel()) {
		parts = append(parts, e.Err.Error())
	}
	return strings.Join(parts, ": ")
}

// Unwrap exposes both the kind sentinel and the underlying cause.
func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.sentinel()}
	}
	return []error{e.sentinel(), e.Err}
}

func (e *ParseError) sentinel() error {
	if int(e.Kind) < len(parseKindSentinels) {
		return parseKindSentinels[e.Kind]
	}
	return ErrUnbalancedVariation
}

// GameError wraps errors with game context, including game index,
// ply position, and move information. It implements the error interface
// and supports unwrapping via errors.Is() and errors.As().
type GameError struct {
	Err      error  // The underlying error
	Index    int    // 0-based game index in the load
	PlyNum   int    // Ply number where error occurred (0 if not applicable)
	MoveText string // The move text that caused the error (if applicable)
	File     string // Source file name (if known)
	Line     int    // Line number in source file (if known)
}

// Error returns a formatted error message including all available context.
func (e *GameError) Error() string {
	var parts []string

	if e.File != "" {
		if e.Line > 0 {
			parts = append(parts, fmt.Sprintf("%s:%d", e.File, e.Line))
		} else {
			parts = append(parts, e.File)
		}
	}

	parts = append(parts, fmt.Sprintf("game %d", e.Index+1))

	if e.PlyNum > 0 {
		parts = append(parts, fmt.Sprintf("ply %d", e.PlyNum))
	}

	if e.MoveText != "" {
		parts = append(parts, fmt.Sprintf("move %q", e.MoveText))
	}

	context := strings.Join(parts, ", ")

	if e.Err != nil {
		return fmt.Sprintf("%s: %v", context, e.Err)
	}
	return context
}

// Unwrap returns the underlying error, enabling errors.Is() and errors.As()
// to work through the GameError wrapper.
func (e *GameError) Unwrap() error {
	return e.Err
}

// NavigationKind classifies navigator failures.
type NavigationKind int

const (
	ForeignNode NavigationKind = iota
	IndexError
	MainlineRemoval
)

// NavigationError reports a rejected navigator operation. The tree is
// unchanged whenever one is returned.
type NavigationError struct {
	Kind  NavigationKind
	Op    string // Operation name, e.g. "RemoveVariation"
	Index int    // Requested child index (IndexError, MainlineRemoval)
	Count int    // Number of children at the node (IndexError)
}

// Error returns a formatted error message.
func (e *NavigationError) Error() string {
	switch e.Kind {
	case IndexError:
		return fmt.Sprintf("%s: %v: index %d, node has %d children", e.Op, ErrIndexOutOfRange, e.Index, e.Count)
	case MainlineRemoval:
		return fmt.Sprintf("%s: %v", e.Op, ErrMainlineRemoval)
	default:
		return fmt.Sprintf("%s: %v", e.Op, ErrForeignNode)
	}
}

// Unwrap returns the sentinel for the kind.
func (e *NavigationError) Unwrap() error {
	switch e.Kind {
	case IndexError:
		return ErrIndexOutOfRange
	case MainlineRemoval:
		return ErrMainlineRemoval
	default:
		return ErrForeignNode
	}
}

// IllegalMoveError reports a move that is not legal in a position.
type IllegalMoveError struct {
	Move     string // Move as given (SAN or UCI)
	Position string // FEN of the position
}

// Error returns a formatted error message.
func (e *IllegalMoveError) Error() string {
	if e.Position != "" {
		return fmt.Sprintf("%v %q in position %s", ErrIllegalMove, e.Move, e.Position)
	}
	return fmt.Sprintf("%v %q", ErrIllegalMove, e.Move)
}

// Unwrap returns ErrIllegalMove.
func (e *IllegalMoveError) Unwrap() error {
	return ErrIllegalMove
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Join returns an error wrapping the given errors, or nil if all are nil.
func Join(errs ...error) error {
	return errors.Join(errs...)
}

// Wrap adds context to an error while preserving the underlying error
// for inspection with errors.Is() and errors.As().
func Wrap(err error, context string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", context, err)
}

// Wrapf adds formatted context to an error while preserving the underlying
// error for inspection with errors.Is() and errors.As().
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}
