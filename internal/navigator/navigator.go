// Package navigator moves a cursor through one game tree and applies
// structural edits to it: adding, removing and promoting variations.
//
// A Navigator is meant to be driven by one goroutine. Edits take the game's
// write lock for their whole duration, so other goroutines may read the tree
// under its read lock while a Navigator is in use.
package navigator

import (
	"fmt"
	"iter"
	"strings"

	"go.uber.org/zap"

	"github.com/lgbarn/pgntree/internal/annotation"
	"github.com/lgbarn/pgntree/internal/chess"
	"github.com/lgbarn/pgntree/internal/errors"
	"github.com/lgbarn/pgntree/internal/rules"
	"github.com/lgbarn/pgntree/internal/stats"
)

// Navigator holds a cursor into a game tree.
type Navigator struct {
	record *chess.GameRecord
	rules  rules.Rules
	cursor *chess.Node

	cache     *positionCache
	cacheSize int
	log       *zap.Logger
	stats     stats.Collector
}

// Option configures a Navigator.
type Option func(*Navigator)

// WithLogger sets the logger for edit diagnostics.
func WithLogger(log *zap.Logger) Option {
	return func(n *Navigator) {
		if log != nil {
			n.log = log
		}
	}
}

// WithCacheSize sets how many node positions are cached.
func WithCacheSize(size int) Option {
	return func(n *Navigator) {
		n.cacheSize = size
	}
}

// WithStats sets the metrics collector.
func WithStats(c stats.Collector) Option {
	return func(n *Navigator) {
		n.stats = stats.OrNoop(c)
	}
}

// New creates a navigator over record with the cursor at the root.
func New(record *chess.GameRecord, rl rules.Rules, opts ...Option) (*Navigator, error) {
	n := &Navigator{
		record:    record,
		rules:     rl,
		cursor:    record.Root,
		cacheSize: DefaultCacheSize,
		log:       zap.NewNop(),
		stats:     stats.Noop{},
	}
	for _, opt := range opts {
		opt(n)
	}
	cache, err := newPositionCache(n.cacheSize, n.stats)
	if err != nil {
		return nil, fmt.Errorf("position cache: %w", err)
	}
	n.cache = cache
	return n, nil
}

// Record returns the game being navigated.
func (n *Navigator) Record() *chess.GameRecord {
	return n.record
}

// Cursor returns the current node.
func (n *Navigator) Cursor() *chess.Node {
	return n.cursor
}

// StepForward moves the cursor along the mainline. It reports false, leaving
// the cursor alone, at the end of a line.
func (n *Navigator) StepForward() bool {
	n.record.RLock()
	defer n.record.RUnlock()
	next := n.cursor.Mainline()
	if next == nil {
		return false
	}
	n.cursor = next
	return true
}

// StepBack moves the cursor to its parent. It reports false at the root.
func (n *Navigator) StepBack() bool {
	n.record.RLock()
	defer n.record.RUnlock()
	if n.cursor.IsRoot() {
		return false
	}
	n.cursor = n.cursor.Parent()
	return true
}

// ToStart moves the cursor to the root.
func (n *Navigator) ToStart() {
	n.cursor = n.record.Root
}

// JumpTo moves the cursor to node, which must belong to this game.
func (n *Navigator) JumpTo(node *chess.Node) error {
	n.record.RLock()
	defer n.record.RUnlock()
	if !n.record.Contains(node) {
		return &errors.NavigationError{Kind: errors.ForeignNode, Op: "JumpTo"}
	}
	n.cursor = node
	return nil
}

// MainlineMoves yields the mainline from the first move to the end. The
// sequence can be ranged over any number of times; each step reads the tree
// under the read lock.
func (n *Navigator) MainlineMoves() iter.Seq[*chess.Node] {
	return func(yield func(*chess.Node) bool) {
		for node := n.mainlineChild(n.record.Root); node != nil; node = n.mainlineChild(node) {
			if !yield(node) {
				return
			}
		}
	}
}

func (n *Navigator) mainlineChild(node *chess.Node) *chess.Node {
	n.record.RLock()
	defer n.record.RUnlock()
	return node.Mainline()
}

// Position returns the position at the cursor.
func (n *Navigator) Position() (rules.Position, error) {
	return n.PositionAt(n.cursor)
}

// PositionAt returns the position after node's move.
func (n *Navigator) PositionAt(node *chess.Node) (rules.Position, error) {
	n.record.RLock()
	defer n.record.RUnlock()
	if !n.record.Contains(node) {
		return nil, &errors.NavigationError{Kind: errors.ForeignNode, Op: "PositionAt"}
	}
	return n.positionAt(node)
}

// CanAddVariation reports whether a move can be added after node, that is
// whether the game is not over there.
func (n *Navigator) CanAddVariation(node *chess.Node) bool {
	pos, err := n.PositionAt(node)
	if err != nil {
		return false
	}
	return !n.rules.IsGameOver(pos)
}

// AddVariation appends move as a new child of at. If at already has a child
// playing move, that child is returned and the tree is unchanged.
func (n *Navigator) AddVariation(at *chess.Node, move chess.Move) (*chess.Node, error) {
	n.record.Lock()
	defer n.record.Unlock()

	pos, err := n.editPosition("AddVariation", at)
	if err != nil {
		return nil, err
	}
	if !rules.IsLegal(n.rules, pos, move) {
		return nil, &errors.IllegalMoveError{Move: move.UCI(), Position: pos.FEN()}
	}
	return n.addChild(at, pos, move)
}

// AddVariationSAN is AddVariation with the move given in SAN.
func (n *Navigator) AddVariationSAN(at *chess.Node, san string) (*chess.Node, error) {
	n.record.Lock()
	defer n.record.Unlock()

	pos, err := n.editPosition("AddVariationSAN", at)
	if err != nil {
		return nil, err
	}
	move, err := n.rules.ParseSAN(pos, san)
	if err != nil {
		return nil, err
	}
	return n.addChild(at, pos, move)
}

func (n *Navigator) addChild(at *chess.Node, pos rules.Position, move chess.Move) (*chess.Node, error) {
	if existing := at.FindChild(move); existing != nil {
		return existing, nil
	}
	next, err := n.rules.Apply(pos, move)
	if err != nil {
		return nil, err
	}
	san, err := n.rules.ToSAN(pos, move)
	if err != nil {
		return nil, err
	}

	child := at.AddChild(move, san)
	n.cache.add(child, next)
	n.stats.IncCounter(stats.MetricTreeEdits, 1)
	n.log.Debug("added variation",
		zap.String("san", san),
		zap.Int("ply", n.record.PlyOf(child)),
		zap.Int("index", len(at.Children)-1))
	return child, nil
}

// RemoveVariation deletes at.Children[index] and its subtree. The mainline
// (index 0) cannot be removed; promote another child first. A cursor inside
// the removed subtree moves to at.
func (n *Navigator) RemoveVariation(at *chess.Node, index int) error {
	n.record.Lock()
	defer n.record.Unlock()

	if err := n.checkIndex("RemoveVariation", at, index); err != nil {
		return err
	}
	if index == 0 {
		return &errors.NavigationError{Kind: errors.MainlineRemoval, Op: "RemoveVariation", Index: index}
	}

	removed := at.RemoveChild(index)
	purged := n.cache.purge(removed)
	if n.cursor.Root() != n.record.Root {
		n.cursor = at
	}
	n.stats.IncCounter(stats.MetricTreeEdits, 1)
	n.log.Debug("removed variation",
		zap.String("san", removed.SAN),
		zap.Int("index", index),
		zap.Int("purged", purged))
	return nil
}

// PromoteToMain swaps at.Children[index] with the mainline child. Index 0 is
// a no-op.
func (n *Navigator) PromoteToMain(at *chess.Node, index int) error {
	n.record.Lock()
	defer n.record.Unlock()

	if err := n.checkIndex("PromoteToMain", at, index); err != nil {
		return err
	}
	if index == 0 {
		return nil
	}

	at.SwapChildren(0, index)
	n.stats.IncCounter(stats.MetricTreeEdits, 1)
	n.log.Debug("promoted variation",
		zap.String("san", at.Children[0].SAN),
		zap.Int("from", index))
	return nil
}

// SetComment replaces the comment after node's move and re-derives its
// evaluation. Text containing "}" cannot be written back as PGN and is
// rejected.
func (n *Navigator) SetComment(node *chess.Node, text string) error {
	if strings.Contains(text, "}") {
		return fmt.Errorf("%w: %q contains '}'", errors.ErrInvalidComment, text)
	}

	n.record.Lock()
	defer n.record.Unlock()

	if !n.record.Contains(node) {
		return &errors.NavigationError{Kind: errors.ForeignNode, Op: "SetComment"}
	}
	node.Comment = strings.TrimSpace(text)
	if !node.IsRoot() {
		node.Annotation.Eval = annotation.Evaluate(node.Comment)
	}
	return nil
}

// Find follows sans from the root, matching each move against the children
// of the previous one in any variation. Check marks and annotation suffixes
// are ignored.
func (n *Navigator) Find(sans ...string) (*chess.Node, error) {
	n.record.RLock()
	defer n.record.RUnlock()

	node := n.record.Root
	for i, san := range sans {
		next, err := n.findChild(node, san)
		if err != nil {
			return nil, err
		}
		if next == nil {
			return nil, fmt.Errorf("%w: %s", errors.ErrLineNotFound, strings.Join(sans[:i+1], " "))
		}
		node = next
	}
	return node, nil
}

func (n *Navigator) findChild(node *chess.Node, san string) (*chess.Node, error) {
	want := rules.NormalizeSAN(san)
	for _, child := range node.Children {
		if rules.NormalizeSAN(child.SAN) == want {
			return child, nil
		}
	}
	// Non-canonical spellings such as "Ngf3" resolve through the rules.
	pos, err := n.positionAt(node)
	if err != nil {
		return nil, err
	}
	move, err := n.rules.ParseSAN(pos, san)
	if err != nil {
		return nil, nil
	}
	return node.FindChild(move), nil
}

// editPosition validates an edit target and returns its position.
func (n *Navigator) editPosition(op string, at *chess.Node) (rules.Position, error) {
	if !n.record.Contains(at) {
		return nil, &errors.NavigationError{Kind: errors.ForeignNode, Op: op}
	}
	return n.positionAt(at)
}

func (n *Navigator) checkIndex(op string, at *chess.Node, index int) error {
	if !n.record.Contains(at) {
		return &errors.NavigationError{Kind: errors.ForeignNode, Op: op}
	}
	if index < 0 || index >= len(at.Children) {
		return &errors.NavigationError{Kind: errors.IndexError, Op: op, Index: index, Count: len(at.Children)}
	}
	return nil
}

// positionAt replays moves from the nearest cached ancestor. Callers hold
// the record lock.
func (n *Navigator) positionAt(node *chess.Node) (rules.Position, error) {
	if pos, ok := n.cache.get(node); ok {
		return pos, nil
	}

	var path []*chess.Node
	var pos rules.Position
	for cur := node; ; cur = cur.Parent() {
		if cached, ok := n.cache.peek(cur); ok {
			pos = cached
			break
		}
		if cur.IsRoot() {
			start, err := n.startPosition()
			if err != nil {
				return nil, err
			}
			n.cache.add(cur, start)
			pos = start
			break
		}
		path = append(path, cur)
	}

	for i := len(path) - 1; i >= 0; i-- {
		next, err := n.rules.Apply(pos, path[i].Move)
		if err != nil {
			return nil, err
		}
		n.cache.add(path[i], next)
		pos = next
	}
	return pos, nil
}

func (n *Navigator) startPosition() (rules.Position, error) {
	if fen := n.record.GetTag(chess.FENTag); fen != "" {
		return n.rules.PositionFromFEN(fen)
	}
	return n.rules.StartingPosition(), nil
}
