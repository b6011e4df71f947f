package matching

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/lgbarn/pgntree/internal/chess"
	"github.com/lgbarn/pgntree/internal/errors"
)

// PlayerTag is a pseudo tag matching either the White or the Black tag.
const PlayerTag = "Player"

// TagOperator compares a tag value with a criterion value.
type TagOperator int

const (
	OpEqual TagOperator = iota
	OpNotEqual
	OpLess
	OpLessOrEqual
	OpGreater
	OpGreaterOrEqual
	OpContains // case-insensitive substring
	OpRegex
	OpSoundex
)

// operators lists the criterion syntax, longest tokens first.
var operators = []struct {
	token string
	op    TagOperator
}{
	{"<=", OpLessOrEqual},
	{">=", OpGreaterOrEqual},
	{"!=", OpNotEqual},
	{"<>", OpNotEqual},
	{"=~", OpRegex},
	{"*=", OpContains},
	{"%=", OpSoundex},
	{"<", OpLess},
	{">", OpGreater},
	{"=", OpEqual},
}

// TagCriterion tests one tag.
type TagCriterion struct {
	Tag   string
	Op    TagOperator
	Value string

	re      *regexp.Regexp
	soundex string
}

// NewTagCriterion builds a criterion, compiling the value when op needs it.
func NewTagCriterion(tag string, op TagOperator, value string) (*TagCriterion, error) {
	c := &TagCriterion{Tag: tag, Op: op, Value: value}
	switch op {
	case OpRegex:
		re, err := regexp.Compile(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errors.ErrInvalidCriterion, err)
		}
		c.re = re
	case OpSoundex:
		c.soundex = Soundex(value)
	case OpContains:
		c.Value = strings.ToLower(value)
	}
	return c, nil
}

// ParseTagCriterion parses text such as `White="Carlsen, Magnus"`,
// `Date>=2020.01.01` or `Event=~^Tata`. Quotes around the value are
// optional.
func ParseTagCriterion(text string) (*TagCriterion, error) {
	text = strings.TrimSpace(text)
	end := strings.IndexAny(text, "<>=!~*%")
	if end <= 0 {
		return nil, fmt.Errorf("%w: %q", errors.ErrInvalidCriterion, text)
	}
	tag := strings.TrimSpace(text[:end])
	rest := text[end:]

	for _, o := range operators {
		if !strings.HasPrefix(rest, o.token) {
			continue
		}
		value := strings.TrimSpace(rest[len(o.token):])
		if len(value) >= 2 && value[0] == '"' && value[len(value)-1] == '"' {
			value = value[1 : len(value)-1]
		}
		return NewTagCriterion(tag, o.op, value)
	}
	return nil, fmt.Errorf("%w: %q", errors.ErrInvalidCriterion, text)
}

// Match implements GameMatcher. A missing tag only satisfies OpNotEqual.
func (c *TagCriterion) Match(game *chess.GameRecord) bool {
	if c.Tag == PlayerTag {
		return c.matchTag(game, "White") || c.matchTag(game, "Black")
	}
	return c.matchTag(game, c.Tag)
}

func (c *TagCriterion) matchTag(game *chess.GameRecord, tag string) bool {
	value, ok := game.Headers.Get(tag)
	if !ok {
		return c.Op == OpNotEqual
	}
	return c.matchValue(value)
}

// Name implements GameMatcher.
func (c *TagCriterion) Name() string {
	for _, o := range operators {
		if o.op == c.Op {
			return fmt.Sprintf("%s%s%q", c.Tag, o.token, c.Value)
		}
	}
	return c.Tag
}

func (c *TagCriterion) matchValue(value string) bool {
	switch c.Op {
	case OpEqual:
		return strings.EqualFold(value, c.Value)
	case OpNotEqual:
		return !strings.EqualFold(value, c.Value)
	case OpContains:
		return strings.Contains(strings.ToLower(value), c.Value)
	case OpRegex:
		return c.re.MatchString(value)
	case OpSoundex:
		return Soundex(value) == c.soundex
	}

	cmp := compareTagValues(value, c.Value)
	switch c.Op {
	case OpLess:
		return cmp < 0
	case OpLessOrEqual:
		return cmp <= 0
	case OpGreater:
		return cmp > 0
	case OpGreaterOrEqual:
		return cmp >= 0
	}
	return false
}

// compareTagValues orders two values as PGN dates, then as numbers, then
// as case-folded strings.
func compareTagValues(a, b string) int {
	if da, db := parseDate(a), parseDate(b); da > 0 && db > 0 {
		return da - db
	}
	na, errA := strconv.ParseFloat(a, 64)
	nb, errB := strconv.ParseFloat(b, 64)
	if errA == nil && errB == nil {
		switch {
		case na < nb:
			return -1
		case na > nb:
			return 1
		}
		return 0
	}
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

// parseDate encodes a "YYYY.MM.DD" date as YYYYMMDD. Unknown month or day
// fields ("??") count as 1; a value without a plausible year gives 0.
func parseDate(s string) int {
	parts := strings.Split(s, ".")
	if len(parts) < 2 {
		return 0
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil || year < 100 || year > 3000 {
		return 0
	}
	field := func(i, hi int) int {
		if i >= len(parts) {
			return 1
		}
		n, err := strconv.Atoi(parts[i])
		if err != nil || n < 1 || n > hi {
			return 1
		}
		return n
	}
	return year*10000 + field(1, 12)*100 + field(2, 31)
}
