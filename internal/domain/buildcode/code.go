// Package buildcode implements the textual build-code grammar.
//
// A build code has up to three dot-separated segments:
//
//	<main>[.<enabled>[.<priorities>]]
//
// The main segment starts with the bulkhead digit and carries one token per slot in
// standard, hardpoint, internal order. A token is either the absence marker "-" or
// exactly two characters. The enabled and priority segments hold one digit per slot
// (cargo hatch first) compressed with LZ-String base64, "/" replaced by "-".
//
// The package knows nothing about modules or ships: it only moves between text and
// slot tokens. Resolving tokens against a catalog is the caller's job.
package buildcode

import (
	"strings"

	"github.com/andrescamacho/outfitting-go/internal/domain/shared"
)

const (
	// Separator splits the main, enabled and priority segments
	Separator = "."

	// EmptyToken marks an empty slot in the main segment
	EmptyToken = "-"

	// TokenLength is the width of a non-empty slot token
	TokenLength = 2

	// MaxBulkheadIndex is the largest index a single bulkhead digit can carry
	MaxBulkheadIndex = 9
)

// Segment names used in InvalidBuildCodeError
const (
	SegmentMain       = "main"
	SegmentEnabled    = "enabled"
	SegmentPriorities = "priorities"
)

// Group identifies a slot group of the main segment
type Group int

const (
	GroupStandard Group = iota
	GroupHardpoints
	GroupInternal
)

// Layout is the slot shape a code is read against
type Layout struct {
	Standard   int
	Hardpoints int
	Internal   int
}

// FlagCount returns the number of digits in the enabled and priority segments.
// The cargo hatch takes the first position.
func (l Layout) FlagCount() int {
	return 1 + l.Standard + l.Hardpoints + l.Internal
}

// Code is the parsed form of a build code. Empty slots hold "".
// Enabled and Priorities are nil when the segment was absent, which means
// "all enabled" and "all priority 0".
type Code struct {
	Bulkhead   int
	Standard   []string
	Hardpoints []string
	Internal   []string
	Enabled    []bool
	Priorities []int
}

// Parse reads a build code against the given layout. bandCount bounds the priority
// digits. Parse never returns a partial result: any error leaves the caller with nil.
func Parse(code string, layout Layout, bandCount int) (*Code, error) {
	parts := strings.Split(code, Separator)
	if len(parts) > 3 {
		return nil, shared.NewInvalidBuildCodeError(SegmentMain, len(parts[0]), "too many segments")
	}

	main := parts[0]
	if main == "" {
		return nil, shared.NewInvalidBuildCodeError(SegmentMain, 0, "empty code")
	}
	bulkhead := main[0]
	if bulkhead < '0' || bulkhead > '9' {
		return nil, shared.NewInvalidBuildCodeError(SegmentMain, 0, "bulkhead index must be a digit")
	}

	parsed := &Code{Bulkhead: int(bulkhead - '0')}

	cursor := 1
	var err error
	if parsed.Standard, cursor, err = readTokens(main, cursor, layout.Standard); err != nil {
		return nil, err
	}
	if parsed.Hardpoints, cursor, err = readTokens(main, cursor, layout.Hardpoints); err != nil {
		return nil, err
	}
	if parsed.Internal, cursor, err = readTokens(main, cursor, layout.Internal); err != nil {
		return nil, err
	}
	if cursor != len(main) {
		return nil, shared.NewInvalidBuildCodeError(SegmentMain, cursor, "unexpected trailing characters")
	}

	if len(parts) > 1 && parts[1] != "" {
		digits, err := decodeDigits(SegmentEnabled, parts[1], layout.FlagCount(), 2)
		if err != nil {
			return nil, err
		}
		parsed.Enabled = make([]bool, len(digits))
		for i, d := range digits {
			parsed.Enabled[i] = d == 1
		}
	}

	if len(parts) > 2 && parts[2] != "" {
		digits, err := decodeDigits(SegmentPriorities, parts[2], layout.FlagCount(), bandCount)
		if err != nil {
			return nil, err
		}
		parsed.Priorities = digits
	}

	return parsed, nil
}

// Offset returns the position in the main segment of the token for slot index of
// group. Empty slots take one character, filled slots two.
func (c *Code) Offset(group Group, index int) int {
	width := func(tokens []string, n int) int {
		w := 0
		for i := 0; i < n && i < len(tokens); i++ {
			if tokens[i] == "" {
				w++
			} else {
				w += TokenLength
			}
		}
		return w
	}

	offset := 1
	switch group {
	case GroupInternal:
		offset += width(c.Hardpoints, len(c.Hardpoints))
		fallthrough
	case GroupHardpoints:
		offset += width(c.Standard, len(c.Standard))
	}

	switch group {
	case GroupStandard:
		return offset + width(c.Standard, index)
	case GroupHardpoints:
		return offset + width(c.Hardpoints, index)
	default:
		return offset + width(c.Internal, index)
	}
}

// readTokens consumes count slot tokens from main starting at cursor and returns the
// tokens and the advanced cursor.
func readTokens(main string, cursor, count int) ([]string, int, error) {
	tokens := make([]string, count)
	for i := 0; i < count; i++ {
		if cursor >= len(main) {
			return nil, cursor, shared.NewInvalidBuildCodeError(SegmentMain, cursor, "code is too short")
		}
		if main[cursor:cursor+1] == EmptyToken {
			cursor++
			continue
		}
		if cursor+TokenLength > len(main) {
			return nil, cursor, shared.NewInvalidBuildCodeError(SegmentMain, cursor, "truncated slot token")
		}
		token := main[cursor : cursor+TokenLength]
		if !validToken(token) {
			return nil, cursor, shared.NewInvalidBuildCodeError(SegmentMain, cursor, "invalid slot token "+token)
		}
		tokens[i] = token
		cursor += TokenLength
	}
	return tokens, cursor, nil
}

func validToken(token string) bool {
	for i := 0; i < len(token); i++ {
		c := token[i]
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		default:
			return false
		}
	}
	return true
}

// FormatSlots renders one slot group of the main segment. Empty strings become the
// absence marker.
func FormatSlots(tokens []string) string {
	var b strings.Builder
	for _, t := range tokens {
		if t == "" {
			b.WriteString(EmptyToken)
			continue
		}
		b.WriteString(t)
	}
	return b.String()
}

// Join assembles a full code from its segments. The two trailing separators are always
// written so an empty flag segment stays distinguishable from a missing one.
func Join(main, enabled, priorities string) string {
	return main + Separator + enabled + Separator + priorities
}

// String renders the code. Flag segments whose values are all defaults are left empty.
func (c *Code) String() (string, error) {
	var main strings.Builder
	main.WriteByte(byte('0' + c.Bulkhead))
	main.WriteString(FormatSlots(c.Standard))
	main.WriteString(FormatSlots(c.Hardpoints))
	main.WriteString(FormatSlots(c.Internal))

	enabled, err := EncodeEnabled(c.Enabled)
	if err != nil {
		return "", err
	}
	priorities, err := EncodePriorities(c.Priorities)
	if err != nil {
		return "", err
	}
	return Join(main.String(), enabled, priorities), nil
}
