package outfitting

import (
	"fmt"
	"strconv"

	"github.com/andrescamacho/outfitting-go/internal/domain/buildcode"
	"github.com/andrescamacho/outfitting-go/internal/domain/shared"
)

type codeSegment int

const (
	segmentStandard codeSegment = iota
	segmentHardpoints
	segmentInternal
	segmentEnabled
	segmentPriorities

	segmentCount
)

// codeCache keeps the rendered build code segments. Each mutation invalidates the
// segments it changes.
type codeCache struct {
	valid [segmentCount]bool
	text  [segmentCount]string
}

func (c *codeCache) invalidate(seg codeSegment) {
	c.valid[seg] = false
}

func (c *codeCache) invalidateAll() {
	c.valid = [segmentCount]bool{}
}

func (c *codeCache) invalidateSlot(kind RefKind) {
	switch kind {
	case RefStandard, RefBulkhead:
		c.invalidate(segmentStandard)
	case RefHardpoint:
		c.invalidate(segmentHardpoints)
	case RefInternal:
		c.invalidate(segmentInternal)
	}
}

func (c *codeCache) get(seg codeSegment, render func() (string, error)) (string, error) {
	if c.valid[seg] {
		return c.text[seg], nil
	}
	text, err := render()
	if err != nil {
		return "", err
	}
	c.text[seg] = text
	c.valid[seg] = true
	return text, nil
}

// BuildCode renders the ship as a build code. Segments untouched since the last call
// come from the cache.
func (s *Ship) BuildCode() (string, error) {
	standard, _ := s.code.get(segmentStandard, func() (string, error) {
		tokens := make([]string, StandardSlotCount)
		for i, slot := range s.standard {
			if slot.module != nil {
				tokens[i] = slot.module.StandardToken()
			}
		}
		return strconv.Itoa(s.bulkheadIndex) + buildcode.FormatSlots(tokens), nil
	})
	hardpoints, _ := s.code.get(segmentHardpoints, func() (string, error) {
		return buildcode.FormatSlots(moduleIDs(s.hardpoints)), nil
	})
	internal, _ := s.code.get(segmentInternal, func() (string, error) {
		return buildcode.FormatSlots(moduleIDs(s.internal)), nil
	})

	enabled, err := s.code.get(segmentEnabled, func() (string, error) {
		flags := make([]bool, 0, s.Layout().FlagCount())
		for _, slot := range s.powerSlots() {
			flags = append(flags, slot.enabled)
		}
		return buildcode.EncodeEnabled(flags)
	})
	if err != nil {
		return "", err
	}
	priorities, err := s.code.get(segmentPriorities, func() (string, error) {
		flags := make([]int, 0, s.Layout().FlagCount())
		for _, slot := range s.powerSlots() {
			flags = append(flags, slot.priority)
		}
		return buildcode.EncodePriorities(flags)
	})
	if err != nil {
		return "", err
	}

	return buildcode.Join(standard+hardpoints+internal, enabled, priorities), nil
}

func moduleIDs(slots []*Slot) []string {
	ids := make([]string, len(slots))
	for i, slot := range slots {
		if slot.module != nil {
			ids[i] = slot.module.ID
		}
	}
	return ids
}

// BuildFromCode refits the ship from a build code. The code is parsed and resolved
// against the catalog in full before the ship is touched: any error leaves the ship
// unchanged. Tokens the catalog does not know leave their slot empty.
func (s *Ship) BuildFromCode(code string) (Stats, error) {
	sel, flags, err := s.DecodeSelection(code)
	if err != nil {
		return Stats{}, err
	}
	return s.BuildWith(sel, flags)
}

// DecodeSelection parses a build code against this ship's layout and resolves every
// token against the catalog without changing the ship.
func (s *Ship) DecodeSelection(code string) (Selection, SlotFlags, error) {
	parsed, err := buildcode.Parse(code, s.Layout(), BandCount)
	if err != nil {
		return Selection{}, SlotFlags{}, err
	}

	if _, err := s.bulkheadModule(parsed.Bulkhead); err != nil {
		return Selection{}, SlotFlags{}, shared.NewInvalidBuildCodeError(buildcode.SegmentMain, 0,
			fmt.Sprintf("no bulkhead %d for %s", parsed.Bulkhead, s.id))
	}

	sel := Selection{
		Bulkhead:   parsed.Bulkhead,
		Hardpoints: make([]*Module, len(s.hardpoints)),
		Internal:   make([]*Module, len(s.internal)),
	}

	reject := func(group buildcode.Group, index int, err error) error {
		return shared.NewInvalidBuildCodeError(buildcode.SegmentMain, parsed.Offset(group, index), err.Error())
	}

	for i, token := range parsed.Standard {
		if token == "" {
			continue
		}
		m := s.catalog.Standard(StandardSlot(i), token)
		if err := s.standard[i].accepts(m); err != nil {
			return Selection{}, SlotFlags{}, reject(buildcode.GroupStandard, i, err)
		}
		sel.Standard[i] = m
	}
	for i, token := range parsed.Hardpoints {
		if token == "" {
			continue
		}
		m := s.catalog.Hardpoint(token)
		if err := s.hardpoints[i].accepts(m); err != nil {
			return Selection{}, SlotFlags{}, reject(buildcode.GroupHardpoints, i, err)
		}
		sel.Hardpoints[i] = m
	}
	seen := map[string]bool{}
	for i, token := range parsed.Internal {
		if token == "" {
			continue
		}
		m := s.catalog.Internal(token)
		if err := s.internal[i].accepts(m); err != nil {
			return Selection{}, SlotFlags{}, reject(buildcode.GroupInternal, i, err)
		}
		if m != nil && m.IsUnique() {
			family := m.Group
			if m.IsShieldGenerator() {
				family = GroupShieldGenerator
			}
			if seen[family] {
				return Selection{}, SlotFlags{}, reject(buildcode.GroupInternal, i,
					fmt.Errorf("second %s module", family))
			}
			seen[family] = true
		}
		sel.Internal[i] = m
	}

	return sel, SlotFlags{Enabled: parsed.Enabled, Priorities: parsed.Priorities}, nil
}
