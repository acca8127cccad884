package presenter

import (
	"errors"
	"strings"
)

var ErrUnknownPackaging = errors.New("unknown packaging option")

// State is the buyer's selection: a pack count and an optional packaging.
// Transitions return a new State; the zero value is not valid, use Initial.
type State struct {
	BaseQuantity int
	Packaging    *PackagingOption
}

// Initial selects the first option, if any, with one pack.
func Initial(options []PackagingOption) State {
	s := State{BaseQuantity: 1}
	if len(options) > 0 {
		first := options[0]
		s.Packaging = &first
	}
	return s
}

func (s State) Multiplier() int {
	if s.Packaging == nil || s.Packaging.Multiplier < 1 {
		return 1
	}
	return s.Packaging.Multiplier
}

// EffectiveQuantity is the piece count used for tier lookup.
func (s State) EffectiveQuantity() int {
	return s.base() * s.Multiplier()
}

func (s State) base() int {
	if s.BaseQuantity < 1 {
		return 1
	}
	return s.BaseQuantity
}

func (s State) SetQuantity(n int) State {
	if n < 1 {
		n = 1
	}
	s.BaseQuantity = n
	return s
}

func (s State) Increment() State {
	return s.SetQuantity(s.base() + 1)
}

func (s State) Decrement() State {
	return s.SetQuantity(s.base() - 1)
}

// SetPieces converts a piece count typed by the buyer into whole packs,
// rounding up.
func (s State) SetPieces(pieces int) State {
	m := s.Multiplier()
	if pieces < 1 {
		pieces = 1
	}
	packs := pieces / m
	if pieces%m != 0 {
		packs++
	}
	return s.SetQuantity(packs)
}

// SelectPackaging switches to the option with label and restarts the count at one pack.
func (s State) SelectPackaging(options []PackagingOption, label string) (State, error) {
	label = strings.TrimSpace(label)
	for _, opt := range options {
		if opt.Label == label {
			selected := opt
			return State{BaseQuantity: 1, Packaging: &selected}, nil
		}
	}
	return s, ErrUnknownPackaging
}

// ClearPackaging drops the packaging so quantity is entered in pieces.
func (s State) ClearPackaging() State {
	return State{BaseQuantity: 1}
}
