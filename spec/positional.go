package spec

import (
	"reflect"

	"github.com/deep-rent/cling/interval"
)

// Positional describes one positional parameter slot: the argument
// positions it claims and how many tokens it consumes per position.
type Positional struct {
	Arg
	label string
}

// NewPositional builds a positional parameter with a display label
// ("FILE"). The target type defaults to string, the arity to 1, and the
// index to all remaining positions ("0..*").
func NewPositional(label string, attrs ...Attr) *Positional {
	p := &Positional{label: label}
	for _, attr := range attrs {
		attr(&p.Arg)
	}
	p.finish(reflect.TypeOf(""))
	if !p.aritySet {
		p.arity = interval.Exactly(1)
	}
	if !p.indexSet {
		p.index = interval.AtLeast(0)
	}
	return p
}

// Label returns the display label of the slot.
func (p *Positional) Label() string { return p.label }

// Index returns the argument positions the slot claims.
func (p *Positional) Index() interval.Interval { return p.index }

// Capacity returns the total number of tokens the slot can consume: the
// index span scaled by the arity.
func (p *Positional) Capacity() interval.Interval {
	return p.arity.Scale(p.index.Size())
}

// clone copies the positional for mixin merging, detached from any command
// and with cleared value state.
func (p *Positional) clone() *Positional {
	c := *p
	c.cmd = nil
	c.raw = nil
	c.values = nil
	c.typed = nil
	c.count = 0
	if _, ok := p.getter.(*slot); ok {
		s := &slot{}
		c.getter = s
		c.setter = s
	}
	return &c
}
