package spec

import (
	"reflect"
	"strings"

	"github.com/deep-rent/cling/interval"
)

// Option describes one named command-line option: its names, arity, target
// type, and binding. Options are immutable after construction except for
// the value state written by the parser.
type Option struct {
	Arg
	names []string
}

// NewOption builds an option answering to the given names. Every name must
// carry its prefix ("-v", "--verbose"). The target type defaults to bool;
// the arity defaults to 0 for bool options and 1 otherwise.
func NewOption(names []string, attrs ...Attr) *Option {
	o := &Option{names: names}
	for _, attr := range attrs {
		attr(&o.Arg)
	}
	o.finish(reflect.TypeOf(false))
	if !o.aritySet {
		if o.typ.Kind() == reflect.Bool {
			o.arity = interval.Exactly(0)
		} else if o.Multi() {
			o.arity = interval.AtLeast(1)
		} else {
			o.arity = interval.Exactly(1)
		}
	}
	if len(names) == 0 {
		o.fail(initErrorf("option must have at least one name"))
	}
	for _, n := range names {
		if !strings.HasPrefix(n, "-") || len(n) < 2 {
			o.fail(initErrorf("invalid option name %q", n))
		}
	}
	return o
}

// Names returns all names the option answers to.
func (o *Option) Names() []string { return o.names }

// Name returns the longest declared name, used in diagnostics.
func (o *Option) Name() string {
	longest := ""
	for _, n := range o.names {
		if len(n) > len(longest) {
			longest = n
		}
	}
	return longest
}

// Matches reports whether the option answers to the given name.
func (o *Option) Matches(name string) bool {
	for _, n := range o.names {
		if n == name {
			return true
		}
	}
	return false
}

// Flag reports whether the option consumes no value tokens.
func (o *Option) Flag() bool {
	return o.arity.Max == 0
}

// UsageHelp reports whether matching this option requests usage help.
func (o *Option) UsageHelp() bool { return o.usageHelp }

// VersionHelp reports whether matching this option requests version
// information.
func (o *Option) VersionHelp() bool { return o.versionHelp }

// clone copies the option for mixin merging, detached from any command and
// with cleared value state.
func (o *Option) clone() *Option {
	c := *o
	c.cmd = nil
	c.raw = nil
	c.values = nil
	c.typed = nil
	c.count = 0
	if _, ok := o.getter.(*slot); ok {
		s := &slot{}
		c.getter = s
		c.setter = s
	}
	c.names = append([]string(nil), o.names...)
	return &c
}
