package parse

import (
	"github.com/deep-rent/cling/spec"
	"github.com/deep-rent/cling/util"
)

// capture is the frozen match state of one argument after a parse run.
type capture struct {
	raw    []string
	values []string
	typed  []any
	count  int
	bound  any
}

// Result is the outcome of one parse run at one command level. Nested
// subcommand invocations chain through Subcommand, forming one result per
// visited level.
type Result struct {
	cmd         *spec.Command
	caps        map[string]*capture
	unmatched   []string
	sub         *Result
	usageHelp   bool
	versionHelp bool
}

// Command returns the specification this result belongs to.
func (r *Result) Command() *spec.Command { return r.cmd }

// Subcommand returns the result of the nested invocation, or nil when the
// input named no subcommand.
func (r *Result) Subcommand() *Result { return r.sub }

// Last follows the subcommand chain to the deepest visited level.
func (r *Result) Last() *Result {
	last := r
	for last.sub != nil {
		last = last.sub
	}
	return last
}

// Unmatched returns the tokens at this level that satisfied no rule.
func (r *Result) Unmatched() []string { return r.unmatched }

// AllUnmatched returns the unmatched tokens of the whole chain, in input
// order.
func (r *Result) AllUnmatched() []string {
	var all []string
	for lvl := r; lvl != nil; lvl = lvl.sub {
		all = append(all, lvl.unmatched...)
	}
	return all
}

// UsageHelpRequested reports whether a usage-help option matched at this
// level.
func (r *Result) UsageHelpRequested() bool { return r.usageHelp }

// VersionHelpRequested reports whether a version-help option matched at
// this level.
func (r *Result) VersionHelpRequested() bool { return r.versionHelp }

// HelpRequested reports whether any level of the chain requested usage or
// version help, or dispatched into a help command.
func (r *Result) HelpRequested() bool {
	for lvl := r; lvl != nil; lvl = lvl.sub {
		if lvl.usageHelp || lvl.versionHelp {
			return true
		}
	}
	return r.Last().cmd.HelpCommand()
}

// Has reports whether the named option or labeled positional matched at
// least once. Options answer to any of their names. When a positional
// label collides with an option name, lookups resolve to the positional.
func (r *Result) Has(name string) bool {
	c, ok := r.caps[name]
	return ok && c.count > 0
}

// Count returns how often the named argument matched.
func (r *Result) Count(name string) int {
	if c, ok := r.caps[name]; ok {
		return c.count
	}
	return 0
}

// Value returns the materialized value of the named argument: the
// converted scalar, slice, or map that was written through its binding.
// It returns nil for unknown names.
func (r *Result) Value(name string) any {
	if c, ok := r.caps[name]; ok {
		return c.bound
	}
	return nil
}

// Values returns the individual converted values in match order.
func (r *Result) Values(name string) []any {
	if c, ok := r.caps[name]; ok {
		return c.typed
	}
	return nil
}

// Strings returns the matched values after splitting, before conversion.
func (r *Result) Strings(name string) []string {
	if c, ok := r.caps[name]; ok {
		return c.values
	}
	return nil
}

// Raw returns the original input tokens the argument matched.
func (r *Result) Raw(name string) []string {
	if c, ok := r.caps[name]; ok {
		return c.raw
	}
	return nil
}

// snapshot freezes the match state of every argument into the result, so
// the result stays valid across later parse runs on the same spec.
// Positionals are written last, so a label that collides with an option
// name wins the lookup; Validate warns about such collisions.
func (r *Result) snapshot() {
	r.caps = make(map[string]*capture)
	for _, o := range r.cmd.Options() {
		c := freeze(&o.Arg)
		for _, n := range o.Names() {
			r.caps[n] = c
		}
	}
	for _, p := range r.cmd.Positionals() {
		r.caps[p.Label()] = freeze(&p.Arg)
	}
}

func freeze(a *spec.Arg) *capture {
	c := &capture{
		raw:    util.Concat(a.RawValues()),
		values: util.Concat(a.StringValues()),
		typed:  util.Concat(a.TypedValues()),
		count:  a.Occurrences(),
	}
	if v, err := a.Value(); err == nil {
		c.bound = v
	}
	return c
}
