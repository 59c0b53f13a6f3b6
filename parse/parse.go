// Package parse interprets a command line against a spec.Command: it
// matches options and their values, assigns positional parameters,
// descends into subcommands, converts every matched value to its declared
// type, and writes the results through the argument bindings. The outcome
// is a chain of Result values, one per visited command level.
package parse

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/deep-rent/cling/convert"
	"github.com/deep-rent/cling/internal/quote"
	"github.com/deep-rent/cling/interval"
	"github.com/deep-rent/cling/spec"
	"github.com/deep-rent/cling/suggest"
	"github.com/deep-rent/cling/util"
)

// Parser interprets argument vectors against one validated command tree.
// A Parser is safe for repeated use, but a single specification must not
// be parsed concurrently: the value state lives on the spec's arguments.
type Parser struct {
	cmd *spec.Command
}

// New validates the command tree and returns a parser for it.
func New(cmd *spec.Command) (*Parser, error) {
	if cmd == nil {
		return nil, fmt.Errorf("parse: command must not be nil")
	}
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	return &Parser{cmd: cmd}, nil
}

// Command returns the root of the command tree this parser interprets.
func (p *Parser) Command() *spec.Command { return p.cmd }

// Parse interprets args against the command tree. The argument vector must
// not include the program name. On failure the partial result gathered so
// far is returned alongside the error; in collect-errors mode the error is
// an Errors aggregate and the result covers the whole input.
func (p *Parser) Parse(args []string) (*Result, error) {
	cfg := p.cmd.Config()
	toks := util.Concat(args)
	if cfg.ExpandAtFiles {
		var err error
		toks, err = expandAtFiles(toks, cfg.AtFileComment)
		if err != nil {
			return nil, err
		}
	}
	col := &collector{collect: cfg.CollectErrors}
	in := &interp{cmd: p.cmd, cfg: cfg, col: col}
	res, err := in.run(toks)
	if err != nil {
		for lvl := res; lvl != nil; lvl = lvl.sub {
			if lvl.caps == nil {
				lvl.snapshot()
			}
		}
		return res, err
	}
	if !res.HelpRequested() {
		for lvl := res; lvl != nil; lvl = lvl.sub {
			if err := checkRequired(lvl.cmd, col); err != nil {
				return res, err
			}
		}
	}
	if len(col.errs) > 0 {
		return res, Errors(col.errs)
	}
	return res, nil
}

// checkRequired reports the required arguments of one level that captured
// nothing. A declared default satisfies the requirement.
func checkRequired(cmd *spec.Command, col *collector) error {
	var missing []string
	for _, o := range cmd.Options() {
		if _, ok := o.Default(); o.Required() && o.Occurrences() == 0 && !ok {
			missing = append(missing, o.Name())
		}
	}
	for _, p := range cmd.Positionals() {
		if _, ok := p.Default(); p.Required() && p.Occurrences() == 0 && !ok {
			missing = append(missing, p.Label())
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return col.add(&MissingError{level: at(cmd), Missing: missing})
}

// interp is the scan state of one command level.
type interp struct {
	cmd *spec.Command
	cfg *spec.Config
	col *collector

	args []string
	pos  int // token cursor
	part int // positional position counter

	forceParams bool
	stopped     bool

	res *Result
}

func (in *interp) run(args []string) (*Result, error) {
	in.args = args
	in.res = &Result{cmd: in.cmd}
	if err := in.cmd.Reset(); err != nil {
		return in.res, err
	}
	for in.pos < len(in.args) && !in.stopped {
		tok := in.args[in.pos]
		if !in.forceParams {
			if tok == in.cfg.EndOfOptions {
				in.forceParams = true
				in.pos++
				continue
			}
			ok, err := in.tryOption(tok)
			if err != nil {
				if e := in.col.add(err); e != nil {
					return in.res, e
				}
				continue
			}
			if ok {
				continue
			}
			if sub := in.cmd.Subcommand(tok); sub != nil {
				in.pos++
				rest := in.args[in.pos:]
				in.pos = len(in.args)
				child := &interp{cmd: sub, cfg: sub.Config(), col: in.col}
				res, err := child.run(rest)
				in.res.sub = res
				if err != nil {
					_ = in.finish()
					return in.res, err
				}
				continue
			}
			if in.cfg.POSIXClustering &&
				strings.HasPrefix(tok, "-") && !strings.HasPrefix(tok, "--") {
				ok, err := in.tryCluster(tok)
				if err != nil {
					if e := in.col.add(err); e != nil {
						return in.res, e
					}
					continue
				}
				if ok {
					continue
				}
			}
			if !in.cfg.UnmatchedAsPositional && in.cmd.ResemblesOption(tok) {
				if err := in.unmatched(tok); err != nil {
					if e := in.col.add(err); e != nil {
						return in.res, e
					}
				}
				continue
			}
		}
		if in.cfg.StopAtPositional {
			in.forceParams = true
		}
		n, err := in.consumeParams()
		if err != nil {
			if e := in.col.add(err); e != nil {
				return in.res, e
			}
			if n == 0 {
				// Do not rescan the token the failed slot consumed.
				in.pos++
				in.part++
			}
			continue
		}
		if n == 0 {
			if err := in.unmatched(tok); err != nil {
				if e := in.col.add(err); e != nil {
					return in.res, e
				}
			}
		}
	}
	if err := in.finish(); err != nil {
		if e := in.col.add(err); e != nil {
			return in.res, e
		}
	}
	return in.res, nil
}

// finish applies default values and freezes the level's match state.
func (in *interp) finish() error {
	err := in.applyDefaults()
	in.res.snapshot()
	return err
}

// tryOption matches tok as an exact option name or as a name with an
// attached value and consumes the option's arity.
func (in *interp) tryOption(tok string) (bool, error) {
	opt := in.cmd.Option(tok)
	name, attached := tok, ""
	hasAttached := false
	if opt == nil {
		if i := strings.Index(tok, in.cfg.Separator); i > 0 {
			if o := in.cmd.Option(tok[:i]); o != nil {
				opt, name = o, tok[:i]
				attached = tok[i+len(in.cfg.Separator):]
				hasAttached = true
			}
		}
	}
	if opt == nil {
		return false, nil
	}
	in.pos++
	return true, in.apply(opt, name, attached, hasAttached)
}

// tryCluster decomposes a POSIX cluster ("-xvf archive"): every character
// must resolve to a single-letter option, leading flags are applied, and
// the first value-taking option ends the cluster, with any remainder as
// its attached value.
func (in *interp) tryCluster(tok string) (bool, error) {
	rest := tok[1:]
	type piece struct {
		opt  *spec.Option
		name string
	}
	var flags []piece
	for i, r := range rest {
		name := "-" + string(r)
		opt := in.cmd.Option(name)
		if opt == nil {
			return false, nil
		}
		if opt.Flag() {
			flags = append(flags, piece{opt: opt, name: name})
			continue
		}
		attached := rest[i+len(string(r)):]
		if sep := in.cfg.Separator; strings.HasPrefix(attached, sep) {
			attached = attached[len(sep):]
		}
		in.pos++
		for _, f := range flags {
			if err := in.apply(f.opt, f.name, "", false); err != nil {
				if e := in.col.add(err); e != nil {
					return true, e
				}
			}
		}
		if attached != "" {
			return true, in.apply(opt, name, attached, true)
		}
		return true, in.apply(opt, name, "", false)
	}
	in.pos++
	for _, f := range flags {
		if err := in.apply(f.opt, f.name, "", false); err != nil {
			if e := in.col.add(err); e != nil {
				return true, e
			}
		}
	}
	return true, nil
}

// apply captures one occurrence of opt, consuming value tokens from the
// cursor as its arity demands.
func (in *interp) apply(
	opt *spec.Option, name, attached string, hasAttached bool,
) error {
	arity := opt.Arity()
	var raw, vals []string

	switch {
	case opt.Interactive():
		if in.cfg.Prompter == nil {
			return &ParameterError{
				level: at(in.cmd),
				Msg: fmt.Sprintf(
					"option %s requires a prompter for interactive input", name,
				),
			}
		}
		v, err := in.cfg.Prompter(fmt.Sprintf("Enter value for %s: ", name))
		if err != nil {
			return &ParameterError{
				level: at(in.cmd),
				Msg:   fmt.Sprintf("prompt for %s failed: %v", name, err),
			}
		}
		raw, vals = []string{v}, []string{v}
	case opt.Flag():
		val := "true"
		if hasAttached {
			val = attached
			raw = []string{attached}
		} else if in.cfg.ToggleBooleanFlags {
			if cur, err := opt.Value(); err == nil {
				if b, ok := cur.(bool); ok && b {
					val = "false"
				}
			}
		}
		vals = []string{val}
	default:
		if hasAttached {
			raw = append(raw, attached)
			vals = in.splitValue(&opt.Arg, attached, arity, 0)
		}
		if !hasAttached || !in.cfg.ArityByAttached {
			for len(vals) < arity.Max && in.pos < len(in.args) {
				peek := in.args[in.pos]
				if len(vals) >= arity.Min && in.reservedToken(peek) {
					break
				}
				in.pos++
				raw = append(raw, peek)
				vals = append(
					vals, in.splitValue(&opt.Arg, peek, arity, len(vals))...,
				)
			}
		}
		if len(vals) < arity.Min {
			return &MissingError{
				level: at(in.cmd),
				Missing: []string{fmt.Sprintf(
					"%s (expected at least %d value(s), got %d)",
					name, arity.Min, len(vals),
				)},
			}
		}
		if len(vals) > arity.Max {
			return &MaxValuesError{
				level: at(in.cmd), Name: name, Max: arity.Max, Got: len(vals),
			}
		}
	}

	if !opt.Flag() && !opt.Multi() &&
		opt.Occurrences() > 0 && !in.cfg.OverwriteAllowed {
		return &OverwriteError{level: at(in.cmd), Name: name}
	}
	if in.cfg.TrimQuotes {
		for i, v := range vals {
			vals[i] = quote.Remove(v)
		}
	}
	typed, err := in.convertAll(&opt.Arg, name, vals)
	if err != nil {
		return err
	}
	opt.Capture(raw, vals, typed)
	if opt.UsageHelp() {
		in.res.usageHelp = true
	}
	if opt.VersionHelp() {
		in.res.versionHelp = true
	}
	if err := opt.Store(); err != nil {
		return &ParameterError{
			level: at(in.cmd),
			Msg:   fmt.Sprintf("cannot store value for %s: %v", name, err),
		}
	}
	return nil
}

// consumeParams offers the tokens at the cursor to every positional slot
// whose index covers the current position. Overlapping slots capture the
// same tokens; the cursor advances by the largest consumption.
func (in *interp) consumeParams() (int, error) {
	start := in.pos
	most := 0
	var firstErr error
	for _, p := range in.cmd.Positionals() {
		if !p.Index().Contains(in.part) {
			continue
		}
		capacity := p.Capacity()
		if !capacity.Unbounded() && len(p.StringValues()) >= capacity.Max {
			continue
		}
		n, err := in.fill(p, start)
		if err != nil && firstErr == nil {
			firstErr = err
		}
		if n > most {
			most = n
		}
	}
	if most > 0 {
		in.pos = start + most
		in.part += most
	}
	return most, firstErr
}

// fill consumes up to one arity's worth of tokens for slot p, leaving
// enough tokens for the minimums of slots that start at later positions.
func (in *interp) fill(p *spec.Positional, start int) (int, error) {
	arity := p.Arity()
	budget := arity.Max
	capacity := p.Capacity()
	if !capacity.Unbounded() {
		if room := capacity.Max - len(p.StringValues()); room < budget {
			budget = room
		}
	}
	var raw, vals []string
	n := 0
	for len(vals) < budget && start+n < len(in.args) {
		tok := in.args[start+n]
		if len(vals) >= arity.Min {
			if !in.forceParams && in.reservedToken(tok) {
				break
			}
			if in.needed(p) >= len(in.args)-(start+n) {
				break
			}
		}
		n++
		raw = append(raw, tok)
		vals = append(vals, in.splitValue(&p.Arg, tok, arity, len(vals))...)
	}
	if len(vals) == 0 {
		return 0, nil
	}
	if len(vals) < arity.Min {
		return n, &MissingError{
			level: at(in.cmd),
			Missing: []string{fmt.Sprintf(
				"%s (expected at least %d value(s), got %d)",
				p.Label(), arity.Min, len(vals),
			)},
		}
	}
	if len(vals) > arity.Max {
		return n, &MaxValuesError{
			level: at(in.cmd), Name: p.Label(), Max: arity.Max, Got: len(vals),
		}
	}
	if in.cfg.TrimQuotes {
		for i, v := range vals {
			vals[i] = quote.Remove(v)
		}
	}
	typed, err := in.convertAll(&p.Arg, p.Label(), vals)
	if err != nil {
		return n, err
	}
	p.Capture(raw, vals, typed)
	if err := p.Store(); err != nil {
		return n, &ParameterError{
			level: at(in.cmd),
			Msg:   fmt.Sprintf("cannot store value for %s: %v", p.Label(), err),
		}
	}
	return n, nil
}

// needed sums the unmet minimum arities of positional slots that begin at
// a later position than the cursor.
func (in *interp) needed(except *spec.Positional) int {
	total := 0
	for _, q := range in.cmd.Positionals() {
		if q == except || q.Index().Min <= in.part {
			continue
		}
		if want := q.Arity().Min - len(q.StringValues()); want > 0 {
			total += want
		}
	}
	return total
}

// unmatched records tok and aborts or fails according to the unmatched
// policies.
func (in *interp) unmatched(tok string) error {
	in.pos++
	in.res.unmatched = append(in.res.unmatched, tok)
	if in.cfg.StopAtUnmatched {
		in.res.unmatched = append(in.res.unmatched, in.args[in.pos:]...)
		in.pos = len(in.args)
		in.stopped = true
	}
	if in.cfg.UnmatchedAllowed {
		return nil
	}
	return &UnmatchedError{
		level:       at(in.cmd),
		Tokens:      []string{tok},
		Suggestions: in.suggestions(tok),
	}
}

// suggestions ranks the known names most similar to tok: option names for
// option-like tokens, subcommand names otherwise. Option candidates must
// share the token's prefix (typically the dashes) to keep short names from
// drowning out real corrections.
func (in *interp) suggestions(tok string) []string {
	if !in.cmd.ResemblesOption(tok) {
		return suggest.Best(tok, in.cmd.Subcommands(), 3)
	}
	var names []string
	for _, n := range in.cmd.OptionNames() {
		if len(tok) >= 2 && strings.HasPrefix(n, tok[:2]) {
			names = append(names, n)
		}
	}
	if len(names) == 0 {
		names = in.cmd.OptionNames()
	}
	return suggest.Best(tok, names, 3)
}

// reservedToken reports whether tok is claimed by the option grammar and
// must not be consumed as an optional value.
func (in *interp) reservedToken(tok string) bool {
	if tok == in.cfg.EndOfOptions {
		return true
	}
	if in.cmd.Option(tok) != nil {
		return true
	}
	if i := strings.Index(tok, in.cfg.Separator); i > 0 {
		if in.cmd.Option(tok[:i]) != nil {
			return true
		}
	}
	return in.cmd.Subcommand(tok) != nil
}

// splitValue decomposes one matched token by the argument's split
// expression. With limited splitting, the number of produced values is
// capped at the remaining arity budget.
func (in *interp) splitValue(
	a *spec.Arg, s string, arity interval.Interval, have int,
) []string {
	re := a.SplitRegexp()
	if re == nil {
		return []string{s}
	}
	limit := 0
	if in.cfg.LimitSplit && !arity.Unbounded() {
		limit = arity.Max - have
	}
	if in.cfg.SplitQuoted {
		if limit <= 0 {
			return re.Split(s, -1)
		}
		return re.Split(s, limit)
	}
	return quote.Split(s, re, limit)
}

// convertAll converts matched values to the argument's element type, with
// enum resolution first and KEY=VALUE decomposition for map shapes.
func (in *interp) convertAll(
	a *spec.Arg, name string, vals []string,
) ([]any, error) {
	elems := a.ElemTypes()
	typed := make([]any, 0, len(vals))
	for _, v := range vals {
		if enums := a.Enums(); len(enums) > 0 {
			m, err := convert.MatchEnum(enums, v, in.cfg.CaseInsensitiveEnums)
			if err != nil {
				return nil, in.conversionError(name, v, elems[0], err)
			}
			v = m
		}
		if len(elems) == 2 {
			k, val, err := convert.SplitPair(v)
			if err != nil {
				return nil, in.conversionError(name, v, a.Type(), err)
			}
			kv, err := in.convertOne(a, k, elems[0])
			if err != nil {
				return nil, in.conversionError(name, k, elems[0], err)
			}
			vv, err := in.convertOne(a, val, elems[1])
			if err != nil {
				return nil, in.conversionError(name, val, elems[1], err)
			}
			typed = append(typed, spec.Pair{Key: kv, Value: vv})
			continue
		}
		tv, err := in.convertOne(a, v, elems[0])
		if err != nil {
			return nil, in.conversionError(name, v, elems[0], err)
		}
		typed = append(typed, tv)
	}
	return typed, nil
}

func (in *interp) convertOne(
	a *spec.Arg, raw string, t reflect.Type,
) (any, error) {
	if fn := a.Converter(); fn != nil {
		return fn(raw)
	}
	return in.cmd.Converters().Convert(t, raw)
}

func (in *interp) conversionError(
	name, value string, target reflect.Type, cause error,
) error {
	return &ConversionError{
		level: at(in.cmd), Name: name, Value: value, Target: target,
		cause: cause,
	}
}

// applyDefaults converts and stores the default of every argument that
// captured nothing. Defaults do not count as matches.
func (in *interp) applyDefaults() error {
	for _, o := range in.cmd.Options() {
		if err := in.applyDefault(&o.Arg, o.Name()); err != nil {
			return err
		}
	}
	for _, p := range in.cmd.Positionals() {
		if err := in.applyDefault(&p.Arg, p.Label()); err != nil {
			return err
		}
	}
	return nil
}

func (in *interp) applyDefault(a *spec.Arg, name string) error {
	def, ok := a.Default()
	if !ok || a.Occurrences() > 0 {
		return nil
	}
	vals := in.splitValue(a, def, a.Arity(), 0)
	typed, err := in.convertAll(a, name, vals)
	if err != nil {
		return err
	}
	return a.StoreValues(typed)
}
