package spec

import (
	"reflect"
	"regexp"

	"github.com/deep-rent/cling/convert"
	"github.com/deep-rent/cling/interval"
)

// Getter reads the value currently bound to an argument.
type Getter interface {
	Get() (any, error)
}

// Setter writes a parsed value through to wherever the argument is bound.
// For multi-value arguments the complete container is written on every
// update.
type Setter interface {
	Set(v any) error
}

// slot is the default in-spec binding used when no external getter or
// setter is attached.
type slot struct {
	v any
}

func (s *slot) Get() (any, error) { return s.v, nil }
func (s *slot) Set(v any) error   { s.v = v; return nil }

// Arg holds the attributes shared by options and positional parameters.
// An Arg is built once through attributes, attached to exactly one Command,
// and mutated only by the parser during a single parse run.
type Arg struct {
	typ         reflect.Type
	elems       []reflect.Type
	arity       interval.Interval
	aritySet    bool
	index       interval.Interval
	indexSet    bool
	required    bool
	def         string
	hasDef      bool
	initial     any
	hasInitial  bool
	noReset     bool
	split       string
	splitRe     *regexp.Regexp
	hidden      bool
	interactive bool
	usage       string
	enums       []string
	completions []string
	converter   convert.Func
	getter      Getter
	setter      Setter
	usageHelp   bool
	versionHelp bool
	buildErr    error

	cmd *Command

	raw    []string
	values []string
	typed  []any
	count  int
}

// Attr configures an option or positional parameter under construction.
type Attr func(*Arg)

// WithType declares the target type of the argument. For slices and maps
// the element types are derived automatically unless WithElemTypes is used.
func WithType(t reflect.Type) Attr {
	return func(a *Arg) { a.typ = t }
}

// WithElemTypes overrides the derived element types: one type for
// single-value and slice arguments, a key and a value type for maps.
func WithElemTypes(ts ...reflect.Type) Attr {
	return func(a *Arg) { a.elems = ts }
}

// WithArity declares how many tokens the argument consumes, in a form
// accepted by interval.Parse ("N", "N..M", "N..*").
func WithArity(s string) Attr {
	return func(a *Arg) {
		i, err := interval.Parse(s)
		if err != nil {
			a.fail(initErrorf("invalid arity: %w", err))
			return
		}
		a.arity = i
		a.aritySet = true
	}
}

// WithIndex declares which argument positions a positional parameter
// claims, in a form accepted by interval.Parse. Setting an index on an
// option is a validation error.
func WithIndex(s string) Attr {
	return func(a *Arg) {
		i, err := interval.Parse(s)
		if err != nil {
			a.fail(initErrorf("invalid index: %w", err))
			return
		}
		a.index = i
		a.indexSet = true
	}
}

// Required marks the argument as mandatory.
func Required() Attr {
	return func(a *Arg) { a.required = true }
}

// WithDefault sets the raw default value applied when the argument is not
// matched. It is converted like any matched value.
func WithDefault(s string) Attr {
	return func(a *Arg) {
		a.def = s
		a.hasDef = true
	}
}

// WithInitial sets the value restored into the binding at the start of
// every parse run.
func WithInitial(v any) Attr {
	return func(a *Arg) {
		a.initial = v
		a.hasInitial = true
	}
}

// WithoutReset keeps the bound value untouched at the start of a parse run.
func WithoutReset() Attr {
	return func(a *Arg) { a.noReset = true }
}

// WithSplit sets a regular expression that decomposes one matched token
// into several values.
func WithSplit(re string) Attr {
	return func(a *Arg) { a.split = re }
}

// Hidden excludes the argument from help and completion listings.
func Hidden() Attr {
	return func(a *Arg) { a.hidden = true }
}

// Interactive marks the argument as prompted: its single value is solicited
// through the configured prompter instead of being read from the argument
// vector. Implies an arity of exactly one.
func Interactive() Attr {
	return func(a *Arg) { a.interactive = true }
}

// WithUsage sets the description shown in help listings.
func WithUsage(s string) Attr {
	return func(a *Arg) { a.usage = s }
}

// WithEnums restricts matched values to the given constant names.
func WithEnums(values ...string) Attr {
	return func(a *Arg) { a.enums = values }
}

// WithCompletions attaches shell-completion candidates.
func WithCompletions(values ...string) Attr {
	return func(a *Arg) { a.completions = values }
}

// WithConverter attaches a converter that takes precedence over the
// command's registry for this argument.
func WithConverter(fn convert.Func) Attr {
	return func(a *Arg) { a.converter = fn }
}

// WithBinding attaches an external getter/setter pair. Without it, values
// are stored in an internal slot readable through Value.
func WithBinding(g Getter, s Setter) Attr {
	return func(a *Arg) {
		a.getter = g
		a.setter = s
	}
}

// UsageHelp marks an option as the usage-help trigger. Matching it anywhere
// in a parse suppresses required-argument validation.
func UsageHelp() Attr {
	return func(a *Arg) { a.usageHelp = true }
}

// VersionHelp marks an option as the version-help trigger.
func VersionHelp() Attr {
	return func(a *Arg) { a.versionHelp = true }
}

func (a *Arg) fail(err error) {
	if a.buildErr == nil {
		a.buildErr = err
	}
}

// finish applies per-kind defaults after all attributes ran.
func (a *Arg) finish(fallback reflect.Type) {
	if a.typ == nil {
		a.typ = fallback
	}
	if len(a.elems) == 0 {
		switch a.typ.Kind() {
		case reflect.Slice:
			if a.typ.Elem().Kind() == reflect.Uint8 {
				// []byte converts as a scalar.
				a.elems = []reflect.Type{a.typ}
			} else {
				a.elems = []reflect.Type{a.typ.Elem()}
			}
		case reflect.Map:
			a.elems = []reflect.Type{a.typ.Key(), a.typ.Elem()}
		default:
			a.elems = []reflect.Type{a.typ}
		}
	}
	if a.getter == nil || a.setter == nil {
		s := &slot{}
		a.getter = s
		a.setter = s
	}
	// Without an explicit initial, the value bound at construction time is
	// what Reset restores, so repeated parse runs start from the same state.
	if !a.hasInitial {
		if v, err := a.getter.Get(); err == nil {
			a.initial = v
			a.hasInitial = true
		}
	}
}

// Type returns the declared target type.
func (a *Arg) Type() reflect.Type { return a.typ }

// ElemTypes returns the element types: one entry for single-value and slice
// arguments, key and value types for maps.
func (a *Arg) ElemTypes() []reflect.Type { return a.elems }

// Arity returns how many tokens the argument consumes.
func (a *Arg) Arity() interval.Interval { return a.arity }

// Required reports whether the argument must be matched.
func (a *Arg) Required() bool { return a.required }

// Default returns the raw default value and whether one was declared.
func (a *Arg) Default() (string, bool) { return a.def, a.hasDef }

// Split returns the declared split expression, or the empty string.
func (a *Arg) Split() string { return a.split }

// SplitRegexp returns the compiled split expression. It is available after
// the owning command was validated.
func (a *Arg) SplitRegexp() *regexp.Regexp { return a.splitRe }

// Hidden reports whether the argument is excluded from listings.
func (a *Arg) Hidden() bool { return a.hidden }

// Interactive reports whether the value is solicited via prompt.
func (a *Arg) Interactive() bool { return a.interactive }

// Usage returns the help description.
func (a *Arg) Usage() string { return a.usage }

// Enums returns the allowed constant names, if restricted.
func (a *Arg) Enums() []string { return a.enums }

// Completions returns the attached completion candidates.
func (a *Arg) Completions() []string { return a.completions }

// Converter returns the argument-specific converter, if any.
func (a *Arg) Converter() convert.Func { return a.converter }

// Command returns the command owning this argument.
func (a *Arg) Command() *Command { return a.cmd }

// Value reads the currently bound value through the getter.
func (a *Arg) Value() (any, error) { return a.getter.Get() }

// Multi reports whether the argument accumulates into a container rather
// than overwriting a single value.
func (a *Arg) Multi() bool {
	switch a.typ.Kind() {
	case reflect.Slice:
		return a.typ.Elem().Kind() != reflect.Uint8
	case reflect.Map:
		return true
	}
	return a.arity.Max > 1 || a.arity.Unbounded()
}

// Reset clears the values captured by a previous parse run and restores
// the initial value, either the one set via WithInitial or the value bound
// at construction time, unless resetting is disabled. The parser calls
// this at the start of every run.
func (a *Arg) Reset() error {
	a.raw = nil
	a.values = nil
	a.typed = nil
	a.count = 0
	if a.hasInitial && !a.noReset {
		return a.setter.Set(a.initial)
	}
	return nil
}

// Capture records one matched occurrence: the original tokens, the values
// after splitting, and their converted forms. The parser is the only
// caller.
func (a *Arg) Capture(raw, values []string, typed []any) {
	a.raw = append(a.raw, raw...)
	a.values = append(a.values, values...)
	a.typed = append(a.typed, typed...)
	a.count++
}

// RawValues returns the original tokens matched so far.
func (a *Arg) RawValues() []string { return a.raw }

// StringValues returns the matched values after splitting.
func (a *Arg) StringValues() []string { return a.values }

// TypedValues returns the converted values captured so far.
func (a *Arg) TypedValues() []any { return a.typed }

// Occurrences returns how often the argument was matched in the current
// parse run.
func (a *Arg) Occurrences() int { return a.count }

// Store materializes the captured values into the declared target type and
// writes the result through the setter: the last value for scalars, a
// slice or map for containers.
func (a *Arg) Store() error {
	return a.StoreValues(a.typed)
}

// StoreValues materializes the given converted values through the binding
// without recording a match. The parser uses it to apply default values.
func (a *Arg) StoreValues(typed []any) error {
	if len(typed) == 0 {
		return nil
	}
	switch a.typ.Kind() {
	case reflect.Slice:
		if a.typ.Elem().Kind() == reflect.Uint8 {
			break // []byte stores as a scalar
		}
		s := reflect.MakeSlice(a.typ, 0, len(typed))
		for _, v := range typed {
			s = reflect.Append(s, reflect.ValueOf(v).Convert(a.typ.Elem()))
		}
		return a.setter.Set(s.Interface())
	case reflect.Map:
		m := reflect.MakeMapWithSize(a.typ, len(typed))
		for _, v := range typed {
			pair := v.(Pair)
			m.SetMapIndex(
				reflect.ValueOf(pair.Key).Convert(a.typ.Key()),
				reflect.ValueOf(pair.Value).Convert(a.typ.Elem()),
			)
		}
		return a.setter.Set(m.Interface())
	}
	return a.setter.Set(typed[len(typed)-1])
}

// Pair is the converted form of one KEY=VALUE element of a map-shaped
// argument.
type Pair struct {
	Key   any
	Value any
}
