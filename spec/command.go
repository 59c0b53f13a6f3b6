// Package spec models the grammar of a command line: named options,
// positional parameters, nested subcommands, and the policies that steer
// the parser. A specification is built once, validated, and then read-only
// with respect to structure; only the value slots of its arguments mutate
// during a parse run.
package spec

import (
	"log/slog"
	"math"
	"reflect"
	"regexp"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/deep-rent/cling/convert"
)

// Command is the full grammar of one command level: identity, options,
// positional parameters, subcommands, and parser configuration.
type Command struct {
	name      string
	aliases   []string
	version   string
	helpCmd   bool
	parent    *Command
	options   []*Option
	byName    map[string]*Option
	params    []*Positional
	subs      map[string]*Command
	subNames  []string
	mixins    map[string]*Command
	cfg       Config
	logger    *slog.Logger
	reg       *convert.Registry
	validated bool
}

// Setting configures a Command under construction.
type Setting func(*Command)

// WithAliases declares alternative names for the command.
func WithAliases(aliases ...string) Setting {
	return func(c *Command) { c.aliases = aliases }
}

// WithVersion sets the version string reported by a version-help option.
func WithVersion(v string) Setting {
	return func(c *Command) { c.version = v }
}

// WithLogger sets the logger used for validation warnings.
// Defaults to slog.Default.
func WithLogger(l *slog.Logger) Setting {
	return func(c *Command) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithConverters installs a clone of the given registry. Converters
// registered with the original after this point do not affect the command.
func WithConverters(r *convert.Registry) Setting {
	return func(c *Command) {
		if r != nil {
			c.reg = r.Clone()
		}
	}
}

// WithConfig replaces the default parser configuration.
func WithConfig(cfg Config) Setting {
	return func(c *Command) { c.cfg = cfg }
}

// AsHelpCommand marks the command as a help command: reaching it
// suppresses required-argument validation along the whole chain.
func AsHelpCommand() Setting {
	return func(c *Command) { c.helpCmd = true }
}

// New creates an empty command specification with the given name.
func New(name string, settings ...Setting) *Command {
	c := &Command{
		name:   name,
		byName: make(map[string]*Option),
		subs:   make(map[string]*Command),
		mixins: make(map[string]*Command),
		cfg:    DefaultConfig(),
		logger: slog.Default(),
	}
	for _, s := range settings {
		s(c)
	}
	if c.reg == nil {
		c.reg = convert.NewRegistry()
	}
	return c
}

// Name returns the command's declared name.
func (c *Command) Name() string { return c.name }

// Aliases returns the command's alternative names.
func (c *Command) Aliases() []string { return c.aliases }

// QualifiedName returns the names from the root command to this one,
// joined by spaces.
func (c *Command) QualifiedName() string {
	if c.parent == nil {
		return c.name
	}
	return c.parent.QualifiedName() + " " + c.name
}

// Parent returns the enclosing command, or nil for the root.
func (c *Command) Parent() *Command { return c.parent }

// Root returns the top of the command tree.
func (c *Command) Root() *Command {
	r := c
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// Version returns the declared version string.
func (c *Command) Version() string { return c.version }

// HelpCommand reports whether the command was marked as a help command.
func (c *Command) HelpCommand() bool { return c.helpCmd }

// Logger returns the logger used for validation warnings.
func (c *Command) Logger() *slog.Logger { return c.logger }

// Converters returns the command's converter registry.
func (c *Command) Converters() *convert.Registry { return c.reg }

// Config returns the command's own parser configuration for local
// adjustment. Use Configure to change the whole tree.
func (c *Command) Config() *Config { return &c.cfg }

// Configure applies fn to this command's configuration and to every
// subcommand wired in so far. Subcommands added afterwards keep their own
// configuration, so configure after wiring the full tree.
func (c *Command) Configure(fn func(*Config)) {
	fn(&c.cfg)
	for _, name := range c.subNames {
		c.subs[name].Configure(fn)
	}
}

// Options returns the declared options in registration order.
func (c *Command) Options() []*Option { return c.options }

// Positionals returns the positional parameters. After Validate they are
// sorted by index, then arity.
func (c *Command) Positionals() []*Positional { return c.params }

// Option looks up an option by any of its names.
func (c *Command) Option(name string) *Option { return c.byName[name] }

// OptionNames returns every name any option answers to.
func (c *Command) OptionNames() []string {
	names := make([]string, 0, len(c.byName))
	for _, o := range c.options {
		names = append(names, o.names...)
	}
	return names
}

// Subcommand looks up a nested command by name or alias.
func (c *Command) Subcommand(name string) *Command { return c.subs[name] }

// Subcommands returns the declared subcommand names (not aliases) in
// registration order.
func (c *Command) Subcommands() []string { return c.subNames }

// AddOption registers an option. A name collision with a previously
// registered option is an error.
func (c *Command) AddOption(o *Option) error {
	for _, n := range o.names {
		if prev, ok := c.byName[n]; ok {
			return initErrorf(
				"duplicate option name %q (already used by %s) on command %q",
				n, prev.Name(), c.name,
			)
		}
	}
	o.cmd = c
	c.options = append(c.options, o)
	for _, n := range o.names {
		c.byName[n] = o
	}
	c.validated = false
	return nil
}

// AddPositional registers a positional parameter.
func (c *Command) AddPositional(p *Positional) error {
	p.cmd = c
	c.params = append(c.params, p)
	c.validated = false
	return nil
}

// AddSubcommand wires a nested command under its declared name, its own
// aliases, and any extra aliases given here. All entries resolve to the
// same specification.
func (c *Command) AddSubcommand(sub *Command, aliases ...string) error {
	names := append([]string{sub.name}, sub.aliases...)
	names = append(names, aliases...)
	for _, n := range names {
		if _, ok := c.subs[n]; ok {
			return initErrorf(
				"duplicate subcommand name %q on command %q", n, c.name,
			)
		}
	}
	sub.parent = c
	for _, n := range names {
		c.subs[n] = sub
	}
	c.subNames = append(c.subNames, sub.name)
	c.validated = false
	return nil
}

// AddMixin merges a partial specification into the command: its options,
// positional parameters, and subcommand trees are copied in, never
// aliased, and scalar settings (version, help-command flag, separator)
// fill in only where the host has not set them.
func (c *Command) AddMixin(name string, mix *Command) error {
	if _, ok := c.mixins[name]; ok {
		return initErrorf("duplicate mixin %q on command %q", name, c.name)
	}
	for _, o := range mix.options {
		if err := c.AddOption(o.clone()); err != nil {
			return err
		}
	}
	for _, p := range mix.params {
		if err := c.AddPositional(p.clone()); err != nil {
			return err
		}
	}
	for _, n := range mix.subNames {
		sub := mix.subs[n]
		if err := c.AddSubcommand(
			sub.clone(), mix.extraAliases(sub)...,
		); err != nil {
			return err
		}
	}
	if c.version == "" {
		c.version = mix.version
	}
	if !c.helpCmd {
		c.helpCmd = mix.helpCmd
	}
	if c.cfg.Separator == DefaultSeparator {
		c.cfg.Separator = mix.cfg.Separator
	}
	c.mixins[name] = mix
	c.validated = false
	return nil
}

// Mixin returns the merged-in partial specification registered under name.
func (c *Command) Mixin(name string) *Command { return c.mixins[name] }

// clone returns a deep copy of the command tree, detached from any parent
// and with fresh argument value state, so a mixin merged into several hosts
// shares no specification.
func (c *Command) clone() *Command {
	n := New(c.name)
	n.aliases = slices.Clone(c.aliases)
	n.version = c.version
	n.helpCmd = c.helpCmd
	n.cfg = c.cfg
	n.logger = c.logger
	n.reg = c.reg.Clone()
	// The source tree is structurally sound, so re-adding cannot fail.
	for _, o := range c.options {
		_ = n.AddOption(o.clone())
	}
	for _, p := range c.params {
		_ = n.AddPositional(p.clone())
	}
	for _, name := range c.subNames {
		sub := c.subs[name]
		_ = n.AddSubcommand(sub.clone(), c.extraAliases(sub)...)
	}
	return n
}

// extraAliases returns the names sub was wired under at registration time,
// beyond its declared name and aliases.
func (c *Command) extraAliases(sub *Command) []string {
	var extra []string
	for alias, s := range c.subs {
		if s == sub && alias != sub.name && !slices.Contains(sub.aliases, alias) {
			extra = append(extra, alias)
		}
	}
	slices.Sort(extra)
	return extra
}

// Validate checks the specification for structural problems and prepares
// it for parsing: positional parameters are sorted by index then arity and
// checked for index gaps, help-triggering options for boolean type, and
// split expressions are compiled. It must be called before parsing and is
// idempotent until the specification changes.
func (c *Command) Validate() error {
	if c.validated {
		return nil
	}
	for _, o := range c.options {
		if err := c.validateArg(&o.Arg, "option "+o.Name()); err != nil {
			return err
		}
		if o.indexSet {
			return initErrorf("option %s must not declare an index", o.Name())
		}
		if (o.usageHelp || o.versionHelp) && o.typ.Kind() != reflect.Bool {
			return initErrorf(
				"help option %s must be of boolean type, not %s",
				o.Name(), o.typ,
			)
		}
	}
	if err := c.validateHelpCount(); err != nil {
		return err
	}
	for _, p := range c.params {
		if err := c.validateArg(&p.Arg, "positional "+p.label); err != nil {
			return err
		}
		if p.usageHelp || p.versionHelp {
			return initErrorf(
				"positional %s cannot trigger help", p.label,
			)
		}
		if c.byName[p.label] != nil {
			c.logger.Warn(
				"Positional label collides with an option name, result lookups prefer the positional",
				"command", c.QualifiedName(),
				"label", p.label,
			)
		}
	}

	// Sort by index, then arity, so the parser can assign positions with a
	// single forward walk.
	sort.SliceStable(c.params, func(i, j int) bool {
		a, b := c.params[i], c.params[j]
		if a.index.Min != b.index.Min {
			return a.index.Min < b.index.Min
		}
		if a.index.Max != b.index.Max {
			return a.index.Max < b.index.Max
		}
		return a.arity.Min < b.arity.Min
	})
	last := -1
	for _, p := range c.params {
		if p.index.Min > last+1 {
			return initErrorf(
				"command %q has a positional index gap: %s starts at %d but positions up to %d are covered",
				c.name, p.label, p.index.Min, last,
			)
		}
		if p.index.Max > last && last != math.MaxInt {
			if p.index.Unbounded() {
				last = math.MaxInt
			} else {
				last = p.index.Max
			}
		}
	}

	for _, sub := range c.subNames {
		if err := c.subs[sub].Validate(); err != nil {
			return err
		}
	}
	c.validated = true
	return nil
}

func (c *Command) validateArg(a *Arg, what string) error {
	if a.buildErr != nil {
		return a.buildErr
	}
	if a.interactive && (a.arity.Min != 1 || a.arity.Max != 1) {
		return initErrorf(
			"interactive %s must have arity 1, not %s", what, a.arity,
		)
	}
	if a.split != "" && a.splitRe == nil {
		re, err := regexp.Compile(a.split)
		if err != nil {
			return initErrorf("invalid split expression on %s: %w", what, err)
		}
		a.splitRe = re
	}
	return nil
}

func (c *Command) validateHelpCount() error {
	usage, version := 0, 0
	for _, o := range c.options {
		if o.usageHelp {
			usage++
		}
		if o.versionHelp {
			version++
		}
	}
	if usage > 1 {
		c.logger.Warn(
			"Multiple usage-help options declared, only the first match counts",
			"command", c.QualifiedName(),
			"count", usage,
		)
	}
	if version > 1 {
		c.logger.Warn(
			"Multiple version-help options declared, only the first match counts",
			"command", c.QualifiedName(),
			"count", version,
		)
	}
	return nil
}

// ResemblesOption decides whether an unknown token should be treated as a
// misspelled option rather than a positional value. The built-in heuristic
// requires the token to share its first character with a known option name
// and rejects anything that parses as a number, so negative numbers fall
// through to the positional slots.
func (c *Command) ResemblesOption(token string) bool {
	if c.cfg.Resembles != nil {
		return c.cfg.Resembles(token)
	}
	if len(token) < 2 {
		return false
	}
	if _, err := strconv.ParseFloat(token, 64); err == nil {
		return false
	}
	for _, o := range c.options {
		for _, n := range o.names {
			if n != "" && strings.HasPrefix(token, n[:1]) {
				return true
			}
		}
	}
	// Without any options declared, fall back to the conventional prefix.
	return len(c.options) == 0 && strings.HasPrefix(token, "-")
}

// Reset clears the value state of every argument on this command level.
// The parser calls this at the start of a run.
func (c *Command) Reset() error {
	for _, o := range c.options {
		if err := o.Arg.Reset(); err != nil {
			return err
		}
	}
	for _, p := range c.params {
		if err := p.Arg.Reset(); err != nil {
			return err
		}
	}
	return nil
}
