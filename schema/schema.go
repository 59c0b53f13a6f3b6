// Package schema loads command specifications from declarative documents.
// A document describes one command tree in YAML or JSON:
//
//	name: greet
//	version: 1.0.0
//	options:
//	  - names: [-n, --name]
//	    type: string
//	    default: world
//	positionals:
//	  - label: TIMES
//	    type: int
//	commands:
//	  - name: wave
//
// The type field names one of the registered scalar types (string, bool,
// the integer and float widths, duration, time, url, uuid, regexp, bytes,
// char, semver), a slice as "[]T", or a map as "map[K]V".
package schema

import (
	"fmt"
	"math/big"
	"net/url"
	"os"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/deep-rent/cling/codec"
	"github.com/deep-rent/cling/convert"
	"github.com/deep-rent/cling/spec"
)

// Document is the serialized form of one command level.
type Document struct {
	Name        string       `json:"name"        yaml:"name"`
	Aliases     []string     `json:"aliases"     yaml:"aliases"`
	Version     string       `json:"version"     yaml:"version"`
	HelpCommand bool         `json:"helpCommand" yaml:"helpCommand"`
	Options     []Option     `json:"options"     yaml:"options"`
	Positionals []Positional `json:"positionals" yaml:"positionals"`
	Commands    []Document   `json:"commands"    yaml:"commands"`
	Settings    *Settings    `json:"settings"    yaml:"settings"`
}

// Option is the serialized form of one named option.
type Option struct {
	Names       []string `json:"names"       yaml:"names"`
	Type        string   `json:"type"        yaml:"type"`
	Arity       string   `json:"arity"       yaml:"arity"`
	Default     *string  `json:"default"     yaml:"default"`
	Required    bool     `json:"required"    yaml:"required"`
	Hidden      bool     `json:"hidden"      yaml:"hidden"`
	Interactive bool     `json:"interactive" yaml:"interactive"`
	Split       string   `json:"split"       yaml:"split"`
	Usage       string   `json:"usage"       yaml:"usage"`
	Enum        []string `json:"enum"        yaml:"enum"`
	Help        bool     `json:"help"        yaml:"help"`
	Version     bool     `json:"version"     yaml:"version"`
}

// Positional is the serialized form of one positional parameter.
type Positional struct {
	Label    string   `json:"label"    yaml:"label"`
	Type     string   `json:"type"     yaml:"type"`
	Index    string   `json:"index"    yaml:"index"`
	Arity    string   `json:"arity"    yaml:"arity"`
	Default  *string  `json:"default"  yaml:"default"`
	Required bool     `json:"required" yaml:"required"`
	Split    string   `json:"split"    yaml:"split"`
	Usage    string   `json:"usage"    yaml:"usage"`
	Enum     []string `json:"enum"     yaml:"enum"`
}

// Settings overrides parser policies; absent fields keep their defaults.
type Settings struct {
	Separator            *string `json:"separator"            yaml:"separator"`
	EndOfOptions         *string `json:"endOfOptions"         yaml:"endOfOptions"`
	POSIXClustering      *bool   `json:"posixClustering"      yaml:"posixClustering"`
	OverwriteAllowed     *bool   `json:"overwriteAllowed"     yaml:"overwriteAllowed"`
	UnmatchedAllowed     *bool   `json:"unmatchedAllowed"     yaml:"unmatchedAllowed"`
	StopAtUnmatched      *bool   `json:"stopAtUnmatched"      yaml:"stopAtUnmatched"`
	StopAtPositional     *bool   `json:"stopAtPositional"     yaml:"stopAtPositional"`
	ToggleBooleanFlags   *bool   `json:"toggleBooleanFlags"   yaml:"toggleBooleanFlags"`
	CaseInsensitiveEnums *bool   `json:"caseInsensitiveEnums" yaml:"caseInsensitiveEnums"`
	LimitSplit           *bool   `json:"limitSplit"           yaml:"limitSplit"`
	ArityByAttached      *bool   `json:"arityByAttached"      yaml:"arityByAttached"`
	CollectErrors        *bool   `json:"collectErrors"        yaml:"collectErrors"`
	TrimQuotes           *bool   `json:"trimQuotes"           yaml:"trimQuotes"`
	SplitQuoted          *bool   `json:"splitQuoted"          yaml:"splitQuoted"`
	ExpandAtFiles        *bool   `json:"expandAtFiles"        yaml:"expandAtFiles"`
}

// Load reads a document from path, picking the codec by file extension,
// and builds the command tree it describes.
func Load(path string, settings ...spec.Setting) (*spec.Command, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schema: %w", err)
	}
	return Decode(data, codec.Infer(path), settings...)
}

// Decode unmarshals a document with the given codec and builds the command
// tree it describes.
func Decode(
	data []byte, c codec.Codec, settings ...spec.Setting,
) (*spec.Command, error) {
	var doc Document
	if err := c.Decode(data, &doc); err != nil {
		return nil, fmt.Errorf("schema: %w", err)
	}
	return Build(&doc, settings...)
}

// Build turns a document into a validated-buildable command tree.
func Build(doc *Document, settings ...spec.Setting) (*spec.Command, error) {
	if doc.Name == "" {
		return nil, fmt.Errorf("schema: document is missing a command name")
	}
	all := append([]spec.Setting{
		spec.WithAliases(doc.Aliases...),
		spec.WithVersion(doc.Version),
	}, settings...)
	if doc.HelpCommand {
		all = append(all, spec.AsHelpCommand())
	}
	cmd := spec.New(doc.Name, all...)

	for _, o := range doc.Options {
		attrs, err := argAttrs(
			o.Type, o.Arity, "", o.Default, o.Required, o.Hidden,
			o.Interactive, o.Split, o.Usage, o.Enum,
		)
		if err != nil {
			return nil, fmt.Errorf("schema: option %v: %w", o.Names, err)
		}
		if o.Help {
			attrs = append(attrs, spec.UsageHelp())
		}
		if o.Version {
			attrs = append(attrs, spec.VersionHelp())
		}
		if err := cmd.AddOption(spec.NewOption(o.Names, attrs...)); err != nil {
			return nil, err
		}
	}
	for _, p := range doc.Positionals {
		attrs, err := argAttrs(
			p.Type, p.Arity, p.Index, p.Default, p.Required, false,
			false, p.Split, p.Usage, p.Enum,
		)
		if err != nil {
			return nil, fmt.Errorf("schema: positional %s: %w", p.Label, err)
		}
		if err := cmd.AddPositional(
			spec.NewPositional(p.Label, attrs...),
		); err != nil {
			return nil, err
		}
	}
	for i := range doc.Commands {
		sub, err := Build(&doc.Commands[i])
		if err != nil {
			return nil, err
		}
		if err := cmd.AddSubcommand(sub); err != nil {
			return nil, err
		}
	}
	if doc.Settings != nil {
		applySettings(cmd.Config(), doc.Settings)
	}
	return cmd, nil
}

func argAttrs(
	typ, arity, index string, def *string, required, hidden,
	interactive bool, split, usage string, enum []string,
) ([]spec.Attr, error) {
	var attrs []spec.Attr
	if typ != "" {
		t, err := resolveType(typ)
		if err != nil {
			return nil, err
		}
		attrs = append(attrs, spec.WithType(t))
	}
	if arity != "" {
		attrs = append(attrs, spec.WithArity(arity))
	}
	if index != "" {
		attrs = append(attrs, spec.WithIndex(index))
	}
	if def != nil {
		attrs = append(attrs, spec.WithDefault(*def))
	}
	if required {
		attrs = append(attrs, spec.Required())
	}
	if hidden {
		attrs = append(attrs, spec.Hidden())
	}
	if interactive {
		attrs = append(attrs, spec.Interactive())
	}
	if split != "" {
		attrs = append(attrs, spec.WithSplit(split))
	}
	if usage != "" {
		attrs = append(attrs, spec.WithUsage(usage))
	}
	if len(enum) > 0 {
		attrs = append(attrs, spec.WithEnums(enum...))
	}
	return attrs, nil
}

func applySettings(cfg *spec.Config, s *Settings) {
	if s.Separator != nil {
		cfg.Separator = *s.Separator
	}
	if s.EndOfOptions != nil {
		cfg.EndOfOptions = *s.EndOfOptions
	}
	if s.POSIXClustering != nil {
		cfg.POSIXClustering = *s.POSIXClustering
	}
	if s.OverwriteAllowed != nil {
		cfg.OverwriteAllowed = *s.OverwriteAllowed
	}
	if s.UnmatchedAllowed != nil {
		cfg.UnmatchedAllowed = *s.UnmatchedAllowed
	}
	if s.StopAtUnmatched != nil {
		cfg.StopAtUnmatched = *s.StopAtUnmatched
	}
	if s.StopAtPositional != nil {
		cfg.StopAtPositional = *s.StopAtPositional
	}
	if s.ToggleBooleanFlags != nil {
		cfg.ToggleBooleanFlags = *s.ToggleBooleanFlags
	}
	if s.CaseInsensitiveEnums != nil {
		cfg.CaseInsensitiveEnums = *s.CaseInsensitiveEnums
	}
	if s.LimitSplit != nil {
		cfg.LimitSplit = *s.LimitSplit
	}
	if s.ArityByAttached != nil {
		cfg.ArityByAttached = *s.ArityByAttached
	}
	if s.CollectErrors != nil {
		cfg.CollectErrors = *s.CollectErrors
	}
	if s.TrimQuotes != nil {
		cfg.TrimQuotes = *s.TrimQuotes
	}
	if s.SplitQuoted != nil {
		cfg.SplitQuoted = *s.SplitQuoted
	}
	if s.ExpandAtFiles != nil {
		cfg.ExpandAtFiles = *s.ExpandAtFiles
	}
}

var scalars = map[string]reflect.Type{
	"string":   convert.TypeOf[string](),
	"bool":     convert.TypeOf[bool](),
	"int":      convert.TypeOf[int](),
	"int8":     convert.TypeOf[int8](),
	"int16":    convert.TypeOf[int16](),
	"int32":    convert.TypeOf[int32](),
	"int64":    convert.TypeOf[int64](),
	"uint":     convert.TypeOf[uint](),
	"uint8":    convert.TypeOf[uint8](),
	"uint16":   convert.TypeOf[uint16](),
	"uint32":   convert.TypeOf[uint32](),
	"uint64":   convert.TypeOf[uint64](),
	"float32":  convert.TypeOf[float32](),
	"float64":  convert.TypeOf[float64](),
	"float":    convert.TypeOf[float64](),
	"bytes":    convert.TypeOf[[]byte](),
	"char":     convert.TypeOf[convert.Char](),
	"duration": convert.TypeOf[time.Duration](),
	"time":     convert.TypeOf[time.Time](),
	"url":      reflect.TypeOf((*url.URL)(nil)),
	"uuid":     convert.TypeOf[uuid.UUID](),
	"regexp":   reflect.TypeOf((*regexp.Regexp)(nil)),
	"bigint":   reflect.TypeOf((*big.Int)(nil)),
	"bigfloat": reflect.TypeOf((*big.Float)(nil)),
	"semver":   convert.TypeOf[convert.Semver](),
}

// resolveType maps a type name from a document to its Go representation.
func resolveType(name string) (reflect.Type, error) {
	name = strings.TrimSpace(name)
	if rest, ok := strings.CutPrefix(name, "[]"); ok && rest != "byte" {
		elem, err := resolveType(rest)
		if err != nil {
			return nil, err
		}
		return reflect.SliceOf(elem), nil
	}
	if rest, ok := strings.CutPrefix(name, "map["); ok {
		k, v, found := strings.Cut(rest, "]")
		if !found || v == "" {
			return nil, fmt.Errorf("malformed map type %q", name)
		}
		kt, err := resolveType(k)
		if err != nil {
			return nil, err
		}
		vt, err := resolveType(v)
		if err != nil {
			return nil, err
		}
		return reflect.MapOf(kt, vt), nil
	}
	if name == "[]byte" {
		return scalars["bytes"], nil
	}
	if t, ok := scalars[name]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("unknown type %q", name)
}
