// Package bind derives a command specification from a tagged struct. Each
// exported field becomes an option or positional parameter wired directly
// to the field, and nested structs become subcommands, so a full command
// tree can be declared as plain data:
//
//	type args struct {
//		Verbose bool     `cli:"-v --verbose,usage:'enable verbose output'"`
//		Out     string   `cli:"-o --out,default:a.out"`
//		Files   []string `cli:"FILE,index:0..*"`
//		Fetch   struct {
//			Depth int `cli:"--depth,default:1"`
//		} `cmd:"fetch"`
//	}
//
//	var a args
//	cmd, err := bind.Command("build", &a)
//
// The first tag segment declares the names: one or more option names
// separated by spaces, or a single label without a dash prefix for a
// positional parameter. A field tagged `cli:"-"` is skipped, and a field
// without a cli tag becomes an option named after the field in kebab-case.
// The remaining segments mirror the spec attributes: arity, index, default,
// required, hidden, interactive, split, usage, enum (values separated by
// "|"), help, and version.
package bind

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/deep-rent/cling/internal/casing"
	"github.com/deep-rent/cling/internal/tag"
	"github.com/deep-rent/cling/spec"
)

// Command builds a new command specification with the given name from the
// tagged struct behind target, which must be a non-nil struct pointer.
func Command(
	name string, target any, settings ...spec.Setting,
) (*spec.Command, error) {
	cmd := spec.New(name, settings...)
	if err := Apply(cmd, target); err != nil {
		return nil, err
	}
	return cmd, nil
}

// Apply adds the arguments and subcommands declared on the tagged struct
// behind target to an existing command.
func Apply(cmd *spec.Command, target any) error {
	ptr := reflect.ValueOf(target)
	if ptr.Kind() != reflect.Pointer || ptr.IsNil() ||
		ptr.Elem().Kind() != reflect.Struct {
		return fmt.Errorf(
			"bind: target must be a non-nil struct pointer, got %T", target,
		)
	}
	return apply(cmd, ptr.Elem())
}

func apply(cmd *spec.Command, v reflect.Value) error {
	t := v.Type()
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		fv := v.Field(i)
		if raw, ok := f.Tag.Lookup("cmd"); ok {
			if raw == "-" {
				continue
			}
			if err := applySub(cmd, f, fv, raw); err != nil {
				return err
			}
			continue
		}
		raw, tagged := f.Tag.Lookup("cli")
		if raw == "-" {
			continue
		}
		if !tagged && f.Anonymous && fv.Kind() == reflect.Struct {
			// Embedded structs without a tag flatten into the host.
			if err := apply(cmd, fv); err != nil {
				return err
			}
			continue
		}
		if err := applyArg(cmd, f, fv, raw); err != nil {
			return err
		}
	}
	return nil
}

func applySub(
	cmd *spec.Command, f reflect.StructField, fv reflect.Value, raw string,
) error {
	if fv.Kind() == reflect.Pointer {
		if fv.Type().Elem().Kind() != reflect.Struct {
			return fmt.Errorf(
				"bind: subcommand field %s must point to a struct", f.Name,
			)
		}
		if fv.IsNil() {
			fv.Set(reflect.New(fv.Type().Elem()))
		}
		fv = fv.Elem()
	}
	if fv.Kind() != reflect.Struct {
		return fmt.Errorf("bind: subcommand field %s must be a struct", f.Name)
	}
	names := tag.Parse(raw).Names()
	if len(names) == 0 {
		names = []string{casing.Kebab(f.Name)}
	}
	sub := spec.New(names[0], spec.WithAliases(names[1:]...))
	if err := apply(sub, fv); err != nil {
		return err
	}
	return cmd.AddSubcommand(sub)
}

func applyArg(
	cmd *spec.Command, f reflect.StructField, fv reflect.Value, raw string,
) error {
	tg := tag.Parse(raw)
	names := tg.Names()

	b := binding{v: fv}
	attrs := []spec.Attr{
		spec.WithType(f.Type),
		spec.WithBinding(b, b),
	}
	var badOpt string
	for k, val := range tg.Opts() {
		switch k {
		case "arity":
			attrs = append(attrs, spec.WithArity(val))
		case "index":
			attrs = append(attrs, spec.WithIndex(val))
		case "default":
			attrs = append(attrs, spec.WithDefault(val))
		case "required":
			attrs = append(attrs, spec.Required())
		case "hidden":
			attrs = append(attrs, spec.Hidden())
		case "interactive":
			attrs = append(attrs, spec.Interactive())
		case "split":
			attrs = append(attrs, spec.WithSplit(val))
		case "usage":
			attrs = append(attrs, spec.WithUsage(val))
		case "enum":
			attrs = append(attrs, spec.WithEnums(strings.Split(val, "|")...))
		case "help":
			attrs = append(attrs, spec.UsageHelp())
		case "version":
			attrs = append(attrs, spec.VersionHelp())
		default:
			badOpt = k
		}
	}
	if badOpt != "" {
		return fmt.Errorf(
			"bind: unknown tag option %q on field %s", badOpt, f.Name,
		)
	}

	if len(names) > 0 && !strings.HasPrefix(names[0], "-") {
		if len(names) > 1 {
			return fmt.Errorf(
				"bind: positional field %s must declare a single label", f.Name,
			)
		}
		return cmd.AddPositional(spec.NewPositional(names[0], attrs...))
	}
	if len(names) == 0 {
		names = []string{"--" + casing.Kebab(f.Name)}
	}
	return cmd.AddOption(spec.NewOption(names, attrs...))
}

// binding wires an argument to one struct field.
type binding struct {
	v reflect.Value
}

func (b binding) Get() (any, error) { return b.v.Interface(), nil }

func (b binding) Set(x any) error {
	if x == nil {
		b.v.Set(reflect.Zero(b.v.Type()))
		return nil
	}
	val := reflect.ValueOf(x)
	if !val.Type().AssignableTo(b.v.Type()) {
		if !val.Type().ConvertibleTo(b.v.Type()) {
			return fmt.Errorf("bind: cannot assign %T to %s", x, b.v.Type())
		}
		val = val.Convert(b.v.Type())
	}
	b.v.Set(val)
	return nil
}
