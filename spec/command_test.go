package spec_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/deep-rent/cling/convert"
	"github.com/deep-rent/cling/spec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommand_AddOption(t *testing.T) {
	cmd := spec.New("test")
	require.NoError(t, cmd.AddOption(spec.NewOption([]string{"-v", "--verbose"})))

	err := cmd.AddOption(spec.NewOption([]string{"-v"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate option name")

	assert.NotNil(t, cmd.Option("-v"))
	assert.NotNil(t, cmd.Option("--verbose"))
	assert.Nil(t, cmd.Option("--quiet"))
	assert.Equal(t, []string{"-v", "--verbose"}, cmd.OptionNames())
}

func TestCommand_AddSubcommand(t *testing.T) {
	root := spec.New("git")
	sub := spec.New("checkout", spec.WithAliases("co"))
	require.NoError(t, root.AddSubcommand(sub, "switch"))

	assert.Same(t, sub, root.Subcommand("checkout"))
	assert.Same(t, sub, root.Subcommand("co"))
	assert.Same(t, sub, root.Subcommand("switch"))
	assert.Equal(t, []string{"checkout"}, root.Subcommands())
	assert.Equal(t, "git checkout", sub.QualifiedName())
	assert.Same(t, root, sub.Root())

	err := root.AddSubcommand(spec.New("co"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate subcommand")
}

func TestCommand_AddMixin(t *testing.T) {
	mix := spec.New("common", spec.WithVersion("1.2.3"))
	require.NoError(t, mix.AddOption(spec.NewOption([]string{"--debug"})))

	a := spec.New("a")
	b := spec.New("b")
	require.NoError(t, a.AddMixin("common", mix))
	require.NoError(t, b.AddMixin("common", mix))

	// Merged options are clones with independent value state.
	ao, bo := a.Option("--debug"), b.Option("--debug")
	require.NotNil(t, ao)
	require.NotNil(t, bo)
	ao.Capture([]string{"--debug"}, []string{"true"}, []any{true})
	assert.Equal(t, 1, ao.Occurrences())
	assert.Zero(t, bo.Occurrences())

	// Scalar settings fill in only where the host is unset.
	assert.Equal(t, "1.2.3", a.Version())
	c := spec.New("c", spec.WithVersion("9.9.9"))
	require.NoError(t, c.AddMixin("common", mix))
	assert.Equal(t, "9.9.9", c.Version())

	assert.Error(t, a.AddMixin("common", mix))
	assert.Same(t, mix, a.Mixin("common"))
}

func TestCommand_AddMixinCopiesSubcommands(t *testing.T) {
	mix := spec.New("common")
	sub := spec.New("sub", spec.WithAliases("s"))
	require.NoError(t, sub.AddOption(spec.NewOption([]string{"--flag"})))
	require.NoError(t, mix.AddSubcommand(sub, "alias"))

	h1 := spec.New("host1")
	h2 := spec.New("host2")
	require.NoError(t, h1.AddMixin("common", mix))
	require.NoError(t, h2.AddMixin("common", mix))

	// Each host gets its own copy of the subcommand tree.
	s1, s2 := h1.Subcommand("sub"), h2.Subcommand("sub")
	require.NotNil(t, s1)
	require.NotNil(t, s2)
	assert.NotSame(t, s1, s2)
	assert.NotSame(t, sub, s1)
	assert.Equal(t, "host1 sub", s1.QualifiedName())
	assert.Equal(t, "host2 sub", s2.QualifiedName())

	// Aliases carry over, including those added at wiring time.
	assert.Same(t, s1, h1.Subcommand("s"))
	assert.Same(t, s1, h1.Subcommand("alias"))

	// Argument value state stays per host.
	o1 := s1.Option("--flag")
	require.NotNil(t, o1)
	o1.Capture([]string{"--flag"}, []string{"true"}, []any{true})
	assert.Zero(t, s2.Option("--flag").Occurrences())
	assert.Zero(t, sub.Option("--flag").Occurrences())
}

func TestCommand_Validate(t *testing.T) {
	type test struct {
		name    string
		build   func(cmd *spec.Command)
		wantErr string
	}
	tests := []test{
		{
			name: "option with index",
			build: func(cmd *spec.Command) {
				_ = cmd.AddOption(spec.NewOption(
					[]string{"-o"}, spec.WithIndex("0"),
				))
			},
			wantErr: "must not declare an index",
		},
		{
			name: "non-boolean help option",
			build: func(cmd *spec.Command) {
				_ = cmd.AddOption(spec.NewOption(
					[]string{"-h"},
					spec.WithType(convert.TypeOf[string]()),
					spec.UsageHelp(),
				))
			},
			wantErr: "must be of boolean type",
		},
		{
			name: "help positional",
			build: func(cmd *spec.Command) {
				_ = cmd.AddPositional(spec.NewPositional(
					"FILE", spec.VersionHelp(),
				))
			},
			wantErr: "cannot trigger help",
		},
		{
			name: "interactive with wide arity",
			build: func(cmd *spec.Command) {
				_ = cmd.AddOption(spec.NewOption(
					[]string{"--password"},
					spec.WithType(convert.TypeOf[string]()),
					spec.Interactive(),
					spec.WithArity("0..1"),
				))
			},
			wantErr: "must have arity 1",
		},
		{
			name: "bad split expression",
			build: func(cmd *spec.Command) {
				_ = cmd.AddOption(spec.NewOption(
					[]string{"--list"},
					spec.WithType(convert.TypeOf[[]string]()),
					spec.WithSplit("["),
				))
			},
			wantErr: "invalid split expression",
		},
		{
			name: "bad arity expression",
			build: func(cmd *spec.Command) {
				_ = cmd.AddOption(spec.NewOption(
					[]string{"-o"}, spec.WithArity("two"),
				))
			},
			wantErr: "invalid arity",
		},
		{
			name: "positional index gap",
			build: func(cmd *spec.Command) {
				_ = cmd.AddPositional(spec.NewPositional(
					"A", spec.WithIndex("0"),
				))
				_ = cmd.AddPositional(spec.NewPositional(
					"C", spec.WithIndex("2"),
				))
			},
			wantErr: "positional index gap",
		},
		{
			name: "contiguous positionals",
			build: func(cmd *spec.Command) {
				_ = cmd.AddPositional(spec.NewPositional(
					"A", spec.WithIndex("0"),
				))
				_ = cmd.AddPositional(spec.NewPositional(
					"REST", spec.WithIndex("1..*"),
				))
			},
		},
		{
			name: "overlapping positionals",
			build: func(cmd *spec.Command) {
				_ = cmd.AddPositional(spec.NewPositional(
					"ALL", spec.WithIndex("0..*"),
				))
				_ = cmd.AddPositional(spec.NewPositional(
					"FIRST", spec.WithIndex("0"),
				))
			},
		},
		{
			name: "invalid subcommand surfaces",
			build: func(cmd *spec.Command) {
				sub := spec.New("sub")
				_ = sub.AddOption(spec.NewOption([]string{"bad"}))
				_ = cmd.AddSubcommand(sub)
			},
			wantErr: "invalid option name",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cmd := spec.New("test")
			tc.build(cmd)
			err := cmd.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
			}
		})
	}
}

func TestCommand_ValidateWarnsOnLabelCollision(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	cmd := spec.New("test", spec.WithLogger(logger))
	require.NoError(t, cmd.AddOption(spec.NewOption([]string{"--file"})))
	require.NoError(t, cmd.AddPositional(spec.NewPositional("--file")))

	require.NoError(t, cmd.Validate())
	assert.Contains(t, buf.String(), "collides with an option name")
}

func TestCommand_ValidateSortsPositionals(t *testing.T) {
	cmd := spec.New("test")
	require.NoError(t, cmd.AddPositional(
		spec.NewPositional("REST", spec.WithIndex("1..*")),
	))
	require.NoError(t, cmd.AddPositional(
		spec.NewPositional("FIRST", spec.WithIndex("0")),
	))
	require.NoError(t, cmd.Validate())

	params := cmd.Positionals()
	require.Len(t, params, 2)
	assert.Equal(t, "FIRST", params[0].Label())
	assert.Equal(t, "REST", params[1].Label())
}

func TestCommand_ResemblesOption(t *testing.T) {
	cmd := spec.New("test")
	require.NoError(t, cmd.AddOption(spec.NewOption([]string{"-v", "--verbose"})))

	type test struct {
		name  string
		token string
		want  bool
	}
	tests := []test{
		{name: "misspelled long option", token: "--verbsoe", want: true},
		{name: "unknown short option", token: "-x", want: true},
		{name: "negative number", token: "-42", want: false},
		{name: "negative float", token: "-4.2", want: false},
		{name: "plain word", token: "verbose", want: false},
		{name: "single dash", token: "-", want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, cmd.ResemblesOption(tc.token))
		})
	}
}

func TestCommand_ResemblesOptionCustom(t *testing.T) {
	cmd := spec.New("test")
	cmd.Config().Resembles = func(token string) bool { return token == "+x" }
	assert.True(t, cmd.ResemblesOption("+x"))
	assert.False(t, cmd.ResemblesOption("--anything"))
}

func TestCommand_ConverterSnapshot(t *testing.T) {
	reg := convert.NewRegistry()
	cmd := spec.New("test", spec.WithConverters(reg))

	// Converters registered after construction must not leak in.
	type custom struct{ v string }
	convert.Register(reg, func(s string) (custom, error) {
		return custom{v: s}, nil
	})

	_, ok := cmd.Converters().Lookup(convert.TypeOf[custom]())
	assert.False(t, ok)
	_, ok = reg.Lookup(convert.TypeOf[custom]())
	assert.True(t, ok)
}

func TestCommand_Configure(t *testing.T) {
	root := spec.New("root")
	sub := spec.New("sub")
	require.NoError(t, root.AddSubcommand(sub))

	root.Configure(func(cfg *spec.Config) { cfg.TrimQuotes = true })
	assert.True(t, root.Config().TrimQuotes)
	assert.True(t, sub.Config().TrimQuotes)

	late := spec.New("late")
	require.NoError(t, root.AddSubcommand(late))
	assert.False(t, late.Config().TrimQuotes)
}

func TestCommand_Reset(t *testing.T) {
	cmd := spec.New("test")
	o := spec.NewOption([]string{"-n"}, spec.WithType(convert.TypeOf[int]()))
	require.NoError(t, cmd.AddOption(o))
	o.Capture([]string{"1"}, []string{"1"}, []any{1})

	require.NoError(t, cmd.Reset())
	assert.Zero(t, o.Occurrences())
}

func TestCommand_ValidateIdempotent(t *testing.T) {
	cmd := spec.New("test")
	require.NoError(t, cmd.AddOption(spec.NewOption([]string{"-v"})))
	require.NoError(t, cmd.Validate())
	require.NoError(t, cmd.Validate())

	// Adding more structure re-arms validation.
	require.NoError(t, cmd.AddOption(spec.NewOption(
		[]string{"-o"}, spec.WithIndex("0"),
	)))
	assert.Error(t, cmd.Validate())
}
