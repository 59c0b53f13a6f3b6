package bind_test

import (
	"testing"
	"time"

	"github.com/deep-rent/cling/bind"
	"github.com/deep-rent/cling/parse"
	"github.com/deep-rent/cling/spec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommand_Options(t *testing.T) {
	type args struct {
		Verbose bool          `cli:"-v --verbose,usage:'enable verbose output'"`
		Out     string        `cli:"-o --out,default:a.out"`
		Wait    time.Duration `cli:"--wait"`
		DryRun  bool
		Skip    int `cli:"-"`
		hidden  int
	}
	var a args
	cmd, err := bind.Command("build", &a)
	require.NoError(t, err)

	assert.NotNil(t, cmd.Option("--verbose"))
	assert.NotNil(t, cmd.Option("-o"))
	assert.NotNil(t, cmd.Option("--dry-run"))
	assert.Nil(t, cmd.Option("--skip"))
	assert.Len(t, cmd.Options(), 4)

	o := cmd.Option("--verbose")
	assert.Equal(t, "enable verbose output", o.Usage())
	def, ok := cmd.Option("--out").Default()
	require.True(t, ok)
	assert.Equal(t, "a.out", def)

	p, err := parse.New(cmd)
	require.NoError(t, err)
	_, err = p.Parse([]string{"-v", "--wait", "3s", "--dry-run"})
	require.NoError(t, err)

	assert.True(t, a.Verbose)
	assert.Equal(t, "a.out", a.Out)
	assert.Equal(t, 3*time.Second, a.Wait)
	assert.True(t, a.DryRun)
	_ = a.Skip
	_ = a.hidden
}

func TestCommand_Positionals(t *testing.T) {
	type args struct {
		Src  []string `cli:"SRC,index:0..*"`
		Dest string   `cli:"DEST,index:0"`
	}
	var a args
	cmd, err := bind.Command("cp", &a)
	require.NoError(t, err)

	p, err := parse.New(cmd)
	require.NoError(t, err)
	_, err = p.Parse([]string{"a", "b", "c"})
	require.NoError(t, err)

	assert.Equal(t, "a", a.Dest)
	assert.Equal(t, []string{"a", "b", "c"}, a.Src)
}

func TestCommand_Subcommands(t *testing.T) {
	type args struct {
		Verbose bool `cli:"-v"`
		Fetch   struct {
			Depth int `cli:"--depth,default:1"`
		} `cmd:"fetch"`
		Push *struct {
			Force bool `cli:"-f --force"`
		} `cmd:"push up"`
	}
	var a args
	cmd, err := bind.Command("git", &a)
	require.NoError(t, err)

	assert.NotNil(t, cmd.Subcommand("fetch"))
	assert.NotNil(t, cmd.Subcommand("push"))
	assert.NotNil(t, cmd.Subcommand("up"))

	p, err := parse.New(cmd)
	require.NoError(t, err)
	res, err := p.Parse([]string{"-v", "push", "--force"})
	require.NoError(t, err)

	assert.True(t, a.Verbose)
	require.NotNil(t, a.Push)
	assert.True(t, a.Push.Force)
	assert.Equal(t, "push", res.Subcommand().Command().Name())

	_, err = p.Parse([]string{"fetch"})
	require.NoError(t, err)
	assert.Equal(t, 1, a.Fetch.Depth)
}

func TestCommand_Embedded(t *testing.T) {
	type common struct {
		Debug bool `cli:"--debug"`
	}
	type args struct {
		common
		Name string `cli:"--name"`
	}
	var a args
	cmd, err := bind.Command("app", &a)
	require.NoError(t, err)

	p, err := parse.New(cmd)
	require.NoError(t, err)
	_, err = p.Parse([]string{"--debug", "--name", "x"})
	require.NoError(t, err)

	assert.True(t, a.Debug)
	assert.Equal(t, "x", a.Name)
}

func TestCommand_TagOptions(t *testing.T) {
	type args struct {
		Items []string `cli:"--items,split:',',arity:1..3"`
		Level string   `cli:"--level,enum:'debug|info|warn',default:info"`
		Help  bool     `cli:"-h --help,help"`
	}
	var a args
	cmd, err := bind.Command("app", &a)
	require.NoError(t, err)

	assert.True(t, cmd.Option("--help").UsageHelp())
	assert.Equal(t,
		[]string{"debug", "info", "warn"}, cmd.Option("--level").Enums(),
	)

	p, err := parse.New(cmd)
	require.NoError(t, err)
	_, err = p.Parse([]string{"--items=a,b"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, a.Items)
	assert.Equal(t, "info", a.Level)
}

func TestCommand_InitialValue(t *testing.T) {
	type args struct {
		Level int `cli:"--level"`
	}
	a := args{Level: 3}
	cmd, err := bind.Command("app", &a)
	require.NoError(t, err)

	p, err := parse.New(cmd)
	require.NoError(t, err)
	_, err = p.Parse([]string{"--level", "7"})
	require.NoError(t, err)
	assert.Equal(t, 7, a.Level)

	// A fresh run without the option restores the declared initial value.
	_, err = p.Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, 3, a.Level)
}

func TestCommand_Errors(t *testing.T) {
	t.Run("non-pointer", func(t *testing.T) {
		_, err := bind.Command("app", struct{}{})
		assert.Error(t, err)
	})

	t.Run("unknown tag option", func(t *testing.T) {
		type args struct {
			X string `cli:"--x,bogus:1"`
		}
		var a args
		_, err := bind.Command("app", &a)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bogus")
	})

	t.Run("multiple positional labels", func(t *testing.T) {
		type args struct {
			X string `cli:"A B"`
		}
		var a args
		_, err := bind.Command("app", &a)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "single label")
	})

	t.Run("scalar subcommand field", func(t *testing.T) {
		type args struct {
			X string `cmd:"x"`
		}
		var a args
		_, err := bind.Command("app", &a)
		assert.Error(t, err)
	})
}

func TestApply_ExistingCommand(t *testing.T) {
	type args struct {
		Force bool `cli:"-f"`
	}
	var a args
	cmd := spec.New("rm")
	require.NoError(t, cmd.AddPositional(spec.NewPositional("FILE")))
	require.NoError(t, bind.Apply(cmd, &a))

	assert.NotNil(t, cmd.Option("-f"))
	assert.Len(t, cmd.Positionals(), 1)
}
