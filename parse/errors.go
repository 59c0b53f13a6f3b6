package parse

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/deep-rent/cling/spec"
)

// Error is implemented by every parse failure. It identifies the command
// level at which the failure occurred, so callers can print the usage text
// of the right command.
type Error interface {
	error
	// Command returns the command level the input violated.
	Command() *spec.Command
}

// level carries the failing command; it is embedded by all error types.
type level struct {
	cmd *spec.Command
}

func (l level) Command() *spec.Command { return l.cmd }

func at(cmd *spec.Command) level { return level{cmd: cmd} }

// MissingError reports required arguments that were not matched, or an
// option given fewer values than its arity demands.
type MissingError struct {
	level
	// Missing describes the absent arguments.
	Missing []string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf(
		"%s: missing required argument(s): %s",
		e.cmd.QualifiedName(), strings.Join(e.Missing, ", "),
	)
}

// MaxValuesError reports an argument given more values than its arity
// allows.
type MaxValuesError struct {
	level
	// Name of the offending argument.
	Name string
	// Max is the upper arity bound.
	Max int
	// Got is the number of values supplied.
	Got int
}

func (e *MaxValuesError) Error() string {
	return fmt.Sprintf(
		"%s: %s accepts at most %d values, got %d",
		e.cmd.QualifiedName(), e.Name, e.Max, e.Got,
	)
}

// OverwriteError reports a single-value option that was specified more
// than once while overwriting is not permitted.
type OverwriteError struct {
	level
	// Name of the repeated option.
	Name string
}

func (e *OverwriteError) Error() string {
	return fmt.Sprintf(
		"%s: option %s was specified more than once",
		e.cmd.QualifiedName(), e.Name,
	)
}

// UnmatchedError reports tokens that satisfy no option, positional, or
// subcommand rule.
type UnmatchedError struct {
	level
	// Tokens are the offending input tokens.
	Tokens []string
	// Suggestions are known names ranked by similarity to the first
	// offending token.
	Suggestions []string
}

func (e *UnmatchedError) Error() string {
	msg := fmt.Sprintf(
		"%s: unmatched argument(s): %s",
		e.cmd.QualifiedName(), strings.Join(e.Tokens, ", "),
	)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(
			" (did you mean %s?)", strings.Join(e.Suggestions, " or "),
		)
	}
	return msg
}

// ConversionError reports a matched value that could not be converted to
// its declared type. It wraps the underlying parse failure.
type ConversionError struct {
	level
	// Name of the argument whose value failed to convert.
	Name string
	// Value is the offending raw string.
	Value string
	// Target is the declared element type.
	Target reflect.Type
	cause  error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf(
		"%s: invalid value %q for %s: %v",
		e.cmd.QualifiedName(), e.Value, e.Name, e.cause,
	)
}

// Unwrap returns the underlying conversion failure.
func (e *ConversionError) Unwrap() error { return e.cause }

// ParameterError reports a grammar violation not covered by a more
// specific type, such as an interactive argument without a prompter.
type ParameterError struct {
	level
	// Msg describes the violation.
	Msg string
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("%s: %s", e.cmd.QualifiedName(), e.Msg)
}

// Errors aggregates the violations gathered in collect-errors mode.
type Errors []error

func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "\n")
}

// Unwrap exposes the individual violations to errors.Is and errors.As.
func (e Errors) Unwrap() []error { return e }

// collector implements the two traversal strategies over the same scan:
// fail-fast returns the violation for immediate propagation, collect mode
// accumulates it and lets the scan continue.
type collector struct {
	collect bool
	errs    []error
}

func (c *collector) add(err error) error {
	if err == nil {
		return nil
	}
	if c.collect {
		c.errs = append(c.errs, err)
		return nil
	}
	return err
}
