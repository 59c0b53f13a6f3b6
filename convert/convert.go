// Package convert turns raw command-line strings into typed values. A
// Registry maps a target type to a conversion function; converters for the
// common primitive and value types are installed out of the box, and callers
// can register their own.
//
// A Registry is cloned into each command at construction time, so converters
// registered after a command was built do not affect it. This makes the
// "register before wiring" ordering explicit and testable.
package convert

import (
	"fmt"
	"math/big"
	"net/url"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/deep-rent/cling/util"
	"github.com/google/uuid"
	"golang.org/x/mod/semver"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
)

// Func converts a single raw string into a value of the target type.
type Func func(s string) (any, error)

// Semver is a canonicalized semantic version string such as "v1.2.3".
type Semver string

// Char is a single-character argument value. It is a distinct type because
// rune aliases int32, whose converter parses numbers.
type Char rune

// Registry associates target types with conversion functions.
type Registry struct {
	funcs map[reflect.Type]Func
}

// NewRegistry returns a Registry with converters for the built-in types:
// string, bool, all integer and float widths, []byte, time.Duration,
// time.Time (RFC 3339), uuid.UUID, *url.URL, *regexp.Regexp, *big.Int,
// *big.Float, encoding.Encoding (by IANA charset name), Char, and Semver.
func NewRegistry() *Registry {
	r := &Registry{funcs: make(map[reflect.Type]Func)}
	r.installBuiltins()
	return r
}

// Clone returns an independent copy of the registry.
func (r *Registry) Clone() *Registry {
	c := &Registry{funcs: make(map[reflect.Type]Func, len(r.funcs))}
	for t, fn := range r.funcs {
		c.funcs[t] = fn
	}
	return c
}

// Register associates fn with target type t, replacing any previous
// converter for that type.
func (r *Registry) Register(t reflect.Type, fn Func) {
	r.funcs[t] = fn
}

// Lookup returns the converter registered for t.
func (r *Registry) Lookup(t reflect.Type) (Func, bool) {
	fn, ok := r.funcs[t]
	return fn, ok
}

// Types returns the target types with a registered converter, in
// unspecified order.
func (r *Registry) Types() []reflect.Type {
	return util.Keys(r.funcs)
}

// Convert parses raw into a value of type t using the registered converter.
// The returned error names the offending value and target type and wraps
// the underlying parse failure.
func (r *Registry) Convert(t reflect.Type, raw string) (any, error) {
	fn, ok := r.funcs[t]
	if !ok {
		return nil, fmt.Errorf("convert: no converter registered for type %s", t)
	}
	v, err := fn(raw)
	if err != nil {
		return nil, fmt.Errorf("convert: cannot convert %q to %s: %w", raw, t, err)
	}
	return v, nil
}

// TypeOf returns the reflect.Type of T. It reads better than
// reflect.TypeOf at registration call sites.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Register associates fn with type T in the registry, wrapping its typed
// result.
func Register[T any](r *Registry, fn func(s string) (T, error)) {
	r.Register(TypeOf[T](), func(s string) (any, error) {
		return fn(s)
	})
}

// MatchEnum resolves raw against the allowed constant names. Matching is
// exact first; if insensitive is set, a case-insensitive match is accepted
// as a fallback. The canonical spelling is returned.
func MatchEnum(values []string, raw string, insensitive bool) (string, error) {
	for _, v := range values {
		if v == raw {
			return v, nil
		}
	}
	if insensitive {
		for _, v := range values {
			if strings.EqualFold(v, raw) {
				return v, nil
			}
		}
	}
	return "", fmt.Errorf(
		"expected one of %s, got %q", strings.Join(values, ", "), raw,
	)
}

// SplitPair divides a map-shaped argument at the first unescaped '=' into
// its key and value parts. A literal '=' can be escaped as '\='.
func SplitPair(s string) (key, value string, err error) {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' && i+1 < len(s) && s[i+1] == '=' {
			b.WriteByte('=')
			i++
			continue
		}
		if c == '=' {
			return b.String(), strings.ReplaceAll(s[i+1:], `\=`, "="), nil
		}
		b.WriteByte(c)
	}
	return "", "", fmt.Errorf("expected KEY=VALUE, got %q", s)
}

func (r *Registry) installBuiltins() {
	Register(r, func(s string) (string, error) { return s, nil })
	Register(r, strconv.ParseBool)
	Register(r, func(s string) ([]byte, error) { return []byte(s), nil })

	registerInt[int](r)
	registerInt[int8](r)
	registerInt[int16](r)
	registerInt[int32](r)
	registerInt[int64](r)
	registerUint[uint](r)
	registerUint[uint8](r)
	registerUint[uint16](r)
	registerUint[uint32](r)
	registerUint[uint64](r)
	registerFloat[float32](r)
	registerFloat[float64](r)

	Register(r, time.ParseDuration)
	Register(r, func(s string) (time.Time, error) {
		return time.Parse(time.RFC3339, s)
	})
	Register(r, uuid.Parse)
	Register(r, url.Parse)
	Register(r, regexp.Compile)
	Register(r, func(s string) (*big.Int, error) {
		n, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return nil, fmt.Errorf("invalid integer %q", s)
		}
		return n, nil
	})
	Register(r, func(s string) (*big.Float, error) {
		f, _, err := big.ParseFloat(s, 10, big.MaxPrec, big.ToNearestEven)
		return f, err
	})
	Register(r, func(s string) (encoding.Encoding, error) {
		enc, err := ianaindex.IANA.Encoding(s)
		if err != nil {
			return nil, err
		}
		if enc == nil {
			return nil, fmt.Errorf("unsupported charset %q", s)
		}
		return enc, nil
	})
	Register(r, func(s string) (Char, error) {
		runes := []rune(s)
		if len(runes) != 1 {
			return 0, fmt.Errorf("expected a single character, got %d", len(runes))
		}
		return Char(runes[0]), nil
	})
	Register(r, func(s string) (Semver, error) {
		v := s
		if !strings.HasPrefix(v, "v") {
			v = "v" + v
		}
		if !semver.IsValid(v) {
			return "", fmt.Errorf("invalid semantic version %q", s)
		}
		return Semver(semver.Canonical(v)), nil
	})
}

func registerInt[T int | int8 | int16 | int32 | int64](r *Registry) {
	bits := int(TypeOf[T]().Bits())
	Register(r, func(s string) (T, error) {
		n, err := strconv.ParseInt(s, 10, bits)
		return T(n), err
	})
}

func registerUint[T uint | uint8 | uint16 | uint32 | uint64](r *Registry) {
	bits := int(TypeOf[T]().Bits())
	Register(r, func(s string) (T, error) {
		n, err := strconv.ParseUint(s, 10, bits)
		return T(n), err
	})
}

func registerFloat[T float32 | float64](r *Registry) {
	bits := int(TypeOf[T]().Bits())
	Register(r, func(s string) (T, error) {
		f, err := strconv.ParseFloat(s, bits)
		return T(f), err
	})
}
