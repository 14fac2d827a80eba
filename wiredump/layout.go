// Package wiredump decodes and encodes flat binary messages given the list of
// the kinds of their fields.
//
// A layout such as "i32,str,f64" describes one record. The layout is never
// written to the wire: both ends have to agree on it, and decoding with the
// wrong one yields garbage rather than an error.
//
// the cli application lives in cmd/wiredump, to try it out,
//
// ```
// go get github.com/performancecopilot/wirebuf/wiredump/cmd/wiredump
// ```
package wiredump

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Kind is the type of one field
type Kind int

// values for Kind
const (
	Int8Kind Kind = iota
	Uint8Kind
	Int16Kind
	Uint16Kind
	Int32Kind
	Uint32Kind
	Float32Kind
	Float64Kind
	StringKind
)

var kindNames = [...]string{
	Int8Kind:    "i8",
	Uint8Kind:   "u8",
	Int16Kind:   "i16",
	Uint16Kind:  "u16",
	Int32Kind:   "i32",
	Uint32Kind:  "u32",
	Float32Kind: "f32",
	Float64Kind: "f64",
	StringKind:  "str",
}

// kinds maps every accepted spelling, including the C names of the types, to
// a Kind.
var kinds = map[string]Kind{
	"i8": Int8Kind, "int8": Int8Kind, "int8_t": Int8Kind, "char": Int8Kind,
	"u8": Uint8Kind, "uint8": Uint8Kind, "uint8_t": Uint8Kind, "byte": Uint8Kind,
	"i16": Int16Kind, "int16": Int16Kind, "int16_t": Int16Kind,
	"u16": Uint16Kind, "uint16": Uint16Kind, "uint16_t": Uint16Kind,
	"i32": Int32Kind, "int32": Int32Kind, "int32_t": Int32Kind,
	"u32": Uint32Kind, "uint32": Uint32Kind, "uint32_t": Uint32Kind,
	"f32": Float32Kind, "float32": Float32Kind, "float": Float32Kind,
	"f64": Float64Kind, "float64": Float64Kind, "double": Float64Kind,
	"str": StringKind, "string": StringKind, "char*": StringKind,
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}

	return kindNames[k]
}

// Layout is the ordered list of field kinds of a record.
type Layout []Kind

func (l Layout) String() string {
	names := make([]string, len(l))
	for i, k := range l {
		names[i] = k.String()
	}

	return strings.Join(names, ",")
}

// ParseLayout parses a comma separated list of kinds.
func ParseLayout(s string) (Layout, error) {
	if strings.TrimSpace(s) == "" {
		return nil, errors.New("empty layout")
	}

	fields := strings.Split(s, ",")
	layout := make(Layout, 0, len(fields))

	for i, f := range fields {
		k, ok := kinds[strings.ToLower(strings.TrimSpace(f))]
		if !ok {
			return nil, errors.Errorf("field %d: unsupported type %q", i, strings.TrimSpace(f))
		}

		layout = append(layout, k)
	}

	return layout, nil
}
