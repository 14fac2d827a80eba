package wiredump

import (
	"strconv"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/performancecopilot/wirebuf/bytebuffer"
)

// Record holds the values of one record, in layout order. Integers are held
// as int64 or uint64 depending on their signedness, floats as float64 and
// strings as string.
type Record []interface{}

// Pop pops one record described by layout.
func Pop(b bytebuffer.Buffer, layout Layout) (Record, error) {
	rec := make(Record, 0, len(layout))

	for i, k := range layout {
		v, err := popValue(b, k)
		if err != nil {
			return nil, errors.Wrapf(err, "field %d (%v)", i, k)
		}

		rec = append(rec, v)
	}

	return rec, nil
}

func popValue(b bytebuffer.Buffer, k Kind) (interface{}, error) {
	switch k {
	case Int8Kind:
		v, err := b.PopByte()
		return int64(int8(v)), err
	case Uint8Kind:
		v, err := b.PopByte()
		return uint64(v), err
	case Int16Kind:
		v, err := b.PopInt16()
		return int64(v), err
	case Uint16Kind:
		v, err := b.PopUint16()
		return uint64(v), err
	case Int32Kind:
		v, err := b.PopInt32()
		return int64(v), err
	case Uint32Kind:
		v, err := b.PopUint32()
		return uint64(v), err
	case Float32Kind:
		v, err := b.PopFloat32()
		return float64(v), err
	case Float64Kind:
		return b.PopFloat64()
	case StringKind:
		return b.PopString()
	}

	return nil, errors.Errorf("unknown kind %v", k)
}

// Decode pops records until the buffer has nothing unread. A record cut short
// by the end of the data fails with bytebuffer.ErrUnderflow. If summary is not
// nil every decoded record is added to it.
func Decode(b bytebuffer.Buffer, layout Layout, summary *Summary) ([]Record, error) {
	if len(layout) == 0 {
		return nil, errors.New("empty layout")
	}

	var records []Record
	for b.Unread() > 0 {
		start := b.ReadPos()

		rec, err := Pop(b, layout)
		if err != nil {
			return records, errors.Wrapf(err, "record %d at offset %d", len(records), start)
		}

		if summary != nil {
			summary.Add(b.ReadPos()-start, rec)
		}

		records = append(records, rec)
	}

	logger.Debug("decoded records",
		zap.Int("count", len(records)),
		zap.Stringer("layout", layout),
	)

	return records, nil
}

// Push pushes rec, whose values must have the types Pop produces for layout.
func Push(b bytebuffer.Buffer, layout Layout, rec Record) error {
	if len(rec) != len(layout) {
		return errors.Errorf("record has %d values, layout %d", len(rec), len(layout))
	}

	for i, k := range layout {
		if err := pushValue(b, k, rec[i]); err != nil {
			return errors.Wrapf(err, "field %d (%v)", i, k)
		}
	}

	return nil
}

func pushValue(b bytebuffer.Buffer, k Kind, v interface{}) error {
	switch val := v.(type) {
	case int64:
		switch k {
		case Int8Kind:
			return b.PushByte(byte(val))
		case Int16Kind:
			return b.PushInt16(int16(val))
		case Int32Kind:
			return b.PushInt32(int32(val))
		}
	case uint64:
		switch k {
		case Uint8Kind:
			return b.PushByte(byte(val))
		case Uint16Kind:
			return b.PushUint16(uint16(val))
		case Uint32Kind:
			return b.PushUint32(uint32(val))
		}
	case float64:
		switch k {
		case Float32Kind:
			return b.PushFloat32(float32(val))
		case Float64Kind:
			return b.PushFloat64(val)
		}
	case string:
		if k == StringKind {
			return b.PushString(val)
		}
	}

	return errors.Errorf("cannot push %T as %v", v, k)
}

// ParseValue parses the textual form of a value of kind k, checking that it
// fits the field's width.
func ParseValue(k Kind, s string) (interface{}, error) {
	switch k {
	case Int8Kind:
		return strconv.ParseInt(s, 0, 8)
	case Uint8Kind:
		return strconv.ParseUint(s, 0, 8)
	case Int16Kind:
		return strconv.ParseInt(s, 0, 16)
	case Uint16Kind:
		return strconv.ParseUint(s, 0, 16)
	case Int32Kind:
		return strconv.ParseInt(s, 0, 32)
	case Uint32Kind:
		return strconv.ParseUint(s, 0, 32)
	case Float32Kind:
		return strconv.ParseFloat(s, 32)
	case Float64Kind:
		return strconv.ParseFloat(s, 64)
	case StringKind:
		return s, nil
	}

	return nil, errors.Errorf("unknown kind %v", k)
}

// Encode parses values and pushes them as records of layout. The number of
// values must be a multiple of the layout's length.
func Encode(b bytebuffer.Buffer, layout Layout, values []string) error {
	if len(layout) == 0 {
		return errors.New("empty layout")
	}

	if len(values)%len(layout) != 0 {
		return errors.Errorf("%d values do not make whole records of %d fields", len(values), len(layout))
	}

	for i, s := range values {
		k := layout[i%len(layout)]

		v, err := ParseValue(k, s)
		if err != nil {
			return errors.Wrapf(err, "value %d", i)
		}

		if err = pushValue(b, k, v); err != nil {
			return errors.Wrapf(err, "value %d", i)
		}
	}

	return nil
}
