package powerkit

import (
	"bytes"
	"encoding/binary"
	"math"
	"reflect"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// ============================================================================
// Map serialization
// ============================================================================

// Serialized maps start with "PKM1\x00" followed by one tagged value.
var serialHdr = []byte{'P', 'K', 'M', '1', 0x00}

// Value tags. Containers carry a u32 big-endian count, strings and bytes
// a u32 big-endian length.
const (
	tagNull    byte = 0x00
	tagString  byte = 0x01
	tagBytes   byte = 0x02
	tagList    byte = 0x03
	tagMap     byte = 0x04
	tagBoolean byte = 0x05
	tagInteger byte = 0x06 // int64 big-endian
	tagFloat   byte = 0x07 // IEEE-754 float64 big-endian
)

// maxDepth bounds container nesting on both encode and decode.
const maxDepth = 64

// Serialize encodes the map content. Equal content always yields equal
// bytes since map keys are written in byte order.
func (m *Map) Serialize() ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(serialHdr)
	if err := encodeMap(&buf, m.data, 0); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Deserialize replaces the map content with the decoded data. On error
// the map is left unchanged.
func (m *Map) Deserialize(data []byte) error {
	if !bytes.HasPrefix(data, serialHdr) {
		return errors.Wrap(ErrDecode, "bad header")
	}
	off := len(serialHdr)
	if off >= len(data) || data[off] != tagMap {
		return errors.Wrap(ErrDecode, "root value is not a map")
	}
	root, end, err := decodeValue(data, off, 0)
	if err != nil {
		return err
	}
	if end != len(data) {
		return errors.Wrap(ErrDecode, "trailing bytes after root value")
	}
	m.data = root.(map[string]any)
	return nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (m *Map) MarshalBinary() ([]byte, error) {
	return m.Serialize()
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (m *Map) UnmarshalBinary(data []byte) error {
	return m.Deserialize(data)
}

func encodeValue(buf *bytes.Buffer, v any, depth int) error {
	switch val := v.(type) {
	case nil:
		buf.WriteByte(tagNull)
	case string:
		return encodeString(buf, val)
	case []byte:
		buf.WriteByte(tagBytes)
		writeU32BE(buf, uint32(len(val)))
		buf.Write(val)
	case bool:
		buf.WriteByte(tagBoolean)
		if val {
			buf.WriteByte(0x01)
		} else {
			buf.WriteByte(0x00)
		}
	case int:
		encodeInteger(buf, int64(val))
	case int8:
		encodeInteger(buf, int64(val))
	case int16:
		encodeInteger(buf, int64(val))
	case int32:
		encodeInteger(buf, int64(val))
	case int64:
		encodeInteger(buf, val)
	case uint8:
		encodeInteger(buf, int64(val))
	case uint16:
		encodeInteger(buf, int64(val))
	case uint32:
		encodeInteger(buf, int64(val))
	case uint:
		if uint64(val) > math.MaxInt64 {
			return errors.Wrap(ErrEncode, "integer overflows int64")
		}
		encodeInteger(buf, int64(val))
	case uint64:
		if val > math.MaxInt64 {
			return errors.Wrap(ErrEncode, "integer overflows int64")
		}
		encodeInteger(buf, int64(val))
	case float32:
		encodeFloat(buf, float64(val))
	case float64:
		encodeFloat(buf, val)
	case []any:
		if depth+1 > maxDepth {
			return errors.Wrap(ErrEncode, "nesting too deep")
		}
		buf.WriteByte(tagList)
		writeU32BE(buf, uint32(len(val)))
		for _, item := range val {
			if err := encodeValue(buf, item, depth+1); err != nil {
				return err
			}
		}
	case map[string]any:
		return encodeMap(buf, val, depth)
	case Mapping:
		return encodeMap(buf, val, depth)
	case *Map:
		return encodeMap(buf, val.data, depth)
	case *PowerString:
		return encodeString(buf, val.String())
	default:
		return encodeReflect(buf, v, depth)
	}
	return nil
}

// encodeReflect handles typed slices and string-keyed maps such as
// []string or map[string]int.
func encodeReflect(buf *bytes.Buffer, v any, depth int) error {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		items := make([]any, rv.Len())
		for i := range items {
			items[i] = rv.Index(i).Interface()
		}
		return encodeValue(buf, items, depth)
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return errors.Wrapf(ErrEncode, "map key type %s", rv.Type().Key())
		}
		entries := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			entries[iter.Key().String()] = iter.Value().Interface()
		}
		return encodeMap(buf, entries, depth)
	case reflect.String:
		return encodeString(buf, rv.String())
	}
	return errors.Wrapf(ErrEncode, "type %T", v)
}

func encodeMap(buf *bytes.Buffer, entries map[string]any, depth int) error {
	if depth+1 > maxDepth {
		return errors.Wrap(ErrEncode, "nesting too deep")
	}
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	// Go string comparison is byte-wise, which is the order decode enforces.
	slices.SortFunc(keys, strings.Compare)
	buf.WriteByte(tagMap)
	writeU32BE(buf, uint32(len(keys)))
	for _, k := range keys {
		if err := encodeString(buf, k); err != nil {
			return err
		}
		if err := encodeValue(buf, entries[k], depth+1); err != nil {
			return err
		}
	}
	return nil
}

func encodeString(buf *bytes.Buffer, s string) error {
	if !utf8.ValidString(s) {
		return errors.Wrap(ErrEncode, "invalid UTF-8 string")
	}
	buf.WriteByte(tagString)
	writeU32BE(buf, uint32(len(s)))
	buf.WriteString(s)
	return nil
}

func encodeInteger(buf *bytes.Buffer, n int64) {
	buf.WriteByte(tagInteger)
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(n))
	buf.Write(b[:])
}

func encodeFloat(buf *bytes.Buffer, f float64) {
	buf.WriteByte(tagFloat)
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], math.Float64bits(f))
	buf.Write(b[:])
}

func writeU32BE(buf *bytes.Buffer, n uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], n)
	buf.Write(b[:])
}

// decodeValue decodes one value at off and returns it with the offset
// just past it.
func decodeValue(buf []byte, off int, depth int) (any, int, error) {
	if off >= len(buf) {
		return nil, off, errors.Wrap(ErrDecode, "truncated tag")
	}
	tag := buf[off]
	off++

	switch tag {
	case tagNull:
		return nil, off, nil

	case tagString:
		raw, newOff, err := readPayload(buf, off)
		if err != nil {
			return nil, off, err
		}
		if !utf8.Valid(raw) {
			return nil, off, errors.Wrap(ErrDecode, "invalid UTF-8 string")
		}
		return string(raw), newOff, nil

	case tagBytes:
		raw, newOff, err := readPayload(buf, off)
		if err != nil {
			return nil, off, err
		}
		return bytes.Clone(raw), newOff, nil

	case tagBoolean:
		if off >= len(buf) {
			return nil, off, errors.Wrap(ErrDecode, "truncated boolean")
		}
		switch buf[off] {
		case 0x00:
			return false, off + 1, nil
		case 0x01:
			return true, off + 1, nil
		}
		return nil, off, errors.Wrap(ErrDecode, "invalid boolean payload")

	case tagInteger:
		if off+8 > len(buf) {
			return nil, off, errors.Wrap(ErrDecode, "truncated integer")
		}
		return int(int64(binary.BigEndian.Uint64(buf[off : off+8]))), off + 8, nil

	case tagFloat:
		if off+8 > len(buf) {
			return nil, off, errors.Wrap(ErrDecode, "truncated float")
		}
		return math.Float64frombits(binary.BigEndian.Uint64(buf[off : off+8])), off + 8, nil

	case tagList:
		if depth+1 > maxDepth {
			return nil, off, errors.Wrap(ErrDecode, "nesting too deep")
		}
		count, newOff, err := readU32BE(buf, off)
		if err != nil {
			return nil, off, err
		}
		off = newOff
		// Every element takes at least one byte.
		if int(count) > len(buf)-off {
			return nil, off, errors.Wrap(ErrDecode, "list count exceeds input")
		}
		items := make([]any, 0, count)
		for i := uint32(0); i < count; i++ {
			item, next, err := decodeValue(buf, off, depth+1)
			if err != nil {
				return nil, off, err
			}
			off = next
			items = append(items, item)
		}
		return items, off, nil

	case tagMap:
		if depth+1 > maxDepth {
			return nil, off, errors.Wrap(ErrDecode, "nesting too deep")
		}
		count, newOff, err := readU32BE(buf, off)
		if err != nil {
			return nil, off, err
		}
		off = newOff
		// Every entry takes at least a key tag, a key length and a value tag.
		if int(count) > (len(buf)-off)/6 {
			return nil, off, errors.Wrap(ErrDecode, "map count exceeds input")
		}
		entries := make(map[string]any, count)
		prevKey := ""
		for i := uint32(0); i < count; i++ {
			if off >= len(buf) || buf[off] != tagString {
				return nil, off, errors.Wrap(ErrDecode, "map key must be a string")
			}
			k, next, err := decodeValue(buf, off, depth+1)
			if err != nil {
				return nil, off, err
			}
			off = next
			key := k.(string)
			if i > 0 {
				switch c := strings.Compare(prevKey, key); {
				case c == 0:
					return nil, off, errors.Wrapf(ErrDecode, "duplicate key %q", key)
				case c > 0:
					return nil, off, errors.Wrapf(ErrDecode, "key %q out of order", key)
				}
			}
			prevKey = key

			v, next, err := decodeValue(buf, off, depth+1)
			if err != nil {
				return nil, off, err
			}
			off = next
			entries[key] = v
		}
		return entries, off, nil
	}
	return nil, off, errors.Wrapf(ErrDecode, "unknown tag 0x%02x", tag)
}

func readPayload(buf []byte, off int) ([]byte, int, error) {
	n, off, err := readU32BE(buf, off)
	if err != nil {
		return nil, off, err
	}
	if uint64(off)+uint64(n) > uint64(len(buf)) {
		return nil, off, errors.Wrap(ErrDecode, "truncated payload")
	}
	end := off + int(n)
	return buf[off:end], end, nil
}

func readU32BE(buf []byte, off int) (uint32, int, error) {
	if off+4 > len(buf) {
		return 0, off, errors.Wrap(ErrDecode, "truncated length")
	}
	return binary.BigEndian.Uint32(buf[off : off+4]), off + 4, nil
}
