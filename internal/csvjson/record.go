package csvjson

import (
	"bytes"
	"encoding/json"
)

type Field struct {
	Key   string
	Value Value
}

// Record keeps fields in header order so the committed JSON is stable.
type Record []Field

func (r Record) Get(key string) (Value, bool) {
	for _, f := range r {
		if f.Key == key {
			return f.Value, true
		}
	}
	return Value{}, false
}

// set replaces an existing key in place or appends a new one.
func (r Record) set(key string, v Value) Record {
	for i := range r {
		if r[i].Key == key {
			r[i].Value = v
			return r
		}
	}
	return append(r, Field{Key: key, Value: v})
}

func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := encodeString(f.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := f.Value.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Shape returns what gets committed for a section: the first record for a
// singleton section with data, otherwise the full (never nil) list.
func Shape(records []Record, singleton bool) any {
	if singleton && len(records) > 0 {
		return records[0]
	}
	if records == nil {
		return []Record{}
	}
	return records
}

// MarshalPretty renders v with two-space indentation, without HTML escaping
// and without a trailing newline.
func MarshalPretty(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
