// Package jsonx holds JSON helpers for documents whose clients send more
// than the server models: an extras bag that round-trips unknown object
// members, and a number type that accepts numeric strings.
package jsonx

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
)

// Extras holds object members a type does not model explicitly.
type Extras map[string]json.RawMessage

// Merge returns a copy of e with patch applied on top. A null member in
// patch deletes the key.
func (e Extras) Merge(patch Extras) Extras {
	if len(e) == 0 && len(patch) == 0 {
		return nil
	}
	out := make(Extras, len(e)+len(patch))
	for k, v := range e {
		out[k] = v
	}
	for k, v := range patch {
		if bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			delete(out, k)
			continue
		}
		out[k] = v
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Capture returns the members of the JSON object data that are not fields
// of v's struct type. A non-object document yields no extras.
func Capture(data []byte, v any) (Extras, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, nil
	}

	var members map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &members); err != nil {
		return nil, err
	}

	known := fieldNames(reflect.TypeOf(v))
	var extras Extras
	for k, raw := range members {
		if _, ok := known[k]; ok {
			continue
		}
		if extras == nil {
			extras = make(Extras)
		}
		extras[k] = raw
	}
	return extras, nil
}

// Marshal encodes v and appends extras whose keys v does not already
// encode. Extras are written in key order.
func Marshal(v any, extras Extras) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if len(extras) == 0 {
		return data, nil
	}
	if len(data) < 2 || data[0] != '{' || data[len(data)-1] != '}' {
		return nil, fmt.Errorf("jsonx: %T does not encode as an object", v)
	}

	known := fieldNames(reflect.TypeOf(v))
	keys := make([]string, 0, len(extras))
	for k := range extras {
		if _, ok := known[k]; ok {
			continue
		}
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return data, nil
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.Write(data[:len(data)-1])
	needComma := len(bytes.TrimSpace(data[1:len(data)-1])) > 0
	for _, k := range keys {
		if needComma {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(extras[k])
		needComma = true
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

var fieldCache sync.Map // reflect.Type -> map[string]struct{}

// fieldNames returns the JSON member names encoded for struct type t.
func fieldNames(t reflect.Type) map[string]struct{} {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return map[string]struct{}{}
	}
	if cached, ok := fieldCache.Load(t); ok {
		return cached.(map[string]struct{})
	}

	names := make(map[string]struct{})
	collectFields(t, names)
	fieldCache.Store(t, names)
	return names
}

func collectFields(t reflect.Type, names map[string]struct{}) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := f.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")
		if f.Anonymous && name == "" {
			ft := f.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				collectFields(ft, names)
				continue
			}
		}
		if !f.IsExported() {
			continue
		}
		if name == "" {
			name = f.Name
		}
		names[name] = struct{}{}
	}
}
