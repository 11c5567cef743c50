// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Field is one member of an OrderedObject.
type Field struct {
	Key   string
	Value any
}

// OrderedObject is a JSON object that keeps its members in wire order.
// Nested objects decode as *OrderedObject, arrays as []any and numbers as
// json.Number.
type OrderedObject struct {
	Fields []Field
}

// Get returns the value of the first member named key.
func (o *OrderedObject) Get(key string) (any, bool) {
	for _, f := range o.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Keys lists member names in order.
func (o *OrderedObject) Keys() []string {
	keys := make([]string, 0, len(o.Fields))
	for _, f := range o.Fields {
		keys = append(keys, f.Key)
	}
	return keys
}

// Set replaces the value of key, or appends it when absent.
func (o *OrderedObject) Set(key string, value any) {
	for i := range o.Fields {
		if o.Fields[i].Key == key {
			o.Fields[i].Value = value
			return
		}
	}
	o.Fields = append(o.Fields, Field{Key: key, Value: value})
}

// MarshalJSON encodes the members in order. It has a value receiver so that
// plain OrderedObject values marshal the same way as pointers.
func (o OrderedObject) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range o.Fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object keeping member order.
func (o *OrderedObject) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("ordered object: expected '{', got %v", tok)
	}

	obj, err := decodeObject(dec)
	if err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errors.New("ordered object: trailing data")
	}

	o.Fields = obj.Fields
	return nil
}

// decodeObject reads members up to and including the closing '}'.
func decodeObject(dec *json.Decoder) (*OrderedObject, error) {
	obj := &OrderedObject{Fields: []Field{}}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("ordered object: expected key, got %v", tok)
		}
		value, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		obj.Fields = append(obj.Fields, Field{Key: key, Value: value})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return obj, nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}

	switch delim {
	case '{':
		return decodeObject(dec)
	case '[':
		items := []any{}
		for dec.More() {
			item, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return items, nil
	default:
		return nil, fmt.Errorf("ordered object: unexpected %v", delim)
	}
}
