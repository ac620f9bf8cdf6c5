// Package api is the HTTP client for the text-to-SQL backend.
//
// The backend exposes two JSON-over-POST endpoints: /generate-sql turns a
// natural-language question into a candidate query plus a free-text
// validation verdict, and /execute-sql runs a query and returns its rows.
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// GenerateRequest is the body of a generation request.
type GenerateRequest struct {
	Question string `json:"question"`
}

// Generation is the backend's answer to a question.
type Generation struct {
	SQLQuery         string `json:"sql_query"`
	ValidationResult string `json:"validation_result"`
}

// ExecuteRequest is the body of an execution request.
type ExecuteRequest struct {
	Query string `json:"query"`
}

// Execution holds the rows returned by an execution request.
type Execution struct {
	Data []Row `json:"data"`
}

// Row is one record of an execution result. Unlike a plain map it remembers
// the order in which columns arrived on the wire, which is the order the
// results table uses for its header.
type Row struct {
	keys   []string
	values map[string]any
}

// Set stores value under key. A new key is appended to the column order; an
// existing key keeps its position.
func (r *Row) Set(key string, value any) {
	if r.values == nil {
		r.values = make(map[string]any)
	}
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Get returns the value stored under key.
func (r Row) Get(key string) (any, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Keys returns the column names in wire order.
func (r Row) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// UnmarshalJSON decodes a JSON object, keeping key order. Numbers are kept as
// json.Number so they render exactly as the backend sent them; nested objects
// and arrays are kept as compacted json.RawMessage so their key order
// survives too. A null row is an error.
func (r *Row) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("decode row: %w", err)
	}
	if tok == nil {
		return errors.New("decode row: row is null")
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("decode row: expected object, got %v", tok)
	}

	var row Row
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("decode row: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("decode row: unexpected key %v", keyTok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("decode row column %q: %w", key, err)
		}
		value, err := decodeValue(raw)
		if err != nil {
			return fmt.Errorf("decode row column %q: %w", key, err)
		}
		row.Set(key, value)
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("decode row: %w", err)
	}

	*r = row
	return nil
}

// decodeValue turns one column value into a scalar, or a compacted
// json.RawMessage for objects and arrays.
func decodeValue(raw json.RawMessage) (any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		var buf bytes.Buffer
		if err := json.Compact(&buf, trimmed); err != nil {
			return nil, err
		}
		return json.RawMessage(buf.Bytes()), nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, err
	}
	return value, nil
}
