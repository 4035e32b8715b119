package source

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/theirongolddev/cashflow90/internal/model"
)

var (
	dateType = reflect.TypeOf(model.Date{})
	timeType = reflect.TypeOf(time.Time{})
)

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	model.DateLayout,
}

// Decode copies a row into out, matching columns to json tags. Numeric
// columns are converted loosely, text dates become model.Date, and JSON text
// columns are unpacked into maps.
func Decode(row Row, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			dateHook,
			timeHook,
			jsonTextHook,
		),
		Result: out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(map[string]any(row))
}

func dateHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if to != dateType {
		return data, nil
	}
	switch v := data.(type) {
	case string:
		if v == "" {
			return model.Date{}, nil
		}
		return model.ParseDate(v)
	case []byte:
		return model.ParseDate(string(v))
	case time.Time:
		return model.DateOf(v), nil
	default:
		return data, nil
	}
}

func timeHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if to != timeType {
		return data, nil
	}
	var s string
	switch v := data.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return data, nil
	}
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return nil, fmt.Errorf("unrecognized timestamp %q", s)
}

func jsonTextHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if to.Kind() != reflect.Map {
		return data, nil
	}
	var raw []byte
	switch v := data.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return data, nil
	}
	if len(raw) == 0 {
		return map[string]any{}, nil
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("decoding json column: %w", err)
	}
	return m, nil
}

// Encode flattens a tagged struct into a Row using its JSON form. Dates
// become "YYYY-MM-DD" strings and nested maps stay as maps.
func Encode(v any) (Row, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var row Row
	if err := json.Unmarshal(b, &row); err != nil {
		return nil, err
	}
	return row, nil
}

// EncodeAll encodes every element of items.
func EncodeAll[T any](items []T) ([]Row, error) {
	rows := make([]Row, 0, len(items))
	for _, it := range items {
		row, err := Encode(it)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Columns returns the row's keys in sorted order.
func (r Row) Columns() []string {
	cols := make([]string, 0, len(r))
	for k := range r {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}
