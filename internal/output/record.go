package output

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/jmylchreest/tablewash/pkg/table"

	"gopkg.in/yaml.v3"
)

// Record is one table row with its column names, in column order.
// Values are string, float64 or nil for a missing cell.
type Record struct {
	Names  []string
	Values []any
}

// RecordFromRow pairs column names with the row's cell values.
func RecordFromRow(names []string, row []table.Cell) Record {
	values := make([]any, len(row))
	for i, c := range row {
		values[i] = c.Value()
	}
	return Record{Names: names, Values: values}
}

// Strings renders each value as delimited text stores it.
func (r Record) Strings() []string {
	out := make([]string, len(r.Values))
	for i, v := range r.Values {
		switch v := v.(type) {
		case nil:
			out[i] = ""
		case string:
			out[i] = v
		case float64:
			out[i] = table.FormatNumber(v)
		default:
			out[i] = fmt.Sprint(v)
		}
	}
	return out
}

// MarshalJSON encodes the record as an object with keys in column order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range r.Names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(r.Values[i])
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML encodes the record as a mapping with keys in column order.
func (r Record) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for i, name := range r.Names {
		var key, val yaml.Node
		if err := key.Encode(name); err != nil {
			return nil, err
		}
		if err := val.Encode(r.Values[i]); err != nil {
			return nil, fmt.Errorf("column %q: %w", name, err)
		}
		node.Content = append(node.Content, &key, &val)
	}
	return node, nil
}
