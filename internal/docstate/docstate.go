// Package docstate is a small key/value document reducer.
//
// It gives the command line tool and end-to-end tests a realistic state to
// wrap with undoable: field edits change the content, selection changes do
// not, which is what history filters usually separate.
package docstate

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/dshills/undoable/internal/undoable"
)

// Action types handled by Reduce.
const (
	SetType    = "doc/set"
	DeleteType = "doc/delete"
	ClearType  = "doc/clear"
	SelectType = "doc/select"
)

// Document is the reduced state.
// Documents are values; Reduce never mutates its input.
type Document struct {
	Fields    map[string]string `json:"fields,omitempty"`
	Selection string            `json:"selection,omitempty"`
	Revision  int               `json:"revision"`
}

// Empty returns an empty document.
func Empty() Document {
	return Document{}
}

// Get returns the value of a field.
func (d Document) Get(key string) (string, bool) {
	v, ok := d.Fields[key]
	return v, ok
}

// Keys returns the field names in sorted order.
func (d Document) Keys() []string {
	return slices.Sorted(maps.Keys(d.Fields))
}

// String renders the document as "key=value" pairs.
func (d Document) String() string {
	parts := make([]string, 0, len(d.Fields))
	for _, k := range d.Keys() {
		parts = append(parts, k+"="+d.Fields[k])
	}
	s := "{" + strings.Join(parts, " ") + "}"
	if d.Selection != "" {
		s += " @" + d.Selection
	}
	return s
}

// Reduce applies action to d. Unknown actions and malformed payloads
// return d unchanged.
func Reduce(d Document, action undoable.Action, _ struct{}) Document {
	switch action.Type {
	case SetType:
		key, ok := payloadString(action.Payload, "key")
		if !ok || key == "" {
			return d
		}
		value, _ := payloadString(action.Payload, "value")
		if cur, exists := d.Fields[key]; exists && cur == value {
			return d
		}
		next := d.clone()
		next.Fields[key] = value
		next.Revision++
		return next

	case DeleteType:
		key, ok := payloadString(action.Payload, "key")
		if !ok {
			return d
		}
		if _, exists := d.Fields[key]; !exists {
			return d
		}
		next := d.clone()
		delete(next.Fields, key)
		if next.Selection == key {
			next.Selection = ""
		}
		next.Revision++
		return next

	case ClearType:
		if len(d.Fields) == 0 {
			return d
		}
		return Document{Revision: d.Revision + 1}

	case SelectType:
		key, _ := payloadString(action.Payload, "key")
		if key == d.Selection {
			return d
		}
		next := d.clone()
		next.Selection = key
		return next

	default:
		return d
	}
}

// Set returns a set action.
func Set(key, value string) undoable.Action {
	return undoable.Action{Type: SetType, Payload: map[string]any{"key": key, "value": value}}
}

// Delete returns a delete action.
func Delete(key string) undoable.Action {
	return undoable.Action{Type: DeleteType, Payload: map[string]any{"key": key}}
}

// Clear returns a clear action.
func Clear() undoable.Action {
	return undoable.Action{Type: ClearType}
}

// Select returns a select action.
func Select(key string) undoable.Action {
	return undoable.Action{Type: SelectType, Payload: map[string]any{"key": key}}
}

// LuaValue converts a document into the shape filter scripts see:
// {fields = {...}, selection = "...", revision = n}.
func LuaValue(d Document) any {
	fields := make(map[string]any, len(d.Fields))
	for k, v := range d.Fields {
		fields[k] = v
	}
	return map[string]any{
		"fields":    fields,
		"selection": d.Selection,
		"revision":  d.Revision,
	}
}

func (d Document) clone() Document {
	next := d
	next.Fields = make(map[string]string, len(d.Fields)+1)
	maps.Copy(next.Fields, d.Fields)
	return next
}

// payloadString reads a string field from a decoded JSON object payload.
func payloadString(payload any, key string) (string, bool) {
	m, ok := payload.(map[string]any)
	if !ok {
		return "", false
	}
	v, ok := m[key]
	if !ok || v == nil {
		return "", false
	}
	switch s := v.(type) {
	case string:
		return s, true
	default:
		return fmt.Sprint(s), true
	}
}
