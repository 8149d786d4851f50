// Package wire decodes the response shapes served by the dashboard's backends.
//
// Backends are inconsistent about nesting: some return a bare array or object,
// most wrap the payload as {"data": ...}, and a few wrap it twice as
// {"data": {"data": ..., "meta": ...}}. Unwrap names the variant it found and
// rejects anything else instead of guessing.
package wire

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// Shape identifies which response variant a body matched.
type Shape int

const (
	ShapeUnknown Shape = iota
	ShapeBareArray
	ShapeBareObject
	ShapeEnvelope
	ShapeDoubleEnvelope
)

func (s Shape) String() string {
	switch s {
	case ShapeBareArray:
		return "bare-array"
	case ShapeBareObject:
		return "bare-object"
	case ShapeEnvelope:
		return "envelope"
	case ShapeDoubleEnvelope:
		return "double-envelope"
	default:
		return "unknown"
	}
}

var (
	// ErrUnrecognizedShape is returned for bodies matching no known variant.
	ErrUnrecognizedShape = errors.New("unrecognized response shape")
	// ErrUnexpectedPayload is returned when the payload is an object where a list
	// was expected, or the reverse.
	ErrUnexpectedPayload = errors.New("unexpected payload kind")
)

// Payload is an unwrapped response body.
type Payload struct {
	Shape Shape
	Data  gjson.Result
	// Meta is the sibling "meta" object; Meta.Exists() is false when absent.
	Meta gjson.Result
}

// Unwrap classifies raw into one of the named shapes.
func Unwrap(raw []byte) (Payload, error) {
	if !gjson.ValidBytes(raw) {
		return Payload{}, fmt.Errorf("%w: invalid JSON", ErrUnrecognizedShape)
	}
	root := gjson.ParseBytes(raw)

	switch {
	case root.IsArray():
		return Payload{Shape: ShapeBareArray, Data: root}, nil
	case root.IsObject():
		data := root.Get("data")
		if !data.Exists() {
			return Payload{Shape: ShapeBareObject, Data: root}, nil
		}
		if data.IsObject() {
			if inner := data.Get("data"); inner.IsArray() || inner.IsObject() {
				meta := data.Get("meta")
				if !meta.Exists() {
					meta = root.Get("meta")
				}
				return Payload{Shape: ShapeDoubleEnvelope, Data: inner, Meta: meta}, nil
			}
		}
		if data.IsArray() || data.IsObject() {
			return Payload{Shape: ShapeEnvelope, Data: data, Meta: root.Get("meta")}, nil
		}
		return Payload{}, fmt.Errorf("%w: data is %s", ErrUnrecognizedShape, data.Type)
	default:
		return Payload{}, fmt.Errorf("%w: top-level %s", ErrUnrecognizedShape, root.Type)
	}
}

// Items returns the payload's elements, failing unless it is a list.
func (p Payload) Items() ([]gjson.Result, error) {
	if !p.Data.IsArray() {
		return nil, fmt.Errorf("%w: want list, got %s (%s)", ErrUnexpectedPayload, kindOf(p.Data), p.Shape)
	}
	return p.Data.Array(), nil
}

// DecodeList unmarshals a list payload into dst.
func (p Payload) DecodeList(dst any) error {
	if !p.Data.IsArray() {
		return fmt.Errorf("%w: want list, got %s (%s)", ErrUnexpectedPayload, kindOf(p.Data), p.Shape)
	}
	return json.Unmarshal([]byte(p.Data.Raw), dst)
}

// DecodeObject unmarshals an object payload into dst.
func (p Payload) DecodeObject(dst any) error {
	if !p.Data.IsObject() {
		return fmt.Errorf("%w: want object, got %s (%s)", ErrUnexpectedPayload, kindOf(p.Data), p.Shape)
	}
	return json.Unmarshal([]byte(p.Data.Raw), dst)
}

// Object unwraps raw and decodes a single object payload into T.
func Object[T any](raw []byte) (T, error) {
	var out T
	p, err := Unwrap(raw)
	if err != nil {
		return out, err
	}
	if err := p.DecodeObject(&out); err != nil {
		return out, err
	}
	return out, nil
}

func kindOf(r gjson.Result) string {
	switch {
	case r.IsArray():
		return "list"
	case r.IsObject():
		return "object"
	default:
		return r.Type.String()
	}
}
