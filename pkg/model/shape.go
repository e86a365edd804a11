package model

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/layerviz/layerviz/pkg/errors"
)

// Unknown marks a tensor dimension whose size is not statically known,
// such as the batch dimension. It serializes to JSON null.
const Unknown = -1

// Shape is an output tensor shape: a sequence of dimension sizes where
// each entry is either a positive integer or [Unknown].
type Shape []int

// UnmarshalJSON decodes a JSON array of integers and nulls.
// Null entries become [Unknown].
func (s *Shape) UnmarshalJSON(data []byte) error {
	var raw []*int
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Shape, len(raw))
	for i, v := range raw {
		if v == nil {
			out[i] = Unknown
		} else {
			out[i] = *v
		}
	}
	*s = out
	return nil
}

// MarshalJSON encodes the shape with [Unknown] entries as JSON null.
func (s Shape) MarshalJSON() ([]byte, error) {
	raw := make([]*int, len(s))
	for i, v := range s {
		if v != Unknown {
			d := v
			raw[i] = &d
		}
	}
	return json.Marshal(raw)
}

// Validate checks that every known dimension is a positive integer.
// Unknown entries are allowed anywhere in the shape.
func (s Shape) Validate() error {
	for i, v := range s {
		if v != Unknown && v <= 0 {
			return errors.New(errors.ErrCodeInvalidShape, "dimension %d must be positive, got %d", i, v)
		}
	}
	return nil
}

// Spatial returns the shape with a single leading [Unknown] (batch)
// dimension stripped. Interior unknowns are preserved.
func (s Shape) Spatial() Shape {
	if len(s) > 0 && s[0] == Unknown {
		return s[1:]
	}
	return s
}

// AllUnknown reports whether the shape has no known dimensions.
// An empty shape counts as all-unknown.
func (s Shape) AllUnknown() bool {
	for _, v := range s {
		if v != Unknown {
			return false
		}
	}
	return true
}

// Product multiplies all known dimensions, skipping unknowns.
// Returns 0 when no dimension is known.
func (s Shape) Product() int {
	p := 0
	first := true
	for _, v := range s {
		if v == Unknown {
			continue
		}
		if first {
			p = v
			first = false
		} else {
			p *= v
		}
	}
	return p
}

// ShapeList holds a layer's output shapes. It accepts two JSON forms:
// a single shape ("output_shape": [null, 224, 224, 3]) or a list of
// shapes for multi-output layers ("output_shape": [[null, 197], [null, 16]]).
type ShapeList []Shape

// UnmarshalJSON decodes either a single shape or a list of shapes.
func (sl *ShapeList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) == 0 {
		*sl = ShapeList{}
		return nil
	}

	// A nested array signals the multi-output form.
	if raw[0][0] == '[' {
		out := make(ShapeList, len(raw))
		for i, r := range raw {
			if err := json.Unmarshal(r, &out[i]); err != nil {
				return err
			}
		}
		*sl = out
		return nil
	}

	var s Shape
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*sl = ShapeList{s}
	return nil
}

// MarshalJSON encodes a single shape flat and multiple shapes nested,
// matching the two accepted input forms.
func (sl ShapeList) MarshalJSON() ([]byte, error) {
	if len(sl) == 1 {
		return json.Marshal(sl[0])
	}
	return json.Marshal([]Shape(sl))
}

// String formats the shape as "(None, 224, 224, 3)".
func (s Shape) String() string {
	parts := make([]string, len(s))
	for i, v := range s {
		if v == Unknown {
			parts[i] = "None"
		} else {
			parts[i] = fmt.Sprintf("%d", v)
		}
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
