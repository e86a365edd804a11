package model

import (
	"bytes"
	"strings"
	"testing"

	"github.com/layerviz/layerviz/pkg/errors"
)

func TestShapeUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		json string
		want Shape
	}{
		{
			name: "batch and spatial dims",
			json: `[null, 224, 224, 3]`,
			want: Shape{Unknown, 224, 224, 3},
		},
		{
			name: "all known",
			json: `[32, 32]`,
			want: Shape{32, 32},
		},
		{
			name: "all unknown",
			json: `[null, null]`,
			want: Shape{Unknown, Unknown},
		},
		{
			name: "empty",
			json: `[]`,
			want: Shape{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Shape
			if err := got.UnmarshalJSON([]byte(tt.json)); err != nil {
				t.Fatalf("UnmarshalJSON() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("dim %d = %d, want %d", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestShapeRoundTrip(t *testing.T) {
	s := Shape{Unknown, 28, 28, 1}
	data, err := s.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	if string(data) != `[null,28,28,1]` {
		t.Errorf("MarshalJSON() = %s, want [null,28,28,1]", data)
	}
}

func TestShapeProduct(t *testing.T) {
	tests := []struct {
		name  string
		shape Shape
		want  int
	}{
		{name: "skips unknowns", shape: Shape{Unknown, 1, 2, 3}, want: 6},
		{name: "only unknown", shape: Shape{Unknown}, want: 0},
		{name: "single value", shape: Shape{44}, want: 44},
		{name: "trailing unknown", shape: Shape{44, Unknown}, want: 44},
		{name: "empty", shape: Shape{}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.shape.Product(); got != tt.want {
				t.Errorf("Product() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestShapeSpatial(t *testing.T) {
	s := Shape{Unknown, 224, 224, 3}
	if got := s.Spatial(); len(got) != 3 || got[0] != 224 {
		t.Errorf("Spatial() = %v, want leading batch dim stripped", got)
	}

	noBatch := Shape{224, 3}
	if got := noBatch.Spatial(); len(got) != 2 {
		t.Errorf("Spatial() = %v, want unchanged", got)
	}
}

func TestShapeValidate(t *testing.T) {
	if err := (Shape{Unknown, 10}).Validate(); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}
	err := (Shape{Unknown, 0}).Validate()
	if !errors.Is(err, errors.ErrCodeInvalidShape) {
		t.Errorf("Validate() = %v, want INVALID_SHAPE", err)
	}
	err = (Shape{-3}).Validate()
	if !errors.Is(err, errors.ErrCodeInvalidShape) {
		t.Errorf("Validate() = %v, want INVALID_SHAPE", err)
	}
}

func TestShapeString(t *testing.T) {
	s := Shape{Unknown, 28, 28}
	if got := s.String(); got != "(None, 28, 28)" {
		t.Errorf("String() = %q, want %q", got, "(None, 28, 28)")
	}
}

func TestLayerPrimaryShape(t *testing.T) {
	single := Layer{OutputShapes: ShapeList{{Unknown, 10}}}
	s, multi := single.PrimaryShape()
	if multi {
		t.Error("PrimaryShape() multi = true, want false")
	}
	if len(s) != 2 || s[1] != 10 {
		t.Errorf("PrimaryShape() = %v, want (None, 10)", s)
	}

	none := Layer{}
	s, _ = none.PrimaryShape()
	if len(s) != 2 || s[0] != Unknown || s[1] != 1 {
		t.Errorf("PrimaryShape() = %v, want (None, 1)", s)
	}

	many := Layer{OutputShapes: ShapeList{{Unknown, 197}, {Unknown, 16}}}
	s, multi = many.PrimaryShape()
	if !multi {
		t.Error("PrimaryShape() multi = false, want true")
	}
	if s[1] != 197 {
		t.Errorf("PrimaryShape() = %v, want first shape", s)
	}
}

func TestModelValidate(t *testing.T) {
	tests := []struct {
		name     string
		model    Model
		wantCode errors.Code
	}{
		{
			name: "valid chain",
			model: Model{Layers: []Layer{
				{Name: "in", Type: "InputLayer", OutputShapes: ShapeList{{Unknown, 8}}},
				{Name: "fc", Type: "Dense", Inputs: []string{"in"}, OutputShapes: ShapeList{{Unknown, 2}}},
			}},
		},
		{
			name:  "empty model",
			model: Model{},
		},
		{
			name: "negative dimension",
			model: Model{Layers: []Layer{
				{Type: "Dense", OutputShapes: ShapeList{{Unknown, -2}}},
			}},
			wantCode: errors.ErrCodeInvalidShape,
		},
		{
			name: "unknown input reference",
			model: Model{Layers: []Layer{
				{Name: "fc", Type: "Dense", Inputs: []string{"ghost"}},
			}},
			wantCode: errors.ErrCodeInvalidModel,
		},
		{
			name: "spacer with inputs",
			model: Model{Layers: []Layer{
				{Name: "in", Type: "InputLayer"},
				{Spacing: 50, Inputs: []string{"in"}},
			}},
			wantCode: errors.ErrCodeInvalidModel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.model.Validate()
			if tt.wantCode == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantCode) {
				t.Errorf("Validate() = %v, want code %s", err, tt.wantCode)
			}
		})
	}
}

func TestReadWriteJSONRoundTrip(t *testing.T) {
	in := `{
	  "name": "lenet",
	  "layers": [
	    {"name": "in", "type": "InputLayer", "output_shape": [[null, 28, 28, 1]]},
	    {"spacing": 40},
	    {"name": "fc", "type": "Dense", "units": 10, "output_shape": [[null, 10]], "inputs": ["in"]}
	  ]
	}`

	m, err := ReadJSON(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if m.Name != "lenet" {
		t.Errorf("Name = %q, want lenet", m.Name)
	}
	if len(m.Layers) != 3 {
		t.Fatalf("len(Layers) = %d, want 3", len(m.Layers))
	}
	if !m.Layers[1].IsSpacer() {
		t.Error("layer 1 IsSpacer() = false, want true")
	}

	var buf bytes.Buffer
	if err := WriteJSON(m, &buf); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}

	again, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("re-import error = %v", err)
	}
	if len(again.Layers) != len(m.Layers) {
		t.Errorf("round-trip layer count = %d, want %d", len(again.Layers), len(m.Layers))
	}
	if again.Layers[2].Units != 10 {
		t.Errorf("round-trip Units = %d, want 10", again.Layers[2].Units)
	}
}

func TestShapeListAcceptsFlatAndNestedForms(t *testing.T) {
	var flat ShapeList
	if err := flat.UnmarshalJSON([]byte(`[null, 224, 224, 3]`)); err != nil {
		t.Fatalf("flat UnmarshalJSON() error = %v", err)
	}
	if len(flat) != 1 || len(flat[0]) != 4 {
		t.Errorf("flat form = %v, want one 4-dim shape", flat)
	}

	var nested ShapeList
	if err := nested.UnmarshalJSON([]byte(`[[null, 197], [null, 16]]`)); err != nil {
		t.Fatalf("nested UnmarshalJSON() error = %v", err)
	}
	if len(nested) != 2 {
		t.Errorf("nested form = %v, want two shapes", nested)
	}
}

func TestReadJSONRejectsMalformed(t *testing.T) {
	if _, err := ReadJSON(strings.NewReader("{not json")); err == nil {
		t.Error("ReadJSON() error = nil, want parse failure")
	}
}
