package fonts

import "testing"

func TestFixedMetricsMeasure(t *testing.T) {
	m := Fixed(7, 16)

	tests := []struct {
		name  string
		text  string
		wantW float64
		wantH float64
	}{
		{name: "single line", text: "Conv2D", wantW: 42, wantH: 16},
		{name: "empty", text: "", wantW: 0, wantH: 16},
		{name: "multi line widest wins", text: "Dense\nConv2D (224, 224, 3)", wantW: 147, wantH: 32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := m.Measure(tt.text)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("Measure(%q) = (%g, %g), want (%g, %g)", tt.text, w, h, tt.wantW, tt.wantH)
			}
		})
	}

	if m.LineHeight() != 16 {
		t.Errorf("LineHeight() = %g, want 16", m.LineHeight())
	}
}

func TestFindUnknownFont(t *testing.T) {
	if _, err := Find("definitely-not-a-real-font-name.ttf"); err == nil {
		t.Error("Find() error = nil, want FONT_NOT_FOUND")
	}
}
