package sink

import (
	"encoding/json"

	"github.com/layerviz/layerviz/pkg/errors"
	"github.com/layerviz/layerviz/pkg/render/graphview"
	"github.com/layerviz/layerviz/pkg/render/layered"
)

// RenderLayeredJSON exports the layered layout as indented JSON,
// enabling external tooling and round-trip rendering.
func RenderLayeredJSON(d *layered.Diagram) ([]byte, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode layout")
	}
	return append(data, '\n'), nil
}

// RenderGraphJSON exports the graph layout as indented JSON.
func RenderGraphJSON(d *graphview.Diagram) ([]byte, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode layout")
	}
	return append(data, '\n'), nil
}
