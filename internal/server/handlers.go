package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/layerviz/layerviz/pkg/errors"
	"github.com/layerviz/layerviz/pkg/model"
	"github.com/layerviz/layerviz/pkg/pipeline"
	"github.com/layerviz/layerviz/pkg/store"
)

// renderRequest is the POST /api/render body: the model document plus
// pipeline options. Format is singular here; clients wanting several
// formats issue several requests and hit the cache.
type renderRequest struct {
	Model   *model.Model     `json:"model"`
	View    string           `json:"view,omitempty"`
	Format  string           `json:"format,omitempty"`
	Scale   float64          `json:"scale,omitempty"`
	Refresh bool             `json:"refresh,omitempty"`
	Layered *json.RawMessage `json:"layered,omitempty"`
	Graph   *json.RawMessage `json:"graph,omitempty"`

	// Archive controls whether the result is recorded; default true.
	Archive *bool `json:"archive,omitempty"`
}

type errorResponse struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return
	}
	if req.Model == nil {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "request is missing the model"))
		return
	}

	opts := pipeline.Options{
		View:    req.View,
		Scale:   req.Scale,
		Refresh: req.Refresh,
	}
	if req.Format != "" {
		opts.Formats = []string{req.Format}
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		s.writeError(w, err)
		return
	}
	if req.Layered != nil {
		if err := json.Unmarshal(*req.Layered, &opts.Layered); err != nil {
			s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode layered options"))
			return
		}
	}
	if req.Graph != nil {
		if err := json.Unmarshal(*req.Graph, &opts.Graph); err != nil {
			s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode graph options"))
			return
		}
	}

	result, err := s.runner.Execute(r.Context(), req.Model, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	format := opts.Formats[0]
	data := result.Artifacts[format]

	if req.Archive == nil || *req.Archive {
		rec := &store.Render{
			ID:        uuid.NewString(),
			ModelName: req.Model.Name,
			ModelHash: result.ModelHash,
			View:      opts.View,
			Format:    format,
			Data:      data,
			MIME:      pipeline.MIMETypes[format],
			CreatedAt: time.Now().UTC(),
		}
		if err := s.store.Put(r.Context(), rec); err != nil {
			s.logger.Warn("archive failed", "err", err)
		} else {
			w.Header().Set("X-Render-ID", rec.ID)
		}
	}

	if result.CacheInfo.Hits[format] {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	w.Header().Set("Content-Type", pipeline.MIMETypes[format])
	_, _ = w.Write(data)
}

func (s *Server) handleListRenders(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.List(r.Context(), s.cfg.ListLimit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"renders": list})
}

func (s *Server) handleGetRender(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if rec == nil {
		s.writeError(w, errors.New(errors.ErrCodeNotFound, "render %s not found", id))
		return
	}
	w.Header().Set("Content-Type", rec.MIME)
	_, _ = w.Write(rec.Data)
}

// writeError maps error codes to HTTP statuses and emits a JSON body.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidShape, errors.ErrCodeInvalidConfig,
		errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidView, errors.ErrCodeInvalidColor,
		errors.ErrCodeInvalidModel, errors.ErrCodeGraphCycle:
		status = http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{
		Error: errors.UserMessage(err),
		Code:  errors.GetCode(err),
	})
}
