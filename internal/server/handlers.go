package server

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/boardview/pkg/core/geom"
	"github.com/matzehuels/boardview/pkg/errors"
	"github.com/matzehuels/boardview/pkg/graph"
	"github.com/matzehuels/boardview/pkg/interact"
	"github.com/matzehuels/boardview/pkg/pipeline"
)

// maxBody bounds request bodies.
const maxBody = 1 << 20

var validate = validator.New()

// =============================================================================
// Requests and responses
// =============================================================================

type createRequest struct {
	Expand    []string `json:"expand" validate:"dive,required"`
	ExpandAll bool     `json:"expand_all"`
	ViewportW float64  `json:"viewport_width" validate:"gte=0"`
	ViewportH float64  `json:"viewport_height" validate:"gte=0"`
}

type panRequest struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

// zoomRequest zooms at (X, Y) by Factor, by one wheel notch in the direction
// of DeltaY, or by Steps notches around the viewport centre. Exactly one of
// the three forms is used, in that order of precedence.
type zoomRequest struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Factor float64 `json:"factor" validate:"gte=0"`
	DeltaY float64 `json:"delta_y"`
	Steps  int     `json:"steps"`
}

type resizeRequest struct {
	Width  float64 `json:"width" validate:"gt=0"`
	Height float64 `json:"height" validate:"gt=0"`
}

type resetRequest struct {
	Layout bool `json:"layout"`
}

type pathRequest struct {
	Path string `json:"path" validate:"required"`
}

type pointRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type dragBeginRequest struct {
	Path string  `json:"path"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

type viewResponse struct {
	ID      string      `json:"id"`
	Changed bool        `json:"changed"`
	Frame   graph.Frame `json:"frame"`
}

type hitResponse struct {
	Path  string `json:"path,omitempty"`
	Found bool   `json:"found"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// =============================================================================
// Helpers
// =============================================================================

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("encode response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := errors.HTTPStatus(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	s.writeJSON(w, status, map[string]errorBody{
		"error": {Code: string(code), Message: errors.UserMessage(err)},
	})
}

// decode reads an optional JSON body into v and validates it. An empty body
// leaves v at its zero value.
func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !stderrors.Is(err, io.EOF) {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body")
	}
	if err := validate.Struct(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request")
	}
	return nil
}

// apply runs op on the request's view under its lock and responds with the
// resulting frame.
func (s *Server) apply(w http.ResponseWriter, r *http.Request, op func(c *interact.Controller) (bool, error)) {
	v := viewFrom(r.Context())
	v.mu.Lock()
	changed, err := op(v.ctrl)
	var f graph.Frame
	if err == nil {
		f = v.ctrl.Frame()
	}
	v.mu.Unlock()

	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, viewResponse{ID: v.id, Changed: changed, Frame: f})
}

func (s *Server) knownPath(c *interact.Controller, path string) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	if _, ok := c.Tree().Module(path); !ok {
		return errors.New(errors.ErrCodeNotFound, "no module %q", path)
	}
	return nil
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":      "healthy",
		"modules":     s.tree.Len(),
		"connections": s.tree.ConnectionCount(),
		"views":       s.views.len(),
		"uptime":      time.Since(s.started).Seconds(),
	})
}

func (s *Server) handleCreateView(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	ctrl, err := s.newController(req.ViewportW, req.ViewportH)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if req.ExpandAll {
		ctrl.ExpandAll()
	}
	for _, p := range req.Expand {
		if err := s.knownPath(ctrl, p); err != nil {
			s.writeError(w, err)
			return
		}
		ctrl.Reveal(p)
	}

	v := s.views.add(ctrl)
	s.updateViewGauge()
	s.logger.Debug("view created", "id", v.id)

	v.mu.Lock()
	f := v.ctrl.Frame()
	v.mu.Unlock()
	s.writeJSON(w, http.StatusCreated, viewResponse{ID: v.id, Changed: true, Frame: f})
}

func (s *Server) handleDeleteView(w http.ResponseWriter, r *http.Request) {
	v := viewFrom(r.Context())
	s.views.remove(v.id)
	s.updateViewGauge()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	s.apply(w, r, func(*interact.Controller) (bool, error) { return false, nil })
}

func (s *Server) handlePan(w http.ResponseWriter, r *http.Request) {
	var req panRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	s.apply(w, r, func(c *interact.Controller) (bool, error) {
		c.Pan(req.DX, req.DY)
		return req.DX != 0 || req.DY != 0, nil
	})
}

func (s *Server) handleZoom(w http.ResponseWriter, r *http.Request) {
	var req zoomRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	s.apply(w, r, func(c *interact.Controller) (bool, error) {
		switch {
		case req.Factor > 0:
			return c.ZoomAt(req.X, req.Y, req.Factor), nil
		case req.DeltaY != 0:
			return c.Wheel(req.X, req.Y, req.DeltaY), nil
		case req.Steps != 0:
			return c.ZoomCenter(req.Steps), nil
		default:
			return false, errors.New(errors.ErrCodeInvalidInput, "zoom needs factor, delta_y or steps")
		}
	})
}

func (s *Server) handleResize(w http.ResponseWriter, r *http.Request) {
	var req resizeRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	s.apply(w, r, func(c *interact.Controller) (bool, error) {
		c.Resize(req.Width, req.Height)
		return true, nil
	})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	s.apply(w, r, func(c *interact.Controller) (bool, error) {
		c.ResetView()
		if req.Layout {
			c.ResetLayout()
		}
		return true, nil
	})
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	var req pathRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	s.apply(w, r, func(c *interact.Controller) (bool, error) {
		if err := s.knownPath(c, req.Path); err != nil {
			return false, err
		}
		before := c.State().Expanded.Has(req.Path)
		return c.ToggleExpansion(req.Path) != before, nil
	})
}

func (s *Server) handleExpandAll(w http.ResponseWriter, r *http.Request) {
	s.apply(w, r, func(c *interact.Controller) (bool, error) {
		c.ExpandAll()
		return true, nil
	})
}

func (s *Server) handleCollapseAll(w http.ResponseWriter, r *http.Request) {
	s.apply(w, r, func(c *interact.Controller) (bool, error) {
		c.CollapseAll()
		return true, nil
	})
}

func (s *Server) handleHit(w http.ResponseWriter, r *http.Request) {
	var req pointRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	v := viewFrom(r.Context())
	v.mu.Lock()
	path, ok := v.ctrl.HitTest(geom.Point{X: req.X, Y: req.Y})
	v.mu.Unlock()
	s.writeJSON(w, http.StatusOK, hitResponse{Path: path, Found: ok})
}

func (s *Server) handleDragBegin(w http.ResponseWriter, r *http.Request) {
	var req dragBeginRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	p := geom.Point{X: req.X, Y: req.Y}
	s.apply(w, r, func(c *interact.Controller) (bool, error) {
		path := req.Path
		if path == "" {
			hit, ok := c.HitTest(p)
			if !ok {
				return false, nil
			}
			path = hit
		} else if err := s.knownPath(c, path); err != nil {
			return false, err
		}
		if !c.BeginDrag(path, p) {
			return false, errors.New(errors.ErrCodeInvalidInput, "module %q is not visible", path)
		}
		return true, nil
	})
}

func (s *Server) handleDragUpdate(w http.ResponseWriter, r *http.Request) {
	var req pointRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	s.apply(w, r, func(c *interact.Controller) (bool, error) {
		return c.UpdateDrag(geom.Point{X: req.X, Y: req.Y}), nil
	})
}

func (s *Server) handleDragEnd(w http.ResponseWriter, r *http.Request) {
	s.apply(w, r, func(c *interact.Controller) (bool, error) {
		return c.EndDrag(), nil
	})
}

func (s *Server) handleDragCancel(w http.ResponseWriter, r *http.Request) {
	s.apply(w, r, func(c *interact.Controller) (bool, error) {
		return c.CancelDrag(), nil
	})
}

var contentTypes = map[string]string{
	graph.FormatSVG:  "image/svg+xml",
	graph.FormatPNG:  "image/png",
	graph.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	graph.FormatJSON: "application/json",
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := errors.ValidateFormat(format, graph.Formats); err != nil {
		s.writeError(w, err)
		return
	}

	q := r.URL.Query()
	opts := pipeline.Options{
		Formats:  []string{format},
		Scale:    s.cfg.Render.Scale,
		Detailed: s.cfg.Render.Detailed || q.Get("detailed") == "true",
		Fit:      q.Get("fit") == "true",
		Engine:   q.Get("engine"),
	}
	if raw := q.Get("scale"); raw != "" {
		scale, err := strconv.ParseFloat(raw, 64)
		if err != nil || scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
			s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "invalid scale %q", raw))
			return
		}
		opts.Scale = scale
	}
	if opts.Engine != "" {
		if err := errors.ValidateFormat(opts.Engine, pipeline.Engines); err != nil {
			s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "unsupported engine %q", opts.Engine))
			return
		}
	}

	v := viewFrom(r.Context())
	v.mu.Lock()
	f := v.ctrl.Frame()
	v.mu.Unlock()

	out, err := pipeline.Render(r.Context(), f, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out[format])
}
