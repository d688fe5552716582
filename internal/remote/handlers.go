package remote

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/zjrosen/podium/internal/intent"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	st, ok := s.status.Load()
	if !ok {
		jsonError(w, "presentation not started", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// handleIntent accepts POST /intent/{name}. goto and pick read h, v and f
// from the query; toggles read an optional on=true|false.
func (s *Server) handleIntent(w http.ResponseWriter, r *http.Request) {
	kind, err := intent.Parse(chi.URLParam(r, "name"))
	if err != nil {
		jsonError(w, err.Error(), http.StatusNotFound)
		return
	}

	in, err := parseIntent(kind, r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.sender.Send(in.WithOrigin(Origin))
	writeJSON(w, http.StatusAccepted, map[string]string{"intent": kind.String()})
}

func parseIntent(kind intent.Kind, r *http.Request) (intent.Intent, error) {
	q := r.URL.Query()
	in := intent.Of(kind)

	switch kind {
	case intent.GoTo, intent.PickFromOverview:
		h, err := queryInt(q.Get("h"), "h")
		if err != nil {
			return in, err
		}
		if h == nil {
			return in, fmt.Errorf("missing h")
		}
		in.H = *h
		if in.V, err = queryInt(q.Get("v"), "v"); err != nil {
			return in, err
		}
		if kind == intent.GoTo {
			if in.F, err = queryInt(q.Get("f"), "f"); err != nil {
				return in, err
			}
		}
	case intent.ToggleOverview, intent.TogglePause, intent.ToggleAutoSlide:
		if raw := q.Get("on"); raw != "" {
			on, err := strconv.ParseBool(raw)
			if err != nil {
				return in, fmt.Errorf("invalid on %q", raw)
			}
			in.Toggle = &on
		}
	}
	return in, nil
}

func queryInt(raw, name string) (*int, error) {
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q", name, raw)
	}
	return &n, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, status, map[string]string{"error": msg})
}
