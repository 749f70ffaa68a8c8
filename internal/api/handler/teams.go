package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/mcoot/pelada/internal/api/response"
	"github.com/mcoot/pelada/internal/services/admission"
	"github.com/mcoot/pelada/internal/services/balancer"
	"github.com/mcoot/pelada/internal/services/export"
)

// TeamsHandler handles team split endpoints
type TeamsHandler struct {
	admission *admission.Controller
	balancer  *balancer.Service
}

// NewTeamsHandler creates a new teams handler
func NewTeamsHandler(admission *admission.Controller, balancer *balancer.Service) *TeamsHandler {
	return &TeamsHandler{
		admission: admission,
		balancer:  balancer,
	}
}

// Show handles GET /api/v1/teams?variant=&seed=
func (h *TeamsHandler) Show(w http.ResponseWriter, r *http.Request) {
	summary, err := h.summarize(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.TeamsFromSummary(summary))
}

// Export handles GET /api/v1/teams/export?format=&variant=&seed=
func (h *TeamsHandler) Export(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		WriteError(w, err)
		return
	}

	summary, err := h.summarize(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	// Buffer so a write failure can still produce an error response
	var buf bytes.Buffer
	if err := export.Write(&buf, format, summary.Assignment); err != nil {
		WriteError(w, NewInternalError())
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(format)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *TeamsHandler) summarize(r *http.Request) (*balancer.Summary, error) {
	opts, err := parseOptions(r)
	if err != nil {
		return nil, err
	}

	players, err := h.admission.Registered(r.Context())
	if err != nil {
		return nil, err
	}

	return h.balancer.Summarize(players, opts)
}

func parseOptions(r *http.Request) (balancer.Options, error) {
	var opts balancer.Options
	query := r.URL.Query()

	if v := query.Get("variant"); v != "" {
		variant, err := balancer.ParseVariant(v)
		if err != nil {
			return opts, err
		}
		opts.Variant = variant
	}

	if s := query.Get("seed"); s != "" {
		seed, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return opts, NewInvalidRequestError("seed must be a non-negative integer")
		}
		opts.Seed = &seed
	}

	return opts, nil
}
