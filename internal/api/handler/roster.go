package handler

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"

	"github.com/mcoot/pelada/internal/api/apierr"
	"github.com/mcoot/pelada/internal/api/request"
	"github.com/mcoot/pelada/internal/api/response"
	"github.com/mcoot/pelada/internal/services/admission"
)

// RosterHandler handles roster endpoints
type RosterHandler struct {
	admission *admission.Controller
}

// NewRosterHandler creates a new roster handler
func NewRosterHandler(admission *admission.Controller) *RosterHandler {
	return &RosterHandler{admission: admission}
}

// Status handles GET /api/v1/roster
func (h *RosterHandler) Status(w http.ResponseWriter, r *http.Request) {
	h.writeStatus(w, r, http.StatusOK)
}

// SetPresence handles PUT /api/v1/roster/{name}
func (h *RosterHandler) SetPresence(w http.ResponseWriter, r *http.Request) {
	name, err := url.PathUnescape(mux.Vars(r)["name"])
	if err != nil {
		WriteError(w, NewInvalidRequestError("Invalid player name"))
		return
	}

	var req request.SetPresenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("Invalid request body"))
		return
	}
	if req.Present == nil {
		WriteError(w, NewInvalidRequestError("present is required"))
		return
	}

	if err := h.admission.SetPresence(r.Context(), name, *req.Present); err != nil {
		WriteError(w, err)
		return
	}

	h.writeStatus(w, r, http.StatusOK)
}

// Sync handles POST /api/v1/roster/sync
func (h *RosterHandler) Sync(w http.ResponseWriter, r *http.Request) {
	var req request.SyncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("Invalid request body"))
		return
	}

	result, err := h.admission.Sync(r.Context(), req.Present)
	if err != nil {
		WriteError(w, err)
		return
	}

	status, err := h.admission.Status(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	rejected := make([]response.Rejection, len(result.Rejected))
	for i, rej := range result.Rejected {
		rejected[i] = response.Rejection{
			Name:   rej.Name,
			Code:   apierr.Code(rej.Reason),
			Reason: apierr.Message(rej.Reason),
		}
	}

	accepted := result.Accepted
	if accepted == nil {
		accepted = []string{}
	}

	response.JSON(w, http.StatusOK, response.SyncResult{
		Accepted: accepted,
		Rejected: rejected,
		Roster:   response.RosterStatusFromModel(status),
	})
}

// Clear handles DELETE /api/v1/roster
func (h *RosterHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.admission.Clear(r.Context()); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// UpdateSettings handles PATCH /api/v1/roster/settings
func (h *RosterHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req request.SettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("Invalid request body"))
		return
	}

	if req.Closed != nil {
		h.admission.SetClosed(*req.Closed)
	}

	h.writeStatus(w, r, http.StatusOK)
}

func (h *RosterHandler) writeStatus(w http.ResponseWriter, r *http.Request, code int) {
	status, err := h.admission.Status(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, code, response.RosterStatusFromModel(status))
}
