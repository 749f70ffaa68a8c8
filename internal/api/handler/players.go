package handler

import (
	"net/http"

	"github.com/mcoot/pelada/internal/api/response"
	"github.com/mcoot/pelada/internal/model"
	"github.com/mcoot/pelada/internal/services/playerbase"
)

// PlayersHandler handles player base endpoints
type PlayersHandler struct {
	base *playerbase.Service
}

// NewPlayersHandler creates a new players handler
func NewPlayersHandler(base *playerbase.Service) *PlayersHandler {
	return &PlayersHandler{base: base}
}

// List handles GET /api/v1/players
func (h *PlayersHandler) List(w http.ResponseWriter, r *http.Request) {
	if !h.base.IsLoaded() {
		WriteError(w, model.ErrPlayerBaseNotLoaded)
		return
	}

	players := response.PlayersFromModel(h.base.Players())
	response.JSON(w, http.StatusOK, response.PlayerList{
		Players: players,
		Count:   len(players),
	})
}

// Reload handles POST /api/v1/players/reload
func (h *PlayersHandler) Reload(w http.ResponseWriter, r *http.Request) {
	if err := h.base.Load(r.Context()); err != nil {
		WriteError(w, err)
		return
	}

	players := response.PlayersFromModel(h.base.Players())
	response.JSON(w, http.StatusOK, response.PlayerList{
		Players: players,
		Count:   len(players),
	})
}
