package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pixil98/go-town/internal/town"
	"golang.org/x/text/unicode/norm"
)

func (s *Server) handleCreateTown(w http.ResponseWriter, r *http.Request) {
	var req townCreateRequest
	if !decode(w, r, &req) {
		return
	}

	ctl, password, err := s.registry.CreateTown(norm.NFC.String(req.FriendlyName), req.IsPubliclyListed)
	if err != nil {
		writeEnvelope(w, http.StatusOK, envelope{IsOK: false, Message: err.Error()})
		return
	}

	slog.InfoContext(r.Context(), "town created",
		"coveyTownID", ctl.CoveyTownID(), "friendlyName", ctl.FriendlyName(), "public", ctl.IsPubliclyListed())

	writeEnvelope(w, http.StatusOK, envelope{IsOK: true, Response: townCreateResponse{
		CoveyTownID:       ctl.CoveyTownID(),
		CoveyTownPassword: password,
	}})
}

func (s *Server) handleListTowns(w http.ResponseWriter, r *http.Request) {
	writeEnvelope(w, http.StatusOK, envelope{IsOK: true, Response: townListResponse{
		Towns: s.registry.ListTowns(),
	}})
}

func (s *Server) handleUpdateTown(w http.ResponseWriter, r *http.Request) {
	var req townUpdateRequest
	if !decode(w, r, &req) {
		return
	}

	var friendlyName *string
	if req.FriendlyName != nil {
		name := norm.NFC.String(*req.FriendlyName)
		friendlyName = &name
	}

	ok := s.registry.UpdateTown(chi.URLParam(r, "townID"), req.CoveyTownPassword, friendlyName, req.IsPubliclyListed)
	if !ok {
		writeEnvelope(w, http.StatusOK, envelope{IsOK: false, Message: "Invalid password or update values specified"})
		return
	}
	writeEnvelope(w, http.StatusOK, envelope{IsOK: true})
}

func (s *Server) handleDeleteTown(w http.ResponseWriter, r *http.Request) {
	var req townDeleteRequest
	if !decode(w, r, &req) {
		return
	}

	ok := s.registry.DeleteTown(chi.URLParam(r, "townID"), req.CoveyTownPassword)
	if !ok {
		writeEnvelope(w, http.StatusOK, envelope{IsOK: false,
			Message: "Invalid password. Please double check your town update password."})
		return
	}
	writeEnvelope(w, http.StatusOK, envelope{IsOK: true})
}

func (s *Server) handleJoinTown(w http.ResponseWriter, r *http.Request) {
	var req townJoinRequest
	if !decode(w, r, &req) {
		return
	}

	if req.UserName == "" {
		writeEnvelope(w, http.StatusOK, envelope{IsOK: false, Message: "Please select a username"})
		return
	}

	ctl := s.registry.GetControllerForTown(req.CoveyTownID)
	if ctl == nil {
		writeEnvelope(w, http.StatusOK, envelope{IsOK: false, Message: "Error joining town: no town found by that id"})
		return
	}

	player := town.NewPlayer(norm.NFC.String(req.UserName))
	sess, err := ctl.AddPlayer(r.Context(), player)
	if err != nil {
		slog.WarnContext(r.Context(), "joining town", "coveyTownID", req.CoveyTownID, "error", err)
		writeEnvelope(w, http.StatusInternalServerError, envelope{IsOK: false, Message: "Error joining town"})
		return
	}

	writeEnvelope(w, http.StatusOK, envelope{IsOK: true, Response: townJoinResponse{
		CoveyUserID:        player.ID,
		CoveySessionToken:  sess.Token,
		ProviderVideoToken: sess.MediaToken,
		CurrentPlayers:     ctl.Players(),
		FriendlyName:       ctl.FriendlyName(),
		IsPubliclyListed:   ctl.IsPubliclyListed(),
		ConversationAreas:  ctl.ConversationAreas(),
	}})
}

func (s *Server) handleCreateConversationArea(w http.ResponseWriter, r *http.Request) {
	var req conversationAreaCreateRequest
	if !decode(w, r, &req) {
		return
	}

	failure := envelope{IsOK: false, Message: fmt.Sprintf(
		"Unable to create conversation area %s with topic %s",
		req.ConversationArea.Label, req.ConversationArea.Topic)}

	ctl := s.registry.GetControllerForTown(chi.URLParam(r, "townID"))
	if ctl == nil {
		writeEnvelope(w, http.StatusOK, failure)
		return
	}
	if ctl.GetSessionByToken(req.SessionToken) == nil {
		writeEnvelope(w, http.StatusOK, failure)
		return
	}

	ok := ctl.AddConversationArea(&town.ConversationArea{
		Label:       norm.NFC.String(req.ConversationArea.Label),
		Topic:       norm.NFC.String(req.ConversationArea.Topic),
		BoundingBox: req.ConversationArea.BoundingBox,
	})
	if !ok {
		writeEnvelope(w, http.StatusOK, failure)
		return
	}
	writeEnvelope(w, http.StatusOK, envelope{IsOK: true})
}

// decode unmarshals the request body into v, answering 400 on malformed
// input. Returns false if the request has already been answered.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeEnvelope(w, http.StatusBadRequest, envelope{IsOK: false, Message: "Invalid request body"})
		return false
	}
	return true
}

func writeEnvelope(w http.ResponseWriter, status int, env envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		slog.Warn("writing response", "error", err)
	}
}
