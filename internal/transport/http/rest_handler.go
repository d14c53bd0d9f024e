package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/FarhanDH/devfest-politeknik-negeri-samarinda/internal/app"
	"github.com/FarhanDH/devfest-politeknik-negeri-samarinda/internal/auth"
	"github.com/FarhanDH/devfest-politeknik-negeri-samarinda/internal/domain"
)

// RESTHandler serves room creation and the three polling projections for
// clients that don't hold a websocket open.
type RESTHandler struct {
	service  *app.RoomService
	verifier *auth.Verifier
}

func NewRESTHandler(service *app.RoomService, verifier *auth.Verifier) *RESTHandler {
	return &RESTHandler{service: service, verifier: verifier}
}

// Register mounts the REST routes on mux.
func (h *RESTHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /rooms", h.createRoom)
	mux.HandleFunc("GET /rooms/{code}/lobby", h.lobby)
	mux.HandleFunc("GET /rooms/{code}/play", h.play)
	mux.HandleFunc("GET /rooms/{code}/results", h.results)
}

type createRoomRequest struct {
	QuizID string `json:"quizId"`
}

func (h *RESTHandler) createRoom(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r, h.verifier)
	if err != nil {
		writeError(w, err)
		return
	}
	var req createRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.QuizID == "" {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	created, err := h.service.CreateRoom(r.Context(), req.QuizID, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *RESTHandler) lobby(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r, h.verifier)
	if err != nil {
		writeError(w, err)
		return
	}
	roomID, err := h.service.ResolveCode(r.PathValue("code"))
	if err != nil {
		writeError(w, err)
		return
	}
	view, err := h.service.Lobby(r.Context(), roomID, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *RESTHandler) play(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r, h.verifier)
	if err != nil {
		writeError(w, err)
		return
	}
	roomID, err := h.service.ResolveCode(r.PathValue("code"))
	if err != nil {
		writeError(w, err)
		return
	}
	view, err := h.service.Play(r.Context(), roomID, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *RESTHandler) results(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r, h.verifier)
	if err != nil {
		writeError(w, err)
		return
	}
	roomID, err := h.service.ResolveCode(r.PathValue("code"))
	if err != nil {
		writeError(w, err)
		return
	}
	view, err := h.service.Results(r.Context(), roomID, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrRoomNotFound), errors.Is(err, domain.ErrQuizNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrForbidden), errors.Is(err, domain.ErrNotAMember):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrRoomClosed),
		errors.Is(err, domain.ErrRoomNotWaiting),
		errors.Is(err, domain.ErrQuizNotActive),
		errors.Is(err, domain.ErrStaleSubmission),
		errors.Is(err, domain.ErrAlreadyAnswered):
		status = http.StatusConflict
	}
	writeJSON(w, status, errorPayload{Message: err.Error()})
}
