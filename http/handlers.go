package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"misfortune/auth"
	"misfortune/game"
	"misfortune/store"
)

type Handlers struct {
	authService *auth.Service
	engine      *game.Engine
	store       store.Store
}

func NewHandlers(authService *auth.Service, engine *game.Engine, store store.Store) *Handlers {
	return &Handlers{
		authService: authService,
		engine:      engine,
		store:       store,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to write JSON response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeEngineError maps the engine's error taxonomy onto HTTP statuses.
// Anything unrecognized is a store failure and surfaces as a 500.
func writeEngineError(w http.ResponseWriter, err error) {
	switch err {
	case game.ErrGameNotFound, game.ErrCardNotFound:
		writeError(w, http.StatusNotFound, err.Error())
	case game.ErrGameNotInProgress, game.ErrDemoLimit, game.ErrNoMoreCards, game.ErrNoActiveRound:
		writeError(w, http.StatusBadRequest, err.Error())
	case game.ErrForbidden:
		writeError(w, http.StatusForbidden, err.Error())
	default:
		log.Printf("Engine error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

type userResponse struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	ImagePath string `json:"image_path"`
}

func toUserResponse(u *store.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		ImagePath: u.ImagePath,
	}
}

// Auth handlers

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.authService.Register(req.Email, req.Username, req.Password); err != nil {
		switch err {
		case auth.ErrInvalidEmail, auth.ErrInvalidUsername, auth.ErrInvalidPassword, auth.ErrUserExists:
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			log.Printf("Register error: %v", err)
			writeError(w, http.StatusInternalServerError, "registration failed")
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"message": "User registered successfully"})
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sessionID, user, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		if err == auth.ErrInvalidCredentials {
			writeError(w, http.StatusUnauthorized, err.Error())
		} else {
			log.Printf("Login error: %v", err)
			writeError(w, http.StatusInternalServerError, "login failed")
		}
		return
	}

	h.authService.GetSessionManager().SetSessionCookie(w, sessionID)

	log.Printf("Login successful for user %s (ID: %d)", user.Username, user.ID)
	writeJSON(w, http.StatusCreated, toUserResponse(user))
}

func (h *Handlers) Session(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())
	if !identity.Authenticated {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	user, err := h.store.GetUserByID(identity.UserID)
	if err != nil {
		log.Printf("Session error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to get user info")
		return
	}
	if user == nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	sessionID := auth.GetSessionFromRequest(r)
	if sessionID != "" {
		h.authService.Logout(sessionID)
		h.authService.GetSessionManager().ClearSessionCookie(w)
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// Game handlers

func (h *Handlers) CreateGame(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())

	newGame, err := h.engine.CreateGame(identity, time.Now())
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, newGame)
}

func (h *Handlers) GetGame(w http.ResponseWriter, r *http.Request) {
	v := &validator{}
	gameID, ok := parseGameID(mux.Vars(r)["id"])
	v.check(ok, "id", "Game ID must be a positive integer")
	if !v.respond(w) {
		return
	}

	snapshot, err := h.engine.GetGame(gameID, IdentityFromContext(r.Context()))
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, snapshot)
}

func (h *Handlers) StartRound(w http.ResponseWriter, r *http.Request) {
	v := &validator{}
	gameID, ok := parseGameID(mux.Vars(r)["id"])
	v.check(ok, "id", "Game ID must be a positive integer")
	if !v.respond(w) {
		return
	}

	round, err := h.engine.StartRound(gameID, IdentityFromContext(r.Context()), time.Now())
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, round)
}

func (h *Handlers) SubmitGuess(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CardID      int64 `json:"cardId"`
		Position    *int  `json:"position"`
		RoundNumber int   `json:"roundNumber"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	v := &validator{}
	gameID, ok := parseGameID(mux.Vars(r)["id"])
	v.check(ok, "id", "Game ID must be a positive integer")
	v.check(req.CardID >= 1, "cardId", "Card ID must be a positive integer")
	v.check(req.Position != nil && *req.Position >= -1 && *req.Position <= 6,
		"position", "Position must be between -1 and 6")
	v.check(req.RoundNumber >= 1, "roundNumber", "Round number must be positive")
	if !v.respond(w) {
		return
	}

	result, err := h.engine.SubmitGuess(gameID, req.CardID, *req.Position, req.RoundNumber,
		IdentityFromContext(r.Context()), time.Now())
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Profile handler

func (h *Handlers) Profile(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())

	user, err := h.store.GetUserByID(identity.UserID)
	if err != nil {
		log.Printf("Profile error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to get user info")
		return
	}
	if user == nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	history, err := h.engine.History(identity.UserID)
	if err != nil {
		log.Printf("Profile history error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to get game history")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user":    toUserResponse(user),
		"history": history,
	})
}
