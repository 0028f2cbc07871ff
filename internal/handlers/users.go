package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/lightbnb/lightbnb/internal/mq"
	"github.com/lightbnb/lightbnb/internal/services"
	"github.com/lightbnb/lightbnb/internal/store"
	"github.com/lightbnb/lightbnb/types"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// EventPublisher announces created records. It may be nil.
type EventPublisher interface {
	PublishJSON(ctx context.Context, channel string, value any) (string, error)
}

// UserHandler provides HTTP handlers for users and their reservations.
type UserHandler struct {
	dal    *services.DataAccess
	events EventPublisher
	log    zerolog.Logger
}

func NewUserHandler(dal *services.DataAccess, events EventPublisher, log zerolog.Logger) *UserHandler {
	return &UserHandler{dal: dal, events: events, log: log}
}

// UserRouter registers user routes on the given router.
func UserRouter(r chi.Router, dal *services.DataAccess, events EventPublisher, log zerolog.Logger) {
	handler := NewUserHandler(dal, events, log)

	r.Post("/", handler.CreateUser)
	r.Get("/", handler.GetUserByEmail)
	r.Route("/{userID}", func(r chi.Router) {
		r.Get("/", handler.GetUser)
		r.Get("/reservations", handler.ListReservations)
	})
}

// CreateUserRequest is the payload for POST /users.
type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ReservationListResponse wraps a guest's reservations.
type ReservationListResponse struct {
	Items []types.Reservation `json:"items"`
}

func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "missing required fields")
		return
	}

	existing, err := h.dal.GetUserWithEmail(r.Context(), req.Email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to check user")
		return
	}
	if existing != nil {
		writeError(w, http.StatusConflict, "email already exists")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	user, err := h.dal.AddUser(r.Context(), types.NewUser{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashed),
	})
	if err != nil {
		if store.IsUniqueViolation(err) {
			writeError(w, http.StatusConflict, "email already exists")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	publish(r.Context(), h.events, h.log, mq.ChannelUserCreated, user)
	writeJSON(w, http.StatusCreated, user)
}

func (h *UserHandler) GetUserByEmail(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	user, err := h.dal.GetUserWithEmail(r.Context(), email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch user")
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "userID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.dal.GetUserWithID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch user")
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) ListReservations(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "userID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	limit, err := parseLimit(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	reservations, err := h.dal.GetAllReservations(r.Context(), id, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list reservations")
		return
	}
	writeJSON(w, http.StatusOK, ReservationListResponse{Items: reservations})
}

func publish(ctx context.Context, events EventPublisher, log zerolog.Logger, channel string, value any) {
	if events == nil {
		return
	}
	if _, err := events.PublishJSON(ctx, channel, value); err != nil {
		log.Warn().Err(err).Str("channel", channel).Msg("publish event failed")
	}
}
