package rest

import (
	"net/http"
	"strings"

	"github.com/go-chi/render"

	"github.com/notesvault/notesvault/internal/common"
	"github.com/notesvault/notesvault/internal/logging"
)

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=30"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type profileResponse struct {
	User string `json:"user"`
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	const op = "rest.Register"
	log := h.log(r, op)

	var req registerRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Debug(r.Context(), "failed to decode request body", logging.Err(err))
		fail(w, r, common.ErrorBadRequest, "failed to decode request")
		return
	}
	req.Username = strings.TrimSpace(req.Username)

	if err := validateRequest(req); err != nil {
		log.Debug(r.Context(), "invalid request", logging.Err(err))
		fail(w, r, err, "")
		return
	}

	ctx, cancel := h.storeCtx(r)
	defer cancel()

	user, err := h.users.Register(ctx, req.Username, req.Password)
	if err != nil {
		if statusFor(err) == http.StatusInternalServerError {
			log.Error(r.Context(), "failed to register user", logging.Err(err))
		}
		fail(w, r, err, "user already exists")
		return
	}

	log.Info(r.Context(), "user registered", "user_id", user.ID)
	message(w, r, http.StatusCreated, "User registered successfully")
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	const op = "rest.Login"
	log := h.log(r, op)

	var req loginRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Debug(r.Context(), "failed to decode request body", logging.Err(err))
		fail(w, r, common.ErrorBadRequest, "failed to decode request")
		return
	}

	if err := validateRequest(req); err != nil {
		fail(w, r, err, "")
		return
	}

	ctx, cancel := h.storeCtx(r)
	defer cancel()

	token, err := h.users.Login(ctx, req.Username, req.Password)
	if err != nil {
		if statusFor(err) == http.StatusInternalServerError {
			log.Error(r.Context(), "login failed", logging.Err(err))
		}
		fail(w, r, err, "invalid credentials")
		return
	}

	render.JSON(w, r, loginResponse{Token: token})
}

// Profile returns the username of the authenticated caller.
func (h *Handlers) Profile(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		fail(w, r, common.ErrorUnauthorized, "")
		return
	}
	render.JSON(w, r, profileResponse{User: user.Username})
}
