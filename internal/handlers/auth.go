// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"vistapress/internal/middleware"
	"vistapress/internal/session"
	"vistapress/internal/store"
)

// Auth groups the authentication handlers.
type Auth struct {
	sessions  *session.Store
	userStore *store.UserStore
}

// NewAuth creates a new Auth handler group.
func NewAuth(sessions *session.Store, userStore *store.UserStore) *Auth {
	return &Auth{sessions: sessions, userStore: userStore}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login validates credentials and attaches the account to the visitor's
// session. The session ID is reused, so view-dedup history survives
// signing in.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := a.userStore.FindByEmail(req.Email)
	if err != nil {
		serverError(w, "login lookup failed", err)
		return
	}
	if user == nil || !a.userStore.CheckPassword(user, req.Password) {
		respondError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	_, err = a.sessions.Login(r.Context(), w, r, &session.Data{
		UserID:      user.ID,
		Email:       user.Email,
		Handle:      user.Handle,
		DisplayName: user.DisplayName,
		Role:        string(user.Role),
	})
	if err != nil {
		serverError(w, "session create failed", err)
		return
	}

	respondJSON(w, http.StatusOK, user)
}

// Logout destroys the authenticated session.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Logout(r.Context(), w, r); err != nil {
		serverError(w, "logout failed", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"logged_out": true})
}

// Me returns the signed-in user's profile.
func (a *Auth) Me(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	user, err := a.userStore.FindByID(sess.UserID)
	if err != nil {
		serverError(w, "load user failed", err)
		return
	}
	if user == nil {
		respondError(w, http.StatusUnauthorized, "account no longer exists")
		return
	}
	respondJSON(w, http.StatusOK, user)
}
