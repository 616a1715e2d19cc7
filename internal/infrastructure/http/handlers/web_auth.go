package handlers

import (
	"net/http"
	"strings"

	"github.com/alchemorsel/recipebox/internal/ports/inbound"
	"go.uber.org/zap"
)

type authPage struct {
	Username string
	Email    string
	Next     string
}

func (h *WebHandlers) registerPage(w http.ResponseWriter, r *http.Request) {
	if principal(r) != nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	h.render(w, r, http.StatusOK, "register", PageData{Title: "Register", Data: authPage{}})
}

func (h *WebHandlers) register(w http.ResponseWriter, r *http.Request) {
	cmd := inbound.RegisterCommand{
		Username:        strings.TrimSpace(r.PostFormValue("username")),
		Email:           strings.TrimSpace(r.PostFormValue("email")),
		Password:        r.PostFormValue("password1"),
		PasswordConfirm: r.PostFormValue("password2"),
	}

	user, err := h.users.Register(r.Context(), cmd)
	if err != nil {
		if fieldErrs, ok := formErrors(err); ok {
			h.render(w, r, http.StatusBadRequest, "register", PageData{
				Title:  "Register",
				Errors: fieldErrs,
				Data:   authPage{Username: cmd.Username, Email: cmd.Email},
			})
			return
		}
		h.fail(w, r, err)
		return
	}

	if !h.startSession(w, r, user) {
		return
	}
	redirectWithFlash(w, r, "/", FlashSuccess, "Welcome, "+user.Username+"! We added two starter recipes to get you going.")
}

func (h *WebHandlers) loginPage(w http.ResponseWriter, r *http.Request) {
	next := safeNext(r.URL.Query().Get("next"), "/")
	if principal(r) != nil {
		http.Redirect(w, r, next, http.StatusFound)
		return
	}
	h.render(w, r, http.StatusOK, "login", PageData{Title: "Log in", Data: authPage{Next: next}})
}

func (h *WebHandlers) login(w http.ResponseWriter, r *http.Request) {
	next := safeNext(r.PostFormValue("next"), "/")
	cmd := inbound.LoginCommand{
		Username: strings.TrimSpace(r.PostFormValue("username")),
		Password: r.PostFormValue("password"),
	}

	user, err := h.users.Authenticate(r.Context(), cmd)
	if err != nil {
		if fieldErrs, ok := formErrors(err); ok {
			h.render(w, r, http.StatusUnauthorized, "login", PageData{
				Title:  "Log in",
				Errors: fieldErrs,
				Data:   authPage{Username: cmd.Username, Next: next},
			})
			return
		}
		h.fail(w, r, err)
		return
	}

	if !h.startSession(w, r, user) {
		return
	}
	http.Redirect(w, r, next, http.StatusFound)
}

func (h *WebHandlers) logout(w http.ResponseWriter, r *http.Request) {
	p := principal(r)
	if err := h.auth.RevokeToken(r.Context(), p.Claims()); err != nil {
		h.logger.Error("Failed to revoke session", zap.Error(err))
	}
	http.SetCookie(w, h.auth.ClearSessionCookie())
	h.logAction("User logged out", p.UserID)

	redirectWithFlash(w, r, "/login/", FlashInfo, "You have been logged out.")
}

// startSession issues the session cookie. It reports false after writing an
// error response.
func (h *WebHandlers) startSession(w http.ResponseWriter, r *http.Request, user *inbound.UserDTO) bool {
	token, claims, err := h.auth.IssueSessionToken(user.ID, user.Username)
	if err != nil {
		h.fail(w, r, err)
		return false
	}
	http.SetCookie(w, h.auth.SessionCookie(token, claims.ExpiresAt.Time))
	h.logAction("User logged in", user.ID, zap.String("username", user.Username))
	return true
}
