package web

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/mmynk/minishop/internal/auth"
	"github.com/mmynk/minishop/internal/middleware"
)

func (h *Handler) loginForm(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	data := pageData{Title: "Log in"}
	switch {
	case q.Has("registerSuccess"):
		data.Notice = "Registration successful. Please log in."
	case q.Has("logout"):
		data.Notice = "You have been logged out."
	}
	h.render(w, r, http.StatusOK, "login", data)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	password := r.FormValue("password")

	user, err := h.Authenticator.Authenticate(r.Context(), username, password)
	if err != nil {
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			slog.Error("Login failed", "username", username, "error", err)
			h.renderError(w, r, http.StatusInternalServerError, "Something went wrong.")
			return
		}
		slog.Warn("Login rejected", "username", username)
		h.render(w, r, http.StatusUnauthorized, "login", pageData{
			Title: "Log in",
			Error: "Invalid username or password.",
			Form:  formValues{Username: username},
		})
		return
	}

	token, err := h.JWT.Generate(user)
	if err != nil {
		slog.Error("Failed to generate token", "user_id", user.ID, "error", err)
		h.renderError(w, r, http.StatusInternalServerError, "Something went wrong.")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.JWT.TokenDuration() / time.Second),
		HttpOnly: true,
		Secure:   h.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	slog.Info("User logged in", "username", user.Username)
	http.Redirect(w, r, "/products", http.StatusSeeOther)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, loginPath+"?logout", http.StatusFound)
}

func (h *Handler) registerForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "register", pageData{
		Title: "Register",
	})
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	form := formValues{
		Username: r.FormValue("username"),
		FullName: r.FormValue("fullName"),
	}

	_, err := h.Authenticator.Register(r.Context(), form.Username, form.FullName, r.FormValue("password"))
	if err != nil {
		status, message := http.StatusInternalServerError, "Registration failed. Please try again."
		switch {
		case errors.Is(err, auth.ErrUsernameTaken):
			status, message = http.StatusConflict, "That username is already taken."
		case errors.Is(err, auth.ErrEmptyUsername), errors.Is(err, auth.ErrEmptyPassword):
			status, message = http.StatusBadRequest, err.Error()
		default:
			slog.Error("Registration failed", "username", form.Username, "error", err)
		}
		h.render(w, r, status, "register", pageData{
			Title: "Register",
			Error: message,
			Form:  form,
		})
		return
	}

	h.Metrics.Registered()
	slog.Info("User registered", "username", form.Username)
	http.Redirect(w, r, loginPath+"?registerSuccess", http.StatusSeeOther)
}
