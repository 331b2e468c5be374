// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/olegiv/churchcms/internal/auth"
	"github.com/olegiv/churchcms/internal/form"
	"github.com/olegiv/churchcms/internal/middleware"
	"github.com/olegiv/churchcms/internal/model"
	"github.com/olegiv/churchcms/internal/render"
	"github.com/olegiv/churchcms/internal/service"
	"github.com/olegiv/churchcms/internal/session"
	"github.com/olegiv/churchcms/internal/store"
)

// AccountStore is the subset of store.Queries sign-in and sign-up need.
type AccountStore interface {
	GetUserByEmail(ctx context.Context, email string) (store.User, error)
	CreateUser(ctx context.Context, arg store.CreateUserParams) (store.User, error)
	UpdateUserPassword(ctx context.Context, arg store.UpdateUserPasswordParams) error
}

// AuthHandler handles authentication routes.
type AuthHandler struct {
	accounts        AccountStore
	renderer        *render.Renderer
	sessions        *session.Provider
	loginProtection *middleware.LoginProtection
	activity        *service.ActivityService
	stats           *service.StatsService
}

// NewAuthHandler creates a new AuthHandler. lp and activity may be nil.
func NewAuthHandler(accounts AccountStore, renderer *render.Renderer, sessions *session.Provider, lp *middleware.LoginProtection, activity *service.ActivityService) *AuthHandler {
	return &AuthHandler{
		accounts:        accounts,
		renderer:        renderer,
		sessions:        sessions,
		loginProtection: lp,
		activity:        activity,
	}
}

// WithStats makes sign-ups refresh the dashboard member counters.
func (h *AuthHandler) WithStats(stats *service.StatsService) *AuthHandler {
	h.stats = stats
	return h
}

// signupFields drive validation of the sign-up form.
var signupFields = []form.Field{
	{Name: "name", Label: "Name", Kind: form.KindText, Required: true, Rule: "max=120"},
	{Name: "email", Label: "Email", Kind: form.KindEmail, Required: true},
	{Name: "password", Label: "Password", Kind: form.KindText, Required: true},
	{Name: "password_confirm", Label: "Confirm password", Kind: form.KindText, Required: true},
}

// LoginData is the data of the login page.
type LoginData struct {
	Email string
}

// SignupData is the data of the sign-up page.
type SignupData struct {
	Fields    []FieldView
	CanSubmit bool
}

// landing is where a signed-in user goes after authenticating.
func landing(user store.User) string {
	if session.IsAdmin(user) {
		return redirectAdmin
	}
	return RouteRoot
}

// LoginForm renders the login page. Signed-in users are sent on.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if s := session.FromContext(r.Context()); s != nil {
		http.Redirect(w, r, landing(s.User), http.StatusSeeOther)
		return
	}
	renderPage(w, r, h.renderer, http.StatusOK, "auth/login", render.TemplateData{
		Title: "Sign in",
		Data:  LoginData{},
	})
}

// Login handles the login form submission.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectLogin) {
		return
	}

	email := strings.TrimSpace(r.PostForm.Get("email"))
	password := r.PostForm.Get("password")
	if email == "" || password == "" {
		flashError(w, r, h.renderer, redirectLogin, "Email and password are required")
		return
	}

	clientIP := middleware.ClientIP(r)

	if h.loginProtection != nil {
		if locked, remaining := h.loginProtection.IsAccountLocked(email); locked {
			slog.Warn("login attempt on locked account", "category", model.ActivityCategorySecurity, "email", email, "ip", clientIP)
			flashError(w, r, h.renderer, redirectLogin, "Account is temporarily locked. Try again in "+formatDuration(remaining)+".")
			return
		}
	}

	user, err := h.accounts.GetUserByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			slog.Debug("login attempt for non-existent user", "email", email)
			auth.CheckDummy(password)
		} else {
			slog.Error("database error during login", "error", err)
		}
		// Unknown emails count as failures too so accounts cannot be enumerated.
		h.loginFailed(w, r, email, 0, clientIP)
		return
	}

	valid, err := auth.CheckPassword(password, user.PasswordHash)
	if err != nil {
		slog.Error("password check error", "error", err, "user_id", user.ID)
	}
	if !valid {
		slog.Debug("invalid password attempt", "email", email)
		h.loginFailed(w, r, email, user.ID, clientIP)
		return
	}

	if h.loginProtection != nil {
		h.loginProtection.RecordSuccessfulLogin(email)
	}

	if auth.NeedsRehash(user.PasswordHash) {
		if newHash, err := auth.HashPassword(password); err == nil {
			if err := h.accounts.UpdateUserPassword(r.Context(), store.UpdateUserPasswordParams{
				ID:           user.ID,
				PasswordHash: newHash,
				UpdatedAt:    time.Now().UTC(),
			}); err != nil {
				slog.Error("failed to re-hash password", "error", err, "user_id", user.ID)
			}
		}
	}

	if err := h.sessions.SignIn(r.Context(), user, clientIP); err != nil {
		logAndInternalError(w, "session renewal error", "error", err)
		return
	}

	slog.Info("user logged in", "user_id", user.ID, "email", user.Email)
	greeting := "Welcome back"
	if user.Name != "" {
		greeting += ", " + user.Name
	}
	flashSuccess(w, r, h.renderer, landing(user), greeting+"!")
}

// loginFailed records a failed attempt and tells the visitor how many
// attempts remain once only a few are left.
func (h *AuthHandler) loginFailed(w http.ResponseWriter, r *http.Request, email string, userID int64, ip string) {
	if h.activity != nil {
		_ = h.activity.Log(r.Context(), model.ActivityLevelWarning, model.ActivityCategoryAuth,
			"login failed", userID, ip, map[string]any{"email": email, "client": service.ParseClient(r.UserAgent()).String()})
	}

	if h.loginProtection != nil {
		if locked, lockDuration := h.loginProtection.RecordFailedAttempt(email); locked {
			slog.Warn("account locked due to failed attempts", "category", model.ActivityCategorySecurity,
				"email", email, "duration", lockDuration.String())
			flashError(w, r, h.renderer, redirectLogin, "Too many failed attempts. Try again in "+formatDuration(lockDuration)+".")
			return
		}
		if remaining := h.loginProtection.RemainingAttempts(email); remaining > 0 && remaining <= 3 {
			flashError(w, r, h.renderer, redirectLogin, fmt.Sprintf("Invalid email or password. %d attempts remaining.", remaining))
			return
		}
	}
	flashError(w, r, h.renderer, redirectLogin, "Invalid email or password")
}

// Logout handles user logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var userID int64
	if s := session.FromContext(r.Context()); s != nil {
		userID = s.User.ID
	}
	if err := h.sessions.SignOut(r.Context(), middleware.ClientIP(r)); err != nil {
		slog.Error("session destroy error", "error", err)
	}
	slog.Info("user logged out", "user_id", userID)
	flashAndRedirect(w, r, h.renderer, redirectLogin, "You have been signed out.", render.FlashInfo)
}

// SignupForm renders the sign-up page.
func (h *AuthHandler) SignupForm(w http.ResponseWriter, r *http.Request) {
	if s := session.FromContext(r.Context()); s != nil {
		http.Redirect(w, r, landing(s.User), http.StatusSeeOther)
		return
	}
	h.renderSignup(w, r, form.New(signupFields, nil))
}

// Signup creates a member account and signs it in.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteSignup) {
		return
	}
	c := form.New(signupFields, form.DraftFromValues(r.PostForm, signupFields))

	var created store.User
	err := c.Submit(r.Context(), func(ctx context.Context, d *form.Draft) error {
		password := d.Get("password")
		if password != d.Get("password_confirm") {
			return errPasswordMismatch
		}
		if err := auth.ValidatePassword(password); err != nil {
			return err
		}
		email := d.Trimmed("email")
		if _, err := h.accounts.GetUserByEmail(ctx, email); err == nil {
			return errEmailTaken
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		hash, err := auth.HashPassword(password)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		created, err = h.accounts.CreateUser(ctx, store.CreateUserParams{
			Email:        email,
			Name:         d.Trimmed("name"),
			PasswordHash: hash,
			Role:         model.RoleMember,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		return err
	})

	switch {
	case err == nil:
	case errors.Is(err, form.ErrValidation):
		h.renderSignup(w, r, c)
		return
	case errors.Is(err, errPasswordMismatch), errors.Is(err, errEmailTaken), errors.Is(err, auth.ErrPasswordTooShort), errors.Is(err, auth.ErrPasswordTooLong):
		c.Resume()
		c.SetMessage(sentence(err))
		h.renderSignup(w, r, c)
		return
	default:
		slog.Error("failed to create account", "error", err)
		c.Resume()
		c.SetMessage("Failed to create your account. Please try again.")
		h.renderSignup(w, r, c)
		return
	}

	slog.Info("member signed up", "user_id", created.ID)
	if h.stats != nil {
		h.stats.Invalidate(r.Context())
	}
	if err := h.sessions.SignIn(r.Context(), created, middleware.ClientIP(r)); err != nil {
		logAndInternalError(w, "session renewal error", "error", err)
		return
	}
	flashSuccess(w, r, h.renderer, RouteRoot, "Welcome, "+created.Name+"!")
}

var (
	errPasswordMismatch = errors.New("passwords do not match")
	errEmailTaken       = errors.New("an account with this email already exists")
)

// sentence capitalises an error message for display.
func sentence(err error) string {
	msg := err.Error()
	if msg == "" {
		return msg
	}
	return strings.ToUpper(msg[:1]) + msg[1:] + "."
}

func (h *AuthHandler) renderSignup(w http.ResponseWriter, r *http.Request, c *form.Controller) {
	fields := fieldViews(c)
	for i := range fields {
		if strings.HasPrefix(fields[i].Name, "password") {
			fields[i].Type = "password"
			fields[i].Value = ""
		}
	}
	data := render.TemplateData{
		Title: "Create an account",
		Data:  SignupData{Fields: fields, CanSubmit: c.CanSubmit()},
	}
	if msg := c.Message(); msg != "" {
		data.Flash = msg
		data.FlashType = render.FlashError
	}
	renderPage(w, r, h.renderer, http.StatusOK, "auth/signup", data)
}

// formatDuration formats a duration into a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%d seconds", int(d.Seconds()))
	}
	if d < time.Hour {
		mins := int(d.Minutes())
		if mins == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", mins)
	}
	hours := int(d.Hours())
	if hours == 1 {
		return "1 hour"
	}
	return fmt.Sprintf("%d hours", hours)
}
