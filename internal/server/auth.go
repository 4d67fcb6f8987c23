package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"homebid/internal"
	"homebid/internal/identity"
	"homebid/internal/utils"

	"github.com/sirupsen/logrus"
)

type meResponse struct {
	ID         string `json:"id"`
	UserType   string `json:"user_type"`
	Email      string `json:"email,omitempty"`
	GivenName  string `json:"given_name,omitempty"`
	FamilyName string `json:"family_name,omitempty"`
}

func (s *Service) handlePostLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	tokens, err := s.identity.Login(ctx, email, password)
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrInvalidCredentials):
			s.writeMessage(w, http.StatusUnauthorized, "Invalid credentials")
		case errors.Is(err, identity.ErrUserNotConfirmed):
			s.writeMessage(w, http.StatusForbidden, "Confirm your account before logging in")
		default:
			s.logger.WithError(err).Error("failed to login user")
			s.internalServerError(w)
		}
		return
	}

	profile, err := s.identity.Profile(ctx, tokens.AccessToken)
	if err != nil {
		s.logger.WithError(err).Error("failed to load profile after login")
		s.internalServerError(w)
		return
	}

	user := userFromProfile(profile)
	if err := s.users.UpsertIdentity(ctx, user); err != nil {
		s.logger.WithError(err).WithField("user_id", user.ID).Error("failed to record user")
		s.internalServerError(w)
		return
	}

	encryptedToken, err := s.cookie.Encode(internal.COOKIE_ACCESS_TOKEN_NAME, tokens.AccessToken)
	if err != nil {
		s.logger.WithError(err).Error("failed to encrypt access token")
		s.internalServerError(w)
		return
	}

	// Set httpOnly, secure cookie with access token
	http.SetCookie(w, &http.Cookie{
		Name:     internal.COOKIE_ACCESS_TOKEN_NAME,
		Value:    encryptedToken,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   s.sessionMaxAge(tokens.ExpiresIn),
		Path:     "/",
	})

	s.logger.WithFields(logrus.Fields{
		"user_id":   user.ID,
		"user_type": utils.PtrString(user.UserType),
	}).Info("user logged in")

	// Check to see if this login attempt was the result of an unauthed redirect
	redirectCookie, err := r.Cookie(internal.COOKIE_REDIRECT_NAME)
	if err == nil && strings.HasPrefix(redirectCookie.Value, "/") {
		s.clearRedirectCookie(w)
		http.Redirect(w, r, redirectCookie.Value, http.StatusSeeOther)
		return
	}

	s.writeJSON(w, http.StatusOK, meResponse{
		ID:         user.ID,
		UserType:   utils.PtrString(user.UserType),
		Email:      utils.PtrString(user.Email),
		GivenName:  utils.PtrString(user.GivenName),
		FamilyName: utils.PtrString(user.FamilyName),
	})
}

// sessionMaxAge keeps the cookie no longer than the token or the configured
// session limit, whichever ends first.
func (s *Service) sessionMaxAge(tokenSeconds int) int {
	if limit := s.config.SessionMaxAgeSec; limit > 0 && (tokenSeconds <= 0 || tokenSeconds > limit) {
		return limit
	}
	return tokenSeconds
}

func (s *Service) handlePostLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     internal.COOKIE_ACCESS_TOKEN_NAME,
		Value:    "",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   -1,
	})
	w.WriteHeader(http.StatusNoContent)
}

func (s *Service) handleGetMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session := sessionFromContext(ctx)

	user, err := s.users.User(ctx, session.UserID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	email := utils.PtrString(user.Email)
	if claimed, ok := ctx.Value(contextKeyEmail).(string); ok && email == "" {
		email = claimed
	}

	s.writeJSON(w, http.StatusOK, meResponse{
		ID:         user.ID,
		UserType:   string(session.UserType),
		Email:      email,
		GivenName:  utils.PtrString(user.GivenName),
		FamilyName: utils.PtrString(user.FamilyName),
	})
}

func (s *Service) setRedirectCookie(w http.ResponseWriter, path string, age time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     internal.COOKIE_REDIRECT_NAME,
		Value:    path,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   int(age.Seconds()),
	})
}

func (s *Service) clearRedirectCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     internal.COOKIE_REDIRECT_NAME,
		Value:    "",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   -1,
	})
}
