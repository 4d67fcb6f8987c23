package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"homebid/internal"
	"homebid/internal/identity"
	"homebid/internal/utils"
	"homebid/pkg/types"

	"github.com/sirupsen/logrus"
)

// Context key types to avoid collisions
type contextKey string

const (
	contextKeySession contextKey = "session"
	contextKeyEmail   contextKey = "email"
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (s *Service) LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		s.logger.WithFields(logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rw.statusCode,
			"duration_ms": time.Since(started).Milliseconds(),
		}).Info("http request")
	})
}

// accessToken prefers an Authorization bearer header and falls back to the
// encrypted session cookie set at login.
func (s *Service) accessToken(r *http.Request) (string, error) {
	if header := r.Header.Get("Authorization"); header != "" {
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			return "", errors.New("malformed authorization header")
		}
		return strings.TrimSpace(token), nil
	}

	cookie, err := r.Cookie(internal.COOKIE_ACCESS_TOKEN_NAME)
	if err != nil {
		return "", err
	}

	var accessToken string
	err = s.cookie.Decode(internal.COOKIE_ACCESS_TOKEN_NAME, cookie.Value, &accessToken)
	if err != nil {
		return "", err
	}
	return accessToken, nil
}

// RequireAuth verifies the access token and puts the caller's session in
// the request context.
func (s *Service) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		accessToken, err := s.accessToken(r)
		if err != nil {
			s.logger.WithError(err).Debug("no usable access token")
			if r.Method == http.MethodGet {
				s.setRedirectCookie(w, r.URL.RequestURI(), time.Minute*5)
			}
			s.writeError(w, r, types.ErrAuthRequired)
			return
		}

		claims, err := s.verifier.Verify(ctx, accessToken)
		if err != nil {
			if !errors.Is(err, identity.ErrInvalidToken) {
				s.logger.WithError(err).Error("failed to verify access token")
			}
			s.writeError(w, r, types.ErrAuthRequired)
			return
		}

		user, err := s.knownUser(ctx, claims.Subject, accessToken)
		if err != nil {
			s.logger.WithError(err).WithField("user_id", claims.Subject).Error("failed to load user")
			s.internalServerError(w)
			return
		}

		session := types.Session{
			Token:    accessToken,
			UserID:   claims.Subject,
			UserType: types.UserType(utils.PtrString(user.UserType)),
		}

		ctx = context.WithValue(ctx, contextKeySession, session)
		if claims.Email != "" {
			ctx = context.WithValue(ctx, contextKeyEmail, claims.Email)
		}

		s.logger.WithFields(logrus.Fields{
			"user_id":   session.UserID,
			"user_type": session.UserType,
		}).Debug("authenticated user")

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// knownUser loads the stored profile, recording it from the identity
// provider the first time a token is seen without a login.
func (s *Service) knownUser(ctx context.Context, userID, accessToken string) (*types.User, error) {
	user, err := s.users.User(ctx, userID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, types.ErrUserNotFound) {
		return nil, err
	}

	profile, err := s.identity.Profile(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	user = userFromProfile(profile)
	user.ID = userID

	if err := s.users.UpsertIdentity(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func userFromProfile(p *identity.Profile) *types.User {
	user := &types.User{
		ID:         p.ID,
		Email:      utils.TrimmedStringPtr(p.Email),
		GivenName:  utils.TrimmedStringPtr(p.GivenName),
		FamilyName: utils.TrimmedStringPtr(p.FamilyName),
	}
	if types.ValidUserType(p.UserType) {
		user.UserType = utils.StringPtr(string(p.UserType))
	}
	return user
}

// RequireUserType lets through only sessions of the given marketplace role.
func (s *Service) RequireUserType(userType types.UserType) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := sessionFromContext(r.Context())
			if session.UserType != userType {
				s.writeMessage(w, http.StatusForbidden, "only "+string(userType)+"s can do this")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func sessionFromContext(ctx context.Context) types.Session {
	session, _ := ctx.Value(contextKeySession).(types.Session)
	return session
}

func (s *Service) StripTrailingSlash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		// Only strip if path is not root and has trailing slash
		if path != "/" && strings.HasSuffix(path, "/") {
			newURL := *r.URL
			newURL.Path = strings.TrimSuffix(path, "/")

			http.Redirect(w, r, newURL.String(), http.StatusMovedPermanently)
			return
		}

		next.ServeHTTP(w, r)
	})
}
