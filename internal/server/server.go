package server

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"time"

	"homebid/internal/controller"
	"homebid/internal/identity"
	"homebid/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/go-playground/form/v4"
	"github.com/gorilla/securecookie"
	"github.com/sirupsen/logrus"
)

var decoder = form.NewDecoder()

type IdentityProvider interface {
	Login(ctx context.Context, email, password string) (*identity.Tokens, error)
	Register(ctx context.Context, reg identity.Registration) error
	Confirm(ctx context.Context, email, code string) error
	Profile(ctx context.Context, accessToken string) (*identity.Profile, error)
}

type TokenVerifier interface {
	Verify(ctx context.Context, accessToken string) (*identity.Claims, error)
}

type UserStore interface {
	User(ctx context.Context, userID string) (*types.User, error)
	UpsertIdentity(ctx context.Context, user *types.User) error
}

type PaymentStore interface {
	Create(ctx context.Context, payment *types.PendingBidPayment) error
	PendingPayment(ctx context.Context, id string) (*types.PendingBidPayment, error)
	MarkCompleted(ctx context.Context, id string) error
}

type ImageStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
	Delete(ctx context.Context, imageURL string) error
}

type CheckoutVerifier interface {
	Paid(ctx context.Context, sessionID string) (bool, error)
}

type Dependencies struct {
	Controllers *controller.Controllers
	Identity    IdentityProvider
	Verifier    TokenVerifier
	Users       UserStore
	Payments    PaymentStore
	Images      ImageStore
	Checkouts   CheckoutVerifier
	Metrics     http.Handler
}

type Service struct {
	logger *logrus.Logger
	config *types.Config

	jobs    *controller.JobController
	bids    *controller.BidController
	credits *controller.CreditController

	identity  IdentityProvider
	verifier  TokenVerifier
	users     UserStore
	payments  PaymentStore
	images    ImageStore
	checkouts CheckoutVerifier
	metrics   http.Handler

	cookie *securecookie.SecureCookie

	server *http.Server
}

func cookieKey(encoded string, size int) ([]byte, error) {
	if encoded == "" {
		return securecookie.GenerateRandomKey(size), nil
	}
	return base64.StdEncoding.DecodeString(encoded)
}

func New(config *types.Config, logger *logrus.Logger, deps Dependencies) (*Service, error) {
	mux := flow.New()

	if config.CookieHashKey == "" || config.CookieBlockKey == "" {
		logger.Warn("cookie keys not configured, generated keys will not survive a restart")
	}

	hashKey, err := cookieKey(config.CookieHashKey, 64)
	if err != nil {
		return nil, fmt.Errorf("decode cookie hash key: %w", err)
	}
	blockKey, err := cookieKey(config.CookieBlockKey, 32)
	if err != nil {
		return nil, fmt.Errorf("decode cookie block key: %w", err)
	}

	s := &Service{
		logger: logger,
		config: config,
		cookie: securecookie.New(hashKey, blockKey),

		jobs:    deps.Controllers.Jobs,
		bids:    deps.Controllers.Bids,
		credits: deps.Controllers.Credits,

		identity:  deps.Identity,
		verifier:  deps.Verifier,
		users:     deps.Users,
		payments:  deps.Payments,
		images:    deps.Images,
		checkouts: deps.Checkouts,
		metrics:   deps.Metrics,

		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", config.ServerPort),
			Handler:           mux,
			ReadTimeout:       time.Duration(config.ReadTimeoutSec) * time.Second,
			ReadHeaderTimeout: time.Duration(config.ReadTimeoutSec) * time.Second,
			WriteTimeout:      time.Duration(config.WriteTimeoutSec) * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
	}

	s.buildRouter(mux)

	return s, nil
}

func (s *Service) Handler() http.Handler {
	return s.server.Handler
}

func (s *Service) Start() error {
	return s.server.ListenAndServe()
}

func (s *Service) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Service) buildRouter(r *flow.Mux) {
	r.Use(s.StripTrailingSlash)
	r.Use(s.LoggingMiddleware)

	r.HandleFunc("/healthz", s.handleHealth, http.MethodGet)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics, http.MethodGet)
	}

	r.HandleFunc("/register", s.handlePostRegister, http.MethodPost)
	r.HandleFunc("/register/confirm", s.handlePostRegisterConfirm, http.MethodPost)
	r.HandleFunc("/login", s.handlePostLogin, http.MethodPost)
	r.HandleFunc("/logout", s.handlePostLogout, http.MethodPost)

	r.Group(func(r *flow.Mux) {
		r.Use(s.RequireAuth)

		r.HandleFunc("/me", s.handleGetMe, http.MethodGet)
		r.HandleFunc("/jobs/:id", s.handleGetJob, http.MethodGet)

		r.Group(func(r *flow.Mux) {
			r.Use(s.RequireUserType(types.UserTypeBuyer))

			r.HandleFunc("/jobs", s.handleGetJobs, http.MethodGet)
			r.HandleFunc("/jobs", s.handlePostJob, http.MethodPost)
			r.HandleFunc("/jobs/drafts", s.handlePostJobDraft, http.MethodPost)
			r.HandleFunc("/jobs/:id", s.handlePutJob, http.MethodPut)
			r.HandleFunc("/jobs/:id", s.handleDeleteJob, http.MethodDelete)
			r.HandleFunc("/jobs/:id/close", s.handlePostCloseJob, http.MethodPost)
			r.HandleFunc("/jobs/:id/bids", s.handleGetJobBids, http.MethodGet)
			r.HandleFunc("/jobs/:id/images", s.handlePostJobImages, http.MethodPost)
		})

		r.Group(func(r *flow.Mux) {
			r.Use(s.RequireUserType(types.UserTypeContractor))

			r.HandleFunc("/bids", s.handleGetBids, http.MethodGet)
			r.HandleFunc("/bids", s.handlePostBid, http.MethodPost)
			r.HandleFunc("/bids/drafts", s.handlePostBidDraft, http.MethodPost)
			r.HandleFunc("/bids/:id", s.handleGetBid, http.MethodGet)
			r.HandleFunc("/bids/:id", s.handlePutBid, http.MethodPut)
			r.HandleFunc("/bids/:id", s.handleDeleteBid, http.MethodDelete)
			r.HandleFunc("/bids/:id/payment", s.handlePostBidPayment, http.MethodPost)
			r.HandleFunc("/payments/return", s.handleGetPaymentReturn, http.MethodGet)

			r.HandleFunc("/credits", s.handleGetCredits, http.MethodGet)
			r.HandleFunc("/credits/checkout", s.handlePostCreditCheckout, http.MethodPost)
			r.HandleFunc("/credits/return", s.handleGetCreditReturn, http.MethodGet)
		})
	})
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
