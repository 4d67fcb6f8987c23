package server

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"homebid/internal/billing"
	"homebid/internal/utils"
	"homebid/pkg/types"

	"github.com/sirupsen/logrus"
)

// checkoutSessionPlaceholder is replaced by the billing provider with the
// session id when it redirects back.
const checkoutSessionPlaceholder = "{CHECKOUT_SESSION_ID}"

type bidPaymentResponse struct {
	CheckoutURL string `json:"checkoutUrl"`
	PendingID   string `json:"pending_id"`
}

func (s *Service) returnURL(path string, query url.Values) string {
	base := strings.TrimSuffix(s.config.PublicBaseURL, "/") + path + "?"
	if len(query) > 0 {
		base += query.Encode() + "&"
	}
	return base + "session_id=" + checkoutSessionPlaceholder
}

// handlePostBidPayment starts a single-bid checkout for a draft and remembers
// which fields to submit once the contractor comes back. Without fields in
// the request the draft's saved content is used.
func (s *Service) handlePostBidPayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session := sessionFromContext(ctx)
	bidID := r.PathValue("id")

	_, fields, ok := s.decodeBid(w, r)
	if !ok {
		return
	}

	if emptyBidFields(fields) {
		bid, err := s.bids.Bid(ctx, session, bidID)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		fields = &types.BidFields{
			Title:            utils.StringPtr(bid.Title),
			PriceMin:         utils.StringPtr(bid.PriceMin),
			PriceMax:         utils.StringPtr(bid.PriceMax),
			TimelineEstimate: utils.StringPtr(bid.TimelineEstimate),
		}
	}

	pendingID := utils.NanoID()
	checkout, err := s.bids.InitiateSingleBidPayment(ctx, session, bidID, s.returnURL("/payments/return", url.Values{"pending": {pendingID}}))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	err = s.payments.Create(ctx, &types.PendingBidPayment{
		ID:                pendingID,
		BidID:             bidID,
		ContractorID:      session.UserID,
		CheckoutSessionID: checkout.SessionID,
		Fields:            *fields,
	})
	if err != nil {
		s.logger.WithError(err).WithField("bid_id", bidID).Error("failed to record pending bid payment")
		s.internalServerError(w)
		return
	}

	s.writeJSON(w, http.StatusCreated, bidPaymentResponse{CheckoutURL: checkout.CheckoutURL, PendingID: pendingID})
}

// handleGetPaymentReturn runs when the contractor lands back from checkout.
// A paid session re-invokes the draft submission with the remembered fields;
// the payment alone never marks the bid submitted.
func (s *Service) handleGetPaymentReturn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session := sessionFromContext(ctx)
	query := r.URL.Query()

	pending, err := s.payments.PendingPayment(ctx, query.Get("pending"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if pending.ContractorID != session.UserID {
		s.writeError(w, r, types.ErrPendingPaymentNotFound)
		return
	}

	entry := s.logger.WithFields(logrus.Fields{
		"pending_id": pending.ID,
		"bid_id":     pending.BidID,
	})

	if pending.CompletedAt != nil {
		bid, err := s.bids.Bid(ctx, session, pending.BidID)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusOK, &types.SubmitResult{Status: types.SubmitOutcomeSubmitted, Bid: bid})
		return
	}

	// Only the checkout opened for this pending payment can release it.
	sessionID := strings.TrimSpace(query.Get("session_id"))
	if pending.CheckoutSessionID != "" && sessionID != "" && sessionID != pending.CheckoutSessionID {
		entry.WithField("session_id", sessionID).Warn("checkout session does not match pending payment")
		s.writeMessage(w, http.StatusBadRequest, "checkout session does not match this payment")
		return
	}

	if !s.checkoutPaid(w, r, sessionID) {
		return
	}

	res, err := s.bids.SubmitFromDraft(ctx, session, pending.BidID, &pending.Fields)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if res.PaymentRequired() {
		// The backend has not seen the payment yet; the caller can come back.
		entry.Info("paid bid still gated, leaving payment pending")
		s.writeJSON(w, http.StatusAccepted, res)
		return
	}

	if err := s.payments.MarkCompleted(ctx, pending.ID); err != nil && !errors.Is(err, types.ErrPendingPaymentNotFound) {
		entry.WithError(err).Error("failed to mark pending payment completed")
	}
	entry.Info("paid bid submitted")

	s.writeJSON(w, http.StatusOK, res)
}

func (s *Service) checkoutPaid(w http.ResponseWriter, r *http.Request, sessionID string) bool {
	paid, err := s.checkouts.Paid(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, billing.ErrMissingSession) {
			s.writeMessage(w, http.StatusBadRequest, "missing session_id")
			return false
		}
		s.logger.WithError(err).Error("failed to verify checkout session")
		s.writeMessage(w, http.StatusBadGateway, "could not verify payment")
		return false
	}
	if !paid {
		s.writeMessage(w, http.StatusPaymentRequired, "payment not completed")
		return false
	}
	return true
}

func (s *Service) handleGetCredits(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	balance, err := s.credits.Balance(ctx, sessionFromContext(ctx))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, balance)
}

func (s *Service) handlePostCreditCheckout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	pack := strings.TrimSpace(r.FormValue("pack"))
	if pack == "" {
		s.writeError(w, r, &types.ValidationError{Fields: map[string]string{"pack": "Choose a credit pack"}})
		return
	}

	checkout, err := s.credits.PurchasePack(ctx, sessionFromContext(ctx), pack, s.returnURL("/credits/return", nil))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, checkout)
}

func (s *Service) handleGetCreditReturn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session := sessionFromContext(ctx)

	if !s.checkoutPaid(w, r, r.URL.Query().Get("session_id")) {
		return
	}

	s.credits.PurchaseCompleted(session)

	balance, err := s.credits.Balance(ctx, session)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, balance)
}
