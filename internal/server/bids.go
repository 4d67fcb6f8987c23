package server

import (
	"net/http"

	"homebid/internal/lifecycle"
	"homebid/pkg/types"
)

type bidDetail struct {
	*types.Bid
	Actions []lifecycle.BidAction `json:"actions"`
}

func (s *Service) decodeBid(w http.ResponseWriter, r *http.Request) (string, *types.BidFields, bool) {
	jobID, fields, err := decodeBidRequest(r)
	if err != nil {
		s.logger.WithError(err).Debug("invalid bid payload")
		s.writeMessage(w, http.StatusBadRequest, "invalid request body")
		return "", nil, false
	}
	return jobID, fields, true
}

func (s *Service) requireJobID(w http.ResponseWriter, r *http.Request, jobID string) bool {
	if jobID == "" {
		s.writeError(w, r, &types.ValidationError{Fields: map[string]string{"job_id": "Job is required"}})
		return false
	}
	return true
}

func (s *Service) handleGetBids(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	bids, err := s.bids.Bids(ctx, sessionFromContext(ctx))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, bids)
}

func (s *Service) handleGetBid(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	bid, err := s.bids.Bid(ctx, sessionFromContext(ctx), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, bidDetail{Bid: bid, Actions: lifecycle.BidActions(bid.Status)})
}

func (s *Service) handlePostBidDraft(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	jobID, fields, ok := s.decodeBid(w, r)
	if !ok || !s.requireJobID(w, r, jobID) {
		return
	}

	bid, err := s.bids.CreateDraft(ctx, sessionFromContext(ctx), jobID, fields)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, bid)
}

// handlePostBid creates and submits a bid. Both outcomes are created
// responses; the body's status tells the caller whether payment is needed.
func (s *Service) handlePostBid(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	jobID, fields, ok := s.decodeBid(w, r)
	if !ok || !s.requireJobID(w, r, jobID) {
		return
	}

	res, err := s.bids.SubmitNew(ctx, sessionFromContext(ctx), jobID, fields)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, res)
}

// handlePutBid saves bid content. With ?submit=true a draft goes through the
// credit gate; otherwise the update that fits the bid's current status runs.
func (s *Service) handlePutBid(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session := sessionFromContext(ctx)
	bidID := r.PathValue("id")

	_, fields, ok := s.decodeBid(w, r)
	if !ok {
		return
	}

	if queryFlag(r, "submit") {
		res, err := s.bids.SubmitFromDraft(ctx, session, bidID, fields)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusOK, res)
		return
	}

	current, err := s.bids.Bid(ctx, session, bidID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var bid *types.Bid
	if current.Status == types.BidStatusDraft {
		bid, err = s.bids.UpdateDraft(ctx, session, bidID, fields)
	} else {
		bid, err = s.bids.UpdateSubmitted(ctx, session, bidID, fields)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, bid)
}

func (s *Service) handleDeleteBid(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := s.bids.DeleteDraft(ctx, sessionFromContext(ctx), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
