package lifecycle

import "homebid/pkg/types"

type BidAction string

const (
	BidActionUpdateDraft     BidAction = "update draft"
	BidActionSubmit          BidAction = "submit"
	BidActionUpdateSubmitted BidAction = "update"
	BidActionDelete          BidAction = "delete"
)

// bidTransitions maps each action to the statuses it may start from and the
// statuses it may leave the bid in. Submit has two: submitted when a credit
// was spent, draft when payment is required.
var bidTransitions = map[BidAction]map[types.BidStatus][]types.BidStatus{
	BidActionUpdateDraft:     {types.BidStatusDraft: {types.BidStatusDraft}},
	BidActionSubmit:          {types.BidStatusDraft: {types.BidStatusSubmitted, types.BidStatusDraft}},
	BidActionUpdateSubmitted: {types.BidStatusSubmitted: {types.BidStatusSubmitted}},
	BidActionDelete:          {types.BidStatusDraft: nil},
}

var bidServerTransitions = map[types.BidStatus][]types.BidStatus{
	types.BidStatusSubmitted: {types.BidStatusPending, types.BidStatusSelected, types.BidStatusDeclined},
	types.BidStatusPending:   {types.BidStatusSelected, types.BidStatusDeclined},
	types.BidStatusSelected:  {types.BidStatusConfirmed, types.BidStatusDeclined},
}

func CheckBid(id string, status types.BidStatus, action BidAction) error {
	if _, ok := bidTransitions[action][status]; !ok {
		return &types.InvalidStateError{
			Entity: "bid",
			ID:     id,
			Status: string(status),
			Action: string(action),
		}
	}
	return nil
}

// SubmitOutcomeStatus is the bid status that must accompany a submit outcome.
func SubmitOutcomeStatus(outcome types.SubmitOutcome) types.BidStatus {
	if outcome == types.SubmitOutcomePaymentRequired {
		return types.BidStatusDraft
	}
	return types.BidStatusSubmitted
}

func BidActions(status types.BidStatus) []BidAction {
	out := make([]BidAction, 0, 3)
	for _, action := range []BidAction{BidActionUpdateDraft, BidActionSubmit, BidActionUpdateSubmitted, BidActionDelete} {
		if _, ok := bidTransitions[action][status]; ok {
			out = append(out, action)
		}
	}
	return out
}

func ExpectedBidChange(from, to types.BidStatus) bool {
	if from == to || from == "" {
		return true
	}
	for _, byStatus := range bidTransitions {
		for _, next := range byStatus[from] {
			if next == to {
				return true
			}
		}
	}
	for _, next := range bidServerTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
