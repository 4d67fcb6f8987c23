package lifecycle

import "homebid/pkg/types"

type JobAction string

const (
	JobActionUpdateDraft JobAction = "update draft"
	JobActionPublish     JobAction = "publish"
	JobActionUpdateOpen  JobAction = "update"
	JobActionClose       JobAction = "close"
	JobActionDelete      JobAction = "delete"
)

// jobTransitions lists, per client action, the statuses it may start from and
// where it leaves the job. Delete has no destination status.
var jobTransitions = map[JobAction]map[types.JobStatus]types.JobStatus{
	JobActionUpdateDraft: {types.JobStatusDraft: types.JobStatusDraft},
	JobActionPublish:     {types.JobStatusDraft: types.JobStatusOpen},
	JobActionUpdateOpen:  {types.JobStatusOpen: types.JobStatusOpen},
	JobActionClose:       {types.JobStatusOpen: types.JobStatusClosed},
	JobActionDelete:      {types.JobStatusDraft: ""},
}

// jobServerTransitions are moves only the backend makes.
var jobServerTransitions = map[types.JobStatus][]types.JobStatus{
	types.JobStatusOpen:                {types.JobStatusFullBid, types.JobStatusWaitingConfirmation, types.JobStatusClosed},
	types.JobStatusFullBid:             {types.JobStatusWaitingConfirmation, types.JobStatusClosed},
	types.JobStatusWaitingConfirmation: {types.JobStatusConfirmed, types.JobStatusClosed},
}

// CheckJob returns the status a job ends in after action, or an
// *types.InvalidStateError when action is not allowed from status.
func CheckJob(id string, status types.JobStatus, action JobAction) (types.JobStatus, error) {
	next, ok := jobTransitions[action][status]
	if !ok {
		return "", &types.InvalidStateError{
			Entity: "job",
			ID:     id,
			Status: string(status),
			Action: string(action),
		}
	}
	return next, nil
}

// JobActions lists what a caller may do with a job in status.
func JobActions(status types.JobStatus) []JobAction {
	out := make([]JobAction, 0, 2)
	for _, action := range []JobAction{JobActionUpdateDraft, JobActionPublish, JobActionUpdateOpen, JobActionClose, JobActionDelete} {
		if _, ok := jobTransitions[action][status]; ok {
			out = append(out, action)
		}
	}
	return out
}

// ExpectedJobChange reports whether a job seen in from and later in to could
// have got there through a client action or a backend transition.
func ExpectedJobChange(from, to types.JobStatus) bool {
	if from == to || from == "" {
		return true
	}
	for _, byStatus := range jobTransitions {
		if next, ok := byStatus[from]; ok && next == to {
			return true
		}
	}
	for _, next := range jobServerTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
