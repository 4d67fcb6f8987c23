package server

import (
	"net/http"

	"homebid/internal/lifecycle"
	"homebid/pkg/types"

	"github.com/sirupsen/logrus"
)

// jobDetail is a job plus what the buyer can still do with it.
type jobDetail struct {
	*types.Job
	Actions []lifecycle.JobAction `json:"actions"`
}

func (s *Service) decodeJobFields(w http.ResponseWriter, r *http.Request) (*types.JobFields, bool) {
	fields := new(types.JobFields)
	if err := decodeFields(r, fields); err != nil {
		s.logger.WithError(err).Debug("invalid job payload")
		s.writeMessage(w, http.StatusBadRequest, "invalid request body")
		return nil, false
	}
	return fields, true
}

func (s *Service) handleGetJobs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	jobs, err := s.jobs.Jobs(ctx, sessionFromContext(ctx))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, jobs)
}

func (s *Service) handleGetJob(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	job, err := s.jobs.Job(ctx, sessionFromContext(ctx), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, jobDetail{Job: job, Actions: lifecycle.JobActions(job.Status)})
}

func (s *Service) handlePostJobDraft(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	fields, ok := s.decodeJobFields(w, r)
	if !ok {
		return
	}

	job, err := s.jobs.CreateDraft(ctx, sessionFromContext(ctx), fields)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, job)
}

func (s *Service) handlePostJob(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	fields, ok := s.decodeJobFields(w, r)
	if !ok {
		return
	}

	job, err := s.jobs.CreateAndPublish(ctx, sessionFromContext(ctx), fields)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, job)
}

// handlePutJob saves job content. With ?publish=true a draft is validated
// and opened; otherwise the update that fits the job's current status runs.
func (s *Service) handlePutJob(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session := sessionFromContext(ctx)
	jobID := r.PathValue("id")

	fields, ok := s.decodeJobFields(w, r)
	if !ok {
		return
	}

	var (
		job *types.Job
		err error
	)
	if queryFlag(r, "publish") {
		job, err = s.jobs.PublishDraft(ctx, session, jobID, fields)
	} else {
		job, err = s.updateJob(r, session, jobID, fields)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, job)
}

func (s *Service) updateJob(r *http.Request, session types.Session, jobID string, fields *types.JobFields) (*types.Job, error) {
	ctx := r.Context()

	current, err := s.jobs.Job(ctx, session, jobID)
	if err != nil {
		return nil, err
	}

	if current.Status == types.JobStatusDraft {
		return s.jobs.UpdateDraft(ctx, session, jobID, fields)
	}
	return s.jobs.UpdateOpenJob(ctx, session, jobID, fields)
}

func (s *Service) handlePostCloseJob(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	job, err := s.jobs.CloseJob(ctx, sessionFromContext(ctx), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, job)
}

// handleDeleteJob deletes a draft job and then its uploaded images.
func (s *Service) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session := sessionFromContext(ctx)
	jobID := r.PathValue("id")

	job, err := s.jobs.Job(ctx, session, jobID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	images := append([]string(nil), job.Images...)

	if err := s.jobs.DeleteJob(ctx, session, jobID); err != nil {
		s.writeError(w, r, err)
		return
	}

	for _, image := range images {
		if err := s.images.Delete(ctx, image); err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"job_id": jobID,
				"image":  image,
			}).Error("failed to delete job image from storage")
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Service) handleGetJobBids(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	bids, err := s.jobs.Bids(ctx, sessionFromContext(ctx), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, bids)
}
