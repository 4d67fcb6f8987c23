package server

import (
	"fmt"
	"net/http"
	"strings"

	"homebid/internal/storage"
	"homebid/pkg/types"

	"github.com/sirupsen/logrus"
)

const maxImageUploadBytes = 32 << 20

// handlePostJobImages uploads the multipart "images" files and appends their
// URLs to the job through the update that fits its status.
func (s *Service) handlePostJobImages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session := sessionFromContext(ctx)
	jobID := r.PathValue("id")

	if err := r.ParseMultipartForm(maxImageUploadBytes); err != nil {
		s.writeMessage(w, http.StatusBadRequest, "invalid multipart upload")
		return
	}
	files := r.MultipartForm.File["images"]
	if len(files) == 0 {
		s.writeError(w, r, &types.ValidationError{Fields: map[string]string{"images": "Choose at least one image"}})
		return
	}
	for _, fh := range files {
		if !strings.HasPrefix(fh.Header.Get("Content-Type"), "image/") {
			s.writeError(w, r, &types.ValidationError{Fields: map[string]string{"images": fmt.Sprintf("%s is not an image", fh.Filename)}})
			return
		}
	}

	job, err := s.jobs.Job(ctx, session, jobID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if job.Status != types.JobStatusDraft && job.Status != types.JobStatusOpen {
		s.writeError(w, r, &types.InvalidStateError{Entity: "job", ID: jobID, Status: string(job.Status), Action: "add images to"})
		return
	}
	if len(job.Images)+len(files) > types.MaxJobImages {
		s.writeError(w, r, &types.ValidationError{Fields: map[string]string{"images": fmt.Sprintf("A job can have at most %d images", types.MaxJobImages)}})
		return
	}

	uploaded := make([]string, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			s.discardImages(r, jobID, uploaded)
			s.writeMessage(w, http.StatusBadRequest, "unreadable upload")
			return
		}

		url, err := s.images.Upload(ctx, storage.ImageKey(jobID, fh.Filename), fh.Header.Get("Content-Type"), f)
		_ = f.Close()
		if err != nil {
			s.logger.WithError(err).WithField("job_id", jobID).Error("failed to upload job image")
			s.discardImages(r, jobID, uploaded)
			s.internalServerError(w)
			return
		}
		uploaded = append(uploaded, url)
	}

	fields := &types.JobFields{Images: append(append([]string{}, job.Images...), uploaded...)}
	updated, err := s.updateJob(r, session, jobID, fields)
	if err != nil {
		s.discardImages(r, jobID, uploaded)
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, updated)
}

func (s *Service) discardImages(r *http.Request, jobID string, urls []string) {
	for _, url := range urls {
		if err := s.images.Delete(r.Context(), url); err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"job_id": jobID,
				"image":  url,
			}).Warn("failed to discard uploaded image")
		}
	}
}
