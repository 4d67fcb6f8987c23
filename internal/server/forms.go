package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"homebid/pkg/types"
)

const maxFormBytes = 1 << 20

func isJSON(r *http.Request) bool {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return mediaType == "application/json"
}

// decodeFields fills dst from a JSON body or from url-encoded form values.
// Keys that are absent leave the matching pointer nil, so partial saves only
// carry what the caller sent.
func decodeFields(r *http.Request, dst any) error {
	if isJSON(r) {
		err := json.NewDecoder(io.LimitReader(r.Body, maxFormBytes)).Decode(dst)
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("decode json body: %w", err)
		}
		return nil
	}

	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("parse form: %w", err)
	}
	if err := decoder.Decode(dst, r.Form); err != nil {
		return fmt.Errorf("decode form: %w", err)
	}
	return nil
}

type bidRequest struct {
	JobID string `json:"job_id"`
	types.BidFields
}

// decodeBidRequest reads bid fields plus the optional job_id they are for.
func decodeBidRequest(r *http.Request) (string, *types.BidFields, error) {
	var req bidRequest
	if isJSON(r) {
		if err := decodeFields(r, &req); err != nil {
			return "", nil, err
		}
		return strings.TrimSpace(req.JobID), &req.BidFields, nil
	}

	if err := decodeFields(r, &req.BidFields); err != nil {
		return "", nil, err
	}
	return strings.TrimSpace(r.Form.Get("job_id")), &req.BidFields, nil
}

func emptyBidFields(f *types.BidFields) bool {
	return f == nil || (f.Title == nil && f.PriceMin == nil && f.PriceMax == nil && f.TimelineEstimate == nil)
}

func queryFlag(r *http.Request, key string) bool {
	switch strings.ToLower(r.URL.Query().Get(key)) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}
