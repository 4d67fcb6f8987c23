// Package validate holds the required-field checks run before a job or bid
// leaves draft. An empty map means the input is valid.
package validate

import (
	"strings"

	"homebid/internal/format"
	"homebid/pkg/types"
)

func required(v *string) bool {
	return v != nil && strings.TrimSpace(*v) != ""
}

// Job checks the fields a job needs before it can be opened for bids.
func Job(fields *types.JobFields) map[string]string {
	errs := make(map[string]string)
	if fields == nil {
		fields = new(types.JobFields)
	}

	if !required(fields.Title) {
		errs["title"] = "Title is required"
	}
	if !required(fields.JobType) {
		errs["job_type"] = "Job type is required"
	}
	if !required(fields.JobBudget) {
		errs["job_budget"] = "Budget is required"
	}
	if !required(fields.Description) {
		errs["description"] = "Description is required"
	}
	if !required(fields.LocationAddress) {
		errs["location_address"] = "Address is required"
	}
	if !required(fields.City) {
		errs["city"] = "City is required"
	}

	for k, v := range JobContent(fields) {
		if _, ok := errs[k]; !ok {
			errs[k] = v
		}
	}

	return errs
}

// JobContent checks the rules that apply to any job save, draft or not.
func JobContent(fields *types.JobFields) map[string]string {
	errs := make(map[string]string)
	if fields == nil {
		return errs
	}

	if required(fields.JobType) && !types.ValidJobType(strings.TrimSpace(*fields.JobType)) {
		errs["job_type"] = "Unknown job type"
	}
	if len(fields.Images) > types.MaxJobImages {
		errs["images"] = "A job can have at most 6 images"
	}

	return errs
}

// Bid checks the fields a bid needs before it can be submitted.
func Bid(fields *types.BidFields) map[string]string {
	errs := make(map[string]string)
	if fields == nil {
		fields = new(types.BidFields)
	}

	if !required(fields.Title) {
		errs["title"] = "Title is required"
	}
	if !required(fields.PriceMin) {
		errs["price_min"] = "Minimum price is required"
	}
	if !required(fields.PriceMax) {
		errs["price_max"] = "Maximum price is required"
	}
	if !required(fields.TimelineEstimate) {
		errs["timeline_estimate"] = "Timeline estimate is required"
	}

	if _, ok := errs["price_max"]; !ok && required(fields.PriceMin) {
		checkPriceOrder(errs, *fields.PriceMin, *fields.PriceMax)
	}

	return errs
}

func checkPriceOrder(errs map[string]string, priceMin, priceMax string) {
	low, lowOK := format.ParseCurrency(priceMin)
	high, highOK := format.ParseCurrency(priceMax)
	if lowOK && highOK && low > high {
		errs["price_max"] = "Maximum price must be at least the minimum price"
	}
}

// blank reports a field that was sent but holds only whitespace.
func blank(v *string) bool {
	return v != nil && strings.TrimSpace(*v) == ""
}

// OpenJobUpdate checks a partial update to a job that is already open.
// Omitted fields keep their value, but a required field cannot be cleared.
func OpenJobUpdate(fields *types.JobFields) map[string]string {
	errs := JobContent(fields)
	if fields == nil {
		return errs
	}

	for field, v := range map[string]*string{
		"title":            fields.Title,
		"job_type":         fields.JobType,
		"job_budget":       fields.JobBudget,
		"description":      fields.Description,
		"location_address": fields.LocationAddress,
		"city":             fields.City,
	} {
		if blank(v) {
			errs[field] = "This field cannot be cleared on an open job"
		}
	}

	return errs
}

// SubmittedBidUpdate checks a partial update to a submitted bid against the
// bid it changes. The price order is checked on the merged values.
func SubmittedBidUpdate(fields *types.BidFields, current *types.Bid) map[string]string {
	errs := make(map[string]string)
	if fields == nil {
		return errs
	}

	for field, v := range map[string]*string{
		"title":             fields.Title,
		"price_min":         fields.PriceMin,
		"price_max":         fields.PriceMax,
		"timeline_estimate": fields.TimelineEstimate,
	} {
		if blank(v) {
			errs[field] = "This field cannot be cleared on a submitted bid"
		}
	}
	if len(errs) > 0 || (fields.PriceMin == nil && fields.PriceMax == nil) {
		return errs
	}

	priceMin, priceMax := current.PriceMin, current.PriceMax
	if fields.PriceMin != nil {
		priceMin = *fields.PriceMin
	}
	if fields.PriceMax != nil {
		priceMax = *fields.PriceMax
	}
	checkPriceOrder(errs, priceMin, priceMax)

	return errs
}

// Error wraps a non-empty result in a *types.ValidationError.
func Error(errs map[string]string) error {
	if len(errs) == 0 {
		return nil
	}
	return &types.ValidationError{Fields: errs}
}
