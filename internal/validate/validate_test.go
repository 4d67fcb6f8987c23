package validate

import (
	"errors"
	"testing"

	"homebid/internal/utils"
	"homebid/pkg/types"

	"github.com/stretchr/testify/require"
)

func completeJob() *types.JobFields {
	return &types.JobFields{
		Title:           utils.StringPtr("Kitchen Plumbing Repair"),
		JobType:         utils.StringPtr("Plumbing"),
		JobBudget:       utils.StringPtr("500"),
		Description:     utils.StringPtr("Fix leak"),
		LocationAddress: utils.StringPtr("123 Main St"),
		City:            utils.StringPtr("Toronto"),
	}
}

func TestJobComplete(t *testing.T) {
	require.Empty(t, Job(completeJob()))
}

func TestJobMissingFields(t *testing.T) {
	fields := completeJob()
	fields.Title = nil
	fields.City = utils.StringPtr("   ")

	errs := Job(fields)
	require.Len(t, errs, 2)
	require.Contains(t, errs, "title")
	require.Contains(t, errs, "city")
}

func TestJobEmpty(t *testing.T) {
	errs := Job(nil)
	for _, field := range []string{"title", "job_type", "job_budget", "description", "location_address", "city"} {
		require.Contains(t, errs, field)
	}
	require.Len(t, errs, 6)
}

func TestJobContent(t *testing.T) {
	fields := &types.JobFields{
		JobType: utils.StringPtr("Alchemy"),
		Images:  []string{"1", "2", "3", "4", "5", "6", "7"},
	}

	errs := JobContent(fields)
	require.Contains(t, errs, "job_type")
	require.Contains(t, errs, "images")

	require.Empty(t, JobContent(&types.JobFields{}))
}

func TestBid(t *testing.T) {
	fields := &types.BidFields{
		Title:            utils.StringPtr("Bid A"),
		PriceMin:         utils.StringPtr("500"),
		PriceMax:         utils.StringPtr("800"),
		TimelineEstimate: utils.StringPtr("3 days"),
	}
	require.Empty(t, Bid(fields))

	fields.TimelineEstimate = utils.StringPtr("")
	require.Equal(t, map[string]string{"timeline_estimate": "Timeline estimate is required"}, Bid(fields))
}

func TestBidPriceOrder(t *testing.T) {
	fields := &types.BidFields{
		Title:            utils.StringPtr("Bid A"),
		PriceMin:         utils.StringPtr("$900"),
		PriceMax:         utils.StringPtr("$800"),
		TimelineEstimate: utils.StringPtr("3 days"),
	}

	errs := Bid(fields)
	require.Len(t, errs, 1)
	require.Contains(t, errs, "price_max")

	fields.PriceMax = utils.StringPtr("$900")
	require.Empty(t, Bid(fields))
}

func TestOpenJobUpdate(t *testing.T) {
	require.Empty(t, OpenJobUpdate(nil))
	require.Empty(t, OpenJobUpdate(&types.JobFields{JobBudget: utils.StringPtr("$450")}))

	errs := OpenJobUpdate(&types.JobFields{
		Title:   utils.StringPtr(""),
		City:    utils.StringPtr("  "),
		JobType: utils.StringPtr("Alchemy"),
	})
	require.Len(t, errs, 3)
	require.Contains(t, errs, "title")
	require.Contains(t, errs, "city")
	require.Equal(t, "Unknown job type", errs["job_type"])
}

func TestSubmittedBidUpdate(t *testing.T) {
	current := &types.Bid{Title: "Bid A", PriceMin: "$150", PriceMax: "$250", TimelineEstimate: "2 days"}

	require.Empty(t, SubmittedBidUpdate(nil, current))
	require.Empty(t, SubmittedBidUpdate(&types.BidFields{PriceMax: utils.StringPtr("$300")}, current))

	errs := SubmittedBidUpdate(&types.BidFields{Title: utils.StringPtr(" ")}, current)
	require.Equal(t, []string{"title"}, keys(errs))

	errs = SubmittedBidUpdate(&types.BidFields{PriceMin: utils.StringPtr("$900")}, current)
	require.Contains(t, errs, "price_max")

	errs = SubmittedBidUpdate(&types.BidFields{PriceMax: utils.StringPtr("$100")}, current)
	require.Contains(t, errs, "price_max")

	require.Empty(t, SubmittedBidUpdate(&types.BidFields{
		PriceMin: utils.StringPtr("$900"),
		PriceMax: utils.StringPtr("$1,000"),
	}, current))
}

func keys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestError(t *testing.T) {
	require.NoError(t, Error(nil))

	err := Error(map[string]string{"title": "Title is required"})
	var verr *types.ValidationError
	require.True(t, errors.As(err, &verr))
	require.Equal(t, "Title is required", verr.Fields["title"])
	require.Equal(t, "validation failed: title", err.Error())
}
