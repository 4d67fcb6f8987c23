package controller

import (
	"io"
	"testing"
	"time"

	"homebid/internal/controller/controllertest"
	"homebid/internal/metrics"
	"homebid/internal/readcache"
	"homebid/internal/utils"
	"homebid/pkg/types"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

var (
	buyer      = types.Session{Token: "buyer-token", UserID: "buyer-1", UserType: types.UserTypeBuyer}
	contractor = types.Session{Token: "contractor-token", UserID: "contractor-1", UserType: types.UserTypeContractor}
	otherBuyer = types.Session{Token: "buyer-2-token", UserID: "buyer-2", UserType: types.UserTypeBuyer}
	rival      = types.Session{Token: "rival-token", UserID: "contractor-2", UserType: types.UserTypeContractor}
)

type harness struct {
	backend *controllertest.Backend
	cache   *readcache.Cache
	bus     *readcache.Bus
	metrics *metrics.Lifecycle
	*Controllers
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	backend := controllertest.NewBackend()
	backend.AddUser(buyer.Token, buyer.UserID)
	backend.AddUser(contractor.Token, contractor.UserID)
	backend.AddUser(otherBuyer.Token, otherBuyer.UserID)
	backend.AddUser(rival.Token, rival.UserID)
	bus := readcache.NewBus()
	cache := readcache.New(time.Minute, bus, logger)
	m := metrics.NewLifecycle(prometheus.NewRegistry())

	return &harness{
		backend:     backend,
		cache:       cache,
		bus:         bus,
		metrics:     m,
		Controllers: New(backend, cache, bus, logger, m),
	}
}

func completeJob() *types.JobFields {
	return &types.JobFields{
		Title:           utils.StringPtr("Fix leaking kitchen sink"),
		JobType:         utils.StringPtr("Plumbing"),
		JobBudget:       utils.StringPtr("$300"),
		Description:     utils.StringPtr("Water pooling under the sink cabinet"),
		LocationAddress: utils.StringPtr("12 Elm St"),
		City:            utils.StringPtr("Springfield"),
	}
}

func completeBid() *types.BidFields {
	return &types.BidFields{
		Title:            utils.StringPtr("Replace trap and seals"),
		PriceMin:         utils.StringPtr("$150"),
		PriceMax:         utils.StringPtr("$250"),
		TimelineEstimate: utils.StringPtr("2 days"),
	}
}
