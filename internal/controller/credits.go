package controller

import (
	"context"

	"homebid/internal/readcache"
	"homebid/pkg/types"

	"github.com/sirupsen/logrus"
)

// CreditController reads the contractor's credit balance. The balance is
// owned by the backend; it is re-read after submissions and purchases.
type CreditController struct {
	backend CreditBackend
	cache   *readcache.Cache
	bus     *readcache.Bus
	log     *logrus.Entry
}

func NewCreditController(backend CreditBackend, cache *readcache.Cache, bus *readcache.Bus, logger *logrus.Logger) *CreditController {
	return &CreditController{
		backend: backend,
		cache:   cache,
		bus:     bus,
		log:     logger.WithField("component", "credits"),
	}
}

func (c *CreditController) Balance(ctx context.Context, s types.Session) (*types.CreditBalance, error) {
	if err := requireSession(s); err != nil {
		return nil, err
	}
	if balance, ok := c.cache.Credits(s.UserID); ok {
		return balance, nil
	}

	balance, err := c.backend.CreditBalance(ctx, s.Token)
	if err != nil {
		return nil, err
	}
	c.cache.PutCredits(s.UserID, balance)
	return balance, nil
}

// PurchasePack starts a checkout for a credit pack.
func (c *CreditController) PurchasePack(ctx context.Context, s types.Session, pack, returnURL string) (*types.Checkout, error) {
	if err := requireSession(s); err != nil {
		return nil, err
	}

	checkout, err := c.backend.CreateCreditCheckout(ctx, s.Token, pack, returnURL)
	if err != nil {
		return nil, err
	}

	c.log.WithFields(logrus.Fields{
		"contractor_id": s.UserID,
		"pack":          pack,
	}).Info("started credit pack checkout")
	return checkout, nil
}

// PurchaseCompleted drops the cached balance once the contractor is back
// from a completed checkout.
func (c *CreditController) PurchaseCompleted(s types.Session) {
	c.bus.Publish(readcache.Invalidation{
		Reason: "purchase completed",
		Keys:   []readcache.Key{readcache.Credits(s.UserID)},
	})
}
