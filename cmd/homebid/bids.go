package main

import (
	"homebid/internal/controller"
	"homebid/pkg/types"

	"github.com/urfave/cli/v2"
)

var bidFieldFlags = []cli.Flag{
	&cli.StringFlag{Name: "title"},
	&cli.StringFlag{Name: "price-min"},
	&cli.StringFlag{Name: "price-max"},
	&cli.StringFlag{Name: "timeline"},
}

var jobIDFlag = &cli.StringFlag{Name: "job", Usage: "Job id", Required: true}

func bidFieldsFromFlags(c *cli.Context) *types.BidFields {
	return &types.BidFields{
		Title:            flagString(c, "title"),
		PriceMin:         flagString(c, "price-min"),
		PriceMax:         flagString(c, "price-max"),
		TimelineEstimate: flagString(c, "timeline"),
	}
}

var bidsCommand = &cli.Command{
	Name:  "bids",
	Usage: "Manage a contractor's bids",
	Subcommands: []*cli.Command{
		{
			Name:  "list",
			Flags: withSession(),
			Action: lifecycleAction(func(c *cli.Context, ctrl *controller.Controllers, s types.Session) (any, error) {
				return ctrl.Bids.Bids(c.Context, s)
			}),
		},
		{
			Name:  "show",
			Flags: withSession(idFlag),
			Action: lifecycleAction(func(c *cli.Context, ctrl *controller.Controllers, s types.Session) (any, error) {
				return ctrl.Bids.Bid(c.Context, s, c.String("id"))
			}),
		},
		{
			Name:  "draft",
			Flags: withSession(append([]cli.Flag{jobIDFlag}, bidFieldFlags...)...),
			Action: lifecycleAction(func(c *cli.Context, ctrl *controller.Controllers, s types.Session) (any, error) {
				return ctrl.Bids.CreateDraft(c.Context, s, c.String("job"), bidFieldsFromFlags(c))
			}),
		},
		{
			Name:  "submit",
			Usage: "Submit a new bid; without a credit it is kept as a draft",
			Flags: withSession(append([]cli.Flag{jobIDFlag}, bidFieldFlags...)...),
			Action: lifecycleAction(func(c *cli.Context, ctrl *controller.Controllers, s types.Session) (any, error) {
				return ctrl.Bids.SubmitNew(c.Context, s, c.String("job"), bidFieldsFromFlags(c))
			}),
		},
		{
			Name:  "submit-draft",
			Flags: withSession(append([]cli.Flag{idFlag}, bidFieldFlags...)...),
			Action: lifecycleAction(func(c *cli.Context, ctrl *controller.Controllers, s types.Session) (any, error) {
				return ctrl.Bids.SubmitFromDraft(c.Context, s, c.String("id"), bidFieldsFromFlags(c))
			}),
		},
		{
			Name:  "update",
			Usage: "Update a draft or submitted bid",
			Flags: withSession(append([]cli.Flag{idFlag}, bidFieldFlags...)...),
			Action: lifecycleAction(func(c *cli.Context, ctrl *controller.Controllers, s types.Session) (any, error) {
				current, err := ctrl.Bids.Bid(c.Context, s, c.String("id"))
				if err != nil {
					return nil, err
				}
				if current.Status == types.BidStatusDraft {
					return ctrl.Bids.UpdateDraft(c.Context, s, current.ID, bidFieldsFromFlags(c))
				}
				return ctrl.Bids.UpdateSubmitted(c.Context, s, current.ID, bidFieldsFromFlags(c))
			}),
		},
		{
			Name:  "delete",
			Usage: "Delete a draft bid",
			Flags: withSession(idFlag),
			Action: lifecycleAction(func(c *cli.Context, ctrl *controller.Controllers, s types.Session) (any, error) {
				return nil, ctrl.Bids.DeleteDraft(c.Context, s, c.String("id"))
			}),
		},
		{
			Name:  "pay",
			Usage: "Start a single-bid checkout for a draft",
			Flags: withSession(idFlag, &cli.StringFlag{Name: "return-url", Required: true}),
			Action: lifecycleAction(func(c *cli.Context, ctrl *controller.Controllers, s types.Session) (any, error) {
				return ctrl.Bids.InitiateSingleBidPayment(c.Context, s, c.String("id"), c.String("return-url"))
			}),
		},
	},
}

var creditsCommand = &cli.Command{
	Name:  "credits",
	Usage: "Show or buy bid credits",
	Flags: withSession(),
	Action: lifecycleAction(func(c *cli.Context, ctrl *controller.Controllers, s types.Session) (any, error) {
		return ctrl.Credits.Balance(c.Context, s)
	}),
	Subcommands: []*cli.Command{
		{
			Name:  "buy",
			Flags: withSession(&cli.StringFlag{Name: "pack", Required: true}, &cli.StringFlag{Name: "return-url", Required: true}),
			Action: lifecycleAction(func(c *cli.Context, ctrl *controller.Controllers, s types.Session) (any, error) {
				return ctrl.Credits.PurchasePack(c.Context, s, c.String("pack"), c.String("return-url"))
			}),
		},
	},
}
