package main

import (
	"homebid/internal/controller"
	"homebid/pkg/types"

	"github.com/urfave/cli/v2"
)

var jobFieldFlags = []cli.Flag{
	&cli.StringFlag{Name: "title"},
	&cli.StringFlag{Name: "job-type", Usage: "One of the marketplace job types"},
	&cli.StringFlag{Name: "budget"},
	&cli.StringFlag{Name: "description"},
	&cli.StringFlag{Name: "address"},
	&cli.StringFlag{Name: "city"},
	&cli.StringFlag{Name: "requirements"},
	&cli.StringSliceFlag{Name: "image", Usage: "Image URL, repeatable"},
}

func jobFieldsFromFlags(c *cli.Context) *types.JobFields {
	return &types.JobFields{
		Title:             flagString(c, "title"),
		JobType:           flagString(c, "job-type"),
		JobBudget:         flagString(c, "budget"),
		Description:       flagString(c, "description"),
		LocationAddress:   flagString(c, "address"),
		City:              flagString(c, "city"),
		OtherRequirements: flagString(c, "requirements"),
		Images:            c.StringSlice("image"),
	}
}

var jobsCommand = &cli.Command{
	Name:  "jobs",
	Usage: "Manage a buyer's jobs",
	Subcommands: []*cli.Command{
		{
			Name:  "list",
			Flags: withSession(),
			Action: lifecycleAction(func(c *cli.Context, ctrl *controller.Controllers, s types.Session) (any, error) {
				return ctrl.Jobs.Jobs(c.Context, s)
			}),
		},
		{
			Name:  "show",
			Flags: withSession(idFlag),
			Action: lifecycleAction(func(c *cli.Context, ctrl *controller.Controllers, s types.Session) (any, error) {
				return ctrl.Jobs.Job(c.Context, s, c.String("id"))
			}),
		},
		{
			Name:  "draft",
			Usage: "Save a job draft; every field is optional",
			Flags: withSession(jobFieldFlags...),
			Action: lifecycleAction(func(c *cli.Context, ctrl *controller.Controllers, s types.Session) (any, error) {
				return ctrl.Jobs.CreateDraft(c.Context, s, jobFieldsFromFlags(c))
			}),
		},
		{
			Name:  "create",
			Usage: "Create and publish a job",
			Flags: withSession(jobFieldFlags...),
			Action: lifecycleAction(func(c *cli.Context, ctrl *controller.Controllers, s types.Session) (any, error) {
				return ctrl.Jobs.CreateAndPublish(c.Context, s, jobFieldsFromFlags(c))
			}),
		},
		{
			Name:  "publish",
			Usage: "Validate and open a draft job",
			Flags: withSession(append([]cli.Flag{idFlag}, jobFieldFlags...)...),
			Action: lifecycleAction(func(c *cli.Context, ctrl *controller.Controllers, s types.Session) (any, error) {
				return ctrl.Jobs.PublishDraft(c.Context, s, c.String("id"), jobFieldsFromFlags(c))
			}),
		},
		{
			Name:  "update",
			Usage: "Update a draft or open job",
			Flags: withSession(append([]cli.Flag{idFlag}, jobFieldFlags...)...),
			Action: lifecycleAction(func(c *cli.Context, ctrl *controller.Controllers, s types.Session) (any, error) {
				current, err := ctrl.Jobs.Job(c.Context, s, c.String("id"))
				if err != nil {
					return nil, err
				}
				if current.Status == types.JobStatusDraft {
					return ctrl.Jobs.UpdateDraft(c.Context, s, current.ID, jobFieldsFromFlags(c))
				}
				return ctrl.Jobs.UpdateOpenJob(c.Context, s, current.ID, jobFieldsFromFlags(c))
			}),
		},
		{
			Name:  "close",
			Flags: withSession(idFlag),
			Action: lifecycleAction(func(c *cli.Context, ctrl *controller.Controllers, s types.Session) (any, error) {
				return ctrl.Jobs.CloseJob(c.Context, s, c.String("id"))
			}),
		},
		{
			Name:  "delete",
			Usage: "Delete a draft job",
			Flags: withSession(idFlag),
			Action: lifecycleAction(func(c *cli.Context, ctrl *controller.Controllers, s types.Session) (any, error) {
				return nil, ctrl.Jobs.DeleteJob(c.Context, s, c.String("id"))
			}),
		},
		{
			Name:  "bids",
			Usage: "List bids on a job",
			Flags: withSession(idFlag),
			Action: lifecycleAction(func(c *cli.Context, ctrl *controller.Controllers, s types.Session) (any, error) {
				return ctrl.Jobs.Bids(c.Context, s, c.String("id"))
			}),
		},
	},
}
