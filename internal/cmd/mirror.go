package cmd

import (
	"github.com/urfave/cli"

	"git.sr.ht/~mariusor/pamokos/internal/config"
	"git.sr.ht/~mariusor/pamokos/timetable/digi1"
)

// MirrorCmd is the one-shot entry point an external scheduler triggers: one
// run is one fetch, one conversion and one file write. Retrying after
// transient failures is the scheduler's job, there is no retry loop here.
var MirrorCmd = cli.Command{
	Name:  "mirror",
	Usage: "Runs the full fetch, convert and publish pipeline once",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "url",
			Usage: "Base URL of the timetable platform",
			Value: digi1.DefaultBaseURL,
		},
		&cli.StringFlag{
			Name:  "output",
			Usage: "Directory under which the calendar file is published",
			Value: "docs",
		},
		&cli.StringFlag{
			Name:  "start",
			Usage: "Date at which to start",
			Value: defaultStartTime.Format("2006-01-02"),
		},
		&cli.DurationFlag{
			Name:  "end",
			Usage: "Date interval to check",
			Value: defaultDuration,
		},
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "Output debug messages",
		},
	},
	Action: mirrorTimetable,
}

func mirrorTimetable(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if _, err := fetchAndStore(c, cfg); err != nil {
		return err
	}
	return publishStored(c, cfg)
}
