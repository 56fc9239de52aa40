package cmd

import (
	"path"
	"time"

	"git.sr.ht/~mariusor/lw"
	"github.com/urfave/cli"

	"git.sr.ht/~mariusor/pamokos/ical"
	"git.sr.ht/~mariusor/pamokos/internal/config"
	"git.sr.ht/~mariusor/pamokos/storage"
	"git.sr.ht/~mariusor/pamokos/storage/boltdb"
)

// The published window keeps the previous week around so clients don't see
// just-finished lessons vanish mid-day.
var (
	defaultPublishStart    = defaultStartTime.AddDate(0, 0, -7)
	defaultPublishDuration = 35 * 24 * time.Hour
)

var PublishCmd = cli.Command{
	Name:  "publish",
	Usage: "Renders the stored events and writes the calendar file",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "output",
			Usage: "Directory under which the calendar file is published",
			Value: "docs",
		},
		&cli.StringFlag{
			Name:  "start",
			Usage: "Date at which the published window starts",
			Value: defaultPublishStart.Format("2006-01-02"),
		},
		&cli.DurationFlag{
			Name:  "end",
			Usage: "Length of the published window",
			Value: defaultPublishDuration,
		},
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "Output debug messages",
		},
	},
	Action: publishCalendar,
}

func publishCalendar(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	return publishStored(c, cfg)
}

// publishStored loads the events of the published window from the store and
// writes the serialized calendar, atomically, to its public location. A
// failure here leaves the previously published file untouched.
func publishStored(c *cli.Context, cfg config.Config) error {
	logger := lw.Dev()
	infFn := logFn(logger.Infof)
	errFn := logFn(logger.Errorf)

	start := defaultPublishStart
	if c.IsSet("start") {
		if sfp, err := time.Parse("2006-01-02", c.String("start")); err == nil {
			start = sfp
		}
	}
	duration := defaultPublishDuration
	if c.IsSet("end") && c.Duration("end") > 0 {
		duration = c.Duration("end")
	}

	st := boltdb.New(boltdb.Config{
		Path:  path.Join(c.GlobalString("path"), boltdb.DefaultFile),
		ErrFn: boltdb.LoggerFn(errFn),
	})
	events, err := st.LoadEvents(storage.Cursor(start, duration))
	if err != nil {
		return err
	}

	target, err := ical.Publish(c.String("output"), cfg.PathSecret, ical.Encode(events))
	if err != nil {
		return err
	}
	infFn("Calendar with %d events written to %s", len(events), target)
	return nil
}
