package cmd

import (
	"context"
	"fmt"
	"path"
	"time"

	"git.sr.ht/~mariusor/lw"
	"github.com/urfave/cli"

	"git.sr.ht/~mariusor/pamokos/internal/config"
	"git.sr.ht/~mariusor/pamokos/storage/boltdb"
	"git.sr.ht/~mariusor/pamokos/timetable"
	"git.sr.ht/~mariusor/pamokos/timetable/digi1"
)

var FetchCmd = cli.Command{
	Name:  "fetch",
	Usage: "Fetches timetable entries and stores them as calendar events",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "url",
			Usage: "Base URL of the timetable platform",
			Value: digi1.DefaultBaseURL,
		},
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "Output debug messages",
		},
		&cli.BoolFlag{
			Name:  "dry-run",
			Usage: "Don't persist events",
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
	},
	Action: fetchTimetable,
}

const durationStep = 7 * 24 * time.Hour

func fetchTimetable(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	_, err = fetchAndStore(c, cfg)
	return err
}

// fetchAndStore runs the fetch and convert pipeline and persists the result,
// returning the number of stored events. Authentication and transport
// failures abort the whole run, the previously stored snapshot stays valid.
func fetchAndStore(c *cli.Context, cfg config.Config) (int, error) {
	logger := lw.Dev()
	infFn := logFn(logger.Infof)
	errFn := logFn(logger.Errorf)

	debug := c.Bool("debug") || c.GlobalBool("debug")

	start := defaultStartTime
	if sf := c.String("start"); len(sf) > 0 {
		if sfp, err := time.Parse("2006-01-02", sf); err == nil {
			start = sfp
		}
	}
	duration := c.Duration("end")
	if duration <= 0 {
		duration = defaultDuration
	}
	end := start.Add(duration)

	clientLog := logFn(func(string, ...interface{}) {})
	if debug {
		clientLog = infFn
	}
	client, err := digi1.New(digi1.Config{
		URL:   c.String("url"),
		LogFn: digi1.LoggerFn(clientLog),
		ErrFn: digi1.LoggerFn(errFn),
	})
	if err != nil {
		return 0, err
	}

	ctx := context.Background()
	if err := client.Authenticate(ctx, cfg.UserEmail, cfg.UserPassword); err != nil {
		return 0, fmt.Errorf("authentication against %s failed: %w", c.String("url"), err)
	}

	entries := make(timetable.Entries, 0)
	for date := digi1.WeekStart(start); date.Before(end); date = date.Add(durationStep) {
		if debug {
			infFn("Loading entries for week starting %s", date.Format("2006-01-02 Mon, 15:04"))
		}
		ev, err := client.Timetable(ctx, date)
		if err != nil {
			return 0, err
		}
		entries = append(entries, ev...)
	}

	events, skipped := timetable.Convert(entries, timetable.Window{Start: start, End: end})
	for _, serr := range skipped {
		errFn("Skipping entry: %s", serr)
	}
	if debug {
		infFn("%s", events)
	}
	if c.Bool("dry-run") {
		infFn("Dry run, not persisting %d events", len(events))
		return len(events), nil
	}

	st := boltdb.New(boltdb.Config{
		Path:  path.Join(c.GlobalString("path"), boltdb.DefaultFile),
		LogFn: boltdb.LoggerFn(clientLog),
		ErrFn: boltdb.LoggerFn(errFn),
	})
	stored := 0
	for _, e := range events {
		old := st.LoadEvent(e.StartTime, e.UID)
		if old.IsValid() && old.Equals(e) {
			continue
		}
		if err := st.SaveEvent(e); err != nil {
			errFn("Error saving %s: %s", e.UID, err)
			continue
		}
		stored++
	}
	infFn("Stored %d events out of %d converted", stored, len(events))
	return len(events), nil
}
