package cmd

import (
	"context"
	"fmt"
	"os"
	"path"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/urfave/cli"

	w "git.sr.ht/~mariusor/wrapper"

	"git.sr.ht/~mariusor/pamokos/ical"
	"git.sr.ht/~mariusor/pamokos/internal/config"
	"git.sr.ht/~mariusor/pamokos/storage/boltdb"
	"git.sr.ht/~mariusor/pamokos/timetable"
	"git.sr.ht/~mariusor/pamokos/timetable/digi1"
)

var Server = cli.Command{
	Name:  "start",
	Usage: "Starts the iCal serving server",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "Output debug messages",
		},
		&cli.StringFlag{
			Name:  "host",
			Usage: "Set hostname on which to listen to",
			Value: "localhost",
		},
		&cli.IntFlag{
			Name:  "port",
			Usage: "Set hostname on which to listen to",
			Value: 9999,
		},
		&cli.StringFlag{
			Name:  "url",
			Usage: "Base URL of the timetable platform",
			Value: digi1.DefaultBaseURL,
		},
		&cli.StringFlag{
			Name:  "refresh",
			Usage: "Cron schedule for refreshing the timetable snapshot",
			Value: "@hourly",
		},
	},
	Action: serverStart,
}

var wait = 100 * time.Millisecond

var info = func(s string, args ...interface{}) {
	fmt.Printf(s+"\n", args...)
}

var errFn = func(s string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, s+"\n", args...)
}

func serverStart(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	listen := fmt.Sprintf("%s:%d", c.String("host"), c.Int("port"))
	info("Listening on %s", listen)

	// Create a deadline to wait for.
	ctx, cancel := context.WithTimeout(context.Background(), wait)
	defer cancel()

	storePath := path.Join(c.GlobalString("path"), boltdb.DefaultFile)
	st := boltdb.New(boltdb.Config{Path: storePath, ErrFn: boltdb.LoggerFn(errFn)})

	// Get start/stop functions for the http server
	srvRun, srvStop := w.HttpServer(w.Handler(ical.Routes(cfg.PathSecret, st)), w.OnTCP(listen))

	cr := cron.New()
	if _, err := cr.AddFunc(c.String("refresh"), func() {
		if err := refresh(context.Background(), cfg, c.String("url"), storePath); err != nil {
			errFn("Unable to refresh timetable: %s", err)
		}
	}); err != nil {
		return fmt.Errorf("invalid refresh schedule %s: %w", c.String("refresh"), err)
	}

	w.RegisterSignalHandlers(w.SignalHandlers{
		syscall.SIGHUP: func(_ chan int) {
			info("SIGHUP received, reloading configuration")
		},
		syscall.SIGINT: func(exit chan int) {
			info("SIGINT received, stopping")
			exit <- 0
		},
		syscall.SIGTERM: func(exit chan int) {
			info("SIGITERM received, force stopping")
			exit <- 0
		},
		syscall.SIGQUIT: func(exit chan int) {
			info("SIGQUIT received, force stopping with core-dump")
			exit <- 0
		},
	}).Exec(func() error {
		cr.Start()
		defer cr.Stop()
		if err := srvRun(); err != nil {
			errFn("Error: %s", err)
			return err
		}
		var err error
		// Doesn't block if no connections, but will otherwise wait until the timeout deadline.
		go func(e error) {
			if err = srvStop(ctx); err != nil {
				errFn("Error: %s", err)
			}
		}(err)
		return err
	})

	return nil
}

// refresh re-runs the fetch pipeline into the store the handler serves from.
// Failures leave the previous snapshot in place and the next tick tries again.
func refresh(ctx context.Context, cfg config.Config, apiURL, storePath string) error {
	client, err := digi1.New(digi1.Config{
		URL:   apiURL,
		ErrFn: digi1.LoggerFn(errFn),
	})
	if err != nil {
		return err
	}
	if err := client.Authenticate(ctx, cfg.UserEmail, cfg.UserPassword); err != nil {
		return err
	}
	entries, err := client.Load(ctx, time.Now())
	if err != nil {
		return err
	}
	events, skipped := timetable.Convert(entries, timetable.Window{})
	for _, serr := range skipped {
		errFn("Skipping entry: %s", serr)
	}
	st := boltdb.New(boltdb.Config{Path: storePath, ErrFn: boltdb.LoggerFn(errFn)})
	if err := st.SaveEvents(events); err != nil {
		return err
	}
	info("Refreshed %d events", len(events))
	return nil
}
