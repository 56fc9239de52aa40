package digi1

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"

	"git.sr.ht/~mariusor/pamokos/timetable"
)

type LoggerFn func(string, ...interface{})

// Client drives an authenticated Digi1 session. The platform is an
// Inertia.js application: every JSON request has to carry the asset version
// scraped from the landing page together with the XSRF token that comes with
// the session cookie.
type Client struct {
	base    *url.URL
	http    *http.Client
	version string
	xsrf    string
	log     LoggerFn
	err     LoggerFn
}

type Config struct {
	URL   string
	LogFn LoggerFn
	ErrFn LoggerFn
}

const xsrfCookie = "XSRF-TOKEN"

func New(c Config) (*Client, error) {
	base, err := parseBase(c.URL)
	if err != nil {
		return nil, err
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("unable to initialize cookie jar: %w", err)
	}
	cl := Client{
		base: base,
		http: &http.Client{Jar: jar, Timeout: 30 * time.Second},
		log:  func(string, ...interface{}) {},
		err:  func(string, ...interface{}) {},
	}
	if c.LogFn != nil {
		cl.log = c.LogFn
	}
	if c.ErrFn != nil {
		cl.err = c.ErrFn
	}
	return &cl, nil
}

// Authenticate bootstraps the session and logs in. Any failure here is fatal
// for the run, the previously published calendar stays in place.
func (c *Client) Authenticate(ctx context.Context, email, password string) error {
	if err := c.bootstrap(ctx); err != nil {
		return err
	}

	body, err := json.Marshal(loginRequest{Email: email, Password: password})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, loginURL(c.base).String(), bytes.NewReader(body))
	if err != nil {
		return err
	}
	c.decorate(req)

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("unable to reach login endpoint: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("login failed: %s", res.Status)
	}
	c.log("authenticated against %s", c.base.Host)
	return nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Remember bool   `json:"remember"`
}

func (c *Client) bootstrap(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base.String(), nil)
	if err != nil {
		return err
	}
	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("unable to load landing page: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("landing page status: %s", res.Status)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return fmt.Errorf("unable to parse landing page: %w", err)
	}
	raw, ok := doc.Find("[data-page]").First().Attr("data-page")
	if !ok {
		return fmt.Errorf("landing page carries no data-page attribute")
	}
	var page struct {
		Version string `json:"version"`
	}
	if err := json.Unmarshal([]byte(raw), &page); err != nil {
		return fmt.Errorf("unable to decode data-page attribute: %w", err)
	}
	if len(page.Version) == 0 {
		return fmt.Errorf("data-page attribute carries no asset version")
	}
	c.version = page.Version

	for _, ck := range c.http.Jar.Cookies(c.base) {
		if ck.Name == xsrfCookie {
			c.xsrf, _ = url.QueryUnescape(ck.Value)
		}
	}
	if len(c.xsrf) == 0 {
		return fmt.Errorf("session cookie %s is missing", xsrfCookie)
	}
	return nil
}

func (c *Client) decorate(req *http.Request) {
	req.Header.Set("Accept", "text/html, application/xhtml+xml")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Inertia", "true")
	req.Header.Set("X-Inertia-Version", c.version)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	req.Header.Set("X-XSRF-TOKEN", c.xsrf)
}

// Timetable requests the dashboard snapshot for the week starting at
// weekStart and maps it to entries.
func (c *Client) Timetable(ctx context.Context, weekStart time.Time) (timetable.Entries, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, dashboardURL(c.base, weekStart).String(), nil)
	if err != nil {
		return nil, err
	}
	c.decorate(req)

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unable to load dashboard: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("dashboard status: %s", res.Status)
	}
	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	entries, err := parseDashboard(data, c.err)
	if err != nil {
		return nil, err
	}
	c.log("%d entries for week starting %s", len(entries), weekStart.Format("2006-01-02"))
	return entries, nil
}

// Load fetches the current and the following week, the horizon the original
// publishing cadence was built around.
func (c *Client) Load(ctx context.Context, start time.Time) (timetable.Entries, error) {
	week := WeekStart(start)
	entries := make(timetable.Entries, 0)
	for _, ws := range []time.Time{week, week.AddDate(0, 0, 7)} {
		ev, err := c.Timetable(ctx, ws)
		if err != nil {
			return nil, err
		}
		entries = append(entries, ev...)
	}
	return entries, nil
}
