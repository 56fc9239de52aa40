package digi1

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const landingFixture = `<!DOCTYPE html>
<html>
<body>
<div id="app" data-page="{&quot;version&quot;:&quot;v42&quot;,&quot;component&quot;:&quot;Auth/Login&quot;}"></div>
</body>
</html>`

type fakeDigi1 struct {
	mux        *http.ServeMux
	logins     int
	dashboards []string
	failLogin  bool
}

func newFakeDigi1(t *testing.T) (*fakeDigi1, *httptest.Server) {
	t.Helper()
	f := &fakeDigi1{mux: http.NewServeMux()}

	f.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Set-Cookie", "XSRF-TOKEN=token%3D123; Path=/")
		w.Write([]byte(landingFixture))
	})
	f.mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		f.logins++
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "true", r.Header.Get("X-Inertia"))
		assert.Equal(t, "v42", r.Header.Get("X-Inertia-Version"))
		assert.Equal(t, "XMLHttpRequest", r.Header.Get("X-Requested-With"))
		assert.Equal(t, "token=123", r.Header.Get("X-XSRF-TOKEN"))
		if f.failLogin {
			w.WriteHeader(http.StatusUnprocessableEntity)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	f.mux.HandleFunc("/teacher/dashboard", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "v42", r.Header.Get("X-Inertia-Version"))
		f.dashboards = append(f.dashboards, r.URL.Query().Get("weekStart"))
		w.Write([]byte(dashboardFixture))
	})

	srv := httptest.NewServer(f.mux)
	t.Cleanup(srv.Close)
	return f, srv
}

func TestClientAuthenticate(t *testing.T) {
	f, srv := newFakeDigi1(t)

	c, err := New(Config{URL: srv.URL})
	require.NoError(t, err)

	require.NoError(t, c.Authenticate(context.Background(), "user@example.com", "hunter2"))
	assert.Equal(t, 1, f.logins)
	assert.Equal(t, "v42", c.version)
	assert.Equal(t, "token=123", c.xsrf)
}

func TestClientAuthenticateRejected(t *testing.T) {
	f, srv := newFakeDigi1(t)
	f.failLogin = true

	c, err := New(Config{URL: srv.URL})
	require.NoError(t, err)

	err = c.Authenticate(context.Background(), "user@example.com", "wrong")
	assert.Error(t, err)
}

func TestClientLoadFetchesTwoWeeks(t *testing.T) {
	f, srv := newFakeDigi1(t)

	c, err := New(Config{URL: srv.URL})
	require.NoError(t, err)
	require.NoError(t, c.Authenticate(context.Background(), "user@example.com", "hunter2"))

	entries, err := c.Load(context.Background(), time.Date(2024, 3, 6, 15, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	// The fixture has two usable rows per dashboard request, and entries for
	// both requested weeks are concatenated.
	assert.Len(t, entries, 4)
	require.Len(t, f.dashboards, 2)
	assert.Equal(t, "2024-03-03T23:00:00.000Z", f.dashboards[0])
	assert.Equal(t, "2024-03-10T23:00:00.000Z", f.dashboards[1])
}

func TestClientBootstrapWithoutInertiaPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>plain page</body></html>"))
	}))
	t.Cleanup(srv.Close)

	c, err := New(Config{URL: srv.URL})
	require.NoError(t, err)

	err = c.Authenticate(context.Background(), "user@example.com", "hunter2")
	assert.Error(t, err)
}
