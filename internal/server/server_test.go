package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shadpls/Eat-Already/internal/components/account"
	"github.com/Shadpls/Eat-Already/internal/components/search"
	"github.com/Shadpls/Eat-Already/internal/components/session"
	"github.com/Shadpls/Eat-Already/internal/shared/config"
	"github.com/Shadpls/Eat-Already/internal/shared/cookie"
)

const stubYelpBody = `{
	"businesses": [
		{
			"name": "Joe's Diner",
			"location": {"display_address": ["123 Main St", "Austin, TX 78701"]},
			"image_url": "https://img.example/joes.jpg",
			"display_phone": "(512) 555-0100",
			"url": "https://yelp.example/joes-diner"
		}
	]
}`

// memRepo is an in-memory credential store standing in for Postgres.
type memRepo struct {
	mu     sync.Mutex
	users  map[string]*account.User
	nextID int64
}

func newMemRepo() *memRepo {
	return &memRepo{users: make(map[string]*account.User)}
}

func (r *memRepo) Create(_ context.Context, username string, passwordHash []byte) (*account.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[username]; ok {
		return nil, account.ErrDuplicateUsername
	}
	r.nextID++
	user := &account.User{ID: r.nextID, Username: username, PasswordHash: passwordHash, CreatedAt: time.Now()}
	r.users[username] = user

	u := *user
	return &u, nil
}

func (r *memRepo) GetByUsername(_ context.Context, username string) (*account.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[username]
	if !ok {
		return nil, account.ErrNotFound
	}
	u := *user
	return &u, nil
}

type testApp struct {
	ts     *httptest.Server
	store  session.Store
	secret []byte
	client *http.Client
}

func staticJSON(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}
}

// newTestApp wires the full router against a stub Yelp upstream and an
// in-memory credential store.
func newTestApp(t *testing.T, yelpHandler http.HandlerFunc) *testApp {
	t.Helper()

	yelp := httptest.NewServer(yelpHandler)
	t.Cleanup(yelp.Close)

	zipcode := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such zip", http.StatusNotFound)
	}))
	t.Cleanup(zipcode.Close)

	t.Setenv("ENVIRONMENT", "dev")
	t.Setenv("DATABASE_URL", "postgres://unused")
	t.Setenv("COOKIE_KEY", "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f")
	t.Setenv("FOOD_SELECTOR_API", "test-key")
	t.Setenv("ZIPCODE_API_KEY", "zip-key")
	t.Setenv("YELP_BASE_URL", yelp.URL)
	t.Setenv("ZIPCODE_BASE_URL", zipcode.URL)
	t.Setenv("TEMPLATE_DIR", "../../templates")

	cfg, err := config.NewConfig()
	require.NoError(t, err)

	logger := zerolog.Nop()
	store := session.NewMemoryStore(cfg.SessionTTL)

	accountService := account.NewService(newMemRepo())
	yelpClient := search.NewYelpClient(cfg)
	zipClient := search.NewZipcodeClient(cfg)

	srv := NewServer(params{
		Config:         cfg,
		Logger:         logger,
		SentryWriter:   nil,
		HealthHandler:  func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) },
		Store:          store,
		AccountHandler: account.NewHandler(accountService, store, cfg),
		SearchHandler: search.NewHandler(
			search.NewService(yelpClient),
			search.NewValidator(yelpClient, zipClient, logger),
			store,
			cfg,
		),
	})

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	client := &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	return &testApp{ts: ts, store: store, secret: cfg.SecretKey(), client: client}
}

func (a *testApp) postForm(t *testing.T, path string, form url.Values, sessionCookie *http.Cookie) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, a.ts.URL+path, strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if sessionCookie != nil {
		req.AddCookie(sessionCookie)
	}

	resp, err := a.client.Do(req)
	require.NoError(t, err)
	return resp
}

func (a *testApp) get(t *testing.T, path string, sessionCookie *http.Cookie) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, a.ts.URL+path, nil)
	require.NoError(t, err)
	if sessionCookie != nil {
		req.AddCookie(sessionCookie)
	}

	resp, err := a.client.Do(req)
	require.NoError(t, err)
	return resp
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func sessionCookieFrom(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == "session" && c.Value != "" {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func TestGuardedRoutesRedirectWhenAnonymous(t *testing.T) {
	app := newTestApp(t, staticJSON(stubYelpBody))

	for _, path := range []string{"/search", "/results", "/logout"} {
		resp := app.get(t, path, nil)
		resp.Body.Close()
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode, path)
		assert.Equal(t, "/login", resp.Header.Get("Location"), path)
	}
}

func TestEndToEndSearchFlow(t *testing.T) {
	app := newTestApp(t, staticJSON(stubYelpBody))
	ctx := context.Background()

	// Signup redirects to login.
	resp := app.postForm(t, "/signup", url.Values{"username": {"bob"}, "password": {"pw1234"}}, nil)
	resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/login", resp.Header.Get("Location"))

	// Login starts a session and redirects to search.
	resp = app.postForm(t, "/login", url.Values{"username": {"bob"}, "password": {"pw1234"}}, nil)
	resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/search", resp.Header.Get("Location"))
	sessCookie := sessionCookieFrom(t, resp)

	// Search against the one-business stub redirects to results.
	resp = app.postForm(t, "/search", url.Values{"location": {"Austin"}, "category": {""}}, sessCookie)
	resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/results", resp.Header.Get("Location"))

	// Results page shows the pick.
	resp = app.get(t, "/results", sessCookie)
	page := body(t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, page, "Joe&#39;s Diner")
	assert.Contains(t, page, "123 Main St")

	// The stored session result matches the stub exactly.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(sessCookie)
	sessID, err := cookie.Get(req, app.secret)
	require.NoError(t, err)

	sess, err := app.store.Get(ctx, sessID)
	require.NoError(t, err)
	require.NotNil(t, sess.LastResult)
	assert.Equal(t, "Joe's Diner", sess.LastResult.Name)
	assert.Equal(t, []string{"123 Main St", "Austin, TX 78701"}, sess.LastResult.Address)
	assert.Equal(t, "https://img.example/joes.jpg", sess.LastResult.ImageURL)
	assert.Equal(t, "(512) 555-0100", sess.LastResult.Phone)
	assert.Equal(t, "https://yelp.example/joes-diner", sess.LastResult.URL)
}

func TestLoginFailuresLookTheSame(t *testing.T) {
	app := newTestApp(t, staticJSON(stubYelpBody))

	resp := app.postForm(t, "/signup", url.Values{"username": {"alice"}, "password": {"secret1"}}, nil)
	resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	wrongPw := app.postForm(t, "/login", url.Values{"username": {"alice"}, "password": {"not-it"}}, nil)
	wrongPwPage := body(t, wrongPw)

	unknown := app.postForm(t, "/login", url.Values{"username": {"nobody"}, "password": {"secret1"}}, nil)
	unknownPage := body(t, unknown)

	assert.Equal(t, http.StatusOK, wrongPw.StatusCode)
	assert.Equal(t, http.StatusOK, unknown.StatusCode)
	assert.Contains(t, wrongPwPage, "Invalid username or password")
	assert.Contains(t, unknownPage, "Invalid username or password")
}

func TestDuplicateSignupKeepsForm(t *testing.T) {
	app := newTestApp(t, staticJSON(stubYelpBody))

	resp := app.postForm(t, "/signup", url.Values{"username": {"alice"}, "password": {"secret1"}}, nil)
	resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	resp = app.postForm(t, "/signup", url.Values{"username": {"alice"}, "password": {"other-pw"}}, nil)
	page := body(t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, page, "This username is taken")
	assert.Contains(t, page, `value="alice"`)
}

func TestResultsWithoutPriorSearch(t *testing.T) {
	app := newTestApp(t, staticJSON(stubYelpBody))

	resp := app.postForm(t, "/signup", url.Values{"username": {"carol"}, "password": {"pw1234"}}, nil)
	resp.Body.Close()
	resp = app.postForm(t, "/login", url.Values{"username": {"carol"}, "password": {"pw1234"}}, nil)
	resp.Body.Close()
	sessCookie := sessionCookieFrom(t, resp)

	resp = app.get(t, "/results", sessCookie)
	page := body(t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, page, "No pick yet")
}

func TestSearchInvalidLocationShowsMessage(t *testing.T) {
	app := newTestApp(t, staticJSON(`{"businesses": []}`))

	resp := app.postForm(t, "/signup", url.Values{"username": {"dave"}, "password": {"pw1234"}}, nil)
	resp.Body.Close()
	resp = app.postForm(t, "/login", url.Values{"username": {"dave"}, "password": {"pw1234"}}, nil)
	resp.Body.Close()
	sessCookie := sessionCookieFrom(t, resp)

	// Empty business list plus failing zip fallback: the location never
	// validates, so the search form re-renders with a message.
	resp = app.postForm(t, "/search", url.Values{"location": {"nowhere-at-all"}, "category": {""}}, sessCookie)
	page := body(t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, page, "couldn&#39;t find that location")
	assert.Contains(t, page, `value="nowhere-at-all"`)
}

func TestSearchNoResultsShowsTryAgain(t *testing.T) {
	// The validation probe (limit=1) finds a business, the real search
	// comes back empty.
	app := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("limit") == "1" {
			w.Write([]byte(stubYelpBody))
			return
		}
		w.Write([]byte(`{"businesses": []}`))
	})

	resp := app.postForm(t, "/signup", url.Values{"username": {"fred"}, "password": {"pw1234"}}, nil)
	resp.Body.Close()
	resp = app.postForm(t, "/login", url.Values{"username": {"fred"}, "password": {"pw1234"}}, nil)
	resp.Body.Close()
	sessCookie := sessionCookieFrom(t, resp)

	resp = app.postForm(t, "/search", url.Values{"location": {"Austin"}, "category": {"vegan"}}, sessCookie)
	page := body(t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, page, "No restaurants found there")
}

func TestSearchUpstreamErrorShowsTryAgain(t *testing.T) {
	app := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("limit") == "1" {
			w.Write([]byte(stubYelpBody))
			return
		}
		http.Error(w, "down", http.StatusBadGateway)
	})

	resp := app.postForm(t, "/signup", url.Values{"username": {"gina"}, "password": {"pw1234"}}, nil)
	resp.Body.Close()
	resp = app.postForm(t, "/login", url.Values{"username": {"gina"}, "password": {"pw1234"}}, nil)
	resp.Body.Close()
	sessCookie := sessionCookieFrom(t, resp)

	resp = app.postForm(t, "/search", url.Values{"location": {"Austin"}, "category": {""}}, sessCookie)
	page := body(t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, page, "Search is unavailable right now")
}

func TestLogoutEndsSession(t *testing.T) {
	app := newTestApp(t, staticJSON(stubYelpBody))

	resp := app.postForm(t, "/signup", url.Values{"username": {"erin"}, "password": {"pw1234"}}, nil)
	resp.Body.Close()
	resp = app.postForm(t, "/login", url.Values{"username": {"erin"}, "password": {"pw1234"}}, nil)
	resp.Body.Close()
	sessCookie := sessionCookieFrom(t, resp)

	resp = app.get(t, "/logout", sessCookie)
	resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/login", resp.Header.Get("Location"))

	// The old cookie no longer grants access.
	resp = app.get(t, "/search", sessCookie)
	resp.Body.Close()
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}
