package portal

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/ghaggin/pelicanpoint/internal/authapi"
	"github.com/ghaggin/pelicanpoint/internal/blob"
	"github.com/ghaggin/pelicanpoint/internal/config"
	"github.com/ghaggin/pelicanpoint/internal/mailer"
	"github.com/ghaggin/pelicanpoint/internal/middleware"
	"github.com/ghaggin/pelicanpoint/internal/model"
	"github.com/ghaggin/pelicanpoint/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeDecoder accepts tokens of the form "<role>:<username>".
type fakeDecoder struct{}

func (fakeDecoder) Decode(raw string) (model.Session, error) {
	role, name, ok := strings.Cut(raw, ":")
	if !ok || name == "" || (role != "user" && role != "manager") {
		return model.Session{}, errors.New("malformed token")
	}
	return model.Session{Token: raw, Role: model.ParseRole(role), Username: name}, nil
}

type fakeAuth struct {
	mu    sync.Mutex
	calls int

	tokens    map[string]string
	users     []model.UserRecord
	created   []model.NewUser
	deleted   []string
	err       error
	createErr error
}

func (f *fakeAuth) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeAuth) createdUsers() []model.NewUser {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.NewUser(nil), f.created...)
}

func (f *fakeAuth) deletedUsers() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleted...)
}

func (f *fakeAuth) Login(_ context.Context, username, password string) (*authapi.LoginResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	tok, ok := f.tokens[username]
	if !ok || password != "pw" {
		return nil, &authapi.APIError{Status: http.StatusUnauthorized, Message: "Invalid username or password"}
	}
	return &authapi.LoginResponse{Message: "ok", Token: tok}, nil
}

func (f *fakeAuth) CreateUser(_ context.Context, _ string, u model.NewUser) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, u)
	return nil
}

func (f *fakeAuth) ListUsers(_ context.Context, _ string) ([]model.UserRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	if f.err != nil {
		return nil, f.err
	}
	return f.users, nil
}

func (f *fakeAuth) DeleteUser(_ context.Context, _ string, username string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, username)
	return nil
}

type fakeRepo struct {
	mu        sync.Mutex
	listCalls int

	docs        map[string]model.Document
	presence    map[string]model.Presence
	listErr     error
	presenceErr error
	// readErr fails presence reads
	readErr error
	// block, when set, holds SetPresence until closed
	block chan struct{}
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		docs:     make(map[string]model.Document),
		presence: make(map[string]model.Presence),
	}
}

func (f *fakeRepo) lists() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls
}

func (f *fakeRepo) documentIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	ids := make([]string, 0, len(f.docs))
	for id := range f.docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (f *fakeRepo) ListDocuments(_ context.Context) ([]model.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++

	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]model.Document, 0, len(f.docs))
	for _, d := range f.docs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeRepo) GetDocument(_ context.Context, id string) (*model.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	d, ok := f.docs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &d, nil
}

func (f *fakeRepo) CreateDocument(_ context.Context, doc *model.Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc.ID = uuid.NewString()
	f.docs[doc.ID] = *doc
	return nil
}

func (f *fakeRepo) UpdateCategory(_ context.Context, id string, c model.Category) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	d, ok := f.docs[id]
	if !ok {
		return repository.ErrNotFound
	}
	d.Category = c
	f.docs[id] = d
	return nil
}

func (f *fakeRepo) DeleteDocument(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.docs[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.docs, id)
	return nil
}

func (f *fakeRepo) GetPresence(_ context.Context, username string) (*model.Presence, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.readErr != nil {
		return nil, f.readErr
	}
	p, ok := f.presence[username]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (f *fakeRepo) ListPresence(_ context.Context) ([]model.Presence, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.readErr != nil {
		return nil, f.readErr
	}
	out := make([]model.Presence, 0, len(f.presence))
	for _, p := range f.presence {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeRepo) SetPresence(_ context.Context, p model.Presence) error {
	f.mu.Lock()
	block := f.block
	f.mu.Unlock()
	if block != nil {
		<-block
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.presenceErr != nil {
		return f.presenceErr
	}
	f.presence[p.Username] = p
	return nil
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []mailer.ContactMessage
}

func (f *fakeMailer) Send(_ context.Context, msg mailer.ContactMessage) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeMailer) messages() []mailer.ContactMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]mailer.ContactMessage(nil), f.sent...)
}

type testPortal struct {
	h      *handlers
	srv    *httptest.Server
	auth   *fakeAuth
	repo   *fakeRepo
	blobs  *blob.Local
	mailer *fakeMailer
}

func newTestPortal(t *testing.T) *testPortal {
	t.Helper()
	require := require.New(t)

	cfg := config.Default()
	log := zap.NewNop()

	sessions, err := middleware.NewSessionManager(middleware.SessionParams{
		Config:  cfg,
		Decoder: fakeDecoder{},
		Log:     log,
	})
	require.NoError(err)

	blobs, err := blob.NewLocal(t.TempDir())
	require.NoError(err)

	tp := &testPortal{
		auth: &fakeAuth{
			tokens: map[string]string{
				"alice": "manager:alice",
				"bob":   "user:bob",
				"eve":   "not a token",
			},
		},
		repo:   newFakeRepo(),
		blobs:  blobs,
		mailer: &fakeMailer{},
	}
	tp.h = newHandlers(Params{
		Log:      log,
		Config:   cfg,
		Sessions: sessions,
		Auth:     tp.auth,
		Repo:     tp.repo,
		Blobs:    blobs,
		Mailer:   tp.mailer,
	})
	tp.srv = httptest.NewServer(tp.h.routes())
	t.Cleanup(tp.srv.Close)
	return tp
}

// browser keeps cookies between requests and does not follow redirects,
// so each navigation is observable.
func (tp *testPortal) browser(t *testing.T) *http.Client {
	t.Helper()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func (tp *testPortal) signedIn(t *testing.T, username string) *http.Client {
	t.Helper()

	c := tp.browser(t)
	resp := post(t, c, tp.srv.URL+"/login", url.Values{"username": {username}, "password": {"pw"}})
	require.Equal(t, http.StatusSeeOther, resp.code)
	require.Equal(t, "/", resp.location)
	return c
}

type result struct {
	code     int
	body     string
	location string
	header   http.Header
}

func do(t *testing.T, c *http.Client, req *http.Request) result {
	t.Helper()

	resp, err := c.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var sb strings.Builder
	_, err = io.Copy(&sb, resp.Body)
	require.NoError(t, err)

	return result{
		code:     resp.StatusCode,
		body:     sb.String(),
		location: resp.Header.Get("Location"),
		header:   resp.Header,
	}
}

func get(t *testing.T, c *http.Client, u string) result {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, u, nil)
	require.NoError(t, err)
	return do(t, c, req)
}

func post(t *testing.T, c *http.Client, u string, form url.Values) result {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, u, strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return do(t, c, req)
}
