package echoapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/llmhomework/portal/core"
	"github.com/llmhomework/portal/core/session"
	"github.com/llmhomework/portal/core/user"
	"github.com/llmhomework/portal/services/api"
	"github.com/llmhomework/portal/storage/state"
)

// upstream is a fake platform API. Handlers are keyed by "METHOD /path";
// unhandled calls answer an empty success envelope. Every call is recorded so
// tests can assert that a route did (or did not) reach upstream.
type upstream struct {
	srv      *httptest.Server
	mu       sync.Mutex
	requests []string
	handlers map[string]http.HandlerFunc
}

func newUpstream(t *testing.T) *upstream {
	u := &upstream{handlers: make(map[string]http.HandlerFunc)}
	u.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		u.mu.Lock()
		u.requests = append(u.requests, key)
		h := u.handlers[key]
		u.mu.Unlock()

		if h != nil {
			h(w, r)
			return
		}
		writeEnvelope(t, w, api.Envelope{Success: true})
	}))
	t.Cleanup(u.srv.Close)
	return u
}

func (u *upstream) handle(key string, h http.HandlerFunc) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.handlers[key] = h
}

func (u *upstream) calls() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.requests)
}

func writeEnvelope(t *testing.T, w http.ResponseWriter, env api.Envelope) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(env); err != nil {
		t.Errorf("encoding envelope: %v", err)
	}
}

func successEnvelope(t *testing.T, data interface{}) api.Envelope {
	raw, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshalling envelope data: %v", err)
	}
	return api.Envelope{Success: true, Data: raw}
}

// setup wires a test server against the given fake upstream with a volatile
// state store.
func setup(t *testing.T, u *upstream) (*Server, state.Store) {
	conf := &core.Config{
		SiteName:   "LLM Homework",
		Env:        "TEST",
		TestMode:   true,
		PageSize:   10,
		APIBaseURL: u.srv.URL,
	}

	store := state.NewMemStore()
	sess := session.New(store)
	client := api.NewClient(conf, sess)

	validate := validator.New()
	translator := newTestTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	server, err := NewServer(ServerDeps{
		Conf:       conf,
		Logger:     testLogger{t},
		Session:    sess,
		Client:     client,
		Store:      store,
		Validate:   validate,
		Translator: translator,
	})
	if err != nil {
		t.Fatalf("NewServer() failed: %v", err)
	}
	return server, store
}

func newTestTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

// loginAs seeds the store with credentials for a user of the given type.
func loginAs(t *testing.T, store state.Store, userType string) user.User {
	usr := user.User{ID: 1, Username: "jdoe", Email: "jdoe@example.com", UserType: userType, AccountStatus: user.StatusActive}
	raw, err := json.Marshal(usr)
	if err != nil {
		t.Fatalf("marshalling user: %v", err)
	}
	if err := store.Set(state.KeyToken, "tok-test"); err != nil {
		t.Fatalf("storing token: %v", err)
	}
	if err := store.Set(state.KeyUser, string(raw)); err != nil {
		t.Fatalf("storing user: %v", err)
	}
	return usr
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	return req, rec
}

func marshallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj() failed: %v", err)
	}
	return data
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decoding response %q: %v", rec.Body.String(), err)
	}
}

// testLogger fails the test on error-level logs.
type testLogger struct {
	t *testing.T
}

func (l testLogger) Debug(msg string, args ...interface{}) { l.t.Logf("DEBUG: %s %v", msg, args) }
func (l testLogger) Info(msg string, args ...interface{})  { l.t.Logf("INFO: %s %v", msg, args) }
func (l testLogger) Warn(msg string, args ...interface{})  { l.t.Logf("WARN: %s %v", msg, args) }
func (l testLogger) Error(msg string, args ...interface{}) { l.t.Errorf("ERROR: %s %v", msg, args) }
func (l testLogger) Fatal(msg string, args ...interface{}) { l.t.Fatalf("FATAL: %s %v", msg, args) }
