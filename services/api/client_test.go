package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/volatiletech/null/v8"

	"github.com/llmhomework/portal/core"
	"github.com/llmhomework/portal/core/user"
)

type staticToken string

func (t staticToken) Token() string { return string(t) }

func newTestClient(t *testing.T, handler http.HandlerFunc, token string) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	conf := &core.Config{APIBaseURL: srv.URL}
	return NewClient(conf, staticToken(token)), srv
}

func writeEnvelope(t *testing.T, w http.ResponseWriter, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(env); err != nil {
		t.Fatalf("encoding envelope: %v", err)
	}
}

func TestClientLogin(t *testing.T) {
	wantUser := user.User{ID: 7, Username: "jdoe", UserType: user.TypeTeacher, AccountStatus: user.StatusActive}

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/user/login" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("missing X-Request-ID header")
		}
		if r.Header.Get("Authorization") != "" {
			t.Error("login must not send a token")
		}

		var creds user.Login
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			t.Fatalf("decoding credentials: %v", err)
		}
		assert.Equal(t, "jdoe@example.com", creds.Email)

		data, _ := json.Marshal(LoginResult{Token: "tok-abc", User: wantUser})
		writeEnvelope(t, w, Envelope{Success: true, Message: "Login successful.", Data: data})
	}, "")

	res, err := client.Login(context.Background(), user.Login{Email: "jdoe@example.com", Password: "s3cret"})
	if err != nil {
		t.Fatalf("Login() failed: %v", err)
	}
	if res.Token != "tok-abc" {
		t.Errorf("token = %q; want tok-abc", res.Token)
	}
	assert.Equal(t, wantUser, res.User)
}

func TestClientSendsStoredToken(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "tok-abc" {
			t.Errorf("Authorization = %q; want tok-abc", got)
		}
		data, _ := json.Marshal(CourseList{})
		writeEnvelope(t, w, Envelope{Success: true, Data: data})
	}, "tok-abc")

	if _, err := client.ListCourses(context.Background(), PageQuery{}); err != nil {
		t.Fatalf("ListCourses() failed: %v", err)
	}
}

func TestClientApplicationFailure(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		writeEnvelope(t, w, Envelope{Success: false, Code: "COURSE_CODE_EXISTS", Message: "Course code already exists."})
	}, "tok-abc")

	_, err := client.SaveCourse(context.Background(), SaveCourse{CourseCode: "CS101", CourseName: "Intro", CourseCategory: "CS"})
	if err == nil {
		t.Fatal("SaveCourse() should fail")
	}
	if IsAuthError(err) {
		t.Error("an application failure is not an auth failure")
	}
	apiErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("error type = %T; want *Error", err)
	}
	if apiErr.Message != "Course code already exists." {
		t.Errorf("message = %q", apiErr.Message)
	}
}

func TestClientAuthError(t *testing.T) {
	for _, code := range []string{CodeNoToken, CodeInvalidToken, CodeExpiredToken} {
		t.Run(code, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				writeEnvelope(t, w, Envelope{Success: false, Code: code, Message: "Token is invalid or expired."})
			}, "stale-token")

			_, err := client.ListUsers(context.Background(), PageQuery{})
			if !IsAuthError(err) {
				t.Fatalf("error = %v; want auth error", err)
			}
			authErr := err.(*AuthError)
			if authErr.Code != code {
				t.Errorf("code = %q; want %q", authErr.Code, code)
			}
		})
	}
}

func TestClientContextCancellation(t *testing.T) {
	started := make(chan struct{})
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done() // stall until the client gives up
	}, "tok-abc")

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() {
		_, err := client.GetQuestion(ctx, "42")
		errc <- err
	}()

	<-started
	cancel() // the view navigated away

	select {
	case err := <-errc:
		if err == nil {
			t.Fatal("cancelled request should fail")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("cancelled request did not return")
	}
}

// Every write operation must hit the exact route with the exact body the
// platform serves; request filing in particular has one endpoint per kind,
// not a generic creation route.
func TestEndpointShapes(t *testing.T) {
	tests := []struct {
		name       string
		call       func(ctx context.Context, c *Client) error
		wantMethod string
		wantPath   string
		wantQuery  url.Values
		wantBody   map[string]interface{}
	}{
		{
			name: "Register uses the legacy form endpoint",
			call: func(ctx context.Context, c *Client) error {
				return c.Register(ctx, user.Register{
					Username: "jdoe", Email: "jdoe@example.com",
					Password: "trustno1x", ConfirmPassword: "trustno1x",
					UserType: user.TypeStudent,
				})
			},
			wantMethod: http.MethodPost,
			wantPath:   "/user/register-old",
			wantBody: map[string]interface{}{
				"username": "jdoe", "email": "jdoe@example.com",
				"password": "trustno1x", "confirm_password": "trustno1x",
				"user_type": user.TypeStudent,
			},
		},
		{
			name: "RequestEmailVerification",
			call: func(ctx context.Context, c *Client) error {
				return c.RequestEmailVerification(ctx, "jdoe@example.com")
			},
			wantMethod: http.MethodPost,
			wantPath:   "/user/email-verification",
			wantBody:   map[string]interface{}{"email": "jdoe@example.com"},
		},
		{
			name: "VerifyCode",
			call: func(ctx context.Context, c *Client) error {
				_, err := c.VerifyCode(ctx, "482913")
				return err
			},
			wantMethod: http.MethodPost,
			wantPath:   "/user/vcode-verification",
			wantBody:   map[string]interface{}{"vCode": "482913"},
		},
		{
			name: "RegisterWithCode",
			call: func(ctx context.Context, c *Client) error {
				return c.RegisterWithCode(ctx, user.CodeRegister{
					VCode: "482913", Username: "jdoe", Password: "trustno1x",
				})
			},
			wantMethod: http.MethodPost,
			wantPath:   "/user/register",
			wantBody: map[string]interface{}{
				"vCode": "482913", "username": "jdoe", "password": "trustno1x",
			},
		},
		{
			name: "ChangePassword addresses the user's password resource",
			call: func(ctx context.Context, c *Client) error {
				return c.ChangePassword(ctx, 7, user.PasswordChange{
					OldPassword: "trustno1x", NewPassword: "trustno2x",
				})
			},
			wantMethod: http.MethodPatch,
			wantPath:   "/user/7/password",
			wantBody: map[string]interface{}{
				"old_password": "trustno1x", "new_password": "trustno2x",
			},
		},
		{
			name: "RequestAddCourse",
			call: func(ctx context.Context, c *Client) error {
				_, err := c.RequestAddCourse(ctx, AddCourseRequest{
					RequestExplanation: "missing from the catalog",
					CourseCode:         "CS101", CourseName: "Intro", CourseCategory: "CS",
				})
				return err
			},
			wantMethod: http.MethodPost,
			wantPath:   "/request/addcourse",
			wantBody: map[string]interface{}{
				"request_explanation": "missing from the catalog",
				"course_code":         "CS101", "course_name": "Intro", "course_category": "CS",
			},
		},
		{
			name: "RequestAddExperiment",
			call: func(ctx context.Context, c *Client) error {
				_, err := c.RequestAddExperiment(ctx, AddExperimentRequest{
					RequestExplanation: "best run so far",
					ExperimentID:       9, LLMName: "gpt-4", Comment: "solid", Score: 4.5,
				})
				return err
			},
			wantMethod: http.MethodPost,
			wantPath:   "/request/addexperiment",
			wantBody: map[string]interface{}{
				"request_explanation": "best run so far",
				"experiment_id":       float64(9), "llm_name": "gpt-4",
				"comment": "solid", "score": 4.5,
			},
		},
		{
			name: "RequestUpdateScore",
			call: func(ctx context.Context, c *Client) error {
				_, err := c.RequestUpdateScore(ctx, UpdateScoreRequest{
					RequestExplanation: "rubric changed",
					AnswerID:           3, NewScore: 2.5,
				})
				return err
			},
			wantMethod: http.MethodPost,
			wantPath:   "/request/updatescore",
			wantBody: map[string]interface{}{
				"request_explanation": "rubric changed",
				"answer_id":           float64(3), "new_score": 2.5,
			},
		},
		{
			name: "CreateExperiment",
			call: func(ctx context.Context, c *Client) error {
				_, err := c.CreateExperiment(ctx, NewExperiment{
					QuestionID: 9, ExperimentText: "the model answered in full",
				})
				return err
			},
			wantMethod: http.MethodPost,
			wantPath:   "/experiment",
			wantBody: map[string]interface{}{
				"question_id": float64(9), "experiment_text": "the model answered in full",
			},
		},
		{
			name: "CreateHelpTopic",
			call: func(ctx context.Context, c *Client) error {
				_, err := c.CreateHelpTopic(ctx, NewHelpTopic{
					Title: "Grading", Content: "How scores work.", CourseID: 4,
				})
				return err
			},
			wantMethod: http.MethodPost,
			wantPath:   "/helptopic",
			wantBody: map[string]interface{}{
				"title": "Grading", "content": "How scores work.", "course_id": float64(4),
			},
		},
		{
			name: "UpdateUser patches only the edited columns",
			call: func(ctx context.Context, c *Client) error {
				_, err := c.UpdateUser(ctx, UpdateUser{
					ID: 3, UserType: null.StringFrom(user.TypeTeacher),
				})
				return err
			},
			wantMethod: http.MethodPatch,
			wantPath:   "/user",
			wantBody: map[string]interface{}{
				"id": float64(3), "user_type": user.TypeTeacher,
				"username": nil, "email": nil, "account_status": nil,
			},
		},
		{
			name: "ReviewRequest settles by id",
			call: func(ctx context.Context, c *Client) error {
				_, err := c.ReviewRequest(ctx, ReviewRequest{ID: 11, RequestStatus: "APPROVED"})
				return err
			},
			wantMethod: http.MethodPut,
			wantPath:   "/request",
			wantBody: map[string]interface{}{
				"id": float64(11), "request_status": "APPROVED",
			},
		},
		{
			name: "GetCourseByCode",
			call: func(ctx context.Context, c *Client) error {
				_, err := c.GetCourseByCode(ctx, "CS101")
				return err
			},
			wantMethod: http.MethodGet,
			wantPath:   "/course",
			wantQuery:  url.Values{"course_code": {"CS101"}},
		},
		{
			name: "ListAnswers scopes to the question",
			call: func(ctx context.Context, c *Client) error {
				_, err := c.ListAnswers(ctx, "9", PageQuery{PageSize: 10})
				return err
			},
			wantMethod: http.MethodGet,
			wantPath:   "/answers",
			wantQuery:  url.Values{"question_id": {"9"}, "pageSize": {"10"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotMethod, gotPath string
			var gotQuery url.Values
			var gotBody map[string]interface{}
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				gotMethod, gotPath = r.Method, r.URL.Path
				gotQuery = r.URL.Query()
				if r.ContentLength > 0 {
					if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
						t.Fatalf("decoding body: %v", err)
					}
				}
				writeEnvelope(t, w, Envelope{Success: true})
			}, "tok-abc")

			if err := tt.call(context.Background(), client); err != nil {
				t.Fatalf("call failed: %v", err)
			}
			assert.Equal(t, tt.wantMethod, gotMethod)
			assert.Equal(t, tt.wantPath, gotPath)
			for k, want := range tt.wantQuery {
				assert.Equal(t, want, gotQuery[k], "query %s", k)
			}
			assert.Equal(t, tt.wantBody, gotBody)
		})
	}
}

// The request-filing endpoints report the new id at the envelope top level.
func TestRequestFilingReturnsID(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(t, w, Envelope{Success: true, Code: "REQUEST_ADDED", Message: "Request added successfully.", ID: 42})
	}, "tok-abc")

	id, err := client.RequestAddCourse(context.Background(), AddCourseRequest{
		RequestExplanation: "missing from the catalog",
		CourseCode:         "CS101", CourseName: "Intro", CourseCategory: "CS",
	})
	if err != nil {
		t.Fatalf("RequestAddCourse() failed: %v", err)
	}
	if id != 42 {
		t.Errorf("id = %d; want 42", id)
	}
}

func TestClientPageQuery(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("keyword") != "algo" || q.Get("current") != "2" || q.Get("pageSize") != "10" {
			t.Errorf("unexpected query: %v", q)
		}
		data, _ := json.Marshal(QuestionList{Pagination: Pagination{Total: 37, Current: 2, PageSize: 10}})
		writeEnvelope(t, w, Envelope{Success: true, Data: data})
	}, "tok-abc")

	res, err := client.ListQuestions(context.Background(), PageQuery{Keyword: "algo", Current: 2, PageSize: 10})
	if err != nil {
		t.Fatalf("ListQuestions() failed: %v", err)
	}
	if res.Pagination.Total != 37 {
		t.Errorf("total = %d; want 37", res.Pagination.Total)
	}
}
