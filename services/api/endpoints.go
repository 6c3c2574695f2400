package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/volatiletech/null/v8"

	"github.com/llmhomework/portal/core/user"
)

// Pagination mirrors the upstream list responses' bookkeeping.
type Pagination struct {
	Total    int `json:"total"`
	Current  int `json:"current"`
	PageSize int `json:"pageSize"`
}

// PageQuery selects a page of a list endpoint.
type PageQuery struct {
	Keyword  string
	Current  int
	PageSize int
}

func (q PageQuery) values() url.Values {
	v := url.Values{}
	if q.Keyword != "" {
		v.Set("keyword", q.Keyword)
	}
	if q.Current > 0 {
		v.Set("current", strconv.Itoa(q.Current))
	}
	if q.PageSize > 0 {
		v.Set("pageSize", strconv.Itoa(q.PageSize))
	}
	return v
}

type (
	Course struct {
		ID             int    `json:"id"`
		CourseCode     string `json:"course_code"`
		CourseName     string `json:"course_name"`
		CourseCategory string `json:"course_category"`
	}

	Question struct {
		ID               int     `json:"id"`
		QuestionText     string  `json:"question_text"`
		QuestionCategory string  `json:"question_category"`
		QuestionScore    float64 `json:"question_score"`
		CourseID         int     `json:"course_id"`
	}

	Experiment struct {
		ID             int    `json:"id"`
		UserID         int    `json:"user_id"`
		QuestionID     int    `json:"question_id"`
		ExperimentText string `json:"experiment_text"`
		IsAnswer       bool   `json:"is_answer"`
	}

	HelpTopic struct {
		ID        int    `json:"id"`
		Title     string `json:"title"`
		Content   string `json:"content"`
		CourseID  int    `json:"course_id"`
		CreatedBy int    `json:"created_by"`
	}

	Request struct {
		ID                 int    `json:"id"`
		UserID             int    `json:"user_id"`
		RequestType        string `json:"request_type"`
		RequestStatus      string `json:"request_status"`
		RequestExplanation string `json:"request_explanation"`
	}
)

// LoginResult is the payload of a successful login.
type LoginResult struct {
	Token string    `json:"token"`
	User  user.User `json:"user"`
}

// Login authenticates against the upstream API. No token is sent.
func (c *Client) Login(ctx context.Context, creds user.Login) (LoginResult, error) {
	var res LoginResult
	err := c.post(ctx, "/user/login", creds, &res)
	return res, err
}

// Logout invalidates the session upstream. The caller clears local state
// regardless of the outcome, as the original did.
func (c *Client) Logout(ctx context.Context) error {
	return c.post(ctx, "/user/logout", nil, nil)
}

// Register creates an account through the legacy single-form flow.
func (c *Client) Register(ctx context.Context, reg user.Register) error {
	return c.post(ctx, "/user/register-old", reg, nil)
}

// The current signup flow is mail-verified: request a code for an address,
// confirm it, then register under the confirmed code.

// RequestEmailVerification asks upstream to mail a verification code.
func (c *Client) RequestEmailVerification(ctx context.Context, email string) error {
	body := struct {
		Email string `json:"email"`
	}{email}
	return c.post(ctx, "/user/email-verification", body, nil)
}

// VerifyCode confirms a mailed code and returns the address it was issued for.
func (c *Client) VerifyCode(ctx context.Context, code string) (string, error) {
	body := struct {
		VCode string `json:"vCode"`
	}{code}
	var res struct {
		Email string `json:"email"`
	}
	err := c.post(ctx, "/user/vcode-verification", body, &res)
	return res.Email, err
}

// RegisterWithCode completes the signup started by email verification.
func (c *Client) RegisterWithCode(ctx context.Context, reg user.CodeRegister) error {
	return c.post(ctx, "/user/register", reg, nil)
}

// ChangePassword rotates the password of the given account.
func (c *Client) ChangePassword(ctx context.Context, userID int, data user.PasswordChange) error {
	return c.patch(ctx, "/user/"+strconv.Itoa(userID)+"/password", data, nil)
}

// Courses

type CourseList struct {
	Courses    []Course   `json:"courses"`
	Pagination Pagination `json:"pagination"`
}

func (c *Client) ListCourses(ctx context.Context, q PageQuery) (CourseList, error) {
	var res CourseList
	err := c.get(ctx, "/courses", q.values(), &res)
	return res, err
}

func (c *Client) GetCourseByCode(ctx context.Context, code string) (Course, error) {
	var res Course
	v := url.Values{}
	v.Set("course_code", code)
	err := c.get(ctx, "/course", v, &res)
	return res, err
}

type SaveCourse struct {
	ID             null.Int `json:"id,omitempty"` // absent on create
	CourseCode     string   `json:"course_code"`
	CourseName     string   `json:"course_name"`
	CourseCategory string   `json:"course_category"`
}

func (c *Client) SaveCourse(ctx context.Context, data SaveCourse) (Course, error) {
	var res Course
	var err error
	if data.ID.Valid {
		err = c.put(ctx, "/course", data, &res)
	} else {
		err = c.post(ctx, "/course", data, &res)
	}
	return res, err
}

// Questions

type QuestionList struct {
	Questions  []Question `json:"questions"`
	Pagination Pagination `json:"pagination"`
}

func (c *Client) ListQuestions(ctx context.Context, q PageQuery) (QuestionList, error) {
	var res QuestionList
	err := c.get(ctx, "/questions", q.values(), &res)
	return res, err
}

func (c *Client) GetQuestion(ctx context.Context, id string) (Question, error) {
	var res Question
	v := url.Values{}
	v.Set("id", id)
	err := c.get(ctx, "/question", v, &res)
	return res, err
}

// Experiments

type ExperimentList struct {
	Experiments []Experiment `json:"experiments"`
	Pagination  Pagination   `json:"pagination"`
}

func (c *Client) ListExperiments(ctx context.Context, q PageQuery) (ExperimentList, error) {
	var res ExperimentList
	err := c.get(ctx, "/experiments", q.values(), &res)
	return res, err
}

func (c *Client) GetExperiment(ctx context.Context, id string) (Experiment, error) {
	var res Experiment
	v := url.Values{}
	v.Set("id", id)
	err := c.get(ctx, "/experiment", v, &res)
	return res, err
}

type NewExperiment struct {
	QuestionID     int    `json:"question_id"`
	ExperimentText string `json:"experiment_text"`
}

func (c *Client) CreateExperiment(ctx context.Context, data NewExperiment) (Experiment, error) {
	var res Experiment
	err := c.post(ctx, "/experiment", data, &res)
	return res, err
}

// Answers (accepted experiments; listed under their question, and the
// records a score-update request points at)

type Answer struct {
	ID         int     `json:"id"`
	QuestionID int     `json:"question_id"`
	LLMName    string  `json:"llm_name"`
	AnswerText string  `json:"answer_text"`
	Comment    string  `json:"comment"`
	Score      float64 `json:"score"`
}

type AnswerList struct {
	Answers    []Answer   `json:"answers"`
	Pagination Pagination `json:"pagination"`
}

func (c *Client) ListAnswers(ctx context.Context, questionID string, q PageQuery) (AnswerList, error) {
	var res AnswerList
	v := q.values()
	v.Set("question_id", questionID)
	err := c.get(ctx, "/answers", v, &res)
	return res, err
}

// Help topics

type HelpTopicList struct {
	Topics     []HelpTopic `json:"topics"`
	Pagination Pagination  `json:"pagination"`
}

func (c *Client) ListHelpTopics(ctx context.Context, q PageQuery) (HelpTopicList, error) {
	var res HelpTopicList
	err := c.get(ctx, "/helptopics", q.values(), &res)
	return res, err
}

func (c *Client) GetHelpTopic(ctx context.Context, id string) (HelpTopic, error) {
	var res HelpTopic
	v := url.Values{}
	v.Set("id", id)
	err := c.get(ctx, "/helptopic", v, &res)
	return res, err
}

type NewHelpTopic struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	CourseID int    `json:"course_id"`
}

func (c *Client) CreateHelpTopic(ctx context.Context, data NewHelpTopic) (HelpTopic, error) {
	var res HelpTopic
	err := c.post(ctx, "/helptopic", data, &res)
	return res, err
}

// Requests (the privileged-change approval workflow)

type RequestList struct {
	Requests   []Request  `json:"requests"`
	Pagination Pagination `json:"pagination"`
}

// ListMyRequests lists the requests the session's user filed.
func (c *Client) ListMyRequests(ctx context.Context, q PageQuery) (RequestList, error) {
	var res RequestList
	err := c.get(ctx, "/requests/myrequests", q.values(), &res)
	return res, err
}

// Filing is typed: each request kind has its own endpoint and payload.
// The id of the filed request comes back at the envelope top level.

type AddCourseRequest struct {
	RequestExplanation string `json:"request_explanation"`
	CourseCode         string `json:"course_code"`
	CourseName         string `json:"course_name"`
	CourseCategory     string `json:"course_category"`
}

func (c *Client) RequestAddCourse(ctx context.Context, data AddCourseRequest) (int, error) {
	return c.postForID(ctx, "/request/addcourse", data)
}

type AddExperimentRequest struct {
	RequestExplanation string  `json:"request_explanation"`
	ExperimentID       int     `json:"experiment_id"`
	LLMName            string  `json:"llm_name"`
	Comment            string  `json:"comment"`
	Score              float64 `json:"score"`
}

func (c *Client) RequestAddExperiment(ctx context.Context, data AddExperimentRequest) (int, error) {
	return c.postForID(ctx, "/request/addexperiment", data)
}

type UpdateScoreRequest struct {
	RequestExplanation string  `json:"request_explanation"`
	AnswerID           int     `json:"answer_id"`
	NewScore           float64 `json:"new_score"`
}

func (c *Client) RequestUpdateScore(ctx context.Context, data UpdateScoreRequest) (int, error) {
	return c.postForID(ctx, "/request/updatescore", data)
}

// Management (ADMIN only upstream)

type UserList struct {
	Users      []user.User `json:"users"`
	Pagination Pagination  `json:"pagination"`
}

func (c *Client) ListUsers(ctx context.Context, q PageQuery) (UserList, error) {
	var res UserList
	err := c.get(ctx, "/users", q.values(), &res)
	return res, err
}

type UpdateUser struct {
	ID            int         `json:"id"`
	Username      null.String `json:"username,omitempty"`
	Email         null.String `json:"email,omitempty"`
	UserType      null.String `json:"user_type,omitempty"`
	AccountStatus null.String `json:"account_status,omitempty"`
}

func (c *Client) UpdateUser(ctx context.Context, data UpdateUser) (user.User, error) {
	var res user.User
	err := c.patch(ctx, "/user", data, &res)
	return res, err
}

func (c *Client) ListAllRequests(ctx context.Context, q PageQuery) (RequestList, error) {
	var res RequestList
	err := c.get(ctx, "/requests", q.values(), &res)
	return res, err
}

type ReviewRequest struct {
	ID            int    `json:"id"`
	RequestStatus string `json:"request_status"` // APPROVED | REJECTED
}

func (c *Client) ReviewRequest(ctx context.Context, data ReviewRequest) (Request, error) {
	var res Request
	err := c.put(ctx, "/request", data, &res)
	return res, err
}
