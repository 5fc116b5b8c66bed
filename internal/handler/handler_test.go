package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prperemyshlev/habit-tracker/internal/config"
	"github.com/prperemyshlev/habit-tracker/internal/domain"
	"github.com/prperemyshlev/habit-tracker/internal/dto"
	"github.com/prperemyshlev/habit-tracker/internal/service"
	"github.com/prperemyshlev/habit-tracker/internal/session"
	"github.com/stretchr/testify/suite"
)

const (
	testSecret  = "test-secret-key-that-is-at-least-32-characters-long"
	testUserID  = "7b0f8a56-6a0e-4f8c-9b61-2f3c8f4f1e2a"
	testHabitID = "2c1d5f1e-93a8-4b7e-8f0a-51d1c3c6e9b4"
	testEmail   = "ada@example.com"
)

type fakeAuthService struct {
	result  *service.LoginResult
	user    *domain.User
	err     error
	userErr error
}

func (f *fakeAuthService) LoginWithGoogle(_ context.Context, _ *dto.GoogleCredentialRequest) (*service.LoginResult, error) {
	return f.result, f.err
}

func (f *fakeAuthService) GetUser(_ context.Context, _ string) (*domain.User, error) {
	return f.user, f.userErr
}

type fakeHabitService struct {
	userID string
	items  []domain.ChecklistItem
	log    *domain.HabitLog
	err    error
}

func (f *fakeHabitService) Checklist(_ context.Context, userID, _ string) ([]domain.ChecklistItem, error) {
	f.userID = userID
	return f.items, f.err
}

func (f *fakeHabitService) CreateHabit(_ context.Context, userID string, req *dto.CreateHabitRequest) (*domain.Habit, *domain.HabitSlot, error) {
	f.userID = userID
	if f.err != nil {
		return nil, nil, f.err
	}
	return &domain.Habit{ID: testHabitID, UserID: userID, Name: req.Name},
		&domain.HabitSlot{HabitID: testHabitID, Period: domain.Period(req.Period), LocalTime: req.LocalTime}, nil
}

func (f *fakeHabitService) LogHabit(_ context.Context, userID string, _ *dto.HabitLogRequest) (*domain.HabitLog, error) {
	f.userID = userID
	return f.log, f.err
}

type fakeStatsService struct {
	query  *dto.DailyCompletionQuery
	series []domain.DailyCompletion
	err    error
}

func (f *fakeStatsService) DailyCompletion(_ context.Context, q *dto.DailyCompletionQuery) ([]domain.DailyCompletion, error) {
	f.query = q
	return f.series, f.err
}

type HandlerSuite struct {
	suite.Suite
	codec     *session.Codec
	transport *session.Transport
	auth      *fakeAuthService
	habits    *fakeHabitService
	stats     *fakeStatsService
	router    *gin.Engine
}

func (s *HandlerSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
}

func (s *HandlerSuite) SetupTest() {
	s.codec = session.NewCodec(testSecret, "habit-tracker", "habit-tracker", 30*24*time.Hour)
	transport, err := session.NewTransport(s.codec, config.CookieConfig{Name: "session", Domain: "localhost", SameSite: "lax"}, nil)
	s.Require().NoError(err)
	s.transport = transport

	s.auth = &fakeAuthService{}
	s.habits = &fakeHabitService{}
	s.stats = &fakeStatsService{}

	authHandler := NewAuthHandler(s.auth, s.transport)
	habitHandler := NewHabitHandler(s.habits)
	statsHandler := NewStatsHandler(s.stats)

	r := gin.New()
	r.Use(SessionMiddleware(s.transport))
	r.GET("/", Index)
	r.POST("/auth/google", authHandler.GoogleLogin)
	r.GET("/me", authHandler.Me)
	r.POST("/logout", authHandler.Logout)

	api := r.Group("/api")
	protected := api.Group("", RequireSession())
	protected.GET("/checklist/today", habitHandler.Checklist)
	protected.POST("/habits", habitHandler.CreateHabit)
	protected.POST("/habit_log", habitHandler.LogHabit)
	api.GET("/stats/daily_completion", statsHandler.DailyCompletion)
	api.GET("/stats/ping", statsHandler.Ping)

	s.router = r
}

func (s *HandlerSuite) sessionCookie() *http.Cookie {
	token, err := s.codec.Issue(testUserID, testEmail)
	s.Require().NoError(err)
	return &http.Cookie{Name: "session", Value: token}
}

func (s *HandlerSuite) do(method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			s.Require().NoError(json.NewEncoder(&buf).Encode(b))
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerSuite) decodeError(rec *httptest.ResponseRecorder) dto.ErrorResponse {
	var resp dto.ErrorResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func (s *HandlerSuite) TestGoogleLoginSetsSessionCookie() {
	s.auth.result = &service.LoginResult{
		User:  &domain.User{ID: testUserID, Email: testEmail},
		Token: "signed-token",
	}

	rec := s.do(http.MethodPost, "/auth/google", dto.GoogleCredentialRequest{Credential: "id-token"}, nil)
	s.Equal(http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	s.Require().Len(cookies, 1)
	s.Equal("session", cookies[0].Name)
	s.Equal("signed-token", cookies[0].Value)
	s.True(cookies[0].HttpOnly)

	var body struct {
		User domain.User `json:"user"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.Equal(testEmail, body.User.Email)
}

func (s *HandlerSuite) TestGoogleLoginRejected() {
	s.auth.err = domain.NewError(domain.ErrUpstreamAuth, "Invalid Google credential")

	rec := s.do(http.MethodPost, "/auth/google", dto.GoogleCredentialRequest{Credential: "bad"}, nil)
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Empty(rec.Result().Cookies())

	resp := s.decodeError(rec)
	s.Equal("upstream_auth_failure", resp.Code)
	s.Equal("Invalid Google credential", resp.Message)
}

func (s *HandlerSuite) TestGoogleLoginMalformedBody() {
	rec := s.do(http.MethodPost, "/auth/google", "{not json", nil)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("invalid_input", s.decodeError(rec).Code)
}

func (s *HandlerSuite) TestMeWithoutSession() {
	rec := s.do(http.MethodGet, "/me", nil, nil)
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"user":null}`, rec.Body.String())
}

func (s *HandlerSuite) TestMeWithSession() {
	s.auth.user = &domain.User{ID: testUserID, Email: testEmail}

	rec := s.do(http.MethodGet, "/me", nil, s.sessionCookie())
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), testEmail)
}

func (s *HandlerSuite) TestMeWithDeletedUser() {
	s.auth.userErr = fmt.Errorf("failed to get user: %w", domain.ErrNotFound)

	rec := s.do(http.MethodGet, "/me", nil, s.sessionCookie())
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"user":null}`, rec.Body.String())
}

func (s *HandlerSuite) TestMeWithInvalidCookieIsAnonymous() {
	rec := s.do(http.MethodGet, "/me", nil, &http.Cookie{Name: "session", Value: "forged"})
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"user":null}`, rec.Body.String())
}

func (s *HandlerSuite) TestLogoutClearsCookie() {
	rec := s.do(http.MethodPost, "/logout", nil, s.sessionCookie())
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"ok":true}`, rec.Body.String())

	cookies := rec.Result().Cookies()
	s.Require().Len(cookies, 1)
	s.Equal("session", cookies[0].Name)
	s.Empty(cookies[0].Value)
	s.Less(cookies[0].MaxAge, 0)
}

func (s *HandlerSuite) TestProtectedRoutesRequireSession() {
	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/checklist/today"},
		{http.MethodPost, "/api/habits"},
		{http.MethodPost, "/api/habit_log"},
	} {
		rec := s.do(tc.method, tc.path, nil, nil)
		s.Equal(http.StatusUnauthorized, rec.Code, tc.path)
		s.Equal("unauthenticated", s.decodeError(rec).Code, tc.path)
	}
	s.Empty(s.habits.userID)
}

func (s *HandlerSuite) TestChecklistUsesSessionUser() {
	s.habits.items = []domain.ChecklistItem{{HabitID: testHabitID, Name: "Read", Period: domain.PeriodMorning}}

	rec := s.do(http.MethodGet, "/api/checklist/today?day=2024-01-10", nil, s.sessionCookie())
	s.Equal(http.StatusOK, rec.Code)
	s.Equal(testUserID, s.habits.userID)
	s.JSONEq(`[{"habit_id":"`+testHabitID+`","name":"Read","period":"MORNING","local_time":null,"completed":false}]`, rec.Body.String())
}

func (s *HandlerSuite) TestCreateHabit() {
	local := "07:30"
	rec := s.do(http.MethodPost, "/api/habits", dto.CreateHabitRequest{Name: "Read", Period: "MORNING", LocalTime: &local}, s.sessionCookie())
	s.Equal(http.StatusCreated, rec.Code)
	s.JSONEq(`{"id":"`+testHabitID+`","name":"Read","period":"MORNING","local_time":"07:30"}`, rec.Body.String())
}

func (s *HandlerSuite) TestCreateHabitStatusCodes() {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.NewError(domain.ErrUnprocessable, "period must be one of MORNING, AFTERNOON, NIGHT"), http.StatusUnprocessableEntity, "invalid_input"},
		{domain.NewError(domain.ErrInvalidInput, "Invalid time format, expected HH:MM"), http.StatusBadRequest, "invalid_input"},
		{fmt.Errorf("acquire: %w", domain.ErrResourceExhausted), http.StatusInternalServerError, "resource_exhausted"},
		{fmt.Errorf("pq: connection refused"), http.StatusInternalServerError, "unexpected"},
	}

	for _, tc := range cases {
		s.habits.err = tc.err
		rec := s.do(http.MethodPost, "/api/habits", dto.CreateHabitRequest{Name: "Read", Period: "MORNING"}, s.sessionCookie())
		s.Equal(tc.status, rec.Code, tc.err.Error())

		resp := s.decodeError(rec)
		s.Equal(tc.code, resp.Code)
		s.Equal(http.StatusText(tc.status), resp.Error)
	}
}

func (s *HandlerSuite) TestUnexpectedErrorsHideDetails() {
	s.habits.err = fmt.Errorf("pq: password authentication failed for user habit")

	rec := s.do(http.MethodPost, "/api/habits", dto.CreateHabitRequest{Name: "Read", Period: "MORNING"}, s.sessionCookie())
	s.Equal(http.StatusInternalServerError, rec.Code)
	s.NotContains(rec.Body.String(), "password")
}

func (s *HandlerSuite) TestLogHabit() {
	note := "felt good"
	s.habits.log = &domain.HabitLog{
		HabitID:   testHabitID,
		Period:    domain.PeriodNight,
		Day:       time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		Completed: true,
		Note:      &note,
		CreatedAt: time.Date(2024, 1, 10, 21, 0, 0, 0, time.UTC),
	}

	rec := s.do(http.MethodPost, "/api/habit_log", dto.HabitLogRequest{HabitID: testHabitID, Period: "NIGHT", Day: "2024-01-10"}, s.sessionCookie())
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"habit_id":"`+testHabitID+`","period":"NIGHT","day":"2024-01-10","completed":true,"note":"felt good","created_at":"2024-01-10T21:00:00Z"}`, rec.Body.String())
}

func (s *HandlerSuite) TestLogHabitForeignHabit() {
	s.habits.err = domain.NewError(domain.ErrNotFound, "Habit not found")

	rec := s.do(http.MethodPost, "/api/habit_log", dto.HabitLogRequest{HabitID: testHabitID, Period: "NIGHT", Day: "2024-01-10"}, s.sessionCookie())
	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal("Habit not found", s.decodeError(rec).Message)
}

func (s *HandlerSuite) TestDailyCompletionIsPublic() {
	s.stats.series = []domain.DailyCompletion{{Date: "2024-01-10", Completed: 1, Total: 2, Pct: 0.5}}

	rec := s.do(http.MethodGet, "/api/stats/daily_completion?user_id="+testUserID+"&days=1&end_day=2024-01-10", nil, nil)
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`[{"date":"2024-01-10","completed":1,"total":2,"pct":0.5}]`, rec.Body.String())

	s.Equal(testUserID, s.stats.query.UserID)
	s.Equal("1", s.stats.query.Days)
	s.Equal("2024-01-10", s.stats.query.EndDay)
}

func (s *HandlerSuite) TestDailyCompletionInvalidWindow() {
	s.stats.err = domain.ErrInvalidWindow

	rec := s.do(http.MethodGet, "/api/stats/daily_completion?user_id="+testUserID+"&days=400", nil, nil)
	s.Equal(http.StatusUnprocessableEntity, rec.Code)

	resp := s.decodeError(rec)
	s.Equal("invalid_input", resp.Code)
	s.Equal("days must be between 1 and 365", resp.Message)
}

func (s *HandlerSuite) TestStatsPing() {
	rec := s.do(http.MethodGet, "/api/stats/ping", nil, nil)
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"ok":true,"router":"streaks","path":"/api/stats/ping"}`, rec.Body.String())
}

func (s *HandlerSuite) TestIndex() {
	rec := s.do(http.MethodGet, "/", nil, nil)
	s.Equal(http.StatusOK, rec.Code)

	var index dto.IndexResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &index))
	s.Equal("Habit Tracker API", index.Name)
	s.Contains(index.AuthEndpoints, "/auth/google")
	s.Contains(index.StreakEndpoints, "/api/stats/daily_completion")
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}
