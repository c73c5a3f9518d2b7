package http

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/auth"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-attendance/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/metrics"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/sse"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	handlerTestSecret = "test-secret-key-for-jwt"
	testUserID        = "3f2a9c1b-7d4e-4f60-9a1b-2c3d4e5f6a7b"
	testRecordID      = "9b8c7d6e-5f4a-4321-8765-0fedcba98765"
)

type fakeAttendanceService struct {
	createErr  error
	deleteErr  error
	lastCaller auth.Caller
	lastReq    attendance.CreateManualAttendanceRequest
}

func (f *fakeAttendanceService) CreateManualAttendance(ctx context.Context, req attendance.CreateManualAttendanceRequest) (attendance.AttendanceResponse, error) {
	f.lastCaller, _ = auth.CallerFromContext(ctx)
	f.lastReq = req
	if f.createErr != nil {
		return attendance.AttendanceResponse{}, f.createErr
	}
	return attendance.AttendanceResponse{ID: testRecordID, EmployeeID: req.EmployeeID, Date: req.Date, IsManual: true}, nil
}

func (f *fakeAttendanceService) ListAttendances(ctx context.Context) ([]attendance.AttendanceResponse, error) {
	return []attendance.AttendanceResponse{{ID: "a", IsLate: true, LateMinutes: 12}, {ID: "b"}}, nil
}

func (f *fakeAttendanceService) DeleteAttendance(ctx context.Context, id string) error {
	return f.deleteErr
}

type fakeWorkingDaysService struct {
	lastReq schedule.WorkingDaysRequest
}

func (f *fakeWorkingDaysService) Summary(_ context.Context, req schedule.WorkingDaysRequest) (schedule.WorkingDaysResponse, error) {
	f.lastReq = req
	if err := req.Validate(); err != nil {
		return schedule.WorkingDaysResponse{}, err
	}
	return schedule.WorkingDaysResponse{EmployeeID: req.EmployeeID, Count: 4}, nil
}

type routerFixture struct {
	router      http.Handler
	jwt         jwt.Service
	hub         *sse.Hub
	attendances *fakeAttendanceService
	workingDays *fakeWorkingDaysService
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	f := &routerFixture{
		jwt:         jwt.NewJWTService(handlerTestSecret),
		hub:         sse.NewHub(4),
		attendances: &fakeAttendanceService{},
		workingDays: &fakeWorkingDaysService{},
	}
	f.router = NewRouter(
		RouterConfig{
			AllowedOrigins: []string{"http://localhost:3000"},
			Logger:         slog.New(slog.NewJSONHandler(io.Discard, nil)),
			LogLevel:       slog.LevelError,
		},
		f.jwt,
		metrics.New(),
		NewAttendanceHandler(f.attendances),
		NewWorkingDaysHandler(f.workingDays),
		NewEventHandler(f.hub, time.Hour),
	)
	return f
}

func (f *routerFixture) token(t *testing.T, isAdmin bool) string {
	t.Helper()
	token, err := f.jwt.EncodeAccessToken(testUserID, "mario@example.com", "employee", isAdmin, time.Hour)
	require.NoError(t, err)
	return token
}

func (f *routerFixture) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, response.Response) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	var resp response.Response
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

func TestRouter_RequiresToken(t *testing.T) {
	f := newRouterFixture(t)

	rec, _ := f.do(t, http.MethodGet, "/api/v1/attendances", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = f.do(t, http.MethodGet, "/api/v1/attendances", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAttendanceHandler_List(t *testing.T) {
	f := newRouterFixture(t)

	rec, resp := f.do(t, http.MethodGet, "/api/v1/attendances", f.token(t, true), nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, response.Meta{TotalItems: 2, LateItems: 1, Scope: "all"}, *resp.Meta)

	_, resp = f.do(t, http.MethodGet, "/api/v1/attendances", f.token(t, false), nil)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, "own", resp.Meta.Scope)
}

func TestAttendanceHandler_CreateManual(t *testing.T) {
	body := attendance.CreateManualAttendanceRequest{EmployeeID: testUserID, Date: "2024-03-11"}

	t.Run("created", func(t *testing.T) {
		f := newRouterFixture(t)

		rec, resp := f.do(t, http.MethodPost, "/api/v1/attendances/manual", f.token(t, true), body)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.True(t, resp.Success)
		assert.True(t, f.attendances.lastCaller.IsAdmin)
		assert.Equal(t, "2024-03-11", f.attendances.lastReq.Date)
	})

	t.Run("hard conflict", func(t *testing.T) {
		f := newRouterFixture(t)
		f.attendances.createErr = &attendance.ConflictError{
			Kind:    attendance.ConflictBusinessTrip,
			Message: "critical conflict: employee is on a business trip to Milan from 2024-03-11 to 2024-03-15",
		}

		rec, resp := f.do(t, http.MethodPost, "/api/v1/attendances/manual", f.token(t, true), body)

		assert.Equal(t, http.StatusConflict, rec.Code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "HARD_CONFLICT", resp.Error.Code)
		assert.Contains(t, resp.Error.Message, "Milan")
	})

	t.Run("soft conflict", func(t *testing.T) {
		f := newRouterFixture(t)
		f.attendances.createErr = &attendance.ConflictError{
			Kind:    attendance.ConflictPermission,
			Message: "conflict: employee has an hourly permission from 09:00 to 11:00",
		}

		rec, resp := f.do(t, http.MethodPost, "/api/v1/attendances/manual", f.token(t, false), body)

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "SOFT_CONFLICT", resp.Error.Code)
	})

	t.Run("validation", func(t *testing.T) {
		f := newRouterFixture(t)
		f.attendances.createErr = validator.ValidationErrors{{Field: "date", Message: "date must be in YYYY-MM-DD format"}}

		rec, resp := f.do(t, http.MethodPost, "/api/v1/attendances/manual", f.token(t, true), body)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, "date must be in YYYY-MM-DD format", resp.Error.Details["date"])
	})

	t.Run("malformed body", func(t *testing.T) {
		f := newRouterFixture(t)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/attendances/manual", strings.NewReader("{"))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+f.token(t, true))
		rec := httptest.NewRecorder()

		f.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unexpected error hides details", func(t *testing.T) {
		f := newRouterFixture(t)
		f.attendances.createErr = assert.AnError

		rec, resp := f.do(t, http.MethodPost, "/api/v1/attendances/manual", f.token(t, true), body)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, resp.Error.Message, assert.AnError.Error())
	})
}

func TestAttendanceHandler_Delete(t *testing.T) {
	tests := []struct {
		name string
		id   string
		err  error
		want int
	}{
		{"deleted", testRecordID, nil, http.StatusOK},
		{"invalid id", "42", nil, http.StatusBadRequest},
		{"not found", testRecordID, attendance.ErrAttendanceNotFound, http.StatusNotFound},
		{"forbidden", testRecordID, auth.ErrAdminPrivilegeRequired, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRouterFixture(t)
			f.attendances.deleteErr = tt.err

			rec, _ := f.do(t, http.MethodDelete, "/api/v1/attendances/"+tt.id, f.token(t, false), nil)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestWorkingDaysHandler_Summary(t *testing.T) {
	f := newRouterFixture(t)
	path := "/api/v1/working-days?employee_id=" + testUserID + "&start_date=2024-04-22&end_date=2024-04-28"

	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Authorization", "Bearer "+f.token(t, false))
	req.Header.Set("Accept-Language", "it-IT,it;q=0.9")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "it-IT,it;q=0.9", f.workingDays.lastReq.Language)

	rec, _ = f.do(t, http.MethodGet, "/api/v1/working-days?employee_id="+testUserID+"&start_date=2024-04-28&end_date=2024-04-22&lang=en", f.token(t, false), nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "en", f.workingDays.lastReq.Language)
}

func TestRouter_MetricsAndHeartbeat(t *testing.T) {
	f := newRouterFixture(t)

	f.do(t, http.MethodGet, "/api/v1/attendances", f.token(t, true), nil)

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `route="/api/v1/attendances`)

	rec = httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestEventHandler_Stream(t *testing.T) {
	f := newRouterFixture(t)
	server := httptest.NewServer(f.router)
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/api/v1/events?jwt="+f.token(t, false), nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	readEvent := func() (string, string) {
		var name, data string
		for {
			line, err := reader.ReadString('\n')
			require.NoError(t, err)
			line = strings.TrimRight(line, "\n")
			switch {
			case strings.HasPrefix(line, "event: "):
				name = strings.TrimPrefix(line, "event: ")
			case strings.HasPrefix(line, "data: "):
				data = strings.TrimPrefix(line, "data: ")
			case line == "":
				return name, data
			}
		}
	}

	name, data := readEvent()
	assert.Equal(t, "connected", name)
	assert.Contains(t, data, testUserID)

	require.Eventually(t, func() bool { return f.hub.SubscriberCount(testUserID) == 1 }, time.Second, 10*time.Millisecond)
	f.hub.Publish(testUserID, sse.Event{Event: "notification", Data: map[string]string{"title": "Attendance recorded"}})

	name, data = readEvent()
	assert.Equal(t, "notification", name)
	assert.JSONEq(t, `{"title":"Attendance recorded"}`, data)
}
