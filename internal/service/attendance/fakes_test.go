package attendance

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/notification"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/cache"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/stretchr/testify/require"
)

const (
	employeeID = "3f2a9c1b-7d4e-4f60-9a1b-2c3d4e5f6a7b"
	adminID    = "9b8c7d6e-5f4a-4321-8765-0fedcba98765"
)

var errBackend = errors.New("connection reset by peer")

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

// date returns midnight UTC of the given day.
func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func callerContext(t *testing.T, userID string, isAdmin bool) context.Context {
	t.Helper()
	token := jwt.New()
	require.NoError(t, token.Set("user_id", userID))
	require.NoError(t, token.Set("is_admin", isAdmin))
	return jwtauth.NewContext(context.Background(), token, nil)
}

type fakeLeaveRepo struct {
	vacations     []leave.LeaveRequest
	permissions   []leave.LeaveRequest
	vacationErr   error
	permissionErr error
	calls         []string
}

func (f *fakeLeaveRepo) ListApprovedVacations(_ context.Context, _ string, _ time.Time) ([]leave.LeaveRequest, error) {
	f.calls = append(f.calls, "vacations")
	return f.vacations, f.vacationErr
}

func (f *fakeLeaveRepo) ListApprovedPermissions(_ context.Context, _ string, _ time.Time) ([]leave.LeaveRequest, error) {
	f.calls = append(f.calls, "permissions")
	return f.permissions, f.permissionErr
}

type fakeTripRepo struct {
	trips []leave.BusinessTrip
	err   error
	calls int
}

func (f *fakeTripRepo) ListApprovedCovering(_ context.Context, _ string, _ time.Time) ([]leave.BusinessTrip, error) {
	f.calls++
	return f.trips, f.err
}

type fakeSickRepo struct {
	sickLeaves []leave.SickLeave
	err        error
	calls      int
}

func (f *fakeSickRepo) ListCovering(_ context.Context, _ string, _ time.Time) ([]leave.SickLeave, error) {
	f.calls++
	return f.sickLeaves, f.err
}

type fakeScheduleRepo struct {
	company  *schedule.WorkSchedule
	employee *schedule.EmployeeWorkSchedule
	err      error
}

func (f *fakeScheduleRepo) GetCompanySchedule(_ context.Context) (*schedule.WorkSchedule, error) {
	return f.company, f.err
}

func (f *fakeScheduleRepo) GetEmployeeSchedule(_ context.Context, _ string) (*schedule.EmployeeWorkSchedule, error) {
	return f.employee, f.err
}

type fakeAttendanceRepo struct {
	mu        sync.Mutex
	rows      map[string]attendance.Attendance
	upserted  []attendance.Attendance
	deleted   []string
	listCalls int
	upsertErr error
	listErr   error
	// afterList runs once the rows are read, outside the lock.
	afterList func()
}

func newFakeAttendanceRepo(rows ...attendance.Attendance) *fakeAttendanceRepo {
	f := &fakeAttendanceRepo{rows: map[string]attendance.Attendance{}}
	for _, r := range rows {
		f.rows[r.ID] = r
	}
	return f
}

func (f *fakeAttendanceRepo) Upsert(_ context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertErr != nil {
		return attendance.Attendance{}, f.upsertErr
	}
	for id, row := range f.rows {
		if row.EmployeeID == a.EmployeeID && leave.SameDay(row.Date, a.Date) {
			a.ID = id
			a.CreatedAt = row.CreatedAt
		}
	}
	if a.ID == "" {
		a.ID = "att-" + a.EmployeeID[:8] + "-" + a.Date.Format("20060102")
		a.CreatedAt = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	}
	f.rows[a.ID] = a
	f.upserted = append(f.upserted, a)
	return a, nil
}

func (f *fakeAttendanceRepo) GetByID(_ context.Context, id string) (attendance.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[id]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return row, nil
}

func (f *fakeAttendanceRepo) List(ctx context.Context, employeeID *string) ([]attendance.Attendance, error) {
	out, err := f.list(employeeID)
	if err != nil {
		return nil, err
	}
	if f.afterList != nil {
		f.afterList()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (f *fakeAttendanceRepo) list(employeeID *string) ([]attendance.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []attendance.Attendance{}
	for _, row := range f.rows {
		if employeeID == nil || row.EmployeeID == *employeeID {
			out = append(out, row)
		}
	}
	// newest first
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Date.After(out[j-1].Date); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out, nil
}

func (f *fakeAttendanceRepo) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls
}

func (f *fakeAttendanceRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rows, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeLegacyRepo struct {
	err   error
	calls int
}

func (f *fakeLegacyRepo) DeleteByEmployeeAndDate(_ context.Context, _ string, _ time.Time) error {
	f.calls++
	return f.err
}

type fakeProfileRepo struct {
	profiles []employee.Profile
	err      error
}

func (f *fakeProfileRepo) ListByIDs(_ context.Context, _ []string) ([]employee.Profile, error) {
	return f.profiles, f.err
}

type fakePaths struct{}

func (fakePaths) OperationPath(_ context.Context, kind, employeeID string, day time.Time) (string, error) {
	return "hris/" + day.Format("2006/01/02") + "/" + kind + "/" + employeeID, nil
}

func (fakePaths) ReadableID(_ string, day time.Time, _ string) string {
	return "MA-" + day.Format("20060102") + "-3F2A9C1B"
}

type fakeInvalidator struct {
	keys []string
	err  error
}

func (f *fakeInvalidator) Invalidate(_ context.Context, keys ...string) error {
	f.keys = append(f.keys, keys...)
	return f.err
}

// memoryCache is an in-process cache.Store and Invalidator with the same
// generation semantics as the Redis one.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string]map[string][]attendance.AttendanceResponse
	gens    map[string]int64
}

func newMemoryCache() *memoryCache {
	return &memoryCache{
		entries: map[string]map[string][]attendance.AttendanceResponse{},
		gens:    map[string]int64{},
	}
}

func (m *memoryCache) Get(_ context.Context, key, field string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.entries[key][field]
	if !ok {
		return cache.ErrCacheMiss
	}
	*dest.(*[]attendance.AttendanceResponse) = v
	return nil
}

func (m *memoryCache) Generation(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gens[key], nil
}

func (m *memoryCache) Set(_ context.Context, key, field string, generation int64, value interface{}) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gens[key] != generation {
		return false, nil
	}
	if m.entries[key] == nil {
		m.entries[key] = map[string][]attendance.AttendanceResponse{}
	}
	m.entries[key][field] = value.([]attendance.AttendanceResponse)
	return true, nil
}

func (m *memoryCache) Invalidate(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.entries, k)
		m.gens[k]++
	}
	return nil
}

type fakeNotifier struct {
	sent []notification.Notification
}

func (f *fakeNotifier) Notify(_ context.Context, n notification.Notification) {
	f.sent = append(f.sent, n)
}

func weekdaysNineToSix(tolerance int) *schedule.WorkSchedule {
	return &schedule.WorkSchedule{
		ID: "company",
		Days: schedule.WeekdayFlags{
			Monday: true, Tuesday: true, Wednesday: true, Thursday: true, Friday: true,
		},
		StartTime:        strPtr("09:00:00"),
		EndTime:          strPtr("18:00:00"),
		ToleranceMinutes: tolerance,
	}
}

func hourlyPermission(id string, day time.Time, from, to string) leave.LeaveRequest {
	return leave.LeaveRequest{
		ID:         id,
		EmployeeID: employeeID,
		Type:       leave.LeaveTypePermission,
		Status:     leave.LeaveRequestStatusApproved,
		Day:        timePtr(day),
		TimeFrom:   strPtr(from),
		TimeTo:     strPtr(to),
	}
}
