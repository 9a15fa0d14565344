package leave_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"

	"leavedesk/internal/leave"
	leaveerrors "leavedesk/internal/leave/errors"
	"leavedesk/internal/middleware"
	"leavedesk/internal/user"
)

type fakeService struct {
	applyFn               func(ctx context.Context, req leave.CreateLeaveRequest, actor user.User) (leave.LeaveResponse, error)
	getPendingFn          func(ctx context.Context, actor user.User) ([]leave.LeaveResponse, error)
	decideFn              func(ctx context.Context, id string, req leave.DecideLeaveRequest, actor user.User) (leave.LeaveResponse, error)
	getEmployeeRequestsFn func(ctx context.Context, employeeID string) ([]leave.LeaveResponse, error)
	getAllRequestsFn      func(ctx context.Context, actor user.User) ([]leave.LeaveResponse, error)
	getSummaryFn          func(ctx context.Context, employeeID string, month, year int) (leave.LeaveSummary, error)
}

func (f *fakeService) Apply(ctx context.Context, req leave.CreateLeaveRequest, actor user.User) (leave.LeaveResponse, error) {
	return f.applyFn(ctx, req, actor)
}
func (f *fakeService) GetPending(ctx context.Context, actor user.User) ([]leave.LeaveResponse, error) {
	return f.getPendingFn(ctx, actor)
}
func (f *fakeService) Decide(ctx context.Context, id string, req leave.DecideLeaveRequest, actor user.User) (leave.LeaveResponse, error) {
	return f.decideFn(ctx, id, req, actor)
}
func (f *fakeService) GetEmployeeRequests(ctx context.Context, employeeID string) ([]leave.LeaveResponse, error) {
	return f.getEmployeeRequestsFn(ctx, employeeID)
}
func (f *fakeService) GetAllRequests(ctx context.Context, actor user.User) ([]leave.LeaveResponse, error) {
	return f.getAllRequestsFn(ctx, actor)
}
func (f *fakeService) GetSummary(ctx context.Context, employeeID string, month, year int) (leave.LeaveSummary, error) {
	return f.getSummaryFn(ctx, employeeID, month, year)
}

// setupRouter wires the handler behind a stub of the auth middleware that
// injects the given identity as current_user.
func setupRouter(svc leave.Service, actor *user.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if actor != nil {
			c.Set("current_user", *actor)
		}
		c.Next()
	})

	h := leave.NewHandler(svc)
	r.POST("/leave/apply", h.Apply)
	r.GET("/leave/pending", h.GetPending)
	r.POST("/leave/approve/:id", h.Decide)
	r.GET("/leave/my-requests", h.MyRequests)
	r.GET("/leave/all-requests", h.AllRequests)
	r.GET("/leave/summary", h.Summary)
	return r
}

func testActor() user.User {
	return user.User{
		ID:    "emp-1",
		Email: "john.doe@company.com",
		Name:  "John Doe",
		Role:  user.RoleEmployee,
	}
}

func validApplyBody() []byte {
	body, _ := json.Marshal(leave.CreateLeaveRequest{
		Type:      leave.TypeAnnual,
		StartDate: time.Now().AddDate(0, 0, 10).Format("2006-01-02"),
		EndDate:   time.Now().AddDate(0, 0, 11).Format("2006-01-02"),
		Reason:    "Family vacation is planned",
	})
	return body
}

func TestHandler_Apply(t *testing.T) {
	t.Run("success returns 201 with the created request", func(t *testing.T) {
		actor := testActor()
		svc := &fakeService{applyFn: func(ctx context.Context, req leave.CreateLeaveRequest, got user.User) (leave.LeaveResponse, error) {
			assert.Equal(t, actor.ID, got.ID)
			return leave.LeaveResponse{ID: "req-1", Status: leave.StatusPending}, nil
		}}
		router := setupRouter(svc, &actor)

		req := httptest.NewRequest(http.MethodPost, "/leave/apply", bytes.NewBuffer(validApplyBody()))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var res map[string]interface{}
		json.Unmarshal(w.Body.Bytes(), &res)
		assert.Equal(t, true, res["ok"])
		assert.Equal(t, "PENDING", res["data"].(map[string]interface{})["status"])
	})

	t.Run("binding failure returns 400 and never reaches the service", func(t *testing.T) {
		actor := testActor()
		svc := &fakeService{applyFn: func(ctx context.Context, req leave.CreateLeaveRequest, got user.User) (leave.LeaveResponse, error) {
			t.Fatal("service must not be called on invalid payload")
			return leave.LeaveResponse{}, nil
		}}
		router := setupRouter(svc, &actor)

		body := []byte(`{"type": "MATERNITY", "startDate": "2024-02-15", "endDate": "2024-02-16", "reason": "Family vacation is planned"}`)
		req := httptest.NewRequest(http.MethodPost, "/leave/apply", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("service error is mapped to its HTTP status", func(t *testing.T) {
		actor := testActor()
		svc := &fakeService{applyFn: func(ctx context.Context, req leave.CreateLeaveRequest, got user.User) (leave.LeaveResponse, error) {
			return leave.LeaveResponse{}, leaveerrors.ErrPendingConflict
		}}
		router := setupRouter(svc, &actor)

		req := httptest.NewRequest(http.MethodPost, "/leave/apply", bytes.NewBuffer(validApplyBody()))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var res map[string]interface{}
		json.Unmarshal(w.Body.Bytes(), &res)
		assert.Equal(t, false, res["ok"])
		assert.Contains(t, res["error"].(map[string]interface{})["message"], "pending leave request")
	})

	t.Run("missing identity returns 401", func(t *testing.T) {
		svc := &fakeService{}
		router := setupRouter(svc, nil)

		req := httptest.NewRequest(http.MethodPost, "/leave/apply", bytes.NewBuffer(validApplyBody()))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestHandler_Apply_IdempotencyFlow(t *testing.T) {
	actor := testActor()
	created := leave.LeaveResponse{ID: "req-1", Status: leave.StatusPending}

	calls := 0
	svc := &fakeService{applyFn: func(ctx context.Context, req leave.CreateLeaveRequest, got user.User) (leave.LeaveResponse, error) {
		calls++
		return created, nil
	}}

	db, mock := redismock.NewClientMock()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("current_user", actor)
		c.Set("user_id", actor.ID)
		c.Next()
	})
	h := leave.NewHandlerWithRedis(svc, db)
	router.POST("/leave/apply", middleware.Idempotency(db), h.Apply)

	cacheKey := "idemp:/leave/apply:" + actor.ID + ":key-1"
	lockKey := cacheKey + ":lock"
	payload, _ := json.Marshal(created)

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/leave/apply", bytes.NewBuffer(validApplyBody()))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Idempotency-Key", "key-1")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("first request caches the response and releases the lock", func(t *testing.T) {
		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(lockKey, "locked", 30*time.Second).SetVal(true)
		mock.ExpectSet(cacheKey, payload, 24*time.Hour).SetVal("OK")
		mock.ExpectDel(lockKey).SetVal(1)

		w := send()
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, 1, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("retry after success replays the cached response", func(t *testing.T) {
		mock.ExpectGet(cacheKey).SetVal(string(payload))

		w := send()
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, calls) // service not called again

		var res map[string]interface{}
		json.Unmarshal(w.Body.Bytes(), &res)
		assert.Equal(t, "req-1", res["data"].(map[string]interface{})["id"])
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("retry while the first is in flight conflicts", func(t *testing.T) {
		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(lockKey, "locked", 30*time.Second).SetVal(false)

		w := send()
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, 1, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestHandler_Decide(t *testing.T) {
	t.Run("passes path id and body through", func(t *testing.T) {
		actor := testActor()
		actor.Role = user.RoleManager

		svc := &fakeService{decideFn: func(ctx context.Context, id string, req leave.DecideLeaveRequest, got user.User) (leave.LeaveResponse, error) {
			assert.Equal(t, "req-42", id)
			assert.Equal(t, leave.StatusApproved, req.Status)
			return leave.LeaveResponse{ID: id, Status: req.Status, ReviewedBy: got.Email}, nil
		}}
		router := setupRouter(svc, &actor)

		body, _ := json.Marshal(leave.DecideLeaveRequest{Status: leave.StatusApproved})
		req := httptest.NewRequest(http.MethodPost, "/leave/approve/req-42", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("already processed maps to 409", func(t *testing.T) {
		actor := testActor()
		actor.Role = user.RoleManager

		svc := &fakeService{decideFn: func(ctx context.Context, id string, req leave.DecideLeaveRequest, got user.User) (leave.LeaveResponse, error) {
			return leave.LeaveResponse{}, leaveerrors.ErrAlreadyProcessed
		}}
		router := setupRouter(svc, &actor)

		body, _ := json.Marshal(leave.DecideLeaveRequest{Status: leave.StatusRejected})
		req := httptest.NewRequest(http.MethodPost, "/leave/approve/req-42", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("invalid target status is rejected by binding", func(t *testing.T) {
		actor := testActor()
		actor.Role = user.RoleManager

		svc := &fakeService{decideFn: func(ctx context.Context, id string, req leave.DecideLeaveRequest, got user.User) (leave.LeaveResponse, error) {
			t.Fatal("service must not be called on invalid payload")
			return leave.LeaveResponse{}, nil
		}}
		router := setupRouter(svc, &actor)

		body := []byte(`{"status": "PENDING"}`)
		req := httptest.NewRequest(http.MethodPost, "/leave/approve/req-42", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandler_MyRequests(t *testing.T) {
	actor := testActor()
	svc := &fakeService{getEmployeeRequestsFn: func(ctx context.Context, employeeID string) ([]leave.LeaveResponse, error) {
		assert.Equal(t, actor.ID, employeeID)
		return []leave.LeaveResponse{{ID: "req-1"}}, nil
	}}
	router := setupRouter(svc, &actor)

	req := httptest.NewRequest(http.MethodGet, "/leave/my-requests", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandler_AllRequests(t *testing.T) {
	actor := testActor()
	actor.Role = user.RoleManager

	all := make([]leave.LeaveResponse, 0, 15)
	for i := 0; i < 15; i++ {
		all = append(all, leave.LeaveResponse{ID: "req"})
	}
	svc := &fakeService{getAllRequestsFn: func(ctx context.Context, got user.User) ([]leave.LeaveResponse, error) {
		return all, nil
	}}
	router := setupRouter(svc, &actor)

	req := httptest.NewRequest(http.MethodGet, "/leave/all-requests?page=2&page_size=10", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Len(t, res["data"].([]interface{}), 5)
	meta := res["meta"].(map[string]interface{})
	assert.Equal(t, float64(15), meta["total"])
	assert.Equal(t, float64(2), meta["page"])
}

func TestHandler_Summary(t *testing.T) {
	t.Run("employee always gets their own summary", func(t *testing.T) {
		actor := testActor()
		svc := &fakeService{getSummaryFn: func(ctx context.Context, employeeID string, month, year int) (leave.LeaveSummary, error) {
			assert.Equal(t, actor.ID, employeeID)
			assert.Equal(t, 1, month)
			assert.Equal(t, 2024, year)
			return leave.LeaveSummary{EmployeeID: employeeID, Month: month, Year: year}, nil
		}}
		router := setupRouter(svc, &actor)

		// the employeeId override must be ignored for non-managers
		req := httptest.NewRequest(http.MethodGet, "/leave/summary?month=1&year=2024&employeeId=emp-9", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("manager can inspect another employee", func(t *testing.T) {
		actor := testActor()
		actor.Role = user.RoleManager

		svc := &fakeService{getSummaryFn: func(ctx context.Context, employeeID string, month, year int) (leave.LeaveSummary, error) {
			assert.Equal(t, "emp-9", employeeID)
			return leave.LeaveSummary{EmployeeID: employeeID}, nil
		}}
		router := setupRouter(svc, &actor)

		req := httptest.NewRequest(http.MethodGet, "/leave/summary?month=1&year=2024&employeeId=emp-9", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("month out of range", func(t *testing.T) {
		actor := testActor()
		svc := &fakeService{getSummaryFn: func(ctx context.Context, employeeID string, month, year int) (leave.LeaveSummary, error) {
			t.Fatal("service must not be called with an invalid month")
			return leave.LeaveSummary{}, nil
		}}
		router := setupRouter(svc, &actor)

		req := httptest.NewRequest(http.MethodGet, "/leave/summary?month=13&year=2024", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
