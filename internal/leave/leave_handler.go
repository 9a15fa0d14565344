package leave

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"leavedesk/internal/shared/apperror"
	"leavedesk/internal/shared/response"
	"leavedesk/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	rdb     *redis.Client
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("leave.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.handler")
	}
	return &Handler{service: service, logger: l}
}

// NewHandlerWithRedis also lets Apply complete the idempotency flow: release
// the in-flight lock and cache the response for replay.
func NewHandlerWithRedis(service Service, rdb *redis.Client, logger ...*zap.Logger) *Handler {
	h := NewHandler(service, logger...)
	h.rdb = rdb
	return h
}

// currentUser reads the identity the auth middleware resolved for this
// request. The service layer trusts it verbatim.
func currentUser(c *gin.Context) (user.User, bool) {
	v, exists := c.Get("current_user")
	if !exists {
		return user.User{}, false
	}
	u, ok := v.(user.User)
	return u, ok
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("leave request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) writeUnauthenticated(c *gin.Context) {
	response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Authentication is required", nil)
}

func (h *Handler) Apply(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		h.writeUnauthenticated(c)
		return
	}

	lockKey, _ := c.Get("idempotency_lock_key")
	cacheKey, _ := c.Get("idempotency_cache_key")

	if h.rdb != nil {
		if lk, lkOK := lockKey.(string); lkOK && lk != "" {
			defer h.rdb.Del(c.Request.Context(), lk)
		}
	}

	var req CreateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http apply leave validation failed", zap.Error(err))
		httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
		return
	}

	resp, err := h.service.Apply(c.Request.Context(), req, actor)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	if h.rdb != nil {
		if ck, ckOK := cacheKey.(string); ckOK && ck != "" {
			if payload, marshalErr := json.Marshal(resp); marshalErr == nil {
				_ = h.rdb.Set(c.Request.Context(), ck, payload, 24*time.Hour).Err()
			}
		}
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetPending(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		h.writeUnauthenticated(c)
		return
	}

	resp, err := h.service.GetPending(c.Request.Context(), actor)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Decide(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		h.writeUnauthenticated(c)
		return
	}
	id := c.Param("id")

	var req DecideLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http decide leave validation failed", zap.Error(err))
		httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
		return
	}

	resp, err := h.service.Decide(c.Request.Context(), id, req, actor)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) MyRequests(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		h.writeUnauthenticated(c)
		return
	}

	resp, err := h.service.GetEmployeeRequests(c.Request.Context(), actor.ID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) AllRequests(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		h.writeUnauthenticated(c)
		return
	}

	resp, err := h.service.GetAllRequests(c.Request.Context(), actor)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if pageSize < 1 {
		pageSize = 10
	}

	total := int64(len(resp))
	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(resp) {
		start = len(resp)
	}
	if end > len(resp) {
		end = len(resp)
	}

	meta := response.NewPaginationMeta(total, page, pageSize)
	response.Success(c, http.StatusOK, resp[start:end], &meta)
}

func (h *Handler) Summary(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		h.writeUnauthenticated(c)
		return
	}

	month, err := strconv.Atoi(c.Query("month"))
	if err != nil || month < 1 || month > 12 {
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "month must be between 1 and 12", nil)
		return
	}
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year < 1 {
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "year is invalid", nil)
		return
	}

	// Managers may inspect any employee; employees always get their own.
	employeeID := actor.ID
	if actor.IsManager() {
		if qid := c.Query("employeeId"); qid != "" {
			employeeID = qid
		}
	}

	resp, err := h.service.GetSummary(c.Request.Context(), employeeID, month, year)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
