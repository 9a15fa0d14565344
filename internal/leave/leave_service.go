package leave

import (
	"context"
	"sort"
	"time"
	"unicode/utf8"

	"leavedesk/internal/events"
	leaveerrors "leavedesk/internal/leave/errors"
	"leavedesk/internal/user"
	usererrors "leavedesk/internal/user/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	maxSpanDays     = 30
	minReasonLength = 10
	maxReasonLength = 500
	dateLayout      = "2006-01-02"
)

type Service interface {
	Apply(ctx context.Context, req CreateLeaveRequest, actor user.User) (LeaveResponse, error)
	GetPending(ctx context.Context, actor user.User) ([]LeaveResponse, error)
	Decide(ctx context.Context, id string, req DecideLeaveRequest, actor user.User) (LeaveResponse, error)
	GetEmployeeRequests(ctx context.Context, employeeID string) ([]LeaveResponse, error)
	GetAllRequests(ctx context.Context, actor user.User) ([]LeaveResponse, error)
	GetSummary(ctx context.Context, employeeID string, month, year int) (LeaveSummary, error)
}

type service struct {
	repo      Repository
	users     user.Repository
	publisher DecisionPublisher
	logger    *zap.Logger
}

func NewService(repo Repository, users user.Repository, publisher DecisionPublisher, logger ...*zap.Logger) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	if publisher == nil {
		publisher = noopDecisionPublisher{}
	}
	return &service{repo: repo, users: users, publisher: publisher, logger: l}
}

func (s *service) Apply(ctx context.Context, req CreateLeaveRequest, actor user.User) (LeaveResponse, error) {
	s.logger.Debug("apply leave requested",
		zap.String("employee_id", actor.ID),
		zap.String("type", req.Type),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	// Input-only checks first; the store is not touched until they pass.
	// Reason length is counted in characters, matching the binding tag.
	if reasonLen := utf8.RuneCountInString(req.Reason); reasonLen < minReasonLength || reasonLen > maxReasonLength {
		return LeaveResponse{}, leaveerrors.ErrReasonLength
	}

	startDate, endDate, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return LeaveResponse{}, err
	}
	if startDate.Before(startOfToday()) {
		return LeaveResponse{}, leaveerrors.ErrPastStartDate
	}
	if endDate.Before(startDate) {
		return LeaveResponse{}, leaveerrors.ErrEndBeforeStart
	}

	days := inclusiveDays(startDate, endDate)
	if days > maxSpanDays {
		return LeaveResponse{}, leaveerrors.ErrExceedsMaxSpan
	}
	if days > actor.BalanceFor(req.Type) {
		s.logger.Warn("apply leave insufficient balance",
			zap.String("employee_id", actor.ID),
			zap.String("type", req.Type),
			zap.Int("requested_days", days),
		)
		return LeaveResponse{}, leaveerrors.InsufficientBalance(req.Type)
	}

	if err := s.checkOverlap(ctx, actor.ID, startDate, endDate); err != nil {
		return LeaveResponse{}, err
	}

	l := &LeaveRequest{
		ID:            uuid.New().String(),
		EmployeeID:    actor.ID,
		EmployeeName:  actor.Name,
		EmployeeEmail: actor.Email,
		Type:          req.Type,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		Reason:        req.Reason,
		Status:        StatusPending,
		AppliedAt:     time.Now().UTC().Format(time.RFC3339),
	}

	if err := s.repo.Save(ctx, l); err != nil {
		s.logger.Error("apply leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if err := s.repo.AddToIndex(ctx, IndexPending, l.ID); err != nil {
		return LeaveResponse{}, err
	}
	if err := s.repo.AddToIndex(ctx, IndexAll, l.ID); err != nil {
		return LeaveResponse{}, err
	}

	s.logger.Info("apply leave success",
		zap.String("request_id", l.ID),
		zap.String("employee_id", actor.ID),
		zap.Int("total_days", days),
	)
	return mapToResponse(*l), nil
}

// checkOverlap scans the employee's existing PENDING and APPROVED requests
// for an intersecting inclusive interval. The scan and the subsequent save
// are not serialized against concurrent applies; two racing calls can both
// pass. That matches the store's primitive-level atomicity and is accepted.
func (s *service) checkOverlap(ctx context.Context, employeeID string, startDate, endDate time.Time) error {
	existing, err := s.repo.ListByIndex(ctx, IndexAll)
	if err != nil {
		s.logger.Error("apply leave overlap check failed", zap.Error(err))
		return err
	}

	for _, req := range existing {
		if req.EmployeeID != employeeID {
			continue
		}
		if req.Status != StatusPending && req.Status != StatusApproved {
			continue
		}
		otherStart, otherEnd, err := parseDateRange(req.StartDate, req.EndDate)
		if err != nil {
			continue
		}
		if datesOverlap(startDate, endDate, otherStart, otherEnd) {
			if req.Status == StatusPending {
				return leaveerrors.ErrPendingConflict
			}
			return leaveerrors.ErrApprovedOverlap
		}
	}
	return nil
}

func (s *service) GetPending(ctx context.Context, actor user.User) ([]LeaveResponse, error) {
	if !actor.IsManager() {
		return nil, leaveerrors.ErrManagerOnly
	}

	requests, err := s.repo.ListByIndex(ctx, IndexPending)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(sortByAppliedAtDesc(requests)), nil
}

func (s *service) Decide(ctx context.Context, id string, req DecideLeaveRequest, actor user.User) (LeaveResponse, error) {
	s.logger.Debug("decide leave requested",
		zap.String("request_id", id),
		zap.String("actor_id", actor.ID),
		zap.String("target_status", req.Status),
	)

	if !actor.IsManager() {
		return LeaveResponse{}, leaveerrors.ErrManagerOnly
	}

	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return LeaveResponse{}, err
	}
	if l == nil {
		return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
	}
	if l.IsTerminal() {
		s.logger.Warn("decide leave already processed",
			zap.String("request_id", id),
			zap.String("status", l.Status),
		)
		return LeaveResponse{}, leaveerrors.ErrAlreadyProcessed
	}

	l.Status = req.Status
	l.ReviewedAt = time.Now().UTC().Format(time.RFC3339)
	l.ReviewedBy = actor.Email
	l.Comments = req.Comments

	if err := s.repo.Save(ctx, l); err != nil {
		s.logger.Error("decide leave persist failed",
			zap.String("request_id", id),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}
	if err := s.repo.RemoveFromIndex(ctx, IndexPending, id); err != nil {
		return LeaveResponse{}, err
	}

	days := 0
	if startDate, endDate, derr := parseDateRange(l.StartDate, l.EndDate); derr == nil {
		days = inclusiveDays(startDate, endDate)
	}

	if req.Status == StatusApproved {
		if err := s.debitBalance(ctx, l.EmployeeID, l.Type, days); err != nil {
			s.logger.Error("decide leave balance debit failed",
				zap.String("request_id", id),
				zap.String("employee_id", l.EmployeeID),
				zap.Error(err),
			)
			return LeaveResponse{}, err
		}
	}

	if err := s.publisher.PublishLeaveDecided(ctx, events.LeaveDecidedEvent{
		EventType:  "leave.decided",
		RequestID:  l.ID,
		EmployeeID: l.EmployeeID,
		LeaveType:  l.Type,
		Status:     l.Status,
		TotalDays:  days,
		DecidedBy:  actor.Email,
		OccurredAt: time.Now().UTC(),
	}); err != nil {
		// The decision is committed; a publish failure must not undo it.
		s.logger.Warn("decide leave event publish failed",
			zap.String("request_id", id),
			zap.Error(err),
		)
	}

	s.logger.Info("decide leave success",
		zap.String("request_id", id),
		zap.String("status", l.Status),
		zap.String("reviewed_by", actor.Email),
	)
	return mapToResponse(*l), nil
}

// debitBalance subtracts the inclusive day count from the employee's balance
// for the request's type. The balance is not re-checked here: it may have
// drifted since the apply-time check, and a negative result is accepted.
func (s *service) debitBalance(ctx context.Context, employeeID, leaveType string, days int) error {
	u, err := s.users.FindByID(ctx, employeeID)
	if err != nil {
		return err
	}
	if u == nil {
		return nil
	}
	u.DebitBalance(leaveType, days)
	return s.users.Save(ctx, u)
}

func (s *service) GetEmployeeRequests(ctx context.Context, employeeID string) ([]LeaveResponse, error) {
	all, err := s.repo.ListByIndex(ctx, IndexAll)
	if err != nil {
		return nil, err
	}

	requests := make([]LeaveRequest, 0, len(all))
	for _, req := range all {
		if req.EmployeeID == employeeID {
			requests = append(requests, req)
		}
	}
	return mapToListResponse(sortByAppliedAtDesc(requests)), nil
}

func (s *service) GetAllRequests(ctx context.Context, actor user.User) ([]LeaveResponse, error) {
	if !actor.IsManager() {
		return nil, leaveerrors.ErrManagerOnly
	}

	all, err := s.repo.ListByIndex(ctx, IndexAll)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(sortByAppliedAtDesc(all)), nil
}

func (s *service) GetSummary(ctx context.Context, employeeID string, month, year int) (LeaveSummary, error) {
	u, err := s.users.FindByID(ctx, employeeID)
	if err != nil {
		return LeaveSummary{}, err
	}
	if u == nil {
		return LeaveSummary{}, usererrors.ErrUserNotFound
	}

	all, err := s.repo.ListByIndex(ctx, IndexAll)
	if err != nil {
		return LeaveSummary{}, err
	}

	// The summary buckets by appliedAt, not by the leave dates: it reports
	// application activity within the month, not leave consumption.
	var requests []LeaveRequest
	for _, req := range all {
		if req.EmployeeID != employeeID {
			continue
		}
		appliedAt, perr := time.Parse(time.RFC3339, req.AppliedAt)
		if perr != nil {
			continue
		}
		if int(appliedAt.Month()) == month && appliedAt.Year() == year {
			requests = append(requests, req)
		}
	}

	summary := LeaveSummary{
		EmployeeID:   employeeID,
		EmployeeName: u.Name,
		Month:        month,
		Year:         year,
		ByType:       map[string]LeaveTypeSummary{},
	}

	var approved []LeaveRequest
	for _, req := range requests {
		summary.TotalRequests++
		switch req.Status {
		case StatusApproved:
			summary.ApprovedRequests++
			approved = append(approved, req)
		case StatusPending:
			summary.PendingRequests++
		case StatusRejected:
			summary.RejectedRequests++
		}
	}
	summary.TotalDays = totalDays(approved)

	for _, leaveType := range []string{TypeAnnual, TypeSick, TypePersonal} {
		var ofType []LeaveRequest
		for _, req := range approved {
			if req.Type == leaveType {
				ofType = append(ofType, req)
			}
		}
		summary.ByType[leaveType] = LeaveTypeSummary{
			Count: len(ofType),
			Days:  totalDays(ofType),
		}
	}

	return summary, nil
}

func parseDateRange(start, end string) (time.Time, time.Time, error) {
	startDate, err := time.Parse(dateLayout, start)
	if err != nil {
		return time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	endDate, err := time.Parse(dateLayout, end)
	if err != nil {
		return time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return startDate, endDate, nil
}

// startOfToday returns the caller-local calendar day boundary, normalized to
// UTC so it compares cleanly against parsed YYYY-MM-DD dates.
func startOfToday() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// inclusiveDays counts both endpoints: a one-day leave spans 1 day.
func inclusiveDays(startDate, endDate time.Time) int {
	return int(endDate.Sub(startDate).Hours()/24) + 1
}

func datesOverlap(start1, end1, start2, end2 time.Time) bool {
	return !start1.After(end2) && !start2.After(end1)
}

func totalDays(requests []LeaveRequest) int {
	total := 0
	for _, req := range requests {
		if startDate, endDate, err := parseDateRange(req.StartDate, req.EndDate); err == nil {
			total += inclusiveDays(startDate, endDate)
		}
	}
	return total
}

func sortByAppliedAtDesc(requests []LeaveRequest) []LeaveRequest {
	sort.SliceStable(requests, func(i, j int) bool {
		ti, _ := time.Parse(time.RFC3339, requests[i].AppliedAt)
		tj, _ := time.Parse(time.RFC3339, requests[j].AppliedAt)
		return ti.After(tj)
	})
	return requests
}

func mapToResponse(l LeaveRequest) LeaveResponse {
	return LeaveResponse{
		ID:            l.ID,
		EmployeeName:  l.EmployeeName,
		EmployeeEmail: l.EmployeeEmail,
		Type:          l.Type,
		StartDate:     l.StartDate,
		EndDate:       l.EndDate,
		Reason:        l.Reason,
		Status:        l.Status,
		AppliedAt:     l.AppliedAt,
		ReviewedAt:    l.ReviewedAt,
		ReviewedBy:    l.ReviewedBy,
		Comments:      l.Comments,
	}
}

func mapToListResponse(requests []LeaveRequest) []LeaveResponse {
	resp := make([]LeaveResponse, len(requests))
	for i, l := range requests {
		resp[i] = mapToResponse(l)
	}
	return resp
}
