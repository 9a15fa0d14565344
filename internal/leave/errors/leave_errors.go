package leaveerrors

import (
	"fmt"
	"net/http"
	"strings"

	"leavedesk/internal/shared/apperror"
)

var (
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrReasonLength = apperror.New(
		apperror.CodeInvalidInput,
		"Reason must be between 10 and 500 characters",
		http.StatusBadRequest,
	)
	ErrPastStartDate = apperror.New(
		apperror.CodeInvalidInput,
		"Start date cannot be in the past",
		http.StatusBadRequest,
	)
	ErrEndBeforeStart = apperror.New(
		apperror.CodeInvalidInput,
		"End date cannot be before start date",
		http.StatusBadRequest,
	)
	ErrExceedsMaxSpan = apperror.New(
		apperror.CodeInvalidInput,
		"Leave request cannot exceed 30 days",
		http.StatusBadRequest,
	)
	ErrPendingConflict = apperror.New(
		apperror.CodeInvalidInput,
		"You already have a pending leave request for these dates. Please wait for it to be processed before applying again.",
		http.StatusBadRequest,
	)
	ErrApprovedOverlap = apperror.New(
		apperror.CodeInvalidInput,
		"Leave request overlaps with existing approved leave",
		http.StatusBadRequest,
	)
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"Leave request not found",
		http.StatusNotFound,
	)
	ErrAlreadyProcessed = apperror.New(
		apperror.CodeConflict,
		"Leave request has already been processed",
		http.StatusConflict,
	)
	ErrManagerOnly = apperror.New(
		apperror.CodeForbidden,
		"Only managers can perform this action",
		http.StatusForbidden,
	)
)

func InsufficientBalance(leaveType string) *apperror.AppError {
	return apperror.New(
		apperror.CodeInvalidInput,
		fmt.Sprintf("Insufficient %s leave balance", strings.ToLower(leaveType)),
		http.StatusBadRequest,
	)
}
