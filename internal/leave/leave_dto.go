package leave

type CreateLeaveRequest struct {
	Type      string `json:"type" binding:"required,oneof=ANNUAL SICK PERSONAL"`
	StartDate string `json:"startDate" binding:"required,datetime=2006-01-02"`
	EndDate   string `json:"endDate" binding:"required,datetime=2006-01-02"`
	Reason    string `json:"reason" binding:"required,min=10,max=500"`
}

type DecideLeaveRequest struct {
	Status   string `json:"status" binding:"required,oneof=APPROVED REJECTED"`
	Comments string `json:"comments" binding:"omitempty,min=5"`
}

// LeaveResponse is the record as exposed to callers: the stored request
// without the employee id, never any credential.
type LeaveResponse struct {
	ID            string `json:"id"`
	EmployeeName  string `json:"employeeName"`
	EmployeeEmail string `json:"employeeEmail"`
	Type          string `json:"type"`
	StartDate     string `json:"startDate"`
	EndDate       string `json:"endDate"`
	Reason        string `json:"reason"`
	Status        string `json:"status"`
	AppliedAt     string `json:"appliedAt"`
	ReviewedAt    string `json:"reviewedAt,omitempty"`
	ReviewedBy    string `json:"reviewedBy,omitempty"`
	Comments      string `json:"comments,omitempty"`
}

type LeaveTypeSummary struct {
	Count int `json:"count"`
	Days  int `json:"days"`
}

// LeaveSummary reports application activity within a calendar month: requests
// are bucketed by appliedAt, not by the leave dates themselves.
type LeaveSummary struct {
	EmployeeID       string                      `json:"employeeId"`
	EmployeeName     string                      `json:"employeeName"`
	Month            int                         `json:"month"`
	Year             int                         `json:"year"`
	TotalRequests    int                         `json:"totalRequests"`
	ApprovedRequests int                         `json:"approvedRequests"`
	PendingRequests  int                         `json:"pendingRequests"`
	RejectedRequests int                         `json:"rejectedRequests"`
	TotalDays        int                         `json:"totalDays"`
	ByType           map[string]LeaveTypeSummary `json:"byType"`
}
