package leave

const (
	TypeAnnual   = "ANNUAL"
	TypeSick     = "SICK"
	TypePersonal = "PERSONAL"
)

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

// LeaveRequest is the record stored in the "leave_requests" hash. Dates are
// kept as ISO-8601 strings end to end; the service parses them when it needs
// calendar arithmetic. Once created, everything except the review fields is
// immutable; status moves PENDING -> APPROVED or PENDING -> REJECTED exactly
// once.
type LeaveRequest struct {
	ID            string `json:"id"`
	EmployeeID    string `json:"employeeId"`
	EmployeeName  string `json:"employeeName"`
	EmployeeEmail string `json:"employeeEmail"`
	Type          string `json:"type"`
	StartDate     string `json:"startDate"` // YYYY-MM-DD
	EndDate       string `json:"endDate"`   // YYYY-MM-DD
	Reason        string `json:"reason"`
	Status        string `json:"status"`
	AppliedAt     string `json:"appliedAt"` // RFC 3339
	ReviewedAt    string `json:"reviewedAt,omitempty"`
	ReviewedBy    string `json:"reviewedBy,omitempty"` // manager email
	Comments      string `json:"comments,omitempty"`
}

func (l LeaveRequest) IsTerminal() bool {
	return l.Status != StatusPending
}
