package user

const (
	RoleEmployee = "EMPLOYEE"
	RoleManager  = "MANAGER"
)

// LeaveBalance is the per-type remaining allotment of days. Mutated only by
// the leave service when a request is approved.
type LeaveBalance struct {
	Annual   int `json:"annual"`
	Sick     int `json:"sick"`
	Personal int `json:"personal"`
}

// User is the identity record stored in the "users" hash. JSON field names
// match the stored documents (camelCase, dates as ISO-8601 strings).
type User struct {
	ID           string       `json:"id"`
	Email        string       `json:"email"`
	Password     string       `json:"password,omitempty"`
	Name         string       `json:"name"`
	Role         string       `json:"role"`
	Department   string       `json:"department"`
	LeaveBalance LeaveBalance `json:"leaveBalance"`
	CreatedAt    string       `json:"createdAt"`
}

func (u User) IsManager() bool {
	return u.Role == RoleManager
}

// BalanceFor returns the remaining days for a leave type. Unknown types fall
// back to the annual bucket, matching the stored-data convention.
func (u User) BalanceFor(leaveType string) int {
	switch leaveType {
	case "SICK":
		return u.LeaveBalance.Sick
	case "PERSONAL":
		return u.LeaveBalance.Personal
	default:
		return u.LeaveBalance.Annual
	}
}

func (u *User) DebitBalance(leaveType string, days int) {
	switch leaveType {
	case "SICK":
		u.LeaveBalance.Sick -= days
	case "PERSONAL":
		u.LeaveBalance.Personal -= days
	default:
		u.LeaveBalance.Annual -= days
	}
}
