package main

import (
	"context"
	"os"
	"time"

	"leavedesk/internal/leave"
	"leavedesk/internal/shared/kvstore"
	"leavedesk/internal/user"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var seedUsers = []user.User{
	{
		Email:        "john.doe@company.com",
		Name:         "John Doe",
		Role:         user.RoleEmployee,
		Department:   "Engineering",
		LeaveBalance: user.LeaveBalance{Annual: 20, Sick: 10, Personal: 5},
	},
	{
		Email:        "jane.smith@company.com",
		Name:         "Jane Smith",
		Role:         user.RoleEmployee,
		Department:   "Marketing",
		LeaveBalance: user.LeaveBalance{Annual: 18, Sick: 8, Personal: 3},
	},
	{
		Email:        "mike.johnson@company.com",
		Name:         "Mike Johnson",
		Role:         user.RoleManager,
		Department:   "Engineering",
		LeaveBalance: user.LeaveBalance{Annual: 25, Sick: 12, Personal: 7},
	},
	{
		Email:        "sarah.wilson@company.com",
		Name:         "Sarah Wilson",
		Role:         user.RoleManager,
		Department:   "Marketing",
		LeaveBalance: user.LeaveBalance{Annual: 22, Sick: 10, Personal: 5},
	},
	{
		Email:        "alex.brown@company.com",
		Name:         "Alex Brown",
		Role:         user.RoleEmployee,
		Department:   "Sales",
		LeaveBalance: user.LeaveBalance{Annual: 15, Sick: 6, Personal: 2},
	},
}

var seedRequests = []leave.LeaveRequest{
	{
		EmployeeEmail: "john.doe@company.com",
		Type:          leave.TypeAnnual,
		StartDate:     "2024-02-15",
		EndDate:       "2024-02-16",
		Reason:        "Family vacation is planned",
		Status:        leave.StatusPending,
	},
	{
		EmployeeEmail: "jane.smith@company.com",
		Type:          leave.TypeSick,
		StartDate:     "2024-01-20",
		EndDate:       "2024-01-20",
		Reason:        "Doctor appointment scheduled",
		Status:        leave.StatusApproved,
		ReviewedAt:    "2024-01-19T10:30:00Z",
		ReviewedBy:    "mike.johnson@company.com",
	},
	{
		EmployeeEmail: "alex.brown@company.com",
		Type:          leave.TypePersonal,
		StartDate:     "2024-02-01",
		EndDate:       "2024-02-02",
		Reason:        "Personal matters to attend",
		Status:        leave.StatusPending,
	},
}

func main() {
	_ = godotenv.Load()
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	client, err := kvstore.ConnectRedisWithRetry(
		os.Getenv("REDIS_ADDR"),
		os.Getenv("REDIS_PASSWORD"),
		5,
	)
	if err != nil {
		logger.Fatal("redis connect failed", zap.Error(err))
	}
	store := kvstore.NewRedisStore(client)
	defer store.Close()

	ctx := context.Background()

	// Wipe previous data so seeding is repeatable.
	client.Del(ctx, "users", "user_emails", "leave_requests", leave.IndexPending, leave.IndexAll)

	users := user.NewRepository(store)
	password, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		logger.Fatal("hash password failed", zap.Error(err))
	}

	idByEmail := map[string]string{}
	for i := range seedUsers {
		u := seedUsers[i]
		u.ID = uuid.New().String()
		u.Password = string(password)
		u.CreatedAt = time.Now().UTC().Format(time.RFC3339)

		if err := users.Save(ctx, &u); err != nil {
			logger.Fatal("seed user failed", zap.String("email", u.Email), zap.Error(err))
		}
		idByEmail[u.Email] = u.ID
		logger.Info("seeded user", zap.String("name", u.Name), zap.String("role", u.Role))
	}

	requests := leave.NewRepository(store)
	for i := range seedRequests {
		l := seedRequests[i]
		l.ID = uuid.New().String()
		l.EmployeeID = idByEmail[l.EmployeeEmail]
		for _, u := range seedUsers {
			if u.Email == l.EmployeeEmail {
				l.EmployeeName = u.Name
			}
		}
		// Stagger application times so ordering is visible.
		l.AppliedAt = time.Now().UTC().Add(-time.Duration(i) * 24 * time.Hour).Format(time.RFC3339)

		if err := requests.Save(ctx, &l); err != nil {
			logger.Fatal("seed leave request failed", zap.Error(err))
		}
		if err := requests.AddToIndex(ctx, leave.IndexAll, l.ID); err != nil {
			logger.Fatal("seed index failed", zap.Error(err))
		}
		if l.Status == leave.StatusPending {
			if err := requests.AddToIndex(ctx, leave.IndexPending, l.ID); err != nil {
				logger.Fatal("seed pending index failed", zap.Error(err))
			}
		}
		logger.Info("seeded leave request",
			zap.String("employee", l.EmployeeName),
			zap.String("type", l.Type),
			zap.String("status", l.Status),
		)
	}

	logger.Info("seeding completed",
		zap.Int("users", len(seedUsers)),
		zap.Int("leave_requests", len(seedRequests)),
	)
}
