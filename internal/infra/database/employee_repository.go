package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// EmployeeDirectory resolves reporting lines from the employees table.
type EmployeeDirectory struct {
	DB     *sql.DB
	Logger *zap.Logger
}

func NewEmployeeDirectory(db *sql.DB, logger *zap.Logger) *EmployeeDirectory {
	return &EmployeeDirectory{DB: db, Logger: logger}
}

// ManagerOf returns the login of the user's reports_to employee, or "" when
// the user has no employee record or no manager. Inside a claim transaction
// it runs on that transaction's connection.
func (d *EmployeeDirectory) ManagerOf(ctx context.Context, userID string) (string, error) {
	query := `
		SELECT m.user_id
		FROM employees e
		LEFT JOIN employees m ON m.id = e.reports_to
		WHERE e.user_id = $1
		LIMIT 1`

	var manager sql.NullString
	err := queryerFor(ctx, d.DB).QueryRowContext(ctx, query, userID).Scan(&manager)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("lookup manager: %w", classify(err))
	}
	return manager.String, nil
}
