package health

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// PostgresChecker checks PostgreSQL database health
type PostgresChecker struct {
	db   *gorm.DB
	name string
}

// NewPostgresChecker creates a new PostgreSQL health checker
func NewPostgresChecker(db *gorm.DB, name string) *PostgresChecker {
	return &PostgresChecker{
		db:   db,
		name: name,
	}
}

// ID returns the checker identifier
func (c *PostgresChecker) ID() string {
	return c.name
}

// Type returns the check category
func (c *PostgresChecker) Type() CheckType {
	return TypeReadiness
}

// Check implements the Checker interface
func (c *PostgresChecker) Check(ctx context.Context) Result {
	start := time.Now()

	sqlDB, err := c.db.DB()
	if err != nil {
		return Result{Name: c.name, Status: StatusDown, Message: err.Error(), Timestamp: start, Duration: time.Since(start)}
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return Result{Name: c.name, Status: StatusDown, Message: err.Error(), Timestamp: start, Duration: time.Since(start)}
	}

	return Result{Name: c.name, Status: StatusUp, Timestamp: start, Duration: time.Since(start)}
}
