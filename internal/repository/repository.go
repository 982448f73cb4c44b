package repository

import (
	"context"

	"portalkombat/internal/domain"
)

// AttemptRepository defines login history access
type AttemptRepository interface {
	// Write operations
	InsertAttempt(ctx context.Context, attempt domain.Attempt) error
	Prune(ctx context.Context, keep int) (int64, error)

	// Read operations
	RecentAttempts(ctx context.Context, limit int) ([]domain.Attempt, error)
	CountByOutcome(ctx context.Context) (map[domain.LoginOutcome]int, error)

	// Close releases resources
	Close() error
}
