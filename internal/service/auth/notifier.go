package auth

import (
	"context"

	"github.com/nkiryanov/oraweb/internal/logger"
	"github.com/nkiryanov/oraweb/internal/models"
)

// LogNotifier only records that reset was requested; nothing is delivered to the user
type LogNotifier struct {
	Logger logger.Logger
}

func (n LogNotifier) NotifyReset(ctx context.Context, user models.User) error {
	n.Logger.Info("password reset requested", "user_id", user.ID)
	return nil
}
