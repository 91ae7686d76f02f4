package commands

import (
	"context"

	"go.uber.org/zap"

	"github.com/pventura/congregation-admin/internal/config"
	"github.com/pventura/congregation-admin/pkg/core/calendar"
	"github.com/pventura/congregation-admin/pkg/store"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg      *config.Config
	Database store.Store
	Resolver *calendar.Resolver
	Logger   *zap.Logger
	Ctx      context.Context
}
