package cli

import (
	"autoparts/internal/config"
	"autoparts/internal/infra/db"
	"autoparts/internal/logger"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// NewRootCommand は autoparts コマンドを作る。
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "autoparts",
		Short:         "Auto parts storefront backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(NewServeCommand())
	cmd.AddCommand(NewMigrateCommand())
	cmd.AddCommand(NewSeedCommand())
	cmd.AddCommand(NewGrantAdminCommand())

	return cmd
}

// 各コマンド共通の起動処理
type runtime struct {
	cfg config.Config
	log zerolog.Logger
	db  *gorm.DB
}

func bootstrap() (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := logger.New(cfg.GoEnv, cfg.LogLevel)

	gdb, err := db.Connect(cfg)
	if err != nil {
		return nil, err
	}
	return &runtime{cfg: cfg, log: log, db: gdb}, nil
}

func (r *runtime) close() {
	if sqlDB, err := r.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
