package cmd

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/examreview/internal/app"
	"github.com/abhisek/examreview/internal/logger"
	"github.com/abhisek/examreview/internal/review"
	"github.com/abhisek/examreview/internal/screens/quiz"
	"github.com/abhisek/examreview/internal/store"
)

// runApp loads configuration, opens the journal and launches the TUI.
func runApp(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	st, err := store.Open(cfg.JournalDSN)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer st.Close()

	sessionID := uuid.NewString()
	log = log.With(zap.String("session", sessionID))
	log.Info("starting",
		zap.String("questions", cfg.QuestionsPath),
		zap.String("journal", cfg.JournalDSN),
		zap.String("version", version))

	reviewCfg := review.DefaultConfig()
	reviewCfg.DefaultType = cfg.DefaultType

	return app.Run(app.Options{
		QuestionsPath: cfg.QuestionsPath,
		Logger:        log,
		Quiz: quiz.Deps{
			Journal:        st.EventRepo(),
			Logger:         log,
			SessionID:      sessionID,
			ExportPath:     cfg.ExportPath,
			BannerDuration: cfg.BannerDuration,
			EssayType:      cfg.EssayType,
			Review:         reviewCfg,
		},
	})
}
