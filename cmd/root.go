package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/examreview/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "examreview",
	Short: "Review past exam questions in the terminal",
	Long:  "ExamReview: answer, mark, tag and annotate questions from a past-exam question bank, then export your notes.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, args)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a config file (default: ./examreview.yaml or the user config dir)")
	rootCmd.PersistentFlags().String("env-file", ".env", "dotenv file read before the environment")
	rootCmd.PersistentFlags().String("questions", "", "Question bank CSV (overrides EXAMREVIEW_QUESTIONS_PATH)")
	rootCmd.Flags().String("export", "", "Notes export destination (overrides EXAMREVIEW_EXPORT_PATH)")
	rootCmd.Flags().String("log-file", "", "JSON log file (overrides EXAMREVIEW_LOG_FILE)")
	rootCmd.Flags().String("journal", "", "SQLite answer journal DSN or path (default: in memory)")

	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads configuration and applies command-line overrides, which
// take precedence over files and the environment. A positional argument
// names the question bank.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	envFile, _ := cmd.Flags().GetString("env-file")
	cfg, err := config.Load(config.Options{ConfigFile: cfgFile, EnvFile: envFile})
	if err != nil {
		return nil, err
	}

	override := func(flag string, dst *string) {
		if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
			*dst = f.Value.String()
		}
	}
	override("questions", &cfg.QuestionsPath)
	override("export", &cfg.ExportPath)
	override("log-file", &cfg.Log.File)
	override("journal", &cfg.JournalDSN)
	if len(args) > 0 {
		cfg.QuestionsPath = args[0]
	}
	return cfg, nil
}
