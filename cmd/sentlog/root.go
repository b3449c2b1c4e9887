package sentlog

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sentlog/sentlog/internal/sentlog/conf"
)

var (
	Debug      bool
	ConfigFile string

	loader *conf.Loader
)

func init() {
	// windows only
	cobra.MousetrapHelpText = ""

	rootCmd.PersistentFlags().BoolVar(&Debug, "debug", false, "debug logging")
	rootCmd.PersistentFlags().StringVarP(&ConfigFile, "config", "c", "", "config file (default ./sentlog.yaml)")
	rootCmd.PersistentFlags().String("store", "", "whatsapp session store (sqlite file)")
	rootCmd.PersistentFlags().String("log-file", "", "also write logs to this file")
	rootCmd.PersistentPreRunE = setup

	addRunFlags(rootCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Err(err).Msg("command execution failed")
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "sentlog",
	Short:         "sentlog",
	Long:          `Counts the WhatsApp messages you send, per conversation, and exports a spreadsheet on Ctrl+C`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	RunE: Run,
}

// setup loads configuration for the command being run and configures logging.
func setup(cmd *cobra.Command, args []string) error {
	initLog(Debug, "", "")

	l, err := conf.NewLoader(ConfigFile, cmd.Flags())
	if err != nil {
		return err
	}
	loader = l

	c := l.Config()
	initLog(Debug, c.Log.Level, c.Log.File)
	if f := l.ConfigFile(); f != "" {
		log.Debug().Str("file", f).Msg("config loaded")
	}

	l.OnChange(func(c *conf.Config) {
		setLevel(Debug, c.Log.Level)
	})
	l.Watch()
	return nil
}
