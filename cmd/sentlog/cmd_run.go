package sentlog

import (
	"os"
	"os/signal"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sentlog/sentlog/internal/sentlog"
)

func init() {
	addRunFlags(runCmd)
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Count sent messages until Ctrl+C, then export",
	Args:  cobra.NoArgs,
	RunE:  Run,
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", "", "report file (default mensagens_enviadas.xlsx)")
	cmd.Flags().StringP("format", "f", "", "report format: xlsx or csv")
	cmd.Flags().String("locale", "", "report labels: pt-BR or en")
	cmd.Flags().String("timezone", "", "time zone for report dates, e.g. America/Sao_Paulo")
	cmd.Flags().Bool("http", false, "serve the live tally over HTTP")
	cmd.Flags().String("addr", "", "HTTP listen address")
}

func Run(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	m, err := sentlog.New(ctx, loader.Config())
	if err != nil {
		return err
	}

	if err := m.Run(ctx); err != nil {
		return err
	}
	log.Info().Str("file", m.ExportPath()).Msg("bye")
	return nil
}
