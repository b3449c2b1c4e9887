package sentlog

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sentlog/sentlog/internal/whatsapp"
)

func init() {
	rootCmd.AddCommand(logoutCmd)
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Unlink this device from the WhatsApp account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c := loader.Config()

		client, err := whatsapp.New(ctx, whatsapp.Config{StorePath: c.WhatsApp.Store})
		if err != nil {
			return err
		}
		defer client.Close()

		if err := client.Logout(ctx); err != nil {
			return err
		}
		log.Info().Str("store", c.WhatsApp.Store).Msg("device unlinked")
		return nil
	},
}
