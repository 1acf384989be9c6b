package cmd

import (
	"github.com/spf13/cobra"

	"autopost/config"
	httpserver "autopost/server"
)

func server(config *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "server",
		Short: "start http server",
		Run: func(cmd *cobra.Command, args []string) {
			httpserver.RunHttp(config)
		},
	}
}
