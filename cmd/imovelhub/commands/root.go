package commands

import (
	"github.com/spf13/cobra"
)

var (
	envPath string
	home    string
	apiURL  string
)

func Execute() error {
	root := &cobra.Command{
		Use:          "imovelhub",
		Short:        "Real-estate classifieds API",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&envPath, "env", ".env", "dotenv file with the server configuration")
	root.PersistentFlags().StringVar(&home, "home", "", "session dir (default ~/.imovelhub)")
	root.PersistentFlags().StringVar(&apiURL, "api", "http://localhost:8080", "API base URL used by login and whoami")

	serve := serveCmd()
	root.RunE = serve.RunE
	root.AddCommand(serve, migrateCmd(), loginCmd(), whoamiCmd(), logoutCmd())
	return root.Execute()
}
