package dashboard

import (
	"time"

	"github.com/spf13/cobra"

	"f1pitwall/pkg/config"
	"f1pitwall/pkg/dashboard"
	"f1pitwall/pkg/provider"
)

func NewDashboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Serve the interactive session dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDashboard()
		},
	}
	cmd.Flags().StringVar(&config.Addr, "addr", ":8080", "listen address")
	return cmd
}

func runDashboard() error {
	client := provider.NewClient(config.APIURL, 60*time.Second)
	var store *provider.Store
	if config.CacheDB != "" {
		var err error
		store, err = provider.NewStore(config.CacheDB)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	loader := provider.NewLoader(client, store)
	manager := dashboard.NewManager(loader, provider.TeamColor)
	dashboard.NewServer(manager).Serve(config.Addr)
	return nil
}
