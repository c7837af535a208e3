package report

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"f1pitwall/log"
	"f1pitwall/pkg/config"
	"f1pitwall/pkg/model"
	"f1pitwall/pkg/provider"
	"f1pitwall/pkg/report"
)

func NewReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write a session data report to a text file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd)
		},
	}
	cmd.Flags().IntVar(&config.Year, "year", 2024, "season year")
	cmd.Flags().StringVar(&config.Event, "event", "Bahrain", "grand prix name")
	cmd.Flags().StringVar(&config.Session, "session", "Race",
		"session kind (Race, Qualifying, FP1, FP2, FP3)")
	cmd.Flags().StringVar(&config.Description, "description", "",
		"free-text description block for the report")
	cmd.Flags().StringVar(&config.OutputDir, "output-dir", ".",
		"directory the report file is written to")
	cmd.Flags().BoolVar(&config.WithTelemetry, "telemetry", true,
		"include per-lap telemetry statistics")
	return cmd
}

func runReport(cmd *cobra.Command) error {
	logger := log.Default().Named("cmd")

	kind, err := model.ParseSessionKind(config.Session)
	if err != nil {
		return err
	}

	loader, closeStore, err := newLoader()
	if err != nil {
		return err
	}
	defer closeStore()

	ctx := cmd.Context()
	session, err := loader.LoadSession(ctx, config.Year, config.Event, kind)
	if err != nil {
		return err
	}

	opts := []report.Option{
		report.WithOutputDir(config.OutputDir),
		report.WithTelemetry(config.WithTelemetry),
	}
	path, err := report.NewGenerator(loader, opts...).Generate(ctx, session, config.Description)
	if err != nil {
		return err
	}
	logger.Info("done", log.String("file", path))
	fmt.Printf("Data has been saved to: %s\n", path)
	return nil
}

func newLoader() (*provider.Loader, func(), error) {
	client := provider.NewClient(config.APIURL, 60*time.Second)
	if config.CacheDB == "" {
		return provider.NewLoader(client, nil), func() {}, nil
	}
	store, err := provider.NewStore(config.CacheDB)
	if err != nil {
		return nil, nil, err
	}
	return provider.NewLoader(client, store), func() { _ = store.Close() }, nil
}
