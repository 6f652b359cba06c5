package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shpitdev/syndigo-attribute-checker/internal/logging"
	"github.com/shpitdev/syndigo-attribute-checker/pkg/mocksyndigo"
)

func main() {
	if err := newCmd().Execute(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func newCmd() *cobra.Command {
	addr := defaultString("MOCK_SYNDIGO_ADDR", "127.0.0.1:8089")
	fixturesPath := defaultString("MOCK_SYNDIGO_FIXTURES", "")
	clientID := defaultString("MOCK_SYNDIGO_CLIENT_ID", "")
	clientSecret := defaultString("MOCK_SYNDIGO_CLIENT_SECRET", "")

	cmd := &cobra.Command{
		Use:   "mock-syndigo",
		Short: "Serve canned Syndigo entity query responses for local testing",
		Long: `mock-syndigo answers POST /api/entityappservice/get from a YAML fixture file
keyed by attribute name. Attributes without a fixture report no records.

Point attrcheck at it with --base-url http://<addr>.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			logger, err := logging.New(logging.Options{})
			if err != nil {
				return err
			}
			defer func() {
				_ = logger.Sync()
			}()

			fixtures, err := loadFixtures(fixturesPath)
			if err != nil {
				return err
			}
			srv := mocksyndigo.New(fixtures)
			if clientID != "" || clientSecret != "" {
				srv.RequireCredentials(clientID, clientSecret)
			}

			logger.Info("mock-syndigo listening",
				zap.String("addr", addr),
				zap.String("fixtures", fixturesPath),
				zap.Int("attributes", len(fixtures.Attributes)),
				zap.Bool("credentials_required", clientID != "" || clientSecret != ""),
			)
			return http.ListenAndServe(addr, srv.Handler())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", addr, "Listen address (env: MOCK_SYNDIGO_ADDR)")
	cmd.Flags().StringVar(&fixturesPath, "fixtures", fixturesPath, "YAML fixture file (env: MOCK_SYNDIGO_FIXTURES)")
	cmd.Flags().StringVar(&clientID, "client-id", clientID, "Require this auth-client-id (env: MOCK_SYNDIGO_CLIENT_ID)")
	cmd.Flags().StringVar(&clientSecret, "client-secret", clientSecret, "Require this auth-client-secret (env: MOCK_SYNDIGO_CLIENT_SECRET)")
	return cmd
}

func loadFixtures(path string) (mocksyndigo.Fixtures, error) {
	if path == "" {
		return mocksyndigo.Fixtures{}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return mocksyndigo.Fixtures{}, errors.Wrap(err, "open fixtures")
	}
	defer func() {
		_ = f.Close()
	}()
	return mocksyndigo.LoadFixtures(f)
}

func defaultString(envVar string, fallback string) string {
	v := strings.TrimSpace(os.Getenv(envVar))
	if v == "" {
		return fallback
	}
	return v
}
