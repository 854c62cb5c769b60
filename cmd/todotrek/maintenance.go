package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"todotrek/internal/config"
	"todotrek/internal/repository"
	"todotrek/internal/service"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadForMaintenance()
			if err != nil {
				return err
			}
			log, closeLog, err := setupLogger(cfg.Env, cfg.LogsPath)
			if err != nil {
				return err
			}
			defer closeLog()

			db, err := repository.NewDB(cfg.DatabaseURL, log)
			if err != nil {
				return err
			}
			if err := repository.NewStore(db).Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema of %s is up to date\n", cfg.DatabaseURL)
			return nil
		},
	}
}

func auditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "audit",
		Short: "Check relationship consistency of the stored graph",
		Long: `Scan every project, category and task and report broken links:
missing backlinks, links to missing entities, tasks with two parents and
owner mismatches. Exits non-zero when any violation is found.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadForMaintenance()
			if err != nil {
				return err
			}
			log, closeLog, err := setupLogger(cfg.Env, cfg.LogsPath)
			if err != nil {
				return err
			}
			defer closeLog()

			db, err := repository.NewDB(cfg.DatabaseURL, log)
			if err != nil {
				return err
			}
			store := repository.NewStore(db)
			defer store.Close()

			report, err := service.NewAuditor(store, log).Run(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "checked %d projects, %d categories, %d tasks\n", report.Projects, report.Categories, report.Tasks)
			for _, v := range report.Violations {
				fmt.Fprintln(out, v)
			}
			if !report.OK() {
				return fmt.Errorf("%d violations found", len(report.Violations))
			}
			return nil
		},
	}
}
