package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ledgerrun-dev/ledgerrun/internal/jobs"
)

// jobNames maps CLI job names to runner methods.
var jobNames = []string{
	"bills", "bnpl", "payday", "cc-interest", "statement-close",
	"savings", "apr-expire", "daily", "monthly",
}

func newRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "run <job>",
		Short:     "Run one batch job (cron entry point)",
		Long:      fmt.Sprintf("Run one batch job once. Jobs: %v.", jobNames),
		Args:      cobra.ExactArgs(1),
		ValidArgs: jobNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			defer e.close()

			runner := jobs.New(e.db, e.log)
			return runJob(cmd.Context(), runner, args[0], e.today())
		},
	}
	return cmd
}

func runJob(ctx context.Context, runner *jobs.Runner, name string, today time.Time) error {
	var err error
	switch name {
	case "bills":
		_, err = runner.RunRecurringBills(ctx, today)
	case "bnpl":
		_, err = runner.RunInstallmentLoans(ctx, today)
	case "payday":
		_, err = runner.RunPaydayLoans(ctx, today)
	case "cc-interest":
		_, err = runner.RunCardInterest(ctx, today)
	case "statement-close":
		_, err = runner.RunStatementClose(ctx, today)
	case "savings":
		_, err = runner.RunSavingsInterest(ctx, today)
	case "apr-expire":
		_, err = runner.RunAprExpiration(ctx, today)
	case "daily":
		runner.RunDaily(ctx, today)
	case "monthly":
		runner.RunMonthly(ctx, today)
	default:
		return fmt.Errorf("unknown job %q, expected one of %v", name, jobNames)
	}
	return err
}
