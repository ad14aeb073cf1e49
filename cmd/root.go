package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"townbank/application"
	"townbank/auth"
	"townbank/config"
	"townbank/database"
	"townbank/infrastructure"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Execute runs the townbank command line
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "townbank",
		Short:        "Town economy bank service",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg := config.Get()
			setupLogging(cfg.LogLevel, cfg.LogFormat)
		},
	}

	root.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
		newSecretCmd(),
		newCycleCmd(),
	)
	return root
}

func setupLogging(level, format string) {
	if format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}
	log.SetOutput(os.Stdout)

	parsed, err := log.ParseLevel(level)
	if err != nil {
		parsed = log.InfoLevel
	}
	log.SetLevel(parsed)
}

func newServeCmd() *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run(cmd.Context(), migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply pending migrations before serving")
	return cmd
}

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return database.MigrateUp(config.Get().GetDatabaseURL())
			},
		},
		&cobra.Command{
			Use:   "down [steps]",
			Short: "Roll back migrations (default 1)",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				steps := 1
				if len(args) == 1 {
					n, err := strconv.Atoi(args[0])
					if err != nil {
						return fmt.Errorf("invalid steps %q: %w", args[0], err)
					}
					steps = n
				}
				return database.MigrateDown(config.Get().GetDatabaseURL(), steps)
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show the applied schema version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				status, err := database.MigrateStatus(config.Get().GetDatabaseURL())
				if err != nil {
					return err
				}
				if !status.Applied {
					fmt.Fprintln(cmd.OutOrStdout(), "No migrations applied")
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Version: %d (dirty: %t)\n", status.Version, status.Dirty)
				return nil
			},
		},
	)
	return cmd
}

// withUnitOfWorkFactory opens the database and event publisher for a one-shot command
func withUnitOfWorkFactory(ctx context.Context, fn func(factory *infrastructure.UnitOfWorkFactory) error) error {
	cfg := config.Get()

	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	publisher, closePublisher, err := infrastructure.NewEventPublisher(ctx, cfg.NATSServers)
	if err != nil {
		return fmt.Errorf("failed to initialize event publisher: %w", err)
	}
	defer closePublisher()

	return fn(infrastructure.NewUnitOfWorkFactory(db, publisher))
}

func newSecretCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "secret",
		Short: "Manage creator enrollment secrets",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "issue",
		Short: "Issue a single-use creator secret as the system actor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withUnitOfWorkFactory(cmd.Context(), func(factory *infrastructure.UnitOfWorkFactory) error {
				roles := application.NewRoleHandler(factory, auth.NewBcryptHasher(0))
				issued, err := roles.IssueCreatorSecret(cmd.Context(), nil)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Secret ID: %s\nSecret:    %s\n", issued.Secret.ID, issued.Token)
				fmt.Fprintln(cmd.OutOrStdout(), "The secret is shown once; store it now.")
				return nil
			})
		},
	})
	return cmd
}

func newCycleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cycle",
		Short: "Inspect or advance the day/night cycle",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "status",
			Short: "Show the current phase",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withUnitOfWorkFactory(cmd.Context(), func(factory *infrastructure.UnitOfWorkFactory) error {
					state, err := application.NewCycleHandler(factory).GetCycle(cmd.Context())
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Day: %t (since %s)\n", state.IsDay, state.LastChange.Format("2006-01-02 15:04:05"))
					return nil
				})
			},
		},
		&cobra.Command{
			Use:       "advance endDay|endNight",
			Short:     "Advance the cycle as the system actor",
			Args:      cobra.ExactArgs(1),
			ValidArgs: []string{"endDay", "endNight"},
			RunE: func(cmd *cobra.Command, args []string) error {
				return withUnitOfWorkFactory(cmd.Context(), func(factory *infrastructure.UnitOfWorkFactory) error {
					result, err := application.NewCycleHandler(factory).AdvanceCycle(cmd.Context(), nil, args[0])
					if err != nil {
						return err
					}
					out := cmd.OutOrStdout()
					fmt.Fprintf(out, "Day: %t\n", result.State.IsDay)
					if p := result.Payroll; p != nil {
						fmt.Fprintf(out, "Payroll run %d: paid %d, skipped %d, failed %d, total %d\n",
							p.RunID, p.AccountsPaid, p.AccountsSkipped, p.AccountsFailed, p.TotalPaid)
						if len(p.FailedAccountIDs) > 0 {
							fmt.Fprintf(out, "Failed accounts: %v\n", p.FailedAccountIDs)
						}
					}
					return nil
				})
			},
		},
	)
	return cmd
}
