// Command leavectl runs operator tasks against the leave database.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"go-leave/internal/app"
	"go-leave/internal/audit"
	"go-leave/internal/auth"
	"go-leave/internal/balance"
	"go-leave/internal/employee"
	"go-leave/internal/migration"
	"go-leave/internal/rollover"
	"go-leave/internal/shared/config"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func main() {
	args := os.Args
	if len(args) == 1 {
		args = append(args, "--help")
	}
	if err := newRootCommand(os.Stdout).Run(context.Background(), args); err != nil {
		log.Fatal(err)
	}
}

func newRootCommand(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "leavectl",
		Usage: "Leave service operator CLI",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "extra directory to search for config.yaml"},
			&cli.BoolFlag{Name: "verbose", Usage: "log at debug level"},
		},
		Commands: []*cli.Command{
			migrateCommand(),
			rolloverCommand(out),
			tokenCommand(out),
		},
	}
}

// connect opens the database without running migrations.
func connect(ctx context.Context, c *cli.Command) (*app.Infra, error) {
	var paths []string
	if p := c.String("config"); p != "" {
		paths = append(paths, p)
	}
	cfg, err := config.Load(paths...)
	if err != nil {
		return nil, err
	}
	cfg.DB.AutoMigrate = false
	if cfg.DB.MaxRetries <= 0 {
		cfg.DB.MaxRetries = 1
	}

	logger := zap.NewNop()
	if c.Bool("verbose") {
		if logger, err = zap.NewDevelopment(); err != nil {
			return nil, err
		}
	}
	return app.ConnectDB(ctx, cfg, logger)
}

func migrateCommand() *cli.Command {
	run := func(name, usage string, fn func(context.Context, *app.Infra) error) *cli.Command {
		return &cli.Command{
			Name:  name,
			Usage: usage,
			Action: func(ctx context.Context, c *cli.Command) error {
				infra, err := connect(ctx, c)
				if err != nil {
					return err
				}
				defer infra.Close()
				return fn(ctx, infra)
			},
		}
	}
	return &cli.Command{
		Name:  "migrate",
		Usage: "Database schema migrations",
		Commands: []*cli.Command{
			run("up", "Apply all pending migrations", func(ctx context.Context, infra *app.Infra) error {
				return migration.Up(ctx, infra.SQLDB)
			}),
			run("down", "Roll back the latest migration", func(ctx context.Context, infra *app.Infra) error {
				return migration.Down(ctx, infra.SQLDB)
			}),
			run("status", "Print migration status", func(ctx context.Context, infra *app.Infra) error {
				return migration.Status(ctx, infra.SQLDB)
			}),
		},
	}
}

func rolloverFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "company", Required: true, Usage: "company id"},
		&cli.IntFlag{Name: "year", Value: time.Now().UTC().Year() - 1, Usage: "year to carry balances out of"},
	}
}

func rolloverCommand(out io.Writer) *cli.Command {
	withService := func(ctx context.Context, c *cli.Command, fn func(rollover.Service) (rollover.PlanResponse, error)) error {
		infra, err := connect(ctx, c)
		if err != nil {
			return err
		}
		defer infra.Close()

		svc := rollover.NewService(
			infra.SQLDB,
			rollover.NewRepository(infra.GormDB),
			balance.NewRepository(infra.GormDB),
			employee.NewRepository(infra.GormDB),
			audit.NewSink(audit.NewRepository(infra.GormDB)),
			infra.Logger,
		)
		plan, err := fn(svc)
		if err != nil {
			return err
		}
		return printPlan(out, plan)
	}

	return &cli.Command{
		Name:  "rollover",
		Usage: "Year-end leave carry-forward",
		Commands: []*cli.Command{
			{
				Name:  "preview",
				Usage: "Show the balances a rollover would create",
				Flags: rolloverFlags(),
				Action: func(ctx context.Context, c *cli.Command) error {
					return withService(ctx, c, func(svc rollover.Service) (rollover.PlanResponse, error) {
						return svc.Preview(ctx, c.String("company"), c.Int("year"))
					})
				},
			},
			{
				Name:  "execute",
				Usage: "Create next-year balances; fails if the year was already rolled over",
				Flags: append(rolloverFlags(), &cli.StringFlag{Name: "actor", Usage: "employee id recorded as executor"}),
				Action: func(ctx context.Context, c *cli.Command) error {
					return withService(ctx, c, func(svc rollover.Service) (rollover.PlanResponse, error) {
						return svc.Execute(ctx, c.String("company"), c.String("actor"), c.Int("year"))
					})
				},
			},
		},
	}
}

func printPlan(out io.Writer, plan rollover.PlanResponse) error {
	fmt.Fprintf(out, "rollover %d -> %d executed=%t created=%d skipped=%d\n",
		plan.FromYear, plan.ToYear, plan.Executed, plan.Created, plan.Skipped)
	for _, it := range plan.Items {
		state := "create"
		if it.Exists {
			state = "skip"
		}
		fmt.Fprintf(out, "  %-6s employee=%s type=%s available=%d carried=%d entitled=%d new_available=%d\n",
			state, it.EmployeeID, it.LeaveTypeCode, it.PriorAvailable, it.CarriedForward, it.Entitled, it.Available)
	}
	return nil
}

func tokenCommand(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "Access tokens for local testing and support",
		Commands: []*cli.Command{
			{
				Name:  "issue",
				Usage: "Sign an access token for an active employee",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "company", Required: true},
					&cli.StringFlag{Name: "employee", Required: true},
					&cli.DurationFlag{Name: "ttl", Value: auth.DefaultTokenTTL},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					infra, err := connect(ctx, c)
					if err != nil {
						return err
					}
					defer infra.Close()
					if infra.Config.JWT.Secret == "" {
						return fmt.Errorf("jwt.secret is not configured")
					}

					svc := auth.NewService(infra.Config.JWT.Secret, employee.NewRepository(infra.GormDB), infra.Logger)
					res, err := svc.IssueToken(ctx, c.String("company"), c.String("employee"), c.Duration("ttl"))
					if err != nil {
						return err
					}
					enc := json.NewEncoder(out)
					enc.SetIndent("", "  ")
					return enc.Encode(res)
				},
			},
		},
	}
}
