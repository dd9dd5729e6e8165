// stockctl is the operator tool: schema migrations, demo data, users and
// the email dead letter queue.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"stockroom/internal/config"
	"stockroom/internal/dto"
	"stockroom/internal/infra"
	"stockroom/internal/repository"
	"stockroom/internal/seed"
	"stockroom/internal/service"
	"stockroom/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	app := &cli.App{
		Name:  "stockctl",
		Usage: "manage the Stockroom database",
		Commands: []*cli.Command{
			migrateCommand(),
			seedCommand(),
			hashCommand(),
			createUserCommand(),
			dlqCommand(),
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("stockctl failed")
	}
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "apply or roll back schema migrations",
		Subcommands: []*cli.Command{
			{
				Name:  "up",
				Usage: "apply every pending migration",
				Action: func(c *cli.Context) error {
					cfg, err := config.Load()
					if err != nil {
						return err
					}
					return infra.MigrateUp(cfg.DatabaseURL)
				},
			},
			{
				Name:  "down",
				Usage: "roll back migrations",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "steps", Value: 1, Usage: "number of migrations to roll back"},
				},
				Action: func(c *cli.Context) error {
					cfg, err := config.Load()
					if err != nil {
						return err
					}
					if err := infra.MigrateDown(cfg.DatabaseURL, c.Int("steps")); err != nil {
						return err
					}
					log.Info().Int("steps", c.Int("steps")).Msg("migrations rolled back")
					return nil
				},
			},
		},
	}
}

func seedCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "load demo users, suppliers, products and sales",
		Action: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := infra.MigrateUp(cfg.DatabaseURL); err != nil {
				return err
			}
			db, err := infra.NewDatabase(cfg.DatabaseURL)
			if err != nil {
				return err
			}
			res, err := seed.Run(c.Context, db, time.Now())
			if err != nil {
				return err
			}
			fmt.Printf("seeded %d users, %d suppliers, %d products, %d sales\n",
				res.Users, res.Suppliers, res.Products, res.Sales)
			return nil
		},
	}
}

func hashCommand() *cli.Command {
	return &cli.Command{
		Name:      "hash",
		Usage:     "print the bcrypt hash of a password",
		ArgsUsage: "<password>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("usage: stockctl hash <password>", 2)
			}
			h, err := service.HashPassword(c.Args().First())
			if err != nil {
				return err
			}
			fmt.Println(h)
			return nil
		},
	}
}

func createUserCommand() *cli.Command {
	return &cli.Command{
		Name:  "create-user",
		Usage: "add a user who can sign in",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "username", Required: true},
			&cli.StringFlag{Name: "password", Required: true},
			&cli.StringFlag{Name: "role", Value: "MANAGER", Usage: "ADMIN or MANAGER"},
			&cli.StringFlag{Name: "name", Usage: "full name"},
			&cli.StringFlag{Name: "email"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			db, err := infra.NewDatabase(cfg.DatabaseURL)
			if err != nil {
				return err
			}
			req := dto.CreateUserRequest{
				Username: c.String("username"),
				Password: c.String("password"),
				Role:     c.String("role"),
				FullName: c.String("name"),
			}
			if email := c.String("email"); email != "" {
				req.Email = &email
			}
			svc := service.NewAuthService(repository.NewUserRepository(db), cfg)
			user, err := svc.CreateUser(c.Context, req)
			if err != nil {
				return err
			}
			fmt.Printf("created user %s (%s) with id %s\n", user.Username, user.Role, user.ID)
			return nil
		},
	}
}

func dlqCommand() *cli.Command {
	return &cli.Command{
		Name:  "dlq",
		Usage: "inspect email jobs that exhausted their retries",
		Flags: []cli.Flag{
			&cli.Int64Flag{Name: "limit", Value: 20},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			rdb, err := infra.NewRedis(c.Context, cfg.RedisURL)
			if err != nil {
				return err
			}
			defer rdb.Close()

			ctx, cancel := context.WithTimeout(c.Context, 10*time.Second)
			defer cancel()
			n, err := worker.DLQLength(ctx, rdb, worker.QueueEmail)
			if err != nil {
				return err
			}
			fmt.Printf("%d failed jobs\n", n)
			entries, err := worker.DLQEntries(ctx, rdb, worker.QueueEmail, c.Int64("limit"))
			if err != nil {
				return err
			}
			for _, e := range entries {
				fmt.Printf("%s  %-16s attempts=%d  %s\n  payload: %s\n", e.FailedAt, e.JobType, e.Attempts, e.Reason, e.Payload)
			}
			return nil
		},
	}
}
