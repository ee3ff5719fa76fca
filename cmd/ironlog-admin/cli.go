package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/claude/ironlog/internal/config"
	"github.com/claude/ironlog/internal/history"
	"github.com/claude/ironlog/internal/models"
	"github.com/claude/ironlog/internal/service"
)

// newApp creates the admin CLI with all commands.
func newApp() *cli.App {
	app := &cli.App{
		Name:    "ironlog-admin",
		Usage:   "Inspect and maintain an IronLog database",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Value: "config.yaml", Usage: "Path to config file"},
		},
		Commands: []*cli.Command{
			migrateCmd(),
			usersCmd(),
			workoutCmd(),
			previousSetsCmd(),
			importCmd(),
		},
	}
	// Return errors to the caller instead of exiting.
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	return config.Load(c.String("config"))
}

// withService opens the configured store for the duration of fn.
func withService(c *cli.Context, fn func(ctx context.Context, svc *service.Service) error) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}
	svc, closeStore, err := service.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer closeStore()
	return fn(ctx, svc)
}

// userID resolves --login to a stored user.
func userID(ctx context.Context, c *cli.Context, svc *service.Service) (uuid.UUID, error) {
	u, err := svc.GetUserByLogin(ctx, c.String("login"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("user %q: %w", c.String("login"), err)
	}
	return u.ID, nil
}

func printJSON(c *cli.Context, v any) error {
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func loginFlag() cli.Flag {
	return &cli.StringFlag{Name: "login", Aliases: []string{"l"}, Required: true, Usage: "User login"}
}

func migrateCmd() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Apply schema migrations",
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			if err := service.Migrate(cfg.Database); err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "migrations applied (%s)\n", cfg.Database.Driver)
			return nil
		},
	}
}

func usersCmd() *cli.Command {
	return &cli.Command{
		Name:  "users",
		Usage: "List users",
		Action: func(c *cli.Context) error {
			return withService(c, func(ctx context.Context, svc *service.Service) error {
				users, err := svc.ListUsers(ctx)
				if err != nil {
					return err
				}
				return printJSON(c, users)
			})
		},
	}
}

func workoutCmd() *cli.Command {
	return &cli.Command{
		Name:  "workout",
		Usage: "Show a workout with its sets grouped by exercise",
		Flags: []cli.Flag{
			loginFlag(),
			&cli.StringFlag{Name: "id", Required: true, Usage: "Workout ID"},
		},
		Action: func(c *cli.Context) error {
			workoutID, err := uuid.Parse(c.String("id"))
			if err != nil {
				return fmt.Errorf("invalid workout id: %w", err)
			}
			return withService(c, func(ctx context.Context, svc *service.Service) error {
				uid, err := userID(ctx, c, svc)
				if err != nil {
					return err
				}
				w, err := svc.WorkoutWithSets(ctx, uid, workoutID)
				if err != nil {
					return err
				}
				return printJSON(c, w)
			})
		},
	}
}

func previousSetsCmd() *cli.Command {
	return &cli.Command{
		Name:  "previous-sets",
		Usage: "Show the previous sets per exercise and profile",
		Flags: []cli.Flag{
			loginFlag(),
			&cli.StringFlag{Name: "exercise", Aliases: []string{"e"}, Usage: "Only show this exercise ID"},
		},
		Action: func(c *cli.Context) error {
			var exercise uuid.UUID
			if v := c.String("exercise"); v != "" {
				id, err := uuid.Parse(v)
				if err != nil {
					return fmt.Errorf("invalid exercise id: %w", err)
				}
				exercise = id
			}
			return withService(c, func(ctx context.Context, svc *service.Service) error {
				uid, err := userID(ctx, c, svc)
				if err != nil {
					return err
				}
				prev, err := svc.PreviousSets(ctx, uid)
				if err != nil {
					return err
				}
				if exercise != uuid.Nil {
					prev = filterExercise(prev, exercise)
				}
				return printJSON(c, prev)
			})
		},
	}
}

func filterExercise(prev history.PreviousSets, exercise uuid.UUID) history.PreviousSets {
	out := history.PreviousSets{}
	for raw, sets := range prev {
		if k, err := history.ParseKey(raw); err == nil && k.ExerciseID == exercise {
			out[raw] = sets
		}
	}
	return out
}

func importCmd() *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Import a finished workout from a JSON file (use - for stdin)",
		Flags: []cli.Flag{
			loginFlag(),
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Required: true, Usage: "Workout JSON file"},
			&cli.BoolFlag{Name: "dry-run", Usage: "Validate the workout without storing it"},
		},
		Action: func(c *cli.Context) error {
			req, err := readWorkout(c.String("file"))
			if err != nil {
				return err
			}
			if c.Bool("dry-run") {
				if err := req.Validate(); err != nil {
					return err
				}
				fmt.Fprintf(c.App.Writer, "workout valid: %d exercises\n", len(req.Exercises))
				return nil
			}
			return withService(c, func(ctx context.Context, svc *service.Service) error {
				uid, err := svc.GetOrCreateUser(ctx, c.String("login"), "")
				if err != nil {
					return err
				}
				resp, err := svc.ImportWorkout(ctx, uid, *req)
				if err != nil {
					return err
				}
				return printJSON(c, resp)
			})
		},
	}
}

func readWorkout(path string) (*models.SyncWorkoutRequest, error) {
	f := os.Stdin
	if path != "-" {
		var err error
		f, err = os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening workout file: %w", err)
		}
		defer f.Close()
	}
	var req models.SyncWorkoutRequest
	if err := json.NewDecoder(f).Decode(&req); err != nil {
		return nil, fmt.Errorf("decoding workout: %w", err)
	}
	return &req, nil
}
