// Command admin runs operator tasks against the user store without going
// through the HTTP API: migrations and direct record maintenance.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"go-gin-mongo-users/internal/core/config"
	"go-gin-mongo-users/internal/core/logger"
	"go-gin-mongo-users/internal/domain"
	"go-gin-mongo-users/internal/repo"
	"go-gin-mongo-users/internal/service"
)

func main() {
	e := &env{}
	err := newRootCmd(e).Execute()
	e.close()
	if err != nil {
		os.Exit(1)
	}
}

// env is what every subcommand needs; it is filled in PersistentPreRunE and
// released by close once the command returns.
type env struct {
	cfgPath string
	timeout time.Duration

	log     *zap.Logger
	cleanup func()
	store   *repo.Handle
	users   service.UserService
}

func newRootCmd(e *env) *cobra.Command {
	root := &cobra.Command{
		Use:           "users-admin",
		Short:         "Maintenance commands for the user store",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return e.open(cmd.Context())
		},
	}
	root.PersistentFlags().StringVarP(&e.cfgPath, "config", "c", os.Getenv("CONFIG_PATH"), "config file")
	root.PersistentFlags().DurationVar(&e.timeout, "timeout", 30*time.Second, "deadline for the whole command")

	root.AddCommand(
		newMigrateCmd(e),
		newCreateCmd(e),
		newGetCmd(e),
		newListCmd(e),
		newUpdateCmd(e),
		newDeleteCmd(e),
	)
	return root
}

func (e *env) open(ctx context.Context) error {
	_ = godotenv.Load()
	cfg, err := config.Load(e.cfgPath)
	if err != nil {
		return err
	}
	e.log, e.cleanup = logger.New(cfg.Log.Level, cfg.Log.JSON)

	if ctx == nil {
		ctx = context.Background()
	}
	octx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	e.store, err = repo.Open(octx, cfg, e.log)
	if err != nil {
		return fmt.Errorf("open user store: %w", err)
	}
	e.users = service.NewLoggingService(service.NewUserService(e.store.Users), e.log)
	return nil
}

func (e *env) close() {
	if e.store != nil {
		e.store.Close()
		e.store = nil
	}
	if e.cleanup != nil {
		e.cleanup()
		e.cleanup = nil
	}
}

func (e *env) ctx(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), e.timeout)
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newMigrateCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the email unique index (mongo) or users table (sql)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := e.ctx(cmd)
			defer cancel()
			if err := e.store.Migrate(ctx); err != nil {
				return err
			}
			e.log.Info("migration done")
			return nil
		},
	}
}

// Same rules as the HTTP request bodies.
type createInput struct {
	Name  string `binding:"required,min=1,max=100"`
	Email string `binding:"required,email"`
}

type updateInput struct {
	Name  *string `binding:"omitempty,min=1,max=100"`
	Email *string `binding:"omitempty,email"`
}

func validate(in any) error {
	if err := binding.Validator.ValidateStruct(in); err != nil {
		return fmt.Errorf("invalid input: %w", err)
	}
	return nil
}

func newCreateCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "create <name> <email>",
		Short: "Create a user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := e.ctx(cmd)
			defer cancel()
			in := createInput{Name: args[0], Email: args[1]}
			if err := validate(in); err != nil {
				return err
			}
			u, err := e.users.Create(ctx, in.Name, in.Email)
			if err != nil {
				return err
			}
			return printJSON(cmd, u)
		},
	}
}

func newGetCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := e.ctx(cmd)
			defer cancel()
			u, err := e.users.Get(ctx, args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, u)
		},
	}
}

func newListCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "list [page] [size]",
		Short: "List users a page at a time",
		Args:  cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := parsePage(args)
			if err != nil {
				return err
			}
			ctx, cancel := e.ctx(cmd)
			defer cancel()
			users, total, err := e.users.List(ctx, page.Offset(), page.Size)
			if err != nil {
				return err
			}
			return printJSON(cmd, domain.UserPage{Users: users, Total: total, Page: page.Page, Size: page.Size})
		},
	}
}

func parsePage(args []string) (domain.PageRequest, error) {
	p := domain.PageRequest{Page: 1, Size: 10}
	dst := []*int{&p.Page, &p.Size}
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return p, fmt.Errorf("invalid number %q", a)
		}
		*dst[i] = n
	}
	if p.Page < 1 || p.Size < 1 || p.Size > 100 {
		return p, fmt.Errorf("page must be >= 1 and size within [1, 100]")
	}
	return p, nil
}

func newUpdateCmd(e *env) *cobra.Command {
	var name, email string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change the name and/or email of a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in updateInput
			if cmd.Flags().Changed("name") {
				in.Name = &name
			}
			if cmd.Flags().Changed("email") {
				in.Email = &email
			}
			if err := validate(in); err != nil {
				return err
			}
			var patch domain.UserPatch
			if in.Name != nil {
				patch.Name = domain.Some(*in.Name)
			}
			if in.Email != nil {
				patch.Email = domain.Some(*in.Email)
			}
			ctx, cancel := e.ctx(cmd)
			defer cancel()
			u, err := e.users.Update(ctx, args[0], patch)
			if err != nil {
				return err
			}
			return printJSON(cmd, u)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&email, "email", "", "new email")
	return cmd
}

func newDeleteCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := e.ctx(cmd)
			defer cancel()
			deleted, err := e.users.Delete(ctx, args[0])
			if err != nil {
				return err
			}
			if !deleted {
				return domain.ErrNotFound
			}
			fmt.Fprintln(cmd.OutOrStdout(), "deleted", args[0])
			return nil
		},
	}
}
