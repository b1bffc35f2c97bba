package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/clinassign/clinassign-backend-go/internal/config"
	"github.com/clinassign/clinassign-backend-go/internal/domain/user"
	"github.com/clinassign/clinassign-backend-go/internal/pkg/database"
	"github.com/clinassign/clinassign-backend-go/internal/repository/postgresql"
	profileService "github.com/clinassign/clinassign-backend-go/internal/service/profile"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// passwordEnv supplies the create-profile password in scripts. There is no flag so it never appears in argv.
const passwordEnv = "CLINASSIGN_ADMIN_PASSWORD"

var (
	readPasswordFunc = term.ReadPassword
	isTerminalFunc   = term.IsTerminal
)

// readPassword takes the password from passwordEnv, a terminal prompt, or the first line of piped stdin.
func readPassword(cmd *cobra.Command) (string, error) {
	if pwd := os.Getenv(passwordEnv); pwd != "" {
		return pwd, nil
	}

	fd := int(syscall.Stdin)
	if cmd.InOrStdin() == os.Stdin && isTerminalFunc(fd) {
		fmt.Fprint(cmd.OutOrStdout(), "Enter password: ")
		pwd, err := readPasswordFunc(fd)
		fmt.Fprintln(cmd.OutOrStdout())
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(pwd), nil
	}

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password from stdin: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := database.Migrate(cfg.DatabaseURL()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied")
			return nil
		},
	})

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if steps < 1 {
				return errors.New("--steps must be at least 1")
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := database.MigrateDown(cfg.DatabaseURL(), steps); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Rolled back %d migration(s)\n", steps)
			return nil
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "Number of migrations to roll back")
	cmd.AddCommand(down)

	return cmd
}

func createProfileCmd() *cobra.Command {
	var req user.CreateProfileRequest

	cmd := &cobra.Command{
		Use:   "create-profile",
		Short: "Create a login profile",
		Long: "Create a login profile. The password is read from " + passwordEnv + " when set, " +
			"otherwise prompted for on a terminal or read as one line from standard input.",
		RunE: func(cmd *cobra.Command, args []string) error {
			pwd, err := readPassword(cmd)
			if err != nil {
				return err
			}
			if pwd == "" {
				return errors.New("password must not be empty")
			}
			req.Password = pwd

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			db, err := database.NewPostgreSQLDB(cmd.Context(), cfg.DatabaseURL())
			if err != nil {
				return err
			}
			defer db.Close()

			svc := profileService.NewProfileService(postgresql.NewProfileRepository(db), cfg.Cache.ProfileSize, cfg.Cache.ProfileTTL)
			p, err := svc.Create(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created profile %s (%s, %s)\n", p.ID, p.Email, p.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Email, "email", "", "Login email")
	cmd.Flags().StringVar(&req.FullName, "name", "", "Full name")
	cmd.Flags().StringVar(&req.Role, "role", "", "Role: student, tutor, nursing_head, hospital_admin or principal")
	cmd.Flags().StringVar(&req.Department, "department", "", "Department")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("role")

	return cmd
}

func policyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "policy",
		Short: "Inspect the role policy",
	}

	var file string
	show := &cobra.Command{
		Use:   "show",
		Short: "Print which roles may perform each operation",
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				file = os.Getenv("POLICY_FILE")
			}
			policy, err := config.LoadPolicy(file)
			if err != nil {
				return err
			}
			printPolicy(cmd, policy)
			return nil
		},
	}
	show.Flags().StringVar(&file, "file", "", "Policy YAML file (defaults to POLICY_FILE, then the built-in policy)")
	cmd.AddCommand(show)

	return cmd
}

func printPolicy(cmd *cobra.Command, policy user.Policy) {
	for _, op := range []user.Operation{user.OperationRead, user.OperationWrite, user.OperationDelete, user.OperationReport} {
		roles := policy.Roles(op)
		names := make([]string, len(roles))
		for i, r := range roles {
			names[i] = string(r)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%-7s %s\n", op, strings.Join(names, ", "))
	}
}
