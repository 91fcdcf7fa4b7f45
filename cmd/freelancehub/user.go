package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/freelancehub/api/internal/core/domain"
	"github.com/freelancehub/api/internal/core/service"
	"github.com/freelancehub/api/internal/infrastructure/config"
	"github.com/freelancehub/api/internal/infrastructure/db"
	"github.com/freelancehub/api/pkg/logger"
)

// Test seams for the terminal.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

var userUsername string

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage dashboard logins",
}

var userAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a login",
	Long: `Create a login directly in the configured store.

The password is prompted without echo. When stdin is not a terminal the
first line of stdin is used instead.

Example:
  freelancehub user add --username admin`,
	Args: cobra.NoArgs,
	RunE: runUserAdd,
}

func init() {
	userAddCmd.Flags().StringVarP(&userUsername, "username", "u", "", "login name")
	_ = userAddCmd.MarkFlagRequired("username")
	userCmd.AddCommand(userAddCmd)
}

func runUserAdd(cmd *cobra.Command, _ []string) error {
	if cfg.Store.Driver == config.DriverMemory {
		return errors.New("user add: STORE_DRIVER=memory does not persist users")
	}

	password, err := promptPassword(cmd.InOrStdin(), cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}

	ctx := cmd.Context()
	store, err := db.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close(ctx)

	auth := service.NewAuthService(store.Users, nil, cfg.JWTSecret, cfg.TokenTTL, logger.Named("auth"))
	user, err := auth.Register(ctx, userUsername, password)
	if errors.Is(err, domain.ErrUserExists) {
		fmt.Fprintf(cmd.OutOrStdout(), "User %q already exists\n", userUsername)
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created user %q (id %s)\n", user.Username, user.ID)
	return nil
}

// promptPassword reads a password from the terminal without echo, or the
// first line of in when it is not a terminal.
func promptPassword(in io.Reader, w io.Writer) (string, error) {
	if f, ok := in.(*os.File); ok && isTerminal(int(f.Fd())) {
		fmt.Fprint(w, "Password: ")
		pw, err := readPassword(int(f.Fd()))
		fmt.Fprintln(w)
		if err != nil {
			return "", err
		}
		return string(pw), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
