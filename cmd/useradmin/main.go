package main

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Varun5711/campusapi/internal/auth"
	"github.com/Varun5711/campusapi/internal/config"
	"github.com/Varun5711/campusapi/internal/database"
	"github.com/Varun5711/campusapi/internal/logger"
	"github.com/Varun5711/campusapi/internal/models"
	"github.com/Varun5711/campusapi/internal/service"
	"github.com/Varun5711/campusapi/internal/storage"
	"golang.org/x/term"
)

const usageText = `usage:
  useradmin create -email <email> -name <name>
  useradmin set-password -email <email>

The password is read from the terminal without echo, or from stdin when it is not a terminal.`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usageText)
		os.Exit(2)
	}

	log := logger.New("useradmin")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config: %v", err)
	}
	if cfg.Database.PrimaryDSN == "" {
		log.Fatal("DB_PRIMARY_DSN is required")
	}
	if err := auth.SetHashCost(cfg.Password.BcryptCost); err != nil {
		log.Fatal("Invalid BCRYPT_COST: %v", err)
	}

	ctx := context.Background()
	dbManager, err := database.NewDBManager(ctx, database.Config{PrimaryDSN: cfg.Database.PrimaryDSN, MaxConns: 2})
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer dbManager.Close()

	users := service.NewUserService(storage.NewPostgresRepositories(dbManager).Users, log)
	stdin := bufio.NewReader(os.Stdin)

	switch os.Args[1] {
	case "create":
		err = runCreate(ctx, users, os.Args[2:], stdin, os.Stderr)
	case "set-password":
		err = runSetPassword(ctx, users, os.Args[2:], stdin, os.Stderr)
	default:
		fmt.Fprintln(os.Stderr, usageText)
		os.Exit(2)
	}
	if err != nil {
		log.Fatal("%v", err)
	}
}

func runCreate(ctx context.Context, users *service.UserService, args []string, in *bufio.Reader, prompt io.Writer) error {
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	email := fs.String("email", "", "email address")
	name := fs.String("name", "", "display name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" || *name == "" {
		return errors.New("-email and -name are required")
	}

	password, err := promptNewPassword(in, prompt, term.IsTerminal(int(os.Stdin.Fd())))
	if err != nil {
		return err
	}

	user, err := users.Create(ctx, models.CreateUserRequest{Email: *email, Password: password, Name: *name})
	if err != nil {
		return err
	}
	fmt.Fprintf(prompt, "Created user %d (%s)\n", user.ID, user.Email)
	return nil
}

func runSetPassword(ctx context.Context, users *service.UserService, args []string, in *bufio.Reader, prompt io.Writer) error {
	fs := flag.NewFlagSet("set-password", flag.ContinueOnError)
	email := fs.String("email", "", "email address")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		return errors.New("-email is required")
	}

	user, err := users.GetByEmail(ctx, *email)
	if err != nil {
		return err
	}

	password, err := promptNewPassword(in, prompt, term.IsTerminal(int(os.Stdin.Fd())))
	if err != nil {
		return err
	}

	if err := users.SetPassword(ctx, user.ID, password); err != nil {
		return err
	}
	fmt.Fprintf(prompt, "Password updated for %s\n", user.Email)
	return nil
}

// promptNewPassword asks twice on a terminal. Piped input is read once, one line.
func promptNewPassword(in *bufio.Reader, prompt io.Writer, interactive bool) (string, error) {
	fd := int(os.Stdin.Fd())
	if !interactive {
		line, err := in.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return "", fmt.Errorf("failed to read password from stdin: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	fmt.Fprint(prompt, "New password: ")
	first, err := term.ReadPassword(fd)
	fmt.Fprintln(prompt)
	if err != nil {
		return "", err
	}

	fmt.Fprint(prompt, "Repeat password: ")
	second, err := term.ReadPassword(fd)
	fmt.Fprintln(prompt)
	if err != nil {
		return "", err
	}

	if !bytes.Equal(first, second) {
		return "", errors.New("passwords do not match")
	}
	return string(first), nil
}
