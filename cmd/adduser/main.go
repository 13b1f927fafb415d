// Command adduser creates an account directly in the database, for seeding
// environments where signup is not exposed.
package main

import (
	"bufio"
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"expensezen/internal/auth"
	"expensezen/internal/config"
	"expensezen/internal/db"
	"expensezen/internal/domain/user"
	userrepo "expensezen/internal/repository/postgres/user"
	"expensezen/pkg/logger"

	"golang.org/x/term"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("adduser", flag.ContinueOnError)
	fs.SetOutput(stderr)

	email := fs.String("email", "", "Email address")
	name := fs.String("name", "", "Full name")
	passwordFlag := fs.String("password", "", "Password (prompted when omitted)")
	sqlitePath := fs.String("sqlite", "", "Use the SQLite database at this path instead of the configured one")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *email == "" || *name == "" {
		fmt.Fprintln(stdout, "Usage: adduser -email <email> -name <full name> [-password <password>] [-sqlite <path>]")
		fs.PrintDefaults()
		return fmt.Errorf("missing required flags: email, name")
	}

	password := *passwordFlag
	if password == "" {
		fmt.Fprint(stdout, "Password: ")
		var err error
		password, err = readPassword(stdin)
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		fmt.Fprintln(stdout)
	}
	if strings.TrimSpace(password) == "" {
		return fmt.Errorf("password cannot be empty")
	}

	log := logger.NewNop()
	cfg, err := config.Load(log)
	if err != nil {
		return err
	}
	if *sqlitePath != "" {
		cfg.DB.Driver = config.DriverSQLite
		cfg.DB.SQLitePath = *sqlitePath
	}

	conn, err := db.Open(cfg.DB, log)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}()

	// The session token is discarded, so any signing key will do.
	secret := cfg.Auth.JWTSecret
	if secret == "" {
		secret = randomSecret()
	}
	tokens := auth.NewJWTManager(secret, cfg.Auth.AccessTTL, cfg.Auth.ResetTTL)
	accounts := auth.NewService(userrepo.NewPostgres(conn), tokens, nil, cfg.Ledger.DefaultMonthlyLimit)

	session, err := accounts.CreateAccount(ctx, *email, *name, password)
	if errors.Is(err, user.ErrEmailTaken) {
		return fmt.Errorf("user %s already exists", *email)
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	fmt.Fprintf(stdout, "User %s created with ID %s\n", strings.ToLower(strings.TrimSpace(*email)), session.UserID)
	return nil
}

func readPassword(stdin io.Reader) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		raw, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}

	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

func randomSecret() string {
	buf := make([]byte, 32)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}
