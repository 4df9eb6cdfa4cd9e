package main

import (
	"fmt"
	"os"
	"syscall"

	"github.com/stemsi/certquiz-backend/internal/config"
	"github.com/stemsi/certquiz-backend/internal/logger"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"
)

const minPasswordLength = 8

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	// ─── CLI Input ─────────────────────────────────────────────────────
	fmt.Fprintln(os.Stderr, "=== Generate ADMIN_PASSWORD_HASH ===")

	password, err := prompt("Enter Password: ")
	if err != nil {
		fmt.Fprintln(os.Stderr, "\nError reading password")
		os.Exit(1)
	}
	if len(password) < minPasswordLength {
		fmt.Fprintf(os.Stderr, "Error: Password must be at least %d characters\n", minPasswordLength)
		os.Exit(1)
	}

	confirm, err := prompt("Confirm Password: ")
	if err != nil {
		fmt.Fprintln(os.Stderr, "\nError reading password")
		os.Exit(1)
	}
	if confirm != password {
		fmt.Fprintln(os.Stderr, "Error: Passwords do not match")
		os.Exit(1)
	}

	// ─── Logic ─────────────────────────────────────────────────────────
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cfg.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to hash password")
	}

	// Only the hash goes to stdout so it can be piped into a .env file.
	fmt.Fprintln(os.Stderr, "\nSet this value as ADMIN_PASSWORD_HASH:")
	fmt.Println(string(hash))
}

func prompt(label string) (string, error) {
	fmt.Fprint(os.Stderr, label)
	b, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
