// Command hash-generator prints bcrypt hashes for seeding the users table.
//
//	hash-generator [--cost N] password...
//
// One hash is written per line, in argument order.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/crypto/bcrypt"

	"github.com/phrazzld/tasktracker/internal/domain"
	"github.com/phrazzld/tasktracker/internal/service/auth"
)

func main() {
	if err := newCommand(os.Stdout, os.Stderr).Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newCommand(stdout, stderr io.Writer) *cli.Command {
	var cost int
	return &cli.Command{
		Name:      "hash-generator",
		Usage:     "Hash passwords for the users table",
		UsageText: "hash-generator [--cost N] password...",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:        "cost",
				Usage:       "bcrypt cost",
				Value:       bcrypt.DefaultCost,
				Destination: &cost,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() == 0 {
				return fmt.Errorf("at least one password is required")
			}
			if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
				return fmt.Errorf("cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
			}

			for i, password := range c.Args().Slice() {
				if err := checkPassword(password); err != nil {
					return fmt.Errorf("password %d: %w", i+1, err)
				}
				hash, err := auth.HashPassword(password, cost)
				if err != nil {
					return fmt.Errorf("password %d: %w", i+1, err)
				}
				fmt.Fprintln(c.Root().Writer, hash)
			}
			return nil
		},
	}
}

// checkPassword applies the same length rules as registration.
func checkPassword(password string) error {
	switch {
	case password == "":
		return domain.ErrEmptyPassword
	case len(password) < domain.MinPasswordLength:
		return domain.ErrPasswordTooShort
	case len(password) > domain.MaxPasswordLength:
		return domain.ErrPasswordTooLong
	}
	return nil
}
