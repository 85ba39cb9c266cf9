package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/jonathan/portfolio-site/internal/config"
	"github.com/spf13/cobra"
)

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password",
	Short: "Print a bcrypt hash for ADMIN_PASSWORD_HASH",
	Long: `Hashes an admin password with the configured cost and PASSWORD_PEPPER. The password is
read from the first line of stdin unless --password is given.`,
	RunE: runHashPassword,
}

var (
	hashPassword string
	hashCost     int
)

func init() {
	hashPasswordCmd.Flags().StringVar(&hashPassword, "password", "", "Password to hash (default: read from stdin)")
	hashPasswordCmd.Flags().IntVar(&hashCost, "cost", 12, "bcrypt cost (10-14)")
	rootCmd.AddCommand(hashPasswordCmd)
}

func runHashPassword(cmd *cobra.Command, _ []string) error {
	if hashCost < 10 || hashCost > 14 {
		return fmt.Errorf("bcrypt cost out of range: %d (must be 10-14)", hashCost)
	}

	pw := hashPassword
	if pw == "" {
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("failed to read password: %w", err)
		}
		pw = strings.TrimRight(line, "\r\n")
	}
	if pw == "" {
		return fmt.Errorf("password must not be empty")
	}

	passwords := &config.PasswordConfig{
		BcryptCost: hashCost,
		Pepper:     os.Getenv("PASSWORD_PEPPER"),
	}
	hash, err := passwords.HashPassword(pw)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), hash)
	return nil
}
