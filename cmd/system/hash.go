package system

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/praxiskit/praxis_backend/pkg/util/password"
)

func NewHashCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hash <password>",
		Short: "Hash a password for the user directory",
		Long: `Hash a password with argon2id for use in the users config section.

The output is a PHC-format string; paste it into the password_hash field
of a user entry.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := password.Hash(args[0], password.DefaultParams())
			if err != nil {
				return fmt.Errorf("failed to hash password: %w", err)
			}
			fmt.Println(hash)
			return nil
		},
	}
}
