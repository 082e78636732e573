package system

import (
	"fmt"

	"github.com/spf13/cobra"

	pasetotoken "github.com/praxiskit/praxis_backend/pkg/paseto"
)

func NewKeygenCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "keygen",
		Short: "Generate a session token key",
		Long: `Generate a fresh symmetric key for session tokens, printed as hex.

Put the value in the session.paseto.local_key_hex config field. Rotating
the key invalidates all sessions issued under the old one.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(pasetotoken.NewKeyHex())
			return nil
		},
	}
}
