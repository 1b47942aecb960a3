package commands

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/atelier-dev/atelier/pkg/workspace"
)

func newInstantiateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "instantiate <member-name>",
		Aliases: []string{"new"},
		Short:   "Instantiate a new client member from the canonical template",
		Long: `Clone the canonical client template into a new member directory,
rewrite its manifest identity, allocate the next free dev-server port,
and write its environment file.

The member name must carry the workspace's member prefix and is used as
the directory name, the manifest name, and the client identifier the app
uses to fetch its theme at runtime. Creation is atomic: on any failure
the member is absent, never half-written.`,
		Example: `  # Create a client in the current workspace
  atelier instantiate client-blue

  # Create a client in a specific workspace
  atelier -w ./shop instantiate client-purple`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			log.Info().
				Str("member", name).
				Str("workspace", workspaceDir).
				Msg("Instantiating member")

			ws, err := workspace.Open(workspaceDir, log.Logger)
			if err != nil {
				return err
			}

			alloc := workspace.NewScanAllocator(ws, log.Logger)
			inst := workspace.NewInstantiator(ws, alloc, log.Logger)
			member, err := inst.Instantiate(cmd.Context(), name)
			if err != nil {
				return err
			}

			fmt.Printf("Created member %s\n\n", member.Name)
			fmt.Printf("✓ Directory:    %s\n", ws.MemberDir(member.Name))
			fmt.Printf("✓ Display name: %s\n", member.DisplayName)
			fmt.Printf("✓ Client ID:    %s\n", member.ClientID)
			fmt.Printf("✓ Dev port:     %d\n", member.Port)

			fmt.Printf("\nNext steps:\n")
			fmt.Printf("  1. Install dependencies:\n")
			fmt.Printf("     pnpm install\n\n")
			fmt.Printf("  2. Start the dev server:\n")
			fmt.Printf("     pnpm --filter %s dev\n\n", member.Name)

			return nil
		},
	}

	return cmd
}
