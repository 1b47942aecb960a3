package commands

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/atelier-dev/atelier/pkg/workspace"
)

func newValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the workspace structure and member invariants",
		Long: `Validate the workspace on disk.

This command checks:
  - Root configuration files and the workspace config
  - Every declared shared package
  - The canonical client template
  - Member identity and port uniqueness, derived by scanning`,
		Example: `  # Validate the current directory
  atelier validate

  # Validate a specific workspace
  atelier -w ./shop validate`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Open performs the structural validation.
			ws, err := workspace.Open(workspaceDir, log.Logger)
			if err != nil {
				return err
			}

			if err := ws.CheckInvariants(); err != nil {
				return err
			}

			members, err := ws.Members()
			if err != nil {
				return err
			}

			fmt.Printf("Workspace %s is valid\n\n", ws.Root)
			fmt.Printf("✓ Shared packages: %v\n", ws.Config.SharedPackages)
			fmt.Printf("✓ Canonical template: %s\n", ws.Config.Template)
			fmt.Printf("✓ Members: %d (ports and identities unique)\n", len(members))

			return nil
		},
	}

	return cmd
}
