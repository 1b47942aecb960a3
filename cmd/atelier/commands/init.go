package commands

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/atelier-dev/atelier/pkg/template"
	"github.com/atelier-dev/atelier/pkg/workspace"
)

func newInitCommand() *cobra.Command {
	var (
		force bool
	)

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Create a new atelier workspace",
		Long: `Create a new atelier workspace in the given directory (default: the
--workspace directory).

The workspace contains the root manifests, the shared packages, the
canonical client template, and the mock data server. If the target
directory is not empty the command refuses to run; --force confirms a
destructive replace of the whole directory. It never merges into an
existing directory.`,
		Example: `  # Create a workspace in ./shop
  atelier init ./shop

  # Replace whatever is at ./shop
  atelier init ./shop --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := workspaceDir
			if len(args) > 0 {
				dir = args[0]
			}

			log.Info().
				Str("dir", dir).
				Bool("force", force).
				Msg("Creating workspace")

			store := template.Embedded()
			builder := workspace.NewBuilder(store, log.Logger)
			ws, err := builder.Build(cmd.Context(), dir, workspace.BuildOptions{Force: force})
			if err != nil {
				return err
			}

			fmt.Printf("Created workspace in %s\n\n", ws.Root)
			fmt.Printf("✓ Wrote %d template files\n", len(store.List()))
			fmt.Printf("✓ Shared packages: %v\n", ws.Config.SharedPackages)
			fmt.Printf("✓ Canonical template: %s (port %d)\n", ws.Config.Template, ws.Config.BasePort)
			fmt.Printf("✓ Workspace config: %s\n", workspace.ConfigFileName)

			fmt.Printf("\nNext steps:\n")
			fmt.Printf("  1. Install dependencies:\n")
			fmt.Printf("     cd %s && pnpm install\n\n", ws.Root)
			fmt.Printf("  2. Create your first client:\n")
			fmt.Printf("     atelier instantiate %sblue\n\n", ws.Config.MemberPrefix)

			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "replace a non-empty target directory")

	return cmd
}
