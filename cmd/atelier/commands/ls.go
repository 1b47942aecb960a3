package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/atelier-dev/atelier/pkg/workspace"
)

func newLsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List the workspace's instantiated members",
		Long: `List every named member in the workspace with its display name,
client identifier, and assigned dev-server port. The member set is
derived by scanning the members directory; the canonical template is
not listed.`,
		Example: `  # Human-readable listing
  atelier ls

  # Machine-readable listing
  atelier ls --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := workspace.Open(workspaceDir, log.Logger)
			if err != nil {
				return err
			}

			members, err := ws.Members()
			if err != nil {
				return err
			}

			if jsonOutput {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(members)
			}

			if len(members) == 0 {
				fmt.Println("No members instantiated yet")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tDISPLAY\tCLIENT ID\tPORT")
			for _, m := range members {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", m.Name, m.DisplayName, m.ClientID, m.Port)
			}
			return w.Flush()
		},
	}

	return cmd
}
