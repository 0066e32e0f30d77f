package cmd

import (
	"github.com/spf13/cobra"

	"codegraph/internal/server"
	"codegraph/internal/store"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the MCP server over stdio",
	Long: `Mcp serves the analysis tools over the Model Context Protocol on
stdin/stdout, for use from MCP-aware clients.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.Open(cfg.DatabasePath)
		if err != nil {
			return err
		}
		defer st.Close()

		s := server.New(newWalker(), newAnalyzer(), st, logger)
		return s.Run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
