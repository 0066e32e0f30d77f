package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"codegraph/internal/gitsource"
	"codegraph/util"
)

var (
	analyzeRepoURL string
	analyzeOutput  string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [path]",
	Short: "Analyze a codebase and print the graph as JSON",
	Long: `Analyze walks the given directory (default: the enclosing git
repository root), extracts structure from every supported source file, and
prints the resolved dependency graph as JSON on stdout.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		baseDir := ""
		switch {
		case analyzeRepoURL != "":
			if len(args) > 0 {
				return fmt.Errorf("provide either a path or --repo, not both")
			}
			dir, cleanup, err := gitsource.Clone(ctx, analyzeRepoURL, logger)
			if err != nil {
				return err
			}
			defer cleanup()
			baseDir = dir
		case len(args) == 1:
			baseDir = args[0]
		default:
			root, err := util.FindGitRoot()
			if err != nil {
				return err
			}
			baseDir = root
		}

		files, fileSet, err := newWalker().Walk(baseDir)
		if err != nil {
			return err
		}
		g, err := newAnalyzer().Analyze(ctx, baseDir, files, fileSet)
		if err != nil {
			return err
		}

		out := os.Stdout
		if analyzeOutput != "" {
			f, err := os.Create(analyzeOutput)
			if err != nil {
				return fmt.Errorf("create output file: %w", err)
			}
			defer f.Close()
			out = f
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(g.ToWire())
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeRepoURL, "repo", "", "git repository URL to clone and analyze")
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "", "write JSON to file instead of stdout")
	rootCmd.AddCommand(analyzeCmd)
}
