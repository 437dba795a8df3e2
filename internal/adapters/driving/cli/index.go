package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cardinalphin/fire-and-forget-notes/internal/core/domain"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Inspect or rebuild the search index",
}

var indexRebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the index from every note",
	Long: `Rebuild the index from every note.

Writes through fireforget rebuild automatically; use this after editing
note files by hand while the server is not watching them.`,
	Args: cobra.NoArgs,
	RunE: runIndexRebuild,
}

var indexStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Describe the current index",
	Args:  cobra.NoArgs,
	RunE:  runIndexStats,
}

func init() {
	indexCmd.AddCommand(indexRebuildCmd)
	indexCmd.AddCommand(indexStatsCmd)
	rootCmd.AddCommand(indexCmd)
}

func runIndexRebuild(cmd *cobra.Command, _ []string) error {
	if indexService == nil {
		return errors.New("index service not configured")
	}

	start := time.Now()
	stats, err := indexService.Rebuild(cmd.Context())
	if err != nil {
		return fmt.Errorf("rebuild failed: %w", err)
	}
	cmd.Printf("Indexed %d chunks from %d notes in %s\n",
		stats.Chunks, stats.Notes, time.Since(start).Round(time.Millisecond))
	return nil
}

func runIndexStats(cmd *cobra.Command, _ []string) error {
	if indexService == nil {
		return errors.New("index service not configured")
	}

	stats, err := indexService.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to read index: %w", err)
	}
	printIndexStats(cmd, stats)
	return nil
}

func printIndexStats(cmd *cobra.Command, stats domain.IndexStats) {
	cmd.Printf("Path:        %s\n", stats.Path)
	cmd.Printf("Notes:       %d\n", stats.Notes)
	cmd.Printf("Chunks:      %d\n", stats.Chunks)
	cmd.Printf("Vocabulary:  %d\n", stats.VocabularySize)
	cmd.Printf("Latent dim:  %d\n", stats.LatentDim)
	cmd.Printf("Built:       %s\n", stats.BuiltAt.Format(domain.TimeLayout))
}
