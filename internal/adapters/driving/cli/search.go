package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/cardinalphin/fire-and-forget-notes/internal/core/domain"
)

var (
	searchLimit int
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search notes by meaning",
	Long: `Ranks note passages by semantic similarity to the query.

Notes are compared through a latent semantic model built from every note,
so passages that use related words can match even without exact terms.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	dimStyle   = lipgloss.NewStyle().Faint(true)
)

// searchResultJSON is the --json form of a hit.
type searchResultJSON struct {
	Rank    int     `json:"rank"`
	Score   float64 `json:"score"`
	Title   string  `json:"title"`
	Path    string  `json:"path"`
	Created string  `json:"created"`
	Excerpt string  `json:"excerpt"`
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of results (0 = configured default)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	if searchService == nil {
		return errors.New("search service not configured")
	}

	opts := domain.SearchOptions{
		Limit: searchLimit,
	}

	results, err := searchService.Search(cmd.Context(), query, opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}

	return outputSearchTable(cmd, results)
}

func outputSearchJSON(cmd *cobra.Command, results []domain.SearchResult) error {
	out := make([]searchResultJSON, 0, len(results))
	for i, r := range results {
		out = append(out, searchResultJSON{
			Rank:    i + 1,
			Score:   r.Score,
			Title:   r.Chunk.NoteTitle,
			Path:    r.Chunk.NotePath,
			Created: r.Chunk.NoteCreated.Format(domain.TimeLayout),
			Excerpt: r.Excerpt,
		})
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.SearchResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	styled := isTerminal(cmd.OutOrStdout())
	style := func(s lipgloss.Style, text string) string {
		if !styled {
			return text
		}
		return s.Render(text)
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		// Format: [N] Title (Score)
		title := results[i].Chunk.NoteTitle
		if title == "" {
			title = results[i].Chunk.NoteID
		}

		cmd.Printf("  [%d] %s (%.2f)\n", i+1, style(titleStyle, title), results[i].Score)
		cmd.Printf("      %s\n", style(dimStyle, results[i].Chunk.NoteCreated.Format(domain.TimeLayout)+"  "+results[i].Chunk.NotePath))
		if results[i].Excerpt != "" {
			cmd.Printf("      %s\n", results[i].Excerpt)
		}
		cmd.Println()
	}

	return nil
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
