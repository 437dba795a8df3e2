package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cardinalphin/fire-and-forget-notes/internal/core/domain"
)

var noteCmd = &cobra.Command{
	Use:   "note",
	Short: "Manage notes",
	Long:  `Create, list, show, edit or delete notes. Every change rebuilds the index.`,
}

var noteNewCmd = &cobra.Command{
	Use:   "new [title]",
	Short: "Write a new note",
	Long: `Write a new note. The title defaults to "Untitled".

Pass the body with --body, or use --body - to read it from standard input:

  echo "call the plumber" | fireforget note new Home --body -`,
	Args: cobra.MaximumNArgs(1),
	RunE: runNoteNew,
}

var noteListCmd = &cobra.Command{
	Use:   "list [filter]",
	Short: "List notes, newest first",
	Long:  `List notes, newest first. A filter keeps notes whose title or body contains it.`,
	Args:  cobra.ArbitraryArgs,
	RunE:  runNoteList,
}

var noteShowCmd = &cobra.Command{
	Use:   "show [path]",
	Short: "Print a note",
	Args:  cobra.ExactArgs(1),
	RunE:  runNoteShow,
}

var noteEditCmd = &cobra.Command{
	Use:   "edit [path]",
	Short: "Change a note's title or body",
	Long:  `Change a note's title or body. Fields without a flag keep their current value.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runNoteEdit,
}

var noteDeleteCmd = &cobra.Command{
	Use:   "delete [path]",
	Short: "Delete a note",
	Args:  cobra.ExactArgs(1),
	RunE:  runNoteDelete,
}

var (
	noteTitle    string
	noteBody     string
	noteListJSON bool
)

// noteSummaryJSON is the --json form of a browse entry.
type noteSummaryJSON struct {
	Path    string `json:"path"`
	Title   string `json:"title"`
	Created string `json:"created"`
	Updated string `json:"updated"`
	Snippet string `json:"snippet"`
}

func init() {
	noteNewCmd.Flags().StringVarP(&noteBody, "body", "b", "", `note body ("-" reads standard input)`)
	noteListCmd.Flags().BoolVar(&noteListJSON, "json", false, "output notes as JSON")
	noteEditCmd.Flags().StringVarP(&noteTitle, "title", "t", "", "new title")
	noteEditCmd.Flags().StringVarP(&noteBody, "body", "b", "", `new body ("-" reads standard input)`)

	noteCmd.AddCommand(noteNewCmd)
	noteCmd.AddCommand(noteListCmd)
	noteCmd.AddCommand(noteShowCmd)
	noteCmd.AddCommand(noteEditCmd)
	noteCmd.AddCommand(noteDeleteCmd)
	rootCmd.AddCommand(noteCmd)
}

func runNoteNew(cmd *cobra.Command, args []string) error {
	if noteService == nil {
		return errors.New("note service not configured")
	}

	title := ""
	if len(args) > 0 {
		title = args[0]
	}
	body, err := readBody(cmd, noteBody)
	if err != nil {
		return err
	}

	note, err := noteService.Create(cmd.Context(), title, body)
	if note != nil {
		cmd.Printf("Saved %s\n", note.Path)
	}
	if err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}
	return nil
}

func runNoteList(cmd *cobra.Command, args []string) error {
	if noteService == nil {
		return errors.New("note service not configured")
	}

	notes, err := noteService.List(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return fmt.Errorf("failed to list notes: %w", err)
	}

	if noteListJSON {
		out := make([]noteSummaryJSON, 0, len(notes))
		for _, n := range notes {
			out = append(out, noteSummaryJSON{
				Path:    n.Path,
				Title:   n.Title,
				Created: n.Created.Format(domain.TimeLayout),
				Updated: n.Updated.Format(domain.TimeLayout),
				Snippet: n.Snippet,
			})
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal notes: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(notes) == 0 {
		cmd.Println("No notes found.")
		return nil
	}
	for _, n := range notes {
		cmd.Printf("%s  %s\n", n.Created.Format(domain.TimeLayout), n.Title)
		cmd.Printf("    %s\n", n.Path)
		if n.Snippet != "" {
			cmd.Printf("    %s\n", n.Snippet)
		}
	}
	return nil
}

func runNoteShow(cmd *cobra.Command, args []string) error {
	if noteService == nil {
		return errors.New("note service not configured")
	}

	note, err := noteService.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to read note: %w", err)
	}

	cmd.Printf("# %s\n", note.Title)
	cmd.Printf("Created: %s\n", note.CreatedString())
	cmd.Printf("Updated: %s\n", note.UpdatedString())
	cmd.Printf("Path:    %s\n", note.Path)
	cmd.Println()
	cmd.Print(note.Body)
	if !strings.HasSuffix(note.Body, "\n") {
		cmd.Println()
	}
	return nil
}

func runNoteEdit(cmd *cobra.Command, args []string) error {
	if noteService == nil {
		return errors.New("note service not configured")
	}

	titleSet := cmd.Flags().Changed("title")
	bodySet := cmd.Flags().Changed("body")
	if !titleSet && !bodySet {
		return errors.New("nothing to change: pass --title or --body")
	}

	existing, err := noteService.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to read note: %w", err)
	}

	title, body := existing.Title, existing.Body
	if titleSet {
		title = noteTitle
	}
	if bodySet {
		if body, err = readBody(cmd, noteBody); err != nil {
			return err
		}
	}

	note, err := noteService.Update(cmd.Context(), existing.Path, title, body)
	if note != nil {
		cmd.Printf("Saved %s\n", note.Path)
	}
	if err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}
	return nil
}

func runNoteDelete(cmd *cobra.Command, args []string) error {
	if noteService == nil {
		return errors.New("note service not configured")
	}

	if err := noteService.Delete(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	cmd.Println("Note deleted.")
	return nil
}

// readBody returns flag, or standard input when flag is "-".
func readBody(cmd *cobra.Command, flag string) (string, error) {
	if flag != "-" {
		return flag, nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("reading body: %w", err)
	}
	return string(data), nil
}
