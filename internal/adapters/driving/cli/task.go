package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cardinalphin/fire-and-forget-notes/internal/core/domain"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "List and complete tasks",
	Long: `Tasks are note lines starting with "**" (open) or "***" (done).

Completing a task turns its "**" into "***" inside the note.`,
}

var taskListCmd = &cobra.Command{
	Use:   "list [filter]",
	Short: "List open tasks",
	Long:  `List open tasks, oldest note first. A filter matches task text or note title.`,
	Args:  cobra.ArbitraryArgs,
	RunE:  runTaskList,
}

var taskDoneCmd = &cobra.Command{
	Use:   "done [path] [line]",
	Short: "Mark a task as done",
	Long:  `Mark the task at the given body line of a note as done. Line numbers are shown by "task list".`,
	Args:  cobra.ExactArgs(2),
	RunE:  runTaskDone,
}

var taskListDone bool

func init() {
	taskListCmd.Flags().BoolVarP(&taskListDone, "all", "a", false, "include completed tasks")

	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskDoneCmd)
	rootCmd.AddCommand(taskCmd)
}

func runTaskList(cmd *cobra.Command, args []string) error {
	if taskService == nil {
		return errors.New("task service not configured")
	}

	filter := domain.TaskFilter{
		Query:       strings.Join(args, " "),
		IncludeDone: taskListDone,
	}
	tasks, err := taskService.List(cmd.Context(), filter)
	if err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}

	if len(tasks) == 0 {
		cmd.Println("No tasks found.")
		return nil
	}

	lastPath := ""
	for _, t := range tasks {
		if t.NotePath != lastPath {
			cmd.Printf("%s  %s\n", t.NoteCreated.Format(domain.TimeLayout), t.NoteTitle)
			cmd.Printf("    %s\n", t.NotePath)
			lastPath = t.NotePath
		}
		box := "[ ]"
		if t.Done {
			box = "[x]"
		}
		cmd.Printf("  %s %4d  %s\n", box, t.Line, t.Text)
	}
	return nil
}

func runTaskDone(cmd *cobra.Command, args []string) error {
	if taskService == nil {
		return errors.New("task service not configured")
	}

	line, err := strconv.Atoi(args[1])
	if err != nil || line <= 0 {
		return fmt.Errorf("line must be a positive number, got %q", args[1])
	}

	changed, err := taskService.Complete(cmd.Context(), args[0], line)
	if err != nil {
		return fmt.Errorf("failed to complete task: %w", err)
	}
	if !changed {
		cmd.Println("No open task on that line.")
		return nil
	}
	cmd.Println("Task done.")
	return nil
}
