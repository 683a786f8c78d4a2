package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jaekwang-park/todos/internal/model"
)

func newListCmd(a *app) *cobra.Command {
	var tag string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks in display order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			views, err := a.svc.List(cmd.Context(), model.TaskListParams{Tag: tag})
			if err != nil {
				return err
			}
			return printViews(cmd.OutOrStdout(), views, a.table)
		},
	}
	cmd.Flags().StringVar(&tag, "tag", "", "only show tasks with this tag")
	return cmd
}

func newExpiredCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "expired",
		Short: "List active tasks whose due date has passed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			views, err := a.svc.ListExpired(cmd.Context())
			if err != nil {
				return err
			}
			return printViews(cmd.OutOrStdout(), views, a.table)
		},
	}
}

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Show a single task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			view, err := a.svc.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printViews(cmd.OutOrStdout(), []model.TaskView{view}, a.table)
		},
	}
}

func newAddCmd(a *app) *cobra.Command {
	var (
		due  string
		tags []string
		done bool
	)

	cmd := &cobra.Command{
		Use:   "add TITLE",
		Short: "Create a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := model.CreateTaskInput{
				Title:     args[0],
				Completed: done,
				Tags:      tags,
			}
			if due != "" {
				input.DueDate = &due
			}
			view, err := a.svc.Create(cmd.Context(), input)
			if err != nil {
				return err
			}
			return printViews(cmd.OutOrStdout(), []model.TaskView{view}, a.table)
		},
	}
	cmd.Flags().StringVar(&due, "due", "", "due date as YYYY-MM-DD")
	cmd.Flags().StringArrayVar(&tags, "tag", nil, "tag to attach (repeatable)")
	cmd.Flags().BoolVar(&done, "done", false, "create the task already completed")
	return cmd
}

func newToggleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle ID",
		Short: "Flip a task between active and completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			view, err := a.svc.Toggle(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printViews(cmd.OutOrStdout(), []model.TaskView{view}, a.table)
		},
	}
}

func newRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.svc.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted task %d\n", id)
			return nil
		},
	}
}
