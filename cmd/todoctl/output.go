package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/jaekwang-park/todos/internal/model"
)

func printViews(w io.Writer, views []model.TaskView, table bool) error {
	if !table {
		enc := json.NewEncoder(w)
		for _, v := range views {
			if err := enc.Encode(v); err != nil {
				return err
			}
		}
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDONE\tDUE\tEXPIRED\tTITLE\tTAGS")
	for _, v := range views {
		due := "-"
		if v.DueDate != nil {
			due = *v.DueDate
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			v.ID, mark(v.Completed), due, mark(v.Expired), v.Title, strings.Join(v.Tags, ","))
	}
	return tw.Flush()
}

func mark(b bool) string {
	if b {
		return "x"
	}
	return ""
}
