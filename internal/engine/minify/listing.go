package minify

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// WritePlan prints one row per job: identifier, source and destination.
func WritePlan(w io.Writer, plan *Plan) error {
	if plan.Len() == 0 {
		_, err := fmt.Fprintln(w, "No scripts to minify")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tSOURCE\tDESTINATION")
	for _, job := range plan.Jobs() {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", job.ID, job.Source, job.Destination)
	}
	return tw.Flush()
}
