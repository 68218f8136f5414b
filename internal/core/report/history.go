package report

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dep2p/go-linkdiag/pkg/types"
)

// WriteHistory 以表格写出历史会话（从新到旧）
func WriteHistory(w io.Writer, reports []*types.Report) error {
	if len(reports) == 0 {
		_, err := fmt.Fprintln(w, "No archived sessions.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STARTED\tSESSION\tSTATE\tOVERALL\tROOT CAUSE")
	for _, r := range reports {
		cause := string(r.Diagnosis.RootCause)
		if cause == "" {
			cause = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			r.Started.Local().Format(time.DateTime), r.SessionID, r.State, r.Overall, cause)
	}
	return tw.Flush()
}
