package mode

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"golang.org/x/xerrors"

	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/model"
)

// Reports lists stored run reports, newest first.
func Reports(_ context.Context, svcs Services, opts Options) error {
	if svcs.DataSvc == nil {
		return xerrors.New("no report store configured")
	}

	reports, err := svcs.DataSvc.RetrieveRunReports(model.Operation(opts.Operation), opts.Max)
	if err != nil {
		return err
	}

	if len(reports) == 0 {
		fmt.Fprintln(opts.out(), "No run reports found.")
		return nil
	}

	w := tabwriter.NewWriter(opts.out(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tOPERATION\tCODE\tLEGACY\tDURATION\tWHEN")
	fmt.Fprintln(w, "--\t---------\t----\t------\t--------\t----")

	for _, r := range reports {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%dms\t%s\n",
			r.ID, r.Operation, r.Code, r.LegacyCode, r.DurationMs,
			time.Unix(r.Timestamp, 0).Local().Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}
