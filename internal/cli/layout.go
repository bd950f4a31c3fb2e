package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ivlev/quiz2video/internal/layout"
)

var layoutOrientation string

func newLayoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Показать области макета для ориентации",
		RunE:  runLayout,
	}

	cmd.Flags().StringVar(&layoutOrientation, "orientation", "wide", "Ориентация: wide или tall")

	return cmd
}

func runLayout(cmd *cobra.Command, _ []string) error {
	o, err := layout.ParseOrientation(layoutOrientation)
	if err != nil {
		return err
	}
	w, h := o.Canvas()
	l, err := layout.Compute(w, h, o)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Ориентация: %s, холст %dx%d, мин. высота %d\n", o, w, h, layout.MinHeight(o))
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "REGION\tX\tY\tW\tH")
	for _, r := range l.Regions() {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\n", r.Name, r.Rect.Min.X, r.Rect.Min.Y, r.Rect.Dx(), r.Rect.Dy())
	}
	return tw.Flush()
}
