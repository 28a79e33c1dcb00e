package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"dsfuse/pkg/dass"
	"dsfuse/pkg/mass"
)

var (
	querySource string
	querySets   []string
)

// queryCmd reports belief, plausibility and commonality for subsets
var queryCmd = &cobra.Command{
	Use:   "query [document]",
	Short: "Query belief and plausibility from a DASS document",
	Long: `Prints mass, belief, plausibility and commonality for subsets of the
frame. Without --set, every focal element of the source is reported.

Subsets use the "{a,b}" form; labels must belong to the document frame.

Example:
  dsfuse query evidence.json --source source_1
  dsfuse query evidence.json --set "{a}" --set "{a,b}"`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().StringVarP(&querySource, "source", "s", "", "Source id (default: first source)")
	queryCmd.Flags().StringArrayVar(&querySets, "set", nil, "Subset to report, e.g. \"{a,b}\" (repeatable)")
}

func runQuery(cmd *cobra.Command, args []string) error {
	doc, err := dass.Load(args[0])
	if err != nil {
		return err
	}
	frame, sources, err := doc.MassFunctions()
	if err != nil {
		return err
	}

	idx := 0
	if querySource != "" {
		idx = -1
		for i, s := range doc.Sources {
			if s.ID == querySource {
				idx = i
				break
			}
		}
		if idx < 0 {
			return fmt.Errorf("no source %q in %s", querySource, args[0])
		}
	}
	m := sources[idx]
	logger.Debug("Querying source", zap.String("id", doc.Sources[idx].ID))

	var subsets []mass.Subset
	if len(querySets) == 0 {
		subsets = m.Focals()
	} else {
		for _, text := range querySets {
			s, err := frame.Parse(text)
			if err != nil {
				return err
			}
			subsets = append(subsets, s)
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SUBSET\tMASS\tBELIEF\tPLAUSIBILITY\tCOMMONALITY")
	for _, s := range subsets {
		fmt.Fprintf(w, "%s\t%.6f\t%.6f\t%.6f\t%.6f\n",
			frame.Format(s), m.Mass(s), m.Belief(s), m.Plausibility(s), m.Commonality(s))
	}
	return w.Flush()
}
