package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"dsfuse/pkg/dass"
	"dsfuse/pkg/discount"
	"dsfuse/pkg/mass"
)

var (
	discountReliability float64
	discountRates       map[string]float64
	discountContextual  bool
)

// discountCmd applies reliability discounting to every source
var discountCmd = &cobra.Command{
	Use:   "discount [document]",
	Short: "Apply reliability discounting to a DASS document",
	Long: `Discounts every source in the document and emits the discounted
document. With --reliability, classical Shafer discounting moves the
mass 1-reliability onto the full frame. With --contextual, per-element
rates given by --rate drive contextual discounting.

Example:
  dsfuse discount evidence.json --reliability 0.8
  dsfuse discount evidence.json --contextual --rate a=0.3 --rate b=0.1`,
	Args: cobra.ExactArgs(1),
	RunE: runDiscount,
}

func init() {
	discountCmd.Flags().Float64Var(&discountReliability, "reliability", 1.0, "Uniform source reliability in [0, 1]")
	discountCmd.Flags().StringToFloat64Var(&discountRates, "rate", nil, "Per-element discount rate, label=rate (repeatable)")
	discountCmd.Flags().BoolVar(&discountContextual, "contextual", false, "Use contextual discounting with --rate")
}

func runDiscount(cmd *cobra.Command, args []string) error {
	doc, err := dass.Load(args[0])
	if err != nil {
		return err
	}
	frame, sources, err := doc.MassFunctions()
	if err != nil {
		return err
	}
	logger.Info("Discounting sources",
		zap.Int("sources", len(sources)),
		zap.Bool("contextual", discountContextual))

	discounted := make([]*mass.MassFunction, len(sources))
	for i, m := range sources {
		var out *mass.MassFunction
		if discountContextual {
			out, err = discount.Contextual(m, discountRates)
		} else {
			out, err = discount.Classical(m, discountReliability)
		}
		if err != nil {
			return fmt.Errorf("source %q: %w", doc.Sources[i].ID, err)
		}
		discounted[i] = out
	}

	result := dass.FromMassFunctions(frame, discounted,
		fmt.Sprintf("discounted sources from %s", args[0]))
	for i := range result.Sources {
		result.Sources[i].ID = doc.Sources[i].ID
	}
	return emit(result)
}
