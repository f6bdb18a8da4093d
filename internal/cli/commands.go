package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/upb/llm-model-router/services/cost"
)

// NewAnalyzeCmd prints the criteria derived from a prompt.
func NewAnalyzeCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze [prompt]",
		Short: "Derive selection criteria from a prompt",
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt, err := promptFrom(cmd, args)
			if err != nil {
				return err
			}
			svc, err := newOfflineService(opts)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), svc.Analyze(cmd.Context(), prompt))
		},
	}
}

// NewSelectCmd prints the candidate chosen for a prompt.
func NewSelectCmd(opts *Options) *cobra.Command {
	var explain bool

	cmd := &cobra.Command{
		Use:   "select [prompt]",
		Short: "Select the best candidate for a prompt",
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt, err := promptFrom(cmd, args)
			if err != nil {
				return err
			}
			svc, err := newOfflineService(opts)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			result, ranking, err := svc.Explain(ctx, svc.Analyze(ctx, prompt))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !explain {
				return printJSON(out, result)
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "RANK\tMODEL\tSCORE\tREASONING")
			for i, scored := range ranking {
				fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", i+1, scored.Candidate.ID, scored.Score, scored.Reasoning())
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "\nSelected %s (confidence %d%%): %s\n",
				result.SelectedModel.ID, result.Confidence, result.Reasoning)
			return nil
		},
	}

	cmd.Flags().BoolVar(&explain, "explain", false, "Print the full ranking")
	return cmd
}

// NewCostCmd prices an exchange with one candidate.
func NewCostCmd(opts *Options) *cobra.Command {
	var (
		modelID      string
		prompt       string
		inputTokens  int
		outputTokens int
	)

	cmd := &cobra.Command{
		Use:   "cost",
		Short: "Estimate the cost of an exchange with a candidate",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newOfflineService(opts)
			if err != nil {
				return err
			}

			in := inputTokens
			if !cmd.Flags().Changed("input-tokens") {
				in = cost.EstimateTokens(prompt)
			}

			estimate, err := svc.EstimateCost(cmd.Context(), modelID, in, outputTokens)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), estimate)
		},
	}

	cmd.Flags().StringVar(&modelID, "model", "", "Candidate id")
	cmd.Flags().StringVar(&prompt, "prompt", "", "Prompt text used to estimate input tokens")
	cmd.Flags().IntVar(&inputTokens, "input-tokens", 0, "Input token count (overrides --prompt)")
	cmd.Flags().IntVar(&outputTokens, "output-tokens", 0, "Expected output token count")
	_ = cmd.MarkFlagRequired("model")
	return cmd
}

// NewModelsCmd lists the catalog.
func NewModelsCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List candidates in catalog order",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadCatalog(opts)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tPROVIDER\tSPEED\tACCURACY\tINPUT/1K\tOUTPUT/1K")
			for _, m := range c.All() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%g\t%g\n",
					m.ID, m.Provider, m.ResponseTime, m.Accuracy, m.Pricing.InputRate, m.Pricing.OutputRate)
			}
			return tw.Flush()
		},
	}
}
