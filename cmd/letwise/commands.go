package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"letwise/internal/facts"
	"letwise/internal/generation/service"
	"letwise/internal/wizard"
)

func newLookupCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <postcode>",
		Short: "Find the local authority for a postcode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.service(cmd)
			if err != nil {
				return err
			}
			a := svc.LookupAuthority(cmd.Context(), args[0])
			out := cmd.OutOrStdout()
			if !a.Found {
				fmt.Fprintf(out, "No authority found for %s (area %s). Contact your local authority.\n", a.Postcode, orNone(a.AreaCode))
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "Postcode\t%s\n", a.Postcode)
			fmt.Fprintf(tw, "Area\t%s\n", a.AreaCode)
			fmt.Fprintf(tw, "Authority\t%s\n", a.Area.Authority.Name)
			fmt.Fprintf(tw, "Jurisdiction\t%s\n", a.Area.Authority.Jurisdiction)
			fmt.Fprintf(tw, "Website\t%s\n", a.Area.Authority.Website)
			return tw.Flush()
		},
	}
}

func newCheckCmd(opts *rootOptions) *cobra.Command {
	var fields []string
	cmd := &cobra.Command{
		Use:   "check <topic>",
		Short: "Classify a tenancy (topics: hmo, arrears, debt)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseFields(fields)
			if err != nil {
				return err
			}
			svc, err := opts.service(cmd)
			if err != nil {
				return err
			}
			eval, err := svc.Evaluate(cmd.Context(), facts.Topic(args[0]), values)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !eval.Complete {
				writeIssues(out, eval.Issues)
				return errIncomplete
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "Rule set\t%s (%s)\n", eval.RuleSet.ID, eval.Result.Version)
			fmt.Fprintf(tw, "Tier\t%s\n", eval.Result.Tier)
			fmt.Fprintf(tw, "Reason\t%s\n", eval.Result.Reason)
			if eval.Result.DecidingRule != "" {
				fmt.Fprintf(tw, "Deciding rule\t%s\n", eval.Result.DecidingRule)
			}
			for _, m := range eval.Result.Matches() {
				note := ""
				if m.Advisory {
					note = " (guidance)"
				}
				fmt.Fprintf(tw, "Matched\t%s: %s%s\n", m.RuleID, m.Tier, note)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringArrayVarP(&fields, "field", "f", nil, "fact as key=value (repeatable)")
	return cmd
}

func newGenerateCmd(opts *rootOptions) *cobra.Command {
	var (
		fields []string
		out    string
		format string
	)
	cmd := &cobra.Command{
		Use:   "generate <topic>",
		Short: "Render a preview document for a tenancy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseFields(fields)
			if err != nil {
				return err
			}
			svc, err := opts.service(cmd)
			if err != nil {
				return err
			}
			gen, err := svc.Generate(cmd.Context(), service.GenerateRequest{
				Topic:  facts.Topic(args[0]),
				Values: values,
				Format: service.Format(format),
			})
			if err != nil {
				return err
			}
			if gen.Document == nil {
				writeIssues(cmd.OutOrStdout(), gen.Evaluation.Issues)
				return errIncomplete
			}

			path := out
			if path == "" {
				path = gen.Document.Filename
			}
			if err := os.WriteFile(path, gen.Document.Bytes, 0o644); err != nil {
				return fmt.Errorf("write document: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d pages, %s)\n", path, gen.Document.Pages, gen.Mode)
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&fields, "field", "f", nil, "fact as key=value (repeatable)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default: generated filename)")
	cmd.Flags().StringVar(&format, "format", string(service.FormatPDF), "pdf or png")
	return cmd
}

func newLinkCmd() *cobra.Command {
	var (
		product, jurisdiction, topic, source, entry string
	)
	cmd := &cobra.Command{
		Use:   "link",
		Short: "Build a wizard entry link",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			link := wizard.NewRouter(entry).Link(wizard.Link{
				Product:      product,
				Jurisdiction: jurisdiction,
				Topic:        topic,
				Source:       source,
			})
			_, err := fmt.Fprintln(cmd.OutOrStdout(), link)
			return err
		},
	}
	cmd.Flags().StringVar(&product, "product", "", "product identifier")
	cmd.Flags().StringVar(&jurisdiction, "jurisdiction", "", "england, wales or scotland")
	cmd.Flags().StringVar(&topic, "topic", "", "check topic")
	cmd.Flags().StringVar(&source, "src", "", "attribution source")
	cmd.Flags().StringVar(&entry, "entry", wizard.DefaultEntryPath, "wizard entry path")
	return cmd
}

var errIncomplete = errors.New("facts are incomplete")

func writeIssues(w io.Writer, issues []facts.Issue) {
	fmt.Fprintln(w, "Missing or invalid facts:")
	for _, is := range issues {
		fmt.Fprintf(w, "  %s: %s\n", is.Field, is.Message)
	}
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "none"
	}
	return s
}
