package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"letwise/internal/document"
	"letwise/internal/document/pdf"
	"letwise/internal/document/preview"
	"letwise/internal/generation/service"
	"letwise/internal/platform/logger"
	"letwise/internal/referencedata"
	"letwise/internal/rules"
)

type rootOptions struct {
	referenceData string
	ruleSetDir    string
	logLevel      string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "letwise",
		Short:         "Landlord compliance checks and document generation",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.referenceData, "reference-data", "", "authority table JSON file (default: embedded)")
	cmd.PersistentFlags().StringVar(&opts.ruleSetDir, "rulesets", "", "directory of rule set YAML files (default: embedded)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level")

	cmd.AddCommand(
		newLookupCmd(opts),
		newCheckCmd(opts),
		newGenerateCmd(opts),
		newLinkCmd(),
	)
	return cmd
}

// service builds the pipeline without external stores: documents are
// always previews and filenames carry the generation time.
func (o *rootOptions) service(cmd *cobra.Command) (*service.Service, error) {
	var (
		authorities *referencedata.Store
		err         error
	)
	if o.referenceData != "" {
		authorities, err = referencedata.LoadFile(o.referenceData)
	} else {
		authorities, err = referencedata.Default()
	}
	if err != nil {
		return nil, err
	}

	var registry *rules.Registry
	if o.ruleSetDir != "" {
		sets, err := rules.LoadFS(os.DirFS(o.ruleSetDir), ".")
		if err != nil {
			return nil, err
		}
		registry, err = rules.NewRegistry(sets...)
		if err != nil {
			return nil, err
		}
	} else if registry, err = rules.DefaultRegistry(); err != nil {
		return nil, err
	}

	pdfAssembler, err := document.NewAssembler(pdf.New())
	if err != nil {
		return nil, err
	}
	pngAssembler, err := document.NewAssembler(preview.New())
	if err != nil {
		return nil, err
	}

	return service.New(authorities, registry, document.NewRenderer(),
		service.WithLogger(logger.NewWithWriter(cmd.ErrOrStderr(), o.logLevel, "text")),
		service.WithAssembler(service.FormatPDF, pdfAssembler),
		service.WithAssembler(service.FormatPreview, pngAssembler),
	)
}

// parseFields turns repeated --field key=value flags into collector input.
func parseFields(fields []string) (map[string]string, error) {
	values := make(map[string]string, len(fields))
	for _, f := range fields {
		k, v, ok := strings.Cut(f, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("field %q must be key=value", f)
		}
		values[k] = v
	}
	return values, nil
}
