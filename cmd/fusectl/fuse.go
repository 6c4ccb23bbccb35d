package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"expediente/internal/expediente/models"
	"expediente/internal/fusion/extractors"
	fusionhandler "expediente/internal/fusion/handler"
	"expediente/internal/fusion/ports"
	"expediente/internal/fusion/review"
	"expediente/internal/fusion/service"
	"expediente/internal/platform/config"
)

type fuseOptions struct {
	reference    string
	renditions   map[models.Source]*string
	profilePath  string
	failOnReview bool
}

// errNeedsReview makes fusectl exit non-zero when --fail-on-review is set.
var errNeedsReview = errors.New("expediente needs manual review")

func newFuseCmd(root *rootOptions) *cobra.Command {
	opts := &fuseOptions{renditions: map[models.Source]*string{}}
	cmd := &cobra.Command{
		Use:   "fuse",
		Short: "Fuse rendition files (YAML or JSON records) into one expediente",
		Example: `  fusectl fuse --xml exp.xml.yaml --ocr exp.ocr.yaml --docx exp.docx.yaml
  fusectl fuse --ocr exp.ocr.json --profile profile.yaml -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := root.validateOutput(); err != nil {
				return err
			}
			return runFuse(cmd, root, opts)
		},
	}
	for _, src := range models.Sources {
		opts.renditions[src] = cmd.Flags().String(src.String(), "", fmt.Sprintf("path of the %s rendition record", src))
	}
	cmd.Flags().StringVar(&opts.reference, "reference", "", "document reference used in logs and traces")
	cmd.Flags().StringVar(&opts.profilePath, "profile", "", "YAML fusion profile (reliability, scoring, annotations)")
	cmd.Flags().BoolVar(&opts.failOnReview, "fail-on-review", false, "exit non-zero when the expediente needs review")
	return cmd
}

func runFuse(cmd *cobra.Command, root *rootOptions, opts *fuseOptions) error {
	doc := ports.Document{Reference: opts.reference, Renditions: map[models.Source]string{}}
	for src, path := range opts.renditions {
		if *path != "" {
			doc.Renditions[src] = *path
		}
	}
	if len(doc.Renditions) == 0 {
		return errors.New("at least one of --xml, --ocr or --docx is required")
	}

	profile, err := config.LoadProfile(opts.profilePath)
	if err != nil {
		return err
	}
	settings, err := service.SettingsFromProfile(profile)
	if err != nil {
		return err
	}

	log := root.logger(cmd.ErrOrStderr())
	sanitizer := settings.Sanitizer()
	registry := extractors.NewRegistry()
	for _, src := range models.Sources {
		ex := extractors.NewFileExtractor(src, extractors.WithSanitizer(sanitizer), extractors.WithLogger(log))
		if err := registry.Register(ex); err != nil {
			return err
		}
	}

	svc, err := service.New(
		service.WithSettings(settings),
		service.WithExtractors(registry),
		service.WithPublisher(review.NewLogPublisher(log)),
		service.WithLogger(log),
	)
	if err != nil {
		return err
	}

	res, err := svc.FuseDocument(cmd.Context(), doc)
	if err != nil {
		return err
	}
	if err := writeReport(cmd.OutOrStdout(), root.output, fusionhandler.FromResult(res)); err != nil {
		return err
	}
	if opts.failOnReview && res.NeedsReview {
		return fmt.Errorf("%w: %s", errNeedsReview, res.ReviewReason)
	}
	return nil
}

func writeReport(w io.Writer, format string, v any) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	out, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	_, err = w.Write(out)
	return err
}
