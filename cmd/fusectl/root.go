package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"expediente/internal/platform/logger"
)

type rootOptions struct {
	logLevel string
	output   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "fusectl",
		Short:         "Fuse the xml, ocr and docx renditions of an expediente",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	cmd.PersistentFlags().StringVarP(&opts.output, "output", "o", "yaml", "output format: yaml or json")

	cmd.AddCommand(newFuseCmd(opts), newProfileCmd(opts))
	return cmd
}

func (o *rootOptions) logger(w io.Writer) *slog.Logger {
	return logger.NewWithWriter(w, "text", o.logLevel)
}

func (o *rootOptions) validateOutput() error {
	switch o.output {
	case "yaml", "json":
		return nil
	default:
		return fmt.Errorf("unknown output format %q: want yaml or json", o.output)
	}
}
