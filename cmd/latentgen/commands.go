package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zoobzio/latent"
	"github.com/zoobzio/latent/internal/gen"
)

func newGoCmd(a *app) *cobra.Command {
	var (
		manifest string
		format   string
		output   string
		pkg      string
	)

	cmd := &cobra.Command{
		Use:   "go",
		Short: "Generate Go source declaring sealed cells",
		Example: `  latentgen go -m secrets.yaml -o secrets_gen.go
  LATENT_SEED=$CI_SEED latentgen go -m secrets.yaml --package config`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			m, entries, err := a.seal(manifest, format)
			if err != nil {
				return err
			}
			if pkg == "" {
				pkg = m.Package
			}
			src, err := gen.GoSource(pkg, entries)
			if err != nil {
				return err
			}
			return a.write(output, src, 0o644)
		},
	}

	cmd.Flags().StringVarP(&manifest, "manifest", "m", "", "manifest file (required)")
	cmd.Flags().StringVar(&format, "manifest-format", "", "manifest format: yaml or json (default from extension)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&pkg, "package", "p", "", "package name (default from manifest, else secrets)")
	_ = cmd.MarkFlagRequired("manifest")
	return cmd
}

func newBundleCmd(a *app) *cobra.Command {
	var (
		manifest       string
		manifestFormat string
		output         string
		format         string
	)

	cmd := &cobra.Command{
		Use:   "bundle",
		Short: "Write sealed secrets to a bundle file",
		Example: `  latentgen bundle -m secrets.yaml -o secrets.cbor
  latentgen bundle -m secrets.yaml -f yaml`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if format == "" {
				format = gen.FormatFromPath(output)
			}
			if format == "" {
				format = "json"
			}

			_, entries, err := a.seal(manifest, manifestFormat)
			if err != nil {
				return err
			}
			data, err := gen.Bundle(format, entries)
			if err != nil {
				return err
			}
			return a.write(output, data, 0o600)
		},
	}

	cmd.Flags().StringVarP(&manifest, "manifest", "m", "", "manifest file (required)")
	cmd.Flags().StringVar(&manifestFormat, "manifest-format", "", "manifest format: yaml or json (default from extension)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "", fmt.Sprintf("bundle format %v (default from extension, else json)", gen.Formats()))
	_ = cmd.MarkFlagRequired("manifest")
	return cmd
}

func newInspectCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "inspect <bundle>",
		Short: "Describe a bundle without decrypting it",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			path := args[0]
			if format == "" {
				format = gen.FormatFromPath(path)
			}
			c, err := gen.CodecFor(format)
			if err != nil {
				return err
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read bundle: %w", err)
			}
			b, err := latent.DecodeBundle(c, data)
			if err != nil {
				return err
			}
			return gen.Inspect(a.stdout, b)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "bundle format (default from extension)")
	return cmd
}
