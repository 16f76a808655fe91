package data

import (
	"fmt"

	"github.com/opencontainers/go-digest"
	"github.com/spf13/cobra"
	"kubegems.io/nlpdata/pkg/bundle"
)

func NewBundleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bundle <dir> <file>",
		Short: "pack an NLTK data directory into a tar.gz file",
		Example: `
  nlpdata bundle ./nltk_data nltk_data.tar.gz
		`,
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := BaseContext()
			defer cancel()
			dgst, err := bundle.Pack(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", dgst, args[1])
			return nil
		},
	}
	return cmd
}

func NewUnbundleCmd() *cobra.Command {
	expected := ""
	cmd := &cobra.Command{
		Use:   "unbundle <file> <dir>",
		Short: "extract a bundle created by nlpdata bundle",
		Example: `
  nlpdata unbundle nltk_data.tar.gz ./nltk_data --digest sha256:...
		`,
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := BaseContext()
			defer cancel()
			if err := bundle.Unpack(ctx, args[0], args[1], digest.Digest(expected)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "extracted %s into %s\n", args[0], args[1])
			return nil
		},
	}
	cmd.Flags().StringVar(&expected, "digest", expected, "expected archive digest")
	return cmd
}
