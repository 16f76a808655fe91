package data

import (
	"github.com/spf13/cobra"
	"kubegems.io/nlpdata/pkg/downloader"
)

func NewSetupCmd() *cobra.Command {
	options := downloader.DefaultOptions()
	cmd := &cobra.Command{
		Use:   "setup [profile]",
		Short: "download the resources of a profile",
		Example: `
  # NLTK tokenizer, stopwords, tagger and wordnet, then en_core_web_sm
  nlpdata setup

  # NLTK data only, into ./nltk_data
  nlpdata setup nltk --nltk-data ./nltk_data

  # print the downloader commands without running them
  nlpdata setup --dry-run
		`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeProfiles,
		SilenceUsage:      true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := BaseContext()
			defer cancel()
			profile, err := profileArg(args)
			if err != nil {
				return err
			}
			return newDownloader(options, cmd).Setup(ctx, profile)
		},
	}
	addDownloaderFlags(cmd.Flags(), options)
	cmd.Flags().BoolVar(&options.DryRun, "dry-run", options.DryRun, "print the commands instead of running them")
	return cmd
}
