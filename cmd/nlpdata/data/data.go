package data

import (
	"context"
	"log"
	"os"
	"os/signal"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"kubegems.io/nlpdata/pkg/downloader"
	"kubegems.io/nlpdata/pkg/resource"
	"kubegems.io/nlpdata/pkg/version"
)

// newDownloader is replaced in tests.
var newDownloader = func(options *downloader.Options, cmd *cobra.Command) *downloader.Downloader {
	d := downloader.New(options)
	d.Out, d.Err = cmd.OutOrStdout(), cmd.ErrOrStderr()
	return d
}

func NewDataCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nlpdata",
		Short: "download the NLTK and spaCy data used by the resume matcher",
		Long: `nlpdata runs the NLTK and spaCy downloaders with a fixed list of resources:
the punkt tokenizer, the stopwords list, the averaged perceptron tagger,
the wordnet lemmatizer and the en_core_web_sm spaCy pipeline.`,
		Version: version.Get().String(),
	}
	cmd.AddCommand(NewSetupCmd())
	cmd.AddCommand(NewStatusCmd())
	cmd.AddCommand(NewPlanCmd())
	cmd.AddCommand(NewProfilesCmd())
	cmd.AddCommand(NewBundleCmd())
	cmd.AddCommand(NewUnbundleCmd())
	return cmd
}

func BaseContext() (context.Context, context.CancelFunc) {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
	if os.Getenv("DEBUG") == "1" {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
		stdr.SetVerbosity(1)
		ctx = logr.NewContext(ctx, stdr.NewWithOptions(log.Default(), stdr.Options{LogCaller: stdr.Error}))
	}
	return ctx, cancel
}

func addDownloaderFlags(flags *pflag.FlagSet, options *downloader.Options) {
	flags.StringVar(&options.Python, "python", options.Python, "python interpreter running the downloaders, env "+downloader.EnvPython)
	flags.StringVar(&options.NLTKDir, "nltk-data", options.NLTKDir, "NLTK download directory, env "+downloader.EnvNLTKDir)
	flags.BoolVarP(&options.Quiet, "quiet", "q", options.Quiet, "pass -q to the NLTK downloader")
	flags.BoolVar(&options.SkipInstalled, "skip-installed", options.SkipInstalled, "do not download resources that are already installed")
	flags.IntVar(&options.Retries, "retries", options.Retries, "retry a failed download this many times, env "+downloader.EnvRetries)
	flags.DurationVar(&options.RetryInterval, "retry-interval", options.RetryInterval, "initial wait between retries")
}

func profileArg(args []string) (resource.Profile, error) {
	name := resource.DefaultProfile
	if len(args) > 0 {
		name = args[0]
	}
	return resource.GetProfile(name)
}

func completeProfiles(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) != 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return resource.ProfileNames(), cobra.ShellCompDirectiveNoFileComp
}
