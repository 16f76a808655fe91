package data

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"kubegems.io/nlpdata/pkg/downloader"
	"kubegems.io/nlpdata/pkg/units"
)

func NewStatusCmd() *cobra.Command {
	options := downloader.DefaultOptions()
	cmd := &cobra.Command{
		Use:   "status [profile]",
		Short: "show which resources are installed",
		Example: `
  nlpdata status
  nlpdata status nltk --nltk-data ./nltk_data
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
			items, err := newDownloader(options, cmd).Status(ctx, profile)
			if err != nil {
				return err
			}
			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"Tool", "Resource", "Kind", "Installed", "Location", "Size"})
			for _, item := range items {
				size := ""
				if item.Installed {
					size = units.HumanSize(item.Size)
				}
				t.AppendRow(table.Row{item.Tool, item.Name, item.Kind, item.Installed, item.Location, size})
			}
			t.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&options.Python, "python", options.Python, "python interpreter used to probe spaCy models, env "+downloader.EnvPython)
	cmd.Flags().StringVar(&options.NLTKDir, "nltk-data", options.NLTKDir, "NLTK data directory searched first, env "+downloader.EnvNLTKDir)
	return cmd
}
