package data

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"kubegems.io/nlpdata/pkg/downloader"
	"kubegems.io/nlpdata/pkg/errors"
	"kubegems.io/nlpdata/pkg/resource"
	"sigs.k8s.io/yaml"
)

const (
	OutputTable = "table"
	OutputYAML  = "yaml"
	OutputJSON  = "json"
)

func NewPlanCmd() *cobra.Command {
	options := downloader.DefaultOptions()
	output := OutputTable
	cmd := &cobra.Command{
		Use:   "plan [profile]",
		Short: "show the downloader commands setup would run",
		Example: `
  nlpdata plan
  nlpdata plan nltk -o yaml
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
			steps, err := newDownloader(options, cmd).Plan(ctx, profile)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch output {
			case OutputYAML:
				content, err := yaml.Marshal(planDocument{Profile: profile.Name, Steps: steps})
				if err != nil {
					return err
				}
				_, err = out.Write(content)
				return err
			case OutputJSON:
				content, err := json.MarshalIndent(planDocument{Profile: profile.Name, Steps: steps}, "", "  ")
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, string(content))
				return err
			case OutputTable:
				t := table.NewWriter()
				t.SetOutputMirror(out)
				t.AppendHeader(table.Row{"Step", "Message", "Command"})
				for i, step := range steps {
					cmds := make([]string, 0, len(step.Commands))
					for _, c := range step.Commands {
						cmds = append(cmds, c.String())
					}
					t.AppendRow(table.Row{i + 1, step.Message, strings.Join(cmds, "\n")})
				}
				t.Render()
				return nil
			default:
				return errors.NewParameterInvalidError(fmt.Sprintf("unknown output format %q", output))
			}
		},
	}
	addDownloaderFlags(cmd.Flags(), options)
	cmd.Flags().StringVarP(&output, "output", "o", output, "output format: table, yaml or json")
	return cmd
}

type planDocument struct {
	Profile string                   `json:"profile"`
	Steps   []downloader.PlannedStep `json:"steps"`
}

func NewProfilesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "list profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"Name", "Description", "Resources"})
			for _, p := range resource.Profiles() {
				names := []string{}
				for _, step := range p.Steps {
					names = append(names, step.Names()...)
				}
				name := p.Name
				if name == resource.DefaultProfile {
					name += " (default)"
				}
				t.AppendRow(table.Row{name, p.Description, strings.Join(names, ", ")})
			}
			t.Render()
			return nil
		},
	}
	return cmd
}
