package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zeu5/pusht-hirl/data"
)

func StatsCommand() *cobra.Command {
	var artifact string
	var plotDir string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize a saved artifact, optionally with plots",
		RunE: func(cmd *cobra.Command, args []string) error {
			episodes, err := data.Load(artifact)
			if err != nil {
				return err
			}
			stats := data.ComputeStatistics(episodes)
			fmt.Println(stats.String())
			if plotDir != "" {
				return data.PlotSession(episodes, plotDir)
			}
			return nil
		},
	}
	cmd.PersistentFlags().StringVarP(&artifact, "artifact", "a", "", "Path to the saved trajectory artifact")
	cmd.PersistentFlags().StringVar(&plotDir, "plots", "", "Directory to render session plots into")
	cmd.MarkPersistentFlagRequired("artifact")
	return cmd
}
