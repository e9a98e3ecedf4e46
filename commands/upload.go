package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zeu5/pusht-hirl/hub"
)

func UploadCommand() *cobra.Command {
	var artifact string
	var repoID string
	var private bool

	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Push a saved artifact to the dataset hub",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if repoID == "" {
				repoID = cfg.Upload.RepoID
			}
			log := newLogger(cfg.LogLevel)
			client, err := hub.NewClient(cfg.Upload.Endpoint, log)
			if err != nil {
				return err
			}
			url, err := client.Push(artifact, repoID, private || cfg.Upload.Private)
			if err != nil {
				return err
			}
			fmt.Println(url)
			return nil
		},
	}
	cmd.PersistentFlags().StringVarP(&artifact, "artifact", "a", "", "Path to the saved trajectory artifact")
	cmd.PersistentFlags().StringVar(&repoID, "repo", "", "Dataset repository id, e.g. user/pusht-demos")
	cmd.PersistentFlags().BoolVar(&private, "private", false, "Create the dataset repo as private")
	cmd.MarkPersistentFlagRequired("artifact")
	return cmd
}
