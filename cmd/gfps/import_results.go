package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/gfps/internal/models"
	"github.com/yourusername/gfps/internal/strength"
)

type importFile struct {
	Results   []strength.MatchResult `json:"results"`
	TeamStats []models.TeamStats     `json:"team_stats"`
}

func newImportResultsCmd(a *app) *cobra.Command {
	var (
		input        string
		createSchema bool
	)

	cmd := &cobra.Command{
		Use:     "import",
		Short:   "Load match results and team stats into the database",
		Example: `  gfps import --file season.json --create-schema`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			data, err := os.ReadFile(input)
			if err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}
			var f importFile
			if err := json.Unmarshal(data, &f); err != nil {
				return fmt.Errorf("failed to parse input: %w", err)
			}

			db, repos, err := a.repositories(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			if createSchema {
				if err := db.EnsureSchema(ctx); err != nil {
					return err
				}
			}

			if err := repos.MatchResults.InsertBatch(ctx, f.Results); err != nil {
				return err
			}
			for i := range f.TeamStats {
				if err := repos.TeamStats.Upsert(ctx, &f.TeamStats[i]); err != nil {
					return err
				}
			}

			a.log.WithFields(logrus.Fields{
				"results":    len(f.Results),
				"team_stats": len(f.TeamStats),
			}).Info("Import completed")
			return writeJSON(cmd, map[string]int{"results": len(f.Results), "team_stats": len(f.TeamStats)})
		},
	}

	cmd.Flags().StringVarP(&input, "file", "f", "", "JSON file with results and team_stats arrays")
	cmd.Flags().BoolVar(&createSchema, "create-schema", false, "Create missing tables first")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
