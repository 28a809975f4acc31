package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/swezzy/sheetcms"
)

func newFetchCmd(s *settings) *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Print the current posts as JSON",
		Long:  "Print the current posts as JSON, loading them from the cache when it is fresh and from the sheet otherwise.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := s.config
			log := initLog(cfg.Log)

			c, err := initCache(cfg, log)
			if err != nil {
				return err
			}
			defer c.Close()

			pipeline := initPipeline(cfg, c, log)

			var res sheetcms.Result
			if refresh {
				res = pipeline.Refresh(context.Background())
			} else {
				res = pipeline.Posts(context.Background())
			}

			b, err := json.MarshalIndent(res.Posts, "", "  ")
			if err != nil {
				return errors.Wrap(err, "encoding posts")
			}

			fmt.Fprintln(cmd.OutOrStdout(), string(b))

			if res.Err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "%d posts from %s: %v\n", len(res.Posts), res.Origin, res.Err)
			} else {
				fmt.Fprintf(cmd.ErrOrStderr(), "%d posts from %s\n", len(res.Posts), res.Origin)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore a fresh cache and download the sheet")

	return cmd
}
