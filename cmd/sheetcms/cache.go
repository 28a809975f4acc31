package main

import (
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newCacheCmd(s *settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the post cache",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Describe the cached entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := s.config
			log := initLog(cfg.Log)

			c, err := initCache(cfg, log)
			if err != nil {
				return err
			}
			defer c.Close()

			out := cmd.OutOrStdout()

			e, ok := c.Peek()
			if !ok {
				fmt.Fprintln(out, "cache is empty")
				return nil
			}

			state := "stale"
			if c.Fresh(e) {
				state = "fresh"
			}

			fmt.Fprintf(out, "%d posts fetched at %s (%s, ttl %s)\n", len(e.Posts), e.FetchedAt().Format("2006-01-02 15:04:05"), state, c.TTL())

			table := tablewriter.NewWriter(out)
			table.SetHeader([]string{"ID", "Date", "Tag", "Title"})
			for _, p := range e.Posts {
				table.Append([]string{p.ID, p.Date, p.Tag, p.Title})
			}
			table.Render()

			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove the cached entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := s.config
			log := initLog(cfg.Log)

			c, err := initCache(cfg, log)
			if err != nil {
				return err
			}
			defer c.Close()

			c.Clear()
			fmt.Fprintln(cmd.OutOrStdout(), "cache cleared")

			return nil
		},
	})

	return cmd
}
