package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/FawkesguyD/Love/client"
	"github.com/FawkesguyD/Love/timeline"
)

func init() {
	var maxMoments int
	timelineCmd := &cobra.Command{
		Use:   "timeline",
		Short: "Fetch the full timeline the way the UI does",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := []client.Option{}
			if maxMoments > 0 {
				opts = append(opts, client.WithMaxMoments(maxMoments))
			}
			c := client.New(apiFlag, opts...)
			cards, err := c.FetchTimeline(context.Background())
			if err != nil {
				return err
			}
			moments := timeline.Prepare(cards)
			for _, m := range moments {
				_, _ = fmt.Fprintf(os.Stdout, "%s  %s  %s\n", m.DateISO, m.ID, m.Title)
			}
			_, _ = fmt.Fprintf(os.Stdout, "%d moments\n", len(moments))
			return nil
		},
	}
	timelineCmd.Flags().IntVarP(&maxMoments, "max", "m", 0, "Cap on collected moments (server default when omitted)")
	rootCmd.AddCommand(timelineCmd)
}
