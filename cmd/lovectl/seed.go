package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/FawkesguyD/Love/client"
)

func init() {
	var count int
	var start string
	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Create sample cards for local development",
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := time.Parse(time.RFC3339, start)
			if err != nil {
				return fmt.Errorf("invalid --start: %w", err)
			}
			c := client.New(apiFlag)
			for i := 0; i < count; i++ {
				card, err := c.CreateCard(context.Background(), client.CreateCardRequest{
					Title: fmt.Sprintf("Sample moment %d", i+1),
					Text:  "Seeded for local development.",
					Date:  base.Add(time.Duration(i) * 24 * time.Hour).Format(time.RFC3339),
					Tags:  []string{"seed"},
				})
				if err != nil {
					return fmt.Errorf("seeding stopped at card %d: %w", i+1, err)
				}
				_, _ = fmt.Fprintln(os.Stdout, card.ID)
			}
			return nil
		},
	}
	seedCmd.Flags().IntVarP(&count, "count", "n", 20, "Number of cards to create")
	seedCmd.Flags().StringVar(&start, "start", "2026-01-01T12:00:00Z", "Date of the first card, RFC 3339")
	rootCmd.AddCommand(seedCmd)
}
