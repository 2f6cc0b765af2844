package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/FawkesguyD/Love/client"
	"github.com/FawkesguyD/Love/internal/model"
)

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(os.Stdout, string(data))
	return nil
}

func init() {
	cardsCmd := &cobra.Command{Use: "cards", Short: "Card operations"}

	// create
	var title, text, date, visibility string
	var images, tags []string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a card",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := client.New(apiFlag)
			card, err := c.CreateCard(context.Background(), client.CreateCardRequest{
				Title:      title,
				Text:       text,
				Date:       date,
				Images:     images,
				Visibility: visibility,
				Tags:       tags,
			})
			if err != nil {
				return err
			}
			return printJSON(card)
		},
	}
	createCmd.Flags().StringVarP(&title, "title", "t", "", "Card title (required)")
	createCmd.Flags().StringVar(&text, "text", "", "Card body text")
	createCmd.Flags().StringVarP(&date, "date", "d", "", "Moment date, RFC 3339 (required)")
	createCmd.Flags().StringSliceVarP(&images, "image", "i", nil, "Image name, repeatable")
	createCmd.Flags().StringVar(&visibility, "visibility", "", "draft or public (defaults public)")
	createCmd.Flags().StringSliceVar(&tags, "tag", nil, "Tag, repeatable")
	_ = createCmd.MarkFlagRequired("title")
	_ = createCmd.MarkFlagRequired("date")
	cardsCmd.AddCommand(createCmd)

	// list
	var limit int
	var order, cursor, from, to, visFilter string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List one page of cards",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := client.New(apiFlag)
			page, err := c.ListCards(context.Background(), client.ListOptions{
				Limit:      limit,
				Order:      model.Order(order),
				Cursor:     cursor,
				From:       from,
				To:         to,
				Visibility: visFilter,
			})
			if err != nil {
				return err
			}
			return printJSON(page)
		},
	}
	listCmd.Flags().IntVarP(&limit, "limit", "l", 0, "Page size (server default when omitted)")
	listCmd.Flags().StringVarP(&order, "order", "o", "", "asc or desc")
	listCmd.Flags().StringVarP(&cursor, "cursor", "c", "", "Opaque page cursor")
	listCmd.Flags().StringVar(&from, "from", "", "Lower date bound")
	listCmd.Flags().StringVar(&to, "to", "", "Upper date bound")
	listCmd.Flags().StringVar(&visFilter, "visibility", "", "Filter by visibility")
	cardsCmd.AddCommand(listCmd)

	// get
	getCmd := &cobra.Command{
		Use:   "get CARD_ID",
		Short: "Get a card by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := client.New(apiFlag)
			card, err := c.GetCard(context.Background(), args[0])
			if err != nil {
				return err
			}
			return printJSON(card)
		},
	}
	cardsCmd.AddCommand(getCmd)

	// delete
	deleteCmd := &cobra.Command{
		Use:   "delete CARD_ID",
		Short: "Delete a card by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := client.New(apiFlag)
			if err := c.DeleteCard(context.Background(), args[0]); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, "deleted")
			return nil
		},
	}
	cardsCmd.AddCommand(deleteCmd)

	rootCmd.AddCommand(cardsCmd)
}
