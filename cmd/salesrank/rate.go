package main

import (
	"fmt"
	"strconv"

	"github.com/salesrank/salesrank"
	"github.com/spf13/cobra"
)

// rateCmd records a recommendation rating and prints the acknowledgement.
var rateCmd = &cobra.Command{
	Use:   "rate <rating>",
	Short: "Rate the product recommendations from 1 to 5",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rating, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("rating must be a number between 1 and 5, got %q", args[0])
		}
		if rating < 1 || rating > 5 {
			return fmt.Errorf("rating must be between 1 and 5, got %d", rating)
		}
		fmt.Fprintln(cmd.OutOrStdout(), salesrank.ProcessFeedback(rating))
		return nil
	},
}
