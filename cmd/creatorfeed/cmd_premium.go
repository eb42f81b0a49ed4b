package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/creatorfeed/internal/app"
	"github.com/heartmarshall/creatorfeed/internal/service/premium"
)

var (
	unlockPrice float64
	cardsYes    bool
)

var unlockCmd = &cobra.Command{
	Use:   "unlock <post-id>",
	Short: "Unlock a premium post with the default payment method",
	Long: `Unlock a premium post. The price must match the post's current price;
unlocking a post already purchased is a no-op.

Examples:
  creatorfeed unlock 2f1c... --price 4.99 --token $TOKEN`,
	Args: cobra.ExactArgs(1),
	RunE: runUnlock,
}

var cardsCmd = &cobra.Command{
	Use:   "cards",
	Short: "Manage demo payment methods",
}

var cardsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored payment methods",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withSession(cmd, func(ctx context.Context, a *app.App, _ *app.Session) error {
			methods, err := a.Premium.ListPaymentMethods(ctx)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCARD\tDEFAULT\tDEMO")
			for _, m := range methods {
				fmt.Fprintf(w, "%s\t%s •••• %s\t%s\t%s\n", m.ID, m.CardBrand, m.CardLastFour, mark(m.IsDefault), mark(m.IsDemo))
			}
			return w.Flush()
		})
	},
}

var cardsAddCmd = &cobra.Command{
	Use:   "add <card-number>",
	Short: "Store a demo card; only the last four digits are kept",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, a *app.App, _ *app.Session) error {
			m, err := a.Premium.AddDemoCard(ctx, premium.AddDemoCardInput{CardNumber: args[0]})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %s •••• %s (%s)\n", m.CardBrand, m.CardLastFour, m.ID)
			return nil
		})
	},
}

var cardsRemoveCmd = &cobra.Command{
	Use:   "remove <method-id>",
	Short: "Remove a stored payment method",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("payment_method", args[0])
		if err != nil {
			return err
		}
		return withSession(cmd, func(ctx context.Context, a *app.App, _ *app.Session) error {
			return a.Premium.RemovePaymentMethod(ctx, premium.RemovePaymentMethodInput{ID: id, Confirmed: cardsYes})
		})
	},
}

func init() {
	rootCmd.AddCommand(unlockCmd, cardsCmd)
	cardsCmd.AddCommand(cardsListCmd, cardsAddCmd, cardsRemoveCmd)

	unlockCmd.Flags().Float64Var(&unlockPrice, "price", 0, "Price shown to the viewer")
	cardsRemoveCmd.Flags().BoolVar(&cardsYes, "yes", false, "Confirm removal")
}

func runUnlock(cmd *cobra.Command, args []string) error {
	postID, err := parseID("post", args[0])
	if err != nil {
		return err
	}
	return withSession(cmd, func(ctx context.Context, a *app.App, _ *app.Session) error {
		res, err := a.Premium.Unlock(ctx, premium.UnlockInput{PostID: postID, Price: unlockPrice})
		if err != nil {
			return err
		}
		if res.AlreadyPurchased {
			fmt.Fprintln(cmd.OutOrStdout(), "already unlocked")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "unlocked for $%.2f (purchase %s)\n", res.Purchase.Amount, res.Purchase.ID)
		return nil
	})
}
