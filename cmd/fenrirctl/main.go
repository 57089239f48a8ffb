// Command fenrirctl is an in-process operator CLI over the matching
// engine: each invocation starts a fresh MatchingEngine bound to the
// default contract registry, runs one operation, and prints the result.
// It is a demonstration/operator tool, not a network client — spec.md §1
// places transport out of scope, so there is no daemon for it to talk to.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"fenrir/contracts"
	"fenrir/domain"
	"fenrir/engine"
	"fenrir/metrics"
	"fenrir/pricing"

	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if err := newRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("fenrirctl failed")
		os.Exit(1)
	}
}

// newRootCmd assembles the subcommands. Each subcommand builds its own fresh
// engine (see newEngine) for the lifetime of a single invocation, scoped to
// the default registry's one contract.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "fenrirctl",
		Short: "Operate a standalone fenrir matching engine",
	}

	root.AddCommand(
		newSubmitCmd(),
		newCancelCmd(),
		newGetOrderCmd(),
		newGetOrdersCmd(),
		newGetTradesCmd(),
	)

	return root
}

func newEngine() (*engine.MatchingEngine, error) {
	registry := contracts.DefaultRegistry()
	e := engine.New(registry).WithRecorder(metrics.New(prometheus.NewRegistry()))
	if err := e.Start(registry.Codes()); err != nil {
		return nil, err
	}
	return e, nil
}

func newSubmitCmd() *cobra.Command {
	var (
		contractID string
		traderID   string
		side       string
		orderType  string
		priceStr   string
		qtyStr     string
	)

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit an order and print the resulting trades",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEngine()
			if err != nil {
				return err
			}
			defer e.Stop()

			req, err := parseSubmitRequest(contractID, traderID, side, orderType, priceStr, qtyStr)
			if err != nil {
				return err
			}

			orderID, trades, submitErr := e.Submit(req)
			if submitErr != nil {
				return fmt.Errorf("%s: %s", submitErr.Kind, submitErr.Message)
			}

			fmt.Printf("order_id: %s\n", orderID)
			fmt.Printf("trades: %d\n", len(trades))
			for _, t := range trades {
				fmt.Printf("  trade %s price=%s qty=%s buy=%s sell=%s\n",
					t.Id, t.Price, t.Quantity, t.BuyOrderId, t.SellOrderId)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&contractID, "contract", "UK-BL-MAR-25", "contract code")
	cmd.Flags().StringVar(&traderID, "trader", "", "trader id (uuid); a fresh one is generated if empty")
	cmd.Flags().StringVar(&side, "side", "buy", "buy|sell")
	cmd.Flags().StringVar(&orderType, "type", "limit", "limit|market")
	cmd.Flags().StringVar(&priceStr, "price", "", "limit price (required for limit orders)")
	cmd.Flags().StringVar(&qtyStr, "qty", "", "quantity (required)")
	return cmd
}

func parseSubmitRequest(contractID, traderID, side, orderType, priceStr, qtyStr string) (engine.SubmitRequest, error) {
	req := engine.SubmitRequest{ContractId: domain.ContractCode(contractID)}

	if traderID == "" {
		req.TraderId = domain.NewTraderId()
	} else {
		tid, err := domain.ParseTraderId(traderID)
		if err != nil {
			return req, fmt.Errorf("invalid --trader: %w", err)
		}
		req.TraderId = tid
	}

	switch side {
	case "buy":
		req.Side = domain.Buy
	case "sell":
		req.Side = domain.Sell
	default:
		return req, fmt.Errorf("invalid --side %q (use buy|sell)", side)
	}

	switch orderType {
	case "limit":
		req.Type = domain.LimitOrder
		if priceStr == "" {
			return req, fmt.Errorf("--price is required for limit orders")
		}
		price, err := pricing.NewPriceFromString(priceStr)
		if err != nil {
			return req, fmt.Errorf("invalid --price: %w", err)
		}
		req.Price = price
		req.HasPrice = true
	case "market":
		req.Type = domain.MarketOrder
		if priceStr != "" {
			return req, fmt.Errorf("--price must not be set for market orders")
		}
	default:
		return req, fmt.Errorf("invalid --type %q (use limit|market)", orderType)
	}

	if qtyStr == "" {
		return req, fmt.Errorf("--qty is required")
	}
	qty, err := pricing.NewQuantityFromString(qtyStr)
	if err != nil {
		return req, fmt.Errorf("invalid --qty: %w", err)
	}
	req.Quantity = qty

	return req, nil
}

func newCancelCmd() *cobra.Command {
	var contractID, orderID string

	cmd := &cobra.Command{
		Use:   "cancel",
		Short: "Cancel a resting order",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEngine()
			if err != nil {
				return err
			}
			defer e.Stop()

			id, err := domain.ParseOrderId(orderID)
			if err != nil {
				return fmt.Errorf("invalid --order: %w", err)
			}

			order, cancelErr := e.Cancel(domain.ContractCode(contractID), id)
			if cancelErr != nil {
				return fmt.Errorf("%s: %s", cancelErr.Kind, cancelErr.Message)
			}
			fmt.Printf("cancelled order %s status=%s\n", order.Id, order.Status)
			return nil
		},
	}

	cmd.Flags().StringVar(&contractID, "contract", "UK-BL-MAR-25", "contract code")
	cmd.Flags().StringVar(&orderID, "order", "", "order id (uuid)")
	return cmd
}

func newGetOrderCmd() *cobra.Command {
	var contractID, orderID string

	cmd := &cobra.Command{
		Use:   "get-order",
		Short: "Print a snapshot of one order",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEngine()
			if err != nil {
				return err
			}
			defer e.Stop()

			id, err := domain.ParseOrderId(orderID)
			if err != nil {
				return fmt.Errorf("invalid --order: %w", err)
			}

			order, getErr := e.GetOrder(domain.ContractCode(contractID), id)
			if getErr != nil {
				return fmt.Errorf("%s: %s", getErr.Kind, getErr.Message)
			}
			printOrder(order)
			return nil
		},
	}

	cmd.Flags().StringVar(&contractID, "contract", "UK-BL-MAR-25", "contract code")
	cmd.Flags().StringVar(&orderID, "order", "", "order id (uuid)")
	return cmd
}

func newGetOrdersCmd() *cobra.Command {
	var (
		contractID  string
		sideFilter  string
		page, limit int
	)

	cmd := &cobra.Command{
		Use:   "get-orders",
		Short: "List orders for a contract",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEngine()
			if err != nil {
				return err
			}
			defer e.Stop()

			var filter engine.OrderFilter
			if sideFilter != "" {
				switch sideFilter {
				case "buy":
					side := domain.Buy
					filter.Side = &side
				case "sell":
					side := domain.Sell
					filter.Side = &side
				default:
					return fmt.Errorf("invalid --side %q (use buy|sell)", sideFilter)
				}
			}

			orders, getErr := e.GetOrders(domain.ContractCode(contractID), filter, engine.Page{Page: page, Limit: limit})
			if getErr != nil {
				return fmt.Errorf("%s: %s", getErr.Kind, getErr.Message)
			}
			for _, o := range orders {
				printOrder(o)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&contractID, "contract", "UK-BL-MAR-25", "contract code")
	cmd.Flags().StringVar(&sideFilter, "side", "", "buy|sell (unset = both)")
	cmd.Flags().IntVar(&page, "page", 1, "page number, 1-indexed")
	cmd.Flags().IntVar(&limit, "limit", 50, "page size")
	return cmd
}

func newGetTradesCmd() *cobra.Command {
	var contractID, orderID string

	cmd := &cobra.Command{
		Use:   "get-trades",
		Short: "List the trades an order participated in",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEngine()
			if err != nil {
				return err
			}
			defer e.Stop()

			id, err := domain.ParseOrderId(orderID)
			if err != nil {
				return fmt.Errorf("invalid --order: %w", err)
			}

			trades, getErr := e.GetTradesForOrder(domain.ContractCode(contractID), id)
			if getErr != nil {
				return fmt.Errorf("%s: %s", getErr.Kind, getErr.Message)
			}
			for _, t := range trades {
				fmt.Printf("trade %s price=%s qty=%s buy=%s sell=%s generated_at=%s\n",
					t.Id, t.Price, t.Quantity, t.BuyOrderId, t.SellOrderId, t.GeneratedAt.Format("2006-01-02T15:04:05.000Z07:00"))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&contractID, "contract", "UK-BL-MAR-25", "contract code")
	cmd.Flags().StringVar(&orderID, "order", "", "order id (uuid)")
	return cmd
}

func printOrder(o domain.Order) {
	fmt.Printf("order %s contract=%s side=%s type=%s status=%s price=%s qty=%s remaining=%s cancel_reason=%q\n",
		o.Id, o.ContractId, o.Side, o.Type, o.Status, priceOrDash(o), o.Quantity, o.RemainingQuantity, o.CancelReason)
}

func priceOrDash(o domain.Order) string {
	if !o.HasPrice {
		return "-"
	}
	return o.Price.String()
}
