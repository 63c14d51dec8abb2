package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"apex-tracker/internal/core/config"
	"apex-tracker/internal/core/kv"
	"apex-tracker/internal/core/logger"
	accountadapter "apex-tracker/internal/features/accounts/adapters"
	accountservice "apex-tracker/internal/features/accounts/service"
	orderadapter "apex-tracker/internal/features/orders/adapters"
	orderservice "apex-tracker/internal/features/orders/service"
	trackingadapter "apex-tracker/internal/features/tracking/adapters"
	"apex-tracker/internal/features/tracking/domain"
	trackingservice "apex-tracker/internal/features/tracking/service"

	"github.com/spf13/cobra"
)

var configDir string

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCommand()
	err := rootCmd.ExecuteContext(ctx)
	logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "apexctl: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apexctl",
		Short: "APEX tracker operations CLI",
		Long: `apexctl seeds and inspects the APEX order store and prints tracking views,
either built from the configured store or fetched from a running API.`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVarP(&configDir, "config-dir", "c", ".", "Directory containing the .env file")
	cmd.AddCommand(
		newSeedCmd(),
		newOrdersCmd(),
		newTrackCmd(),
	)
	return cmd
}

// app bundles the services a local command needs.
type app struct {
	store    kv.Store
	orders   *orderservice.OrderService
	accounts *accountservice.AccountService
	tracking *trackingservice.TrackingService
}

func openApp() (*app, error) {
	cfg, err := config.Load(configDir)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	store, err := kv.Open(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	orders := orderservice.NewOrderService(
		orderadapter.NewKVOrderRepository(store),
		orderservice.WithSeedCount(cfg.Tracking.SeedOrderCount),
	)

	return &app{
		store:    store,
		orders:   orders,
		accounts: accountservice.NewAccountService(accountadapter.NewKVAccountRepository(store), cfg.Admin, cfg.Auth),
		tracking: trackingservice.NewTrackingService(orders),
	}, nil
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Write default users, admin credentials and sample orders if absent",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.store.Close()

			ctx := cmd.Context()
			if err := a.store.Ping(ctx); err != nil {
				return fmt.Errorf("storage unreachable: %w", err)
			}

			if err := a.accounts.SeedIfEmpty(ctx); err != nil {
				return err
			}

			orders := a.orders.ListOrders(ctx)
			users := a.accounts.ListUsers(ctx)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "users:  %d\n", len(users))
			fmt.Fprintf(out, "orders: %d\n", len(orders))
			for _, o := range orders {
				fmt.Fprintf(out, "  %s  %s\n", o.TrackingID, o.Status)
			}
			return nil
		},
	}
}

func newOrdersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "orders",
		Short: "List stored orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.store.Close()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TRACKING ID\tSTATUS\tCUSTOMER\tORIGIN\tDESTINATION\tCREATED")
			for _, o := range a.orders.ListOrders(cmd.Context()) {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					o.TrackingID, o.Status, o.CustomerName, o.Origin, o.Destination,
					o.CreatedAt.Format(time.DateTime),
				)
			}
			return w.Flush()
		},
	}
}

func newTrackCmd() *cobra.Command {
	var apiURL string
	var timeout time.Duration
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "track <tracking-id>",
		Short: "Print the tracking view of a shipment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var (
				vm  *domain.TrackingViewModel
				err error
			)
			if apiURL != "" {
				vm, err = trackingadapter.NewAPIClient(apiURL, timeout).Track(ctx, args[0])
			} else {
				var a *app
				a, err = openApp()
				if err != nil {
					return err
				}
				defer a.store.Close()
				vm, err = a.tracking.Track(ctx, args[0])
			}

			if errors.Is(err, trackingservice.ErrTrackingNotFound) {
				return fmt.Errorf("no shipment found for tracking id %q", args[0])
			}
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(vm)
			}
			printView(cmd.OutOrStdout(), vm)
			return nil
		},
	}
	cmd.Flags().StringVar(&apiURL, "api", "", "Fetch from a running API (e.g. http://localhost:8080) instead of the store")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "HTTP timeout when using --api")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw view model as JSON")
	return cmd
}

func printView(out io.Writer, vm *domain.TrackingViewModel) {
	fmt.Fprintf(out, "%s  %s (since %s)\n", vm.TrackingID, vm.Status.Label, vm.Status.Date)
	fmt.Fprintf(out, "%s -> %s\n", vm.Origin, vm.Destination)
	fmt.Fprintf(out, "Estimated delivery: %s\n", vm.EstimatedDelivery)
	if vm.OnHold && vm.OnHoldReason != "" {
		fmt.Fprintf(out, "On hold: %s\n", vm.OnHoldReason)
	}
	fmt.Fprintf(out, "Progress: %d%%\n\n", vm.Progress)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, e := range vm.Events {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Date, e.Time, e.Location, e.Description)
	}
	w.Flush()
}
