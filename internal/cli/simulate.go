package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"homeclean/internal/app"
	"homeclean/internal/domain"
	"homeclean/internal/modules/tracking"
)

type SimulateTripOptions struct {
	*RootOptions
	FromLat  float64
	FromLng  float64
	Steps    int
	Interval time.Duration
}

// NewSimulateTripCommand creates the simulate-trip command.
func NewSimulateTripCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SimulateTripOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "simulate-trip <booking-id>",
		Short: "Drive a confirmed booking to arrived along a straight route",
		Long:  `Report cleaner positions for a confirmed booking, moving in equal steps from
the start point to the house. Customers watching the booking see the updates
live.

Examples:
  cleanctl simulate-trip bk_123 --from-lat 32.80 --from-lng -96.70 --steps 5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withEnv(cmd, func(ctx context.Context, env *Env) error {
				return runSimulateTrip(ctx, opts, env, cmd, args[0])
			})
		},
	}
	cmd.Flags().Float64Var(&opts.FromLat, "from-lat", 0, "start latitude (required)")
	cmd.Flags().Float64Var(&opts.FromLng, "from-lng", 0, "start longitude (required)")
	cmd.Flags().IntVar(&opts.Steps, "steps", 10, "number of position reports")
	cmd.Flags().DurationVar(&opts.Interval, "interval", tracking.DefaultReportInterval, "time between reports")
	_ = cmd.MarkFlagRequired("from-lat")
	_ = cmd.MarkFlagRequired("from-lng")
	return cmd
}

func runSimulateTrip(ctx context.Context, opts *SimulateTripOptions, env *Env, cmd *cobra.Command, bookingID string) error {
	a, err := app.New(ctx, env.Config, env.Log, env.Store)
	if err != nil {
		return err
	}
	defer a.Close()

	b, err := a.Tracking.GetBookingWithTracking(ctx, bookingID)
	if err != nil {
		return err
	}
	if b == nil {
		return tracking.ErrBookingNotFound
	}
	house, err := a.Repos.Houses.GetByID(ctx, b.HouseID)
	if err != nil {
		return err
	}
	if house == nil || house.Address.Location() == nil {
		return tracking.ErrNoDestination
	}
	dest := house.Address.Location()

	reporter := tracking.NewReporter(a.Tracking, a.Repos.Houses, opts.Interval, env.Log.Named("simulate"))
	source := &tracking.RouteSource{
		From:  domain.GeoPoint{Lat: opts.FromLat, Lng: opts.FromLng},
		To:    *dest,
		Steps: opts.Steps,
	}
	opts.logf(cmd, "simulating %d steps for booking %s", opts.Steps, bookingID)
	if err := reporter.Run(ctx, bookingID, source); err != nil {
		return fmt.Errorf("simulate trip: %w", err)
	}

	final, err := a.Tracking.GetBookingWithTracking(ctx, bookingID)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "booking %s is %s\n", bookingID, final.Status)
	return nil
}
