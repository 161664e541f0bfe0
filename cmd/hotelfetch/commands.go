package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/hotelfetch/fetch"
	"github.com/jonwraymond/hotelfetch/health"
	"github.com/jonwraymond/hotelfetch/hotels"
)

func newSearchCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search destinations and hotels",
	}

	destination := &cobra.Command{
		Use:   "destination <query>",
		Short: "Resolve a place name to provider destination ids",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, func(ctx context.Context, a *app) error {
				res, err := a.search.SearchDestination(ctx, strings.Join(args, " "))
				if err != nil {
					return err
				}
				return o.printResult(res)
			})
		},
	}

	var p hotels.SearchParams
	hotelsCmd := &cobra.Command{
		Use:   "hotels <dest-id>",
		Short: "List hotels in a destination",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, func(ctx context.Context, a *app) error {
				res, err := a.search.SearchHotels(ctx, args[0], p)
				if err != nil {
					return err
				}
				return o.printResult(res)
			})
		},
	}
	f := hotelsCmd.Flags()
	f.StringVar(&p.ArrivalDate, "arrival", "", "arrival date, YYYY-MM-DD")
	f.StringVar(&p.DepartureDate, "departure", "", "departure date, YYYY-MM-DD")
	f.IntVar(&p.Adults, "adults", 0, "number of adults")
	f.IntVar(&p.RoomQty, "rooms", 0, "number of rooms")
	f.IntVar(&p.PageNumber, "page", 0, "result page")
	f.StringVar(&p.CurrencyCode, "currency", "", "currency code")
	f.StringVar(&p.LanguageCode, "lang", "", "language code")

	cmd.AddCommand(destination, hotelsCmd)
	return cmd
}

// detailKinds maps the --kind flag onto DetailsService calls.
var detailKinds = []string{"details", "availability", "questions", "attractions", "reviews", "photos", "policies"}

func newDetailsCmd(o *rootOptions) *cobra.Command {
	var (
		kind  string
		lang  string
		stay  hotels.StayParams
		avail hotels.AvailabilityParams
	)

	cmd := &cobra.Command{
		Use:   "details <hotel-id>",
		Short: "Fetch hotel details, availability, reviews and more",
		Long:  "Fetch one facet of a hotel. --kind is one of: " + strings.Join(detailKinds, ", ") + ".",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			return o.run(cmd, func(ctx context.Context, a *app) error {
				var (
					res fetch.Result
					err error
				)
				switch kind {
				case "details":
					stay.LanguageCode = lang
					res, err = a.details.HotelDetails(ctx, id, stay)
				case "availability":
					res, err = a.details.Availability(ctx, id, avail)
				case "questions":
					res, err = a.details.QuestionsAndAnswers(ctx, id, lang)
				case "attractions":
					res, err = a.details.Attractions(ctx, id, lang)
				case "reviews":
					res, err = a.details.ReviewScores(ctx, id, lang)
				case "photos":
					res, err = a.details.Photos(ctx, id)
				case "policies":
					res, err = a.details.Policies(ctx, id, lang)
				default:
					return fmt.Errorf("unknown kind %q, want one of %s", kind, strings.Join(detailKinds, ", "))
				}
				if err != nil {
					return err
				}
				return o.printResult(res)
			})
		},
	}
	f := cmd.Flags()
	f.StringVarP(&kind, "kind", "k", "details", "facet to fetch")
	f.StringVar(&lang, "lang", "", "language code")
	f.StringVar(&stay.ArrivalDate, "arrival", "", "arrival date, YYYY-MM-DD")
	f.StringVar(&stay.DepartureDate, "departure", "", "departure date, YYYY-MM-DD")
	f.IntVar(&stay.Adults, "adults", 0, "number of adults")
	f.StringVar(&stay.CurrencyCode, "currency", "", "currency code")
	f.StringVar(&avail.MinDate, "min-date", "", "availability window start")
	f.StringVar(&avail.MaxDate, "max-date", "", "availability window end")
	return cmd
}

func newListingsCmd(o *rootOptions) *cobra.Command {
	var summary bool

	cmd := &cobra.Command{
		Use:       "listings <unique|weekend>",
		Short:     "Fetch curated listings, falling back to sample hotels",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"unique", "weekend"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, func(ctx context.Context, a *app) error {
				var (
					res fetch.Result
					err error
				)
				if args[0] == "weekend" {
					res, err = a.listings.WeekendDeals(ctx)
				} else {
					res, err = a.listings.UniqueProperties(ctx)
				}
				if err != nil {
					return err
				}
				if !summary {
					return o.printResult(res)
				}

				listings, err := hotels.DecodeListings(res)
				if err != nil {
					return err
				}
				fmt.Fprintf(o.out, "%d hotels (%s)\n", len(listings), res.Provenance)
				for _, l := range listings {
					price := l.Property.PriceBreakdown.GrossPrice
					fmt.Fprintf(o.out, "%d\t%s\t%.2f %s\n", l.HotelID, l.Property.Name, price.Value, price.Currency)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&summary, "summary", "s", false, "print one line per hotel instead of raw JSON")
	return cmd
}

type healthView struct {
	Status string                 `json:"status"`
	Checks map[string]checkResult `json:"checks"`
}

type checkResult struct {
	Status   string         `json:"status"`
	Message  string         `json:"message,omitempty"`
	Error    string         `json:"error,omitempty"`
	Duration string         `json:"duration"`
	Details  map[string]any `json:"details,omitempty"`
}

// errUnhealthy makes the health command exit non-zero.
var errUnhealthy = errors.New("hotelfetch: unhealthy")

func newHealthCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the cache store and provider guards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.run(cmd, func(ctx context.Context, a *app) error {
				report := a.health.CheckAll(ctx)
				v := healthView{Status: report.Status.String(), Checks: map[string]checkResult{}}
				for name, r := range report.Results {
					c := checkResult{
						Status:   r.Status.String(),
						Message:  r.Message,
						Duration: r.Duration.String(),
						Details:  r.Details,
					}
					if r.Error != nil {
						c.Error = r.Error.Error()
					}
					v.Checks[name] = c
				}
				if err := o.printJSON(v); err != nil {
					return err
				}
				if report.Status == health.StatusUnhealthy {
					return errUnhealthy
				}
				return nil
			})
		},
	}
}
