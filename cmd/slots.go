package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-ReservationService/internal/app"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/usecase/create_slots"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

func newSlotsCmd(load runtimeLoader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "slots",
		Short: "Slot maintenance commands",
	}
	cmd.AddCommand(newSlotsGenerateCmd(load))
	cmd.AddCommand(newSlotsHorizonCmd(load))
	return cmd
}

type generateFlags struct {
	businessID int64
	serviceID  int64
	interval   int
	capacity   int
	from       string
	days       int
	start      string
	end        string
}

func newSlotsGenerateCmd(load runtimeLoader) *cobra.Command {
	var f generateFlags

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate slots for a service over a date range",
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := f.toRequest()
			if err != nil {
				return err
			}

			cfg, log, err := load()
			if err != nil {
				return err
			}
			defer log.Close()

			a, err := app.New(cmd.Context(), cfg, nil, log)
			if err != nil {
				return err
			}
			defer a.Close()

			resp, err := a.CreateSlots.Execute(cmd.Context(), req)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "requested=%d created=%d skipped=%d failed=%d rejected=%d skipped_dates=%d\n",
				resp.Requested, resp.Created, resp.Skipped, resp.Failed, resp.Rejected, len(resp.SkippedDates))
			return nil
		},
	}

	cmd.Flags().Int64Var(&f.businessID, "business", 0, "business ID")
	cmd.Flags().Int64Var(&f.serviceID, "service", 0, "slot-based service ID")
	cmd.Flags().IntVar(&f.interval, "interval", 60, "slot length in minutes")
	cmd.Flags().IntVar(&f.capacity, "capacity", -1, "slot capacity, 0 - unlimited, -1 - default")
	cmd.Flags().StringVar(&f.from, "from", "", "first date YYYY-MM-DD, default today")
	cmd.Flags().IntVar(&f.days, "days", 7, "number of days")
	cmd.Flags().StringVar(&f.start, "start", "", "range start HH:MM, default whole operating day")
	cmd.Flags().StringVar(&f.end, "end", "", "range end HH:MM")
	_ = cmd.MarkFlagRequired("business")
	_ = cmd.MarkFlagRequired("service")

	return cmd
}

// toRequest собирает запрос use case из флагов
func (f generateFlags) toRequest() (*create_slots.Request, error) {
	from := time.Now().UTC()
	if f.from != "" {
		parsed, err := time.Parse(domain.DateFormat, f.from)
		if err != nil {
			return nil, fmt.Errorf("invalid --from %q: %w", f.from, err)
		}
		from = parsed
	}

	if f.days <= 0 {
		return nil, fmt.Errorf("--days must be positive, got %d", f.days)
	}

	var ranges []domain.TimeRange
	if f.start != "" || f.end != "" {
		start, err := types.NewTimeStringFromString(f.start)
		if err != nil {
			return nil, fmt.Errorf("invalid --start: %w", err)
		}
		end, err := types.NewTimeStringFromString(f.end)
		if err != nil {
			return nil, fmt.Errorf("invalid --end: %w", err)
		}
		ranges = []domain.TimeRange{{Start: start, End: end}}
	}

	req := &create_slots.Request{
		BusinessID:      f.businessID,
		ServiceID:       f.serviceID,
		IntervalMinutes: f.interval,
		Schedules:       make([]create_slots.Schedule, 0, f.days),
	}
	if f.capacity >= 0 {
		capacity := f.capacity
		req.Capacity = &capacity
	}

	y, m, d := from.Date()
	first := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	for i := 0; i < f.days; i++ {
		req.Schedules = append(req.Schedules, create_slots.Schedule{Date: first.AddDate(0, 0, i), TimeRanges: ranges})
	}

	return req, nil
}

func newSlotsHorizonCmd(load runtimeLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "horizon",
		Short: "Run the configured slot horizon job once",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := load()
			if err != nil {
				return err
			}
			defer log.Close()

			a, err := app.New(cmd.Context(), cfg, nil, log)
			if err != nil {
				return err
			}
			defer a.Close()

			summary, err := a.Horizon.Run(cmd.Context())
			fmt.Fprintf(cmd.OutOrStdout(), "targets=%d failed=%d created=%d skipped=%d\n",
				summary.Targets, summary.Failed, summary.Created, summary.Skipped)
			return err
		},
	}
}
