// Command quote is a terminal booking form. Every input line edits the form,
// re-prices it against the API, and feeds the availability prober.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"easyrent/internal/domain/availability"
	"easyrent/internal/domain/pricing"
	"easyrent/internal/handler/middleware"
	"easyrent/internal/infra/bookingapi"
	"easyrent/internal/pkg/clock"
	"easyrent/internal/pkg/config"
	"easyrent/internal/usecase/probe"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type cliConfig struct {
	APIURL       string `envconfig:"EASYRENT_API_URL" default:"http://localhost:8080"`
	Token        string `envconfig:"EASYRENT_TOKEN" default:""`
	Availability config.AvailabilityConfig
	Pricing      config.PricingConfig
	Log          config.LogConfig
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "quote:", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	var cfg cliConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return fmt.Errorf("failed to process env config: %w", err)
	}

	var carID string
	f := form{Mode: string(pricing.ModeDaily)}
	flag.StringVar(&cfg.APIURL, "api", cfg.APIURL, "booking API base URL")
	flag.StringVar(&cfg.Token, "token", cfg.Token, "access token")
	flag.StringVar(&carID, "car", "", "car ID")
	flag.StringVar(&f.Mode, "mode", f.Mode, "pricing mode: hourly, daily or monthly")
	flag.BoolVar(&f.WithDriver, "driver", false, "add a chauffeur")
	flag.Parse()

	if carID != "" {
		id, err := uuid.Parse(carID)
		if err != nil {
			return fmt.Errorf("invalid -car: %w", err)
		}
		f.CarID = id
	}

	logger := middleware.NewLogger(cfg.Log).GetSlogLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var opts []bookingapi.Option
	if cfg.Token != "" {
		opts = append(opts, bookingapi.WithToken(cfg.Token))
	}
	client := bookingapi.NewClient(cfg.APIURL, opts...)

	s := &session{
		out:     os.Stdout,
		client:  client,
		loc:     cfg.Pricing.Location(),
		timeout: cfg.Availability.RequestTimeout,
		form:    f,
	}
	s.prober = probe.New(client, clock.NewRealClock(), cfg.Availability,
		probe.WithListener(s.onProbe),
		probe.WithLogger(logger),
	)
	defer s.prober.Close()

	s.printf("edit the form with key=value pairs: car= mode= start=YYYY-MM-DD [HH:MM] end=YYYY-MM-DD [HH:MM] driver=on|off\n")
	return s.loop(ctx, os.Stdin)
}

type session struct {
	out     io.Writer
	client  *bookingapi.Client
	prober  *probe.Prober
	loc     *time.Location
	timeout time.Duration

	mu   sync.Mutex
	form form
}

func (s *session) loop(ctx context.Context, in io.Reader) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- sc.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				s.awaitSettled(ctx)
				select {
				case err := <-scanErr:
					return err
				default:
					return nil
				}
			}
			s.handle(ctx, line)
		}
	}
}

func (s *session) handle(ctx context.Context, line string) {
	s.mu.Lock()
	if err := s.form.apply(line); err != nil {
		s.mu.Unlock()
		s.printf("  ! %v\n", err)
		return
	}
	f := s.form
	s.mu.Unlock()

	s.prober.Update(f.probeInput(s.loc))

	if f.CarID == uuid.Nil {
		s.printf("  quote: pick a car with car=<id>\n")
		return
	}
	qctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	q, err := s.client.Quote(qctx, f.quoteRequest())
	if err != nil {
		s.printf("  quote: %v\n", err)
		return
	}
	if !q.Valid {
		s.printf("  quote: fill in start and end\n")
		return
	}
	s.printf("  quote: %d %s @ %d = %d, -%d%%, driver %d, total %d %s\n",
		q.Duration, q.Unit, q.UnitPrice, q.ListPrice,
		q.DiscountPercent, q.DriverFee, q.TotalPrice, q.Currency)
}

func (s *session) onProbe(snap probe.Snapshot) {
	verdict := "cannot book yet"
	if snap.Gate.CanSubmit() {
		verdict = "ready to book"
	}
	s.printf("  availability: %s (%s, %s) #%d\n", snap.State, snap.Gate, verdict, snap.Generation)
}

// awaitSettled gives the last check a chance to answer before exit.
func (s *session) awaitSettled(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout+time.Second)
	defer cancel()
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	for s.prober.State() == availability.StateChecking {
		select {
		case <-ctx.Done():
			slog.Debug("gave up waiting for availability answer")
			return
		case <-tick.C:
		}
	}
}

func (s *session) printf(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, format, args...)
}
