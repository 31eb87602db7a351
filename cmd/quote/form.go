package main

import (
	"fmt"
	"strings"
	"time"

	"easyrent/internal/domain/pricing"
	"easyrent/internal/infra/bookingapi"
	"easyrent/internal/usecase/probe"

	"github.com/google/uuid"
)

// form mirrors the booking form fields. Each input line edits some of them.
type form struct {
	CarID      uuid.UUID
	Mode       string
	StartDate  string
	StartTime  string
	EndDate    string
	EndTime    string
	WithDriver bool
}

// apply parses space separated key=value edits, e.g.
//
//	start=2025-07-01 09:00 end=2025-07-04 driver=on
//
// A bare HH:MM token after start= or end= sets that side's clock.
func (f *form) apply(line string) error {
	var last string
	for _, tok := range strings.Fields(line) {
		key, value, ok := strings.Cut(tok, "=")
		if !ok {
			if last == "" {
				return fmt.Errorf("expected key=value, got %q", tok)
			}
			key, value = last+"time", tok
		}
		key = strings.ToLower(key)

		switch key {
		case "car":
			id, err := uuid.Parse(value)
			if err != nil {
				return fmt.Errorf("car: %w", err)
			}
			f.CarID = id
		case "mode":
			f.Mode = value
		case "driver":
			switch strings.ToLower(value) {
			case "on", "yes", "true", "1":
				f.WithDriver = true
			case "off", "no", "false", "0":
				f.WithDriver = false
			default:
				return fmt.Errorf("driver: want on or off, got %q", value)
			}
		case "start":
			f.StartDate = value
		case "starttime":
			f.StartTime = value
		case "end":
			f.EndDate = value
		case "endtime":
			f.EndTime = value
		default:
			return fmt.Errorf("unknown field %q", key)
		}

		last = ""
		if key == "start" || key == "end" {
			last = key
		}
	}
	return nil
}

func (f form) quoteRequest() bookingapi.QuoteRequest {
	return bookingapi.QuoteRequest{
		CarID:       f.CarID,
		PricingMode: f.Mode,
		StartDate:   f.StartDate,
		StartTime:   f.StartTime,
		EndDate:     f.EndDate,
		EndTime:     f.EndTime,
		WithDriver:  f.WithDriver,
	}
}

// probeInput leaves an instant zero when its fields do not parse, which the
// prober treats as an unfilled field.
func (f form) probeInput(loc *time.Location) probe.Input {
	in := probe.Input{CarID: f.CarID}
	if t, err := pricing.ParseInstant(f.StartDate, f.StartTime, loc); err == nil {
		in.Start = t
	}
	if t, err := pricing.ParseInstant(f.EndDate, f.EndTime, loc); err == nil {
		in.End = t
	}
	return in
}
