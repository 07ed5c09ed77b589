package app

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/stockdesk/server/internal/config"
)

func applyRuntimeSettings(cfg *config.AppConfig) error {
	tz := strings.TrimSpace(cfg.Timezone)
	if tz == "" {
		return nil
	}
	loc, err := parseTimezoneLocation(tz)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", tz, err)
	}
	time.Local = loc
	_ = os.Setenv("TZ", tz)
	return nil
}

// parseTimezoneLocation accepts an IANA zone name or a fixed "+hh:mm" offset.
func parseTimezoneLocation(raw string) (*time.Location, error) {
	tz := strings.TrimSpace(raw)
	if tz == "" {
		return time.Local, nil
	}
	if loc, err := time.LoadLocation(tz); err == nil {
		return loc, nil
	}
	if strings.HasPrefix(tz, "+") || strings.HasPrefix(tz, "-") {
		if t, err := time.Parse("-07:00", tz); err == nil {
			_, offset := t.Zone()
			return time.FixedZone(tz, offset), nil
		}
	}
	return nil, errors.New("expect IANA zone (e.g. Europe/Berlin) or UTC offset (e.g. +02:00)")
}
