package config

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const day = 24 * time.Hour

// Duration is a time.Duration that also understands a whole-day "d" suffix,
// e.g. JWT_EXPIRY=30d.
type Duration struct {
	time.Duration
}

// EnvDecode implements envconfig.Decoder
func (d *Duration) EnvDecode(_ context.Context, v string) error {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}

	if days, ok := strings.CutSuffix(v, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil {
			return fmt.Errorf("invalid days value %q: %w", v, err)
		}
		if n < 0 {
			return fmt.Errorf("negative duration %q", v)
		}
		if int64(n) > math.MaxInt64/int64(day) {
			return fmt.Errorf("duration %q is out of range", v)
		}
		d.Duration = time.Duration(n) * day
		return nil
	}

	parsed, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", v, err)
	}
	d.Duration = parsed
	return nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	return d.EnvDecode(context.Background(), string(text))
}

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d Duration) String() string {
	if d.Duration > 0 && d.Duration%day == 0 {
		return fmt.Sprintf("%dd", d.Duration/day)
	}
	return d.Duration.String()
}
