package app

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/swipefeed/swipefeed/internal/domain"
)

func MustGetEnvAsString(ctx context.Context, name string) string {
	s, exists := os.LookupEnv(name)
	if !exists {
		logger := domain.LoggerFromContext(ctx)
		logger.ErrorContext(ctx, "environment variable missing", "variable_name", name)
		panic(fmt.Sprintf("missing environment variable [%s]", name))
	}

	return s
}

// MustGetEnvAsStrings splits a comma separated variable, dropping blank entries.
func MustGetEnvAsStrings(ctx context.Context, name string) []string {
	var values []string
	for _, v := range strings.Split(MustGetEnvAsString(ctx, name), ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}

func MustGetEnvAsInt(ctx context.Context, name string) int {
	return mustParseEnv(ctx, name, "integer", MustGetEnvAsString(ctx, name), strconv.Atoi)
}

func MustGetEnvAsBoolean(ctx context.Context, name string) bool {
	return mustParseEnv(ctx, name, "boolean ('true'/'false')", MustGetEnvAsString(ctx, name), parseBoolean)
}

func MustGetEnvAsDuration(ctx context.Context, name string) time.Duration {
	return mustParseEnv(ctx, name, "duration", MustGetEnvAsString(ctx, name), time.ParseDuration)
}

// GetEnvAsString returns fallback when the variable is unset or empty.
func GetEnvAsString(_ context.Context, name, fallback string) string {
	if s, exists := os.LookupEnv(name); exists && s != "" {
		return s
	}
	return fallback
}

func GetEnvAsInt(ctx context.Context, name string, fallback int) int {
	s := GetEnvAsString(ctx, name, "")
	if s == "" {
		return fallback
	}
	return mustParseEnv(ctx, name, "integer", s, strconv.Atoi)
}

func GetEnvAsDuration(ctx context.Context, name string, fallback time.Duration) time.Duration {
	s := GetEnvAsString(ctx, name, "")
	if s == "" {
		return fallback
	}
	return mustParseEnv(ctx, name, "duration", s, time.ParseDuration)
}

func GetEnvAsFloat(ctx context.Context, name string, fallback float64) float64 {
	s := GetEnvAsString(ctx, name, "")
	if s == "" {
		return fallback
	}
	return mustParseEnv(ctx, name, "float", s, func(s string) (float64, error) {
		return strconv.ParseFloat(s, 64)
	})
}

func parseBoolean(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, fmt.Errorf("not 'true' or 'false'")
	}
}

// mustParseEnv panics when a present variable does not parse; a misconfigured deployment
// should not start.
func mustParseEnv[T any](ctx context.Context, name, kind, s string, parse func(string) (T, error)) T {
	v, err := parse(s)
	if err != nil {
		logger := domain.LoggerFromContext(ctx)
		logger.ErrorContext(ctx, "unable to parse environment variable as "+kind,
			"variable_name", name,
			"variable_value", s,
		)
		panic(fmt.Sprintf("unable to parse environment variable as %s [%s]: %s", kind, name, s))
	}
	return v
}
