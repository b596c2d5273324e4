package metrics

import (
	"context"
	"reflect"
	"strings"
	"time"

	"github.com/andrescamacho/outfitting-go/internal/application/common"
)

// PrometheusMiddleware creates a middleware that records command execution metrics:
// execution duration (histogram) and success/failure counts (counter).
//
// Command names are extracted via reflection and simplified to remove package prefixes.
// For example: "*commands.DecodeBuildCommand" becomes "DecodeBuildCommand"
func PrometheusMiddleware(collector *CommandMetricsCollector) common.Middleware {
	return func(ctx context.Context, request common.Request, next common.HandlerFunc) (common.Response, error) {
		// Skip metrics if collector is nil (metrics disabled)
		if collector == nil {
			return next(ctx, request)
		}

		commandName := extractCommandName(request)
		start := time.Now()

		response, err := next(ctx, request)

		collector.RecordCommandExecution(commandName, time.Since(start).Seconds(), err == nil)
		return response, err
	}
}

// extractCommandName extracts a clean command name from the request using reflection
// Examples:
//   - "*commands.SaveBuildCommand" → "SaveBuildCommand"
//   - "*queries.ListShipsQuery" → "ListShipsQuery"
func extractCommandName(request common.Request) string {
	if request == nil {
		return "UnknownCommand"
	}

	fullName := strings.TrimPrefix(reflect.TypeOf(request).String(), "*")

	parts := strings.Split(fullName, ".")
	if len(parts) > 0 {
		return parts[len(parts)-1]
	}

	return fullName
}
