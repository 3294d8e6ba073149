package middleware

import (
	"context"
	"log/slog"
	"time"

	"connectrpc.com/connect"
)

// LoggingInterceptor returns a Connect interceptor that logs every RPC call with
// its procedure, operator ID, result code and duration.
// Place it after RequireAuth so the operator ID is available.
func LoggingInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()

			resp, err := next(ctx, req)

			attrs := []any{
				"procedure", req.Spec().Procedure,
				"operator_id", OperatorID(ctx),
				"code", codeOf(err),
				"duration_ms", time.Since(start).Milliseconds(),
			}
			switch {
			case err == nil:
				slog.Info("RPC ok", attrs...)
			case connect.CodeOf(err) == connect.CodeUnknown || connect.CodeOf(err) == connect.CodeInternal:
				slog.Error("RPC error", append(attrs, "error", err)...)
			default:
				slog.Warn("RPC error", append(attrs, "error", err)...)
			}

			return resp, err
		}
	}
}
