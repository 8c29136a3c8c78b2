package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger wraps slog.Logger with additional functionality
type Logger struct {
	*slog.Logger
}

// New creates a new logger instance
func New() *Logger {
	level := getLogLevel(os.Getenv("LOG_LEVEL"))

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	// Text handler for development (more readable), JSON for production
	var handler slog.Handler
	if gin.Mode() == gin.DebugMode {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return &Logger{
		Logger: slog.New(handler),
	}
}

// getLogLevel converts string to slog.Level
func getLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithRequestID adds request ID to logger context
func (l *Logger) WithRequestID(requestID string) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.String("request_id", requestID)),
	}
}

// WithError adds error to logger context
func (l *Logger) WithError(err error) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.String("error", err.Error())),
	}
}

// WithFields adds multiple fields to logger context
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	args := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, slog.Any(k, v))
	}
	return &Logger{
		Logger: l.Logger.With(args...),
	}
}

// HTTP logging methods

// LogHTTPRequest logs an HTTP request
func (l *Logger) LogHTTPRequest(c *gin.Context, duration time.Duration) {
	l.Logger.InfoContext(c.Request.Context(),
		"HTTP Request",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("query", c.Request.URL.RawQuery),
		slog.Int("status", c.Writer.Status()),
		slog.Duration("duration", duration),
		slog.String("ip", c.ClientIP()),
		slog.Int("size", c.Writer.Size()),
	)
}

// Pipeline logging methods

// LogBookingCreated logs when a pending booking is written to the ledger
func (l *Logger) LogBookingCreated(ctx context.Context, bookingID, eventID, ticketTypeID string, quantity int) {
	l.Logger.InfoContext(ctx,
		"Booking Created",
		slog.String("booking_id", bookingID),
		slog.String("event_id", eventID),
		slog.String("ticket_type_id", ticketTypeID),
		slog.Int("quantity", quantity),
	)
}

// LogBookingTransition logs a status transition on a ledger record
func (l *Logger) LogBookingTransition(ctx context.Context, bookingID, before, after string) {
	l.Logger.InfoContext(ctx,
		"Booking Status Transition",
		slog.String("booking_id", bookingID),
		slog.String("before", before),
		slog.String("after", after),
	)
}

// LogAnalyticsApplied logs a counter delta applied to the aggregates
func (l *Logger) LogAnalyticsApplied(ctx context.Context, bookingID, eventID, hostID string, tickets int, revenue float64) {
	l.Logger.InfoContext(ctx,
		"Analytics Delta Applied",
		slog.String("booking_id", bookingID),
		slog.String("event_id", eventID),
		slog.String("host_id", hostID),
		slog.Int("tickets", tickets),
		slog.Float64("revenue", revenue),
	)
}

// LogReconcileSkipped logs a trigger invocation the idempotence guard rejected
func (l *Logger) LogReconcileSkipped(ctx context.Context, bookingID, before, after, reason string) {
	l.Logger.DebugContext(ctx,
		"Reconcile Skipped",
		slog.String("booking_id", bookingID),
		slog.String("before", before),
		slog.String("after", after),
		slog.String("reason", reason),
	)
}

// LogReadRepair logs a metadata self-heal on an analytics document
func (l *Logger) LogReadRepair(ctx context.Context, eventID, eventName string) {
	l.Logger.InfoContext(ctx,
		"Analytics Metadata Repaired",
		slog.String("event_id", eventID),
		slog.String("event_name", eventName),
	)
}

// LogRateLimitExceeded logs rate limit exceeded
func (l *Logger) LogRateLimitExceeded(ctx context.Context, ip, endpoint string) {
	l.Logger.WarnContext(ctx,
		"Rate Limit Exceeded",
		slog.String("ip", ip),
		slog.String("endpoint", endpoint),
	)
}

// ErrorWithContext logs an error message with context
func (l *Logger) ErrorWithContext(ctx context.Context, msg string, err error, fields map[string]interface{}) {
	args := make([]interface{}, 0, len(fields)*2+2)
	args = append(args, slog.String("error", err.Error()))
	for k, v := range fields {
		args = append(args, slog.Any(k, v))
	}
	l.Logger.ErrorContext(ctx, msg, args...)
}

// Global logger instance (can be replaced with dependency injection)
var defaultLogger = New()

// GetDefault returns the default logger instance
func GetDefault() *Logger {
	return defaultLogger
}

// SetDefault sets the default logger instance
func SetDefault(logger *Logger) {
	defaultLogger = logger
}
