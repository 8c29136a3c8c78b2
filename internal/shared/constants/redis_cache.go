package constants

import (
	"fmt"
	"time"
)

// Redis cache keys and TTLs.
// Pattern: hostly:{module}:{operation}:{identifier}

// Aggregates change on every confirmed booking, so dashboard caches stay short
const (
	TTL_ANALYTICS_EVENT = 30 * time.Second
	TTL_ANALYTICS_HOST  = 1 * time.Minute
	TTL_EVENT_DETAIL    = 2 * time.Hour
	TTL_TICKET_TYPES    = 5 * time.Minute
)

const (
	KEY_PREFIX = "hostly"
)

func BuildAnalyticsEventKey(eventID string) string {
	return fmt.Sprintf("%s:analytics:event:%s", KEY_PREFIX, eventID)
}

func BuildAnalyticsHostKey(hostID string) string {
	return fmt.Sprintf("%s:analytics:host:%s", KEY_PREFIX, hostID)
}

func BuildEventDetailKey(eventID string) string {
	return fmt.Sprintf("%s:events:detail:%s", KEY_PREFIX, eventID)
}

func BuildTicketTypesKey(eventID string) string {
	return fmt.Sprintf("%s:inventory:types:%s", KEY_PREFIX, eventID)
}
