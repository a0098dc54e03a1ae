package cache

import (
	"strings"
	"time"

	"aetherius-api/internal/config"
)

// Namespace is the Redis key prefix for the Aetherius application.
const Namespace = "aetherius"

// TTLClass represents a config-driven TTL bucket.
type TTLClass string

const (
	TTLShort  TTLClass = "short"
	TTLMedium TTLClass = "medium"
	TTLLong   TTLClass = "long"
)

// TTLSet normalises cache TTLs from config into time.Duration values.
type TTLSet struct {
	Short  time.Duration
	Medium time.Duration
	Long   time.Duration
}

// NewTTLSet converts config TTLs (in seconds) into durations.
func NewTTLSet(cfg config.CacheTTL) TTLSet {
	return TTLSet{
		Short:  durationOrDefault(cfg.Short, 10*time.Second),
		Medium: durationOrDefault(cfg.Medium, time.Minute),
		Long:   durationOrDefault(cfg.Long, 5*time.Minute),
	}
}

func durationOrDefault(seconds int, fallback time.Duration) time.Duration {
	if seconds < 0 {
		return 0
	}
	if seconds == 0 {
		return fallback
	}
	return time.Duration(seconds) * time.Second
}

// Duration returns the configured duration for the given TTL class.
func (t TTLSet) Duration(class TTLClass) time.Duration {
	switch class {
	case TTLShort:
		return t.Short
	case TTLMedium:
		return t.Medium
	case TTLLong:
		return t.Long
	default:
		return 0
	}
}

func formatKey(parts ...string) string {
	values := make([]string, 0, len(parts)+1)
	values = append(values, Namespace)
	for _, part := range parts {
		clean := strings.TrimSpace(part)
		if clean == "" {
			continue
		}
		values = append(values, clean)
	}
	return strings.Join(values, ":")
}

// --- Analysis Keys ----------------------------------------------------------

// AnalysisKey stores a single structured analysis payload by ID.
func AnalysisKey(id string) string {
	return formatKey("analysis", id)
}

// AnalysisRecentKey holds the recent-analyses list for one surface.
func AnalysisRecentKey(surface string) string {
	return formatKey("analysis", "recent", surface)
}

// --- Conversation Keys ------------------------------------------------------

// ConversationKey stores conversation metadata by session ID.
func ConversationKey(sessionID string) string {
	return formatKey("conversation", sessionID)
}

// ConversationMessagesKey holds the rendered message list for a session.
func ConversationMessagesKey(sessionID string) string {
	return formatKey("conversation", sessionID, "messages")
}

// --- TTL Helpers ------------------------------------------------------------

// AnalysisTTL returns the TTL for stored analysis payloads.
func AnalysisTTL(ttl TTLSet) time.Duration {
	return ttl.Duration(TTLLong)
}

// AnalysisRecentTTL returns the TTL for recent-analyses lists.
func AnalysisRecentTTL(ttl TTLSet) time.Duration {
	return ttl.Duration(TTLMedium)
}

// ConversationTTL returns the TTL for conversation payloads.
func ConversationTTL(ttl TTLSet) time.Duration {
	return ttl.Duration(TTLLong)
}
