package audit

import (
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/baechuer/credential-service/internal/metrics"
)

// Logger provides structured audit logging for credential events.
type Logger struct {
	log zerolog.Logger
}

func New(log zerolog.Logger) *Logger {
	return &Logger{
		log: log.With().Bool("audit", true).Logger(),
	}
}

// warnActions are security-relevant failures; everything else logs at info.
var warnActions = map[string]bool{
	"signin_failed":       true,
	"refresh_reused":      true,
	"signup_event_failed": true,
}

// Record logs one audit action and counts it. Any "email" field is masked.
// It matches the hook signature taken by auth.Service.WithAudit.
func (l *Logger) Record(action string, fields map[string]string) {
	metrics.ObserveAudit(action)

	evt := l.log.Info()
	if warnActions[action] {
		evt = l.log.Warn()
	}
	evt = evt.Str("action", action)

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := fields[k]
		if k == "email" {
			v = maskEmail(v)
		}
		evt = evt.Str(k, v)
	}
	evt.Msg("audit")
}

// maskEmail partially masks email for privacy in logs
func maskEmail(email string) string {
	if len(email) < 5 {
		return "***"
	}
	at := strings.IndexByte(email, '@')
	switch {
	case at < 0:
		return email[:2] + "***"
	case at < 2:
		return email[:1] + "***" + email[at:]
	default:
		return email[:2] + "***" + email[at:]
	}
}
