package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "moderbot_admin_active_sessions",
		Help: "Current number of live admin sessions",
	})

	GroupListSyncs = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "moderbot_admin_group_list_syncs_total",
		Help: "Group list fetches from the bot API by outcome",
	}, []string{"outcome"})

	SettingsFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "moderbot_admin_settings_fetches_total",
		Help: "Per-group settings fetches from the bot API by outcome",
	}, []string{"outcome"})

	SettingsWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "moderbot_admin_settings_writes_total",
		Help: "Remote settings writes by outcome",
	}, []string{"outcome"})
)

func SetActiveSessions(count int) {
	if count < 0 {
		count = 0
	}
	ActiveSessions.Set(float64(count))
}

func IncGroupListSync(outcome string) {
	GroupListSyncs.WithLabelValues(normalizeOutcome(outcome)).Inc()
}

func IncSettingsFetch(outcome string) {
	SettingsFetches.WithLabelValues(normalizeOutcome(outcome)).Inc()
}

func IncSettingsWrite(outcome string) {
	SettingsWrites.WithLabelValues(normalizeOutcome(outcome)).Inc()
}

func normalizeOutcome(outcome string) string {
	label := strings.TrimSpace(outcome)
	if label == "" {
		return "unknown"
	}
	return label
}
