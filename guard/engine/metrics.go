package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var messagesProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "joyguard_messages_processed",
	Help: "Number of group messages processed, by verdict action",
}, []string{"action"})

var handleDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name: "joyguard_message_duration_sec",
	Help: "Total duration of group message handling",
})

var commandsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "joyguard_commands_processed",
	Help: "Number of moderation commands processed, by kind",
}, []string{"kind"})

var suppressions = promauto.NewCounter(prometheus.CounterOpts{
	Name: "joyguard_suppressions",
	Help: "Number of messages suppressed by an active block",
})

var swearHits = promauto.NewCounter(prometheus.CounterOpts{
	Name: "joyguard_swear_hits",
	Help: "Number of vocabulary hits recorded",
})

var personalToggles = promauto.NewCounter(prometheus.CounterOpts{
	Name: "joyguard_personal_block_toggles",
	Help: "Number of personal block toggles",
})

var globalToggles = promauto.NewCounter(prometheus.CounterOpts{
	Name: "joyguard_global_block_toggles",
	Help: "Number of global block toggles",
})

var exceptionToggles = promauto.NewCounter(prometheus.CounterOpts{
	Name: "joyguard_exception_toggles",
	Help: "Number of global block exception toggles",
})

var storageConflicts = promauto.NewCounter(prometheus.CounterOpts{
	Name: "joyguard_storage_conflicts",
	Help: "Number of storage conflicts surfaced by toggle operations",
})

var resolutionTimeouts = promauto.NewCounter(prometheus.CounterOpts{
	Name: "joyguard_resolution_failures",
	Help: "Number of deferred username fetches that failed or timed out",
})
