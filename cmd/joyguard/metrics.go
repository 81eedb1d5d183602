package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var updatesReceived = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "joyguard_updates_received",
	Help: "Number of telegram updates received, by update type",
}, []string{"type"})
