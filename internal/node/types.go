package node

import "time"

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// MonitorMetrics records node process activity.
	MonitorMetrics interface {
		ObserveEvent(kind string)
		ObserveIgnoredLine()
		ObserveExit(err error, uptime time.Duration)
	}
)
