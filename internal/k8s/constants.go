package k8s

import "time"

// Kubernetes client constants
const (
	// InformerResyncPeriod is how often informers resync their full cache from
	// the Kubernetes API server. Informers also receive real-time updates via
	// watch connections, so this only bounds drift.
	InformerResyncPeriod = 30 * time.Second

	// InformerIndividualSyncTimeout is the timeout for each dynamic informer
	// to sync individually. A kind that does not sync in time (usually RBAC)
	// is reported as a snapshot load error instead of blocking startup.
	InformerIndividualSyncTimeout = 60 * time.Second
)
