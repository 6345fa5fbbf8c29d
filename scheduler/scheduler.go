// Package scheduler provides background availability probing for the
// external AI collaborators. It periodically probes each configured
// endpoint, records the result in the drug store, and logs when a
// collaborator stays unreachable so operators notice degraded analysis
// quality.
package scheduler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Trisha2910tinaaaaa/medsafe/aiservices"
	"github.com/Trisha2910tinaaaaa/medsafe/interfaces"
	"github.com/Trisha2910tinaaaaa/medsafe/logging"
	"github.com/go-co-op/gocron"
)

// Compile-time check to ensure Scheduler implements Scheduler interface
var _ interfaces.Scheduler = (*Scheduler)(nil)

// ServiceEndpoint names one probeable collaborator.
type ServiceEndpoint struct {
	Service string
	URL     string
}

// Scheduler probes collaborator availability on a fixed interval.
type Scheduler struct {
	store     interfaces.DrugStore
	client    *http.Client
	endpoints []ServiceEndpoint
	scheduler *gocron.Scheduler
	stopWatch chan struct{}
}

// NewScheduler creates a scheduler for the given collaborator endpoints.
// Endpoints with an empty URL are recorded as unavailable once and never
// probed.
func NewScheduler(store interfaces.DrugStore, client *http.Client, endpoints []ServiceEndpoint) *Scheduler {
	if client == nil {
		client = &http.Client{}
	}
	return &Scheduler{
		store:     store,
		client:    client,
		endpoints: endpoints,
		scheduler: gocron.NewScheduler(time.Local),
		stopWatch: make(chan struct{}),
	}
}

// Start runs an initial probe round and schedules recurring probes
// every 15 minutes.
func (s *Scheduler) Start() error {
	// Initial probe so the first requests already see real availability
	s.probeAll()

	_, err := s.scheduler.Every(15).Minutes().Do(func() {
		s.probeAll()
	})

	if err != nil {
		logging.Error("Failed to schedule availability probes", "error", err)
		return fmt.Errorf("failed to schedule availability probes: %w", err)
	}

	s.scheduler.StartAsync()

	// Start degradation monitoring
	s.startDegradationMonitoring()

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
	close(s.stopWatch)
}

// probeAll checks every configured endpoint and records the results.
func (s *Scheduler) probeAll() {
	start := time.Now()

	for _, endpoint := range s.endpoints {
		if endpoint.URL == "" {
			s.store.SetServiceStatus(endpoint.Service, false)
			continue
		}

		available := aiservices.Probe(context.Background(), s.client, endpoint.URL)
		was, probed := s.store.GetServiceStatus()[endpoint.Service]
		s.store.SetServiceStatus(endpoint.Service, available)

		if probed && was != available {
			logging.Info("Collaborator availability changed",
				"service", endpoint.Service,
				"available", available,
			)
		}
	}

	logging.Debug("Availability probe round completed",
		"duration", time.Since(start).String(),
		"endpoints", len(s.endpoints),
	)
}

// startDegradationMonitoring logs hourly while any collaborator stays
// down, so prolonged degraded operation is visible in the logs.
func (s *Scheduler) startDegradationMonitoring() {
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for {
			select {
			case <-s.stopWatch:
				return
			case <-ticker.C:
				var down []string
				for service, available := range s.store.GetServiceStatus() {
					if !available {
						down = append(down, service)
					}
				}
				if len(down) > 0 {
					logging.Warn("Collaborators unavailable, analyses run on fallbacks", "services", down)
				}
			}
		}
	}()
}
