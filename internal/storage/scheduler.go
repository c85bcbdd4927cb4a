package storage

import (
	"context"
	"portal/internal/providers"
	"portal/internal/services"
	"portal/internal/storage/interfaces"
	"portal/internal/structures"
	"sync"
	"time"

	"github.com/roylee0704/gron"
)

const (
	keyGaugeInterval = time.Minute
	keyGaugeTimeout  = 10 * time.Second
)

// Scheduler owns the background jobs of the key/value layer: periodic
// snapshots for the file driver and the key-count gauge for every driver.

type Scheduler struct {
	config      *structures.Config
	logger      providers.Logger
	store       interfaces.KVStoreInterface
	service     services.KeyValueServiceInterface
	fileManager *FileManager
	metrics     providers.MetricsProviderInterface
	cron        *gron.Cron
	opsMu       sync.Mutex
}

func (s *Scheduler) fileBacked() bool {
	return s.store.Driver() == services.FileDriver
}

func (s *Scheduler) Init() {
	s.cron = gron.New()

	if s.fileBacked() {
		s.cron.AddFunc(gron.Every(s.config.Persistence.SaveInterval), s.saveIfDirty)
	}
	if s.store.IsActivated() {
		s.cron.AddFunc(gron.Every(keyGaugeInterval), s.refreshKeyGauge)
		s.refreshKeyGauge()
	}

	s.cron.Start()
}

func (s *Scheduler) saveIfDirty() {
	if !s.service.IsDirty() {
		return
	}
	if err := s.Persist(); err == nil {
		s.logger.Debugf(providers.TypeApp, "Snapshot written to %s", s.config.Persistence.FilePath)
	}
}

func (s *Scheduler) refreshKeyGauge() {
	ctx, cancel := context.WithTimeout(context.Background(), keyGaugeTimeout)
	defer cancel()
	n, err := s.store.Count(ctx)
	if err != nil {
		s.logger.Warnf(providers.TypeApp, "Unable to count %s keys: %s", s.store.Driver(), err)
		return
	}
	s.metrics.SetKVKeys(s.store.Driver(), n)
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// Restore loads the last snapshot. Only the file driver keeps one.
func (s *Scheduler) Restore() error {
	if !s.fileBacked() {
		return nil
	}
	return s.fileManager.Load(s.config.Persistence.FilePath)
}

// Persist writes a snapshot of the file driver. The store is marked clean
// first so writes racing with the save mark it dirty again. A failed save
// leaves it dirty for the next tick.
func (s *Scheduler) Persist() error {
	if !s.fileBacked() {
		return nil
	}
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	start := time.Now()
	s.service.MarkClean()
	err := s.fileManager.Save(s.config.Persistence.FilePath)
	s.metrics.ObservePersistenceDuration(time.Since(start))
	if err != nil {
		s.service.MarkDirty()
		s.logger.Errorf(providers.TypeApp, "Snapshot to %s failed: %s", s.config.Persistence.FilePath, err)
		return err
	}
	return nil
}

func NewScheduler(config *structures.Config, logger providers.Logger, store interfaces.KVStoreInterface, service services.KeyValueServiceInterface, fileManager *FileManager, metrics providers.MetricsProviderInterface) interfaces.SchedulerInterface {
	return &Scheduler{
		config:      config,
		logger:      logger,
		store:       store,
		service:     service,
		fileManager: fileManager,
		metrics:     metrics,
	}
}
