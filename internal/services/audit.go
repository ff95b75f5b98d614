package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Nate0911/FancyKarma-Backend/internal/metrics"
	"github.com/Nate0911/FancyKarma-Backend/internal/models"
)

// AuditSink delivers batches of audit rows to one destination. Sinks
// must tolerate concurrent batches being in flight across restarts;
// within one service instance the worker serializes writes.
type AuditSink interface {
	Name() string
	Write(ctx context.Context, entries []*models.VerificationLog) error
}

// AuditEntry represents the data needed to create an audit row
type AuditEntry struct {
	Status    models.VerdictStatus
	Username  string
	Karma     int64
	AgeMonths int
	Reason    string
	ActorIP   string
}

// AuditService records verification attempts asynchronously. Delivery
// is fire-and-forget: a full buffer drops the entry and a failing sink
// only produces a log line, never an error for the caller.
type AuditService struct {
	sinks      []AuditSink
	metrics    metrics.Recorder
	enabled    bool
	bufferSize int

	// Async logging channel
	logChan chan *models.VerificationLog

	// Batch buffer
	batchBuffer []*models.VerificationLog
	batchMutex  sync.Mutex
	batchTicker *time.Ticker

	// Graceful shutdown
	wg         sync.WaitGroup
	shutdownCh chan struct{}
}

// NewAuditService creates a new audit service
func NewAuditService(
	sinks []AuditSink,
	m metrics.Recorder,
	enabled bool,
	bufferSize int,
) *AuditService {
	if bufferSize <= 0 {
		bufferSize = 1000 // Default buffer size
	}
	if len(sinks) == 0 {
		enabled = false
	}
	if m == nil {
		m = metrics.NewNoopMetrics()
	}

	service := &AuditService{
		sinks:       sinks,
		metrics:     m,
		enabled:     enabled,
		bufferSize:  bufferSize,
		logChan:     make(chan *models.VerificationLog, bufferSize),
		batchBuffer: make([]*models.VerificationLog, 0, 100),
		shutdownCh:  make(chan struct{}),
	}

	if enabled {
		// The ticker only exists alongside the worker that consumes it
		service.batchTicker = time.NewTicker(1 * time.Second)
		service.wg.Add(1)
		go service.worker()
		log.Info().
			Int("buffer_size", bufferSize).
			Int("sinks", len(sinks)).
			Msg("audit service started")
	} else {
		log.Info().Msg("audit service is disabled")
	}

	return service
}

// worker is the background goroutine that processes audit rows
func (s *AuditService) worker() {
	defer s.wg.Done()

	for {
		select {
		case entry := <-s.logChan:
			s.addToBatch(entry)

		case <-s.batchTicker.C:
			// Flush batch every second
			s.flushBatch()

		case <-s.shutdownCh:
			// Drain anything still queued, then flush
			for {
				select {
				case entry := <-s.logChan:
					s.addToBatch(entry)
				default:
					s.flushBatch()
					return
				}
			}
		}
	}
}

// addToBatch adds an audit row to the batch buffer
func (s *AuditService) addToBatch(entry *models.VerificationLog) {
	s.batchMutex.Lock()
	defer s.batchMutex.Unlock()

	s.batchBuffer = append(s.batchBuffer, entry)

	// Flush if batch is full (100 entries)
	if len(s.batchBuffer) >= 100 {
		s.flushBatchUnsafe()
	}
}

// flushBatch flushes the batch buffer to all sinks (thread-safe)
func (s *AuditService) flushBatch() {
	s.batchMutex.Lock()
	defer s.batchMutex.Unlock()
	s.flushBatchUnsafe()
}

// flushBatchUnsafe flushes the batch buffer without locking (caller must hold lock)
func (s *AuditService) flushBatchUnsafe() {
	if len(s.batchBuffer) == 0 {
		return
	}

	// Copy buffer for writing
	toWrite := make([]*models.VerificationLog, len(s.batchBuffer))
	copy(toWrite, s.batchBuffer)

	// Clear buffer
	s.batchBuffer = s.batchBuffer[:0]

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, sink := range s.sinks {
		err := sink.Write(ctx, toWrite)
		s.metrics.RecordAuditFlush(sink.Name(), len(toWrite), err == nil)
		if err != nil {
			log.Error().
				Err(err).
				Str("sink", sink.Name()).
				Int("rows", len(toWrite)).
				Msg("failed to write audit batch")
		}
	}
}

// Record enqueues an audit row without blocking the caller
func (s *AuditService) Record(_ context.Context, entry AuditEntry) {
	if !s.enabled {
		return
	}

	now := time.Now()
	row := &models.VerificationLog{
		ID:        uuid.New().String(),
		Status:    entry.Status,
		Username:  entry.Username,
		Karma:     entry.Karma,
		AgeMonths: entry.AgeMonths,
		Reason:    entry.Reason,
		ActorIP:   entry.ActorIP,
		Timestamp: now,
		CreatedAt: now,
	}

	// Try to send to channel (non-blocking)
	select {
	case s.logChan <- row:
		// Successfully sent
	default:
		// Channel is full, drop the row and log a warning
		s.metrics.RecordAuditDropped()
		log.Warn().
			Str("status", string(entry.Status)).
			Msg("audit buffer full, dropping row")
	}
}

// Shutdown gracefully shuts down the audit service, flushing queued rows
func (s *AuditService) Shutdown(ctx context.Context) error {
	if !s.enabled {
		return nil
	}

	// Stop ticker
	s.batchTicker.Stop()

	// Signal worker to stop
	close(s.shutdownCh)

	// Wait for worker to finish with timeout
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info().Msg("audit service shut down gracefully")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("audit service shutdown timeout: %w", ctx.Err())
	}
}
