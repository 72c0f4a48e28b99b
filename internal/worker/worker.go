package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mfigueira/aventuria/internal/services"
	queueSvc "github.com/mfigueira/aventuria/internal/services/queue"
	"github.com/mfigueira/aventuria/internal/storage"
	"github.com/mfigueira/aventuria/pkg/prompts"
	queuePkg "github.com/mfigueira/aventuria/pkg/queue"
)

const dequeueTimeout = 5 * time.Second

// Worker consumes turn and suggestion jobs from the Redis queue.
type Worker struct {
	id          string
	turnQueue   *queueSvc.TurnQueue
	suggestions *queueSvc.SuggestionQueue
	store       storage.Storage
	processor   *TurnProcessor
	oracle      services.OracleService
	lock        *queueSvc.SessionLock
	log         *slog.Logger
	ctx         context.Context
	cancel      context.CancelFunc
}

// New creates a worker. An empty workerID gets a generated one.
func New(
	turnQueue *queueSvc.TurnQueue,
	suggestions *queueSvc.SuggestionQueue,
	store storage.Storage,
	processor *TurnProcessor,
	oracle services.OracleService,
	lock *queueSvc.SessionLock,
	log *slog.Logger,
	workerID string,
) *Worker {
	ctx, cancel := context.WithCancel(context.Background())
	if workerID == "" {
		workerID = "worker-" + uuid.NewString()[:8]
	}
	return &Worker{
		id:          workerID,
		turnQueue:   turnQueue,
		suggestions: suggestions,
		store:       store,
		processor:   processor,
		oracle:      oracle,
		lock:        lock,
		log:         log,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start processes jobs until Stop is called.
func (w *Worker) Start() error {
	w.log.Info("worker starting", "worker_id", w.id)
	for {
		select {
		case <-w.ctx.Done():
			w.log.Info("worker shutting down", "worker_id", w.id)
			return nil
		default:
			if err := w.processNextJob(); err != nil {
				w.log.Error("error processing job", "worker_id", w.id, "error", err)
				time.Sleep(time.Second)
			}
		}
	}
}

// Stop requests a graceful shutdown.
func (w *Worker) Stop() {
	w.log.Info("worker stop requested", "worker_id", w.id)
	w.cancel()
}

func (w *Worker) processNextJob() error {
	job, err := w.turnQueue.Dequeue(w.ctx, dequeueTimeout)
	if err != nil {
		return err
	}
	if job == nil {
		return nil
	}

	w.log.Info("job dequeued",
		"worker_id", w.id, "job_id", job.JobID,
		"type", string(job.Type), "session_id", job.SessionID.String())

	locked, err := w.lock.Acquire(w.ctx, job.SessionID, w.id)
	if err != nil {
		return err
	}
	if !locked {
		// Another holder owns this session; requeue and move on.
		w.log.Info("session locked elsewhere, requeueing",
			"worker_id", w.id, "job_id", job.JobID, "session_id", job.SessionID.String())
		return w.turnQueue.Enqueue(w.ctx, job)
	}
	defer w.lock.Release(w.ctx, job.SessionID)

	switch job.Type {
	case queuePkg.JobTypeTurn:
		return w.processTurnJob(job)
	case queuePkg.JobTypeSuggestion:
		return w.processSuggestionJob(job)
	default:
		w.log.Warn("dropping job of unknown type", "job_id", job.JobID, "type", string(job.Type))
		return nil
	}
}

func (w *Worker) processTurnJob(job *queuePkg.TurnJob) error {
	gs, err := w.store.LoadSession(w.ctx, job.SessionID)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	if gs == nil {
		w.log.Warn("dropping job for missing session", "job_id", job.JobID, "session_id", job.SessionID.String())
		return nil
	}

	var suggestion string
	if gs.Modes.GMAssist {
		suggestion, err = w.suggestions.Drain(w.ctx, job.SessionID)
		if err != nil {
			return fmt.Errorf("failed to drain suggestions: %w", err)
		}
	}

	_, turnErr := w.processor.ProcessTurn(w.ctx, gs, job.Actions, suggestion)
	// A failed turn still writes its retry notice, so the session is
	// saved either way.
	if err := w.store.SaveSession(w.ctx, gs); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	if turnErr != nil {
		w.log.Error("turn failed", "job_id", job.JobID, "session_id", job.SessionID.String(), "error", turnErr)
		return nil
	}

	w.log.Info("turn resolved", "job_id", job.JobID, "session_id", job.SessionID.String(), "turn", gs.Turn)
	return nil
}

// processSuggestionJob asks the Oracle for a story nudge and queues it
// for the session's next turn.
func (w *Worker) processSuggestionJob(job *queuePkg.TurnJob) error {
	gs, err := w.store.LoadSession(w.ctx, job.SessionID)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	if gs == nil {
		return nil
	}

	suggestion, err := w.oracle.Suggest(w.ctx, prompts.SuggestionMessages(gs, prompts.DefaultHistoryLimit))
	if err != nil {
		w.log.Error("suggestion failed", "job_id", job.JobID, "session_id", job.SessionID.String(), "error", err)
		return nil
	}
	return w.suggestions.Enqueue(w.ctx, job.SessionID, suggestion)
}
