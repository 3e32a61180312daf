package bot

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/JAssiston43/whatsapp-ai-bot/internal/bus"
	"github.com/JAssiston43/whatsapp-ai-bot/internal/transcript"
)

const failureNotice = "Sorry, I couldn't process that. Please try again."

type Config struct {
	BotName        string
	CreatorInfo    string
	TaskTimeout    time.Duration
	MaxConcurrency int
	QueueSize      int
}

type Dispatcher struct {
	transport Transport
	replier   Replier
	media     MediaClient
	recorder  *transcript.Recorder
	logger    *slog.Logger
	cfg       Config

	sem chan struct{}

	mu      sync.Mutex
	workers map[string]*senderWorker
	wg      sync.WaitGroup
}

type senderWorker struct {
	jobs chan bus.Inbound
}

func NewDispatcher(transport Transport, replier Replier, media MediaClient, recorder *transcript.Recorder, cfg Config, logger *slog.Logger) *Dispatcher {
	if cfg.TaskTimeout <= 0 {
		cfg.TaskTimeout = 2 * time.Minute
	}
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = 3
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 16
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		transport: transport,
		replier:   replier,
		media:     media,
		recorder:  recorder,
		logger:    logger,
		cfg:       cfg,
		sem:       make(chan struct{}, cfg.MaxConcurrency),
		workers:   make(map[string]*senderWorker),
	}
}

// Dispatch enqueues an inbound event onto its sender's worker. Per sender
// the queue is serial; across senders workers run in parallel up to the
// concurrency limit. A full queue drops the event with a warning rather
// than blocking the transport's receive loop.
func (d *Dispatcher) Dispatch(m bus.Inbound) {
	if err := m.Validate(); err != nil {
		d.logger.Warn("inbound_invalid", "error", err.Error())
		return
	}

	d.mu.Lock()
	w, ok := d.workers[m.SenderID]
	if !ok {
		w = &senderWorker{jobs: make(chan bus.Inbound, d.cfg.QueueSize)}
		d.workers[m.SenderID] = w
		d.wg.Add(1)
		go d.runWorker(w)
	}
	d.mu.Unlock()

	select {
	case w.jobs <- m:
	default:
		d.logger.Warn("inbound_dropped", "sender_id", m.SenderID, "message_id", m.ID, "queue_len", len(w.jobs))
	}
}

// Shutdown stops accepting handed-off jobs and waits for workers to drain.
// In-flight provider calls finish under their own task timeout.
func (d *Dispatcher) Shutdown() {
	d.mu.Lock()
	for _, w := range d.workers {
		close(w.jobs)
	}
	d.workers = make(map[string]*senderWorker)
	d.mu.Unlock()
	d.wg.Wait()
}

func (d *Dispatcher) runWorker(w *senderWorker) {
	defer d.wg.Done()
	for m := range w.jobs {
		d.sem <- struct{}{}
		func() {
			defer func() { <-d.sem }()
			ctx, cancel := context.WithTimeout(context.Background(), d.cfg.TaskTimeout)
			defer cancel()
			d.handle(ctx, m)
		}()
	}
}
