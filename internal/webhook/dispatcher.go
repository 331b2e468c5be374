// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package webhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/olegiv/churchcms/internal/util"
)

// Dispatcher queues events and delivers them from a fixed worker pool.
type Dispatcher struct {
	endpoints []string
	secret    string
	client    *http.Client
	logger    *slog.Logger

	maxAttempts    int
	initialBackoff time.Duration

	queue   chan *queuedDelivery
	workers int
	wg      sync.WaitGroup
	mu      sync.RWMutex
	running bool
	stopCtx context.Context
	stop    context.CancelFunc
}

type queuedDelivery struct {
	id      string
	event   string
	url     string
	payload []byte
}

// Config holds dispatcher configuration.
type Config struct {
	URLs           []string
	Secret         string
	Workers        int
	QueueSize      int
	MaxAttempts    int
	InitialBackoff time.Duration
	// Client overrides the SSRF-guarded default client.
	Client *http.Client
}

// DefaultConfig returns default dispatcher configuration.
func DefaultConfig() Config {
	return Config{
		Workers:        3,
		QueueSize:      100,
		MaxAttempts:    MaxAttempts,
		InitialBackoff: InitialBackoff,
	}
}

// NewDispatcher validates cfg.URLs and returns a stopped dispatcher.
// URLs that fail validation are skipped with a warning.
func NewDispatcher(cfg Config, logger *slog.Logger) *Dispatcher {
	def := DefaultConfig()
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = def.QueueSize
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = def.InitialBackoff
	}
	if logger == nil {
		logger = slog.Default()
	}

	client := cfg.Client
	var endpoints []string
	for _, u := range cfg.URLs {
		if u == "" {
			continue
		}
		// A custom client is only injected by tests pointing at loopback servers.
		if client == nil {
			if err := util.ValidateWebhookURL(u); err != nil {
				logger.Warn("skipping webhook URL", "url", u, "error", err)
				continue
			}
		}
		endpoints = append(endpoints, u)
	}
	if client == nil {
		client = newSafeClient()
	}

	return &Dispatcher{
		endpoints:      endpoints,
		secret:         cfg.Secret,
		client:         client,
		logger:         logger,
		maxAttempts:    cfg.MaxAttempts,
		initialBackoff: cfg.InitialBackoff,
		queue:          make(chan *queuedDelivery, cfg.QueueSize),
		workers:        cfg.Workers,
	}
}

func newSafeClient() *http.Client {
	dialer := &net.Dialer{Timeout: 10 * time.Second, KeepAlive: 30 * time.Second}
	return &http.Client{
		Timeout: RequestTimeout,
		Transport: &http.Transport{
			DialContext:         util.SSRFSafeDialContext(dialer),
			MaxIdleConns:        20,
			MaxIdleConnsPerHost: 5,
			IdleConnTimeout:     90 * time.Second,
		},
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// Enabled reports whether any endpoint is configured.
func (d *Dispatcher) Enabled() bool {
	return len(d.endpoints) > 0
}

// Start starts the dispatcher workers.
func (d *Dispatcher) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running {
		return
	}
	d.running = true
	d.stopCtx, d.stop = context.WithCancel(context.Background())

	d.logger.Info("starting webhook dispatcher", "workers", d.workers, "endpoints", len(d.endpoints))
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(i)
	}
}

// Stop stops accepting events, delivers what is queued and waits for the
// workers. Retries still pending when ctx ends are abandoned.
func (d *Dispatcher) Stop(ctx context.Context) {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	d.running = false
	close(d.queue)
	d.mu.Unlock()

	d.logger.Info("stopping webhook dispatcher")
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		d.stop()
		<-done
	}
	d.stop()
	d.logger.Info("webhook dispatcher stopped")
}

func (d *Dispatcher) worker(id int) {
	defer d.wg.Done()
	d.logger.Debug("webhook worker started", "worker_id", id)

	for delivery := range d.queue {
		d.processDelivery(d.stopCtx, delivery)
	}
	d.logger.Debug("webhook worker stopping", "worker_id", id)
}

// Dispatch queues event for every configured endpoint. It never blocks: when
// the queue is full the delivery is dropped with a warning.
func (d *Dispatcher) Dispatch(_ context.Context, event *Event) error {
	if !d.Enabled() {
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		d.logger.Error("failed to marshal event payload", "error", err, "event_type", event.Type)
		return err
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if !d.running {
		d.logger.Warn("dispatcher not running, cannot dispatch event", "event_type", event.Type)
		return nil
	}

	for _, u := range d.endpoints {
		qd := &queuedDelivery{id: newDeliveryID(), event: event.Type, url: u, payload: payload}
		select {
		case d.queue <- qd:
			d.logger.Debug("delivery queued", "delivery_id", qd.id, "event", event.Type)
		default:
			d.logger.Warn("delivery queue full, dropping delivery", "event", event.Type, "url", u)
		}
	}
	return nil
}

// DispatchEvent dispatches an event with the given type and data.
func (d *Dispatcher) DispatchEvent(ctx context.Context, eventType string, data any) error {
	return d.Dispatch(ctx, NewEvent(eventType, data))
}

// GenerateSignature returns the hex HMAC-SHA256 of payload.
func GenerateSignature(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// SignatureHeader formats the X-Webhook-Signature header value.
func SignatureHeader(payload []byte, secret string) string {
	return "sha256=" + GenerateSignature(payload, secret)
}

// VerifySignature checks a header value produced by SignatureHeader.
func VerifySignature(payload []byte, header, secret string) bool {
	return hmac.Equal([]byte(header), []byte(SignatureHeader(payload, secret)))
}
