// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package webhook

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Delivery configuration constants
const (
	MaxAttempts    = 3
	InitialBackoff = 2 * time.Second
	MaxBackoff     = time.Minute
	RequestTimeout = 10 * time.Second
	MaxResponseLen = 1024
	UserAgent      = "churchcms-webhook/1.0"
)

// DeliveryResult represents the result of a delivery attempt.
type DeliveryResult struct {
	Success     bool
	StatusCode  int
	Error       error
	ShouldRetry bool
}

func newDeliveryID() string {
	return uuid.NewString()
}

// processDelivery posts a delivery, retrying transient failures with
// exponential backoff until maxAttempts or ctx ends.
func (d *Dispatcher) processDelivery(ctx context.Context, delivery *queuedDelivery) {
	for attempt := 1; ; attempt++ {
		result := d.attemptDelivery(ctx, delivery)
		if result.Success {
			d.logger.Info("webhook delivered",
				"delivery_id", delivery.id,
				"event", delivery.event,
				"status_code", result.StatusCode)
			return
		}

		if !result.ShouldRetry || attempt >= d.maxAttempts {
			d.logger.Warn("webhook delivery failed",
				"delivery_id", delivery.id,
				"event", delivery.event,
				"url", delivery.url,
				"attempts", attempt,
				"error", result.Error)
			return
		}

		backoff := calculateBackoff(d.initialBackoff, attempt)
		d.logger.Debug("webhook delivery retry scheduled",
			"delivery_id", delivery.id,
			"attempt", attempt,
			"backoff", backoff.String())

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			d.logger.Warn("webhook delivery abandoned", "delivery_id", delivery.id, "event", delivery.event)
			return
		case <-timer.C:
		}
	}
}

// attemptDelivery performs one HTTP POST.
func (d *Dispatcher) attemptDelivery(ctx context.Context, delivery *queuedDelivery) DeliveryResult {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, delivery.url, bytes.NewReader(delivery.payload))
	if err != nil {
		return DeliveryResult{Error: fmt.Errorf("failed to create request: %w", err)}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("X-Webhook-Signature", SignatureHeader(delivery.payload, d.secret))
	req.Header.Set("X-Webhook-Event", delivery.event)
	req.Header.Set("X-Webhook-Delivery-ID", delivery.id)

	resp, err := d.client.Do(req)
	if err != nil {
		return DeliveryResult{Error: fmt.Errorf("request failed: %w", err), ShouldRetry: ctx.Err() == nil}
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, MaxResponseLen))

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return DeliveryResult{Success: true, StatusCode: resp.StatusCode}
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return DeliveryResult{
			StatusCode:  resp.StatusCode,
			Error:       fmt.Errorf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
			ShouldRetry: resp.StatusCode == http.StatusRequestTimeout || resp.StatusCode == http.StatusTooManyRequests,
		}
	default:
		return DeliveryResult{
			StatusCode:  resp.StatusCode,
			Error:       fmt.Errorf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
			ShouldRetry: true,
		}
	}
}

// calculateBackoff returns initial * 2^(attempt-1), capped at MaxBackoff.
func calculateBackoff(initial time.Duration, attempt int) time.Duration {
	if attempt <= 0 {
		attempt = 1
	}
	backoff := time.Duration(float64(initial) * math.Pow(2, float64(attempt-1)))
	if backoff > MaxBackoff {
		backoff = MaxBackoff
	}
	return backoff
}
