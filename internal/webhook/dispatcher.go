// Package webhook notifies callback URLs when transcription jobs finish.
package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

type DeliveryRequest struct {
	ID      uuid.UUID
	JobID   uuid.UUID
	URL     string
	Event   string
	Payload []byte
}

type DeliveryResult struct {
	Status      int
	Err         error
	DeliveredAt *time.Time
}

// Recorder persists delivery attempts.
type Recorder interface {
	Record(ctx context.Context, req DeliveryRequest, res DeliveryResult) error
}

type Dispatcher struct {
	secret     string
	recorder   Recorder
	httpClient *http.Client
	deliveries chan DeliveryRequest
	wg         sync.WaitGroup
	closeOnce  sync.Once
}

// NewDispatcher starts the delivery loop. recorder may be nil.
func NewDispatcher(secret string, recorder Recorder, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	d := &Dispatcher{
		secret:   secret,
		recorder: recorder,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		deliveries: make(chan DeliveryRequest, 1000),
	}
	d.wg.Add(1)
	go d.processLoop()
	return d
}

func (d *Dispatcher) Enqueue(req DeliveryRequest) {
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	select {
	case d.deliveries <- req:
	default:
		slog.Warn("webhook delivery queue full, dropping", "delivery_id", req.ID, "event", req.Event)
	}
}

// Close stops accepting deliveries and waits for queued ones to finish.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() { close(d.deliveries) })
	d.wg.Wait()
}

func (d *Dispatcher) processLoop() {
	defer d.wg.Done()
	for req := range d.deliveries {
		d.deliver(req)
	}
}

func (d *Dispatcher) deliver(req DeliveryRequest) {
	ctx, cancel := context.WithTimeout(context.Background(), d.httpClient.Timeout+5*time.Second)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, req.URL, bytes.NewReader(req.Payload))
	if err != nil {
		slog.Error("webhook request creation failed", "error", err)
		d.record(ctx, req, DeliveryResult{Err: err})
		return
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Webhook-Event", req.Event)
	httpReq.Header.Set("X-Webhook-Signature", Sign(req.Payload, d.secret))
	httpReq.Header.Set("X-Webhook-ID", req.ID.String())

	resp, err := d.httpClient.Do(httpReq)
	if err != nil {
		slog.Error("webhook delivery failed", "error", err, "delivery_id", req.ID)
		d.record(ctx, req, DeliveryResult{Err: err})
		return
	}
	resp.Body.Close()

	res := DeliveryResult{Status: resp.StatusCode}
	if resp.StatusCode < 400 {
		now := time.Now()
		res.DeliveredAt = &now
	} else {
		slog.Warn("webhook received non-success response", "status", resp.StatusCode, "delivery_id", req.ID)
	}
	d.record(ctx, req, res)
}

func (d *Dispatcher) record(ctx context.Context, req DeliveryRequest, res DeliveryResult) {
	if d.recorder == nil {
		return
	}
	if err := d.recorder.Record(ctx, req, res); err != nil {
		slog.Error("failed to record webhook delivery", "error", err)
	}
}

// Sign returns the X-Webhook-Signature value for payload.
func Sign(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return fmt.Sprintf("sha256=%s", hex.EncodeToString(mac.Sum(nil)))
}
