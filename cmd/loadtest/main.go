package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
)

// Нагрузочный сценарий: каждый worker в цикле наполняет корзину и
// оформляет заказ, затем читает страницу завершения.
type config struct {
	baseURL     string
	workers     int
	duration    time.Duration
	promoCode   string
	csrfToken   string
	httpTimeout time.Duration
}

type counters struct {
	completed int64
	rejected  int64
	failed    int64
}

func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetLevel(log.InfoLevel)

	var cfg config
	flag.StringVar(&cfg.baseURL, "base-url", "http://localhost:8080", "checkout service base URL")
	flag.IntVar(&cfg.workers, "workers", 4, "number of concurrent workers")
	flag.DurationVar(&cfg.duration, "duration", 30*time.Second, "test duration")
	flag.StringVar(&cfg.promoCode, "promo", "FREE", "promo code to submit")
	flag.StringVar(&cfg.csrfToken, "csrf-token", "loadtest-token", "anti-forgery token value")
	flag.DurationVar(&cfg.httpTimeout, "http-timeout", 5*time.Second, "per-request timeout")
	flag.Parse()

	if cfg.workers <= 0 {
		fail("workers must be > 0")
	}
	if cfg.duration <= 0 {
		fail("duration must be > 0")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, cfg.duration)
	defer cancel()

	log.WithFields(log.Fields{
		"base_url": cfg.baseURL,
		"workers":  cfg.workers,
		"duration": cfg.duration,
	}).Info("starting checkout load test")

	var stats counters
	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < cfg.workers; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			runWorker(ctx, cfg, worker, &stats)
		}(i)
	}
	wg.Wait()

	elapsed := time.Since(start).Seconds()
	total := stats.completed + stats.rejected + stats.failed
	log.WithFields(log.Fields{
		"completed": stats.completed,
		"rejected":  stats.rejected,
		"failed":    stats.failed,
		"rps":       fmt.Sprintf("%.1f", float64(total)/elapsed),
	}).Info("load test finished")
}

func runWorker(ctx context.Context, cfg config, worker int, stats *counters) {
	client := &http.Client{Timeout: cfg.httpTimeout}
	identity := fmt.Sprintf("loadtest-user-%d", worker)

	for iteration := 0; ctx.Err() == nil; iteration++ {
		sessionID := fmt.Sprintf("loadtest-%d-%d", worker, iteration)
		if err := runScenario(ctx, client, cfg, identity, sessionID, stats); err != nil {
			if ctx.Err() != nil {
				return
			}
			atomic.AddInt64(&stats.failed, 1)
			log.WithError(err).WithField("session_id", sessionID).Warn("scenario failed")
		}
	}
}

func runScenario(ctx context.Context, client *http.Client, cfg config, identity, sessionID string, stats *counters) error {
	addBody := map[string]any{
		"session_id": sessionID,
		"album_id":   1,
		"count":      1,
	}
	if _, err := doJSON(ctx, client, cfg, identity, http.MethodPost, "/cart/items", addBody); err != nil {
		return fmt.Errorf("add cart item: %w", err)
	}

	submitBody := map[string]any{
		"session_id": sessionID,
		"promo_code": cfg.promoCode,
		"order": map[string]string{
			"name":        "Load Tester",
			"address":     "1 Main St",
			"city":        "Springfield",
			"state":       "WA",
			"postal_code": "98052",
			"country":     "USA",
			"phone":       "555-0100",
			"email":       "loadtest@example.com",
		},
	}
	response, err := doJSON(ctx, client, cfg, identity, http.MethodPost, "/checkout", submitBody)
	if err != nil {
		return fmt.Errorf("submit checkout: %w", err)
	}

	var outcome struct {
		OrderID  int64  `json:"order_id"`
		Rejected bool   `json:"rejected"`
		Reason   string `json:"reason"`
	}
	if err := json.Unmarshal(response, &outcome); err != nil {
		return fmt.Errorf("decode submit response: %w", err)
	}

	if outcome.Rejected {
		atomic.AddInt64(&stats.rejected, 1)
		return nil
	}

	path := fmt.Sprintf("/checkout/complete/%d", outcome.OrderID)
	if _, err := doJSON(ctx, client, cfg, identity, http.MethodGet, path, nil); err != nil {
		return fmt.Errorf("read completion: %w", err)
	}

	atomic.AddInt64(&stats.completed, 1)
	return nil
}

func doJSON(ctx context.Context, client *http.Client, cfg config, identity, method, path string, body any) ([]byte, error) {
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, cfg.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Checkout-User", identity)
	req.Header.Set("X-Csrf-Token", cfg.csrfToken)
	req.AddCookie(&http.Cookie{Name: "csrf_token", Value: cfg.csrfToken})

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("%s %s: unexpected status %d: %s", method, path, resp.StatusCode, buf.String())
	}

	return buf.Bytes(), nil
}

func fail(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
