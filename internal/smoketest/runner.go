// Package smoketest drives a running server through submissions and checks
// that its leaderboards agree with the local stat generator.
package smoketest

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/radar/internal/domain/stats"
	"github.com/okian/radar/pkg/logger"
)

// Run executes the complete smoke test.
func Run(ctx context.Context, config Config) (*Report, error) {
	report := &Report{StartTime: time.Now()}
	log := logger.Get().Named("smoketest")

	if config.Workers < 1 {
		config.Workers = 1
	}
	if config.Names < 1 {
		return nil, fmt.Errorf("names must be positive, got %d", config.Names)
	}

	log.Info(ctx, "starting smoke test",
		logger.String("baseURL", config.BaseURL),
		logger.Int("names", config.Names),
		logger.Int("workers", config.Workers),
		logger.Duration("timeout", config.Timeout))

	client := newHTTPClient(config.BaseURL, config.Timeout)

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, client); err != nil {
		return nil, fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Generate names and a photo
	names := generateNames(config.Prefix, config.Names)
	report.NamesGenerated = len(names)
	photo, err := photoPNG()
	if err != nil {
		return nil, fmt.Errorf("photo generation failed: %w", err)
	}

	// Step 3: Submit concurrently
	succeeded := submitAll(ctx, client, config, names, photo, report, log)
	if report.Failed > 0 {
		return report, fmt.Errorf("%d of %d submissions failed", report.Failed, report.Submitted)
	}

	// Step 4: Verify every category board
	if err := verifyBoards(ctx, client, config, succeeded, report); err != nil {
		return report, fmt.Errorf("result verification failed: %w", err)
	}

	report.EndTime = time.Now()
	report.Duration = report.EndTime.Sub(report.StartTime)
	log.Info(ctx, "smoke test completed",
		logger.Int("submitted", report.Submitted),
		logger.Int("succeeded", report.Succeeded),
		logger.Int("boardsChecked", report.BoardsChecked),
		logger.Int("entriesVerified", report.EntriesVerified),
		logger.Duration("duration", report.Duration))
	return report, nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, client *HTTPClient) error {
	resp, err := client.Get(ctx, "/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	_, _ = readResponseBody(resp)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return nil
}

// submitAll posts every name through a worker pool and returns the names the
// server accepted.
func submitAll(ctx context.Context, client *HTTPClient, config Config, names []string, photo []byte, report *Report, log logger.Logger) []string {
	var (
		submitted int64
		failed    int64
		mu        sync.Mutex
		accepted  = make([]string, 0, len(names))
	)

	nameCh := make(chan string, config.Workers*2)
	var wg sync.WaitGroup
	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for name := range nameCh {
				atomic.AddInt64(&submitted, 1)
				if err := client.Submit(ctx, name, photo); err != nil {
					atomic.AddInt64(&failed, 1)
					log.Warn(ctx, "submission failed", logger.String("name", name), logger.Error(err))
					continue
				}
				if config.Verbose {
					log.Info(ctx, "submitted", logger.String("name", name))
				}
				mu.Lock()
				accepted = append(accepted, name)
				mu.Unlock()
			}
		}()
	}

	go func() {
		defer close(nameCh)
		for _, name := range names {
			select {
			case <-ctx.Done():
				return
			case nameCh <- name:
			}
		}
	}()
	wg.Wait()

	report.Submitted = int(atomic.LoadInt64(&submitted))
	report.Failed = int(atomic.LoadInt64(&failed))
	report.Succeeded = len(accepted)
	return accepted
}

// verifyBoards fetches every category board and checks it against names.
func verifyBoards(ctx context.Context, client *HTTPClient, config Config, names []string, report *Report) error {
	submitted := make(map[string]bool, len(names))
	for _, n := range names {
		submitted[n] = true
	}

	for _, c := range stats.Categories() {
		entries, err := client.Board(ctx, c.String(), config.Limit)
		if err != nil {
			return err
		}
		n, err := verifyBoard(c, entries, submitted)
		if err != nil {
			return err
		}
		if len(names) > 0 {
			if len(entries) == 0 {
				return fmt.Errorf("%s: board is empty after %d submissions", c, len(names))
			}
			if top := expectedTop(c, names); entries[0].Value < top {
				return fmt.Errorf("%s: board top %d is below submitted best %d", c, entries[0].Value, top)
			}
		}
		report.BoardsChecked++
		report.EntriesVerified += n
	}
	return nil
}
