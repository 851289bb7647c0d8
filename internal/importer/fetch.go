package importer

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"strings"
	"time"
)

const maxRetries = 3

func isRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// open returns the raw bytes of a local file or remote http(s) source.
func (im *Importer) open(ctx context.Context, source string) ([]byte, error) {
	if !isRemote(source) {
		data, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("opening import file: %w", err)
		}
		return data, nil
	}
	return im.fetch(ctx, source)
}

func (im *Importer) fetch(ctx context.Context, source string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	im.logger.Debug("fetching import source", "url", source)

	var resp *http.Response
	requestStart := time.Now()
	for attempt := 0; attempt <= maxRetries; attempt++ {
		resp, err = im.client.Do(req)
		if err != nil {
			if attempt == maxRetries || ctx.Err() != nil {
				im.logger.Error("import fetch transport error", "url", source, "error", err, "elapsed", time.Since(requestStart))
				return nil, fmt.Errorf("fetching import source: %w", err)
			}
			im.logger.Debug("import fetch transport error, retrying", "url", source, "attempt", attempt+1, "error", err)
			if err := sleep(ctx, im.backoff(attempt)); err != nil {
				return nil, err
			}
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			resp.Body.Close()
			if attempt == maxRetries {
				im.logger.Error("import fetch failed after retries", "url", source, "status", resp.StatusCode, "attempts", maxRetries+1, "elapsed", time.Since(requestStart))
				return nil, fmt.Errorf("import source returned status %d after %d retries", resp.StatusCode, maxRetries)
			}
			im.logger.Debug("import fetch retryable status", "url", source, "status", resp.StatusCode, "attempt", attempt+1)
			if err := sleep(ctx, im.backoff(attempt)); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("import source returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading import source: %w", err)
	}

	im.logger.Debug("fetched import source", "url", source, "bytes", len(body), "elapsed", time.Since(requestStart))
	return body, nil
}

func backoff(attempt int) time.Duration {
	return time.Duration(math.Pow(2, float64(attempt))) * time.Second
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
