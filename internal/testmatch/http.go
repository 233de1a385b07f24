package testmatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client  *http.Client
	timeout time.Duration
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
	}
}

// Get performs a GET request
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with JSON body
func (c *HTTPClient) Post(ctx context.Context, url string, body interface{}) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// readResponseBody reads and closes the response body
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// waitRetryAfter sleeps for the throttled response's Retry-After interval,
// or one second when the header is missing or malformed.
func waitRetryAfter(ctx context.Context, resp *http.Response) error {
	wait := time.Second
	if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && secs > 0 {
		wait = time.Duration(secs) * time.Second
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(wait):
		return nil
	}
}

// submitMatches submits problem statements concurrently using a worker pool
// and collects the match responses.
func submitMatches(ctx context.Context, config *Config, problems []Problem, stats *Stats) ([]MatchResponse, error) {
	log.Printf("submitting %d problems with %d workers...", len(problems), config.Workers)

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/match"

	var (
		successful int64
		failed     int64
		submitted  int64
	)

	results := make([]MatchResponse, len(problems))
	ok := make([]bool, len(problems))

	var lastReport time.Time

	indexChan := make(chan int, config.Workers*2)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for idx := range indexChan {
				select {
				case <-ctx.Done():
					return
				default:
					resp, err := submitSingleMatch(ctx, client, url, problems[idx])
					atomic.AddInt64(&submitted, 1)
					if err != nil {
						atomic.AddInt64(&failed, 1)
					} else {
						results[idx] = resp
						ok[idx] = true
						atomic.AddInt64(&successful, 1)
					}

					if time.Since(lastReport) >= ReportInterval {
						lastReport = time.Now()
						total := atomic.LoadInt64(&submitted)
						if config.Verbose {
							log.Printf("progress: %d/%d submitted (success: %d, failed: %d)",
								total, len(problems), atomic.LoadInt64(&successful), atomic.LoadInt64(&failed))
						} else {
							fmt.Printf("\rsubmitted: %d/%d (success: %d, failed: %d)",
								total, len(problems), atomic.LoadInt64(&successful), atomic.LoadInt64(&failed))
						}
					}
				}
			}
		}()
	}

	go func() {
		defer close(indexChan)
		for i := range problems {
			select {
			case <-ctx.Done():
				return
			case indexChan <- i:
			}
		}
	}()

	wg.Wait()

	if !config.Verbose {
		fmt.Println()
	}

	stats.MatchesSubmitted = int(atomic.LoadInt64(&submitted))
	stats.MatchesSuccessful = int(atomic.LoadInt64(&successful))
	stats.MatchesFailed = int(atomic.LoadInt64(&failed))

	out := make([]MatchResponse, 0, len(results))
	for i, r := range results {
		if ok[i] {
			out = append(out, r)
		}
	}

	log.Printf("match submission completed: successful=%d failed=%d", stats.MatchesSuccessful, stats.MatchesFailed)
	return out, nil
}

// submitSingleMatch submits one problem and parses the response. Throttled
// responses are retried after the server's Retry-After interval so sustained
// runs spread out over the service's rate-limit window.
func submitSingleMatch(ctx context.Context, client *HTTPClient, url string, p Problem) (MatchResponse, error) {
	var body []byte
	for {
		resp, err := client.Post(ctx, url, map[string]string{"problem_statement": p.Text})
		if err != nil {
			return MatchResponse{}, err
		}

		body, err = readResponseBody(resp)
		if err != nil {
			return MatchResponse{}, err
		}
		if resp.StatusCode == http.StatusTooManyRequests {
			if err := waitRetryAfter(ctx, resp); err != nil {
				return MatchResponse{}, err
			}
			continue
		}
		if resp.StatusCode != StatusOK {
			return MatchResponse{}, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
		}
		break
	}

	var match MatchResponse
	if err := json.Unmarshal(body, &match); err != nil {
		return MatchResponse{}, fmt.Errorf("failed to parse match response: %w", err)
	}
	return match, nil
}

// fetchTags retrieves the declared roster tags from the service.
func fetchTags(ctx context.Context, config *Config) ([]string, error) {
	client := newHTTPClient(config.Timeout)

	resp, err := client.Get(ctx, config.BaseURL+"/tags")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tags: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != StatusOK {
		return nil, fmt.Errorf("unexpected status %d fetching tags", resp.StatusCode)
	}

	var tags TagsResponse
	if err := json.Unmarshal(body, &tags); err != nil {
		return nil, fmt.Errorf("failed to parse tags response: %w", err)
	}
	return tags.Tags, nil
}

// reassign issues a reassignment against a live session.
func reassign(ctx context.Context, client *HTTPClient, baseURL, sessionID string, tags []string, from, to string) (ReassignResponse, error) {
	payload := map[string]interface{}{"from": from, "to": to}
	if len(tags) > 0 {
		payload["tags"] = tags
	}

	var body []byte
	for {
		resp, err := client.Post(ctx, baseURL+"/sessions/"+sessionID+"/reassign", payload)
		if err != nil {
			return ReassignResponse{}, err
		}

		body, err = readResponseBody(resp)
		if err != nil {
			return ReassignResponse{}, err
		}
		if resp.StatusCode == http.StatusTooManyRequests {
			if err := waitRetryAfter(ctx, resp); err != nil {
				return ReassignResponse{}, err
			}
			continue
		}
		if resp.StatusCode != StatusOK {
			return ReassignResponse{}, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
		}
		break
	}

	var out ReassignResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return ReassignResponse{}, fmt.Errorf("failed to parse reassign response: %w", err)
	}
	return out, nil
}
