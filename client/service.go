package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const serviceProbeInterval = time.Millisecond * 100

// AwaitService polls serviceURL until it answers any HTTP response, or until the timeout
// elapses. A 404 still counts as a running service, since the player API has nothing mounted
// at its root. Progress messages go to out.
func AwaitService(ctx context.Context, serviceURL string, timeout time.Duration, out io.Writer) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	fmt.Fprintf(out, "Waiting for service at %s\n", serviceURL)
	var lastErr error
	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, serviceURL, nil)
		if err != nil {
			return err
		}
		resp, err := http.DefaultClient.Do(req)
		if err == nil {
			_ = resp.Body.Close()
			fmt.Fprintf(out, "Service responded with status %d\n", resp.StatusCode)
			return nil
		}
		lastErr = err
		select {
		case <-ctx.Done():
			return fmt.Errorf("service at %s did not respond within %s; result of last query was: %w",
				serviceURL, timeout, lastErr)
		case <-time.After(serviceProbeInterval):
		}
	}
}
