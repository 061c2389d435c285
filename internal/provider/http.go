package provider

import (
	"io"
	"net/http"

	"github.com/pkg/errors"
)

// UserAgent is sent on requests to sites that reject default Go clients.
const UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/100.0.4896.127 Safari/537.36"

// Get performs a blocking GET and returns the response body. A non-2xx
// status is an error. Cancellation and timeouts come from the request
// context; no retries are performed here.
func Get(req *http.Request, client *http.Client) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch %s", req.URL)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, errors.Errorf("unexpected status code %d from %s", resp.StatusCode, req.URL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response body")
	}

	return body, nil
}
