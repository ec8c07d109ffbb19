package transport

import (
	"compress/flate"
	"compress/gzip"
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/Rasak123/betting-predictor/internal/logger"
	"github.com/andybalholm/brotli"
)

var httpClient *http.Client

// getExtraCABundle returns an additional CA bundle when one is configured.
// Corporate proxies that re-sign TLS traffic need their root appended or
// every provider call fails certificate verification.
func getExtraCABundle() ([]byte, error) {
	bundlePath := os.Getenv("EXTRA_CA_BUNDLE")
	if bundlePath == "" {
		return nil, nil
	}

	caCert, err := os.ReadFile(bundlePath)
	if err != nil {
		logger.Warn("Failed to read extra CA bundle", err)
		return nil, err
	}

	return caCert, nil
}

// GetHTTPClient returns the shared HTTP client with custom TLS configuration.
func GetHTTPClient() (*http.Client, error) {
	if httpClient != nil {
		return httpClient, nil
	}

	rootCAs, err := x509.SystemCertPool()
	if err != nil {
		logger.Warn("Failed to get system cert pool", err)
		rootCAs = x509.NewCertPool()
	}

	if extraCert, err := getExtraCABundle(); err == nil && extraCert != nil {
		if ok := rootCAs.AppendCertsFromPEM(extraCert); !ok {
			logger.Warn("Failed to append extra CA certificate")
		}
	}

	customTransport := &http.Transport{
		TLSClientConfig: &tls.Config{
			RootCAs: rootCAs,
		},
		Proxy: http.ProxyFromEnvironment,
	}

	httpClient = &http.Client{
		Transport: customTransport,
		Timeout:   30 * time.Second,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return fmt.Errorf("stopped after 10 redirects")
			}
			return nil
		},
	}
	return httpClient, nil
}

// Get fetches a URL with the shared client, sending the given headers and
// transparently decoding gzip, deflate and brotli response bodies.
func Get(ctx context.Context, url string, headers map[string]string) ([]byte, *http.Response, error) {
	client, err := GetHTTPClient()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept-Encoding", "gzip, deflate, br")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := decodeBody(resp)
	if err != nil {
		return nil, resp, err
	}
	return data, resp, nil
}

// GetHTML fetches a URL presenting browser-like headers, for pages that
// refuse obvious non-browser clients.
func GetHTML(ctx context.Context, url string) ([]byte, error) {
	data, resp, err := Get(ctx, url, map[string]string{
		"User-Agent": "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
		"Accept":     "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		"Referer":    "http://www.google.com/",
	})
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("request returned error status %d", resp.StatusCode)
	}
	return data, nil
}

// decodeBody reads the response body, unwrapping any Content-Encoding.
func decodeBody(resp *http.Response) ([]byte, error) {
	var reader io.ReadCloser = resp.Body

	switch encoding := resp.Header.Get("Content-Encoding"); encoding {
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	case "deflate":
		fl := flate.NewReader(resp.Body)
		defer fl.Close()
		reader = fl
	case "br":
		reader = io.NopCloser(brotli.NewReader(resp.Body))
	case "":
		// identity
	default:
		logger.Warn("Unknown content encoding:", encoding)
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return data, nil
}
