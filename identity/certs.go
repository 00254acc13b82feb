package identity

import (
	"context"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"sync"
	"time"

	resty "github.com/go-resty/resty/v2"
)

// defaultCertEndpoint serves the x509 certificates Google signs Firebase ID
// tokens with, as a JSON object keyed by key ID.
const defaultCertEndpoint = "https://www.googleapis.com/robot/v1/metadata/x509/securetoken@system.gserviceaccount.com"

// defaultCertTTL is used when the certificate response carries no max-age.
const defaultCertTTL = time.Hour

var maxAgeRe = regexp.MustCompile(`max-age=(\d+)`)

// certSource fetches and caches Google's token-signing certificates.
// The cache honors the max-age of the certificate response, so rotated
// keys are picked up without restarting the process.
type certSource struct {
	client *resty.Client

	mu      sync.RWMutex
	keys    map[string]*rsa.PublicKey
	expires time.Time
}

func newCertSource(endpoint string) *certSource {
	return &certSource{
		client: resty.New().SetBaseURL(endpoint),
	}
}

// key returns the public key for the given key ID, refreshing the cache
// when it is stale or the key ID is unknown.
func (c *certSource) key(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	c.mu.RLock()
	if time.Now().Before(c.expires) {
		if k, found := c.keys[kid]; found {
			c.mu.RUnlock()
			return k, nil
		}
	}
	c.mu.RUnlock()

	if err := c.refresh(ctx); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	k, found := c.keys[kid]
	if !found {
		return nil, fmt.Errorf("signing key %q not found", kid)
	}
	return k, nil
}

func (c *certSource) refresh(ctx context.Context) error {
	var raw map[string]string
	resp, err := c.client.R().
		SetContext(ctx).
		SetResult(&raw).
		Get("")
	if err != nil {
		return fmt.Errorf("fetch signing certificates: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("fetch signing certificates: http %d", resp.StatusCode())
	}

	keys := make(map[string]*rsa.PublicKey, len(raw))
	for kid, certPEM := range raw {
		key, parseErr := parseCertKey(certPEM)
		if parseErr != nil {
			return fmt.Errorf("parse certificate %q: %w", kid, parseErr)
		}
		keys[kid] = key
	}

	c.mu.Lock()
	c.keys = keys
	c.expires = time.Now().Add(certTTL(resp.Header().Get("Cache-Control")))
	c.mu.Unlock()

	return nil
}

func parseCertKey(certPEM string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(certPEM))
	if block == nil {
		return nil, fmt.Errorf("no PEM block found")
	}

	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return nil, err
	}

	key, ok := cert.PublicKey.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("certificate key is %T, want *rsa.PublicKey", cert.PublicKey)
	}
	return key, nil
}

func certTTL(cacheControl string) time.Duration {
	m := maxAgeRe.FindStringSubmatch(cacheControl)
	if len(m) != 2 {
		return defaultCertTTL
	}
	seconds, err := strconv.Atoi(m[1])
	if err != nil || seconds <= 0 {
		return defaultCertTTL
	}
	return time.Duration(seconds) * time.Second
}
