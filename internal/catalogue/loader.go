package catalogue

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"compgrip/internal/domain"
)

// Loader fetches and parses a component list from a URL or a local file
type Loader interface {
	Load(ctx context.Context, source string) (*domain.Catalogue, error)
}

type loader struct {
	client *http.Client
}

// NewLoader creates a loader. A nil client uses a client with a 30s timeout.
func NewLoader(client *http.Client) Loader {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &loader{client: client}
}

// IsRemote reports whether source is fetched over HTTP
func IsRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// Load reads the component list from source
func (l *loader) Load(ctx context.Context, source string) (*domain.Catalogue, error) {
	if source == "" {
		return nil, fmt.Errorf("no component list source configured")
	}
	start := time.Now()

	var (
		cat *domain.Catalogue
		err error
	)
	if IsRemote(source) {
		cat, err = l.fetch(ctx, source)
	} else {
		cat, err = l.readFile(source)
	}
	if err != nil {
		return nil, err
	}

	log.Printf("Loaded component list from %s (%d components) in %v", source, len(cat.Components()), time.Since(start))
	return cat, nil
}

func (l *loader) fetch(ctx context.Context, url string) (*domain.Catalogue, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download component list: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download component list: %s", resp.Status)
	}
	return Parse(resp.Body)
}

func (l *loader) readFile(path string) (*domain.Catalogue, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open component list: %w", err)
	}
	defer f.Close()
	return Parse(f)
}
