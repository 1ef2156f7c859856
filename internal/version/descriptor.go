package version

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/conneroisu/termfolio/internal/errors"
)

// maxDescriptorSize bounds how much of a descriptor is read.
const maxDescriptorSize = 1 << 20

// Descriptor is the subset of a package.json that the terminal cares about.
type Descriptor struct {
	Name    string `json:"name,omitempty"`
	Version string `json:"version"`
}

// Source fetches the portfolio's descriptor.
type Source interface {
	Fetch(ctx context.Context) (Descriptor, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) (Descriptor, error)

// Fetch calls f(ctx).
func (f SourceFunc) Fetch(ctx context.Context) (Descriptor, error) {
	return f(ctx)
}

// ParseDescriptor decodes a descriptor and checks that it carries a version.
func ParseDescriptor(data []byte) (Descriptor, error) {
	var d Descriptor
	if err := json.Unmarshal(data, &d); err != nil {
		return Descriptor{}, errors.ParseError("DESCRIPTOR", "invalid JSON", err)
	}
	d.Version = strings.TrimSpace(d.Version)
	if d.Version == "" {
		return Descriptor{}, errors.ParseError("DESCRIPTOR", "missing version field", nil)
	}
	return d, nil
}

// FileSource reads the descriptor from the local filesystem.
type FileSource struct {
	Path string
}

func (s FileSource) Fetch(ctx context.Context) (Descriptor, error) {
	if err := ctx.Err(); err != nil {
		return Descriptor{}, err
	}
	f, err := os.Open(s.Path)
	if err != nil {
		return Descriptor{}, errors.FileOperationError("READ", s.Path, "cannot open descriptor", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxDescriptorSize))
	if err != nil {
		return Descriptor{}, errors.FileOperationError("READ", s.Path, "cannot read descriptor", err)
	}
	return ParseDescriptor(data)
}

// HTTPSource fetches the descriptor with a GET request.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

func (s HTTPSource) Fetch(ctx context.Context) (Descriptor, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return Descriptor{}, errors.NetworkError("REQUEST", s.URL, "cannot build request", err)
	}
	req.Header.Set("Accept", "application/json")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return Descriptor{}, errors.NetworkError("FETCH", s.URL, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Descriptor{}, errors.NetworkError("FETCH", s.URL, fmt.Sprintf("unexpected status %d", resp.StatusCode), nil).
			WithContext("status", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDescriptorSize))
	if err != nil {
		return Descriptor{}, errors.NetworkError("FETCH", s.URL, "cannot read body", err)
	}
	return ParseDescriptor(data)
}

// NewSource picks a source for location: http and https URLs are fetched,
// anything else is treated as a file path. The timeout applies to HTTP
// requests only.
func NewSource(location string, timeout time.Duration) (Source, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, errors.ConfigurationError("version.source", "must not be empty", location)
	}

	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		u, err := url.Parse(location)
		if err != nil || u.Host == "" {
			return nil, errors.ConfigurationError("version.source", "invalid URL", location)
		}
		return HTTPSource{URL: u.String(), Client: &http.Client{Timeout: timeout}}, nil
	}

	return FileSource{Path: location}, nil
}
