package source

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"autosales/internal/core"
)

// CSVLoader reads the sales table from an http(s) URL or a local file.
type CSVLoader struct {
	location string
	client   *resty.Client
}

var (
	_ DatasetLoader = (*CSVLoader)(nil)
	_ Named         = (*CSVLoader)(nil)
)

// NewCSVLoader builds a loader for location. Remote fetches use timeout and
// are retried twice on transport errors and 5xx responses.
func NewCSVLoader(location string, timeout time.Duration) *CSVLoader {
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(3 * time.Second).
		SetHeader("Accept", "text/csv, text/plain, */*").
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= 500
		})

	return &CSVLoader{location: strings.TrimSpace(location), client: client}
}

func (l *CSVLoader) Source() string { return l.location }

// Load fetches and parses the table.
func (l *CSVLoader) Load(ctx context.Context) ([]core.SalesRecord, error) {
	body, err := l.read(ctx)
	if err != nil {
		return nil, err
	}
	records, err := ParseCSV(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", l.location, err)
	}
	return records, nil
}

func (l *CSVLoader) read(ctx context.Context) ([]byte, error) {
	u, err := url.Parse(l.location)
	if err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return l.fetch(ctx)
	}

	path := l.location
	if err == nil && u.Scheme == "file" {
		path = u.Path
	}
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset file: %w", err)
	}
	return body, nil
}

func (l *CSVLoader) fetch(ctx context.Context) ([]byte, error) {
	resp, err := l.client.R().SetContext(ctx).Get(l.location)
	if err != nil {
		return nil, fmt.Errorf("fetch dataset: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetch dataset: unexpected status %s", resp.Status())
	}
	return resp.Body(), nil
}
