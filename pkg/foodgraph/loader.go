package foodgraph

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/tablescape/foodweb/pkg/errors"
	"github.com/tablescape/foodweb/pkg/observability"
)

// maxDatasetBytes bounds the dataset read. The conceptual dataset is a few
// hundred kilobytes; anything larger is a wrong file, not a bigger graph.
const maxDatasetBytes = 32 << 20

// Load fetches and shallow-validates a dataset from a file path or
// http(s) URL. It is a single attempt: no retry, no refetch on failure.
//
// Error codes:
//   - FETCH_FAILED: request failed, non-2xx status, or unreadable file
//   - PARSE_FAILED: payload is not valid JSON
//   - SCHEMA_INVALID: shape validation failed
//
// On any failure no partial state is returned.
func Load(ctx context.Context, source string) (*Dataset, error) {
	observability.Loader().OnFetchStart(ctx, source)
	start := time.Now()
	data, err := fetch(ctx, source)
	observability.Loader().OnFetchComplete(ctx, source, len(data), time.Since(start), err)
	if err != nil {
		return nil, err
	}

	ds, err := Decode(data)
	if err != nil {
		observability.Loader().OnDecodeComplete(ctx, 0, 0, err)
		return nil, err
	}
	observability.Loader().OnDecodeComplete(ctx, len(ds.Nodes), len(ds.Links), nil)
	return ds, nil
}

// Decode parses and shallow-validates raw dataset bytes.
// Split from Load so tests and the HTTP server can feed bytes directly.
func Decode(data []byte) (*Dataset, error) {
	var raw struct {
		Nodes []json.RawMessage `json:"nodes"`
		Links []json.RawMessage `json:"links"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "dataset is not valid JSON")
	}

	if len(raw.Nodes) == 0 {
		return nil, errors.New(errors.ErrCodeSchema, "dataset has no nodes")
	}
	if len(raw.Links) == 0 {
		return nil, errors.New(errors.ErrCodeSchema, "dataset has no links")
	}

	ds := &Dataset{
		Nodes: make([]Node, 0, len(raw.Nodes)),
		Links: make([]Link, 0, len(raw.Links)),
	}

	for i, msg := range raw.Nodes {
		var n Node
		if err := json.Unmarshal(msg, &n); err != nil {
			return nil, errors.Wrap(errors.ErrCodeSchema, err, "node %d has invalid shape", i)
		}
		if n.ID == "" || n.Group == "" || n.Label == "" {
			return nil, errors.New(errors.ErrCodeSchema, "node %d missing id, group, or label", i)
		}
		ds.Nodes = append(ds.Nodes, n)
	}

	for i, msg := range raw.Links {
		var l Link
		if err := json.Unmarshal(msg, &l); err != nil {
			// Covers examples-is-not-a-sequence along with any other
			// field of the wrong JSON kind.
			return nil, errors.Wrap(errors.ErrCodeSchema, err, "link %d has invalid shape", i)
		}
		if l.SourceID == "" || l.TargetID == "" || l.Type == "" {
			return nil, errors.New(errors.ErrCodeSchema, "link %d missing source, target, or type", i)
		}
		ds.Links = append(ds.Links, l)
	}

	return ds, nil
}

// fetch reads the dataset bytes from a URL or the local filesystem.
func fetch(ctx context.Context, source string) ([]byte, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return fetchHTTP(ctx, source)
	}

	data, err := os.ReadFile(source)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFetch, err, "read dataset %s", source)
	}
	return data, nil
}

func fetchHTTP(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFetch, err, "build request for %s", url)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFetch, err, "fetch dataset %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.New(errors.ErrCodeFetch, "fetch dataset %s: %s", url, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDatasetBytes))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFetch, err, "read dataset body from %s", url)
	}
	return data, nil
}

// LoadGraph is a convenience wrapper: Load then BuildGraph.
func LoadGraph(ctx context.Context, source string) (*Graph, error) {
	ds, err := Load(ctx, source)
	if err != nil {
		return nil, err
	}
	return BuildGraph(ds), nil
}
