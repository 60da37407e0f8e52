package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/elastic/go-elasticsearch/v9"
)

type Config struct {
	URL      string
	User     string
	Password string
}

func NewClient(ctx context.Context, cfg Config, l *slog.Logger) (*elasticsearch.Client, error) {
	l.Info("es_connecting", "url", cfg.URL, "user", cfg.User)

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.User,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("es: new client: %w", err)
	}

	res, err := client.Info(client.Info.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("es: info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("es: info: %s: %s", res.Status(), body)
	}

	l.Info("es_connected")
	return client, nil
}

// Document is one row indexed under ID.
type Document struct {
	ID     string
	Source any
}

type Indexer struct {
	client *elasticsearch.Client
	index  string
}

func NewIndexer(client *elasticsearch.Client, index string) *Indexer {
	return &Indexer{client: client, index: index}
}

type bulkResponse struct {
	Errors bool `json:"errors"`
	Items  []map[string]struct {
		Status int `json:"status"`
		Error  *struct {
			Type   string `json:"type"`
			Reason string `json:"reason"`
		} `json:"error"`
	} `json:"items"`
}

// Index writes docs with one bulk request. Re-indexing the same ids replaces
// the previous documents.
func (ix *Indexer) Index(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, d := range docs {
		meta := map[string]any{"index": map[string]any{"_index": ix.index, "_id": d.ID}}
		if err := enc.Encode(meta); err != nil {
			return fmt.Errorf("es: encode meta: %w", err)
		}
		if err := enc.Encode(d.Source); err != nil {
			return fmt.Errorf("es: encode document %s: %w", d.ID, err)
		}
	}

	res, err := ix.client.Bulk(
		&buf,
		ix.client.Bulk.WithContext(ctx),
		ix.client.Bulk.WithIndex(ix.index),
	)
	if err != nil {
		return fmt.Errorf("es: bulk: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("es: bulk: %s: %s", res.Status(), body)
	}

	var br bulkResponse
	if err := json.NewDecoder(res.Body).Decode(&br); err != nil {
		return fmt.Errorf("es: decode bulk response: %w", err)
	}
	if !br.Errors {
		return nil
	}
	for _, item := range br.Items {
		for _, r := range item {
			if r.Error != nil {
				return fmt.Errorf("es: bulk item failed: %s: %s", r.Error.Type, r.Error.Reason)
			}
		}
	}
	return fmt.Errorf("es: bulk reported errors")
}
