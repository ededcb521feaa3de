package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/autodeal-hq/go-pricer/internal/domain"
)

// ElasticsearchStore writes evaluated listings to Elasticsearch
type ElasticsearchStore struct {
	client    *elasticsearch.Client
	indexName string
}

// NewElasticsearchStore connects to the cluster and verifies it responds.
func NewElasticsearchStore(addresses []string, indexName string) (*ElasticsearchStore, error) {
	cfg := elasticsearch.Config{
		Addresses: addresses,
	}

	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("create es client: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("es info: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("es error: %s", res.Status())
	}

	return &ElasticsearchStore{
		client:    client,
		indexName: indexName,
	}, nil
}

type listingDoc struct {
	URL string `json:"url"`
	*domain.CarFeatures
	Prediction *domain.PredictionResult `json:"prediction"`
}

// Save indexes a single evaluated listing.
func (s *ElasticsearchStore) Save(ctx context.Context, url string, eval *domain.Evaluation) error {
	doc := listingDoc{URL: url, CarFeatures: eval.Features, Prediction: eval.Prediction}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal listing: %w", err)
	}

	req := esapi.IndexRequest{
		Index:      s.indexName,
		DocumentID: recordID(url),
		Body:       bytes.NewReader(data),
		Refresh:    "false",
	}

	res, err := req.Do(ctx, s.client)
	if err != nil {
		return fmt.Errorf("index request: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index error: %s", res.Status())
	}

	return nil
}

// SaveBatch indexes multiple evaluations with one bulk request.
func (s *ElasticsearchStore) SaveBatch(ctx context.Context, evals map[string]*domain.Evaluation) error {
	if len(evals) == 0 {
		return nil
	}

	var buf bytes.Buffer

	for url, eval := range evals {
		meta := map[string]any{
			"index": map[string]any{
				"_index": s.indexName,
				"_id":    recordID(url),
			},
		}
		metaBytes, _ := json.Marshal(meta)
		buf.Write(metaBytes)
		buf.WriteByte('\n')

		doc := listingDoc{URL: url, CarFeatures: eval.Features, Prediction: eval.Prediction}
		docBytes, err := json.Marshal(doc)
		if err != nil {
			slog.Error("marshal listing", "url", url, "error", err)
			continue
		}
		buf.Write(docBytes)
		buf.WriteByte('\n')
	}

	res, err := s.client.Bulk(bytes.NewReader(buf.Bytes()), s.client.Bulk.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("bulk request: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("bulk error: %s", res.Status())
	}

	var bulkRes struct {
		Errors bool `json:"errors"`
		Items  []struct {
			Index struct {
				ID     string `json:"_id"`
				Status int    `json:"status"`
				Error  struct {
					Type   string `json:"type"`
					Reason string `json:"reason"`
				} `json:"error"`
			} `json:"index"`
		} `json:"items"`
	}

	if err := json.NewDecoder(res.Body).Decode(&bulkRes); err != nil {
		return fmt.Errorf("parse bulk response: %w", err)
	}

	if bulkRes.Errors {
		for _, item := range bulkRes.Items {
			if item.Index.Status >= 400 {
				slog.Error("bulk index listing",
					"id", item.Index.ID,
					"type", item.Index.Error.Type,
					"reason", item.Index.Error.Reason)
			}
		}
	}

	return nil
}

// EnsureIndex creates the listings index with keyword/numeric mappings
// suited to price analytics if it doesn't already exist.
func (s *ElasticsearchStore) EnsureIndex(ctx context.Context) error {
	res, err := s.client.Indices.Exists([]string{s.indexName})
	if err != nil {
		return fmt.Errorf("check index: %w", err)
	}
	res.Body.Close()

	if res.StatusCode == 200 {
		return nil
	}

	mapping := `{
		"settings": {
			"analysis": {
				"analyzer": {
					"listing_analyzer": {
						"type": "custom",
						"tokenizer": "standard",
						"filter": ["lowercase", "asciifolding"]
					}
				}
			}
		},
		"mappings": {
			"properties": {
				"url": {"type": "keyword"},
				"platform": {"type": "keyword"},
				"make": {"type": "keyword"},
				"model": {
					"type": "text",
					"analyzer": "listing_analyzer",
					"fields": {"keyword": {"type": "keyword"}}
				},
				"year": {"type": "integer"},
				"mileage_km": {"type": "double"},
				"condition": {"type": "keyword"},
				"fuel_type": {"type": "keyword"},
				"location": {
					"properties": {
						"city": {"type": "keyword"},
						"region": {"type": "keyword"},
						"country": {"type": "keyword"}
					}
				},
				"listing_price_usd": {"type": "double"},
				"currency_original": {"type": "keyword"},
				"images": {"type": "keyword"},
				"prediction": {
					"properties": {
						"predicted_price": {"type": "double"},
						"price_range": {
							"properties": {
								"min": {"type": "double"},
								"max": {"type": "double"}
							}
						},
						"confidence": {"type": "integer"},
						"deal_quality": {"type": "keyword"},
						"market_position": {"type": "keyword"}
					}
				},
				"scraped_at": {"type": "date"}
			}
		}
	}`

	res, err = s.client.Indices.Create(
		s.indexName,
		s.client.Indices.Create.WithBody(bytes.NewReader([]byte(mapping))),
	)
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("create index error: %s", res.Status())
	}

	return nil
}

// Close is a no-op; the ES client has no persistent connection to release.
func (s *ElasticsearchStore) Close() error {
	return nil
}
