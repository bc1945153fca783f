package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"scholarship-workflow/internal/common/logger"
)

// Trail indexes transition events into Elasticsearch.
type Trail struct {
	client *elasticsearch.Client
	index  string
	log    logger.Logger
}

func NewTrail(client *elasticsearch.Client, index string, log logger.Logger) *Trail {
	return &Trail{client: client, index: index, log: log}
}

func (t *Trail) Record(ctx context.Context, event TransitionEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal transition event: %w", err)
	}

	req := esapi.IndexRequest{
		Index:   t.index,
		Body:    bytes.NewReader(body),
		Refresh: "false",
	}
	res, err := req.Do(ctx, t.client)
	if err != nil {
		return fmt.Errorf("index transition event: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index transition event: %s", res.Status())
	}

	t.log.Debug("transition recorded", map[string]interface{}{
		"application_id": event.ApplicationID,
		"from":           string(event.From),
		"to":             string(event.To),
		"trigger":        event.Trigger,
	})
	return nil
}
