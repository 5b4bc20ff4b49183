package hubcache

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/agentstation/sizer/pkg/derive"
	"github.com/agentstation/sizer/pkg/logging"
)

type cachedLookup struct {
	cache *Cache
	next  derive.Lookup
}

var _ derive.Lookup = (*cachedLookup)(nil)

func (l *cachedLookup) Config(ctx context.Context, id string) (map[string]any, error) {
	if payload, ok := l.cache.load(ctx, id, kindConfig); ok {
		var cfg map[string]any
		if err := json.Unmarshal([]byte(payload), &cfg); err == nil && cfg != nil {
			return cfg, nil
		}
		logging.FromContext(ctx).Debug().Msg("Discarding undecodable cached config")
	}

	cfg, err := l.next.Config(ctx, id)
	if err != nil {
		return nil, err
	}
	if payload, err := json.Marshal(cfg); err == nil {
		l.cache.store(ctx, id, kindConfig, string(payload))
	}
	return cfg, nil
}

func (l *cachedLookup) TotalParameters(ctx context.Context, id string) (float64, error) {
	if payload, ok := l.cache.load(ctx, id, kindTotal); ok {
		if total, err := strconv.ParseFloat(payload, 64); err == nil {
			return total, nil
		}
	}

	total, err := l.next.TotalParameters(ctx, id)
	if err != nil {
		return 0, err
	}
	l.cache.store(ctx, id, kindTotal, strconv.FormatFloat(total, 'f', -1, 64))
	return total, nil
}
