package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"clauseguard/guardian"

	"github.com/redis/go-redis/v9"
)

const analysisKeyPrefix = "analysis:"

// AnalysisStore keeps risk analyses in Redis as JSON with an expiry.
type AnalysisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewAnalysisStore(client *redis.Client, ttl time.Duration) *AnalysisStore {
	return &AnalysisStore{client: client, ttl: ttl}
}

func analysisKey(id string) string {
	return analysisKeyPrefix + id
}

func (s *AnalysisStore) Save(ctx context.Context, response guardian.Response) error {
	if response.ID == "" {
		return errors.New("analysis has no id")
	}
	data, err := json.Marshal(response)
	if err != nil {
		return fmt.Errorf("encode analysis: %w", err)
	}
	if err := s.client.Set(ctx, analysisKey(response.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("store analysis: %w", err)
	}
	return nil
}

func (s *AnalysisStore) Get(ctx context.Context, id string) (guardian.Response, error) {
	data, err := s.client.Get(ctx, analysisKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return guardian.Response{}, guardian.ErrAnalysisNotFound
	}
	if err != nil {
		return guardian.Response{}, fmt.Errorf("fetch analysis: %w", err)
	}

	var response guardian.Response
	if err := json.Unmarshal(data, &response); err != nil {
		return guardian.Response{}, fmt.Errorf("decode analysis: %w", err)
	}
	return response, nil
}

func (s *AnalysisStore) Delete(ctx context.Context, id string) error {
	removed, err := s.client.Del(ctx, analysisKey(id)).Result()
	if err != nil {
		return fmt.Errorf("remove analysis: %w", err)
	}
	if removed == 0 {
		return guardian.ErrAnalysisNotFound
	}
	return nil
}
