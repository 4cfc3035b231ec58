package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// InvalidationRequest is the body accepted by the API's invalidation endpoint.
type InvalidationRequest struct {
	ExerciseName string `json:"exercise_name"`
}

// TokenSource yields the bearer token sent with each invalidation. An empty
// token sends no Authorization header.
type TokenSource func() (string, error)

// StaticToken always returns token.
func StaticToken(token string) TokenSource {
	return func() (string, error) { return token, nil }
}

// RemoteInvalidator asks a running API process to drop its cached catalog.
type RemoteInvalidator struct {
	client *http.Client
	url    string
	token  TokenSource
}

// NewRemoteInvalidator constructs a RemoteInvalidator posting to endpoint.
func NewRemoteInvalidator(endpoint string, token TokenSource, timeout time.Duration) *RemoteInvalidator {
	if token == nil {
		token = StaticToken("")
	}
	return &RemoteInvalidator{
		client: &http.Client{Timeout: timeout},
		url:    strings.TrimRight(endpoint, "/"),
		token:  token,
	}
}

// Invalidate posts the changed exercise name to the endpoint.
func (r *RemoteInvalidator) Invalidate(ctx context.Context, exerciseName string) error {
	body, err := json.Marshal(InvalidationRequest{ExerciseName: exerciseName})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	token, err := r.token()
	if err != nil {
		return fmt.Errorf("invalidation token: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("invalidate %q: %w", exerciseName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return &InvalidationError{Status: resp.StatusCode}
	}
	return nil
}

// InvalidationError represents a non-successful invalidation response.
type InvalidationError struct {
	Status int
}

func (e *InvalidationError) Error() string {
	return "cache invalidation failed with status " + http.StatusText(e.Status)
}

// Invalidators fans an invalidation out to several targets, stopping at the first error.
type Invalidators []Invalidator

// Invalidate calls every invalidator in order.
func (list Invalidators) Invalidate(ctx context.Context, exerciseName string) error {
	for _, inv := range list {
		if err := inv.Invalidate(ctx, exerciseName); err != nil {
			return err
		}
	}
	return nil
}
