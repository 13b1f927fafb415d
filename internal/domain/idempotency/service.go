package idempotency

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

const maxKeyLength = 128

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Begin(ctx context.Context, req Request) (*Reservation, error) {
	key := strings.TrimSpace(req.Key)
	if len(key) > maxKeyLength {
		key = key[:maxKeyLength]
	}

	record := Record{
		ID:          uuid.NewString(),
		UserID:      req.UserID,
		Key:         key,
		RequestHash: hashRequest(req),
		Status:      StateProcessing,
	}

	created, existing, err := s.repo.Begin(ctx, &record)
	if err != nil {
		return nil, err
	}
	if created {
		return &Reservation{ID: record.ID}, nil
	}
	if existing == nil {
		return nil, ErrRequestInProgress
	}
	if existing.RequestHash != record.RequestHash {
		return nil, ErrKeyPayloadMismatch
	}
	if existing.Status != StateCompleted {
		return nil, ErrRequestInProgress
	}
	return &Reservation{Replay: &Response{Status: existing.ResponseStatus, Body: existing.ResponseBody}}, nil
}

// Finish stores the response for replay. Server errors release the key so
// the client can retry with it.
func (s *Service) Finish(ctx context.Context, id string, resp Response) error {
	if resp.Status >= 500 {
		return s.repo.Release(ctx, id)
	}
	return s.repo.Complete(ctx, id, resp.Status, resp.Body)
}

func hashRequest(req Request) string {
	h := sha256.New()
	h.Write([]byte(req.Method))
	h.Write([]byte{0})
	h.Write([]byte(req.Path))
	h.Write([]byte{0})
	h.Write(req.Body)
	return hex.EncodeToString(h.Sum(nil))
}
