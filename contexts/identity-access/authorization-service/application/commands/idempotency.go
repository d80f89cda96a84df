package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	domainerrors "vendorhub/contexts/identity-access/authorization-service/domain/errors"
	"vendorhub/contexts/identity-access/authorization-service/ports"
)

func hashRequest(payload any) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:]), nil
}

// replayOrRun returns the stored response for a reused key, or runs the
// mutation and stores its response. replayed reports which path was taken.
func replayOrRun(
	ctx context.Context,
	store ports.IdempotencyStore,
	key string,
	operation string,
	requestHash string,
	now time.Time,
	ttl time.Duration,
	out any,
	run func() (any, error),
) (replayed bool, err error) {
	existing, found, err := store.GetRecord(ctx, key, now)
	if err != nil {
		return false, err
	}
	if found {
		if existing.RequestHash != requestHash {
			return false, domainerrors.ErrIdempotencyConflict
		}
		return true, json.Unmarshal(existing.ResponsePayload, out)
	}

	result, err := run()
	if err != nil {
		return false, err
	}
	payload, err := json.Marshal(result)
	if err != nil {
		return false, err
	}
	if err := store.PutRecord(ctx, ports.IdempotencyRecord{
		Key:             key,
		Operation:       operation,
		RequestHash:     requestHash,
		ResponsePayload: payload,
		ExpiresAt:       now.Add(ttl),
	}); err != nil {
		return false, err
	}
	return false, json.Unmarshal(payload, out)
}
