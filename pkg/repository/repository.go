// Package repository implements the store interfaces on MongoDB. Every
// invariant-bearing mutation is a single filtered UpdateOne, so the check
// and the write land atomically on the server; plain read-then-write is
// never used for capacity or redemption state.
package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/treylee/vibein-service/pkg/store"
)

const (
	offersCollection         = "offers"
	participationsCollection = "participations"
	vibesCollection          = "vibes"
	profilesCollection       = "profiles"
)

// wrap tags timeouts and cancelled contexts as retryable so handlers can
// answer 503 instead of 500.
func wrap(op string, err error) error {
	if mongo.IsTimeout(err) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w: %v", op, store.ErrUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
