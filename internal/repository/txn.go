package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
)

// TxnRunner executes a read-modify-write sequence atomically. Mutating
// workflow operations (section submission, review actions, replies) run under
// it so a racing lead review and client submission cannot lose updates.
type TxnRunner interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type mongoTxnRunner struct {
	client *mongo.Client
}

// NewTxnRunner wraps a mongo client in a session-transaction runner.
func NewTxnRunner(client *mongo.Client) TxnRunner {
	return &mongoTxnRunner{client: client}
}

func (r *mongoTxnRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := r.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		return nil, fn(sessCtx)
	})
	return err
}

// NopTxnRunner runs the function directly, without a transaction. Used by
// tests and by single-node deployments without a replica set.
type NopTxnRunner struct{}

func (NopTxnRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
