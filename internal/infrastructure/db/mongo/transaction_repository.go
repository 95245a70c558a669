package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/e2recycle/platform/internal/core/domain"
	"github.com/e2recycle/platform/internal/core/ports"
)

type TransactionRepository struct {
	col *mongo.Collection
}

func NewTransactionRepository(db *mongo.Database) *TransactionRepository {
	return &TransactionRepository{col: db.Collection(collectionTransactions)}
}

// FindByID retrieves a transaction. A non-empty recyclerID adds an ownership
// filter, so an unowned id is indistinguishable from an unknown one.
func (r *TransactionRepository) FindByID(ctx context.Context, id string, recyclerID string) (*domain.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": id}
	if recyclerID != "" {
		filter["recycler_id"] = recyclerID
	}

	var tx domain.Transaction
	err := r.col.FindOne(ctx, filter).Decode(&tx)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return &tx, nil
}

func (r *TransactionRepository) FindByRequestID(ctx context.Context, requestID string) (*domain.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var tx domain.Transaction
	err := r.col.FindOne(ctx, bson.M{"request_id": requestID}).Decode(&tx)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return &tx, nil
}

// UpdateIfStatus applies patch only when the document still carries the
// expected status (and ownership, when recyclerID is non-empty).
func (r *TransactionRepository) UpdateIfStatus(ctx context.Context, id string, recyclerID string, expected domain.TransactionStatus, patch ports.TransactionPatch) (*domain.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": id, "status": string(expected)}
	if recyclerID != "" {
		filter["recycler_id"] = recyclerID
	}

	set := bson.M{
		"status":     string(patch.Status),
		"updated_at": patch.UpdatedAt,
	}
	if patch.PaymentMethod != "" {
		set["payment_method"] = patch.PaymentMethod
	}
	if patch.PaymentReference != "" {
		set["payment_reference"] = patch.PaymentReference
	}
	if patch.PaidAt != nil {
		set["paid_at"] = patch.PaidAt
	}
	if patch.AdminNotes != "" {
		set["admin_notes"] = patch.AdminNotes
	}
	if patch.ConfirmedBy != "" {
		set["confirmed_by"] = patch.ConfirmedBy
	}
	if patch.ConfirmedAt != nil {
		set["confirmed_at"] = patch.ConfirmedAt
	}

	var updated domain.Transaction
	err := r.col.FindOneAndUpdate(ctx,
		filter,
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return &updated, nil
}

// List returns transactions matching filter, newest first.
func (r *TransactionRepository) List(ctx context.Context, filter ports.ListTransactionsFilter) ([]*domain.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.RecyclerID != "" {
		query["recycler_id"] = filter.RecyclerID
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, 0, len(filter.Statuses))
		for _, st := range filter.Statuses {
			statuses = append(statuses, string(st))
		}
		query["status"] = bson.M{"$in": statuses}
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var txs []*domain.Transaction
	if err := cursor.All(ctx, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

// EnsureIndexes creates necessary indexes on the transactions collection.
// The unique request_id index backs the one-transaction-per-request invariant.
func (r *TransactionRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "request_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "recycler_id", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
