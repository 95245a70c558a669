package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/e2recycle/platform/internal/core/domain"
	"github.com/e2recycle/platform/internal/core/ports"
)

const (
	collectionRequests     = "recycling_requests"
	collectionTransactions = "transactions"
)

type RequestRepository struct {
	client *mongo.Client
	col    *mongo.Collection
	txCol  *mongo.Collection
}

func NewRequestRepository(client *mongo.Client, db *mongo.Database) *RequestRepository {
	return &RequestRepository{
		client: client,
		col:    db.Collection(collectionRequests),
		txCol:  db.Collection(collectionTransactions),
	}
}

// Create inserts a new request document.
func (r *RequestRepository) Create(ctx context.Context, req *domain.RecyclingRequest) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, req)
	return err
}

func (r *RequestRepository) FindByID(ctx context.Context, id string) (*domain.RecyclingRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var req domain.RecyclingRequest
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&req)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, err
	}
	return &req, nil
}

// UpdateIfStatus is the conditional update primitive: the patch is applied
// only when the document still carries the expected status, so concurrent
// transitions lose cleanly instead of overwriting each other.
func (r *RequestRepository) UpdateIfStatus(ctx context.Context, id string, expected domain.RequestStatus, patch ports.RequestPatch) (*domain.RecyclingRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{
		"status":     string(patch.Status),
		"updated_at": patch.UpdatedAt,
	}
	if patch.AcceptedBy != "" {
		set["accepted_by"] = patch.AcceptedBy
	}

	var updated domain.RecyclingRequest
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": string(expected)},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, err
	}
	return &updated, nil
}

// Accept performs the whole accept operation inside one Mongo transaction:
// the gating count, the approved→accepted compare-and-swap, and the
// commission insert all see the same snapshot. On any failure the
// transaction aborts and neither entity is mutated.
func (r *RequestRepository) Accept(ctx context.Context, requestID, recyclerID string, commissionRate int) (*domain.RecyclingRequest, *domain.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	session, err := r.client.StartSession()
	if err != nil {
		return nil, nil, fmt.Errorf("accept: start session: %w", err)
	}
	defer session.EndSession(ctx)

	type acceptResult struct {
		request     *domain.RecyclingRequest
		transaction *domain.Transaction
	}

	res, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		outstanding, err := r.txCol.CountDocuments(sc, bson.M{
			"recycler_id": recyclerID,
			"status": bson.M{"$in": []string{
				string(domain.TransactionPending),
				string(domain.TransactionPaid),
			}},
		})
		if err != nil {
			return nil, fmt.Errorf("accept: count outstanding: %w", err)
		}
		if outstanding > 0 {
			return nil, &domain.PaymentPendingError{PendingPayments: int(outstanding)}
		}

		now := time.Now().UTC()
		var request domain.RecyclingRequest
		err = r.col.FindOneAndUpdate(sc,
			bson.M{"_id": requestID, "status": string(domain.RequestApproved)},
			bson.M{"$set": bson.M{
				"status":      string(domain.RequestAccepted),
				"accepted_by": recyclerID,
				"updated_at":  now,
			}},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&request)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, r.acceptFailure(sc, requestID)
			}
			return nil, err
		}

		tx := &domain.Transaction{
			ID:               uuid.NewString(),
			RequestID:        requestID,
			RecyclerID:       recyclerID,
			OrderAmount:      request.EstimatedPrice,
			CommissionRate:   commissionRate,
			CommissionAmount: domain.ComputeCommission(request.EstimatedPrice, commissionRate),
			Status:           domain.TransactionPending,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if _, err := r.txCol.InsertOne(sc, tx); err != nil {
			return nil, fmt.Errorf("accept: insert transaction: %w", err)
		}

		return &acceptResult{request: &request, transaction: tx}, nil
	})
	if err != nil {
		return nil, nil, err
	}

	result := res.(*acceptResult)
	return result.request, result.transaction, nil
}

// acceptFailure distinguishes an unknown id from a request that exists but
// lost the approved-status compare-and-swap.
func (r *RequestRepository) acceptFailure(ctx context.Context, requestID string) error {
	var current domain.RecyclingRequest
	err := r.col.FindOne(ctx, bson.M{"_id": requestID}).Decode(&current)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.ErrRequestNotFound
		}
		return err
	}
	return fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidTransition, current.Status, domain.RequestAccepted)
}

// List returns a page of requests matching filter and the total count,
// newest first.
func (r *RequestRepository) List(ctx context.Context, filter ports.ListRequestsFilter) ([]*domain.RecyclingRequest, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.UserID != "" {
		query["user_id"] = filter.UserID
	}
	if filter.RecyclerView != "" {
		query["$or"] = []bson.M{
			{"status": string(domain.RequestApproved)},
			{"accepted_by": filter.RecyclerView},
		}
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.ProductType != "" {
		query["product_type"] = filter.ProductType
	}

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	limit := int64(filter.Limit)
	skip := int64(filter.Page-1) * limit
	if skip < 0 {
		skip = 0
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var requests []*domain.RecyclingRequest
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

// EnsureIndexes creates necessary indexes on the requests collection.
func (r *RequestRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "unique_code", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "accepted_by", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
