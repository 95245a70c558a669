package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/e2recycle/platform/internal/core/domain"
)

const collectionAudit = "lifecycle_audit"

// AuditRepository persists lifecycle audit entries. Writes are append-only;
// audit records are never read back by the engine itself.
type AuditRepository struct {
	col *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{col: db.Collection(collectionAudit)}
}

func (r *AuditRepository) Insert(ctx context.Context, entry *domain.AuditEntry) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := struct {
		domain.AuditEntry `bson:",inline"`
		RecordedAt        time.Time `bson:"recorded_at"`
	}{
		AuditEntry: *entry,
		RecordedAt: time.Now().UTC(),
	}

	_, err := r.col.InsertOne(ctx, doc)
	return err
}
