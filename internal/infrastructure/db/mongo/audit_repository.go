package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/marketsquare/account-system/internal/core/domain"
)

const auditCollection = "auth_events"

// AuditRepository appends authentication events to the audit trail.
type AuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(auditCollection)}
}

type auditDoc struct {
	Type       string `bson:"type"`
	UserUUID   string `bson:"user_uuid"`
	Identifier string `bson:"identifier"`
	At         int64  `bson:"at"`
}

func (r *AuditRepository) Record(ctx context.Context, event domain.AuthEvent) error {
	doc := auditDoc{
		Type:       string(event.Type),
		UserUUID:   event.UserUUID,
		Identifier: event.Identifier,
		At:         event.At.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("record auth event: %w", err)
	}
	return nil
}
