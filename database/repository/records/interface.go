package recordsRepo

import (
	"context"
	"log"

	"fleetbooking/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// SubmissionRecordRepository keeps the audit trail of booking confirm attempts.
type SubmissionRecordRepository interface {
	Create(ctx context.Context, record models.SubmissionRecord) (string, error)
	GetBySessionID(ctx context.Context, sessionID string) ([]models.SubmissionRecord, error)
	GetByTenantID(ctx context.Context, tenantID string, limit int64) ([]models.SubmissionRecord, error)
}

type mongoRecordRepo struct {
	coll *mongo.Collection
}

// NewMongoRecordRepo returns a SubmissionRecordRepository backed by MongoDB.
func NewMongoRecordRepo(db *mongo.Database) SubmissionRecordRepository {
	repo := &mongoRecordRepo{
		coll: db.Collection("booking_submissions"),
	}
	if err := repo.ensureIndexes(); err != nil {
		log.Printf("failed to create submission record indexes: %v", err)
	}
	return repo
}
