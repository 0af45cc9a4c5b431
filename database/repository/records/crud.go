package recordsRepo

import (
	"context"
	"sync"
	"time"

	"fleetbooking/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *mongoRecordRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "sessionId", Value: 1}}},
		{Keys: bson.D{{Key: "tenantId", Value: 1}, {Key: "createdAt", Value: -1}}},
	})
	return err
}

// Create inserts a new submission record and returns its ID.
func (r *mongoRecordRepo) Create(ctx context.Context, record models.SubmissionRecord) (string, error) {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	if _, err := r.coll.InsertOne(ctx, record); err != nil {
		return "", err
	}
	return record.ID, nil
}

// GetBySessionID returns every attempt made from one booking session, oldest first.
func (r *mongoRecordRepo) GetBySessionID(ctx context.Context, sessionID string) ([]models.SubmissionRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"sessionId": sessionID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []models.SubmissionRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// GetByTenantID returns the latest attempts of a tenant, newest first.
func (r *mongoRecordRepo) GetByTenantID(ctx context.Context, tenantID string, limit int64) ([]models.SubmissionRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cursor, err := r.coll.Find(ctx, bson.M{"tenantId": tenantID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []models.SubmissionRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// MemoryRecordRepo keeps records in process. Used when no database is
// configured and in tests.
type MemoryRecordRepo struct {
	mu      sync.Mutex
	records []models.SubmissionRecord
}

func NewMemoryRecordRepo() *MemoryRecordRepo {
	return &MemoryRecordRepo{}
}

func (r *MemoryRecordRepo) Create(_ context.Context, record models.SubmissionRecord) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	r.records = append(r.records, record)
	return record.ID, nil
}

func (r *MemoryRecordRepo) GetBySessionID(_ context.Context, sessionID string) ([]models.SubmissionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.SubmissionRecord
	for _, rec := range r.records {
		if rec.SessionID == sessionID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *MemoryRecordRepo) GetByTenantID(_ context.Context, tenantID string, limit int64) ([]models.SubmissionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.SubmissionRecord
	for i := len(r.records) - 1; i >= 0; i-- {
		if r.records[i].TenantID != tenantID {
			continue
		}
		out = append(out, r.records[i])
		if limit > 0 && int64(len(out)) == limit {
			break
		}
	}
	return out, nil
}
