package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ottermap/workflow-system/internal/core/domain"
)

const assignmentsCollection = "assignments"

type AssignmentRepository struct {
	coll *mongo.Collection
}

func NewAssignmentRepository(db *mongo.Database) *AssignmentRepository {
	return &AssignmentRepository{coll: db.Collection(assignmentsCollection)}
}

type assignmentDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	AssignID      string             `bson:"assign_id"`
	OwnerID       string             `bson:"owner_id"`
	OwnerUsername string             `bson:"owner_username"`
	Task          string             `bson:"task"`
	AdminUsername string             `bson:"admin"`
	Status        string             `bson:"status"`
	SubmittedAt   time.Time          `bson:"submitted_at"`
	DecidedAt     *time.Time         `bson:"decided_at,omitempty"`
}

func (r *AssignmentRepository) Create(ctx context.Context, a *domain.Assignment) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := assignmentDoc{
		AssignID:      a.ID,
		OwnerID:       a.OwnerID,
		OwnerUsername: a.OwnerUsername,
		Task:          a.Task,
		AdminUsername: a.AdminUsername,
		Status:        string(a.Status),
		SubmittedAt:   a.SubmittedAt.UTC(),
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert assignment: %w", err)
	}
	return nil
}

func (r *AssignmentRepository) FindByID(ctx context.Context, assignID string) (*domain.Assignment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc assignmentDoc
	err := r.coll.FindOne(ctx, bson.M{"assign_id": assignID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("find assignment: %w", err)
	}
	return docToAssignment(&doc), nil
}

func (r *AssignmentRepository) FindByAdmin(ctx context.Context, adminUsername string) ([]*domain.Assignment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{"admin": adminUsername},
		options.Find().SetSort(bson.D{{Key: "submitted_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	defer cur.Close(ctx)

	var assignments []*domain.Assignment
	for cur.Next(ctx) {
		var doc assignmentDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode assignment: %w", err)
		}
		assignments = append(assignments, docToAssignment(&doc))
	}
	return assignments, cur.Err()
}

// SetStatusIfPending applies a single conditional update: the filter matches
// only while the assignment is still pending, so concurrent decisions resolve
// to exactly one winner. The loser observes domain.ErrAlreadyProcessed.
func (r *AssignmentRepository) SetStatusIfPending(ctx context.Context, assignID string, status domain.AssignmentStatus, decidedAt time.Time) (*domain.Assignment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"assign_id": assignID, "status": string(domain.StatusPending)}
	update := bson.M{"$set": bson.M{
		"status":     string(status),
		"decided_at": decidedAt.UTC(),
	}}

	var doc assignmentDoc
	err := r.coll.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&doc)
	if err == nil {
		return docToAssignment(&doc), nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("update assignment status: %w", err)
	}

	// No pending match: either the assignment is gone or another caller
	// already moved it to a terminal state.
	if _, findErr := r.FindByID(ctx, assignID); findErr != nil {
		return nil, findErr
	}
	return nil, domain.ErrAlreadyProcessed
}

// EnsureIndexes creates necessary indexes on the assignments collection.
func (r *AssignmentRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "assign_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "admin", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}

func docToAssignment(doc *assignmentDoc) *domain.Assignment {
	return &domain.Assignment{
		ID:            doc.AssignID,
		OwnerID:       doc.OwnerID,
		OwnerUsername: doc.OwnerUsername,
		Task:          doc.Task,
		AdminUsername: doc.AdminUsername,
		Status:        domain.AssignmentStatus(doc.Status),
		SubmittedAt:   doc.SubmittedAt.UTC(),
		DecidedAt:     doc.DecidedAt,
	}
}
