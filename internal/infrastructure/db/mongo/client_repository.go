package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/freelancehub/api/internal/core/domain"
)

// Projects are embedded in their client document, so every mutation that
// spans a client and its projects is a single-document write.

type clientDoc struct {
	ID          primitive.ObjectID `bson:"_id"`
	Name        string             `bson:"name"`
	Email       string             `bson:"email"`
	CompanyName string             `bson:"company_name,omitempty"`
	Projects    []projectDoc       `bson:"projects"`
	CreatedAt   time.Time          `bson:"created_at"`
}

type projectDoc struct {
	ID          primitive.ObjectID `bson:"_id"`
	Title       string             `bson:"title"`
	Description string             `bson:"description,omitempty"`
	Budget      float64            `bson:"budget"`
	Status      string             `bson:"status"`
	CreatedAt   time.Time          `bson:"created_at"`
}

type ClientRepository struct {
	col *mongo.Collection
}

func NewClientRepository(db *mongo.Database) *ClientRepository {
	return &ClientRepository{col: db.Collection(collectionClients)}
}

// List returns clients sorted by _id; ObjectIDs generated here grow with
// creation time.
func (r *ClientRepository) List(ctx context.Context) ([]*domain.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, wrapErr("list clients", err)
	}
	var docs []clientDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, wrapErr("decode clients", err)
	}

	out := make([]*domain.Client, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *ClientRepository) Create(ctx context.Context, c *domain.Client) (*domain.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := clientDoc{
		ID:          primitive.NewObjectID(),
		Name:        c.Name,
		Email:       c.Email,
		CompanyName: c.CompanyName,
		Projects:    []projectDoc{},
		CreatedAt:   c.CreatedAt.UTC(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, wrapErr("insert client", err)
	}
	return doc.toDomain(), nil
}

// Delete removes the client document and, with it, every embedded project.
func (r *ClientRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrClientNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return wrapErr("delete client", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrClientNotFound
	}
	return nil
}

type ProjectRepository struct {
	col *mongo.Collection
}

func NewProjectRepository(db *mongo.Database) *ProjectRepository {
	return &ProjectRepository{col: db.Collection(collectionClients)}
}

// Create pushes the project onto its client. The filter on the client _id
// is the existence check, evaluated atomically with the write.
func (r *ProjectRepository) Create(ctx context.Context, p *domain.Project) (*domain.Project, error) {
	clientID, err := primitive.ObjectIDFromHex(p.ClientID)
	if err != nil {
		return nil, domain.ErrClientNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := projectDoc{
		ID:          primitive.NewObjectID(),
		Title:       p.Title,
		Description: p.Description,
		Budget:      p.Budget,
		Status:      string(p.Status),
		CreatedAt:   p.CreatedAt.UTC(),
	}
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": clientID},
		bson.M{"$push": bson.M{"projects": doc}},
	)
	if err != nil {
		return nil, wrapErr("insert project", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrClientNotFound
	}
	return doc.toDomain(clientID), nil
}

func (r *ProjectRepository) FindByID(ctx context.Context, id string) (*domain.Project, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrProjectNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var owner clientDoc
	err = r.col.FindOne(ctx,
		bson.M{"projects._id": oid},
		options.FindOne().SetProjection(bson.M{"projects.$": 1}),
	).Decode(&owner)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, wrapErr("find project", err)
	}
	if len(owner.Projects) == 0 {
		return nil, domain.ErrProjectNotFound
	}
	return owner.Projects[0].toDomain(owner.ID), nil
}

// UpdateStatus is a compare-and-swap on the embedded project's status.
func (r *ProjectRepository) UpdateStatus(ctx context.Context, id string, from, to domain.ProjectStatus) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrProjectNotFound
	}

	updateCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(updateCtx,
		bson.M{"projects": bson.M{"$elemMatch": bson.M{"_id": oid, "status": statusFilter(from)}}},
		bson.M{"$set": bson.M{"projects.$.status": string(to)}},
	)
	if err != nil {
		return wrapErr("update project status", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	if _, err := r.FindByID(ctx, id); err != nil {
		return err
	}
	return domain.ErrStatusConflict
}

// statusFilter matches the stored values that read back as from. Unknown
// or missing statuses read as Active.
func statusFilter(from domain.ProjectStatus) any {
	if from == domain.StatusActive {
		return bson.M{"$nin": bson.A{string(domain.StatusCompleted), string(domain.StatusAbandoned)}}
	}
	return string(from)
}

func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrProjectNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"projects._id": oid},
		bson.M{"$pull": bson.M{"projects": bson.M{"_id": oid}}},
	)
	if err != nil {
		return wrapErr("delete project", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}

func (d clientDoc) toDomain() *domain.Client {
	c := &domain.Client{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Email:       d.Email,
		CompanyName: d.CompanyName,
		Projects:    make([]*domain.Project, 0, len(d.Projects)),
		CreatedAt:   d.CreatedAt,
	}
	for _, p := range d.Projects {
		c.Projects = append(c.Projects, p.toDomain(d.ID))
	}
	return c
}

func (p projectDoc) toDomain(clientID primitive.ObjectID) *domain.Project {
	return &domain.Project{
		ID:          p.ID.Hex(),
		ClientID:    clientID.Hex(),
		Title:       p.Title,
		Description: p.Description,
		Budget:      p.Budget,
		Status:      domain.NormalizeStatus(p.Status),
		CreatedAt:   p.CreatedAt,
	}
}
