package implementation

import (
	"context"
	"errors"

	"portfolio-be/internal/entity"
	"portfolio-be/internal/mapper"
	"portfolio-be/internal/repository/contract"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ProjectRepositoryImpl struct {
	collection *mongo.Collection
	mapper     *mapper.ProjectMapper
}

func NewProjectRepository(db *mongo.Database, collectionName string) contract.ProjectRepository {
	return &ProjectRepositoryImpl{
		collection: db.Collection(collectionName),
		mapper:     mapper.NewProjectMapper(),
	}
}

// filters lists the lookups tried in order: the stored string id first,
// then the Mongo ObjectId form for documents created outside this service.
func (r *ProjectRepositoryImpl) filters(id string) []bson.M {
	out := []bson.M{{"id": id}}
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		out = append(out, bson.M{"_id": oid})
	}
	return out
}

func (r *ProjectRepositoryImpl) FindAll(ctx context.Context) ([]*entity.Project, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	projects := make([]*entity.Project, 0, len(docs))
	for _, doc := range docs {
		projects = append(projects, r.mapper.ToEntity(doc))
	}
	return projects, nil
}

func (r *ProjectRepositoryImpl) FindByID(ctx context.Context, id string) (*entity.Project, error) {
	for _, filter := range r.filters(id) {
		var doc bson.M
		err := r.collection.FindOne(ctx, filter).Decode(&doc)
		if errors.Is(err, mongo.ErrNoDocuments) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return r.mapper.ToEntity(doc), nil
	}
	return nil, nil
}

func (r *ProjectRepositoryImpl) Create(ctx context.Context, project *entity.Project) error {
	_, err := r.collection.InsertOne(ctx, r.mapper.ToDocument(project))
	return err
}

func (r *ProjectRepositoryImpl) Update(ctx context.Context, id string, fields map[string]interface{}) (*entity.Project, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	for _, filter := range r.filters(id) {
		var doc bson.M
		err := r.collection.FindOneAndUpdate(ctx, filter, bson.M{"$set": fields}, opts).Decode(&doc)
		if errors.Is(err, mongo.ErrNoDocuments) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return r.mapper.ToEntity(doc), nil
	}
	return nil, nil
}

func (r *ProjectRepositoryImpl) Delete(ctx context.Context, id string) (bool, error) {
	for _, filter := range r.filters(id) {
		res, err := r.collection.DeleteOne(ctx, filter)
		if err != nil {
			return false, err
		}
		if res.DeletedCount > 0 {
			return true, nil
		}
	}
	return false, nil
}

func (r *ProjectRepositoryImpl) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}
