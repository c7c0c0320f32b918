package members

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/irezaei/memberhub/internal/common"
	"github.com/irezaei/memberhub/internal/server/models"
)

// CollectionName is the members collection in the application database.
const CollectionName = "members"

// noHashProjection excludes the password hash from reads that feed client
// responses.
var noHashProjection = bson.M{"password": 0}

type MongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{coll: db.Collection(CollectionName)}
}

// EnsureIndexes creates the unique email/phone indexes plus the query
// indexes the list and stats paths rely on. Safe to call on every startup.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "phoneNumber", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "isActive", Value: 1}}},
		{Keys: bson.D{{Key: "role", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("creating member indexes: %w", err)
	}
	return nil
}

func (r *MongoRepository) Create(ctx context.Context, m *models.Member) (*models.Member, error) {
	now := time.Now().UTC()
	m.ID = primitive.NewObjectID().Hex()
	m.CreatedAt = now
	m.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, m); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, common.ErrDuplicate
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return m, nil
}

func (r *MongoRepository) FindByID(ctx context.Context, id string) (*models.Member, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	m := &models.Member{}
	err := r.coll.FindOne(ctx, bson.M{"_id": id},
		options.FindOne().SetProjection(noHashProjection)).Decode(m)
	if err != nil {
		return nil, mapFindErr(err)
	}
	return m, nil
}

func (r *MongoRepository) FindByEmailAndPhone(ctx context.Context, email, phone string) (*models.Member, error) {
	m := &models.Member{}
	err := r.coll.FindOne(ctx, bson.M{"email": email, "phoneNumber": phone}).Decode(m)
	if err != nil {
		return nil, mapFindErr(err)
	}
	return m, nil
}

func (r *MongoRepository) FindByIDWithHash(ctx context.Context, id string) (*models.Member, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	m := &models.Member{}
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(m); err != nil {
		return nil, mapFindErr(err)
	}
	return m, nil
}

func (r *MongoRepository) FindByPhone(ctx context.Context, phone string) (*models.Member, error) {
	m := &models.Member{}
	err := r.coll.FindOne(ctx, bson.M{"phoneNumber": phone},
		options.FindOne().SetProjection(noHashProjection)).Decode(m)
	if err != nil {
		return nil, mapFindErr(err)
	}
	return m, nil
}

func (r *MongoRepository) ExistsByEmailOrPhone(ctx context.Context, email, phone string) (bool, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"email": email},
		bson.M{"phoneNumber": phone},
	}}
	n, err := r.coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n > 0, nil
}

func (r *MongoRepository) List(ctx context.Context) ([]*models.Member, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().
		SetProjection(noHashProjection).
		SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer cur.Close(ctx)

	var result []*models.Member
	if err := cur.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *MongoRepository) Update(ctx context.Context, id string, upd Update) (*models.Member, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	setField(set, "firstName", upd.FirstName)
	setField(set, "lastName", upd.LastName)
	setField(set, "email", upd.Email)
	setField(set, "phoneNumber", upd.PhoneNumber)
	setField(set, "password", upd.PasswordHash)
	setField(set, "gender", upd.Gender)
	setField(set, "role", upd.Role)
	setField(set, "isActive", upd.IsActive)
	setField(set, "avatarKey", upd.AvatarKey)

	m := &models.Member{}
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().
			SetReturnDocument(options.After).
			SetProjection(noHashProjection),
	).Decode(m)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, common.ErrDuplicate
		}
		return nil, mapFindErr(err)
	}
	return m, nil
}

func (r *MongoRepository) Delete(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if res.DeletedCount == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *MongoRepository) SetLastLogin(ctx context.Context, id string, at time.Time) error {
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"lastLogin": at, "updatedAt": at}})
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *MongoRepository) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	var err error
	if stats.TotalMembers, err = r.coll.CountDocuments(ctx, bson.M{}); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	if stats.AdminMembers, err = r.coll.CountDocuments(ctx, bson.M{"role": models.RoleAdmin}); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	if stats.ActiveMembers, err = r.coll.CountDocuments(ctx, bson.M{"isActive": true}); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	startOfDay := time.Now().UTC().Truncate(24 * time.Hour)
	if stats.NewToday, err = r.coll.CountDocuments(ctx, bson.M{"createdAt": bson.M{"$gte": startOfDay}}); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	cur, err := r.coll.Aggregate(ctx, mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$gender"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	})
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer cur.Close(ctx)
	if err := cur.All(ctx, &stats.GenderStats); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	recent, err := r.coll.Find(ctx, bson.M{}, options.Find().
		SetProjection(bson.M{"firstName": 1, "lastName": 1, "email": 1, "createdAt": 1}).
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(5))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer recent.Close(ctx)
	if err := recent.All(ctx, &stats.RecentMembers); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return stats, nil
}

// validateID rejects ids that are not ObjectID hex strings before they hit
// the database, so malformed path parameters surface as validation errors
// rather than empty lookups.
func validateID(id string) error {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return fmt.Errorf("%w: malformed member id", common.ErrValidation)
	}
	return nil
}

func mapFindErr(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return common.ErrNotFound
	}
	return fmt.Errorf("db error: %w", err)
}

// setField adds key to set when the pointer is non-nil. The type parameter
// keeps Role and bool updates from needing their own helpers.
func setField[T any](set bson.M, key string, v *T) {
	if v != nil {
		set[key] = *v
	}
}
