package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hiringreferrals/backend/config"
	"github.com/hiringreferrals/backend/models"
)

type UserRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(db *mongo.Client) *UserRepository {
	return &UserRepository{
		collection: config.GetCollection(db, "users"),
	}
}

func (r *UserRepository) FindByID(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByReferralCode(ctx context.Context, code string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"referralCode": code}).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// AddPoints atomically increments a user's point total
func (r *UserRepository) AddPoints(ctx context.Context, userID primitive.ObjectID, points int) error {
	update := bson.M{
		"$inc": bson.M{"totalPoints": points},
		"$set": bson.M{"updatedAt": time.Now()},
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": userID}, update)
	return err
}

// CreditReferral atomically credits a referrer for a successful signup:
// points are added and the new account is linked in one update.
func (r *UserRepository) CreditReferral(ctx context.Context, referrerID, referredID primitive.ObjectID, points int) error {
	update := bson.M{
		"$inc":  bson.M{"totalPoints": points},
		"$push": bson.M{"referrals": referredID},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": referrerID}, update)
	return err
}

// UpdateStreak persists the streak state computed by the gamification
// service. A streak update is itself activity, so lastActivityAt moves too.
func (r *UserRepository) UpdateStreak(ctx context.Context, userID primitive.ObjectID, streak models.StreakState) error {
	now := time.Now()
	update := bson.M{
		"$set": bson.M{
			"streak":         streak,
			"lastActivityAt": now,
			"updatedAt":      now,
		},
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": userID}, update)
	return err
}

// TopByPoints lists the highest-scoring users for the leaderboard
func (r *UserRepository) TopByPoints(ctx context.Context, limit int64) ([]models.User, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "totalPoints", Value: -1}}).
		SetLimit(limit)
	cursor, err := r.collection.Find(ctx, bson.M{"totalPoints": bson.M{"$gt": 0}}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}
