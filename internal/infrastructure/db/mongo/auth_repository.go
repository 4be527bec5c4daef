package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mindcare/wellbeing-api/internal/core/domain"
)

type userDoc struct {
	ID           uint      `bson:"_id"`
	FullName     string    `bson:"full_name"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password_hash"`
	Role         string    `bson:"role"`
	CreatedAt    time.Time `bson:"created_at"`
}

func (d userDoc) toDomain() *domain.User {
	return &domain.User{
		ID:           d.ID,
		FullName:     d.FullName,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Role:         d.Role,
		CreatedAt:    d.CreatedAt.UTC(),
	}
}

type userRepo struct {
	repos
}

func (r userRepo) Create(ctx context.Context, user *domain.User) error {
	id, err := r.nextID(ctx, collectionUsers)
	if err != nil {
		return err
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	doc := userDoc{
		ID:           id,
		FullName:     user.FullName,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Role:         user.Role,
		CreatedAt:    user.CreatedAt,
	}

	ctx, cancel := r.bind(ctx)
	defer cancel()
	if _, err := r.col(collectionUsers).InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrUserExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	user.ID = id
	return nil
}

func (r userRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r userRepo) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r userRepo) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := r.bind(ctx)
	defer cancel()

	var doc userDoc
	if err := r.col(collectionUsers).FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toDomain(), nil
}
