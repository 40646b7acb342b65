package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/matte1240/app-mezzi/internal/model"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u model.User) (*model.User, error) {
	var saved model.User
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO users (email, name, password_hash, role)
		VALUES (?, ?, ?, ?)
		RETURNING id, email, name, password_hash, role, created_at
	`, u.Email, u.Name, u.PasswordHash, u.Role).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, email, name, password_hash, role, created_at
		FROM users WHERE id = ? LIMIT 1
	`, id).Scan(&u).Error
	if err != nil {
		return nil, err
	}
	if u.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, email, name, password_hash, role, created_at
		FROM users WHERE email = ? LIMIT 1
	`, email).Scan(&u).Error
	if err != nil {
		return nil, err
	}
	if u.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, email, name, password_hash, role, created_at
		FROM users ORDER BY created_at ASC
	`).Scan(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}
