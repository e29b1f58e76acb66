package repository

import (
	"context"

	"go-inventory-crm/internal/model"

	"gorm.io/gorm"
)

type AdminUserRepository interface {
	FindByUsername(ctx context.Context, username string) (*model.AdminUser, error)
	FindByID(ctx context.Context, id uint) (*model.AdminUser, error)
	Create(ctx context.Context, user *model.AdminUser) error
	UpdatePassword(ctx context.Context, id uint, hash string) error
}

type adminUserRepo struct {
	db *gorm.DB
}

func NewAdminUserRepo(db *gorm.DB) AdminUserRepository {
	return &adminUserRepo{db}
}

func (r *adminUserRepo) FindByUsername(ctx context.Context, username string) (*model.AdminUser, error) {
	var user model.AdminUser
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *adminUserRepo) FindByID(ctx context.Context, id uint) (*model.AdminUser, error) {
	var user model.AdminUser
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *adminUserRepo) Create(ctx context.Context, user *model.AdminUser) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *adminUserRepo) UpdatePassword(ctx context.Context, id uint, hash string) error {
	res := r.db.WithContext(ctx).Model(&model.AdminUser{}).Where("id = ?", id).Update("password_hash", hash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
