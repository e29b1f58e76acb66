package model

import (
	"context"

	"go-inventory-crm/pkg/password"
)

// AdminUser is a back-office account. Every account has full access.
type AdminUser struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"type:varchar(64);not null;uniqueIndex:uk_admin_username" json:"username"`
	PasswordHash string `gorm:"type:varchar(255);not null" json:"-"`
	DisplayName  string `gorm:"type:varchar(64)" json:"display_name"`
}

func (AdminUser) TableName() string {
	return "admin_user"
}

// SetPassword hashes and stores the password.
func (u *AdminUser) SetPassword(raw string) error {
	hash, err := password.Hash(raw)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

// CheckPassword reports whether raw matches the stored hash.
func (u *AdminUser) CheckPassword(raw string) bool {
	return password.Verify(u.PasswordHash, raw)
}

// Identity converts the account into the session value object.
func (u *AdminUser) Identity() Identity {
	name := u.DisplayName
	if name == "" {
		name = u.Username
	}
	return Identity{ID: u.ID, Username: u.Username, DisplayName: name}
}

// Identity is the authenticated session value handed to every front-end.
type Identity struct {
	ID          uint   `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
}

type identityCtxKey struct{}

// WithIdentity returns a copy of ctx carrying the acting identity.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey{}, id)
}

// IdentityFrom returns the identity stored by WithIdentity, or nil.
func IdentityFrom(ctx context.Context) *Identity {
	if ctx == nil {
		return nil
	}
	id, ok := ctx.Value(identityCtxKey{}).(Identity)
	if !ok {
		return nil
	}
	return &id
}

// DefaultAccount describes an account created on first start.
type DefaultAccount struct {
	Username    string
	DisplayName string
}

// DefaultAccounts are bootstrapped when missing. They share the configured default password.
var DefaultAccounts = []DefaultAccount{
	{Username: "boss1", DisplayName: "boss1"},
	{Username: "boss2", DisplayName: "boss2"},
}
