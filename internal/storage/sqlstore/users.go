package sqlstore

import (
	"context"

	"github.com/SarvaniBalivada/sports-schedular/internal/model"
)

const userColumns = `id, name, email, password_hash, role, created_at, updated_at`

func (s *Store) SaveUser(ctx context.Context, user *model.User) error {
	user.CreatedAt = ts(user.CreatedAt)
	user.UpdatedAt = ts(user.UpdatedAt)
	err := s.get(ctx, &user.ID,
		`INSERT INTO users (name, email, password_hash, role, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?) RETURNING id`,
		user.Name, user.Email, user.PasswordHash, user.Role, user.CreatedAt, user.UpdatedAt)
	return classify("save user", err, model.ErrEmailTaken, nil)
}

func (s *Store) UpdateUser(ctx context.Context, user *model.User) error {
	user.UpdatedAt = ts(user.UpdatedAt)
	res, err := s.exec(ctx,
		`UPDATE users SET name = ?, email = ?, password_hash = ?, role = ?, updated_at = ? WHERE id = ?`,
		user.Name, user.Email, user.PasswordHash, user.Role, user.UpdatedAt, user.ID)
	if err != nil {
		return classify("update user", err, model.ErrEmailTaken, nil)
	}
	return requireRow("update user", res, model.ErrUserNotFound)
}

func (s *Store) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	var user model.User
	if err := s.get(ctx, &user, `SELECT `+userColumns+` FROM users WHERE id = ?`, id); err != nil {
		return nil, classifyRow("get user", err, model.ErrUserNotFound)
	}
	return normalizeUser(&user), nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := s.get(ctx, &user, `SELECT `+userColumns+` FROM users WHERE email = ?`, email); err != nil {
		return nil, classifyRow("get user by email", err, model.ErrUserNotFound)
	}
	return normalizeUser(&user), nil
}

func (s *Store) LockUser(ctx context.Context, id model.UserID) error {
	var locked model.UserID
	err := s.get(ctx, &locked, s.forUpdate(`SELECT id FROM users WHERE id = ?`), id)
	return classifyRow("lock user", err, model.ErrUserNotFound)
}

func normalizeUser(u *model.User) *model.User {
	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = u.UpdatedAt.UTC()
	return u
}
