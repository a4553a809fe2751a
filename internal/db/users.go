package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"feedbackhub/internal/ctxutil"
	"feedbackhub/internal/models"
)

func CreateProfile(ctx context.Context, database *sql.DB, username string) (int64, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	var id int64
	err := database.QueryRowContext(ctx,
		`INSERT INTO profiles (username) VALUES ($1) RETURNING id`, username).Scan(&id)
	if err != nil {
		if IsUniqueViolation(err) {
			return 0, ErrDuplicate
		}
		return 0, fmt.Errorf("create profile: %w", err)
	}
	return id, nil
}

// ListProfiles — все профили одним запросом (для индекса имён при импорте).
func ListProfiles(ctx context.Context, database *sql.DB) ([]models.Profile, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	rows, err := database.QueryContext(ctx,
		`SELECT id, username, created_at FROM profiles`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.Profile
	for rows.Next() {
		var p models.Profile
		if err := rows.Scan(&p.ID, &p.Username, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// UsernamesByIDs — username по id для списка пользователей.
func UsernamesByIDs(ctx context.Context, database *sql.DB, ids []int64) (map[int64]string, error) {
	if len(ids) == 0 {
		return map[int64]string{}, nil
	}
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	rows, err := database.QueryContext(ctx,
		`SELECT id, username FROM profiles WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := make(map[int64]string, len(ids))
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		out[id] = name
	}
	return out, rows.Err()
}

func SetRole(ctx context.Context, database *sql.DB, userID int64, role models.Role) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	_, err := database.ExecContext(ctx, `
		INSERT INTO user_roles (user_id, role) VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET role = excluded.role`,
		userID, string(role))
	if err != nil {
		return fmt.Errorf("set role: %w", err)
	}
	return nil
}

// ListUserRoles — все (user_id, role) одним запросом (для индекса ролей при импорте).
func ListUserRoles(ctx context.Context, database *sql.DB) ([]models.UserRole, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	rows, err := database.QueryContext(ctx, `SELECT user_id, role FROM user_roles`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.UserRole
	for rows.Next() {
		var ur models.UserRole
		var role string
		if err := rows.Scan(&ur.UserID, &role); err != nil {
			return nil, err
		}
		ur.Role = models.Role(role)
		out = append(out, ur)
	}
	return out, rows.Err()
}

// HasRole — проверка привилегии (аналог has_role в хранилище).
func HasRole(ctx context.Context, database *sql.DB, userID int64, role models.Role) (bool, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	var ok bool
	err := database.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM user_roles WHERE user_id = $1 AND role = $2)`,
		userID, string(role)).Scan(&ok)
	if err != nil {
		return false, err
	}
	return ok, nil
}

func CreateToken(ctx context.Context, database *sql.DB, token string, userID int64) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	_, err := database.ExecContext(ctx,
		`INSERT INTO api_tokens (token, user_id) VALUES ($1, $2)`, token, userID)
	return err
}

// UserIDByToken — субъект bearer-токена; ErrNotFound для неизвестного токена.
func UserIDByToken(ctx context.Context, database *sql.DB, token string) (int64, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	var id int64
	err := database.QueryRowContext(ctx,
		`SELECT user_id FROM api_tokens WHERE token = $1`, token).Scan(&id)
	if IsNoRows(err) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}
