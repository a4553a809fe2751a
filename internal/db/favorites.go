package db

import (
	"context"
	"database/sql"

	"feedbackhub/internal/ctxutil"
)

// AddFavorite идемпотентен: повторное добавление не ошибка.
func AddFavorite(ctx context.Context, database *sql.DB, userID int64, groupname string) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	_, err := database.ExecContext(ctx, `
		INSERT INTO favorites (user_id, groupname) VALUES ($1, $2)
		ON CONFLICT (user_id, groupname) DO NOTHING`,
		userID, groupname)
	return err
}

func RemoveFavorite(ctx context.Context, database *sql.DB, userID int64, groupname string) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	_, err := database.ExecContext(ctx,
		`DELETE FROM favorites WHERE user_id = $1 AND groupname = $2`, userID, groupname)
	return err
}
