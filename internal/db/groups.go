package db

import (
	"context"
	"database/sql"
	"time"

	"feedbackhub/internal/ctxutil"
)

type GroupInfo struct {
	Groupname    string    `json:"groupname"`
	MembersCount int       `json:"members_count"`
	CreatedAt    time.Time `json:"created_at"`
	IsFavorite   bool      `json:"is_favorite"`
}

type GroupMember struct {
	UserID   int64     `json:"user_id"`
	Username string    `json:"username"`
	AddedAt  time.Time `json:"added_at"`
}

type MemberAvg struct {
	UserID   int64
	AvgGrade sql.NullFloat64
}

func CreateGroup(ctx context.Context, database *sql.DB, groupname string, createdBy int64) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	_, err := database.ExecContext(ctx,
		`INSERT INTO groups (groupname, created_by) VALUES ($1, $2)`, groupname, createdBy)
	if IsUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func DeleteGroup(ctx context.Context, database *sql.DB, groupname string) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	res, err := database.ExecContext(ctx, `DELETE FROM groups WHERE groupname = $1`, groupname)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListGroups — группы с числом участников и отметкой избранного для callerID.
// search фильтрует по подстроке имени, максимум 50 групп по алфавиту.
func ListGroups(ctx context.Context, database *sql.DB, callerID int64, search string) ([]GroupInfo, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	rows, err := database.QueryContext(ctx, `
		SELECT g.groupname,
		       COUNT(m.user_id),
		       g.created_at,
		       EXISTS (SELECT 1 FROM favorites f WHERE f.groupname = g.groupname AND f.user_id = $1)
		FROM groups g
		LEFT JOIN group_members m ON m.groupname = g.groupname
		WHERE ($2 = '' OR g.groupname ILIKE '%' || $2 || '%')
		GROUP BY g.groupname, g.created_at
		ORDER BY g.groupname ASC
		LIMIT 50`,
		callerID, search)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []GroupInfo
	for rows.Next() {
		var g GroupInfo
		if err := rows.Scan(&g.Groupname, &g.MembersCount, &g.CreatedAt, &g.IsFavorite); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func AddGroupMember(ctx context.Context, database *sql.DB, groupname string, userID int64) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	_, err := database.ExecContext(ctx,
		`INSERT INTO group_members (groupname, user_id) VALUES ($1, $2)`, groupname, userID)
	if IsUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func RemoveGroupMember(ctx context.Context, database *sql.DB, groupname string, userID int64) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	res, err := database.ExecContext(ctx,
		`DELETE FROM group_members WHERE groupname = $1 AND user_id = $2`, groupname, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListGroupMembers — участники с именами, свежедобавленные первыми.
func ListGroupMembers(ctx context.Context, database *sql.DB, groupname string) ([]GroupMember, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	rows, err := database.QueryContext(ctx, `
		SELECT m.user_id, p.username, m.added_at
		FROM group_members m
		JOIN profiles p ON p.id = m.user_id
		WHERE m.groupname = $1
		ORDER BY m.added_at DESC`,
		groupname)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []GroupMember
	for rows.Next() {
		var m GroupMember
		if err := rows.Scan(&m.UserID, &m.Username, &m.AddedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// GroupGradeAverages — средняя оценка каждого участника группы за всё время;
// NULL для участников без единой записи.
func GroupGradeAverages(ctx context.Context, database *sql.DB, groupname string) ([]MemberAvg, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	rows, err := database.QueryContext(ctx, `
		SELECT m.user_id, AVG(f.grade)
		FROM group_members m
		LEFT JOIN feedback f ON f.target_user_id = m.user_id
		WHERE m.groupname = $1
		GROUP BY m.user_id`,
		groupname)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []MemberAvg
	for rows.Next() {
		var a MemberAvg
		if err := rows.Scan(&a.UserID, &a.AvgGrade); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
