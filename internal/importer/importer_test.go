//go:build testutil
// +build testutil

package importer_test

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"go.uber.org/zap"

	"feedbackhub/internal/db"
	"feedbackhub/internal/importer"
	"feedbackhub/internal/models"
	"feedbackhub/internal/testutil/testdb"
)

func mustSeedUser(t *testing.T, database *sql.DB, username string, role models.Role) int64 {
	t.Helper()
	id, err := db.CreateProfile(context.Background(), database, username)
	if err != nil {
		t.Fatal(err)
	}
	if err := db.SetRole(context.Background(), database, id, role); err != nil {
		t.Fatal(err)
	}
	return id
}

const csvHeader = "user_username,author_username,author_role,work_date,job_rule,grade,review_subject,notes\n"

func TestRun_MixedRows(t *testing.T) {
	h, err := testdb.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	ctx := context.Background()
	log := zap.NewNop().Sugar()

	aliceID := mustSeedUser(t, h.DB, "alice", models.RoleUser)
	mustSeedUser(t, h.DB, "bob", models.RoleUser)
	leadID := mustSeedUser(t, h.DB, "lead", models.RoleLeader)

	file := csvHeader +
		"alice,,user,2024-01-01,coding,80,Sprint,good week\n" +
		"alice,lead,leader,2024-01-01,coding,60,Sprint,\n" +
		"bob,bob,user,2024-01-02,,100,Sprint,\n" +
		"carol,,user,2024-01-03,,50,,\n" + // нет такого пользователя
		"alice,bob,leader,2024-01-04,,50,,\n" // bob не лидер

	res, err := importer.Run(ctx, h.DB, log, leadID, strings.NewReader(file))
	if err != nil {
		t.Fatal(err)
	}

	if res.Summary.TotalRows != 5 || res.Summary.Imported != 3 || res.Summary.Skipped != 2 {
		t.Fatalf("summary: %+v", res.Summary)
	}
	if res.Summary.Imported+res.Summary.Skipped != res.Summary.TotalRows {
		t.Fatalf("summary invariant broken: %+v", res.Summary)
	}
	if len(res.Errors) != 2 {
		t.Fatalf("errors: %+v", res.Errors)
	}
	// нумерация: индекс данных +1 за единицу +1 за заголовок
	if res.Errors[0].Row != 5 || !strings.Contains(res.Errors[0].Reason, "Unknown user_username: carol") {
		t.Fatalf("first error: %+v", res.Errors[0])
	}
	if res.Errors[1].Row != 6 || res.Errors[1].Reason != "User bob is not a leader" {
		t.Fatalf("second error: %+v", res.Errors[1])
	}

	// пустой автор самооценки — автор и есть субъект
	exists, err := db.FeedbackExists(ctx, h.DB, aliceID, aliceID, "2024-01-01", "coding")
	if err != nil || !exists {
		t.Fatalf("self row not stored as (alice, alice): %v", err)
	}
}

func TestRun_Idempotent(t *testing.T) {
	h, err := testdb.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	ctx := context.Background()
	log := zap.NewNop().Sugar()

	mustSeedUser(t, h.DB, "alice", models.RoleUser)
	leadID := mustSeedUser(t, h.DB, "lead", models.RoleLeader)

	file := csvHeader +
		"alice,,user,2024-01-01,coding,80,Sprint,\n" +
		"alice,lead,leader,2024-01-01,coding,60,Sprint,\n"

	first, err := importer.Run(ctx, h.DB, log, leadID, strings.NewReader(file))
	if err != nil {
		t.Fatal(err)
	}
	if first.Summary.Imported != 2 || len(first.Errors) != 0 {
		t.Fatalf("first run: %+v", first)
	}

	second, err := importer.Run(ctx, h.DB, log, leadID, strings.NewReader(file))
	if err != nil {
		t.Fatal(err)
	}
	if second.Summary.Imported != 0 || second.Summary.Skipped != 2 {
		t.Fatalf("second run must import nothing: %+v", second.Summary)
	}
	for _, e := range second.Errors {
		if !strings.Contains(e.Reason, "Duplicate feedback") {
			t.Fatalf("want duplicate reason, got %+v", e)
		}
	}
}

func TestRun_LeadersOnly(t *testing.T) {
	h, err := testdb.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	aliceID := mustSeedUser(t, h.DB, "alice", models.RoleUser)

	_, err = importer.Run(context.Background(), h.DB, zap.NewNop().Sugar(), aliceID, strings.NewReader(csvHeader))
	if err != importer.ErrNotLeader {
		t.Fatalf("want ErrNotLeader, got %v", err)
	}
}

func TestRun_EmptyFile(t *testing.T) {
	h, err := testdb.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	leadID := mustSeedUser(t, h.DB, "lead", models.RoleLeader)

	res, err := importer.Run(context.Background(), h.DB, zap.NewNop().Sugar(), leadID, strings.NewReader(""))
	if err != nil {
		t.Fatal(err)
	}
	if res.Summary.TotalRows != 0 || len(res.Errors) != 0 {
		t.Fatalf("empty file: %+v", res)
	}
}
