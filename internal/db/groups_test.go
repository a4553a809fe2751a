//go:build testutil
// +build testutil

package db_test

import (
	"context"
	"testing"

	"feedbackhub/internal/db"
	"feedbackhub/internal/models"
	"feedbackhub/internal/testutil/testdb"
)

func TestGroups_Lifecycle(t *testing.T) {
	h, err := testdb.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()
	ctx := context.Background()

	leadID := mustSeedUser(t, h.DB, "lead", models.RoleLeader)
	aliceID := mustSeedUser(t, h.DB, "alice", models.RoleUser)

	if err := db.CreateGroup(ctx, h.DB, "backend", leadID); err != nil {
		t.Fatal(err)
	}
	if err := db.CreateGroup(ctx, h.DB, "backend", leadID); err != db.ErrDuplicate {
		t.Fatalf("want ErrDuplicate, got %v", err)
	}

	if err := db.AddGroupMember(ctx, h.DB, "backend", aliceID); err != nil {
		t.Fatal(err)
	}
	if err := db.AddGroupMember(ctx, h.DB, "backend", aliceID); err != db.ErrDuplicate {
		t.Fatalf("want ErrDuplicate, got %v", err)
	}

	members, err := db.ListGroupMembers(ctx, h.DB, "backend")
	if err != nil {
		t.Fatal(err)
	}
	if len(members) != 1 || members[0].Username != "alice" {
		t.Fatalf("members: %+v", members)
	}

	if err := db.AddFavorite(ctx, h.DB, leadID, "backend"); err != nil {
		t.Fatal(err)
	}
	// идемпотентно
	if err := db.AddFavorite(ctx, h.DB, leadID, "backend"); err != nil {
		t.Fatal(err)
	}

	groups, err := db.ListGroups(ctx, h.DB, leadID, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(groups) != 1 || groups[0].MembersCount != 1 || !groups[0].IsFavorite {
		t.Fatalf("groups: %+v", groups)
	}

	// для другого пользователя группа не избранная
	groups, err = db.ListGroups(ctx, h.DB, aliceID, "back")
	if err != nil {
		t.Fatal(err)
	}
	if len(groups) != 1 || groups[0].IsFavorite {
		t.Fatalf("search/favorite: %+v", groups)
	}

	if err := db.RemoveGroupMember(ctx, h.DB, "backend", aliceID); err != nil {
		t.Fatal(err)
	}
	if err := db.RemoveGroupMember(ctx, h.DB, "backend", aliceID); err != db.ErrNotFound {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if err := db.DeleteGroup(ctx, h.DB, "backend"); err != nil {
		t.Fatal(err)
	}
	if err := db.DeleteGroup(ctx, h.DB, "backend"); err != db.ErrNotFound {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestGroupGradeAverages(t *testing.T) {
	h, err := testdb.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()
	ctx := context.Background()

	leadID := mustSeedUser(t, h.DB, "lead", models.RoleLeader)
	aliceID := mustSeedUser(t, h.DB, "alice", models.RoleUser)
	bobID := mustSeedUser(t, h.DB, "bob", models.RoleUser)

	if err := db.CreateGroup(ctx, h.DB, "backend", leadID); err != nil {
		t.Fatal(err)
	}
	for _, id := range []int64{aliceID, bobID} {
		if err := db.AddGroupMember(ctx, h.DB, "backend", id); err != nil {
			t.Fatal(err)
		}
	}

	mustInsert(t, h.DB, models.Feedback{
		TargetUserID: aliceID, AuthorUserID: leadID, AuthorRole: models.RoleLeader,
		WorkDate: "2024-01-01", JobRule: "coding", Grade: 60,
	})
	mustInsert(t, h.DB, models.Feedback{
		TargetUserID: aliceID, AuthorUserID: leadID, AuthorRole: models.RoleLeader,
		WorkDate: "2024-01-02", JobRule: "coding", Grade: 80,
	})

	avgs, err := db.GroupGradeAverages(ctx, h.DB, "backend")
	if err != nil {
		t.Fatal(err)
	}
	if len(avgs) != 2 {
		t.Fatalf("avgs: %+v", avgs)
	}
	byID := map[int64]bool{}
	for _, a := range avgs {
		byID[a.UserID] = a.AvgGrade.Valid
		if a.UserID == aliceID && a.AvgGrade.Float64 != 70 {
			t.Fatalf("alice avg: %+v", a)
		}
	}
	if !byID[aliceID] || byID[bobID] {
		t.Fatalf("NULL-среднее должно остаться у bob: %+v", avgs)
	}
}
