package social

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/ngooning-backend/internal/data/repoerr"
	"github.com/yungbote/ngooning-backend/internal/data/repos/testutil"
	types "github.com/yungbote/ngooning-backend/internal/domain"
	"github.com/yungbote/ngooning-backend/internal/platform/dbctx"
)

func TestGroupRepoMemberCounts(t *testing.T) {
	db := testutil.DB(t)
	logg := testutil.Logger(t)
	groups := NewGroupRepo(db, logg)
	dbc := dbctx.Context{Ctx: context.Background()}

	owner := testutil.SeedUser(t, db, "owner@example.com")
	member := testutil.SeedUser(t, db, "member@example.com")

	older := testutil.SeedGroup(t, db, owner.ID, "older")
	if err := db.Model(&types.Group{}).Where("id = ?", older.ID).
		Update("created_at", time.Now().Add(-time.Hour).UTC()).Error; err != nil {
		t.Fatalf("backdate group: %v", err)
	}
	newer := testutil.SeedGroup(t, db, owner.ID, "newer")
	testutil.SeedMembership(t, db, newer.ID, member.ID, types.GroupRoleMember)

	list, err := groups.List(dbc, 20, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("List: expected 2 groups, got %d", len(list))
	}
	if list[0].ID != newer.ID || list[0].MemberCount != 2 {
		t.Fatalf("List: expected newest first with 2 members, got %+v", list[0])
	}
	if list[1].MemberCount != 1 {
		t.Fatalf("List: expected 1 member in older group, got %d", list[1].MemberCount)
	}

	page, err := groups.List(dbc, 1, 1)
	if err != nil || len(page) != 1 || page[0].ID != older.ID {
		t.Fatalf("List page: %v %+v", err, page)
	}

	got, err := groups.GetByID(dbc, newer.ID)
	if err != nil || got.MemberCount != 2 {
		t.Fatalf("GetByID: %v %+v", err, got)
	}
	if _, err := groups.GetByID(dbc, uuid.New()); !errors.Is(err, repoerr.ErrNotFound) {
		t.Fatalf("GetByID missing: expected ErrNotFound, got %v", err)
	}
}

func TestMembershipRepo(t *testing.T) {
	db := testutil.DB(t)
	repo := NewMembershipRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background()}

	owner := testutil.SeedUser(t, db, "owner@example.com")
	joiner := testutil.SeedUser(t, db, "joiner@example.com")
	g := testutil.SeedGroup(t, db, owner.ID, "g")

	ok, err := repo.IsMember(dbc, g.ID, joiner.ID)
	if err != nil || ok {
		t.Fatalf("IsMember before join: %v %v", ok, err)
	}
	m, err := repo.Create(dbc, &types.GroupMembership{GroupID: g.ID, UserID: joiner.ID})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if m.Role != types.GroupRoleMember {
		t.Fatalf("Create: expected default role member, got %q", m.Role)
	}
	if _, err := repo.Create(dbc, &types.GroupMembership{GroupID: g.ID, UserID: joiner.ID}); !errors.Is(err, repoerr.ErrConflict) {
		t.Fatalf("Create duplicate: expected ErrConflict, got %v", err)
	}
	ok, err = repo.IsMember(dbc, g.ID, joiner.ID)
	if err != nil || !ok {
		t.Fatalf("IsMember after join: %v %v", ok, err)
	}

	list, err := repo.ListByGroup(dbc, g.ID)
	if err != nil {
		t.Fatalf("ListByGroup: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("ListByGroup: expected 2, got %d", len(list))
	}
	for _, item := range list {
		if item.User == nil {
			t.Fatalf("ListByGroup: user not preloaded for %s", item.UserID)
		}
	}
}

func TestEventRepoListUpcoming(t *testing.T) {
	db := testutil.DB(t)
	repo := NewEventRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background()}

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	me := testutil.SeedUser(t, db, "me@example.com")
	other := testutil.SeedUser(t, db, "other@example.com")
	mine := testutil.SeedGroup(t, db, other.ID, "mine")
	testutil.SeedMembership(t, db, mine.ID, me.ID, types.GroupRoleMember)
	foreign := testutil.SeedGroup(t, db, other.ID, "foreign")

	later := testutil.SeedEvent(t, db, me.ID, nil, "own later", now.Add(48*time.Hour))
	sooner := testutil.SeedEvent(t, db, other.ID, &mine.ID, "group sooner", now.Add(2*time.Hour))
	testutil.SeedEvent(t, db, me.ID, nil, "own past", now.Add(-2*time.Hour))
	testutil.SeedEvent(t, db, other.ID, &foreign.ID, "not mine", now.Add(3*time.Hour))
	testutil.SeedEvent(t, db, other.ID, nil, "someone else", now.Add(4*time.Hour))

	got, err := repo.ListUpcoming(dbc, me.ID, now, 10)
	if err != nil {
		t.Fatalf("ListUpcoming: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ListUpcoming: expected 2 events, got %d: %+v", len(got), got)
	}
	if got[0].ID != sooner.ID || got[1].ID != later.ID {
		t.Fatalf("ListUpcoming: wrong order: %s, %s", got[0].Title, got[1].Title)
	}

	limited, err := repo.ListUpcoming(dbc, me.ID, now, 1)
	if err != nil || len(limited) != 1 {
		t.Fatalf("ListUpcoming limit: %v %d", err, len(limited))
	}
}

func TestMessageRepoNewestFirst(t *testing.T) {
	db := testutil.DB(t)
	repo := NewMessageRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background()}

	u := testutil.SeedUser(t, db, "sender@example.com")
	g := testutil.SeedGroup(t, db, u.ID, "g")
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, content := range []string{"first", "second", "third"} {
		if _, err := repo.Create(dbc, &types.Message{
			GroupID:   g.ID,
			SenderID:  u.ID,
			Content:   content,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}); err != nil {
			t.Fatalf("Create %s: %v", content, err)
		}
	}

	got, err := repo.ListByGroup(dbc, g.ID, 2)
	if err != nil {
		t.Fatalf("ListByGroup: %v", err)
	}
	if len(got) != 2 || got[0].Content != "third" || got[1].Content != "second" {
		t.Fatalf("ListByGroup: unexpected messages %+v", got)
	}
	if got[0].Sender == nil || got[0].Sender.Email != "sender@example.com" {
		t.Fatalf("ListByGroup: sender not preloaded")
	}
}
