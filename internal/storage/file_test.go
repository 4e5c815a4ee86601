package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/quickstop/cafebot/internal/domain"
	"github.com/quickstop/cafebot/internal/queue"
	"github.com/quickstop/cafebot/internal/session"
)

func TestFileLoadEmpty(t *testing.T) {
	repo := NewFile(filepath.Join(t.TempDir(), "data.json"))

	store, err := repo.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if store.NextTicketID != 1 {
		t.Errorf("expected counter at 1, got %d", store.NextTicketID)
	}
	if len(store.Tickets) != 0 || len(store.Sessions) != 0 {
		t.Errorf("expected empty store, got %+v", store)
	}
}

func TestFileRoundTrip(t *testing.T) {
	repo := NewFile(filepath.Join(t.TempDir(), "data.json"))
	ctx := context.Background()

	store, err := repo.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}

	clock := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	q := queue.NewWithClock(store, func() time.Time { return clock })
	first := q.Create("2348011112222", "School Fees Payment")
	q.AppendDetail(first.ID, "Jane Doe, 12345")
	q.AppendDetail(first.ID, "fresh student")
	second := q.Create("2348033334444", "Speak to Agent")
	q.Assign(second.ID, "2348057703948")
	q.Close(second.ID)

	sessions := session.New(store)
	sessions.SetMenu("2348011112222", domain.MenuNone)
	sessions.LinkTicket("2348011112222", first.ID)

	if err := repo.Save(ctx, store); err != nil {
		t.Fatal(err)
	}

	reloaded, err := repo.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}

	if reloaded.NextTicketID != 3 {
		t.Errorf("expected counter at 3, got %d", reloaded.NextTicketID)
	}
	if len(reloaded.Tickets) != 2 {
		t.Fatalf("expected 2 tickets, got %d", len(reloaded.Tickets))
	}

	got := reloaded.Tickets[0]
	if got.ID != first.ID || got.ServiceName != "School Fees Payment" || got.Status != domain.TicketStatusWaiting {
		t.Errorf("first ticket mismatch: %+v", got)
	}
	if len(got.DetailMessages) != 2 || got.DetailMessages[1].Text != "fresh student" {
		t.Errorf("detail messages lost order: %v", got.DetailMessages)
	}
	if !got.DetailMessages[0].At.Equal(clock) {
		t.Errorf("timestamp mismatch: %v", got.DetailMessages[0].At)
	}

	gotSecond := reloaded.Tickets[1]
	if gotSecond.Status != domain.TicketStatusDone || gotSecond.ClosedAt == nil {
		t.Errorf("second ticket mismatch: %+v", gotSecond)
	}
	if gotSecond.AssignedStaffID != "2348057703948" {
		t.Errorf("assignee lost: %q", gotSecond.AssignedStaffID)
	}

	sess := reloaded.Sessions["2348011112222"]
	if sess == nil {
		t.Fatal("session lost")
	}
	if sess.Menu != domain.MenuNone || sess.ActiveTicketID != first.ID {
		t.Errorf("session mismatch: %+v", sess)
	}
}

func TestFileSaveOverwrites(t *testing.T) {
	repo := NewFile(filepath.Join(t.TempDir(), "data.json"))
	ctx := context.Background()

	store := domain.NewStore()
	queue.New(store).Create("111", "Web Design")
	if err := repo.Save(ctx, store); err != nil {
		t.Fatal(err)
	}

	queue.New(store).Create("222", "Graphic Design")
	if err := repo.Save(ctx, store); err != nil {
		t.Fatal(err)
	}

	reloaded, err := repo.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(reloaded.Tickets) != 2 || reloaded.NextTicketID != 3 {
		t.Errorf("unexpected store after overwrite: %d tickets, counter %d",
			len(reloaded.Tickets), reloaded.NextTicketID)
	}
}
