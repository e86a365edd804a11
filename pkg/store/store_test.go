package store

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	r := &Render{
		ID:        "r1",
		ModelHash: "abc",
		View:      "layered",
		Format:    "png",
		Data:      []byte{1, 2, 3},
		MIME:      "image/png",
		CreatedAt: time.Now(),
	}
	if err := s.Put(ctx, r); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, err := s.Get(ctx, "r1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got == nil || got.ID != "r1" || len(got.Data) != 3 {
		t.Errorf("Get() = %+v, want stored render with payload", got)
	}

	missing, err := s.Get(ctx, "nope")
	if err != nil || missing != nil {
		t.Errorf("Get(missing) = (%v, %v), want (nil, nil)", missing, err)
	}
}

func TestMemoryStoreListNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	base := time.Now()

	for i, id := range []string{"old", "mid", "new"} {
		err := s.Put(ctx, &Render{
			ID:        id,
			Data:      []byte("payload"),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("Put(%s) error = %v", id, err)
		}
	}

	list, err := s.List(ctx, 2)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 2 || list[0].ID != "new" || list[1].ID != "mid" {
		ids := make([]string, len(list))
		for i, r := range list {
			ids[i] = r.ID
		}
		t.Errorf("List() order = %v, want [new mid]", ids)
	}
	for _, r := range list {
		if r.Data != nil {
			t.Errorf("List() entry %s carries payload, want metadata only", r.ID)
		}
	}
}

func TestMemoryStoreCopiesOnGet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	if err := s.Put(ctx, &Render{ID: "r", Format: "svg"}); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, _ := s.Get(ctx, "r")
	got.Format = "png"
	again, _ := s.Get(ctx, "r")
	if again.Format != "svg" {
		t.Errorf("stored render mutated through Get() result")
	}
}
