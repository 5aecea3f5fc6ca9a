package sqlite

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/lambdafront/lambdafront/internal/domain"
	"github.com/lambdafront/lambdafront/internal/storage"
)

func TestStore_SaveAndGet(t *testing.T) {
	// Use in-memory SQLite with shared cache for testing
	store, err := New("file:memdb1?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	rec := &storage.InvocationRecord{
		ID:         "inv-1",
		Trigger:    domain.TriggerALB,
		RemoteAddr: "192.0.2.9:40000",
		Payload:    []byte(`{"httpMethod":"GET"}`),
		Response:   []byte(`{"statusCode":200}`),
		DurationMS: 8,
	}
	if err := store.Save(ctx, rec); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := store.Get(ctx, "inv-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Trigger != domain.TriggerALB {
		t.Errorf("Trigger = %v, want %v", got.Trigger, domain.TriggerALB)
	}
	if string(got.Payload) != `{"httpMethod":"GET"}` {
		t.Errorf("Payload = %s, want stored payload", got.Payload)
	}
	if got.Error != "" {
		t.Errorf("Error = %q, want empty", got.Error)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt not stamped on save")
	}
}

func TestStore_GetMissing(t *testing.T) {
	store, err := New("file:memdb2?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer store.Close()

	_, err = store.Get(context.Background(), "nope")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestStore_List(t *testing.T) {
	store, err := New("file:memdb3?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	tags := []domain.Trigger{domain.TriggerALB, domain.TriggerRest, domain.TriggerALB}
	for i, tag := range tags {
		rec := &storage.InvocationRecord{ID: fmt.Sprintf("inv-%d", i), Trigger: tag}
		if err := store.Save(ctx, rec); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	recs, err := store.List(ctx, storage.ListOptions{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("List() count = %d, want 3", len(recs))
	}

	recs, err = store.List(ctx, storage.ListOptions{Trigger: domain.TriggerALB})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(recs) != 2 {
		t.Errorf("List(alb) count = %d, want 2", len(recs))
	}

	recs, err = store.List(ctx, storage.ListOptions{Limit: 1, Offset: 2})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(recs) != 1 {
		t.Errorf("List(limit 1, offset 2) count = %d, want 1", len(recs))
	}
}

func TestStore_ErrorRecord(t *testing.T) {
	store, err := New("file:memdb4?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	rec := &storage.InvocationRecord{
		ID:      "inv-err",
		Trigger: domain.TriggerHTTPV2,
		Payload: []byte(`{"version":"2.0"}`),
		Error:   "decode: payload matches no known trigger shape",
	}
	if err := store.Save(ctx, rec); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := store.Get(ctx, "inv-err")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Error == "" {
		t.Error("Error = empty, want stored error text")
	}
	if got.Response != nil {
		t.Errorf("Response = %s, want nil for failed invocation", got.Response)
	}
}

func TestStore_Persistence(t *testing.T) {
	tmpfile, err := os.CreateTemp(t.TempDir(), "invocations-*.db")
	if err != nil {
		t.Fatalf("CreateTemp() error = %v", err)
	}
	tmpfile.Close()

	store, err := New(tmpfile.Name())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx := context.Background()
	rec := &storage.InvocationRecord{ID: "inv-persist", Trigger: domain.TriggerRest}
	if err := store.Save(ctx, rec); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	store.Close()

	store2, err := New(tmpfile.Name())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer store2.Close()

	if _, err := store2.Get(ctx, "inv-persist"); err != nil {
		t.Errorf("Get() after reopen error = %v", err)
	}
}
