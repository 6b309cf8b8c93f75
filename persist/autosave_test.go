package persist

import (
	"testing"

	"github.com/taskpilot/client/domain"
	"github.com/taskpilot/client/store"
)

func TestAutosaveWritesThroughOnChange(t *testing.T) {
	t.Parallel()

	target := openTestStore(t)
	auth := store.NewAuthStore(nil, nil, nil)
	tasks := store.NewTaskStore(nil, nil)

	NewAutosave(target, auth, tasks, nil).Attach()

	auth.Hydrate(domain.Session{Token: "tok", Authenticated: true})
	tasks.Hydrate([]domain.Task{
		{ID: "1", Title: "snapshot me", Priority: domain.PriorityHigh, Status: domain.StatusIncomplete},
	})

	env, err := target.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if env == nil {
		t.Fatal("no envelope written")
	}
	if env.Auth.Token != "tok" {
		t.Fatalf("auth slice missing from snapshot: %+v", env.Auth)
	}
	if len(env.Tasks) != 1 || env.Tasks[0].Title != "snapshot me" {
		t.Fatalf("task slice missing from snapshot: %+v", env.Tasks)
	}
}

func TestRestoreHydratesBothStores(t *testing.T) {
	t.Parallel()

	target := openTestStore(t)
	if err := target.Save(sampleEnvelope("restored")); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	auth := store.NewAuthStore(nil, nil, nil)
	tasks := store.NewTaskStore(nil, nil)

	if err := Restore(target, auth, tasks); err != nil {
		t.Fatalf("Restore returned error: %v", err)
	}

	if session := auth.Session(); session.Token != "tok" || !session.Authenticated {
		t.Fatalf("auth slice not restored: %+v", session)
	}
	if got := tasks.Tasks(); len(got) != 1 || got[0].Title != "restored" {
		t.Fatalf("task slice not restored: %+v", got)
	}
}

func TestRestoreWithEmptyStoreKeepsDefaults(t *testing.T) {
	t.Parallel()

	target := openTestStore(t)
	auth := store.NewAuthStore(nil, nil, nil)
	tasks := store.NewTaskStore(nil, nil)

	if err := Restore(target, auth, tasks); err != nil {
		t.Fatalf("Restore returned error: %v", err)
	}
	if auth.Session().Authenticated {
		t.Fatal("auth store not at defaults")
	}
	if len(tasks.Tasks()) != 0 {
		t.Fatal("task store not at defaults")
	}
}
