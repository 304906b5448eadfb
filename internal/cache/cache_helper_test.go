package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type entry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func newTestHelper(t *testing.T) (*CacheHelper, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewCacheHelper(client, "user:"), mr
}

func TestListKey(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{name: "owner and resource", got: ListKey("u1", "folders"), want: "u1:folders"},
		{name: "with sub id", got: ListKey("u1", "media", "f1"), want: "u1:media:f1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("ListKey = %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestCacheHelper_SetGet(t *testing.T) {
	helper, _ := newTestHelper(t)
	ctx := context.Background()

	items := []entry{{ID: "1", Name: "a"}, {ID: "2", Name: "b"}}
	if err := helper.Set(ctx, "u1:folders", items, time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := GetList[entry](ctx, helper, "u1:folders")
	if err != nil {
		t.Fatalf("GetList() error = %v", err)
	}
	if len(got) != 2 || got[0].ID != "1" || got[1].Name != "b" {
		t.Errorf("GetList() = %v, want %v", got, items)
	}
}

func TestCacheHelper_Miss(t *testing.T) {
	helper, _ := newTestHelper(t)

	_, err := GetList[entry](context.Background(), helper, "u1:absent")
	if !errors.Is(err, ErrCacheNotFound) {
		t.Errorf("GetList(absent) error = %v, want ErrCacheNotFound", err)
	}
	if !IsMiss(err) {
		t.Error("IsMiss(ErrCacheNotFound) = false, want true")
	}
}

func TestCacheHelper_SetKeepTTL(t *testing.T) {
	helper, mr := newTestHelper(t)
	ctx := context.Background()

	if err := helper.Set(ctx, "u1:folders", []entry{{ID: "1"}}, time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	mr.FastForward(30 * time.Second)

	if err := helper.SetKeepTTL(ctx, "u1:folders", []entry{{ID: "1"}, {ID: "2"}}); err != nil {
		t.Fatalf("SetKeepTTL() error = %v", err)
	}

	// The rewrite must not extend the original expiry.
	ttl := mr.TTL("user:u1:folders")
	if ttl > 30*time.Second {
		t.Errorf("TTL after SetKeepTTL = %v, want <= 30s", ttl)
	}

	got, err := GetList[entry](ctx, helper, "u1:folders")
	if err != nil {
		t.Fatalf("GetList() error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("GetList() returned %d items, want 2", len(got))
	}
}

func TestMergeList(t *testing.T) {
	helper, _ := newTestHelper(t)
	ctx := context.Background()

	t.Run("append to existing entry", func(t *testing.T) {
		if err := helper.Set(ctx, "u1:media", []entry{{ID: "1"}, {ID: "2"}}, time.Minute); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		if err := AppendToList(ctx, helper, "u1:media", entry{ID: "3"}); err != nil {
			t.Fatalf("AppendToList() error = %v", err)
		}
		got, err := GetList[entry](ctx, helper, "u1:media")
		if err != nil {
			t.Fatalf("GetList() error = %v", err)
		}
		if len(got) != 3 || got[2].ID != "3" {
			t.Errorf("GetList() after append = %v", got)
		}
	})

	t.Run("absent entry is left alone", func(t *testing.T) {
		if err := AppendToList(ctx, helper, "u2:media", entry{ID: "1"}); err != nil {
			t.Fatalf("AppendToList() error = %v", err)
		}
		// The merge must not create an entry: the next read repopulates
		// from the store with a fresh TTL.
		if _, err := GetList[entry](ctx, helper, "u2:media"); !errors.Is(err, ErrCacheNotFound) {
			t.Errorf("GetList(after merge on absent) error = %v, want ErrCacheNotFound", err)
		}
	})

	t.Run("replace in place", func(t *testing.T) {
		if err := helper.Set(ctx, "u3:folders", []entry{{ID: "1", Name: "old"}}, time.Minute); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		err := ReplaceInList(ctx, helper, "u3:folders",
			func(e entry) bool { return e.ID == "1" },
			entry{ID: "1", Name: "new"})
		if err != nil {
			t.Fatalf("ReplaceInList() error = %v", err)
		}
		got, _ := GetList[entry](ctx, helper, "u3:folders")
		if len(got) != 1 || got[0].Name != "new" {
			t.Errorf("GetList() after replace = %v", got)
		}
	})

	t.Run("remove from list", func(t *testing.T) {
		if err := helper.Set(ctx, "u4:media", []entry{{ID: "1"}, {ID: "2"}}, time.Minute); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		err := RemoveFromList(ctx, helper, "u4:media", func(e entry) bool { return e.ID == "1" })
		if err != nil {
			t.Fatalf("RemoveFromList() error = %v", err)
		}
		got, _ := GetList[entry](ctx, helper, "u4:media")
		if len(got) != 1 || got[0].ID != "2" {
			t.Errorf("GetList() after remove = %v", got)
		}
	})
}

func TestCacheHelper_Delete(t *testing.T) {
	helper, _ := newTestHelper(t)
	ctx := context.Background()

	if err := helper.Set(ctx, "u1:profile", entry{ID: "1"}, time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := helper.Delete(ctx, "u1:profile"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	var got entry
	if err := helper.Get(ctx, "u1:profile", &got); !errors.Is(err, ErrCacheNotFound) {
		t.Errorf("Get(deleted) error = %v, want ErrCacheNotFound", err)
	}
}

func TestCacheHelper_InvalidatePattern(t *testing.T) {
	helper, _ := newTestHelper(t)
	ctx := context.Background()

	for _, key := range []string{"u1:media", "u1:media:f1", "u1:folders"} {
		if err := helper.Set(ctx, key, []entry{{ID: "1"}}, time.Minute); err != nil {
			t.Fatalf("Set(%q) error = %v", key, err)
		}
	}

	if err := helper.InvalidatePattern(ctx, "u1:media*"); err != nil {
		t.Fatalf("InvalidatePattern() error = %v", err)
	}

	if _, err := GetList[entry](ctx, helper, "u1:media"); !errors.Is(err, ErrCacheNotFound) {
		t.Error("u1:media survived pattern invalidation")
	}
	if _, err := GetList[entry](ctx, helper, "u1:media:f1"); !errors.Is(err, ErrCacheNotFound) {
		t.Error("u1:media:f1 survived pattern invalidation")
	}
	if _, err := GetList[entry](ctx, helper, "u1:folders"); err != nil {
		t.Error("u1:folders was wrongly invalidated")
	}
}

func TestCacheHelper_BackendDown(t *testing.T) {
	helper, mr := newTestHelper(t)
	ctx := context.Background()

	if err := helper.Set(ctx, "u1:folders", []entry{{ID: "1"}}, time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	mr.Close()

	// Reads degrade to a miss, writes stay swallowable.
	_, err := GetList[entry](ctx, helper, "u1:folders")
	if !errors.Is(err, ErrCacheNotAvailable) {
		t.Errorf("GetList(backend down) error = %v, want ErrCacheNotAvailable", err)
	}
	if !IsMiss(err) {
		t.Error("IsMiss(backend down) = false, want true")
	}
	if err := AppendToList(ctx, helper, "u1:folders", entry{ID: "2"}); err != nil {
		t.Errorf("AppendToList(backend down) error = %v, want nil", err)
	}
}

func TestCacheHelper_NilClient(t *testing.T) {
	helper := NewCacheHelper(nil, "user:")
	ctx := context.Background()

	if helper.Available() {
		t.Error("Available() = true for nil client")
	}

	_, err := GetList[entry](ctx, helper, "u1:folders")
	if !errors.Is(err, ErrCacheNotAvailable) {
		t.Errorf("GetList(nil client) error = %v, want ErrCacheNotAvailable", err)
	}
	if err := helper.Set(ctx, "u1:folders", []entry{}, time.Minute); err != nil {
		t.Errorf("Set(nil client) error = %v, want nil", err)
	}
	if err := helper.Delete(ctx, "u1:folders"); err != nil {
		t.Errorf("Delete(nil client) error = %v, want nil", err)
	}
	if err := AppendToList(ctx, helper, "u1:folders", entry{ID: "1"}); err != nil {
		t.Errorf("AppendToList(nil client) error = %v, want nil", err)
	}
}

func TestCacheHelper_CorruptEntry(t *testing.T) {
	helper, mr := newTestHelper(t)

	if err := mr.Set("user:u1:folders", "{not json"); err != nil {
		t.Fatalf("miniredis Set() error = %v", err)
	}

	_, err := GetList[entry](context.Background(), helper, "u1:folders")
	if err == nil {
		t.Fatal("GetList(corrupt entry) expected error")
	}
	// Corrupt entries read through like a miss.
	if !IsMiss(err) {
		t.Error("IsMiss(corrupt entry) = false, want true")
	}
}

func TestCacheManager_HealthCheck(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	cm := NewCacheManager(client)
	if err := cm.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}

	if err := NewCacheManager(nil).HealthCheck(context.Background()); !errors.Is(err, ErrCacheNotAvailable) {
		t.Errorf("HealthCheck(nil client) error = %v, want ErrCacheNotAvailable", err)
	}
}
