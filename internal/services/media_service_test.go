package services

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/coursekit/platform-service/internal/cache"
	"github.com/coursekit/platform-service/internal/models"
	"github.com/coursekit/platform-service/internal/validator"
)

type mediaFixture struct {
	service MediaService
	repo    *mockRepository
	redis   *miniredis.Miniredis
}

func newMediaFixture(t *testing.T) *mediaFixture {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	repo := newMockRepository()
	service := NewMediaService(repo, cache.NewCacheManager(client), discardLogger(), validator.NewValidator())

	return &mediaFixture{service: service, repo: repo, redis: mr}
}

func TestMediaService_ListFolders_ReadThrough(t *testing.T) {
	f := newMediaFixture(t)
	ctx := context.Background()

	folder, err := f.service.CreateFolder(ctx, "u1", &CreateFolderRequest{Name: "Lectures"})
	if err != nil {
		t.Fatalf("CreateFolder() error = %v", err)
	}

	// Cold read goes to the store once and populates the cache
	// synchronously.
	f.repo.folder.listCalls = 0
	first, err := f.service.ListFolders(ctx, "u1")
	if err != nil {
		t.Fatalf("ListFolders() error = %v", err)
	}
	if len(first) != 1 || first[0].ID != folder.ID {
		t.Fatalf("ListFolders() = %v, want [%s]", first, folder.ID)
	}
	if f.repo.folder.listCalls != 1 {
		t.Errorf("store queries after cold read = %d, want 1", f.repo.folder.listCalls)
	}

	// Warm read is served from the cache with zero store queries.
	second, err := f.service.ListFolders(ctx, "u1")
	if err != nil {
		t.Fatalf("ListFolders() error = %v", err)
	}
	if len(second) != 1 {
		t.Fatalf("ListFolders(warm) = %v", second)
	}
	if f.repo.folder.listCalls != 1 {
		t.Errorf("store queries after warm read = %d, want 1", f.repo.folder.listCalls)
	}
}

func TestMediaService_CreateFolder_MergesIntoCachedList(t *testing.T) {
	f := newMediaFixture(t)
	ctx := context.Background()

	if _, err := f.service.CreateFolder(ctx, "u1", &CreateFolderRequest{Name: "A"}); err != nil {
		t.Fatalf("CreateFolder() error = %v", err)
	}
	if _, err := f.service.ListFolders(ctx, "u1"); err != nil {
		t.Fatalf("ListFolders() error = %v", err)
	}

	// The create merges into the warm cached list; the follow-up read must
	// see the new folder without another store query.
	f.repo.folder.listCalls = 0
	created, err := f.service.CreateFolder(ctx, "u1", &CreateFolderRequest{Name: "B"})
	if err != nil {
		t.Fatalf("CreateFolder() error = %v", err)
	}

	folders, err := f.service.ListFolders(ctx, "u1")
	if err != nil {
		t.Fatalf("ListFolders() error = %v", err)
	}
	if len(folders) != 2 {
		t.Fatalf("ListFolders() returned %d folders, want 2", len(folders))
	}
	if folders[1].ID != created.ID {
		t.Errorf("merged folder = %q, want %q appended", folders[1].ID, created.ID)
	}
	if f.repo.folder.listCalls != 0 {
		t.Errorf("store queries after merge = %d, want 0", f.repo.folder.listCalls)
	}
}

func TestMediaService_RenameFolder_MergesInPlace(t *testing.T) {
	f := newMediaFixture(t)
	ctx := context.Background()

	folder, err := f.service.CreateFolder(ctx, "u1", &CreateFolderRequest{Name: "Old"})
	if err != nil {
		t.Fatalf("CreateFolder() error = %v", err)
	}
	if _, err := f.service.ListFolders(ctx, "u1"); err != nil {
		t.Fatalf("ListFolders() error = %v", err)
	}

	f.repo.folder.listCalls = 0
	if _, err := f.service.RenameFolder(ctx, "u1", folder.ID, &RenameFolderRequest{Name: "New"}); err != nil {
		t.Fatalf("RenameFolder() error = %v", err)
	}

	folders, err := f.service.ListFolders(ctx, "u1")
	if err != nil {
		t.Fatalf("ListFolders() error = %v", err)
	}
	if len(folders) != 1 || folders[0].Name != "New" {
		t.Errorf("ListFolders() after rename = %v, want one folder named New", folders)
	}
	if f.repo.folder.listCalls != 0 {
		t.Errorf("store queries after rename = %d, want 0", f.repo.folder.listCalls)
	}
}

func TestMediaService_DeleteFolder_InvalidatesViews(t *testing.T) {
	f := newMediaFixture(t)
	ctx := context.Background()

	folder, err := f.service.CreateFolder(ctx, "u1", &CreateFolderRequest{Name: "Lectures"})
	if err != nil {
		t.Fatalf("CreateFolder() error = %v", err)
	}
	if _, err := f.service.CreateMedia(ctx, "u1", &CreateMediaRequest{
		Name:     "intro.mp4",
		Type:     models.MediaVideo,
		PublicID: "vid-1",
		URL:      "https://cdn.example.com/vid-1",
		FolderID: &folder.ID,
	}); err != nil {
		t.Fatalf("CreateMedia() error = %v", err)
	}

	// Warm all three views.
	if _, err := f.service.ListFolders(ctx, "u1"); err != nil {
		t.Fatal(err)
	}
	if _, err := f.service.ListMedia(ctx, "u1"); err != nil {
		t.Fatal(err)
	}
	if _, err := f.service.ListFolderMedia(ctx, "u1", folder.ID); err != nil {
		t.Fatal(err)
	}

	if err := f.service.DeleteFolder(ctx, "u1", folder.ID); err != nil {
		t.Fatalf("DeleteFolder() error = %v", err)
	}

	// The folder and its media are gone from the store too.
	if _, err := f.service.ListFolderMedia(ctx, "u1", folder.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("ListFolderMedia(deleted folder) error = %v, want ErrNotFound", err)
	}
	media, err := f.service.ListMedia(ctx, "u1")
	if err != nil {
		t.Fatalf("ListMedia() error = %v", err)
	}
	if len(media) != 0 {
		t.Errorf("ListMedia() after folder delete = %v, want empty", media)
	}
	folders, err := f.service.ListFolders(ctx, "u1")
	if err != nil {
		t.Fatalf("ListFolders() error = %v", err)
	}
	if len(folders) != 0 {
		t.Errorf("ListFolders() after delete = %v, want empty", folders)
	}
}

func TestMediaService_CreateMedia_MergesBothViews(t *testing.T) {
	f := newMediaFixture(t)
	ctx := context.Background()

	folder, err := f.service.CreateFolder(ctx, "u1", &CreateFolderRequest{Name: "Docs"})
	if err != nil {
		t.Fatalf("CreateFolder() error = %v", err)
	}

	// Warm the library and per-folder views.
	if _, err := f.service.ListMedia(ctx, "u1"); err != nil {
		t.Fatal(err)
	}
	if _, err := f.service.ListFolderMedia(ctx, "u1", folder.ID); err != nil {
		t.Fatal(err)
	}

	f.repo.media.listCalls = 0
	created, err := f.service.CreateMedia(ctx, "u1", &CreateMediaRequest{
		Name:     "syllabus.pdf",
		Type:     models.MediaDocument,
		PublicID: "doc-1",
		URL:      "https://cdn.example.com/doc-1",
		FolderID: &folder.ID,
	})
	if err != nil {
		t.Fatalf("CreateMedia() error = %v", err)
	}

	library, err := f.service.ListMedia(ctx, "u1")
	if err != nil {
		t.Fatalf("ListMedia() error = %v", err)
	}
	if len(library) != 1 || library[0].ID != created.ID {
		t.Errorf("ListMedia() = %v, want the created media", library)
	}

	inFolder, err := f.service.ListFolderMedia(ctx, "u1", folder.ID)
	if err != nil {
		t.Fatalf("ListFolderMedia() error = %v", err)
	}
	if len(inFolder) != 1 || inFolder[0].ID != created.ID {
		t.Errorf("ListFolderMedia() = %v, want the created media", inFolder)
	}

	if f.repo.media.listCalls != 0 {
		t.Errorf("store queries after merge = %d, want 0", f.repo.media.listCalls)
	}
}

func TestMediaService_DeleteMedia_RemovesFromCachedViews(t *testing.T) {
	f := newMediaFixture(t)
	ctx := context.Background()

	media, err := f.service.CreateMedia(ctx, "u1", &CreateMediaRequest{
		Name:     "avatar.png",
		Type:     models.MediaImage,
		PublicID: "img-1",
		URL:      "https://cdn.example.com/img-1",
	})
	if err != nil {
		t.Fatalf("CreateMedia() error = %v", err)
	}
	if _, err := f.service.ListMedia(ctx, "u1"); err != nil {
		t.Fatal(err)
	}

	f.repo.media.listCalls = 0
	if err := f.service.DeleteMedia(ctx, "u1", media.ID); err != nil {
		t.Fatalf("DeleteMedia() error = %v", err)
	}

	library, err := f.service.ListMedia(ctx, "u1")
	if err != nil {
		t.Fatalf("ListMedia() error = %v", err)
	}
	if len(library) != 0 {
		t.Errorf("ListMedia() after delete = %v, want empty", library)
	}
	if f.repo.media.listCalls != 0 {
		t.Errorf("store queries after merge = %d, want 0", f.repo.media.listCalls)
	}
}

func TestMediaService_Ownership(t *testing.T) {
	f := newMediaFixture(t)
	ctx := context.Background()

	folder, err := f.service.CreateFolder(ctx, "owner", &CreateFolderRequest{Name: "Private"})
	if err != nil {
		t.Fatalf("CreateFolder() error = %v", err)
	}
	media, err := f.service.CreateMedia(ctx, "owner", &CreateMediaRequest{
		Name:     "secret.pdf",
		Type:     models.MediaDocument,
		PublicID: "doc-9",
		URL:      "https://cdn.example.com/doc-9",
	})
	if err != nil {
		t.Fatalf("CreateMedia() error = %v", err)
	}

	if _, err := f.service.RenameFolder(ctx, "intruder", folder.ID, &RenameFolderRequest{Name: "Mine"}); !errors.Is(err, ErrForbidden) {
		t.Errorf("RenameFolder(other owner) error = %v, want ErrForbidden", err)
	}
	if err := f.service.DeleteFolder(ctx, "intruder", folder.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("DeleteFolder(other owner) error = %v, want ErrForbidden", err)
	}
	if err := f.service.DeleteMedia(ctx, "intruder", media.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("DeleteMedia(other owner) error = %v, want ErrForbidden", err)
	}
	if _, err := f.service.ListFolderMedia(ctx, "intruder", folder.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("ListFolderMedia(other owner) error = %v, want ErrForbidden", err)
	}
}

func TestMediaService_CacheOutageDegradesToStore(t *testing.T) {
	f := newMediaFixture(t)
	ctx := context.Background()

	if _, err := f.service.CreateFolder(ctx, "u1", &CreateFolderRequest{Name: "A"}); err != nil {
		t.Fatalf("CreateFolder() error = %v", err)
	}

	// Kill the cache backend. Reads and writes must keep working against
	// the authoritative store.
	f.redis.Close()

	if _, err := f.service.CreateFolder(ctx, "u1", &CreateFolderRequest{Name: "B"}); err != nil {
		t.Errorf("CreateFolder(cache down) error = %v", err)
	}

	folders, err := f.service.ListFolders(ctx, "u1")
	if err != nil {
		t.Fatalf("ListFolders(cache down) error = %v", err)
	}
	if len(folders) != 2 {
		t.Errorf("ListFolders(cache down) returned %d folders, want 2", len(folders))
	}

	media, err := f.service.CreateMedia(ctx, "u1", &CreateMediaRequest{
		Name:     "clip.mp4",
		Type:     models.MediaVideo,
		PublicID: "vid-2",
		URL:      "https://cdn.example.com/vid-2",
	})
	if err != nil {
		t.Fatalf("CreateMedia(cache down) error = %v", err)
	}
	if err := f.service.DeleteMedia(ctx, "u1", media.ID); err != nil {
		t.Errorf("DeleteMedia(cache down) error = %v", err)
	}
}

func TestMediaService_Validation(t *testing.T) {
	f := newMediaFixture(t)
	ctx := context.Background()

	if _, err := f.service.CreateFolder(ctx, "u1", &CreateFolderRequest{Name: ""}); !IsValidationError(err) {
		t.Errorf("CreateFolder(empty name) error = %v, want validation error", err)
	}
	if _, err := f.service.CreateMedia(ctx, "u1", &CreateMediaRequest{
		Name:     "x",
		Type:     "archive",
		PublicID: "p",
		URL:      "https://cdn.example.com/p",
	}); !IsValidationError(err) {
		t.Errorf("CreateMedia(bad type) error = %v, want validation error", err)
	}
}
