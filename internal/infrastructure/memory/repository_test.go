package memory

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/oksasatya/club-subdomain-portal/internal/domain/entity"
	"github.com/oksasatya/club-subdomain-portal/internal/domain/repository"
)

func TestSubdomainRepository_CreateListUpdate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r := NewSubdomainRepository()

	created, err := r.Create(ctx, &entity.Subdomain{Label: "alpha", OwnerEmail: "a@example.com", DomainIDs: []string{"d1"}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected generated id")
	}
	if _, err := r.Create(ctx, &entity.Subdomain{Label: "beta", OwnerEmail: "b@example.com"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	rows, err := r.ListByOwner(ctx, "A@example.com")
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(rows) != 1 || rows[0].Label != "alpha" {
		t.Fatalf("rows: %+v", rows)
	}

	rows[0].DomainIDs[0] = "mutated"
	again, _ := r.GetByID(ctx, created.ID)
	if again.DomainIDs[0] != "d1" {
		t.Fatalf("repository leaked internal slice")
	}

	updated, err := r.UpdateGithubRepo(ctx, created.ID, "https://github.com/a/alpha")
	if err != nil {
		t.Fatalf("UpdateGithubRepo: %v", err)
	}
	if updated.GithubRepo != "https://github.com/a/alpha" || updated.Label != "alpha" {
		t.Fatalf("updated: %+v", updated)
	}
}

func TestSubdomainRepository_NotFound(t *testing.T) {
	t.Parallel()
	r := NewSubdomainRepository()
	if _, err := r.GetByID(context.Background(), "missing"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("GetByID err: %v", err)
	}
	if _, err := r.UpdateGithubRepo(context.Background(), "missing", "x"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("UpdateGithubRepo err: %v", err)
	}
}

func TestCatalogRepository_SearchClubNames(t *testing.T) {
	t.Parallel()
	var names []entity.ClubName
	for i := 0; i < 60; i++ {
		names = append(names, entity.ClubName{ID: fmt.Sprintf("c%d", i), Name: fmt.Sprintf("Robotics Club %d", i)})
	}
	names = append(names, entity.ClubName{ID: "x", Name: "Chess Society"})
	r := NewCatalogRepository(names, nil)

	got, err := r.SearchClubNames(context.Background(), "robotICS", 50)
	if err != nil {
		t.Fatalf("SearchClubNames: %v", err)
	}
	if len(got) != 50 {
		t.Fatalf("len: got %d want 50", len(got))
	}

	got, _ = r.SearchClubNames(context.Background(), "chess", 50)
	if len(got) != 1 || got[0].ID != "x" {
		t.Fatalf("got %+v", got)
	}
}
