package airtable

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path"
	"strings"
	"sync"
	"testing"

	"github.com/oksasatya/club-subdomain-portal/internal/domain/entity"
	"github.com/oksasatya/club-subdomain-portal/internal/domain/repository"
)

type fakeRecord struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

// fakeAirtable records requests and answers from canned per-table rows.
type fakeAirtable struct {
	mu       sync.Mutex
	rows     map[string][]fakeRecord
	formulas []string
	views    []string
	bodies   []string
}

func (f *fakeAirtable) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	table, _ := url.PathUnescape(path.Base(r.URL.EscapedPath()))
	f.mu.Lock()
	defer f.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")

	switch r.Method {
	case http.MethodGet:
		f.formulas = append(f.formulas, r.URL.Query().Get("filterByFormula"))
		f.views = append(f.views, r.URL.Query().Get("view"))
		rows := f.rows[table]
		if strings.HasPrefix(r.URL.Query().Get("filterByFormula"), "RECORD_ID()") {
			want := strings.Trim(strings.TrimPrefix(r.URL.Query().Get("filterByFormula"), "RECORD_ID() = "), `"`)
			var hit []fakeRecord
			for _, row := range rows {
				if row.ID == want {
					hit = append(hit, row)
				}
			}
			rows = hit
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"records": rows})
	case http.MethodPost, http.MethodPatch:
		b, _ := io.ReadAll(r.Body)
		f.bodies = append(f.bodies, string(b))
		var in struct {
			Records []fakeRecord `json:"records"`
		}
		_ = json.Unmarshal(b, &in)
		for i := range in.Records {
			if in.Records[i].ID == "" {
				in.Records[i].ID = "recNew"
			}
			if r.Method == http.MethodPatch {
				in.Records[i].Fields[fieldSubdomain] = "alpha"
			}
		}
		_ = json.NewEncoder(w).Encode(in)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newFakeClient(t *testing.T, rows map[string][]fakeRecord) (*Client, *fakeAirtable) {
	t.Helper()
	fake := &fakeAirtable{rows: rows}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	c := NewClient("key", "appBase", Tables{
		Subdomains:      "Subdomains",
		Domains:         "Domains",
		ClubNames:       "Club Names",
		View:            "Grid view",
		ClubLookupField: "Club Name (from Club Names)",
	}, srv.Client())
	if err := c.SetBaseURL(srv.URL + "/v0"); err != nil {
		t.Fatalf("SetBaseURL: %v", err)
	}
	return c, fake
}

func TestSubdomainRepository_ListByOwnerMapsFields(t *testing.T) {
	c, fake := newFakeClient(t, map[string][]fakeRecord{
		"Subdomains": {{ID: "rec1", Fields: map[string]any{
			"Subdomain":                   "alpha",
			"Email":                       "a@example.com",
			"Github Repo":                 "https://github.com/a/alpha",
			"Domains":                     []any{"recD"},
			"Name (from Domains)":         []any{"clubs.dev"},
			"Club Name":                   []any{"recC"},
			"Club Name (from Club Names)": []any{"Robotics"},
			"Status":                      true,
		}}},
	})
	got, err := NewSubdomainRepository(c).ListByOwner(context.Background(), `a@example.com`)
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	want := entity.Subdomain{
		ID: "rec1", Label: "alpha", OwnerEmail: "a@example.com", GithubRepo: "https://github.com/a/alpha",
		DomainIDs: []string{"recD"}, DomainNames: []string{"clubs.dev"},
		ClubNameIDs: []string{"recC"}, ClubNameNames: []string{"Robotics"}, Active: true,
	}
	if len(got) != 1 || got[0].Label != want.Label || got[0].DomainNames[0] != "clubs.dev" || got[0].ClubNameNames[0] != "Robotics" || !got[0].Active {
		t.Fatalf("got %+v", got)
	}
	if fake.formulas[0] != `LOWER({Email}) = LOWER("a@example.com")` {
		t.Fatalf("formula: %s", fake.formulas[0])
	}
}

func TestSubdomainRepository_GetByIDNotFound(t *testing.T) {
	c, _ := newFakeClient(t, map[string][]fakeRecord{"Subdomains": {{ID: "rec1", Fields: map[string]any{}}}})
	repo := NewSubdomainRepository(c)

	if _, err := repo.GetByID(context.Background(), "recMissing"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("err: %v", err)
	}
	if s, err := repo.GetByID(context.Background(), "rec1"); err != nil || s.ID != "rec1" {
		t.Fatalf("GetByID: %+v %v", s, err)
	}
}

func TestSubdomainRepository_CreateWritesInactive(t *testing.T) {
	c, fake := newFakeClient(t, nil)
	got, err := NewSubdomainRepository(c).Create(context.Background(), &entity.Subdomain{
		Label: "alpha", OwnerEmail: "a@example.com", DomainIDs: []string{"recD"}, ClubNameIDs: []string{"recC"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got.ID != "recNew" || got.Active {
		t.Fatalf("got %+v", got)
	}
	if !strings.Contains(fake.bodies[0], `"Status":false`) {
		t.Fatalf("body: %s", fake.bodies[0])
	}
}

func TestSubdomainRepository_UpdateGithubRepoOnlyTouchesOneField(t *testing.T) {
	c, fake := newFakeClient(t, nil)
	got, err := NewSubdomainRepository(c).UpdateGithubRepo(context.Background(), "rec1", "https://github.com/a/b")
	if err != nil {
		t.Fatalf("UpdateGithubRepo: %v", err)
	}
	if got.GithubRepo != "https://github.com/a/b" {
		t.Fatalf("got %+v", got)
	}
	var body struct {
		Records []fakeRecord `json:"records"`
	}
	_ = json.Unmarshal([]byte(fake.bodies[0]), &body)
	if len(body.Records) != 1 || len(body.Records[0].Fields) != 1 {
		t.Fatalf("patched fields: %s", fake.bodies[0])
	}
}

func TestCatalogRepository(t *testing.T) {
	c, fake := newFakeClient(t, map[string][]fakeRecord{
		"Club Names": {
			{ID: "c1", Fields: map[string]any{"Club Name": "Robotics"}},
			{ID: "c2", Fields: map[string]any{"Name": "Chess"}},
		},
		"Domains": {{ID: "d1", Fields: map[string]any{"Name": "clubs.dev"}}},
	})
	repo := NewCatalogRepository(c)

	clubs, err := repo.SearchClubNames(context.Background(), `ro"b`, 50)
	if err != nil {
		t.Fatalf("SearchClubNames: %v", err)
	}
	if len(clubs) != 2 || clubs[1].Name != "Chess" {
		t.Fatalf("clubs: %+v", clubs)
	}
	if fake.formulas[0] != `SEARCH(UPPER("ro\"b"), UPPER({Club Name})) > 0` {
		t.Fatalf("formula: %s", fake.formulas[0])
	}
	if fake.views[0] != "Grid view" {
		t.Fatalf("club search must read through the configured view, got %q", fake.views[0])
	}

	domains, err := repo.ListDomains(context.Background())
	if err != nil || len(domains) != 1 || domains[0].Name != "clubs.dev" {
		t.Fatalf("domains: %+v %v", domains, err)
	}
}
