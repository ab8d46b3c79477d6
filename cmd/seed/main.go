package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/oksasatya/club-subdomain-portal/config"
	"github.com/oksasatya/club-subdomain-portal/internal/domain/entity"
	"github.com/oksasatya/club-subdomain-portal/internal/infrastructure/airtable"
	"github.com/oksasatya/club-subdomain-portal/pkg/validation"
)

// seed inserts one inactive demo subdomain into the configured Airtable base,
// linked to the first domain and the first club matching -club.
func main() {
	email := flag.String("email", "", "owner email (required)")
	label := flag.String("label", "demo", "subdomain label")
	club := flag.String("club", "", "club name search term")
	repo := flag.String("repo", "", "github repository URL")
	flag.Parse()

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("%v", err)
	}
	if cfg.DataStore != "airtable" {
		log.Fatalf("seed writes to Airtable; DATA_STORE=%s keeps no state between runs", cfg.DataStore)
	}
	if strings.TrimSpace(*email) == "" {
		log.Fatal("-email is required")
	}
	lbl := strings.ToLower(strings.TrimSpace(*label))
	if !validation.IsDNSLabel(lbl) {
		log.Fatalf("invalid label %q", *label)
	}
	if *repo != "" && !validation.IsRepoURL(*repo) {
		log.Fatalf("invalid repo URL %q", *repo)
	}

	client := airtable.NewClient(cfg.AirtableAPIKey, cfg.AirtableBaseID, airtable.Tables{
		Subdomains:      cfg.AirtableSubdomains,
		Domains:         cfg.AirtableDomains,
		ClubNames:       cfg.AirtableClubNames,
		View:            cfg.AirtableView,
		ClubLookupField: cfg.AirtableClubLookupName,
	}, &http.Client{Timeout: cfg.UpstreamTimeout})
	subs := airtable.NewSubdomainRepository(client)
	catalog := airtable.NewCatalogRepository(client)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	domains, err := catalog.ListDomains(ctx)
	if err != nil {
		log.Fatalf("list domains: %v", err)
	}
	if len(domains) == 0 {
		log.Fatal("no domains in the catalog; add one in Airtable first")
	}
	row := &entity.Subdomain{
		Label:      lbl,
		OwnerEmail: *email,
		GithubRepo: *repo,
		DomainIDs:  []string{domains[0].ID},
	}
	if *club != "" {
		clubs, err := catalog.SearchClubNames(ctx, *club, 1)
		if err != nil {
			log.Fatalf("search clubs: %v", err)
		}
		if len(clubs) > 0 {
			row.ClubNameIDs = []string{clubs[0].ID}
		}
	}

	created, err := subs.Create(ctx, row)
	if err != nil {
		log.Fatalf("create subdomain: %v", err)
	}
	fmt.Printf("seeded subdomain: id=%s label=%s.%s owner=%s\n", created.ID, created.Label, domains[0].Name, created.OwnerEmail)
}
