package airtable

import (
	"fmt"

	"github.com/mehanizm/airtable"

	"github.com/oksasatya/club-subdomain-portal/internal/domain/entity"
)

func toSubdomain(r *airtable.Record, clubLookupField string) entity.Subdomain {
	return entity.Subdomain{
		ID:            r.ID,
		Label:         str(r.Fields[fieldSubdomain]),
		OwnerEmail:    str(r.Fields[fieldEmail]),
		GithubRepo:    str(r.Fields[fieldGithubRepo]),
		DomainIDs:     strs(r.Fields[fieldDomains]),
		DomainNames:   strs(r.Fields[fieldDomainNames]),
		ClubNameIDs:   strs(r.Fields[fieldClubName]),
		ClubNameNames: strs(r.Fields[clubLookupField]),
		Active:        boolean(r.Fields[fieldStatus]),
	}
}

func subdomainFields(s *entity.Subdomain) map[string]any {
	fields := map[string]any{
		fieldSubdomain: s.Label,
		fieldEmail:     s.OwnerEmail,
		fieldDomains:   s.DomainIDs,
		fieldClubName:  s.ClubNameIDs,
		fieldStatus:    s.Active,
	}
	if s.GithubRepo != "" {
		fields[fieldGithubRepo] = s.GithubRepo
	}
	return fields
}

func toClubName(r *airtable.Record) entity.ClubName {
	name := str(r.Fields[fieldClubName])
	if name == "" {
		name = str(r.Fields[fieldName])
	}
	return entity.ClubName{ID: r.ID, Name: name}
}

func toDomain(r *airtable.Record) entity.Domain {
	return entity.Domain{ID: r.ID, Name: str(r.Fields[fieldName])}
}

func str(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []any:
		if len(x) > 0 {
			return str(x[0])
		}
		return ""
	default:
		return fmt.Sprint(x)
	}
}

// strs reads linked-record and lookup fields, which arrive as JSON arrays.
func strs(v any) []string {
	switch x := v.(type) {
	case nil:
		return nil
	case []string:
		return x
	case []any:
		out := make([]string, 0, len(x))
		for _, e := range x {
			if s := str(e); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		if s := str(x); s != "" {
			return []string{s}
		}
		return nil
	}
}

func boolean(v any) bool {
	b, _ := v.(bool)
	return b
}
