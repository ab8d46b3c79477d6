package memory

import "github.com/oksasatya/club-subdomain-portal/internal/domain/entity"

// DevDomains and DevClubNames seed DATA_STORE=memory so the dashboard is
// usable without Airtable credentials.
var (
	DevDomains = []entity.Domain{
		{ID: "recDomainHackClub", Name: "hackclub.app"},
		{ID: "recDomainClubsDev", Name: "clubs.dev"},
	}
	DevClubNames = []entity.ClubName{
		{ID: "recClubLisbon", Name: "Lisbon Hack Club"},
		{ID: "recClubPorto", Name: "Porto Hack Club"},
		{ID: "recClubBraga", Name: "Braga Coding Club"},
		{ID: "recClubCoimbra", Name: "Coimbra Makers"},
	}
)
