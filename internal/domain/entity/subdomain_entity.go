package entity

// Subdomain is a subdomain request owned by a single member.
//
// OwnerEmail is always the authenticated caller's email at creation time.
// Active is flipped by an operator outside this application.
type Subdomain struct {
	ID            string   `json:"id"`
	Label         string   `json:"subdomain"`
	OwnerEmail    string   `json:"email"`
	GithubRepo    string   `json:"githubRepo"`
	DomainIDs     []string `json:"domains"`
	DomainNames   []string `json:"domainName"`
	ClubNameIDs   []string `json:"clubName"`
	ClubNameNames []string `json:"clubNameLabel"`
	Active        bool     `json:"active"`
}
