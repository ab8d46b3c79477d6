package entity

// ClubName is a read-only row of the club names table.
type ClubName struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Domain is a read-only parent domain a subdomain can be requested under.
type Domain struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
