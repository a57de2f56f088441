package entity

type Artist struct {
	ID        string `json:"artist_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	BirthYear int    `json:"birth_year"`
}
