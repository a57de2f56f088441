package entity

type Artwork struct {
	ID          string  `json:"id_artwork"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	YearCreated int     `json:"year_created"`
	Price       float64 `json:"price"`
	ArtistID    string  `json:"id_artist"`
	ArtType     string  `json:"art_type"`
}

// ArtworkInOrder is a line item: one artwork in one order with a quantity.
type ArtworkInOrder struct {
	ID        string `json:"id_artwork_in_order"`
	OrderID   string `json:"id_order"`
	ArtworkID string `json:"id_artwork"`
	Amount    int    `json:"amount"`
}
