package entity

type Order struct {
	ID         string `json:"id_order"`
	CustomerID string `json:"id_customer"`
	OrderDate  Date   `json:"order_date"`
}

// DetailedOrder is the read-only view of an order with its customer, line
// items and totals. It is rebuilt from table state on every read.
type DetailedOrder struct {
	OrderID     string              `json:"id_order"`
	OrderDate   Date                `json:"order_date"`
	Customer    Customer            `json:"customer"`
	Artworks    []DetailedOrderLine `json:"artworks"`
	TotalAmount float64             `json:"total_amount"`
}

type DetailedOrderLine struct {
	ID                 string  `json:"id_artwork_in_order"`
	ArtworkID          string  `json:"id_artwork"`
	Amount             int     `json:"amount"`
	ArtworkTitle       string  `json:"artwork_title"`
	ArtworkDescription string  `json:"artwork_description"`
	ArtworkYearCreated int     `json:"artwork_year_created"`
	ArtworkPrice       float64 `json:"artwork_price"`
	ArtworkArtistID    string  `json:"artwork_id_artist"`
	ArtworkArtType     string  `json:"artwork_art_type"`
	Subtotal           float64 `json:"total_price_for_artwork"`
}

// DetailedOrderRow is one row of the orders ⋈ customers ⟕ artworks_in_order ⟕
// artworks join.
type DetailedOrderRow struct {
	OrderID   string
	OrderDate Date
	Customer  Customer
	Line      JoinedLine
}

// JoinedLine is the line-item half of a DetailedOrderRow. Valid is false when
// the order has no line items and the left join produced nulls.
type JoinedLine struct {
	Valid     bool
	ID        string
	ArtworkID string
	Amount    int
	// Artwork is nil when the artworks columns came back null.
	Artwork *JoinedArtwork
}

type JoinedArtwork struct {
	Title       string
	Description string
	YearCreated int
	Price       float64
	ArtistID    string
	ArtType     string
}
