package entity

// RawOffer is one seller listing exactly as the fetch collaborator
// extracted it from the page. Price fields are currency-formatted strings
// ("$19.99") and may be empty.
type RawOffer struct {
	ShipFrom    string `json:"ship_from"`
	SoldBy      string `json:"sold_by"`
	Price       string `json:"price"`
	DeliveryFee string `json:"delivery_fee"`
}

// Offer is a normalized seller listing. TotalPrice is product price plus
// delivery fee in whole currency units; zero means the price could not be
// parsed and the offer must not take part in selection.
type Offer struct {
	ShipFrom          string `json:"ship_from"`
	SoldBy            string `json:"sold_by"`
	TotalPrice        int64  `json:"total_price"`
	PlatformFulfilled bool   `json:"platform_fulfilled"`
}
