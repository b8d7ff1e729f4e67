package entity

// Notification is the event emitted when a product's tracked best offer
// changes. Delivery is best-effort and decoupled from ledger persistence.
type Notification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}
