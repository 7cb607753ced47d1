package models

// Product represents a stock record as seen by the bot.
type Product struct {
	ID        string  `json:"id"`
	Name      string  `json:"name,omitempty"`
	Quantity  int     `json:"quantity"`
	ListingID *string `json:"listing_id,omitempty"`
}

// DisplayName returns the product name or "N/A" when the record has none.
func (p Product) DisplayName() string {
	if p.Name == "" {
		return "N/A"
	}
	return p.Name
}
