package domain

// Cafe is a single row of the cafes table. CoffeePrice is nil when no price
// was supplied; when set it already carries the currency symbol.
type Cafe struct {
	ID           int64
	Name         string
	MapURL       string
	ImgURL       string
	Location     string
	Seats        string
	HasToilet    bool
	HasWifi      bool
	HasSockets   bool
	CanTakeCalls bool
	CoffeePrice  *string
}
