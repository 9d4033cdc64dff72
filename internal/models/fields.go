package models

// Direction is the inferred flow of money for an extracted amount.
type Direction string

const (
	DirectionDebit  Direction = "debit"
	DirectionCredit Direction = "credit"
)

// SignSource records which rule decided the sign of an amount. Rules are
// listed from highest to lowest priority.
type SignSource string

const (
	SignExplicit SignSource = "explicit"
	SignMarker   SignSource = "marker"
	SignKeyword  SignSource = "keyword"
	SignDefault  SignSource = "default"
)

// ExtractionMode tells whether a transaction came from a table row or a
// free-text line.
type ExtractionMode string

const (
	ModeTable ExtractionMode = "table"
	ModeText  ExtractionMode = "text"
)

// Fields is the raw output of a field extraction strategy: strings located
// in a row or line plus the sign decision, not yet validated.
type Fields struct {
	DateStr     string
	Description string
	// AmountStr holds the magnitude. Its sign, if any, is ignored by the
	// builder in favour of Direction.
	AmountStr  string
	Direction  Direction
	SignSource SignSource
	BalanceStr string
	Raw        string
	Mode       ExtractionMode
	Page       int
}
