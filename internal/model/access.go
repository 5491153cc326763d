package model

// Ticket is the payload returned by a successful login call.
type Ticket struct {
	Username  string `json:"username"`
	Ticket    string `json:"ticket"`
	CSRFToken string `json:"CSRFPreventionToken"`
}

// Envelope wraps every backend response body.
type Envelope[T any] struct {
	Data T `json:"data"`
}
