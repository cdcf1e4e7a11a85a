package model

// Webhook is a Trello webhook registration: Trello POSTs board activity
// to CallbackURL for the model (board) identified by IDModel.
type Webhook struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	IDModel     string `json:"idModel"`
	CallbackURL string `json:"callbackURL"`
	Active      bool   `json:"active"`
}

// Clone returns a copy of the webhook registration.
func (w *Webhook) Clone() *Webhook {
	if w == nil {
		return nil
	}
	copied := *w
	return &copied
}
