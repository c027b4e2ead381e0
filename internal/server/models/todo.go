package models

// Todo is a row of the todos table. UserID is omitted from list responses.
type Todo struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description"`
}
