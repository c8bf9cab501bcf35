package domain

// Service is a bookable catalog entry. Identity is immutable once assigned
// by the backend.
type Service struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	ProducerEmail string `json:"producerEmail"`
}

// Account is a registered customer. Email is the natural key used by all
// cross-references and must be unique.
type Account struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
}

// Business is the single system-wide business record.
type Business struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	ManagerEmail string `json:"managerEmail"`
}
