package entities

// User is the account record persisted by every storage backend.
// ID and Email identify the user once created; Username and Email
// may be changed afterwards.
type User struct {
	ID        string `gorm:"primaryKey;size:64" json:"id"`
	Username  string `gorm:"size:100" json:"username"`
	Email     string `gorm:"size:255" json:"email"`
	CreatedAt string `gorm:"size:64" json:"createdAt,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// Merge returns a copy of the existing user with every non-empty field
// of incoming applied on top. The ID is never taken from incoming.
func (u User) Merge(incoming User) User {
	merged := u
	if incoming.Username != "" {
		merged.Username = incoming.Username
	}
	if incoming.Email != "" {
		merged.Email = incoming.Email
	}
	if incoming.CreatedAt != "" {
		merged.CreatedAt = incoming.CreatedAt
	}
	return merged
}
