package domain

import "time"

// Role is the access level of a user account.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Usage classifies whether an item is used internally or lent out.
type Usage string

const (
	UsageInternal Usage = "internal"
	UsageExternal Usage = "external"
)

// Label returns the human-readable usage label used in report exports.
func (u Usage) Label() string {
	if u == UsageInternal {
		return "Intern"
	}
	return "Extern"
}

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type Family struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type Subfamily struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	FamilyID  string    `json:"family_id"`
	CreatedAt time.Time `json:"created_at"`
}

type Location struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type Item struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Model        string    `json:"model"`
	FamilyID     string    `json:"family_id"`
	SubfamilyID  string    `json:"subfamily_id"`
	Usage        Usage     `json:"usage"`
	ImageURL     string    `json:"image_url"`
	Observations string    `json:"observations"`
	CreatedAt    time.Time `json:"created_at"`
}

// LedgerInsert is one canonical (location, quantity) pair to be stored
// for an item. Quantity is always > 0 by the time it reaches the store.
type LedgerInsert struct {
	LocationID string
	Quantity   int
}

// ItemLocation records how many units of an item sit at one location.
// Quantity is always positive: a zero-quantity entry is pruned, never stored.
type ItemLocation struct {
	ID         string    `json:"id"`
	ItemID     string    `json:"item_id"`
	LocationID string    `json:"location_id"`
	Quantity   int       `json:"quantity"`
	CreatedAt  time.Time `json:"created_at"`
}
