// Package models defines the core data structures for users, sessions and shopping lists.
package models

import "strings"

// Provider identifies how a user account was created.
type Provider string

const (
	// ProviderLocal marks an account registered with email and password.
	ProviderLocal Provider = "local"
	// ProviderGoogle marks an account created from a federated account pick.
	ProviderGoogle Provider = "google"
)

// User is the public part of an account. It is what the active session holds.
type User struct {
	// ID is the opaque identifier of the user, also used as the list namespace.
	ID string `json:"id"`
	// Name is the display name.
	Name string `json:"name"`
	// Email is the unique login key.
	Email string `json:"email"`
	// Provider is set for federated sessions.
	Provider Provider `json:"provider,omitempty"`
	// PhotoURL is the avatar of a federated account.
	PhotoURL string `json:"photoUrl,omitempty"`
}

// StoredUser is a registered account as persisted in the user table.
// Password is kept in clear text.
type StoredUser struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Provider Provider `json:"provider,omitempty"`
	PhotoURL string   `json:"photoUrl,omitempty"`
}

// Public strips the password from a stored account.
func (u StoredUser) Public() User {
	return User{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Provider: u.Provider,
		PhotoURL: u.PhotoURL,
	}
}

// FederatedAccount describes an externally selected account (the mock account picker).
type FederatedAccount struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	PhotoURL string `json:"photoUrl,omitempty"`
}

// AuthState is the authentication view read by presentation code.
type AuthState struct {
	User            *User `json:"user"`
	IsAuthenticated bool  `json:"isAuthenticated"`
	IsLoading       bool  `json:"isLoading"`
}

// ShoppingList is a named, dated collection of items.
type ShoppingList struct {
	// ID is unique within a namespace.
	ID string `json:"id"`
	// Name is the user-facing title.
	Name string `json:"name"`
	// Items keeps insertion order.
	Items []ShoppingListItem `json:"items"`
	// Date is the creation day formatted as YYYY-MM-DD.
	Date string `json:"date"`
}

// ShoppingListItem is a single entry of a list.
type ShoppingListItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Checked  bool   `json:"checked"`
}

// Stats holds the completion figures of a list.
type Stats struct {
	TotalItems      int     `json:"totalItems"`
	CompletedItems  int     `json:"completedItems"`
	ProgressPercent float64 `json:"progressPercent"`
}

// FilterItems returns the items whose name contains term, ignoring case.
// An empty term returns all items.
func FilterItems(items []ShoppingListItem, term string) []ShoppingListItem {
	needle := strings.ToLower(term)
	out := make([]ShoppingListItem, 0, len(items))
	for _, it := range items {
		if strings.Contains(strings.ToLower(it.Name), needle) {
			out = append(out, it)
		}
	}
	return out
}

// PendingItems returns the unchecked items in order.
func PendingItems(items []ShoppingListItem) []ShoppingListItem {
	out := make([]ShoppingListItem, 0, len(items))
	for _, it := range items {
		if !it.Checked {
			out = append(out, it)
		}
	}
	return out
}
