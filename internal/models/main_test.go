package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStoredUserPublic(t *testing.T) {
	su := StoredUser{ID: "1", Name: "Ann", Email: "a@x.com", Password: "secret", Provider: ProviderGoogle, PhotoURL: "p"}
	u := su.Public()
	assert.Equal(t, User{ID: "1", Name: "Ann", Email: "a@x.com", Provider: ProviderGoogle, PhotoURL: "p"}, u)
}

func TestFilterItems(t *testing.T) {
	items := []ShoppingListItem{
		{ID: "1", Name: "Milk"},
		{ID: "2", Name: "Oat milk"},
		{ID: "3", Name: "Bread"},
	}

	tests := []struct {
		term string
		want []string
	}{
		{"", []string{"1", "2", "3"}},
		{"MILK", []string{"1", "2"}},
		{"rea", []string{"3"}},
		{"eggs", nil},
	}
	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			var ids []string
			for _, it := range FilterItems(items, tt.term) {
				ids = append(ids, it.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestPendingItems(t *testing.T) {
	items := []ShoppingListItem{{ID: "1", Checked: true}, {ID: "2"}, {ID: "3", Checked: true}}
	got := PendingItems(items)
	if assert.Len(t, got, 1) {
		assert.Equal(t, "2", got[0].ID)
	}
}
