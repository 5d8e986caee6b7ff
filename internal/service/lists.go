package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atinyakov/ShopKeeper/internal/models"
	"github.com/google/uuid"
)

// DateLayout is the format of ShoppingList.Date.
const DateLayout = "2006-01-02"

// ListRepository defines the persistence operations needed by the ListService.
// userID selects the namespace; an empty userID is the anonymous namespace.
type ListRepository interface {
	// Lists returns every list of the namespace in stored order.
	Lists(ctx context.Context, userID string) []models.ShoppingList
	// SaveLists replaces the whole collection of the namespace.
	SaveLists(ctx context.Context, userID string, lists []models.ShoppingList)
}

// ListService implements shopping-list business logic.
type ListService struct {
	// repo is the underlying persistence repository.
	repo  ListRepository
	newID func() string
	now   func() time.Time
}

// NewListService constructs a ListService with the provided ListRepository.
func NewListService(repo ListRepository) *ListService {
	return &ListService{repo: repo, newID: uuid.NewString, now: time.Now}
}

// GetLists returns all lists of the namespace, newest first.
func (s *ListService) GetLists(ctx context.Context, userID string) []models.ShoppingList {
	return s.repo.Lists(ctx, userID)
}

// GetListByID returns the first list with the given id.
func (s *ListService) GetListByID(ctx context.Context, id, userID string) (*models.ShoppingList, bool) {
	lists := s.repo.Lists(ctx, userID)
	if i := indexOfList(lists, id); i >= 0 {
		return &lists[i], true
	}
	return nil, false
}

// SaveList upserts list by id: an existing entry is replaced in place,
// otherwise the list is inserted at the front. The saved list is returned.
func (s *ListService) SaveList(ctx context.Context, list models.ShoppingList, userID string) models.ShoppingList {
	if list.Items == nil {
		list.Items = []models.ShoppingListItem{}
	}
	lists := s.repo.Lists(ctx, userID)
	if i := indexOfList(lists, list.ID); i >= 0 {
		lists[i] = list
	} else {
		lists = append([]models.ShoppingList{list}, lists...)
	}
	s.repo.SaveLists(ctx, userID, lists)
	return list
}

// DeleteList removes the list with the given id. Unknown ids are ignored.
func (s *ListService) DeleteList(ctx context.Context, id, userID string) {
	lists := s.repo.Lists(ctx, userID)
	kept := lists[:0]
	for _, l := range lists {
		if l.ID != id {
			kept = append(kept, l)
		}
	}
	s.repo.SaveLists(ctx, userID, kept)
}

// ComputeStats counts the items of list and the checked ones. The
// percentage is not rounded.
func (s *ListService) ComputeStats(list models.ShoppingList) models.Stats {
	return ComputeStats(list)
}

// ComputeStats is the stateless form of ListService.ComputeStats.
func ComputeStats(list models.ShoppingList) models.Stats {
	st := models.Stats{TotalItems: len(list.Items)}
	for _, it := range list.Items {
		if it.Checked {
			st.CompletedItems++
		}
	}
	if st.TotalItems > 0 {
		st.ProgressPercent = float64(st.CompletedItems) / float64(st.TotalItems) * 100
	}
	return st
}

// CreateList stores a new empty list dated today at the front of the namespace.
func (s *ListService) CreateList(ctx context.Context, name, userID string) (models.ShoppingList, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.ShoppingList{}, fmt.Errorf("%w: list name is required", ErrInvalidInput)
	}
	list := models.ShoppingList{
		ID:    s.newID(),
		Name:  name,
		Items: []models.ShoppingListItem{},
		Date:  s.now().Format(DateLayout),
	}
	return s.SaveList(ctx, list, userID), nil
}

// SearchLists returns the lists whose name contains term, ignoring case.
func (s *ListService) SearchLists(ctx context.Context, term, userID string) []models.ShoppingList {
	lists := s.repo.Lists(ctx, userID)
	if term == "" {
		return lists
	}
	needle := strings.ToLower(term)
	out := make([]models.ShoppingList, 0, len(lists))
	for _, l := range lists {
		if strings.Contains(strings.ToLower(l.Name), needle) {
			out = append(out, l)
		}
	}
	return out
}

// RenameList changes the name of a list.
func (s *ListService) RenameList(ctx context.Context, id, name, userID string) (models.ShoppingList, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.ShoppingList{}, fmt.Errorf("%w: list name is required", ErrInvalidInput)
	}
	return s.update(ctx, id, userID, func(l *models.ShoppingList) error {
		l.Name = name
		return nil
	})
}

// AddItem appends an unchecked item to a list.
func (s *ListService) AddItem(ctx context.Context, listID, name, quantity, userID string) (models.ShoppingListItem, error) {
	if strings.TrimSpace(name) == "" {
		return models.ShoppingListItem{}, fmt.Errorf("%w: item name is required", ErrInvalidInput)
	}
	item := models.ShoppingListItem{
		ID:       listID + "-" + s.newID(),
		Name:     name,
		Quantity: quantity,
	}
	_, err := s.update(ctx, listID, userID, func(l *models.ShoppingList) error {
		l.Items = append(l.Items, item)
		return nil
	})
	if err != nil {
		return models.ShoppingListItem{}, err
	}
	return item, nil
}

// SetItemChecked marks an item as bought or not bought.
func (s *ListService) SetItemChecked(ctx context.Context, listID, itemID string, checked bool, userID string) (models.ShoppingList, error) {
	return s.update(ctx, listID, userID, func(l *models.ShoppingList) error {
		for i := range l.Items {
			if l.Items[i].ID == itemID {
				l.Items[i].Checked = checked
				return nil
			}
		}
		return ErrItemNotFound
	})
}

// DeleteItem removes an item from a list.
func (s *ListService) DeleteItem(ctx context.Context, listID, itemID, userID string) (models.ShoppingList, error) {
	return s.update(ctx, listID, userID, func(l *models.ShoppingList) error {
		for i := range l.Items {
			if l.Items[i].ID == itemID {
				l.Items = append(l.Items[:i], l.Items[i+1:]...)
				return nil
			}
		}
		return ErrItemNotFound
	})
}

// ClearCheckedItems drops every checked item of a list.
func (s *ListService) ClearCheckedItems(ctx context.Context, listID, userID string) (models.ShoppingList, error) {
	return s.update(ctx, listID, userID, func(l *models.ShoppingList) error {
		l.Items = models.PendingItems(l.Items)
		return nil
	})
}

// update applies fn to a copy of the list and saves it when fn succeeds.
func (s *ListService) update(ctx context.Context, id, userID string, fn func(*models.ShoppingList) error) (models.ShoppingList, error) {
	current, ok := s.GetListByID(ctx, id, userID)
	if !ok {
		return models.ShoppingList{}, ErrListNotFound
	}
	list := *current
	list.Items = append([]models.ShoppingListItem{}, current.Items...)
	if err := fn(&list); err != nil {
		return models.ShoppingList{}, err
	}
	return s.SaveList(ctx, list, userID), nil
}

func indexOfList(lists []models.ShoppingList, id string) int {
	for i, l := range lists {
		if l.ID == id {
			return i
		}
	}
	return -1
}
