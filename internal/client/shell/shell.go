// Package shell implements the interactive ShopKeeper command loop.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/atinyakov/ShopKeeper/internal/models"
)

const helpText = `Available commands:
  help                          show this message
  register                      create an account and log in
  login                         log in with email and password
  google [n]                    list federated accounts, or log in with account n
  logout                        end the session
  whoami                        show the active session
  lists [term]                  show lists, optionally filtered by name
  new <name>                    create a list
  show <list> [term]            show the items of a list
  add <list>                    add an item to a list
  check <list> <item>           mark an item as bought
  uncheck <list> <item>         mark an item as not bought
  rm-item <list> <item>         delete an item
  rename <list> <name>          rename a list
  clear <list>                  remove bought items
  delete <list>                 delete a list
  exit                          leave the shell
Lists and items can be referred to by id or by their number in the last listing.`

// AuthService is the session API the shell drives.
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (models.User, error)
	Login(ctx context.Context, email, password string) (models.User, error)
	LoginWithFederatedAccount(ctx context.Context, account models.FederatedAccount) (models.User, error)
	Logout(ctx context.Context)
	ActiveSession(ctx context.Context) *models.User
	FederatedAccounts() []models.FederatedAccount
}

// ListService is the shopping-list API the shell drives.
type ListService interface {
	GetLists(ctx context.Context, userID string) []models.ShoppingList
	SearchLists(ctx context.Context, term, userID string) []models.ShoppingList
	GetListByID(ctx context.Context, id, userID string) (*models.ShoppingList, bool)
	DeleteList(ctx context.Context, id, userID string)
	ComputeStats(list models.ShoppingList) models.Stats
	CreateList(ctx context.Context, name, userID string) (models.ShoppingList, error)
	RenameList(ctx context.Context, id, name, userID string) (models.ShoppingList, error)
	AddItem(ctx context.Context, listID, name, quantity, userID string) (models.ShoppingListItem, error)
	SetItemChecked(ctx context.Context, listID, itemID string, checked bool, userID string) (models.ShoppingList, error)
	DeleteItem(ctx context.Context, listID, itemID, userID string) (models.ShoppingList, error)
	ClearCheckedItems(ctx context.Context, listID, userID string) (models.ShoppingList, error)
}

// Shell reads commands line by line and prints results.
type Shell struct {
	auth  AuthService
	lists ListService
	in    *bufio.Scanner
	out   io.Writer

	// ids shown by the last "lists" and "show" commands, for numeric references
	lastLists []string
	lastItems []string
	// list whose items lastItems holds
	itemsOf string
}

// New creates a Shell reading from in and writing to out.
func New(auth AuthService, lists ListService, in io.Reader, out io.Writer) *Shell {
	return &Shell{auth: auth, lists: lists, in: bufio.NewScanner(in), out: out}
}

// Run executes commands until "exit", end of input or ctx is done.
func (s *Shell) Run(ctx context.Context) {
	for ctx.Err() == nil {
		fmt.Fprint(s.out, "shopkeeper> ")
		if !s.in.Scan() {
			return
		}
		args := strings.Fields(s.in.Text())
		if len(args) == 0 {
			continue
		}
		if args[0] == "exit" {
			fmt.Fprintln(s.out, "Bye")
			return
		}
		if err := s.Exec(ctx, args); err != nil {
			fmt.Fprintln(s.out, "Error:", err)
		}
	}
}

// namespace is the user id of the active session, empty when logged out.
func (s *Shell) namespace(ctx context.Context) string {
	if u := s.auth.ActiveSession(ctx); u != nil {
		return u.ID
	}
	return ""
}

var errUsage = errors.New("wrong number of arguments, type 'help'")

// Exec runs a single command given as fields.
func (s *Shell) Exec(ctx context.Context, args []string) error {
	ns := s.namespace(ctx)

	switch args[0] {
	case "help":
		fmt.Fprintln(s.out, helpText)
	case "register":
		name, email, password, ok := s.PromptForCredentials(true)
		if !ok {
			return nil
		}
		u, err := s.auth.Register(ctx, name, email, password)
		if err != nil {
			return err
		}
		s.resetRefs()
		fmt.Fprintf(s.out, "Welcome, %s!\n", u.Name)
	case "login":
		_, email, password, ok := s.PromptForCredentials(false)
		if !ok {
			return nil
		}
		u, err := s.auth.Login(ctx, email, password)
		if err != nil {
			return err
		}
		s.resetRefs()
		fmt.Fprintf(s.out, "Logged in as %s\n", u.Email)
	case "google":
		accounts := s.auth.FederatedAccounts()
		if len(args) < 2 {
			for i, a := range accounts {
				fmt.Fprintf(s.out, "%d. %s <%s>\n", i+1, a.Name, a.Email)
			}
			return nil
		}
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 1 || n > len(accounts) {
			return fmt.Errorf("no account %q", args[1])
		}
		u, err := s.auth.LoginWithFederatedAccount(ctx, accounts[n-1])
		if err != nil {
			return err
		}
		s.resetRefs()
		fmt.Fprintf(s.out, "Logged in as %s\n", u.Email)
	case "logout":
		s.auth.Logout(ctx)
		s.resetRefs()
		fmt.Fprintln(s.out, "Logged out")
	case "whoami":
		if u := s.auth.ActiveSession(ctx); u != nil {
			fmt.Fprintf(s.out, "%s <%s>\n", u.Name, u.Email)
		} else {
			fmt.Fprintln(s.out, "Not logged in")
		}
	case "lists":
		var lists []models.ShoppingList
		if len(args) > 1 {
			lists = s.lists.SearchLists(ctx, strings.Join(args[1:], " "), ns)
		} else {
			lists = s.lists.GetLists(ctx, ns)
		}
		s.printLists(lists)
	case "new":
		if len(args) < 2 {
			return errUsage
		}
		l, err := s.lists.CreateList(ctx, strings.Join(args[1:], " "), ns)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "List %q created (%s)\n", l.Name, l.ID)
	case "show":
		if len(args) < 2 {
			return errUsage
		}
		l, err := s.list(ctx, args[1], ns)
		if err != nil {
			return err
		}
		s.printList(*l, strings.Join(args[2:], " "))
	case "add":
		if len(args) != 2 {
			return errUsage
		}
		l, err := s.list(ctx, args[1], ns)
		if err != nil {
			return err
		}
		name, quantity, ok := s.PromptForItem()
		if !ok {
			return nil
		}
		item, err := s.lists.AddItem(ctx, l.ID, name, quantity, ns)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "%s added to the list\n", item.Name)
	case "check", "uncheck":
		if len(args) != 3 {
			return errUsage
		}
		listID := s.resolve(args[1], s.lastLists)
		if _, err := s.lists.SetItemChecked(ctx, listID, s.resolveItem(args[2], listID), args[0] == "check", ns); err != nil {
			return err
		}
		fmt.Fprintln(s.out, "Item updated")
	case "rm-item":
		if len(args) != 3 {
			return errUsage
		}
		listID := s.resolve(args[1], s.lastLists)
		if _, err := s.lists.DeleteItem(ctx, listID, s.resolveItem(args[2], listID), ns); err != nil {
			return err
		}
		fmt.Fprintln(s.out, "Item removed from the list")
	case "rename":
		if len(args) < 3 {
			return errUsage
		}
		if _, err := s.lists.RenameList(ctx, s.resolve(args[1], s.lastLists), strings.Join(args[2:], " "), ns); err != nil {
			return err
		}
		fmt.Fprintln(s.out, "List name updated")
	case "clear":
		if len(args) != 2 {
			return errUsage
		}
		if _, err := s.lists.ClearCheckedItems(ctx, s.resolve(args[1], s.lastLists), ns); err != nil {
			return err
		}
		fmt.Fprintln(s.out, "Bought items removed from the list")
	case "delete":
		if len(args) != 2 {
			return errUsage
		}
		l, err := s.list(ctx, args[1], ns)
		if err != nil {
			return err
		}
		s.lists.DeleteList(ctx, l.ID, ns)
		fmt.Fprintf(s.out, "List %s deleted\n", l.Name)
	default:
		fmt.Fprintln(s.out, "Unknown command. Type 'help' for a list of commands.")
	}
	return nil
}

// resolve turns a 1-based position from the last listing into an id.
// Anything else is taken as an id.
func (s *Shell) resolve(ref string, last []string) string {
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(last) {
		return last[n-1]
	}
	return ref
}

// resolveItem is resolve for item references. Numbers only map to ids when
// the last "show" displayed listID.
func (s *Shell) resolveItem(ref, listID string) string {
	if listID != s.itemsOf {
		return ref
	}
	return s.resolve(ref, s.lastItems)
}

// resetRefs forgets the last listings once the namespace changes.
func (s *Shell) resetRefs() {
	s.lastLists = s.lastLists[:0]
	s.lastItems = s.lastItems[:0]
	s.itemsOf = ""
}

func (s *Shell) list(ctx context.Context, ref, ns string) (*models.ShoppingList, error) {
	l, ok := s.lists.GetListByID(ctx, s.resolve(ref, s.lastLists), ns)
	if !ok {
		return nil, fmt.Errorf("list %q not found", ref)
	}
	return l, nil
}

func (s *Shell) printLists(lists []models.ShoppingList) {
	s.lastLists = s.lastLists[:0]
	if len(lists) == 0 {
		fmt.Fprintln(s.out, "No lists")
		return
	}
	for i, l := range lists {
		s.lastLists = append(s.lastLists, l.ID)
		st := s.lists.ComputeStats(l)
		fmt.Fprintf(s.out, "%d. %s (%s) %d/%d items, %.0f%%\n",
			i+1, l.Name, l.Date, st.CompletedItems, st.TotalItems, math.Round(st.ProgressPercent))
	}
}

func (s *Shell) printList(l models.ShoppingList, term string) {
	st := s.lists.ComputeStats(l)
	fmt.Fprintf(s.out, "%s (%s) %d/%d items, %.0f%%\n",
		l.Name, l.Date, st.CompletedItems, st.TotalItems, math.Round(st.ProgressPercent))

	s.lastItems = s.lastItems[:0]
	s.itemsOf = l.ID
	for i, it := range models.FilterItems(l.Items, term) {
		s.lastItems = append(s.lastItems, it.ID)
		mark := " "
		if it.Checked {
			mark = "x"
		}
		fmt.Fprintf(s.out, "  %d. [%s] %s %s\n", i+1, mark, it.Name, it.Quantity)
	}
}
