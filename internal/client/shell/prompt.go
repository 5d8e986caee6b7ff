package shell

import (
	"fmt"
	"strings"
)

// prompt prints label and reads one trimmed line. ok is false at end of input.
func (s *Shell) prompt(label string) (string, bool) {
	fmt.Fprint(s.out, label)
	if !s.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.in.Text()), true
}

// PromptForItem asks for the name and quantity of a new item.
func (s *Shell) PromptForItem() (name, quantity string, ok bool) {
	if name, ok = s.prompt("Enter item name: "); !ok {
		return "", "", false
	}
	if quantity, ok = s.prompt("Enter quantity: "); !ok {
		return "", "", false
	}
	return name, quantity, true
}

// PromptForCredentials asks for the fields of a registration. The name is
// skipped when withName is false.
func (s *Shell) PromptForCredentials(withName bool) (name, email, password string, ok bool) {
	if withName {
		if name, ok = s.prompt("Enter name: "); !ok {
			return "", "", "", false
		}
	}
	if email, ok = s.prompt("Enter email: "); !ok {
		return "", "", "", false
	}
	if password, ok = s.prompt("Enter password: "); !ok {
		return "", "", "", false
	}
	return name, email, password, true
}
