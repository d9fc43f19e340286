package enums

import "fmt"

// ChangeAction maps to the action column on inventory_changes.
type ChangeAction string

const (
	ChangeActionCreate ChangeAction = "CREATE"
	ChangeActionAdd    ChangeAction = "ADD"
	ChangeActionRemove ChangeAction = "REMOVE"
	ChangeActionUpdate ChangeAction = "UPDATE"
	ChangeActionDelete ChangeAction = "DELETE"
)

var validChangeActions = []ChangeAction{
	ChangeActionCreate,
	ChangeActionAdd,
	ChangeActionRemove,
	ChangeActionUpdate,
	ChangeActionDelete,
}

// IsValid reports whether the value matches a canonical change action.
func (a ChangeAction) IsValid() bool {
	for _, candidate := range validChangeActions {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseChangeAction converts raw input into a ChangeAction.
func ParseChangeAction(value string) (ChangeAction, error) {
	for _, candidate := range validChangeActions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid change action %q", value)
}

// Display returns the human label used in audit summaries.
func (a ChangeAction) Display() string {
	switch a {
	case ChangeActionCreate:
		return "Create Item"
	case ChangeActionAdd:
		return "Add Stock"
	case ChangeActionRemove:
		return "Remove Stock"
	case ChangeActionUpdate:
		return "Update Details"
	case ChangeActionDelete:
		return "Delete Item"
	}
	return string(a)
}
