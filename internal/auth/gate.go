package auth

type Action string

const (
	ActionCreate   Action = "create"
	ActionRead     Action = "read"
	ActionUpdate   Action = "update"
	ActionDelete   Action = "delete"
	ActionPurchase Action = "purchase"
	ActionRestock  Action = "restock"
)

// Gate holds the role policy as an explicit rule table instead of
// framework-level permission globals.
type Gate struct {
	// StaffOnly lists actions that require the staff capability on top of a
	// valid identity.
	StaffOnly map[Action]bool
}

func NewGate() *Gate {
	return &Gate{StaffOnly: map[Action]bool{ActionRestock: true}}
}

func (g *Gate) Authorize(ident *Identity, action Action) error {
	if ident == nil {
		return ErrUnauthenticated
	}
	if g.StaffOnly[action] && !ident.IsStaff {
		return ErrForbidden
	}
	return nil
}
