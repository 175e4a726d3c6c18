package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGateAuthorize(t *testing.T) {
	gate := NewGate()
	user := &Identity{UserID: "u1", Username: "alice"}
	staff := &Identity{UserID: "u2", Username: "boss", IsStaff: true}

	actions := []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete, ActionPurchase, ActionRestock}

	t.Run("nil identity is rejected everywhere", func(t *testing.T) {
		for _, a := range actions {
			require.ErrorIs(t, gate.Authorize(nil, a), ErrUnauthenticated, string(a))
		}
	})

	t.Run("authenticated user may do everything but restock", func(t *testing.T) {
		for _, a := range actions {
			err := gate.Authorize(user, a)
			if a == ActionRestock {
				require.ErrorIs(t, err, ErrForbidden)
			} else {
				require.NoError(t, err, string(a))
			}
		}
	})

	t.Run("staff may restock", func(t *testing.T) {
		require.NoError(t, gate.Authorize(staff, ActionRestock))
	})
}
