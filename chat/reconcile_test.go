package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/Semara-26/shiki-pilot/core"
)

func TestReconcilePending(t *testing.T) {
	confirmed := []*core.Message{
		{Id: 1, Role: core.MessageRoleUser, Content: "Berapa stok beras?"},
		{Id: 2, Role: core.MessageRoleAssistant, Content: "Stok beras 20 karung."},
	}

	t.Run("confirmed pending is dropped", func(t *testing.T) {
		pending := []PendingMessage{
			{Role: core.MessageRoleUser, Content: "Berapa stok beras?"},
		}
		assert.Empty(t, ReconcilePending(confirmed, pending))
	})

	t.Run("unconfirmed pending survives", func(t *testing.T) {
		pending := []PendingMessage{
			{Role: core.MessageRoleUser, Content: "Kalau minyak goreng?"},
		}
		remaining := ReconcilePending(confirmed, pending)
		assert.Equal(t, pending, remaining)
	})

	t.Run("role must match, not just content", func(t *testing.T) {
		pending := []PendingMessage{
			{Role: core.MessageRoleAssistant, Content: "Berapa stok beras?"},
		}
		assert.Len(t, ReconcilePending(confirmed, pending), 1)
	})

	t.Run("each confirmed message settles one pending", func(t *testing.T) {
		pending := []PendingMessage{
			{Role: core.MessageRoleUser, Content: "Berapa stok beras?"},
			{Role: core.MessageRoleUser, Content: "Berapa stok beras?"},
		}
		remaining := ReconcilePending(confirmed, pending)
		assert.Len(t, remaining, 1)
	})

	t.Run("empty inputs", func(t *testing.T) {
		assert.Empty(t, ReconcilePending(nil, nil))
		assert.Empty(t, ReconcilePending(confirmed, nil))
		assert.Len(t, ReconcilePending(nil, []PendingMessage{{Role: core.MessageRoleUser, Content: "halo"}}), 1)
	})
}
