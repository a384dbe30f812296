package acquisition

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestAccount(t *testing.T, allocated float64, parentID *uuid.UUID) *Account {
	account, err := NewAccount(uuid.New(), uuid.New(), uuid.New(), "Test account", "ACC-001",
		decimal.NewFromFloat(allocated), parentID)
	require.NoError(t, err)
	return account
}

func TestNewAccount(t *testing.T) {
	root := createTestAccount(t, 10000, nil)
	assert.True(t, root.IsRoot())

	parentID := root.ID
	child := createTestAccount(t, 2000, &parentID)
	assert.False(t, child.IsRoot())
	assert.Equal(t, root.ID, *child.ParentID)

	_, err := NewAccount(uuid.New(), uuid.New(), uuid.New(), "", "N", decimal.Zero, nil)
	assert.Error(t, err)

	_, err = NewAccount(uuid.New(), uuid.New(), uuid.Nil, "Name", "N", decimal.Zero, nil)
	assert.Error(t, err)

	_, err = NewAccount(uuid.New(), uuid.New(), uuid.New(), "Name", "N", decimal.NewFromInt(-1), nil)
	assert.Error(t, err)

	nilParent := uuid.Nil
	_, err = NewAccount(uuid.New(), uuid.New(), uuid.New(), "Name", "N", decimal.Zero, &nilParent)
	assert.Error(t, err)
}

func TestAccount_SetAllocatedAmount(t *testing.T) {
	account := createTestAccount(t, 1000, nil)

	require.NoError(t, account.SetAllocatedAmount(decimal.NewFromInt(2500)))
	assert.True(t, account.AllocatedAmount.Equal(decimal.NewFromInt(2500)))

	assert.Error(t, account.SetAllocatedAmount(decimal.NewFromInt(-5)))
}

func TestAccount_DebitCredit(t *testing.T) {
	account := createTestAccount(t, 1000, nil)

	account.Debit(decimal.NewFromInt(300))
	assert.True(t, account.AllocatedAmount.Equal(decimal.NewFromInt(700)))

	account.Credit(decimal.NewFromInt(50))
	assert.True(t, account.AllocatedAmount.Equal(decimal.NewFromInt(750)))
}

func TestAccount_Rename(t *testing.T) {
	account := createTestAccount(t, 1000, nil)
	require.NoError(t, account.Rename("Monographs 2026"))
	assert.Equal(t, "Monographs 2026", account.Name)
	assert.Error(t, account.Rename(""))
}

func TestAmountPair_Total(t *testing.T) {
	pair := AmountPair{Self: decimal.NewFromInt(100), Children: decimal.NewFromInt(250)}
	assert.True(t, pair.Total().Equal(decimal.NewFromInt(350)))
}

func TestAccount_DirtyEventOnAllocationChange(t *testing.T) {
	account := createTestAccount(t, 1000, nil)
	account.ClearDomainEvents()

	require.NoError(t, account.SetAllocatedAmount(decimal.NewFromInt(900)))

	events := account.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeAccountDirty, events[0].EventType())
}
