package command

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/merchantdesk/backoffice/internal/company/domain"
	"github.com/merchantdesk/backoffice/pkg/apperr"
)

// fakeCreditRepo is an in-memory CreditRepository. Mutate mimics the real
// repository contract: the closure runs against the account, and the returned
// ledger entry is recorded atomically with the balance write.
type fakeCreditRepo struct {
	account  *domain.CreditAccount
	ledger   []domain.CreditTransaction
	nextTxID uint
}

func newFakeCreditRepo(companyID uint, limit, available decimal.Decimal) *fakeCreditRepo {
	return &fakeCreditRepo{
		account: &domain.CreditAccount{
			ID:              1,
			CompanyID:       companyID,
			CreditLimit:     limit,
			AvailableCredit: available,
		},
	}
}

func (f *fakeCreditRepo) CreateAccount(account *domain.CreditAccount) error {
	f.account = account
	return nil
}

func (f *fakeCreditRepo) FindAccountByCompanyID(companyID uint) (*domain.CreditAccount, error) {
	if f.account == nil || f.account.CompanyID != companyID {
		return nil, apperr.New(apperr.CodeNotFound, "credit account not found")
	}
	copied := *f.account
	return &copied, nil
}

func (f *fakeCreditRepo) Mutate(ctx context.Context, companyID uint, fn domain.CreditMutation) (*domain.CreditAccount, *domain.CreditTransaction, error) {
	if f.account == nil || f.account.CompanyID != companyID {
		return nil, nil, apperr.New(apperr.CodeNotFound, "credit account not found")
	}

	working := *f.account
	entry, err := fn(&working)
	if err != nil {
		return nil, nil, err
	}

	f.account = &working
	f.nextTxID++
	entry.ID = f.nextTxID
	entry.CompanyID = companyID
	f.ledger = append(f.ledger, *entry)

	return &working, entry, nil
}

func (f *fakeCreditRepo) ListTransactions(companyID uint, filter domain.TransactionFilter) ([]domain.CreditTransaction, error) {
	return f.ledger, nil
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestSetCreditLimit(t *testing.T) {
	ctx := context.Background()

	t.Run("initial assignment fills available credit", func(t *testing.T) {
		repo := newFakeCreditRepo(1, decimal.Zero, decimal.Zero)
		h := NewSetCreditLimitHandler(repo)

		result, err := h.Handle(ctx, SetCreditLimitCommand{CompanyID: 1, NewLimit: dec("1000")})
		require.NoError(t, err)

		assert.True(t, result.CreditLimit.Equal(dec("1000")))
		assert.True(t, result.AvailableCredit.Equal(dec("1000")))
		assert.True(t, result.PreviousLimit.Equal(decimal.Zero))

		require.Len(t, repo.ledger, 1)
		assert.Equal(t, domain.TxTypeLimitAssignment, repo.ledger[0].Type)
		assert.True(t, repo.ledger[0].Amount.Equal(dec("1000")))
	})

	t.Run("increase preserves used credit", func(t *testing.T) {
		// limit 1000, available 400 means 600 is in use
		repo := newFakeCreditRepo(1, dec("1000"), dec("400"))
		h := NewSetCreditLimitHandler(repo)

		result, err := h.Handle(ctx, SetCreditLimitCommand{CompanyID: 1, NewLimit: dec("1500")})
		require.NoError(t, err)

		assert.True(t, result.AvailableCredit.Equal(dec("900")))
		assert.True(t, repo.account.UsedCredit().Equal(dec("600")))
	})

	t.Run("reduction below usage leaves available negative by default", func(t *testing.T) {
		// limit 1000, available 200 means 800 is in use
		repo := newFakeCreditRepo(1, dec("1000"), dec("200"))
		h := NewSetCreditLimitHandler(repo)

		result, err := h.Handle(ctx, SetCreditLimitCommand{CompanyID: 1, NewLimit: dec("500")})
		require.NoError(t, err)

		assert.True(t, result.AvailableCredit.Equal(dec("-300")))
		// usage stays visible for collections
		assert.True(t, repo.account.UsedCredit().Equal(dec("800")))
	})

	t.Run("reduction clamps to zero with clamp policy", func(t *testing.T) {
		repo := newFakeCreditRepo(1, dec("1000"), dec("200"))
		h := NewSetCreditLimitHandlerWithPolicy(repo, true)

		result, err := h.Handle(ctx, SetCreditLimitCommand{CompanyID: 1, NewLimit: dec("500")})
		require.NoError(t, err)

		assert.True(t, result.AvailableCredit.Equal(decimal.Zero))
	})

	t.Run("negative limit rejected", func(t *testing.T) {
		repo := newFakeCreditRepo(1, dec("1000"), dec("1000"))
		h := NewSetCreditLimitHandler(repo)

		_, err := h.Handle(ctx, SetCreditLimitCommand{CompanyID: 1, NewLimit: dec("-1")})
		require.Error(t, err)
		assert.Equal(t, apperr.CodeInvalidArgument, apperr.CodeOf(err))
		assert.Empty(t, repo.ledger)
	})

	t.Run("unknown company", func(t *testing.T) {
		repo := newFakeCreditRepo(1, dec("1000"), dec("1000"))
		h := NewSetCreditLimitHandler(repo)

		_, err := h.Handle(ctx, SetCreditLimitCommand{CompanyID: 42, NewLimit: dec("100")})
		require.Error(t, err)
		assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
	})
}

func TestReserveCredit(t *testing.T) {
	ctx := context.Background()

	t.Run("reserves and appends ledger entry", func(t *testing.T) {
		repo := newFakeCreditRepo(1, dec("1000"), dec("1000"))
		h := NewReserveCreditHandler(repo)

		result, err := h.Handle(ctx, ReserveCreditCommand{
			CompanyID:     1,
			Amount:        dec("250"),
			ReferenceID:   "order_77",
			ReferenceType: "order",
		})
		require.NoError(t, err)

		assert.True(t, result.AvailableCredit.Equal(dec("750")))
		require.Len(t, repo.ledger, 1)
		assert.Equal(t, domain.TxTypePayment, repo.ledger[0].Type)
		assert.True(t, repo.ledger[0].Amount.Equal(dec("-250")))
		assert.Equal(t, "order_77", repo.ledger[0].ReferenceID)
	})

	t.Run("insufficient credit leaves balance and ledger untouched", func(t *testing.T) {
		repo := newFakeCreditRepo(1, dec("1000"), dec("100"))
		h := NewReserveCreditHandler(repo)

		_, err := h.Handle(ctx, ReserveCreditCommand{CompanyID: 1, Amount: dec("100.01")})
		require.Error(t, err)
		assert.Equal(t, apperr.CodeInsufficientCredit, apperr.CodeOf(err))
		assert.Equal(t, "100.01", apperr.Details(err)["requested"])
		assert.Equal(t, "100", apperr.Details(err)["available"])

		assert.True(t, repo.account.AvailableCredit.Equal(dec("100")))
		assert.Empty(t, repo.ledger)
	})

	t.Run("exact balance is spendable", func(t *testing.T) {
		repo := newFakeCreditRepo(1, dec("1000"), dec("100"))
		h := NewReserveCreditHandler(repo)

		result, err := h.Handle(ctx, ReserveCreditCommand{CompanyID: 1, Amount: dec("100")})
		require.NoError(t, err)
		assert.True(t, result.AvailableCredit.Equal(decimal.Zero))
	})

	t.Run("non-positive amount rejected", func(t *testing.T) {
		repo := newFakeCreditRepo(1, dec("1000"), dec("1000"))
		h := NewReserveCreditHandler(repo)

		for _, amount := range []string{"0", "-5"} {
			_, err := h.Handle(ctx, ReserveCreditCommand{CompanyID: 1, Amount: dec(amount)})
			require.Error(t, err)
			assert.Equal(t, apperr.CodeInvalidArgument, apperr.CodeOf(err))
		}
	})
}

func TestReleaseCredit(t *testing.T) {
	ctx := context.Background()

	t.Run("restores available credit", func(t *testing.T) {
		repo := newFakeCreditRepo(1, dec("1000"), dec("400"))
		h := NewReleaseCreditHandler(repo)

		result, err := h.Handle(ctx, ReleaseCreditCommand{CompanyID: 1, Amount: dec("150")})
		require.NoError(t, err)

		assert.True(t, result.AvailableCredit.Equal(dec("550")))
		require.Len(t, repo.ledger, 1)
		assert.Equal(t, domain.TxTypeRefund, repo.ledger[0].Type)
		assert.True(t, repo.ledger[0].Amount.Equal(dec("150")))
	})

	t.Run("release is clamped at the credit limit", func(t *testing.T) {
		repo := newFakeCreditRepo(1, dec("1000"), dec("900"))
		h := NewReleaseCreditHandler(repo)

		result, err := h.Handle(ctx, ReleaseCreditCommand{CompanyID: 1, Amount: dec("500")})
		require.NoError(t, err)

		assert.True(t, result.AvailableCredit.Equal(dec("1000")))
	})
}

func TestAdjustCredit(t *testing.T) {
	ctx := context.Background()

	t.Run("applies signed delta", func(t *testing.T) {
		repo := newFakeCreditRepo(1, dec("1000"), dec("500"))
		h := NewAdjustCreditHandler(repo)

		result, err := h.Handle(ctx, AdjustCreditCommand{CompanyID: 1, Amount: dec("-200"), Reason: "billing correction"})
		require.NoError(t, err)

		assert.True(t, result.AvailableCredit.Equal(dec("300")))
		assert.True(t, result.AppliedDelta.Equal(dec("-200")))
	})

	t.Run("clamps at limit and records applied delta", func(t *testing.T) {
		repo := newFakeCreditRepo(1, dec("1000"), dec("900"))
		h := NewAdjustCreditHandler(repo)

		result, err := h.Handle(ctx, AdjustCreditCommand{CompanyID: 1, Amount: dec("500"), Reason: "goodwill"})
		require.NoError(t, err)

		assert.True(t, result.AvailableCredit.Equal(dec("1000")))
		assert.True(t, result.AppliedDelta.Equal(dec("100")))

		// the ledger records what actually happened, not what was asked for
		require.Len(t, repo.ledger, 1)
		assert.True(t, repo.ledger[0].Amount.Equal(dec("100")))
	})

	t.Run("clamps at zero", func(t *testing.T) {
		repo := newFakeCreditRepo(1, dec("1000"), dec("50"))
		h := NewAdjustCreditHandler(repo)

		result, err := h.Handle(ctx, AdjustCreditCommand{CompanyID: 1, Amount: dec("-300"), Reason: "chargeback"})
		require.NoError(t, err)

		assert.True(t, result.AvailableCredit.Equal(decimal.Zero))
		assert.True(t, result.AppliedDelta.Equal(dec("-50")))
	})

	t.Run("requires non-zero amount and a reason", func(t *testing.T) {
		repo := newFakeCreditRepo(1, dec("1000"), dec("500"))
		h := NewAdjustCreditHandler(repo)

		_, err := h.Handle(ctx, AdjustCreditCommand{CompanyID: 1, Amount: decimal.Zero, Reason: "x"})
		assert.Equal(t, apperr.CodeInvalidArgument, apperr.CodeOf(err))

		_, err = h.Handle(ctx, AdjustCreditCommand{CompanyID: 1, Amount: dec("10")})
		assert.Equal(t, apperr.CodeInvalidArgument, apperr.CodeOf(err))
	})
}

// TestCreditLifecycle walks a full reserve/release cycle and checks the
// ledger replays to the final balance.
func TestCreditLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := newFakeCreditRepo(1, decimal.Zero, decimal.Zero)

	setLimit := NewSetCreditLimitHandler(repo)
	reserve := NewReserveCreditHandler(repo)
	release := NewReleaseCreditHandler(repo)

	_, err := setLimit.Handle(ctx, SetCreditLimitCommand{CompanyID: 1, NewLimit: dec("1000")})
	require.NoError(t, err)

	_, err = reserve.Handle(ctx, ReserveCreditCommand{CompanyID: 1, Amount: dec("600"), ReferenceID: "order_1"})
	require.NoError(t, err)

	_, err = reserve.Handle(ctx, ReserveCreditCommand{CompanyID: 1, Amount: dec("300"), ReferenceID: "order_2"})
	require.NoError(t, err)

	// refund order_1 in two parts
	_, err = release.Handle(ctx, ReleaseCreditCommand{CompanyID: 1, Amount: dec("200"), ReferenceID: "order_1"})
	require.NoError(t, err)
	result, err := release.Handle(ctx, ReleaseCreditCommand{CompanyID: 1, Amount: dec("400"), ReferenceID: "order_1"})
	require.NoError(t, err)

	assert.True(t, result.AvailableCredit.Equal(dec("700")))

	// the ledger sums to the final balance
	sum := decimal.Zero
	for _, entry := range repo.ledger {
		sum = sum.Add(entry.Amount)
	}
	assert.True(t, sum.Equal(repo.account.AvailableCredit))
}
