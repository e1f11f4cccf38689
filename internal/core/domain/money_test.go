package domain_test

import (
	"testing"

	"github.com/SscSPs/bukubesar/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAmountFromDecimal(t *testing.T) {
	tests := []struct {
		in      string
		scale   int32
		want    domain.Amount
		wantErr bool
	}{
		{"1000000", 2, 100_000_000, false},
		{"1000000.50", 2, 100_000_050, false},
		{"0.01", 2, 1, false},
		{"0.001", 2, 0, true},
		{"1500", 0, 1500, false},
		{"1500.5", 0, 0, true},
		{"-12.34", 2, -1234, false},
		{"99999999999999999999", 2, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := domain.AmountFromDecimal(decimal.RequireFromString(tt.in), tt.scale)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, decimal.RequireFromString(tt.in).Equal(got.Decimal(tt.scale)))
		})
	}
}

func TestAmountAddChecked(t *testing.T) {
	s, ok := domain.Amount(5).AddChecked(7)
	assert.True(t, ok)
	assert.Equal(t, domain.Amount(12), s)

	_, ok = domain.Amount(1 << 62).AddChecked(1 << 62)
	assert.False(t, ok)
}

func TestAccount(t *testing.T) {
	assert.Equal(t, domain.DebitSide, domain.Asset.NormalBalance())
	assert.Equal(t, domain.DebitSide, domain.Expense.NormalBalance())
	assert.Equal(t, domain.CreditSide, domain.Revenue.NormalBalance())
	assert.Equal(t, domain.CreditSide, domain.Liability.NormalBalance())
	assert.False(t, domain.AccountType("INCOME").Valid())

	kas := domain.Account{Code: "1.1.01", NormalBalance: domain.DebitSide}
	assert.Equal(t, "1.1", kas.ParentCode())
	assert.Equal(t, domain.Amount(-30), kas.SignedAmount(70, 100))

	pendapatan := domain.Account{Code: "4", NormalBalance: domain.CreditSide}
	assert.Equal(t, "", pendapatan.ParentCode())
	assert.Equal(t, domain.Amount(30), pendapatan.SignedAmount(70, 100))

	assert.True(t, domain.ValidAccountCode("1-100"))
	assert.True(t, domain.ValidAccountCode("1.1.01"))
	assert.False(t, domain.ValidAccountCode("1..1"))
	assert.False(t, domain.ValidAccountCode(""))
}
