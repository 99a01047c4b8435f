package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignedAmountMinor(t *testing.T) {
	debit := JournalLine{Side: Debit, AmountMinor: 500}
	credit := JournalLine{Side: Credit, AmountMinor: 500}

	// Debits grow assets and expenses, shrink the rest.
	assert.Equal(t, int64(500), debit.SignedAmountMinor(Asset))
	assert.Equal(t, int64(500), debit.SignedAmountMinor(Expense))
	assert.Equal(t, int64(-500), debit.SignedAmountMinor(Liability))
	assert.Equal(t, int64(-500), debit.SignedAmountMinor(Revenue))

	assert.Equal(t, int64(-500), credit.SignedAmountMinor(Asset))
	assert.Equal(t, int64(500), credit.SignedAmountMinor(Liability))
	assert.Equal(t, int64(500), credit.SignedAmountMinor(Equity))
	assert.Equal(t, int64(500), credit.SignedAmountMinor(Revenue))
}

func TestDraftEntryIsBalanced(t *testing.T) {
	balanced := DraftEntry{Lines: []DraftLine{
		{AccountCode: "1100", Side: Debit, AmountMinor: 12000},
		{AccountCode: "4000", Side: Credit, AmountMinor: 10000},
		{AccountCode: "2200", Side: Credit, AmountMinor: 2000},
	}}
	assert.True(t, balanced.IsBalanced())
	assert.Equal(t, int64(12000), balanced.DebitTotalMinor())
	assert.Equal(t, int64(12000), balanced.CreditTotalMinor())

	// One minor unit off is unbalanced; there is no epsilon.
	offByOne := DraftEntry{Lines: []DraftLine{
		{AccountCode: "1100", Side: Debit, AmountMinor: 12000},
		{AccountCode: "4000", Side: Credit, AmountMinor: 11999},
	}}
	assert.False(t, offByOne.IsBalanced())
}

func TestEntrySideOpposite(t *testing.T) {
	assert.Equal(t, Credit, Debit.Opposite())
	assert.Equal(t, Debit, Credit.Opposite())
}
