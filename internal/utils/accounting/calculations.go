package accounting

import (
	"fmt"

	"github.com/rakibulmuhajir/haasib/internal/apperrors"
	"github.com/rakibulmuhajir/haasib/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BalanceTolerance returns the tolerance used when comparing debit and credit
// totals for a currency with the given number of decimal places: one minor
// unit (10^-dp). A 0-decimal currency like JPY therefore tolerates no
// fractional drift, while a 3-decimal currency like KWD tolerates 0.001.
func BalanceTolerance(decimalPlaces int32) decimal.Decimal {
	return decimal.New(1, -decimalPlaces)
}

// DefaultBalanceTolerance is used when the entry currency is unknown.
var DefaultBalanceTolerance = decimal.New(1, -2) // 0.01

// ValidateEntryBalance checks the structural line invariants and the balance
// invariant for one journal entry's lines. It performs no I/O; account
// existence and activity checks belong to the caller.
func ValidateEntryBalance(lines []domain.JournalLine, tolerance decimal.Decimal) error {
	if len(lines) < 2 {
		return fmt.Errorf("%w: journal entry must have at least two lines", apperrors.ErrValidation)
	}

	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for i, line := range lines {
		if line.DebitAmount.IsNegative() || line.CreditAmount.IsNegative() {
			return fmt.Errorf("%w: line %d has a negative amount", apperrors.ErrValidation, i+1)
		}
		hasDebit := line.DebitAmount.IsPositive()
		hasCredit := line.CreditAmount.IsPositive()
		if hasDebit == hasCredit {
			// Both set or both zero.
			return fmt.Errorf("%w: line %d must have exactly one of debit or credit", apperrors.ErrValidation, i+1)
		}
		totalDebit = totalDebit.Add(line.DebitAmount)
		totalCredit = totalCredit.Add(line.CreditAmount)
	}

	if totalDebit.Sub(totalCredit).Abs().GreaterThan(tolerance) {
		return fmt.Errorf("%w: debits total %s, credits total %s",
			apperrors.ErrUnbalancedEntry, totalDebit.String(), totalCredit.String())
	}
	return nil
}

// SignedAmount returns the contribution of a line toward an account balance
// oriented by the account's normal balance: debit-normal accounts grow on
// debits, credit-normal accounts grow on credits.
func SignedAmount(line domain.JournalLine, normal domain.NormalBalance) decimal.Decimal {
	net := line.DebitAmount.Sub(line.CreditAmount)
	if normal == domain.NormalCredit {
		return net.Neg()
	}
	return net
}

// ReverseLines produces the mechanical reversal of a set of lines: every
// debit becomes a credit of the same amount and vice versa. Line numbers and
// account references are preserved.
func ReverseLines(lines []domain.JournalLine) []domain.JournalLine {
	reversed := make([]domain.JournalLine, len(lines))
	for i, line := range lines {
		reversed[i] = line
		reversed[i].DebitAmount = line.CreditAmount
		reversed[i].CreditAmount = line.DebitAmount
	}
	return reversed
}

// BalanceFromTotals computes the oriented balance and its side label from
// debit/credit totals. The label flips to the opposite side when the oriented
// balance is negative; the number itself keeps its sign.
func BalanceFromTotals(totalDebit, totalCredit decimal.Decimal, normal domain.NormalBalance) (decimal.Decimal, domain.NormalBalance) {
	var balance decimal.Decimal
	if normal == domain.NormalDebit {
		balance = totalDebit.Sub(totalCredit)
	} else {
		balance = totalCredit.Sub(totalDebit)
	}

	balanceType := normal
	if balance.IsNegative() {
		if normal == domain.NormalDebit {
			balanceType = domain.NormalCredit
		} else {
			balanceType = domain.NormalDebit
		}
	}
	return balance, balanceType
}
