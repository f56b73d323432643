package brokerage

import (
	"testing"
)

func TestMoney_WeakCurrency(t *testing.T) {
	got := M(0, "").Add(M(10, "RUB"))
	if got.Currency() != "RUB" {
		t.Errorf("Currency() = %q, want RUB", got.Currency())
	}
	moneyEq(t, "Add", got, 10)

	got = M(10, "RUB").Sub(M(3, ""))
	if got.Currency() != "RUB" {
		t.Errorf("Currency() = %q, want RUB", got.Currency())
	}
	moneyEq(t, "Sub", got, 7)
}

func TestMoney_MismatchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("adding USD to RUB must panic")
		}
	}()
	M(1, "USD").Add(M(1, "RUB"))
}

func TestMoney_SignedString(t *testing.T) {
	testCases := []struct {
		in   Money
		want string
	}{
		{M(0, "RUB"), "-"},
		{M(1.5, "USD"), "+$1.50"},
		{M(-1.5, "USD"), "-$1.50"},
	}
	for _, tc := range testCases {
		if got := tc.in.SignedString(); got != tc.want {
			t.Errorf("SignedString(%v) = %q, want %q", tc.in.Value(), got, tc.want)
		}
	}
}

func TestMoney_ScaleByQuantity(t *testing.T) {
	m := M(100, "RUB")
	moneyEq(t, "Mul", m.Mul(Q(3)), 300)
	moneyEq(t, "Div", m.Div(Q(4)), 25)
	moneyEq(t, "Neg", m.Neg(), -100)
	moneyEq(t, "Abs", m.Neg().Abs(), 100)
}
