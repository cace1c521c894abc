package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDepartment(t *testing.T) {
	d, err := ParseDepartment("  Marine ")
	require.NoError(t, err)
	assert.Equal(t, DeptMarine, d)

	_, err = ParseDepartment("aviation")
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "department", vErr.Field)
}

func TestNormalizeProduct(t *testing.T) {
	cases := []struct {
		name string
		dept Department
		raw  string
		want string
	}{
		{"exact", DeptMarine, "Marine Hull", "Marine Hull"},
		{"case insensitive", DeptMarine, "marine cargo", "Marine Cargo"},
		{"substring", DeptMarine, "cargo", "Marine Cargo"},
		{"superstring", DeptPropertyEngineering, "Contractors All Risks (CAR)", "Contractors All Risks"},
		{"unknown falls back to default", DeptMarine, "Aviation Liability", "Marine Cargo"},
		{"empty falls back to default", DeptLiabilityFinancial, "", "Public Liability"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.dept.NormalizeProduct(tc.raw))
		})
	}
}

func TestValidProduct_CrossDepartment(t *testing.T) {
	assert.True(t, DeptMarine.ValidProduct("Marine Cargo"))
	assert.False(t, DeptMarine.ValidProduct("Public Liability"))
	assert.True(t, DeptLiabilityFinancial.ValidProduct("Public Liability"))
}

func TestNormalizeCurrency(t *testing.T) {
	assert.Equal(t, Currency("USD"), NormalizeCurrency(" usd "))
	assert.Equal(t, CurrencyAED, NormalizeCurrency("JPY"))
	assert.Equal(t, CurrencyAED, NormalizeCurrency(""))
}

func TestNormalizeQuotationStatus(t *testing.T) {
	assert.Equal(t, QuotationConfirmed, NormalizeQuotationStatus("Confirmed"))
	assert.Equal(t, QuotationConfirmed, NormalizeQuotationStatus("confirm"))
	assert.Equal(t, QuotationDeclined, NormalizeQuotationStatus("DECLINED"))
	assert.Equal(t, QuotationOpen, NormalizeQuotationStatus("pending"))
	assert.Equal(t, QuotationOpen, NormalizeQuotationStatus(""))
}

func TestStatusListContains(t *testing.T) {
	s := StatusList{StatusFirmOrderReceived, StatusKYCPending}
	assert.True(t, s.Contains(StatusKYCPending))
	assert.False(t, s.Contains(StatusPolicyIssued))
}

func TestDepartmentLabels(t *testing.T) {
	assert.Equal(t, "Marine", DeptMarine.Label())
	assert.Equal(t, "Property & Engineering", DeptPropertyEngineering.Label())
	assert.Equal(t, "Liability & Financial", DeptLiabilityFinancial.Label())
}
