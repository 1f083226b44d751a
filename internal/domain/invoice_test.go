package domain

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestComputeTotals(t *testing.T) {
	tests := []struct {
		name  string
		items []LineItem
		want  float64
	}{
		{"empty", nil, 0},
		{"single item", []LineItem{{Description: "A", Quantity: 2, UnitPrice: 5}}, 10},
		{"multiple items", []LineItem{
			{Quantity: 1, UnitPrice: 100},
			{Quantity: 3, UnitPrice: 20.5},
		}, 161.5},
		{"nan quantity treated as zero", []LineItem{{Quantity: math.NaN(), UnitPrice: 50}}, 0},
		{"infinite price treated as zero", []LineItem{{Quantity: 2, UnitPrice: math.Inf(1)}}, 0},
		{"mixed valid and invalid", []LineItem{
			{Quantity: 2, UnitPrice: 5},
			{Quantity: math.NaN(), UnitPrice: 99},
		}, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeTotals(tt.items)
			assert.Equal(t, tt.want, got.Subtotal)
			// No tax/discount model: total always equals subtotal.
			assert.Equal(t, got.Subtotal, got.Total)
		})
	}
}

func TestSummarizeInvoices(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	thisMonth := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)
	lastMonth := time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC)

	rows := []InvoiceFinancials{
		{Status: InvoiceStatusPaid, Total: 100, IssueDate: thisMonth},
		{Status: InvoiceStatusSent, Total: 50, IssueDate: lastMonth},
		{Status: InvoiceStatusPaid, Total: 30, IssueDate: lastMonth},
	}

	got := SummarizeInvoices(rows, now)

	// Monthly revenue only counts paid invoices issued this month, but
	// the paid count is all-time. The asymmetry is intentional.
	assert.Equal(t, 100.0, got.MonthlyRevenue)
	assert.Equal(t, 50.0, got.Outstanding)
	assert.Equal(t, 2, got.PaidCount)
}

func TestSummarizeInvoicesOutstandingIncludesOverdue(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	rows := []InvoiceFinancials{
		{Status: InvoiceStatusSent, Total: 40},
		{Status: InvoiceStatusOverdue, Total: 60},
		{Status: InvoiceStatusDraft, Total: 500},
	}

	got := SummarizeInvoices(rows, now)
	assert.Equal(t, 100.0, got.Outstanding)
	assert.Zero(t, got.MonthlyRevenue)
	assert.Zero(t, got.PaidCount)
}

func TestTimestampNumberGenerator(t *testing.T) {
	gen := TimestampNumberGenerator{}
	now := time.UnixMilli(1717000123456)

	got := gen.Next(now)
	assert.Equal(t, "FAC-123456", got)

	// Custom prefix and zero padding.
	gen = TimestampNumberGenerator{Prefix: "INV-"}
	got = gen.Next(time.UnixMilli(1717000000042))
	assert.Equal(t, "INV-000042", got)
	assert.Len(t, strings.TrimPrefix(got, "INV-"), 6)
}

func TestValidInvoiceStatus(t *testing.T) {
	for _, s := range []string{"draft", "sent", "paid", "overdue"} {
		assert.True(t, ValidInvoiceStatus(s), s)
	}
	for _, s := range []string{"", "void", "DRAFT", "cancelled"} {
		assert.False(t, ValidInvoiceStatus(s), s)
	}
}
