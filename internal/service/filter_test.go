package service

import (
	"testing"

	"github.com/cabpool/internal/db"
	"github.com/stretchr/testify/assert"
)

func TestMatchesQuery(t *testing.T) {
	assert.True(t, MatchesQuery("", "anything"))
	assert.True(t, MatchesQuery("   ", "anything"))
	assert.True(t, MatchesQuery("POOL", "Cab pooling made easy"))
	assert.True(t, MatchesQuery("kyc", "no match", "Aadhaar KYC"))
	assert.False(t, MatchesQuery("bike", "Cab pooling", "Safety first"))
	assert.False(t, MatchesQuery("x"))
}

func TestFilterByQueryReturnsOrderedSubset(t *testing.T) {
	faqs := []db.FAQ{
		{Question: "Is my ride insured?", Answer: "Yes, every trip.", Category: "safety"},
		{Question: "How do I pay?", Answer: "UPI or card.", Category: "payments"},
		{Question: "Can I cancel?", Answer: "Free until driver assigned.", Category: "rides"},
		{Question: "What is KYC?", Answer: "Aadhaar based verification.", Category: "Safety"},
	}
	fields := func(f db.FAQ) []string { return []string{f.Question, f.Answer, f.Category} }

	got := FilterByQuery(faqs, "SAFETY", fields)
	assert.Len(t, got, 2)
	assert.Equal(t, "Is my ride insured?", got[0].Question)
	assert.Equal(t, "What is KYC?", got[1].Question)

	assert.Len(t, FilterByQuery(faqs, "", fields), len(faqs))
	assert.Empty(t, FilterByQuery(faqs, "crypto", fields))

	for _, item := range FilterByQuery(faqs, "upi", fields) {
		assert.True(t, MatchesQuery("upi", fields(item)...))
	}
}

func TestMatchesQueryFoldsUnicode(t *testing.T) {
	assert.True(t, MatchesQuery("émigré", "ÉMIGRÉ café"))
}
