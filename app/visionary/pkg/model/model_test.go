package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSourceKind(t *testing.T) {
	tests := []struct {
		in   string
		want SourceKind
	}{
		{"Search by Name", SourceName},
		{"Website URL", SourceURL},
		{"Manual Description", SourceText},
		{"Upload Document", SourceDocument},
		{"url", SourceURL},
	}
	for _, tt := range tests {
		got, err := ParseSourceKind(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseSourceKind("carrier pigeon")
	assert.ErrorIs(t, err, ErrInvalidSource)
}

func TestCompanySource_Validate(t *testing.T) {
	assert.NoError(t, CompanySource{Kind: SourceName, Value: "Tesla"}.Validate())
	assert.NoError(t, CompanySource{Kind: SourceDocument, Value: "deck.pdf"}.Validate())
	assert.ErrorIs(t, CompanySource{Kind: SourceURL, Value: "  "}.Validate(), ErrInvalidSource)
	assert.ErrorIs(t, CompanySource{Kind: "fax"}.Validate(), ErrInvalidSource)
}

func TestRequests_Validate(t *testing.T) {
	assert.NoError(t, AdoptionRequest{CompanyProfile: "EV maker"}.Validate())
	assert.ErrorIs(t, AdoptionRequest{IndustryTrends: "x"}.Validate(), ErrMissingInput)

	err := FollowUpRequest{CompanyProfile: "EV maker"}.Validate()
	assert.ErrorIs(t, err, ErrMissingInput)
	assert.Contains(t, err.Error(), "adoption strategy")

	err = ReportRequest{CompanyName: "Tesla", AdoptionStrategy: "a", IntegrationPlan: "b"}.Validate()
	assert.ErrorIs(t, err, ErrMissingInput)
	assert.Contains(t, err.Error(), "revenue opportunities")
}

func TestSessionRecord_RowMatchesColumns(t *testing.T) {
	r := SessionRecord{Name: "n", Email: "e", Mobile: "m", CompanyName: "c", CompanyData: "d",
		Industry: "i", Competitor: "co", AIStrategy: "s", AIIntegration: "ai", RevenueOpportunities: "r"}
	assert.Len(t, r.Row(), len(SessionColumns))
	assert.Equal(t, "n", r.Row()[0])
	assert.Equal(t, "r", r.Row()[len(SessionColumns)-1])
}
