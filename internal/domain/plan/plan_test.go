package plan

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogTable(t *testing.T) {
	cases := []struct {
		id      ID
		name    string
		price   int64
		crm     bool
		finance bool
	}{
		{Trial, "Prueba", 0, false, false},
		{Basico, "Básico", 15000, true, false},
		{Pro, "Pro", 25000, true, true},
	}

	for _, tc := range cases {
		p := Get(tc.id)
		assert.Equal(t, tc.name, p.Name)
		assert.Equal(t, tc.price, p.Price)
		assert.Equal(t, tc.crm, p.Caps.CRM, "crm for %s", tc.id)
		assert.Equal(t, tc.finance, p.Caps.Finance, "finance for %s", tc.id)
	}
}

func TestCatalogIsCopy(t *testing.T) {
	c := Catalog()
	c[0].Features[0] = "mutated"
	c[0].Name = "mutated"
	assert.Equal(t, "Prueba", Get(Trial).Name)
	assert.NotEqual(t, "mutated", Get(Trial).Features[0])
}

func TestUnknownPlanFallsBackToTrial(t *testing.T) {
	assert.Equal(t, Trial, Get("enterprise").ID)
	assert.False(t, Known("enterprise"))
	assert.True(t, Known("pro"))
}

func TestEffectiveDowngradesLapsedSubscriptions(t *testing.T) {
	assert.Equal(t, Pro, Effective("pro", "active").ID)
	assert.Equal(t, Pro, Effective("pro", "trialing").ID)
	assert.Equal(t, Trial, Effective("pro", "past_due").ID)
	assert.Equal(t, Trial, Effective("basico", "cancelled").ID)
}

func TestCheck(t *testing.T) {
	always := []Section{SectionAgenda, SectionServices, SectionStaff, SectionSettings}
	for _, id := range []ID{Trial, Basico, Pro} {
		for _, s := range always {
			assert.NoError(t, Check(Get(id), s), "%s/%s", id, s)
		}
	}

	err := Check(Get(Trial), SectionCRM)
	var up *UpgradeRequired
	require.True(t, errors.As(err, &up))
	assert.Equal(t, Basico, up.RequiredPlan)
	assert.Equal(t, "Básico", up.RequiredPlanName)

	err = Check(Get(Basico), SectionFinance)
	require.True(t, errors.As(err, &up))
	assert.Equal(t, Pro, up.RequiredPlan)
	assert.Contains(t, up.Message(), "Pro")

	assert.NoError(t, Check(Get(Basico), SectionCRM))
	assert.NoError(t, Check(Get(Pro), SectionFinance))
}

func TestParseSection(t *testing.T) {
	s, ok := ParseSection(" Finance ")
	assert.True(t, ok)
	assert.Equal(t, SectionFinance, s)

	_, ok = ParseSection("reports")
	assert.False(t, ok)
}
