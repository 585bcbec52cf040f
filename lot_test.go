package facet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_ParseLot(t *testing.T) {
	table := []struct {
		in  string
		lot Lot
		ok  bool
	}{
		{"saas", LotSaaS, true},
		{"SaaS", LotSaaS, true},
		{" paas ", LotPaaS, true},
		{"iaas", LotIaaS, true},
		{"scs", LotSCS, true},
		{"all", LotAll, true},
		{"saas,paas", "", false},
		{"xyz", "", false},
		{"", "", false},
	}

	for _, tt := range table {
		t.Run(tt.in, func(t *testing.T) {
			lot, ok := ParseLot(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.lot, lot)
		})
	}
}

func Test_ParseRealLot(t *testing.T) {
	_, ok := ParseRealLot("all")
	assert.False(t, ok)

	lot, ok := ParseRealLot("scs")
	assert.True(t, ok)
	assert.Equal(t, LotSCS, lot)
}

func Test_LotName(t *testing.T) {
	assert.Equal(t, "Software as a Service", LotSaaS.Name())
	assert.Equal(t, "Platform as a Service", LotPaaS.Name())
	assert.Equal(t, "Infrastructure as a Service", LotIaaS.Name())
	assert.Equal(t, "Specialist Cloud Services", LotSCS.Name())
	assert.Equal(t, "All categories", LotAll.Name())
}

func Test_ExpandLotAcronym(t *testing.T) {
	table := []struct {
		in   string
		name string
		ok   bool
	}{
		{"SaaS", "Software as a Service", true},
		{"PaaS", "Platform as a Service", true},
		{"IaaS", "Infrastructure as a Service", true},
		{"SCS", "Specialist Cloud Services", true},
		{"FooS", "", false},
	}

	for _, tt := range table {
		t.Run(tt.in, func(t *testing.T) {
			name, err := ExpandLotAcronym(tt.in)
			if tt.ok {
				assert.NoError(t, err)
				assert.Equal(t, tt.name, name)
			} else {
				assert.ErrorIs(t, err, ErrUnknownLot)
			}
		})
	}
}
