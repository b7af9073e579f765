package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvincesLoaded(t *testing.T) {
	provinces := Provinces()
	require.Len(t, provinces, 25)

	for _, p := range provinces {
		assert.NotEmpty(t, p.Code)
		assert.NotEmpty(t, p.NameEN)
		assert.NotEmpty(t, p.NameKH)
		assert.NotZero(t, p.Latitude)
		assert.NotZero(t, p.Longitude)
	}
}

func TestProvinceByCode(t *testing.T) {
	p, ok := ProvinceByCode("12")
	require.True(t, ok)
	assert.Equal(t, "Phnom Penh", p.NameEN)

	_, ok = ProvinceByCode("99")
	assert.False(t, ok)
}

func TestProvinceCentroid(t *testing.T) {
	lat, lng, ok := ProvinceCentroid("12")
	require.True(t, ok)
	assert.InDelta(t, 11.55, lat, 0.2)
	assert.InDelta(t, 104.92, lng, 0.2)

	_, _, ok = ProvinceCentroid("nope")
	assert.False(t, ok)
}

func TestHierarchyLinks(t *testing.T) {
	districts := Districts("12")
	require.NotEmpty(t, districts)
	for _, d := range districts {
		assert.Equal(t, "12", d.ProvinceCode)
	}

	communes := Communes(districts[0].Code)
	require.NotEmpty(t, communes)
	for _, c := range communes {
		assert.Equal(t, districts[0].Code, c.DistrictCode)
	}

	villages := Villages(communes[0].Code)
	require.NotEmpty(t, villages)
	for _, v := range villages {
		assert.Equal(t, communes[0].Code, v.CommuneCode)
	}
}

func TestUnknownParentYieldsEmptySlice(t *testing.T) {
	assert.Empty(t, Districts("99"))
	assert.NotNil(t, Districts("99"))
	assert.Empty(t, Communes("9999"))
	assert.Empty(t, Villages("999999"))
}
