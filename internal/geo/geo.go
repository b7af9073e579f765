// Package geo serves the static Cambodian administrative-area reference
// data: provinces, districts, communes and villages linked by parent codes.
// Provinces additionally carry centroid coordinates used by the
// distance-based delivery fee.
package geo

import (
	"embed"
	"encoding/json"
	"fmt"
	"sync"
)

//go:embed data/*.json
var dataFS embed.FS

type Province struct {
	Code      string  `json:"code"`
	NameEN    string  `json:"name_en"`
	NameKH    string  `json:"name_kh"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type District struct {
	Code         string `json:"code"`
	NameEN       string `json:"name_en"`
	NameKH       string `json:"name_kh"`
	ProvinceCode string `json:"province_code"`
}

type Commune struct {
	Code         string `json:"code"`
	NameEN       string `json:"name_en"`
	NameKH       string `json:"name_kh"`
	DistrictCode string `json:"district_code"`
}

type Village struct {
	Code        string `json:"code"`
	NameEN      string `json:"name_en"`
	NameKH      string `json:"name_kh"`
	CommuneCode string `json:"commune_code"`
}

var (
	loadOnce  sync.Once
	provinces []Province
	districts []District
	communes  []Commune
	villages  []Village
)

func load() {
	loadOnce.Do(func() {
		mustDecode("data/provinces.json", &provinces)
		mustDecode("data/districts.json", &districts)
		mustDecode("data/communes.json", &communes)
		mustDecode("data/villages.json", &villages)
	})
}

func mustDecode(name string, out any) {
	raw, err := dataFS.ReadFile(name)
	if err != nil {
		panic(fmt.Sprintf("geo: read %s: %v", name, err))
	}
	if err := json.Unmarshal(raw, out); err != nil {
		panic(fmt.Sprintf("geo: decode %s: %v", name, err))
	}
}

// Provinces returns all provinces.
func Provinces() []Province {
	load()
	return provinces
}

// ProvinceByCode looks up a province record.
func ProvinceByCode(code string) (Province, bool) {
	load()
	for _, p := range provinces {
		if p.Code == code {
			return p, true
		}
	}
	return Province{}, false
}

// ProvinceCentroid returns the centroid coordinates for a province code.
func ProvinceCentroid(code string) (lat, lng float64, ok bool) {
	p, found := ProvinceByCode(code)
	if !found {
		return 0, 0, false
	}
	return p.Latitude, p.Longitude, true
}

// Districts returns the districts belonging to a province.
func Districts(provinceCode string) []District {
	load()
	out := make([]District, 0)
	for _, d := range districts {
		if d.ProvinceCode == provinceCode {
			out = append(out, d)
		}
	}
	return out
}

// Communes returns the communes belonging to a district.
func Communes(districtCode string) []Commune {
	load()
	out := make([]Commune, 0)
	for _, c := range communes {
		if c.DistrictCode == districtCode {
			out = append(out, c)
		}
	}
	return out
}

// Villages returns the villages belonging to a commune.
func Villages(communeCode string) []Village {
	load()
	out := make([]Village, 0)
	for _, v := range villages {
		if v.CommuneCode == communeCode {
			out = append(out, v)
		}
	}
	return out
}
