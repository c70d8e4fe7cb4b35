package validation

import "strings"

var provinces = []string{
	"ACEH", "SUMATERA UTARA", "SUMATERA BARAT", "RIAU", "JAMBI", "SUMATERA SELATAN", "BENGKULU", "LAMPUNG",
	"KEPULAUAN BANGKA BELITUNG", "KEPULAUAN RIAU", "DKI JAKARTA", "JAWA BARAT", "JAWA TENGAH", "DI YOGYAKARTA",
	"JAWA TIMUR", "BANTEN", "BALI", "NUSA TENGGARA BARAT", "NUSA TENGGARA TIMUR", "KALIMANTAN BARAT",
	"KALIMANTAN TENGAH", "KALIMANTAN SELATAN", "KALIMANTAN TIMUR", "KALIMANTAN UTARA", "SULAWESI UTARA",
	"SULAWESI TENGAH", "SULAWESI SELATAN", "SULAWESI TENGGARA", "GORONTALO", "SULAWESI BARAT", "MALUKU",
	"MALUKU UTARA", "PAPUA BARAT", "PAPUA BARAT DAYA", "PAPUA", "PAPUA SELATAN", "PAPUA TENGAH", "PAPUA PEGUNUNGAN",
}

var provinceSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(provinces))
	for _, p := range provinces {
		set[p] = struct{}{}
	}
	return set
}()

// IsProvince matches case-insensitively and ignores surrounding spaces.
func IsProvince(name string) bool {
	_, ok := provinceSet[strings.ToUpper(strings.TrimSpace(name))]
	return ok
}

func Provinces() []string {
	out := make([]string, len(provinces))
	copy(out, provinces)
	return out
}
