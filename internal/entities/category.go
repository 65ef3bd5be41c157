package entities

// Categories is the closed, ordered set of columns a user can search by.
var Categories = []string{
	ColNomorLambung,
	ColNopol,
	ColCabang,
	ColGolongan,
	ColPemakai,
	ColJenisKendaraan,
	ColNomorBan,
}

// IsCategory reports whether text is exactly one of the category labels.
// The comparison is case-sensitive; callers trim the text first.
func IsCategory(text string) bool {
	for _, c := range Categories {
		if c == text {
			return true
		}
	}
	return false
}
