package usecases

import (
	"strings"
	"testing"

	"project_armada/internal/entities"

	"github.com/stretchr/testify/assert"
)

func TestMenuKeyboard(t *testing.T) {
	kb := MenuKeyboard()
	assert.Len(t, kb, 4)
	assert.Equal(t, []string{entities.ColNomorLambung, entities.ColNopol}, kb[0])
	assert.Equal(t, []string{entities.ColNomorBan}, kb[3])
}

func TestMenuText_ListsEveryCategory(t *testing.T) {
	text := MenuText()
	for _, c := range entities.Categories {
		assert.Contains(t, text, "• "+c)
	}
}

func TestRecordText_FullTemplate(t *testing.T) {
	r := entities.Row{
		entities.ColNomorLambung:   "L-01",
		entities.ColCabang:         "Surabaya",
		entities.ColGolongan:       "III",
		entities.ColMerkType:       "Hino / FM260",
		entities.ColNopol:          "L 1234 AB",
		entities.ColPemakai:        "Slamet",
		entities.ColKilometer:      "120500",
		entities.ColTanggalAmbil:   "12/03/2024",
		entities.ColJenisKendaraan: "Tronton",
		entities.ColNomorBan:       "BN-778",
		entities.ColQty:            "2",
		entities.ColTypeBan:        "Radial",
		entities.ColKeteranganBan:  "Baru",
	}
	text := RecordText(r)
	lines := strings.Split(text, "\n")
	assert.Len(t, lines, 13)
	assert.Equal(t, "🚛 Nomor Lambung: L-01", lines[0])
	assert.Equal(t, "🚗 Merk: Hino / FM260", lines[3])
	assert.Equal(t, "📝 Keterangan Ban: Baru", lines[12])
}

func TestRecordText_MissingColumnsAreBlank(t *testing.T) {
	text := RecordText(entities.Row{entities.ColNopol: "B1"})
	assert.Contains(t, text, "👤 Pemakai: \n")
	assert.Contains(t, text, "🔢 Nopol: B1")
}

func TestMatchesText_Empty(t *testing.T) {
	assert.Equal(t, NotFoundText, MatchesText(nil))
}

func TestFilterRows_ExactNotSubstring(t *testing.T) {
	rows := []entities.Row{{entities.ColNopol: "B123"}, {entities.ColNopol: "B1234"}}
	got := FilterRows(rows, entities.ColNopol, "b123")
	assert.Len(t, got, 1)
	assert.Equal(t, "B123", got[0].Get(entities.ColNopol))
}

func TestListingText(t *testing.T) {
	text := ListingText("NOPOL", []string{"B1", "B2"})
	assert.Contains(t, text, "• B1\n• B2\n")
	assert.Contains(t, text, "Ketik /start untuk kembali ke menu.")

	empty := ListingText("NOPOL", nil)
	assert.Equal(t, NotFoundText+"\n\nKetik salah satu NOPOL di atas untuk melihat detail.\nKetik /start untuk kembali ke menu.", empty)
}
