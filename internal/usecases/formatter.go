package usecases

import (
	"fmt"
	"sort"
	"strings"

	"project_armada/internal/entities"
)

// Fixed reply texts
const (
	NotFoundText      = "❌ Data tidak ditemukan"
	PromptStartText   = "Ketik /start untuk memulai."
	NotConfiguredText = "⚠️ Sumber data belum dikonfigurasi. Silakan hubungi admin."
	Divider           = "━━━━━━━━━━━━━━━━━━━━"
)

// recordFields is the order and labelling of a rendered record
var recordFields = []struct {
	Label  string
	Column string
}{
	{"🚛 Nomor Lambung", entities.ColNomorLambung},
	{"🏢 Cabang", entities.ColCabang},
	{"📂 Golongan", entities.ColGolongan},
	{"🚗 Merk", entities.ColMerkType},
	{"🔢 Nopol", entities.ColNopol},
	{"👤 Pemakai", entities.ColPemakai},
	{"📏 Kilometer", entities.ColKilometer},
	{"📅 Tanggal Ambil", entities.ColTanggalAmbil},
	{"🚙 Jenis Kendaraan", entities.ColJenisKendaraan},
	{"🛞 Nomor Ban", entities.ColNomorBan},
	{"📦 Qty", entities.ColQty},
	{"🏷️ Type Ban", entities.ColTypeBan},
	{"📝 Keterangan Ban", entities.ColKeteranganBan},
}

// MenuText is the greeting shown on /start
func MenuText() string {
	var sb strings.Builder
	sb.WriteString("Halo! 👋 Selamat datang di bot data ban armada.\n\n")
	sb.WriteString("Pilih kategori pencarian:\n")
	for _, c := range entities.Categories {
		sb.WriteString("• " + c + "\n")
	}
	sb.WriteString("\nKetik atau tekan salah satu kategori di atas.")
	return sb.String()
}

// MenuKeyboard lays the categories out two per row
func MenuKeyboard() [][]string {
	var rows [][]string
	var row []string
	for i, c := range entities.Categories {
		row = append(row, c)
		if (i+1)%2 == 0 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return rows
}

// DistinctValues returns the sorted, de-duplicated, non-blank trimmed values of col
func DistinctValues(rows []entities.Row, col string) []string {
	seen := make(map[string]struct{})
	for _, r := range rows {
		v := strings.TrimSpace(r.Get(col))
		if v == "" {
			continue
		}
		seen[v] = struct{}{}
	}
	values := make([]string, 0, len(seen))
	for v := range seen {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

// FilterRows keeps rows whose trimmed col value equals query, ignoring case
func FilterRows(rows []entities.Row, col, query string) []entities.Row {
	query = strings.TrimSpace(query)
	var out []entities.Row
	for _, r := range rows {
		if strings.EqualFold(strings.TrimSpace(r.Get(col)), query) {
			out = append(out, r)
		}
	}
	return out
}

// ListingText renders the distinct values of a category followed by the usage hint.
// An empty column renders the not-found line in place of the list.
func ListingText(category string, values []string) string {
	var sb strings.Builder
	if len(values) == 0 {
		sb.WriteString(NotFoundText + "\n")
	} else {
		sb.WriteString(fmt.Sprintf("📋 Daftar %s:\n\n", category))
		for _, v := range values {
			sb.WriteString("• " + v + "\n")
		}
	}
	sb.WriteString(fmt.Sprintf("\nKetik salah satu %s di atas untuk melihat detail.\n", category))
	sb.WriteString("Ketik /start untuk kembali ke menu.")
	return sb.String()
}

// RecordText renders one row with the full record template
func RecordText(r entities.Row) string {
	lines := make([]string, 0, len(recordFields))
	for _, f := range recordFields {
		lines = append(lines, fmt.Sprintf("%s: %s", f.Label, strings.TrimSpace(r.Get(f.Column))))
	}
	return strings.Join(lines, "\n")
}

// MatchesText renders every matched row, each followed by a divider line
func MatchesText(rows []entities.Row) string {
	if len(rows) == 0 {
		return NotFoundText
	}
	var sb strings.Builder
	for i, r := range rows {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(RecordText(r))
		sb.WriteString("\n" + Divider)
	}
	return sb.String()
}
