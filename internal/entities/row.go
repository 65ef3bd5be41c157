package entities

// Column names as they appear in the sheet header row
const (
	ColNomorLambung   = "NOMOR LAMBUNG"
	ColCabang         = "CABANG"
	ColGolongan       = "GOLONGAN"
	ColMerkType       = "MERK//TYPE"
	ColNopol          = "NOPOL"
	ColPemakai        = "PEMAKAI"
	ColKilometer      = "KILOMETER"
	ColTanggalAmbil   = "TANGGAL AMBIL"
	ColJenisKendaraan = "JENIS KENDARAAN"
	ColNomorBan       = "NOMOR BAN"
	ColQty            = "QTY"
	ColTypeBan        = "TYPE BAN"
	ColKeteranganBan  = "KETERANGAN BAN"
)

// Row is one vehicle/tire record keyed by column name
type Row map[string]string

// Get returns the cell for col, or "" when the column is missing
func (r Row) Get(col string) string {
	return r[col]
}

// Columns lists the known sheet columns in sheet order
var Columns = []string{
	ColNomorLambung, ColCabang, ColGolongan, ColMerkType, ColNopol, ColPemakai, ColKilometer,
	ColTanggalAmbil, ColJenisKendaraan, ColNomorBan, ColQty, ColTypeBan, ColKeteranganBan,
}
