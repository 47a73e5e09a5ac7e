package pdf

import (
	"time"

	"sjwi-backend/internal/models"
)

// ItemView is one resolved item row for the certificate table: code from
// the referenced item, material/size preferring the per-certificate
// override over the item defaults.
type ItemView struct {
	Code     string
	Material string
	Size     string
}

// CertificateView is the fully resolved view model handed to the
// template. All dates are pre-formatted display strings.
type CertificateView struct {
	CertificateNo   string
	CertificateDate string
	Year            string
	CustomerName    string
	CustomerAddress string
	Items           []ItemView

	QtyTreated      string
	TruckNo         string
	BatchNumber     string
	SoNumber        string
	ContainerNumber string
	Country         string
	Note            string
	DateOfTreatment string

	AttainingTimeMins       int
	TotalTreatmentTimeMins  int
	MoistureBeforeTreatment float64
	MoistureAfterTreatment  float64

	IncludeHeader bool
}

// FormatDate renders a date the way the printed certificate shows it,
// e.g. "11 June 2025". Zero dates render empty.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02 January 2006")
}

// BuildView resolves a stored certificate into its print view. The
// customer record, when found, supplies the address of record; the
// denormalized copy on the certificate is the fallback.
func BuildView(cert *models.Certificate, customer *models.Customer, includeHeader bool) CertificateView {
	address := cert.CustomerAddress
	if customer != nil && customer.Address != "" {
		address = customer.Address
	}
	view := CertificateView{
		CertificateNo:           cert.CertificateNo(),
		CertificateDate:         FormatDate(cert.CertificateDate),
		Year:                    cert.YearLabel,
		CustomerName:            cert.CustomerName,
		CustomerAddress:         address,
		QtyTreated:              cert.QtyTreated,
		TruckNo:                 cert.TruckNo,
		BatchNumber:             cert.BatchNumber,
		SoNumber:                cert.SoNumber,
		ContainerNumber:         cert.ContainerNumber,
		Country:                 cert.Country,
		Note:                    cert.Note,
		DateOfTreatment:         FormatDate(cert.DateOfTreatment),
		AttainingTimeMins:       cert.AttainingTimeMins,
		TotalTreatmentTimeMins:  cert.TotalTreatmentTimeMins,
		MoistureBeforeTreatment: cert.MoistureBeforeTreatment,
		MoistureAfterTreatment:  cert.MoistureAfterTreatment,
		IncludeHeader:           includeHeader,
	}
	for _, entry := range cert.Items {
		row := ItemView{
			Material: entry.MaterialOverride,
			Size:     entry.SizeOverride,
		}
		if entry.Item != nil {
			row.Code = entry.Item.Code
			if row.Material == "" {
				row.Material = entry.Item.Material
			}
			if row.Size == "" {
				row.Size = entry.Item.Size
			}
		}
		view.Items = append(view.Items, row)
	}
	return view
}
