package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultCertificatePrefix is the only prefix the business issues under.
const DefaultCertificatePrefix = "SJWI"

// Certificate is one issued heat treatment certificate. The numbering
// triple (prefix, fiscal_year, suffix) is assigned once at creation and
// guarded by a unique index; edits never touch it.
type Certificate struct {
	CertificateID       uuid.UUID `gorm:"column:certificate_id;type:uuid;primaryKey" json:"certificate_id"`
	CertificateNoPrefix string    `gorm:"column:certificate_no_prefix;type:varchar(10);not null;default:'SJWI';uniqueIndex:idx_certificate_number" json:"certificateNoPrefix"`
	FiscalYear          int       `gorm:"column:fiscal_year;not null;uniqueIndex:idx_certificate_number" json:"fiscalYear"`
	YearLabel           string    `gorm:"column:year_label;type:varchar(10);not null" json:"yearLabel"`
	Suffix              string    `gorm:"column:suffix;type:varchar(10);not null;uniqueIndex:idx_certificate_number" json:"suffix"`

	CertificateDate time.Time `gorm:"column:certificate_date;not null" json:"certificateDate"`
	DateOfTreatment time.Time `gorm:"column:date_of_treatment;not null" json:"dateOfTreatment"`

	CustomerName    string `gorm:"column:customer_name;not null" json:"customerName"`
	CustomerAddress string `gorm:"column:customer_address" json:"customerAddress"`

	TruckNo         string `gorm:"column:truck_no" json:"truckNo"`
	ContainerNumber string `gorm:"column:container_number" json:"containerNumber"`
	BatchNumber     string `gorm:"column:batch_number" json:"batchNumber"`
	SoNumber        string `gorm:"column:so_number" json:"soNumber"`
	QtyTreated      string `gorm:"column:qty_treated" json:"qtyTreated"`
	Country         string `gorm:"column:country" json:"country"`

	AttainingTimeMins       int     `gorm:"column:attaining_time_mins" json:"attainingTimeMins"`
	TotalTreatmentTimeMins  int     `gorm:"column:total_treatment_time_mins" json:"totalTreatmentTimeMins"`
	MoistureBeforeTreatment float64 `gorm:"column:moisture_before_treatment" json:"moistureBeforeTreatment"`
	MoistureAfterTreatment  float64 `gorm:"column:moisture_after_treatment" json:"moistureAfterTreatment"`
	Note                    string  `gorm:"column:note" json:"note"`

	Items []CertificateItem `gorm:"foreignKey:CertificateID;constraint:OnDelete:CASCADE" json:"items"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Certificate) TableName() string {
	return "Certificates"
}

// BeforeCreate sets UUID if not set (for DBs without gen_random_uuid).
func (c *Certificate) BeforeCreate(tx *gorm.DB) error {
	if c.CertificateID == uuid.Nil {
		c.CertificateID = uuid.New()
	}
	return nil
}

// CertificateNo composes the display number, e.g. "SJWI/2025-26/001".
func (c *Certificate) CertificateNo() string {
	return c.CertificateNoPrefix + "/" + c.YearLabel + "/" + c.Suffix
}

// CertificateItem links a certificate to an item, optionally overriding
// the item's material/size for display on this certificate only.
type CertificateItem struct {
	CertificateItemID uuid.UUID `gorm:"column:certificate_item_id;type:uuid;primaryKey" json:"certificate_item_id"`
	CertificateID     uuid.UUID `gorm:"column:certificate_id;type:uuid;not null;index" json:"-"`
	ItemID            uuid.UUID `gorm:"column:item_id;type:uuid;not null" json:"item_id"`
	Item              *Item     `gorm:"foreignKey:ItemID;references:ItemID" json:"item,omitempty"`
	MaterialOverride  string    `gorm:"column:material_override" json:"materialOverride"`
	SizeOverride      string    `gorm:"column:size_override" json:"sizeOverride"`
	Position          int       `gorm:"column:position;not null;default:0" json:"-"`
}

func (CertificateItem) TableName() string {
	return "CertificateItems"
}

func (ci *CertificateItem) BeforeCreate(tx *gorm.DB) error {
	if ci.CertificateItemID == uuid.Nil {
		ci.CertificateItemID = uuid.New()
	}
	return nil
}
