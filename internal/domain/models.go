package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BaseModel carries the uuid primary key and timestamps shared by every table
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// BeforeCreate assigns the id client-side so rows can be linked before insert
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// Client is a shop customer
type Client struct {
	BaseModel
	Name     string  `gorm:"type:varchar(200);not null;index"`
	Phone    string  `gorm:"type:varchar(30);not null"`
	Address  string  `gorm:"type:text"`
	County   string  `gorm:"type:varchar(100);not null"`
	Locality string  `gorm:"type:varchar(100);not null"`
	CNP      *string `gorm:"type:varchar(13);column:cnp"`
}

// Vehicle belongs to a client
type Vehicle struct {
	BaseModel
	ClientID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Client       *Client   `gorm:"foreignKey:ClientID"`
	Make         string    `gorm:"type:varchar(100)"`
	Model        string    `gorm:"type:varchar(100)"`
	Year         string    `gorm:"type:varchar(10)"`
	VIN          string    `gorm:"type:varchar(50);column:vin;index"`
	Registration string    `gorm:"type:varchar(20);index"`
	ImageURL     string    `gorm:"type:varchar(1000);column:image_url"`
}

// VehicleDocument is a stored registration document for a vehicle
type VehicleDocument struct {
	BaseModel
	VehicleID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Filename    string    `gorm:"type:varchar(255);not null"`
	ContentType string    `gorm:"type:varchar(100);not null"`
	Size        int64     `gorm:"not null"`
	StoragePath string    `gorm:"type:varchar(500);not null;uniqueIndex"`
}

// Offer statuses used by the desktop client. Other free-text values are kept as-is.
const (
	OfferStatusPending  = "Ofertă (în așteptare)"
	OfferStatusAccepted = "Acceptată"
	OfferStatusRejected = "Respinsă"
)

// Offer is a priced proposal grouped into categories of product lines
type Offer struct {
	BaseModel
	OfferNumber  string         `gorm:"type:varchar(50);not null;uniqueIndex"`
	ClientID     uuid.UUID      `gorm:"type:uuid;not null;index"`
	Client       *Client        `gorm:"foreignKey:ClientID"`
	VehicleID    *uuid.UUID     `gorm:"type:uuid;index"`
	Vehicle      *Vehicle       `gorm:"foreignKey:VehicleID"`
	Date         time.Time      `gorm:"type:date;not null"`
	Status       string         `gorm:"type:varchar(100);not null"`
	Observations string         `gorm:"type:text"`
	Products     []OfferProduct `gorm:"foreignKey:OfferID"`
}

// OfferProduct is one priced line of an offer inside a category
type OfferProduct struct {
	BaseModel
	OfferID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	Category        string          `gorm:"type:varchar(200);not null"`
	Position        int             `gorm:"not null;default:0"`
	Name            string          `gorm:"type:varchar(300)"`
	Brand           string          `gorm:"type:varchar(200)"`
	Code            string          `gorm:"type:varchar(100)"`
	Quantity        int             `gorm:"not null"`
	UnitPrice       decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	TotalPrice      decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	DiscountPct     decimal.Decimal `gorm:"type:numeric(5,2);not null"`
	DiscountedPrice decimal.Decimal `gorm:"type:numeric(12,2);not null"`
}

// Order is created from one category of an offer
type Order struct {
	BaseModel
	OrderNumber       string            `gorm:"type:varchar(50);not null;uniqueIndex"`
	ClientID          uuid.UUID         `gorm:"type:uuid;not null;index"`
	Client            *Client           `gorm:"foreignKey:ClientID"`
	VehicleID         *uuid.UUID        `gorm:"type:uuid;index"`
	Vehicle           *Vehicle          `gorm:"foreignKey:VehicleID"`
	Date              time.Time         `gorm:"type:date;not null"`
	Observations      string            `gorm:"type:text"`
	SourceOfferNumber string            `gorm:"type:varchar(50)"`
	SourceCategory    string            `gorm:"type:varchar(200)"`
	FulfillmentStatus FulfillmentStatus `gorm:"type:varchar(20);not null;default:'ordered'"`
	PaymentStatus     PaymentStatus     `gorm:"type:varchar(20);not null;default:'unpaid';index"`
	Products          []OrderProduct    `gorm:"foreignKey:OrderID"`
	Payments          []Payment         `gorm:"foreignKey:OrderID"`
}

// OrderProduct is an immutable line copied from an offer line
type OrderProduct struct {
	BaseModel
	OrderID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position        int             `gorm:"not null;default:0"`
	Name            string          `gorm:"type:varchar(300)"`
	Brand           string          `gorm:"type:varchar(200)"`
	Code            string          `gorm:"type:varchar(100);index"`
	Quantity        int             `gorm:"not null"`
	UnitPrice       decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	TotalPrice      decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	DiscountPct     decimal.Decimal `gorm:"type:numeric(5,2);not null"`
	DiscountedPrice decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Returns         []Return        `gorm:"foreignKey:OrderProductID"`
}

// Payment is an append-only amount paid against an order
type Payment struct {
	BaseModel
	ClientID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	OrderID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount       decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Date         time.Time       `gorm:"not null"`
	RecordedBy   string          `gorm:"type:varchar(100);not null;default:'admin'"`
	Observations string          `gorm:"type:text"`
}

// Return records returned units of one order line and the refund owed for them
type Return struct {
	BaseModel
	OrderProductID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ReturnQty      int             `gorm:"not null"`
	UnitPrice      decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	DiscountPct    decimal.Decimal `gorm:"type:numeric(5,2);not null"`
	TotalRefund    decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Notes          string          `gorm:"type:text"`
}

// TableName keeps the historical table name
func (Return) TableName() string {
	return "return_products"
}

// User roles
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// User is a shop operator account
type User struct {
	BaseModel
	Username     string `gorm:"type:varchar(100);not null;uniqueIndex"`
	PasswordHash string `gorm:"type:varchar(255);not null"`
	DisplayName  string `gorm:"type:varchar(200)"`
	Role         string `gorm:"type:varchar(20);not null;default:'staff'"`
}

// TableName keeps the historical table name
func (User) TableName() string {
	return "profiles"
}

// Number sequence kinds
const (
	SequenceOffer = "offer"
	SequenceOrder = "order"
)

// NumberSequence tracks the last number handed out per document kind
type NumberSequence struct {
	Kind       string    `gorm:"type:varchar(20);primaryKey"`
	LastNumber int       `gorm:"not null;default:0"`
	UpdatedAt  time.Time `gorm:"not null"`
}

// AuditLog is one recorded mutating request
type AuditLog struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID      string    `gorm:"type:varchar(100);index"`
	Username    string    `gorm:"type:varchar(100)"`
	Method      string    `gorm:"type:varchar(10);not null"`
	Path        string    `gorm:"type:varchar(500);not null"`
	StatusCode  int       `gorm:"not null"`
	RequestID   string    `gorm:"type:varchar(100)"`
	IPAddress   string    `gorm:"type:varchar(64)"`
	UserAgent   string    `gorm:"type:text"`
	Body        string    `gorm:"type:text"`
	DurationMs  int64     `gorm:"not null;default:0"`
	PerformedAt time.Time `gorm:"not null;index"`
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// LedgerExport records one run of the accounting warehouse export.
// The next run starts shortly before the last successful ExportedUntil.
type LedgerExport struct {
	BaseModel
	ExportedUntil time.Time `gorm:"not null;index"`
	Entries       int       `gorm:"not null;default:0"`
	Success       bool      `gorm:"not null;default:false"`
	Error         string    `gorm:"type:text"`
}
