package domain

// Request and response shapes. JSON keys are the ones the desktop client uses.

// MessageResponse is the plain acknowledgement body
type MessageResponse struct {
	Message string `json:"message"`
}

// Clients

type ClientDTO struct {
	ID         string  `json:"id"`
	Nume       string  `json:"nume"`
	Telefon    string  `json:"telefon"`
	Adresa     string  `json:"adresa"`
	Judet      string  `json:"judet"`
	Localitate string  `json:"localitate"`
	CNP        *string `json:"cnp"`
	CreatedAt  string  `json:"created_at"`
}

type CreateClientRequest struct {
	Nume       string  `json:"nume" validate:"required,max=200"`
	Telefon    string  `json:"telefon" validate:"required,numeric,max=30"`
	Adresa     string  `json:"adresa" validate:"max=500"`
	Judet      string  `json:"judet" validate:"required,max=100"`
	Localitate string  `json:"localitate" validate:"required,max=100"`
	CNP        *string `json:"cnp" validate:"omitempty,numeric,len=13"`
}

type UpdateClientRequest struct {
	Nume       *string `json:"nume" validate:"omitempty,min=1,max=200"`
	Telefon    *string `json:"telefon" validate:"omitempty,numeric,max=30"`
	Adresa     *string `json:"adresa" validate:"omitempty,max=500"`
	Judet      *string `json:"judet" validate:"omitempty,min=1,max=100"`
	Localitate *string `json:"localitate" validate:"omitempty,min=1,max=100"`
	CNP        *string `json:"cnp" validate:"omitempty,numeric,len=13"`
}

// Vehicles

type VehicleDTO struct {
	ID                 string `json:"id"`
	ClientID           string `json:"client_id"`
	Marca              string `json:"marca"`
	Model              string `json:"model"`
	An                 string `json:"an"`
	VIN                string `json:"vin"`
	NumarInmatriculare string `json:"numar_inmatriculare"`
	ImageURL           string `json:"image_url,omitempty"`
	CreatedAt          string `json:"created_at"`
}

// VehicleSearchResultDTO is a vehicle with its owner's name attached
type VehicleSearchResultDTO struct {
	VehicleDTO
	ClientName string `json:"client_name"`
}

type CreateVehicleRequest struct {
	ClientID           string `json:"client_id" validate:"required,uuid"`
	Marca              string `json:"marca" validate:"max=100"`
	Model              string `json:"model" validate:"max=100"`
	An                 string `json:"an" validate:"max=10"`
	VIN                string `json:"vin" validate:"max=50"`
	NumarInmatriculare string `json:"numar_inmatriculare" validate:"max=20"`
	ImageURL           string `json:"image_url" validate:"omitempty,url"`
}

// UpdateVehicleRequest requires every descriptive field to be present
type UpdateVehicleRequest struct {
	Marca              *string `json:"marca" validate:"required,max=100"`
	Model              *string `json:"model" validate:"required,max=100"`
	An                 *string `json:"an" validate:"required,max=10"`
	VIN                *string `json:"vin" validate:"required,max=50"`
	NumarInmatriculare *string `json:"numar_inmatriculare" validate:"required,max=20"`
	ImageURL           *string `json:"image_url" validate:"omitempty"`
}

// Offers

// CategoryDTO groups the product rows of one offer category
type CategoryDTO struct {
	Products   []ProductRow `json:"products"`
	TotalPrice float64      `json:"total_price"`
}

type OfferDTO struct {
	ID           string                 `json:"id"`
	OfferNumber  string                 `json:"offer_number"`
	ClientID     string                 `json:"client_id"`
	ClientName   string                 `json:"client_name,omitempty"`
	VehicleID    *string                `json:"vehicle_id"`
	Date         string                 `json:"date"`
	Status       string                 `json:"status"`
	Observations string                 `json:"observations"`
	Categories   map[string]CategoryDTO `json:"categories"`
	CreatedAt    string                 `json:"created_at"`
}

type CreateOfferRequest struct {
	ClientID     string                 `json:"client_id"`
	VehicleID    string                 `json:"vehicle_id"`
	OfferNumber  string                 `json:"offer_number"`
	Categories   map[string]CategoryDTO `json:"categories"`
	Status       string                 `json:"status"`
	Observations string                 `json:"observations"`
	Date         string                 `json:"date"`
}

type CreateOfferResponse struct {
	Message     string `json:"message"`
	OfferID     string `json:"offer_id"`
	OfferNumber string `json:"offer_number"`
}

type UpdateOfferRequest struct {
	VehicleID    *string                `json:"vehicle_id"`
	Status       *string                `json:"status"`
	Observations *string                `json:"observations"`
	Date         *string                `json:"date"`
	Categories   map[string]CategoryDTO `json:"categories"`
}

type UpdateOfferStatusRequest struct {
	OfferNumber string `json:"offer_number"`
	NewStatus   string `json:"new_status"`
}

type HighestOfferNumberDTO struct {
	HighestOfferNumber string `json:"highest_offer_number"`
}

// Orders

type OrderProductDTO struct {
	ID             string  `json:"id"`
	OrderID        string  `json:"order_id"`
	Produs         string  `json:"produs"`
	Brand          string  `json:"brand"`
	CodProdus      string  `json:"cod_produs"`
	Cantitate      int     `json:"cantitate"`
	PretUnitar     float64 `json:"pret_unitar"`
	PretTotal      float64 `json:"pret_total"`
	Discount       float64 `json:"discount"`
	PretCuDiscount float64 `json:"pret_cu_discount"`
}

// OrderPaymentDTO is a payment as listed under its order
type OrderPaymentDTO struct {
	ID           string  `json:"id"`
	OrderID      string  `json:"order_id"`
	Amount       float64 `json:"amount"`
	Date         string  `json:"date"`
	RecordedBy   string  `json:"recorded_by"`
	Observations string  `json:"observations"`
}

type OrderDTO struct {
	ID                string            `json:"id"`
	OrderNumber       string            `json:"order_number"`
	ClientID          string            `json:"client_id"`
	VehicleID         *string           `json:"vehicle_id"`
	Date              string            `json:"date"`
	Observations      string            `json:"observations"`
	SourceOfferNumber string            `json:"source_offer_number"`
	SourceCategory    string            `json:"source_category"`
	Status            string            `json:"status"`
	FulfillmentStatus FulfillmentStatus `json:"fulfillment_status"`
	PaymentStatus     PaymentStatus     `json:"payment_status"`
	CreatedAt         string            `json:"created_at"`
	Products          []OrderProductDTO `json:"products"`
	Payments          []OrderPaymentDTO `json:"payments"`
	Total             float64           `json:"total"`
	Paid              float64           `json:"paid"`
	Balance           float64           `json:"balance"`
}

// OrderDetailDTO is the shape read by the edit-order window
type OrderDetailDTO struct {
	ID           string            `json:"id"`
	ClientID     string            `json:"client_id"`
	ClientName   string            `json:"client_name"`
	Vehicle      string            `json:"vehicle"`
	OrderNumber  string            `json:"order_number"`
	OrderDate    string            `json:"order_date"`
	Observations string            `json:"observations"`
	Status       string            `json:"status"`
	AmountPaid   float64           `json:"amount_paid"`
	TotalAmount  float64           `json:"total_amount"`
	Balance      float64           `json:"balance"`
	Products     []OrderProductDTO `json:"products"`
}

type CreateOrderRequest struct {
	OfferNumber      string      `json:"offer_number" validate:"required"`
	SelectedCategory string      `json:"selected_category" validate:"required"`
	Status           string      `json:"status"`
	AmountPaid       FlexDecimal `json:"amount_paid"`
	Observations     string      `json:"observations"`
	Date             string      `json:"date"`
	OrderNumber      string      `json:"order_number"`
}

type CreateOrderResponse struct {
	Message     string `json:"message"`
	OrderID     string `json:"order_id"`
	OrderNumber string `json:"order_number"`
	Status      string `json:"status"`
}

type UpdateOrderRequest struct {
	Observations *string      `json:"observations"`
	Status       *string      `json:"status"`
	AmountPaid   *FlexDecimal `json:"amount_paid"`
}

type HighestOrderNumberDTO struct {
	HighestOrderNumber string `json:"highest_order_number"`
}

// ProductMatchDTO is an order line found by the global product search
type ProductMatchDTO struct {
	OrderProductDTO
	OrderNumber string `json:"order_number"`
	ClientID    string `json:"client_id"`
	Nume        string `json:"nume"`
}

// Payments

type CreatePaymentRequest struct {
	ClientID     string      `json:"client_id" validate:"omitempty,uuid"`
	OrderID      string      `json:"order_id" validate:"required,uuid"`
	Amount       FlexDecimal `json:"amount"`
	Observations string      `json:"observations"`
	RecordedBy   string      `json:"recorded_by" validate:"max=100"`
}

type PaymentResultDTO struct {
	Message string  `json:"message"`
	Status  string  `json:"status"`
	Paid    float64 `json:"paid"`
	Total   float64 `json:"total"`
	Balance float64 `json:"balance"`
}

// PaymentListItemDTO is a row of the payments register
type PaymentListItemDTO struct {
	ID            string  `json:"id"`
	Data          string  `json:"data"`
	Client        string  `json:"client"`
	Comanda       string  `json:"comanda"`
	Suma          float64 `json:"suma"`
	InregistratDe string  `json:"inregistrat_de"`
	Observations  string  `json:"observations"`
}

// Returns

type ReturnableItemDTO struct {
	ID          string  `json:"id"`
	Produs      string  `json:"produs"`
	Brand       string  `json:"brand"`
	CodProdus   string  `json:"cod_produs"`
	Cantitate   int     `json:"cantitate"`
	PretUnitar  float64 `json:"pret_unitar"`
	Discount    float64 `json:"discount"`
	EligibleQty int     `json:"eligible_qty"`
}

type CreateReturnRequest struct {
	OrderProductID string  `json:"order_product_id"`
	ReturnQty      FlexInt `json:"return_qty"`
	Notes          string  `json:"notes"`
}

type ReturnResultDTO struct {
	Message string  `json:"message"`
	Refund  float64 `json:"refund"`
}

// Reports

type ClientTotalsDTO struct {
	TotalCheltuit float64 `json:"total_cheltuit"`
	DePlatit      float64 `json:"de_platit"`
	Sold          float64 `json:"sold"`
	TotalComenzi  int     `json:"total_comenzi"`
}

type SalesReportRowDTO struct {
	Localitate   string  `json:"localitate"`
	Judet        string  `json:"judet"`
	NrComenzi    int     `json:"nr_comenzi"`
	TotalVanzari float64 `json:"total_vanzari"`
}

type TopClientDTO struct {
	Nume          string  `json:"nume"`
	NrComenzi     int     `json:"nr_comenzi"`
	TotalCheltuit float64 `json:"total_cheltuit"`
}

type DebtDTO struct {
	Nume         string  `json:"nume"`
	Telefon      string  `json:"telefon"`
	Adresa       string  `json:"adresa"`
	SumaDatorata float64 `json:"suma_datorata"`
	Vehicul      string  `json:"vehicul"`
}

// Universal search

type SearchOrderRef struct {
	ID          string `json:"id"`
	OrderNumber string `json:"order_number"`
}

type SearchOfferRef struct {
	ID          string `json:"id"`
	OfferNumber string `json:"offer_number"`
}

type SearchClientRef struct {
	ID      string `json:"id"`
	Nume    string `json:"nume"`
	Telefon string `json:"telefon"`
}

type SearchVehicleRef struct {
	Marca              string `json:"marca"`
	Model              string `json:"model"`
	NumarInmatriculare string `json:"numar_inmatriculare"`
	VIN                string `json:"vin"`
	An                 string `json:"an"`
}

// SearchLine is the product part of a product search hit
type SearchLine struct {
	Produs         string  `json:"produs"`
	Brand          string  `json:"brand"`
	CodProdus      string  `json:"cod_produs"`
	Cantitate      int     `json:"cantitate"`
	PretUnitar     float64 `json:"pret_unitar"`
	PretTotal      float64 `json:"pret_total"`
	Discount       float64 `json:"discount"`
	PretCuDiscount float64 `json:"pret_cu_discount"`
}

type OrderProductHitDTO struct {
	Order        SearchOrderRef   `json:"order"`
	Client       SearchClientRef  `json:"client"`
	Vehicle      SearchVehicleRef `json:"vehicle"`
	OrderProduct SearchLine       `json:"order_product"`
}

type OfferProductHitDTO struct {
	Offer        SearchOfferRef   `json:"offer"`
	Client       SearchClientRef  `json:"client"`
	Vehicle      SearchVehicleRef `json:"vehicle"`
	OfferProduct SearchLine       `json:"offer_product"`
}

// Auth

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Message   string `json:"message"`
	UserID    string `json:"user_id"`
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

// CurrentUserDTO describes the caller of /auth/me
type CurrentUserDTO struct {
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
	Anonymous   bool   `json:"anonymous"`
}

// Geo

type LocalityMatchDTO struct {
	Judet      string `json:"judet"`
	Localitate string `json:"localitate"`
}

// Audit

type AuditLogDTO struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id,omitempty"`
	Username    string `json:"username,omitempty"`
	Method      string `json:"method"`
	Path        string `json:"path"`
	StatusCode  int    `json:"status_code"`
	RequestID   string `json:"request_id,omitempty"`
	IPAddress   string `json:"ip_address,omitempty"`
	Body        string `json:"body,omitempty"`
	DurationMs  int64  `json:"duration_ms"`
	PerformedAt string `json:"performed_at"`
}

// Documents

type VehicleDocumentDTO struct {
	ID          string `json:"id"`
	VehicleID   string `json:"vehicle_id"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	URL         string `json:"url"`
	CreatedAt   string `json:"created_at"`
}
