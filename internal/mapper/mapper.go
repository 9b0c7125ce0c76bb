package mapper

import (
	"fmt"
	"sort"

	"github.com/autoshop/shop-api/internal/domain"
	"github.com/autoshop/shop-api/internal/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	timestampLayout = "2006-01-02T15:04:05Z"
	dateLayout      = "2006-01-02"
)

// ToClientDTO converts Client to ClientDTO
func ToClientDTO(client *domain.Client) domain.ClientDTO {
	return domain.ClientDTO{
		ID:         client.ID.String(),
		Nume:       client.Name,
		Telefon:    client.Phone,
		Adresa:     client.Address,
		Judet:      client.County,
		Localitate: client.Locality,
		CNP:        client.CNP,
		CreatedAt:  client.CreatedAt.UTC().Format(timestampLayout),
	}
}

// ToVehicleDTO converts Vehicle to VehicleDTO
func ToVehicleDTO(vehicle *domain.Vehicle) domain.VehicleDTO {
	return domain.VehicleDTO{
		ID:                 vehicle.ID.String(),
		ClientID:           vehicle.ClientID.String(),
		Marca:              vehicle.Make,
		Model:              vehicle.Model,
		An:                 vehicle.Year,
		VIN:                vehicle.VIN,
		NumarInmatriculare: vehicle.Registration,
		ImageURL:           vehicle.ImageURL,
		CreatedAt:          vehicle.CreatedAt.UTC().Format(timestampLayout),
	}
}

// VehicleLabel renders "marca model (nr)" as shown in order and debt screens
func VehicleLabel(vehicle *domain.Vehicle) string {
	if vehicle == nil {
		return " ()"
	}
	return fmt.Sprintf("%s %s (%s)", vehicle.Make, vehicle.Model, vehicle.Registration)
}

// ToProductRow converts an offer line to the positional row format
func ToProductRow(p *domain.OfferProduct) domain.ProductRow {
	return domain.ProductRow{
		Produs:         p.Name,
		Brand:          p.Brand,
		CodProdus:      p.Code,
		Cantitate:      p.Quantity,
		PretUnitar:     p.UnitPrice,
		PretTotal:      p.TotalPrice,
		Discount:       p.DiscountPct,
		PretCuDiscount: p.DiscountedPrice,
	}
}

// FromProductRow converts a positional row into an offer line of category
func FromProductRow(category string, row domain.ProductRow) domain.OfferProduct {
	return domain.OfferProduct{
		Category:        category,
		Name:            row.Produs,
		Brand:           row.Brand,
		Code:            row.CodProdus,
		Quantity:        row.Cantitate,
		UnitPrice:       row.PretUnitar,
		TotalPrice:      row.PretTotal,
		DiscountPct:     row.Discount,
		DiscountedPrice: row.PretCuDiscount,
	}
}

// ToCategories groups offer lines by category with each category's total
func ToCategories(products []domain.OfferProduct) map[string]domain.CategoryDTO {
	grouped := make(map[string][]domain.OfferProduct)
	for _, p := range products {
		grouped[p.Category] = append(grouped[p.Category], p)
	}

	categories := make(map[string]domain.CategoryDTO, len(grouped))
	for name, lines := range grouped {
		rows := make([]domain.ProductRow, 0, len(lines))
		prices := make([]decimal.Decimal, 0, len(lines))
		for i := range lines {
			rows = append(rows, ToProductRow(&lines[i]))
			prices = append(prices, lines[i].DiscountedPrice)
		}
		categories[name] = domain.CategoryDTO{
			Products:   rows,
			TotalPrice: ledger.Float(ledger.OrderTotal(prices)),
		}
	}
	return categories
}

// ToOfferDTO converts Offer (with products and client preloaded) to OfferDTO
func ToOfferDTO(offer *domain.Offer) domain.OfferDTO {
	dto := domain.OfferDTO{
		ID:           offer.ID.String(),
		OfferNumber:  offer.OfferNumber,
		ClientID:     offer.ClientID.String(),
		VehicleID:    uuidPtrString(offer.VehicleID),
		Date:         offer.Date.Format(dateLayout),
		Status:       offer.Status,
		Observations: offer.Observations,
		Categories:   ToCategories(offer.Products),
		CreatedAt:    offer.CreatedAt.UTC().Format(timestampLayout),
	}
	if offer.Client != nil {
		dto.ClientName = offer.Client.Name
	}
	return dto
}

// ToOrderProductDTO converts OrderProduct to OrderProductDTO
func ToOrderProductDTO(p *domain.OrderProduct) domain.OrderProductDTO {
	return domain.OrderProductDTO{
		ID:             p.ID.String(),
		OrderID:        p.OrderID.String(),
		Produs:         p.Name,
		Brand:          p.Brand,
		CodProdus:      p.Code,
		Cantitate:      p.Quantity,
		PretUnitar:     ledger.Float(p.UnitPrice),
		PretTotal:      ledger.Float(p.TotalPrice),
		Discount:       ledger.Float(p.DiscountPct),
		PretCuDiscount: ledger.Float(p.DiscountedPrice),
	}
}

// ToOrderProductDTOs converts a slice of lines
func ToOrderProductDTOs(products []domain.OrderProduct) []domain.OrderProductDTO {
	dtos := make([]domain.OrderProductDTO, 0, len(products))
	for i := range products {
		dtos = append(dtos, ToOrderProductDTO(&products[i]))
	}
	return dtos
}

// ToOrderPaymentDTO converts Payment to the per-order payment shape
func ToOrderPaymentDTO(p *domain.Payment) domain.OrderPaymentDTO {
	return domain.OrderPaymentDTO{
		ID:           p.ID.String(),
		OrderID:      p.OrderID.String(),
		Amount:       ledger.Float(p.Amount),
		Date:         p.Date.UTC().Format(timestampLayout),
		RecordedBy:   p.RecordedBy,
		Observations: p.Observations,
	}
}

// OrderAmounts returns the total, paid and balance of an order with lines and payments loaded
func OrderAmounts(order *domain.Order) (total, paid, balance decimal.Decimal) {
	prices := make([]decimal.Decimal, 0, len(order.Products))
	for _, p := range order.Products {
		prices = append(prices, p.DiscountedPrice)
	}
	amounts := make([]decimal.Decimal, 0, len(order.Payments))
	for _, p := range order.Payments {
		amounts = append(amounts, p.Amount)
	}
	total = ledger.OrderTotal(prices)
	paid = ledger.OrderPaid(amounts)
	return total, paid, ledger.Balance(total, paid)
}

// ToOrderDTO converts Order (with lines and payments loaded) to OrderDTO
func ToOrderDTO(order *domain.Order) domain.OrderDTO {
	total, paid, balance := OrderAmounts(order)

	payments := make([]domain.OrderPaymentDTO, 0, len(order.Payments))
	for i := range order.Payments {
		payments = append(payments, ToOrderPaymentDTO(&order.Payments[i]))
	}

	return domain.OrderDTO{
		ID:                order.ID.String(),
		OrderNumber:       order.OrderNumber,
		ClientID:          order.ClientID.String(),
		VehicleID:         uuidPtrString(order.VehicleID),
		Date:              order.Date.Format(dateLayout),
		Observations:      order.Observations,
		SourceOfferNumber: order.SourceOfferNumber,
		SourceCategory:    order.SourceCategory,
		Status:            domain.StatusLabel(order.FulfillmentStatus, order.PaymentStatus),
		FulfillmentStatus: order.FulfillmentStatus,
		PaymentStatus:     order.PaymentStatus,
		CreatedAt:         order.CreatedAt.UTC().Format(timestampLayout),
		Products:          ToOrderProductDTOs(order.Products),
		Payments:          payments,
		Total:             ledger.Float(total),
		Paid:              ledger.Float(paid),
		Balance:           ledger.Float(balance),
	}
}

// ToOrderDetailDTO converts Order (client, vehicle, lines and payments loaded) for the edit window
func ToOrderDetailDTO(order *domain.Order) domain.OrderDetailDTO {
	total, paid, balance := OrderAmounts(order)
	dto := domain.OrderDetailDTO{
		ID:           order.ID.String(),
		ClientID:     order.ClientID.String(),
		Vehicle:      VehicleLabel(order.Vehicle),
		OrderNumber:  order.OrderNumber,
		OrderDate:    order.Date.Format(dateLayout),
		Observations: order.Observations,
		Status:       domain.StatusLabel(order.FulfillmentStatus, order.PaymentStatus),
		AmountPaid:   ledger.Float(paid),
		TotalAmount:  ledger.Float(total),
		Balance:      ledger.Float(balance),
		Products:     ToOrderProductDTOs(order.Products),
	}
	if order.Client != nil {
		dto.ClientName = order.Client.Name
	}
	return dto
}

// ToPaymentListItemDTO converts Payment to a payments register row
func ToPaymentListItemDTO(p *domain.Payment, clientName, orderNumber string) domain.PaymentListItemDTO {
	return domain.PaymentListItemDTO{
		ID:            p.ID.String(),
		Data:          p.Date.UTC().Format(timestampLayout),
		Client:        clientName,
		Comanda:       orderNumber,
		Suma:          ledger.Float(p.Amount),
		InregistratDe: p.RecordedBy,
		Observations:  p.Observations,
	}
}

// ToSearchLine converts an order line to the product part of a search hit
func ToSearchLine(name, brand, code string, qty int, unit, total, discount, discounted decimal.Decimal) domain.SearchLine {
	return domain.SearchLine{
		Produs:         name,
		Brand:          brand,
		CodProdus:      code,
		Cantitate:      qty,
		PretUnitar:     ledger.Float(unit),
		PretTotal:      ledger.Float(total),
		Discount:       ledger.Float(discount),
		PretCuDiscount: ledger.Float(discounted),
	}
}

// ToSearchClientRef converts Client to the reference embedded in search hits
func ToSearchClientRef(client *domain.Client) domain.SearchClientRef {
	if client == nil {
		return domain.SearchClientRef{}
	}
	return domain.SearchClientRef{ID: client.ID.String(), Nume: client.Name, Telefon: client.Phone}
}

// ToSearchVehicleRef converts Vehicle to the reference embedded in search hits
func ToSearchVehicleRef(vehicle *domain.Vehicle) domain.SearchVehicleRef {
	if vehicle == nil {
		return domain.SearchVehicleRef{}
	}
	return domain.SearchVehicleRef{
		Marca:              vehicle.Make,
		Model:              vehicle.Model,
		NumarInmatriculare: vehicle.Registration,
		VIN:                vehicle.VIN,
		An:                 vehicle.Year,
	}
}

// ToAuditLogDTO converts AuditLog to AuditLogDTO
func ToAuditLogDTO(log *domain.AuditLog) domain.AuditLogDTO {
	return domain.AuditLogDTO{
		ID:          log.ID.String(),
		UserID:      log.UserID,
		Username:    log.Username,
		Method:      log.Method,
		Path:        log.Path,
		StatusCode:  log.StatusCode,
		RequestID:   log.RequestID,
		IPAddress:   log.IPAddress,
		Body:        log.Body,
		DurationMs:  log.DurationMs,
		PerformedAt: log.PerformedAt.UTC().Format(timestampLayout),
	}
}

// ToVehicleDocumentDTO converts VehicleDocument to VehicleDocumentDTO
func ToVehicleDocumentDTO(doc *domain.VehicleDocument, url string) domain.VehicleDocumentDTO {
	return domain.VehicleDocumentDTO{
		ID:          doc.ID.String(),
		VehicleID:   doc.VehicleID.String(),
		Filename:    doc.Filename,
		ContentType: doc.ContentType,
		Size:        doc.Size,
		URL:         url,
		CreatedAt:   doc.CreatedAt.UTC().Format(timestampLayout),
	}
}

// SortedCategoryNames returns category names in a stable order
func SortedCategoryNames(categories map[string]domain.CategoryDTO) []string {
	names := make([]string, 0, len(categories))
	for name := range categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func uuidPtrString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}
