package domain

import "time"

// Logical field names, in the order the fill orchestrator attempts them.
// These are also the JSON keys used when a record is persisted, so the
// companion scraper/adapter components can read them back.
const (
	FieldOrderID         = "orderId"
	FieldProductName     = "productName"
	FieldProductCategory = "productCategory"
	FieldPrice           = "price"
	FieldOrderDate       = "orderDate"
	FieldDeliveryDate    = "deliveryDate"
	FieldSellerName      = "sellerName"
	FieldTrackingNumber  = "trackingNumber"
	FieldCustomerEmail   = "customerEmail"
	FieldCustomerPhone   = "customerPhone"
)

// RecordFieldNames lists every logical field in fill order.
var RecordFieldNames = []string{
	FieldOrderID,
	FieldProductName,
	FieldProductCategory,
	FieldPrice,
	FieldOrderDate,
	FieldDeliveryDate,
	FieldSellerName,
	FieldTrackingNumber,
	FieldCustomerEmail,
	FieldCustomerPhone,
}

// ExtractedRecord is the structured result of scraping one order page.
// Every field is optional: an empty string means "not found". Price is kept
// as display text with its currency prefix; source pages never normalize
// currency, so neither do we.
type ExtractedRecord struct {
	OrderID         string `json:"orderId,omitempty"`
	ProductName     string `json:"productName,omitempty"`
	ProductCategory string `json:"productCategory,omitempty"`
	Price           string `json:"price,omitempty"`
	OrderDate       string `json:"orderDate,omitempty"`
	DeliveryDate    string `json:"deliveryDate,omitempty"`
	SellerName      string `json:"sellerName,omitempty"`
	TrackingNumber  string `json:"trackingNumber,omitempty"`
	CustomerEmail   string `json:"customerEmail,omitempty"`
	CustomerPhone   string `json:"customerPhone,omitempty"`

	// Diagnostics carries per-field confidence and the extractor that
	// produced the value, keyed by logical field name.
	Diagnostics map[string]FieldDiagnostic `json:"diagnostics,omitempty"`

	SourceURL string    `json:"sourceUrl,omitempty"`
	CachedAt  time.Time `json:"cachedAt,omitempty"`
}

// FieldDiagnostic records how a field value was obtained.
type FieldDiagnostic struct {
	Confidence float64 `json:"confidence"`
	Method     string  `json:"extractionMethod"`
}

// Field returns the value of a logical field by name.
func (r *ExtractedRecord) Field(name string) string {
	switch name {
	case FieldOrderID:
		return r.OrderID
	case FieldProductName:
		return r.ProductName
	case FieldProductCategory:
		return r.ProductCategory
	case FieldPrice:
		return r.Price
	case FieldOrderDate:
		return r.OrderDate
	case FieldDeliveryDate:
		return r.DeliveryDate
	case FieldSellerName:
		return r.SellerName
	case FieldTrackingNumber:
		return r.TrackingNumber
	case FieldCustomerEmail:
		return r.CustomerEmail
	case FieldCustomerPhone:
		return r.CustomerPhone
	}
	return ""
}

// SetField sets a logical field by name together with its diagnostic.
// Unknown names are ignored.
func (r *ExtractedRecord) SetField(name, value string, diag FieldDiagnostic) {
	switch name {
	case FieldOrderID:
		r.OrderID = value
	case FieldProductName:
		r.ProductName = value
	case FieldProductCategory:
		r.ProductCategory = value
	case FieldPrice:
		r.Price = value
	case FieldOrderDate:
		r.OrderDate = value
	case FieldDeliveryDate:
		r.DeliveryDate = value
	case FieldSellerName:
		r.SellerName = value
	case FieldTrackingNumber:
		r.TrackingNumber = value
	case FieldCustomerEmail:
		r.CustomerEmail = value
	case FieldCustomerPhone:
		r.CustomerPhone = value
	default:
		return
	}
	if r.Diagnostics == nil {
		r.Diagnostics = make(map[string]FieldDiagnostic)
	}
	r.Diagnostics[name] = diag
}

// FieldCount returns the number of populated logical fields.
func (r *ExtractedRecord) FieldCount() int {
	count := 0
	for _, name := range RecordFieldNames {
		if r.Field(name) != "" {
			count++
		}
	}
	return count
}

// Candidate is a scored, possibly-wrong guess produced by an extractor
// before a winner is chosen.
type Candidate struct {
	Value  string  `json:"value"`
	Score  float64 `json:"score"`
	Method string  `json:"method"`
}
