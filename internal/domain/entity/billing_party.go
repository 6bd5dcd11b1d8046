package entity

// BillingParty parte de la factura (vendedor o comprador).
type BillingParty struct {
	Name    string
	GSTIN   string // opcional: compradores no registrados no lo tienen
	Phone   string
	Address string
	State   string // estado de la India (lugar de suministro)
}
