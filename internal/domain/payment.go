package domain

type PaymentType string

const (
	PaymentCash         PaymentType = "CASH"
	PaymentQRIS         PaymentType = "QRIS"
	PaymentBankTransfer PaymentType = "BANK_TRANSFER"
	PaymentGoFood       PaymentType = "GOFOOD"
	PaymentGrabFood     PaymentType = "GRABFOOD"
	PaymentShopeeFood   PaymentType = "SHOPEEFOOD"
	PaymentFOC          PaymentType = "FOC"
	PaymentKasbon       PaymentType = "KASBON"
)

// AllPaymentTypes is the display order of the payment selector. Locked
// types stay in the list for display consistency even when not selectable.
var AllPaymentTypes = []PaymentType{
	PaymentCash,
	PaymentQRIS,
	PaymentBankTransfer,
	PaymentGoFood,
	PaymentGrabFood,
	PaymentShopeeFood,
	PaymentFOC,
	PaymentKasbon,
}

// OpenPaymentTypes are the methods an operator may actually pick when the
// order type does not force one.
var OpenPaymentTypes = []PaymentType{
	PaymentCash,
	PaymentQRIS,
	PaymentBankTransfer,
}

func (p PaymentType) Valid() bool {
	for _, t := range AllPaymentTypes {
		if t == p {
			return true
		}
	}
	return false
}
