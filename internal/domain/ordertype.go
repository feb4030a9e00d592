package domain

type OrderType string

const (
	OrderTypeDineIn     OrderType = "DINE_IN"
	OrderTypeTakeAway   OrderType = "TAKE_AWAY"
	OrderTypeGrabFood   OrderType = "GRABFOOD"
	OrderTypeGoFood     OrderType = "GOFOOD"
	OrderTypeShopeeFood OrderType = "SHOPEEFOOD"
	OrderTypeStaff      OrderType = "STAFF"
	OrderTypeBoss       OrderType = "BOSS"
	OrderTypeKasbon     OrderType = "KASBON"
	OrderTypeNA         OrderType = "NA"
)

// TypePolicy collects every per-order-type rule in one row so policy
// decisions are table lookups instead of scattered string comparisons.
type TypePolicy struct {
	AllowsManualDiscount bool
	// ForcedPaymentType locks the payment selector when non-empty.
	ForcedPaymentType    PaymentType
	RequiresTableNumber  bool
	RequiresCustomerName bool
	RequiresOnlineCode   bool
	AmountPaidEditable   bool
}

var typePolicies = map[OrderType]TypePolicy{
	OrderTypeDineIn: {
		AllowsManualDiscount: true,
		RequiresTableNumber:  true,
		AmountPaidEditable:   true,
	},
	OrderTypeTakeAway: {
		AllowsManualDiscount: true,
		RequiresCustomerName: true,
		AmountPaidEditable:   true,
	},
	OrderTypeGrabFood: {
		ForcedPaymentType:  PaymentGrabFood,
		RequiresOnlineCode: true,
	},
	OrderTypeGoFood: {
		ForcedPaymentType:  PaymentGoFood,
		RequiresOnlineCode: true,
	},
	OrderTypeShopeeFood: {
		ForcedPaymentType:  PaymentShopeeFood,
		RequiresOnlineCode: true,
	},
	OrderTypeStaff: {
		ForcedPaymentType:    PaymentFOC,
		RequiresCustomerName: true,
	},
	OrderTypeBoss: {
		ForcedPaymentType:    PaymentFOC,
		RequiresCustomerName: true,
	},
	OrderTypeKasbon: {
		ForcedPaymentType:    PaymentKasbon,
		RequiresCustomerName: true,
	},
	OrderTypeNA: {
		AllowsManualDiscount: true,
		RequiresCustomerName: true,
	},
}

func (t OrderType) Valid() bool {
	_, ok := typePolicies[t]
	return ok
}

// Policy returns the rule row for the order type. Unknown types get the
// zero policy, which rejects everything downstream.
func (t OrderType) Policy() TypePolicy {
	return typePolicies[t]
}
