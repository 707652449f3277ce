package checkout

// State is the position of a storefront view in the checkout flow.
type State int

const (
	StateIdle State = iota
	StateLoadingBase
	StateBrowsing
	StateOpeningDetail
	StateFillingForm
	StateCreatingOrder
	StateCreatingPayment
	StatePaymentShown
)

var stateNames = [...]string{
	StateIdle:            "idle",
	StateLoadingBase:     "loading-base",
	StateBrowsing:        "browsing",
	StateOpeningDetail:   "opening-detail",
	StateFillingForm:     "filling-form",
	StateCreatingOrder:   "creating-order",
	StateCreatingPayment: "creating-payment",
	StatePaymentShown:    "payment-shown",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
