package classifier

import (
	"strings"

	"trackpay-backend/internal/models"
)

const (
	AppUnknown = "Unknown"
	AppGeneric = "UPI"
)

// upiHandles maps a VPA handle (the part after '@') to its payment app.
var upiHandles = map[string]models.UPISource{
	"okaxis":     {App: "PhonePe", Logo: "phonepe", ColorTag: "purple"},
	"ibl":        {App: "PhonePe", Logo: "phonepe", ColorTag: "purple"},
	"okhdfcbank": {App: "Google Pay", Logo: "gpay", ColorTag: "blue"},
	"ybl":        {App: "Google Pay", Logo: "gpay", ColorTag: "blue"},
	"paytm":      {App: "Paytm", Logo: "paytm", ColorTag: "sky"},
	"apl":        {App: "Amazon Pay", Logo: "amazonpay", ColorTag: "orange"},
	"airtel":     {App: "Airtel Money", Logo: "airtel", ColorTag: "red"},
}

var (
	genericUPI = models.UPISource{App: AppGeneric, Logo: "upi", ColorTag: "green"}
	unknownUPI = models.UPISource{App: AppUnknown, Logo: "unknown"}
)

// IdentifyUPI guesses the payment app from a virtual payment address.
// The handle is trimmed and lower-cased before lookup.
func IdentifyUPI(vpa string) models.UPISource {
	vpa = strings.TrimSpace(vpa)
	if vpa == "" {
		return unknownUPI
	}
	parts := strings.Split(vpa, "@")
	if len(parts) < 2 {
		return genericUPI
	}
	handle := strings.ToLower(strings.TrimSpace(parts[1]))
	if src, ok := upiHandles[handle]; ok {
		return src
	}
	return genericUPI
}

// HandleFor returns a handle that IdentifyUPI maps back to app. Apps with
// no known handle get the generic "upi" handle.
func HandleFor(app string) string {
	best := ""
	for handle, src := range upiHandles {
		if strings.EqualFold(src.App, app) && (best == "" || handle < best) {
			best = handle
		}
	}
	if best == "" {
		return "upi"
	}
	return best
}
