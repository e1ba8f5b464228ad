package metrics

import "github.com/erazemk/watchdesk/internal/model"

// Fees returns the ancillary costs charged against a single sale: service,
// polish, platform, shipping and insurance fees plus the register fee when
// the watch is registered. Import fee is not included; see ImportFee.
func Fees(w *model.Watch) int64 {
	if w == nil {
		return 0
	}
	total := model.Int64(w.ServiceFee) +
		model.Int64(w.PolishFee) +
		model.Int64(w.PlatformFees) +
		model.Int64(w.ShippingFee) +
		model.Int64(w.InsuranceFee)
	if w.WatchRegister {
		total += model.WatchRegisterFee
	}
	return total
}

// ImportFee returns the import fee of a watch, zero when absent.
// It counts against portfolio net profit but not against per-watch profit.
func ImportFee(w *model.Watch) int64 {
	if w == nil {
		return 0
	}
	return model.Int64(w.ImportFee)
}
