package tax

import (
	ierr "github.com/fakturo/fakturo/internal/errors"
	"github.com/fakturo/fakturo/internal/types"
	"github.com/shopspring/decimal"
)

// Legal exemption notes disclosed on invoices for VAT-exempt regimes.
const (
	ExemptionNoteSmallBusiness  = "Gemäß §19 UStG wird keine Umsatzsteuer berechnet."
	ExemptionNoteReverseCharge  = "Steuerschuldnerschaft des Leistungsempfängers (§13b UStG)."
	ExemptionNoteIntraCommunity = "Steuerfreie innergemeinschaftliche Lieferung (§4 Nr. 1b UStG)."
	ExemptionNoteExport         = "Steuerfreie Ausfuhrlieferung (§4 Nr. 1a UStG)."
)

// Resolution is the effective tax treatment of one line item under a VAT
// regime.
type Resolution struct {
	EffectiveRate decimal.Decimal `json:"effective_rate"`
	ExemptionNote string          `json:"exemption_note,omitempty"`
}

// Input carries everything the resolver needs to determine the effective
// rate for a line item.
type Input struct {
	Regime types.VATRegime
	// ItemRate is the item-level VAT rate; zero means "use the company
	// standard rate".
	ItemRate decimal.Decimal
	// StandardRate is the company-wide default VAT rate from settings.
	StandardRate decimal.Decimal
	// BuyerVATID is the customer's VAT identification number; mandatory for
	// reverse-charge invoices.
	BuyerVATID string
}

// Resolve determines the effective tax rate and exemption note for a line
// item. Exempt regimes resolve to a zero rate with the applicable legal
// note; the standard regime resolves to the item's configured rate,
// defaulting to the company standard rate.
//
// A reverse-charge invoice without a buyer VAT ID is a validation failure,
// never silently defaulted.
func Resolve(in Input) (Resolution, error) {
	if err := in.Regime.Validate(); err != nil {
		return Resolution{}, err
	}

	switch in.Regime {
	case types.VATRegimeSmallBusiness:
		return Resolution{EffectiveRate: decimal.Zero, ExemptionNote: ExemptionNoteSmallBusiness}, nil
	case types.VATRegimeReverseCharge:
		if in.BuyerVATID == "" {
			return Resolution{}, ierr.NewError("missing buyer vat id").
				WithHint("Reverse charge invoices require the buyer's VAT ID").
				WithReportableDetails(map[string]any{
					"field": "buyer_vat_id",
				}).
				Mark(ierr.ErrValidation)
		}
		return Resolution{EffectiveRate: decimal.Zero, ExemptionNote: ExemptionNoteReverseCharge}, nil
	case types.VATRegimeReverseChargeDomestic:
		return Resolution{EffectiveRate: decimal.Zero, ExemptionNote: ExemptionNoteReverseCharge}, nil
	case types.VATRegimeIntraCommunity:
		return Resolution{EffectiveRate: decimal.Zero, ExemptionNote: ExemptionNoteIntraCommunity}, nil
	case types.VATRegimeExport:
		return Resolution{EffectiveRate: decimal.Zero, ExemptionNote: ExemptionNoteExport}, nil
	default:
		rate := in.ItemRate
		if rate.IsZero() {
			rate = in.StandardRate
		}
		if rate.IsNegative() || rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
			return Resolution{}, ierr.NewError("invalid tax rate").
				WithHint("Tax rate must be a fraction between 0 and 1, e.g. 0.19").
				WithReportableDetails(map[string]any{
					"tax_rate": rate.String(),
				}).
				Mark(ierr.ErrValidation)
		}
		return Resolution{EffectiveRate: rate}, nil
	}
}
