package laytime

import (
	"strconv"

	"marithon/internal/domain"
)

// FormFromBusinessData converts extracted business data into form values.
// Missing fields stay empty.
func FormFromBusinessData(b *domain.BusinessData) domain.LaytimeForm {
	if b == nil {
		return domain.LaytimeForm{}
	}
	return domain.LaytimeForm{
		Vessel:         str(b.Vessel),
		VoyageFrom:     str(b.VoyageFrom),
		VoyageTo:       str(b.VoyageTo),
		Cargo:          str(b.Cargo),
		Port:           str(b.Port),
		Operation:      str(b.Operation),
		AllowedLaytime: num(b.Allowed),
		Demurrage:      num(b.Demurrage),
		Dispatch:       num(b.Dispatch),
		Rate:           num(b.Rate),
		Quantity:       num(b.Quantity),
	}
}

// Prefill fills the empty fields of form with the non-empty values of src.
// Values already present in form are kept. Operation defaults to discharge.
func Prefill(form, src domain.LaytimeForm) domain.LaytimeForm {
	fill := func(dst *string, v string) {
		if v != "" && *dst == "" {
			*dst = v
		}
	}
	fill(&form.Vessel, src.Vessel)
	fill(&form.VoyageFrom, src.VoyageFrom)
	fill(&form.VoyageTo, src.VoyageTo)
	fill(&form.Cargo, src.Cargo)
	fill(&form.Port, src.Port)
	fill(&form.Operation, src.Operation)
	fill(&form.AllowedLaytime, src.AllowedLaytime)
	fill(&form.Demurrage, src.Demurrage)
	fill(&form.Dispatch, src.Dispatch)
	fill(&form.Rate, src.Rate)
	fill(&form.Quantity, src.Quantity)
	form.Operation = form.OperationOrDefault()
	return form
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func num(p *float64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatFloat(*p, 'f', -1, 64)
}
