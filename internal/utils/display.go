package utils

import "github.com/clinica-bage/app-rx/internal/models"

// DisplayIdentity formats the contact fields of i. TaxIDValid reports
// whether the CPF check digits hold; placeholder CPFs usually fail it.
func DisplayIdentity(i models.Identity) models.IdentityDisplay {
	d := models.IdentityDisplay{
		Phone:    FormatPhoneForDisplay(i.Phone),
		Address:  ComposeAddress(i.Address),
		Initials: Initials(i.FullName),
	}
	if i.TaxID != "" {
		d.TaxID = FormatCPF(i.TaxID)
		d.TaxIDValid = ValidateCPF(i.TaxID)
	}
	if i.Address.PostalCode != "" {
		d.PostalCode = FormatCEP(i.Address.PostalCode)
	}
	if d.Address == "" {
		d.Address = i.AddressLine
	}
	return d
}

// PatientViews pairs every identity with its display form
func PatientViews(identities []models.Identity) []models.PatientView {
	views := make([]models.PatientView, 0, len(identities))
	for _, i := range identities {
		views = append(views, models.PatientView{Identity: i, Display: DisplayIdentity(i)})
	}
	return views
}
