package add_client_allergy

// AddAllergyRequest HTTP request model
type AddAllergyRequest struct {
	Allergy string `json:"allergy"`
}
