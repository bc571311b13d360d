package domain

// Supplier is a company whose product LeadPilot generates leads for.
// When one is selected in the sidebar it becomes the active lead subject
// and is echoed to the backend verbatim.
type Supplier struct {
	ID                  string `json:"id,omitempty"`
	CompanyName         string `json:"company_name"`
	CompanyWebsite      string `json:"company_website,omitempty"`
	ContactName         string `json:"contact_name,omitempty"`
	ContactEmail        string `json:"contact_email,omitempty"`
	ContactPhone        string `json:"contact_phone,omitempty"`
	ProductName         string `json:"product_name"`
	ProductDescription  string `json:"product_description,omitempty"`
	KeyFeatures         string `json:"key_features,omitempty"`
	PrimaryUseCases     string `json:"primary_use_cases,omitempty"`
	PricingModel        string `json:"pricing_model,omitempty"`
	UniqueSellingPoints string `json:"unique_selling_points,omitempty"`
	IdealCustomer       string `json:"ideal_customer_profile,omitempty"`
}
