package linking

// User is the signed-in user as the orchestrator sees it: the
// identity-service account joined with the derived payment-customer
// identifiers from the profile document.
type User struct {
	ID                string `json:"id"`
	Email             string `json:"email"`
	FirstName         string `json:"firstName"`
	LastName          string `json:"lastName"`
	DwollaCustomerID  string `json:"dwollaCustomerId,omitempty"`
	DwollaCustomerURL string `json:"dwollaCustomerUrl,omitempty"`
}

// DisplayName is the name shown in the aggregator's linking widget.
func (u *User) DisplayName() string {
	return u.FirstName + " " + u.LastName
}

// SignUpParams carries the sign-up form fields. Address and identity
// fields are forwarded to the payment processor's personal customer
// record.
type SignUpParams struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Address1    string `json:"address1"`
	City        string `json:"city"`
	State       string `json:"state"`
	PostalCode  string `json:"postalCode"`
	DateOfBirth string `json:"dateOfBirth"`
	SSN         string `json:"ssn"`
}

// LinkResult is the completion marker for a public-token exchange.
type LinkResult struct {
	PublicTokenExchange string `json:"publicTokenExchange"`
}

// AccountSummary is one entry of a user's linked-account view, safe to
// expose to the presentation layer (no access token).
type AccountSummary struct {
	AccountID        string `json:"accountId"`
	Name             string `json:"name"`
	Mask             string `json:"mask,omitempty"`
	Type             string `json:"type,omitempty"`
	Subtype          string `json:"subtype,omitempty"`
	ShareableID      string `json:"shareableId"`
	FundingSourceURL string `json:"fundingSourceUrl"`
}
