package storefront

import (
	"context"

	"github.com/and161185/shop-account/internal/model"
)

// CustomerAccessTokenCreateMutation exchanges email/password for a customer access token.
const CustomerAccessTokenCreateMutation = `mutation customerAccessTokenCreate($input: CustomerAccessTokenCreateInput!) {
  customerAccessTokenCreate(input: $input) {
    customerAccessToken {
      accessToken
      expiresAt
    }
    customerUserErrors {
      code
      field
      message
    }
  }
}`

// CustomerUpdateMutation updates the authenticated customer's profile.
const CustomerUpdateMutation = `mutation customerUpdate($customerAccessToken: String!, $customer: CustomerUpdateInput!) {
  customerUpdate(customerAccessToken: $customerAccessToken, customer: $customer) {
    customer { id firstName lastName email phone }
    customerAccessToken { accessToken expiresAt }
    userErrors { field message }
  }
}`

// AccessTokenCreateData is the data field of customerAccessTokenCreate.
type AccessTokenCreateData struct {
	CustomerAccessTokenCreate *AccessTokenCreatePayload `json:"customerAccessTokenCreate"`
}

// AccessTokenCreatePayload is the mutation payload.
type AccessTokenCreatePayload struct {
	CustomerAccessToken *model.CustomerAccessToken `json:"customerAccessToken"`
	CustomerUserErrors  []model.UserError          `json:"customerUserErrors"`
}

// CustomerUpdateData is the data field of customerUpdate.
type CustomerUpdateData struct {
	CustomerUpdate *CustomerUpdatePayload `json:"customerUpdate"`
}

// CustomerUpdatePayload is the mutation payload.
type CustomerUpdatePayload struct {
	Customer            *model.Customer            `json:"customer"`
	CustomerAccessToken *model.CustomerAccessToken `json:"customerAccessToken"`
	UserErrors          []model.UserError          `json:"userErrors"`
}

// CustomerAccessTokenCreate runs the token exchange.
func (c *Client) CustomerAccessTokenCreate(ctx context.Context, email, password string) (*Response[AccessTokenCreateData], error) {
	vars := map[string]any{
		"input": map[string]any{
			"email":    email,
			"password": password,
		},
	}
	return Do[AccessTokenCreateData](ctx, c, CustomerAccessTokenCreateMutation, vars)
}

// CustomerUpdate runs the profile update. A nil token is sent as JSON null.
func (c *Client) CustomerUpdate(ctx context.Context, token *string, customer model.FormPayload) (*Response[CustomerUpdateData], error) {
	vars := map[string]any{
		"customerAccessToken": token,
		"customer":            customer,
	}
	return Do[CustomerUpdateData](ctx, c, CustomerUpdateMutation, vars)
}
