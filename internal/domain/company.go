package domain

import (
	"strings"

	"catalog/internal/fields"
)

// Company holds the organization requisites printed on documents.
type Company struct {
	name                 string
	inn                  string
	account              string
	correspondentAccount string
	bik                  string
	ownershipType        string
}

// CompanyInfo is the unvalidated input for NewCompany.
type CompanyInfo struct {
	Name                 string
	INN                  string
	Account              string
	CorrespondentAccount string
	BIK                  string
	OwnershipType        string
}

// NewCompany validates info and returns the company. Empty numeric codes
// are allowed; non-empty ones must have their exact width.
func NewCompany(info CompanyInfo) (*Company, error) {
	c := &Company{}
	steps := []func() error{
		func() error { return c.SetName(info.Name) },
		func() error { return c.SetINN(info.INN) },
		func() error { return c.SetAccount(info.Account) },
		func() error { return c.SetCorrespondentAccount(info.CorrespondentAccount) },
		func() error { return c.SetBIK(info.BIK) },
		func() error { return c.SetOwnershipType(info.OwnershipType) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Name returns the organization name.
func (c *Company) Name() string { return c.name }

// SetName sets the organization name.
func (c *Company) SetName(name string) error {
	n, err := validName(name)
	if err != nil {
		return err
	}
	c.name = n
	return nil
}

// INN returns the taxpayer number (12 digits).
func (c *Company) INN() string { return c.inn }

// SetINN sets the taxpayer number.
func (c *Company) SetINN(v string) error { return setCode(&c.inn, "inn", v, 12) }

// Account returns the settlement account (11 digits).
func (c *Company) Account() string { return c.account }

// SetAccount sets the settlement account.
func (c *Company) SetAccount(v string) error { return setCode(&c.account, "account", v, 11) }

// CorrespondentAccount returns the correspondent account (11 digits).
func (c *Company) CorrespondentAccount() string { return c.correspondentAccount }

// SetCorrespondentAccount sets the correspondent account.
func (c *Company) SetCorrespondentAccount(v string) error {
	return setCode(&c.correspondentAccount, "correspondent_account", v, 11)
}

// BIK returns the bank identifier (9 digits).
func (c *Company) BIK() string { return c.bik }

// SetBIK sets the bank identifier.
func (c *Company) SetBIK(v string) error { return setCode(&c.bik, "bik", v, 9) }

// OwnershipType returns the legal form abbreviation (at most 5 characters).
func (c *Company) OwnershipType() string { return c.ownershipType }

// SetOwnershipType sets the legal form abbreviation.
func (c *Company) SetOwnershipType(v string) error {
	v = strings.TrimSpace(v)
	if err := checkLength("ownership_type", v, 0, maxOwnershipLength); err != nil {
		return err
	}
	c.ownershipType = v
	return nil
}

func setCode(dst *string, field, v string, width int) error {
	v = strings.TrimSpace(v)
	if v != "" {
		if err := checkDigits(field, v, width); err != nil {
			return err
		}
	}
	*dst = v
	return nil
}

// DisplayName implements fields.Named.
func (c *Company) DisplayName() string { return c.name }

// Kind implements fields.Entity.
func (c *Company) Kind() string { return "Company" }

// Fields implements fields.Entity.
func (c *Company) Fields() []fields.Field {
	return []fields.Field{
		{Name: "account", Get: func() (any, error) { return c.account, nil }},
		{Name: "bik", Get: func() (any, error) { return c.bik, nil }},
		{Name: "correspondent_account", Get: func() (any, error) { return c.correspondentAccount, nil }},
		{Name: "inn", Get: func() (any, error) { return c.inn, nil }},
		{Name: "name", Get: func() (any, error) { return c.name, nil }},
		{Name: "ownership_type", Get: func() (any, error) { return c.ownershipType, nil }},
	}
}
