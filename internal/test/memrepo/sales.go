// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package memrepo

import (
	"context"
	"strconv"
	"strings"

	"github.com/momeni/clean-sales/pkg/core/model"
	"github.com/momeni/clean-sales/pkg/core/repo"
	"github.com/momeni/clean-sales/pkg/core/usecase/salesuc"
)

// Districts is an in-memory repo.Districts.
type Districts struct {
	*Table[*model.District]
}

// Search returns a districts search queryer.
func (d Districts) Search(repo.Conn) repo.DistrictsSearchQueryer {
	return d
}

// FindByNameContaining lists districts with name in their names.
func (d Districts) FindByNameContaining(
	_ context.Context, name string,
) ([]*model.District, error) {
	return filter(d.All(), func(x *model.District) bool {
		return containsFold(x.Name, name)
	}), nil
}

// Customers is an in-memory repo.Customers.
type Customers struct {
	*Table[*model.Customer]
}

// Search returns a customers search queryer.
func (c Customers) Search(repo.Conn) repo.CustomersSearchQueryer {
	return c
}

// FindByNameContaining lists customers with name in their names.
func (c Customers) FindByNameContaining(
	_ context.Context, name string,
) ([]*model.Customer, error) {
	return filter(c.All(), func(x *model.Customer) bool {
		return containsFold(x.Name, name)
	}), nil
}

// FindBySocialSecurityNumber finds a customer by its ssn.
func (c Customers) FindBySocialSecurityNumber(
	_ context.Context, ssn string,
) (*model.Customer, bool, error) {
	found := filter(c.All(), func(x *model.Customer) bool {
		return x.SocialSecurityNumber == ssn
	})
	if len(found) == 0 {
		return nil, false, nil
	}
	return found[0], true, nil
}

// FindByCity lists customers of cityID city.
func (c Customers) FindByCity(
	_ context.Context, cityID int64,
) ([]*model.Customer, error) {
	return filter(c.All(), func(x *model.Customer) bool {
		ref := x.CityRef()
		return ref != nil && *ref == cityID
	}), nil
}

// Products is an in-memory repo.Products.
type Products struct {
	*Table[*model.Product]
}

// Stock returns a stock adjusting queryer.
func (p Products) Stock(repo.Tx) repo.StockTxQueryer {
	return p
}

// Reserve decreases the stock of productID if it is enough.
func (p Products) Reserve(
	_ context.Context, productID int64, quantity int,
) (bool, error) {
	prod, found := p.Get(productID)
	if !found || !prod.IsInventoryEnough(quantity) {
		return false, nil
	}
	prod.Amount -= quantity
	p.Put(prod)
	return true, nil
}

// Release increases the stock of productID.
func (p Products) Release(
	_ context.Context, productID int64, quantity int,
) error {
	if prod, found := p.Get(productID); found {
		prod.Amount += quantity
		p.Put(prod)
	}
	return nil
}

// Sales groups the in-memory repositories of all sales entities.
// They emulate the unique and foreign key constraints of the
// PostgreSQL schema with the same constraint names.
type Sales struct {
	Store     *Store
	Districts Districts
	Cities    *Table[*model.City]
	Customers Customers
	Products  Products
	Purchases *Table[*model.Purchase]
}

// Repos returns the sales repositories as expected by salesuc.New.
func (s *Sales) Repos() salesuc.Repos {
	return salesuc.Repos{
		Districts: s.Districts,
		Cities:    s.Cities,
		Customers: s.Customers,
		Products:  s.Products,
		Purchases: s.Purchases,
	}
}

// NewSales creates all sales tables in a new Store.
func NewSales() *Sales {
	s := New()
	sales := &Sales{Store: s}
	sales.Districts = Districts{NewTable(s, "district",
		WithUnique("uc_district__name___", func(d *model.District) string {
			return strings.ToLower(d.Name)
		}),
		WithUnique("uc_district__abbreviation___", func(d *model.District) string {
			return strings.ToLower(d.Abbreviation)
		}),
		WithDeleteGuard("fk_city__district", func(_ context.Context, d *model.District) bool {
			return len(filter(sales.Cities.All(), func(c *model.City) bool {
				return c.DistrictID == d.ID
			})) > 0
		}),
	)}
	sales.Cities = NewTable(s, "city",
		WithUnique("uc_city__name__district_id___", func(c *model.City) string {
			return strings.ToLower(c.Name) + "/" + strconv.FormatInt(c.DistrictRef(), 10)
		}),
		WithDeleteGuard("fk_customer__city", func(_ context.Context, c *model.City) bool {
			return len(filter(sales.Customers.All(), func(x *model.Customer) bool {
				ref := x.CityRef()
				return ref != nil && *ref == c.ID
			})) > 0
		}),
	)
	sales.Customers = Customers{NewTable(s, "customer",
		WithUnique("uc_customer__social_security_number___", func(c *model.Customer) string {
			return c.SocialSecurityNumber
		}),
		WithDeleteGuard("fk_purchase__customer", func(_ context.Context, c *model.Customer) bool {
			return len(filter(sales.Purchases.All(), func(p *model.Purchase) bool {
				return p.CustomerRef() == c.ID
			})) > 0
		}),
	)}
	sales.Products = Products{NewTable(s, "product",
		WithUnique("uc_product__description___", func(p *model.Product) string {
			return strings.ToLower(p.Description)
		}),
		WithDeleteGuard("fk_purchase_item__product", func(_ context.Context, p *model.Product) bool {
			for _, pur := range sales.Purchases.All() {
				for i := range pur.Items {
					if id, _ := pur.Items[i].ProductRef(); id == p.ID {
						return true
					}
				}
			}
			return false
		}),
	)}
	sales.Purchases = NewTable(s, "purchase",
		WithChildIDs(func(p *model.Purchase, nextID func() int64) {
			for i := range p.Items {
				it := &p.Items[i]
				if it.IsInserting() {
					it.ID = nextID()
				}
				it.PurchaseID = p.ID
				it.Product = nil
			}
			p.Customer = nil
		}),
	)
	return sales
}

func filter[E any](es []E, pred func(E) bool) []E {
	var result []E
	for _, e := range es {
		if pred(e) {
			result = append(result, e)
		}
	}
	return result
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
