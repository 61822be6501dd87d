// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package salesuc

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/momeni/clean-sales/pkg/core/cerr"
	"github.com/momeni/clean-sales/pkg/core/model"
	"github.com/momeni/clean-sales/pkg/core/repo"
	"github.com/momeni/clean-sales/pkg/core/usecase/crudsuc"
	"github.com/momeni/clean-sales/pkg/core/validation"
)

// SocialSecurityNumberLength is the number of digits of a valid social
// security number, ignoring its punctuation.
const SocialSecurityNumberLength = 11

func checkDistrictName(_ context.Context, _ repo.Tx, d *model.District) error {
	if strings.EqualFold(
		strings.TrimSpace(d.Name), strings.TrimSpace(d.Abbreviation),
	) {
		return cerr.InvalidState(errors.New(
			"The district name cannot be equal to its abbreviation",
		))
	}
	return nil
}

func checkProductStock(_ context.Context, _ repo.Tx, p *model.Product) error {
	if p.HasInventory() {
		return cerr.InvalidStatef(
			"Product %s cannot be deleted because it is still in stock.",
			p.Description,
		)
	}
	return nil
}

func socialSecurityNumberValidator() validation.Optional[*model.Customer] {
	return validation.Some(func() validation.Validator[*model.Customer] {
		return validation.Func[*model.Customer](func(
			_ context.Context, c *model.Customer,
		) []validation.FieldError {
			if len(c.SocialSecurityDigits()) == SocialSecurityNumberLength {
				return nil
			}
			return []validation.FieldError{{
				Field: "SocialSecurityNumber",
				Code:  "customer.socialSecurityNumber.invalid",
			}}
		})
	})
}

// requireReference creates a hook which reports a NotFound error if
// the entity which is referenced by E (as returned by ref) is missing.
// The ok flag of ref is false when the reference is optional and
// absent.
func requireReference[E, R model.Entity](
	r repo.Entities[R], ref func(E) (id int64, ok bool),
) crudsuc.Hook[E] {
	var zero R
	typeName := zero.TypeName()
	return func(ctx context.Context, tx repo.Tx, e E) error {
		id, ok := ref(e)
		if !ok {
			return nil
		}
		_, found, err := r.Tx(tx).FindByID(ctx, id)
		if err != nil {
			return fmt.Errorf("finding %s: %w", typeName, err)
		}
		if !found {
			return cerr.NotFoundf("%s not found", typeName)
		}
		return nil
	}
}

type purchaseRules struct {
	products  repo.Products
	purchases repo.Entities[*model.Purchase]
	reserve   bool
	now       func() time.Time
}

// beforeSave validates the stock of all items of an inserting purchase.
// Items of an inserting purchase are always inserted as new rows, even
// if they carry the identity of a stored item.
// For an editing purchase, stored items may not change, so only the
// newly appended items are validated.
func (pr *purchaseRules) beforeSave(
	ctx context.Context, tx repo.Tx, p *model.Purchase,
) error {
	if p.IsInserting() {
		if p.DateTime == nil {
			t := pr.now()
			p.DateTime = &t
		}
		for i := range p.Items {
			p.Items[i].Detach()
		}
		p.StockReserved = pr.reserve
		return pr.checkStock(ctx, tx, p.Items, p.StockReserved)
	}
	old, found, err := pr.purchases.Tx(tx).FindByID(ctx, p.ID)
	if err != nil {
		return fmt.Errorf("finding purchase: %w", err)
	}
	if !found {
		return cerr.NotFoundf("%s not found", p.TypeName())
	}
	if p.DateTime == nil {
		p.DateTime = old.DateTime
	}
	p.StockReserved = old.StockReserved
	appended, err := appendedItems(old, p)
	if err != nil {
		return err
	}
	return pr.checkStock(ctx, tx, appended, p.StockReserved)
}

// appendedItems returns the new items of p, while ensuring that all
// items of its stored version (old) are kept with the same product
// and quantity.
func appendedItems(old, p *model.Purchase) ([]model.PurchaseItem, error) {
	unchanged := cerr.InvalidStatef(
		"Items of purchase %d cannot be changed after insertion", p.ID,
	)
	stored := make(map[int64]*model.PurchaseItem, len(old.Items))
	for i := range old.Items {
		stored[old.Items[i].ID] = &old.Items[i]
	}
	var appended []model.PurchaseItem
	for i := range p.Items {
		it := &p.Items[i]
		if it.IsInserting() {
			appended = append(appended, *it)
			continue
		}
		prev, ok := stored[it.ID]
		if !ok {
			return nil, unchanged
		}
		delete(stored, it.ID)
		prevID, _ := prev.ProductRef()
		id, _ := it.ProductRef()
		if id != prevID || it.Quantity != prev.Quantity {
			return nil, unchanged
		}
	}
	if len(stored) != 0 {
		return nil, unchanged
	}
	return appended, nil
}

// checkStock validates items in order, stopping at the first failure.
// If reserve is true, it also decreases the stock of products by a
// conditional update per item.
func (pr *purchaseRules) checkStock(
	ctx context.Context,
	tx repo.Tx,
	items []model.PurchaseItem,
	reserve bool,
) error {
	q := pr.products.Tx(tx)
	for i := range items {
		it := &items[i]
		id, ok := it.ProductRef()
		if !ok {
			return cerr.InvalidState(errors.New("Product not specified"))
		}
		prod, found, err := q.FindByID(ctx, id)
		if err != nil {
			return fmt.Errorf("finding product: %w", err)
		}
		if !found {
			return cerr.NotFound(errors.New("Product not found"))
		}
		enough := prod.IsInventoryEnough(it.Quantity)
		if enough && reserve {
			enough, err = pr.products.Stock(tx).Reserve(ctx, id, it.Quantity)
			if err != nil {
				return fmt.Errorf("reserving product: %w", err)
			}
		}
		if !enough {
			return cerr.InvalidStatef(
				"Product %s is out of stock.", prod.Description,
			)
		}
	}
	return nil
}

// afterDelete returns the items of a deleted purchase to stock, if
// they were reserved when it was inserted.
func (pr *purchaseRules) afterDelete(
	ctx context.Context, tx repo.Tx, p *model.Purchase,
) error {
	if !p.StockReserved {
		return nil
	}
	q := pr.products.Stock(tx)
	for i := range p.Items {
		it := &p.Items[i]
		id, ok := it.ProductRef()
		if !ok {
			continue
		}
		if err := q.Release(ctx, id, it.Quantity); err != nil {
			return fmt.Errorf("releasing product: %w", err)
		}
	}
	return nil
}
