// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package tagval_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/momeni/clean-sales/pkg/adapter/restful/gin/tagval"
	"github.com/momeni/clean-sales/pkg/core/model"
	"github.com/momeni/clean-sales/pkg/core/validation"
	"github.com/stretchr/testify/assert"
)

func ExampleValidator_ValidateStruct() {
	tv := tagval.New()
	errs := tv.ValidateStruct(context.Background(), &model.District{
		Abbreviation: "T",
	})
	fmt.Println(validation.JoinCodes(errs))
	// Output:
	// District.Name.required;
	// District.Abbreviation.min
}

func TestValidEntities(t *testing.T) {
	tv := tagval.New()
	ctx := context.Background()
	assert.Empty(t, tv.ValidateStruct(ctx, &model.Product{
		Description: "Television", Price: 1200, Amount: 3,
	}))
	assert.Empty(t, tv.ValidateStruct(ctx, &model.Purchase{
		CustomerID: 1,
		Items:      []model.PurchaseItem{{ProductID: 2, Quantity: 1}},
	}))
}

func TestNestedItems(t *testing.T) {
	tv := tagval.New()
	errs := tv.ValidateStruct(context.Background(), &model.Purchase{
		Items: []model.PurchaseItem{{ProductID: 2, Quantity: 0}},
	})
	codes := make([]string, 0, len(errs))
	for _, fe := range errs {
		codes = append(codes, fe.Code)
	}
	assert.ElementsMatch(t, []string{
		"Purchase.CustomerID.required",
		"Purchase.Items[0].Quantity.min",
	}, codes)
}

func TestNonStruct(t *testing.T) {
	errs := tagval.New().ValidateStruct(context.Background(), 12)
	assert.Equal(t, []validation.FieldError{{Code: tagval.InvalidCode}}, errs)
}
