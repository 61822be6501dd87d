// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/momeni/clean-sales/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/clean-sales/pkg/core/cerr"
	"github.com/momeni/clean-sales/pkg/core/model"
	"github.com/momeni/clean-sales/pkg/core/usecase/salesuc"
)

type customersResource struct {
	customers *salesuc.CustomersUseCase
}

// registerCustomerSearches registers the customer search APIs:
//  1. GET request to {customer}/ssn/:ssn
//     in order to find one customer by its social security number,
//  2. GET request to {customer}/city/:cityId
//     in order to list the customers of a city.
func registerCustomerSearches(
	r *gin.RouterGroup, customers *salesuc.CustomersUseCase,
) {
	rs := &customersResource{customers: customers}
	r.GET("ssn/:ssn", rs.FindBySocialSecurityNumber)
	r.GET("city/:cityId", rs.FindByCity)
}

func (rs *customersResource) FindBySocialSecurityNumber(c *gin.Context) {
	cust, found, err := rs.customers.FindBySocialSecurityNumber(
		c.Request.Context(), c.Param("ssn"),
	)
	switch {
	case err != nil:
		serdser.SerErr(c, err)
	case !found:
		serdser.SerErr(c, cerr.NotFoundf("%s not found", rs.customers.TypeName()))
	default:
		c.JSON(http.StatusOK, cust)
	}
}

func (rs *customersResource) FindByCity(c *gin.Context) {
	cityID, ok := serdser.ParamID(c, "cityId")
	if !ok {
		return
	}
	cs, err := rs.customers.FindByCity(c.Request.Context(), cityID)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	if cs == nil {
		cs = []*model.Customer{}
	}
	c.JSON(http.StatusOK, cs)
}
