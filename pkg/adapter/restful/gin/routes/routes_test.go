// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package routes_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/momeni/clean-sales/internal/test/memrepo"
	"github.com/momeni/clean-sales/pkg/adapter/config"
	ginrs "github.com/momeni/clean-sales/pkg/adapter/restful/gin"
	"github.com/momeni/clean-sales/pkg/adapter/restful/gin/routes"
	"github.com/momeni/clean-sales/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/clean-sales/pkg/core/model"
	"github.com/stretchr/testify/suite"
)

const base = config.DefaultBasePath

type RoutesTestSuite struct {
	suite.Suite

	sales *memrepo.Sales
	gin   *gin.Engine

	district *model.District
	city     *model.City
	customer *model.Customer
	tv       *model.Product
	oven     *model.Product
}

func TestRoutesTestSuite(t *testing.T) {
	gin.SetMode(gin.TestMode)
	suite.Run(t, new(RoutesTestSuite))
}

func (rts *RoutesTestSuite) SetupTest() {
	rts.sales = memrepo.NewSales()
	rts.district = rts.sales.Districts.Put(&model.District{
		Name: "Tocantins", Abbreviation: "TO",
	})
	rts.city = rts.sales.Cities.Put(&model.City{
		Name: "Palmas", DistrictID: rts.district.ID,
	})
	rts.customer = rts.sales.Customers.Put(&model.Customer{
		Name: "Maria Silva", SocialSecurityNumber: "123.456.789-01",
		CityID: &rts.city.ID,
	})
	rts.tv = rts.sales.Products.Put(&model.Product{
		Description: "Television", Price: 1500, Amount: 10,
	})
	rts.oven = rts.sales.Products.Put(&model.Product{
		Description: "Microwave", Price: 400, Amount: 0,
	})

	c, err := config.Parse(
		[]byte("database:\n  port: 5432\n"), map[string]string{},
	)
	rts.Require().NoError(err)
	rts.gin = ginrs.New(ginrs.RequestID())
	err = routes.RegisterWith(
		context.Background(), rts.gin, rts.sales.Store, rts.sales.Repos(), c,
	)
	rts.Require().NoError(err)
}

func (rts *RoutesTestSuite) do(
	method, path, body string,
) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, base+path, r)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	rts.gin.ServeHTTP(w, req)
	return w
}

func (rts *RoutesTestSuite) decode(w *httptest.ResponseRecorder, v any) {
	rts.Require().NoError(
		json.Unmarshal(w.Body.Bytes(), v), "body: %s", w.Body.String(),
	)
}

func (rts *RoutesTestSuite) requireError(
	w *httptest.ResponseRecorder, status int, msg string,
) {
	rts.Require().Equal(status, w.Code, "body: %s", w.Body.String())
	var eb serdser.ErrorBody
	rts.decode(w, &eb)
	rts.Equal(serdser.ErrorBody{
		Status:      status,
		Description: http.StatusText(status),
		Message:     msg,
	}, eb, spew.Sdump(eb))
}

func (rts *RoutesTestSuite) TestFindProduct() {
	w := rts.do(http.MethodGet, "/product/"+itoa(rts.tv.ID), "")
	rts.Require().Equal(http.StatusOK, w.Code)
	var p model.Product
	rts.decode(w, &p)
	rts.Equal(*rts.tv, p)
	rts.NotEmpty(w.Header().Get(ginrs.RequestIDHeader))

	w = rts.do(http.MethodGet, "/product/999", "")
	rts.requireError(w, http.StatusNotFound, "Product not found")

	w = rts.do(http.MethodGet, "/product/abc", "")
	rts.requireError(w, http.StatusBadRequest,
		`Path param id="abc" is not a valid identity`,
	)

	w = rts.do(http.MethodGet, "/product/0", "")
	rts.requireError(w, http.StatusNotFound, "Product not found")
	w = rts.do(http.MethodGet, "/product/dto/-3", "")
	rts.requireError(w, http.StatusNotFound, "Product not found")
	w = rts.do(http.MethodDelete, "/product/-3", "")
	rts.requireError(w, http.StatusNotFound, "Product not found")
	w = rts.do(http.MethodPut, "/product/0", `{"description": "Radio"}`)
	rts.requireError(w, http.StatusNotFound, "Product not found")
}

func (rts *RoutesTestSuite) TestFindCityPayload() {
	w := rts.do(http.MethodGet, "/city/dto/"+itoa(rts.city.ID), "")
	rts.Require().Equal(http.StatusOK, w.Code)
	var cp model.CityPayload
	rts.decode(w, &cp)
	rts.Equal(model.CityPayload{
		ID: rts.city.ID, Name: "Palmas", DistrictID: rts.district.ID,
	}, cp)
}

func (rts *RoutesTestSuite) TestListAndSearch() {
	w := rts.do(http.MethodGet, "/product", "")
	rts.Require().Equal(http.StatusOK, w.Code)
	var ps []model.Product
	rts.decode(w, &ps)
	rts.Len(ps, 2)

	w = rts.do(http.MethodGet, "/district?name=canti", "")
	rts.Require().Equal(http.StatusOK, w.Code)
	var ds []model.District
	rts.decode(w, &ds)
	rts.Require().Len(ds, 1)
	rts.Equal("TO", ds[0].Abbreviation)

	w = rts.do(http.MethodGet, "/customer?name=nobody", "")
	rts.Require().Equal(http.StatusOK, w.Code)
	rts.JSONEq("[]", w.Body.String())

	w = rts.do(http.MethodGet, "/customer/ssn/123.456.789-01", "")
	rts.Require().Equal(http.StatusOK, w.Code)
	var cust model.Customer
	rts.decode(w, &cust)
	rts.Equal("Maria Silva", cust.Name)

	w = rts.do(http.MethodGet, "/customer/ssn/000", "")
	rts.requireError(w, http.StatusNotFound, "Customer not found")

	w = rts.do(http.MethodGet, "/customer/city/"+itoa(rts.city.ID), "")
	rts.Require().Equal(http.StatusOK, w.Code)
	var cs []model.Customer
	rts.decode(w, &cs)
	rts.Len(cs, 1)
}

func (rts *RoutesTestSuite) TestInsertDistrict() {
	w := rts.do(http.MethodPost, "/district",
		`{"name": "Goiás", "abbreviation": "GO"}`,
	)
	rts.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var d model.District
	rts.decode(w, &d)
	rts.NotZero(d.ID)
	rts.Equal(base+"/district/"+itoa(d.ID), w.Header().Get("Location"))

	w = rts.do(http.MethodPost, "/district",
		`{"name": "tocantins", "abbreviation": "TC"}`,
	)
	rts.requireError(w, http.StatusConflict,
		"There is already a District with the same value of Name",
	)

	w = rts.do(http.MethodPost, "/district", `{"name": "X"}`)
	rts.requireError(w, http.StatusConflict,
		"District.Abbreviation.required",
	)

	w = rts.do(http.MethodPost, "/district", `{"name": `)
	rts.Equal(http.StatusBadRequest, w.Code)
	w = rts.do(http.MethodPost, "/district", "")
	rts.requireError(w, http.StatusBadRequest, "Request body is missing")
	w = rts.do(http.MethodPost, "/district", " null ")
	rts.requireError(w, http.StatusBadRequest, "Request body is missing")
	rts.Equal(2, rts.sales.Districts.Len())
}

func (rts *RoutesTestSuite) TestUpdateCustomer() {
	path := "/customer/" + itoa(rts.customer.ID)
	w := rts.do(http.MethodPut, path, `{
		"id": `+itoa(rts.customer.ID)+`,
		"name": "Maria Souza",
		"socialSecurityNumber": "123.456.789-01"
	}`)
	rts.Require().Equal(http.StatusNoContent, w.Code, w.Body.String())
	rts.Empty(w.Body.String())
	cust, found := rts.sales.Customers.Get(rts.customer.ID)
	rts.Require().True(found)
	rts.Equal("Maria Souza", cust.Name)
	rts.Nil(cust.CityID)

	w = rts.do(http.MethodPut, path, `{"id": 6, "name": "X"}`)
	rts.requireError(w, http.StatusConflict,
		"The provided ID ("+itoa(rts.customer.ID)+
			") does not match the Customer ID (6)",
	)
}

func (rts *RoutesTestSuite) TestInsertPurchase() {
	body := func(productID int64, quantity int) string {
		return `{"customerId": ` + itoa(rts.customer.ID) +
			`, "items": [{"productId": ` + itoa(productID) +
			`, "quantity": ` + itoa(int64(quantity)) + `}]}`
	}
	w := rts.do(http.MethodPost, "/purchase", body(rts.tv.ID, 20))
	rts.requireError(w, http.StatusConflict,
		"Product Television is out of stock.",
	)
	w = rts.do(http.MethodPost, "/purchase", body(999, 1))
	rts.requireError(w, http.StatusNotFound, "Product not found")

	w = rts.do(http.MethodPost, "/purchase", body(rts.tv.ID, 2))
	rts.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var p model.Purchase
	rts.decode(w, &p)
	rts.Require().Len(p.Items, 1)
	rts.Equal(2, p.Items[0].Quantity)
	rts.NotNil(p.DateTime)
}

func (rts *RoutesTestSuite) TestDeleteProduct() {
	w := rts.do(http.MethodDelete, "/product/"+itoa(rts.tv.ID), "")
	rts.requireError(w, http.StatusConflict,
		"Product Television cannot be deleted because it is still in stock.",
	)

	w = rts.do(http.MethodDelete, "/product/"+itoa(rts.oven.ID), "")
	rts.Equal(http.StatusNoContent, w.Code)
	w = rts.do(http.MethodGet, "/product/"+itoa(rts.oven.ID), "")
	rts.Equal(http.StatusNotFound, w.Code)
	w = rts.do(http.MethodDelete, "/product/"+itoa(rts.oven.ID), "")
	rts.requireError(w, http.StatusNotFound, "Product not found")
}

func (rts *RoutesTestSuite) TestDeleteReferencedDistrict() {
	w := rts.do(http.MethodDelete, "/district/"+itoa(rts.district.ID), "")
	rts.requireError(w, http.StatusConflict,
		"It was not possible to delete District because there is a City associated with it",
	)
}

func (rts *RoutesTestSuite) TestAdapters() {
	reg, err := routes.Adapters()
	rts.Require().NoError(err)
	rts.Equal(
		[]string{"City", "Customer", "District", "Product", "Purchase"},
		reg.Names(),
	)
}

func itoa(i int64) string {
	return strconv.FormatInt(i, 10)
}
