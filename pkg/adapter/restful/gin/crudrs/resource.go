// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package crudrs realizes a generic CRUD resource, allowing the REST
// APIs of one entity type to be accepted and delegated to its CRUD
// use case. Request and response bodies are converted from/to the
// entities by a wire.Adapter, so entities may be exchanged as they are
// or as their restricted payload representations.
package crudrs

import (
	"context"
	"net/http"
	"path"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/momeni/clean-sales/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/clean-sales/pkg/core/cerr"
	"github.com/momeni/clean-sales/pkg/core/model"
	"github.com/momeni/clean-sales/pkg/core/wire"
)

// UseCase lists the CRUD operations which are required by a resource.
// The crudsuc.UseCase implements it.
type UseCase[E model.Entity] interface {
	TypeName() string
	FindByID(ctx context.Context, id int64) (E, bool, error)
	FindAll(ctx context.Context) ([]E, error)
	Insert(ctx context.Context, e E) (E, error)
	Update(ctx context.Context, id int64, e E) error
	DeleteByID(ctx context.Context, id int64) (bool, error)
}

// Resource adapts a CRUD use case of E entities with REST APIs
// which exchange P payloads.
type Resource[E model.Entity, P any] struct {
	uc       UseCase[E]
	adapter  wire.Adapter[E, P]
	group    *gin.RouterGroup
	searches []search[E]
}

// Register instantiates a resource adapting the uc use case with
// the following REST APIs, relative to the segment sub-path of r:
//  1. GET  /:id      in order to fetch one entity,
//  2. GET  /dto/:id  in order to fetch one entity payload,
//  3. GET  /         in order to list all entities,
//  4. POST /         in order to create an entity (201 + Location),
//  5. PUT  /:id      in order to update an entity (204),
//  6. DELETE /:id    in order to delete an entity (204).
//
// The returned Resource exposes its router group, so type specific
// routes may be registered beside the CRUD routes.
func Register[E model.Entity, P any](
	r *gin.RouterGroup,
	segment string,
	uc UseCase[E],
	a wire.Adapter[E, P],
	opts ...Option[E],
) *Resource[E, P] {
	s := &settings[E]{}
	for _, opt := range opts {
		opt(s)
	}
	rs := &Resource[E, P]{
		uc:       uc,
		adapter:  a,
		group:    r.Group(segment),
		searches: s.searches,
	}
	rs.group.GET(":id", rs.FindByID)
	rs.group.GET("dto/:id", rs.FindPayloadByID)
	rs.group.GET("", rs.FindAll)
	rs.group.POST("", rs.Insert)
	rs.group.PUT(":id", rs.Update)
	rs.group.DELETE(":id", rs.DeleteByID)
	return rs
}

// Group returns the router group of rs.
func (rs *Resource[E, P]) Group() *gin.RouterGroup {
	return rs.group
}

func (rs *Resource[E, P]) find(c *gin.Context) (e E, ok bool) {
	id, ok := serdser.ParamID(c, "id")
	if !ok {
		return e, false
	}
	e, found, err := rs.uc.FindByID(c.Request.Context(), id)
	switch {
	case err != nil:
		serdser.SerErr(c, err)
		return e, false
	case !found:
		serdser.SerErr(c, cerr.NotFoundf("%s not found", rs.uc.TypeName()))
		return e, false
	}
	return e, true
}

func (rs *Resource[E, P]) FindByID(c *gin.Context) {
	if e, ok := rs.find(c); ok {
		c.JSON(http.StatusOK, e)
	}
}

func (rs *Resource[E, P]) FindPayloadByID(c *gin.Context) {
	if e, ok := rs.find(c); ok {
		c.JSON(http.StatusOK, rs.adapter.FromEntity(e))
	}
}

// FindAll lists all entities, unless a search query parameter is
// given. In that case, the matching entities are listed.
func (rs *Resource[E, P]) FindAll(c *gin.Context) {
	ctx := c.Request.Context()
	list := rs.uc.FindAll
	for _, s := range rs.searches {
		if v, ok := c.GetQuery(s.query); ok {
			list = func(ctx context.Context) ([]E, error) {
				return s.find(ctx, v)
			}
			break
		}
	}
	es, err := list(ctx)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	if es == nil {
		es = []E{}
	}
	c.JSON(http.StatusOK, es)
}

func (rs *Resource[E, P]) Insert(c *gin.Context) {
	var p P
	if !serdser.Bind(c, &p) {
		return
	}
	e, err := rs.uc.Insert(c.Request.Context(), rs.adapter.ToEntity(p))
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	loc := path.Join(rs.group.BasePath(), strconv.FormatInt(e.GetID(), 10))
	c.Header("Location", loc)
	c.JSON(http.StatusCreated, e)
}

func (rs *Resource[E, P]) Update(c *gin.Context) {
	id, ok := serdser.ParamID(c, "id")
	if !ok {
		return
	}
	var p P
	if !serdser.Bind(c, &p) {
		return
	}
	err := rs.uc.Update(c.Request.Context(), id, rs.adapter.ToEntity(p))
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (rs *Resource[E, P]) DeleteByID(c *gin.Context) {
	id, ok := serdser.ParamID(c, "id")
	if !ok {
		return
	}
	deleted, err := rs.uc.DeleteByID(c.Request.Context(), id)
	switch {
	case err != nil:
		serdser.SerErr(c, err)
	case !deleted:
		serdser.SerErr(c, cerr.NotFoundf("%s not found", rs.uc.TypeName()))
	default:
		c.Status(http.StatusNoContent)
	}
}
