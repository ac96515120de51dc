// collections.go
//
// Landing page content service with lead capture
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of jam-build-landing.
// jam-build-landing is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// jam-build-landing is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with jam-build-landing.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/jam-build-landing/internal/collections"
	"github.com/localnerve/jam-build-landing/internal/documents"
	"github.com/localnerve/jam-build-landing/internal/utils"
)

var errUnknownCollection = errors.New("unknown collection")

// collectionAdmin is the untyped view of collections.Admin the routes dispatch to
type collectionAdmin interface {
	Status() collections.SaveStatus
	Fields() []string
	Get(ctx context.Context) any
	Add(ctx context.Context) (item any, doc any, version uint64, err error)
	Update(ctx context.Context, id, field, value string) (any, uint64, error)
	Delete(ctx context.Context, id string, confirmed bool) (any, uint64, error)
	SetConfig(ctx context.Context, field, value string) (any, uint64, error)
	Move(ctx context.Context, from, to int) (any, uint64, error)
}

type collectionRoutes[T documents.Item] struct {
	admin *collections.Admin[T]
}

func (r *collectionRoutes[T]) Status() collections.SaveStatus { return r.admin.Indicator().Status() }
func (r *collectionRoutes[T]) Fields() []string               { return collections.Fields[T]() }
func (r *collectionRoutes[T]) Get(ctx context.Context) any    { return r.admin.Get(ctx) }

func (r *collectionRoutes[T]) Add(ctx context.Context) (any, any, uint64, error) {
	return r.admin.Add(ctx)
}

func (r *collectionRoutes[T]) Update(ctx context.Context, id, field, value string) (any, uint64, error) {
	return r.admin.Update(ctx, id, field, value)
}

func (r *collectionRoutes[T]) Delete(ctx context.Context, id string, confirmed bool) (any, uint64, error) {
	return r.admin.Delete(ctx, id, confirmed)
}

func (r *collectionRoutes[T]) SetConfig(ctx context.Context, field, value string) (any, uint64, error) {
	return r.admin.SetConfig(ctx, field, value)
}

func (r *collectionRoutes[T]) Move(ctx context.Context, from, to int) (any, uint64, error) {
	return r.admin.Move(ctx, from, to)
}

func (h *Handlers) collection(c *fiber.Ctx) (collectionAdmin, error) {
	name := c.Params("collection")
	admin, ok := h.collections[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errUnknownCollection, name)
	}
	return admin, nil
}

// fieldChange is the body of the item and config PATCH routes
type fieldChange struct {
	Field string      `json:"field"`
	Value interface{} `json:"value" swaggertype:"string"`
}

func parseFieldChange(c *fiber.Ctx) (string, string, bool) {
	var body struct {
		Field string          `json:"field"`
		Value json.RawMessage `json:"value"`
	}
	if err := c.BodyParser(&body); err != nil || body.Field == "" {
		return "", "", false
	}
	value, ok := scalarValue(body.Value)
	return body.Field, value, ok
}

type moveRequest struct {
	From *int `json:"from"`
	To   *int `json:"to"`
}

func parseMove(c *fiber.Ctx) (int, int, bool) {
	var body moveRequest
	if err := c.BodyParser(&body); err != nil || body.From == nil || body.To == nil {
		return 0, 0, false
	}
	return *body.From, *body.To, true
}

// GetCollection handles GET /api/admin/collections/:collection
// @Summary Get a content collection for editing
// @Description The collection document, its editable item fields and the save indicator state
// @Tags Collections
// @Produce json
// @Param collection path string true "faq, depoimentos or galeria"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /admin/collections/{collection} [get]
func (h *Handlers) GetCollection(c *fiber.Ctx) error {
	admin, err := h.collection(c)
	if err != nil {
		return apiError(err, "collections.get")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data":       admin.Get(c.UserContext()),
		"fields":     admin.Fields(),
		"saveStatus": admin.Status(),
	})
}

// AddCollectionItem handles POST /api/admin/collections/:collection/items
// @Summary Add a placeholder item
// @Tags Collections
// @Produce json
// @Param collection path string true "faq, depoimentos or galeria"
// @Success 201 {object} utils.SuccessResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /admin/collections/{collection}/items [post]
func (h *Handlers) AddCollectionItem(c *fiber.Ctx) error {
	admin, err := h.collection(c)
	if err != nil {
		return apiError(err, "collections.add")
	}
	item, doc, version, err := admin.Add(c.UserContext())
	if err != nil {
		return apiError(err, "collections.add")
	}
	return utils.SavedResponse(c, fiber.StatusCreated, version, fiber.Map{"item": item, "collection": doc}, string(admin.Status()))
}

// UpdateCollectionItem handles PATCH /api/admin/collections/:collection/items/:id
// @Summary Set one field of an item
// @Description An unknown id changes nothing and reports changed=false
// @Tags Collections
// @Accept json
// @Produce json
// @Param collection path string true "faq, depoimentos or galeria"
// @Param id path string true "Item id"
// @Param body body fieldChange true "Field name and new value"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /admin/collections/{collection}/items/{id} [patch]
func (h *Handlers) UpdateCollectionItem(c *fiber.Ctx) error {
	admin, err := h.collection(c)
	if err != nil {
		return apiError(err, "collections.update")
	}
	field, value, ok := parseFieldChange(c)
	if !ok {
		return badInput("collections.validation.input")
	}
	doc, version, err := admin.Update(c.UserContext(), c.Params("id"), field, value)
	if err != nil {
		return apiError(err, "collections.update")
	}
	return utils.SavedResponse(c, fiber.StatusOK, version, doc, string(admin.Status()))
}

// DeleteCollectionItem handles DELETE /api/admin/collections/:collection/items/:id?confirm=true
// @Summary Delete an item
// @Tags Collections
// @Produce json
// @Param collection path string true "faq, depoimentos or galeria"
// @Param id path string true "Item id"
// @Param confirm query bool true "Must be true"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /admin/collections/{collection}/items/{id} [delete]
func (h *Handlers) DeleteCollectionItem(c *fiber.Ctx) error {
	admin, err := h.collection(c)
	if err != nil {
		return apiError(err, "collections.delete")
	}
	doc, version, err := admin.Delete(c.UserContext(), c.Params("id"), confirmed(c))
	if err != nil {
		return apiError(err, "collections.delete")
	}
	return utils.SavedResponse(c, fiber.StatusOK, version, doc, string(admin.Status()))
}

// SetCollectionConfig handles PATCH /api/admin/collections/:collection/config
// @Summary Change the section title, subtitle or active flag
// @Tags Collections
// @Accept json
// @Produce json
// @Param collection path string true "faq, depoimentos or galeria"
// @Param body body fieldChange true "title, subtitle or active"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /admin/collections/{collection}/config [patch]
func (h *Handlers) SetCollectionConfig(c *fiber.Ctx) error {
	admin, err := h.collection(c)
	if err != nil {
		return apiError(err, "collections.config")
	}
	field, value, ok := parseFieldChange(c)
	if !ok {
		return badInput("collections.validation.input")
	}
	doc, version, err := admin.SetConfig(c.UserContext(), field, value)
	if err != nil {
		return apiError(err, "collections.config")
	}
	return utils.SavedResponse(c, fiber.StatusOK, version, doc, string(admin.Status()))
}

// MoveCollectionItem handles POST /api/admin/collections/:collection/move
// @Summary Reorder an item
// @Description Array position is the display order
// @Tags Collections
// @Accept json
// @Produce json
// @Param collection path string true "galeria"
// @Param body body moveRequest true "From and to positions"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /admin/collections/{collection}/move [post]
func (h *Handlers) MoveCollectionItem(c *fiber.Ctx) error {
	admin, err := h.collection(c)
	if err != nil {
		return apiError(err, "collections.move")
	}
	from, to, ok := parseMove(c)
	if !ok {
		return badInput("collections.validation.input")
	}
	doc, version, err := admin.Move(c.UserContext(), from, to)
	if err != nil {
		return apiError(err, "collections.move")
	}
	return utils.SavedResponse(c, fiber.StatusOK, version, doc, string(admin.Status()))
}
