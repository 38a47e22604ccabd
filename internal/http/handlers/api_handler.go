// JSON API handlers.
//
// This file exposes the read-only JSON:API view of the catalog:
//   - GET /plats         (paginated listing, optional name filter, ETag support)
//   - GET /plats/{id}    (one dish with its authorship trail)
//
// Paths are relative to the API base path (default /api). Links in the
// documents are absolute URLs built from the incoming request.
package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/recettes/internal/domain"
	"github.com/tbourn/recettes/internal/services"
	"github.com/tbourn/recettes/internal/utils"
)

//
// DTOs
//

// DishAttributes are the attributes of a dish document.
type DishAttributes struct {
	Name       string `json:"name" example:"Tarte aux pommes"`
	Type       string `json:"type" example:"Dessert"`
	Guests     int    `json:"nombre_convives" example:"6"`
	RecipeLink string `json:"lien_recette" example:"https://example.org/tarte"`
}

// DishLinks points to the HTML page and the JSON document of a dish.
type DishLinks struct {
	Self string `json:"self" example:"http://localhost:8080/plats/1"`
	JSON string `json:"json" example:"http://localhost:8080/api/plats/1"`
}

// PersonDocument identifies the author of an edition.
type PersonDocument struct {
	Type       string           `json:"type" example:"people"`
	Attributes PersonAttributes `json:"attributes"`
}

// PersonAttributes carries the author's surname.
type PersonAttributes struct {
	Name string `json:"name" example:"Dupont"`
}

// Edition is one authorship entry of a dish.
type Edition struct {
	Author PersonDocument `json:"author"`
	On     time.Time      `json:"on"`
}

// DishRelationships lists the editions of a dish, oldest first.
type DishRelationships struct {
	Editions []Edition `json:"editions"`
}

// DishDocument is the JSON:API resource of a dish.
type DishDocument struct {
	Type          string            `json:"type" example:"plat"`
	ID            uint              `json:"id" example:"1"`
	Attributes    DishAttributes    `json:"attributes"`
	Links         DishLinks         `json:"links"`
	Relationships DishRelationships `json:"relationships"`
}

// ListLinks are the navigation links of a listing.
type ListLinks struct {
	Self string `json:"self" example:"http://localhost:8080/api/plats?page=2"`
	Next string `json:"next,omitempty" example:"http://localhost:8080/api/plats?page=3"`
	Prev string `json:"prev,omitempty" example:"http://localhost:8080/api/plats?page=1"`
}

// DishListDocument is one page of dishes.
type DishListDocument struct {
	Links ListLinks      `json:"links"`
	Data  []DishDocument `json:"data"`
}

//
// Helpers
//

// origin returns scheme://host of the request, honoring X-Forwarded-Proto.
func origin(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil || strings.EqualFold(c.GetHeader("X-Forwarded-Proto"), "https") {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}

func (h *Handlers) dishDocument(base string, d domain.Dish, editions []domain.Authorship) DishDocument {
	id := strconv.FormatUint(uint64(d.ID), 10)
	doc := DishDocument{
		Type: "plat",
		ID:   d.ID,
		Attributes: DishAttributes{
			Name:       d.Name,
			Type:       d.Category,
			Guests:     d.Guests,
			RecipeLink: d.RecipeLink,
		},
		Links: DishLinks{
			Self: base + "/plats/" + id,
			JSON: base + h.apiBase + "/plats/" + id,
		},
		Relationships: DishRelationships{Editions: make([]Edition, 0, len(editions))},
	}
	for _, a := range editions {
		e := Edition{Author: PersonDocument{Type: "people"}, On: a.At}
		if a.User != nil {
			e.Author.Attributes.Name = a.User.Surname
		}
		doc.Relationships.Editions = append(doc.Relationships.Editions, e)
	}
	return doc
}

func pageLink(base, path string, page int, q string) string {
	v := url.Values{}
	v.Set("page", strconv.Itoa(page))
	if q != "" {
		v.Set("q", q)
	}
	return base + path + "?" + v.Encode()
}

//
// Handlers
//

// APIListDishes godoc
// @ID          listPlats
// @Summary     List dishes (paginated)
// @Description Returns one page of dishes, optionally filtered by name. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Plats
// @Produce     json
//
// @Param       q              query   string  false "Name filter (substring)"     example(tarte)
// @Param       page           query   int     false "Page number"                 minimum(1) default(1)
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"  example(W/\"plats:12:1700000000123456789:1:\")
//
// @Success     200  {object} handlers.DishListDocument
// @Header      200  {string} ETag  "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     404  {object} handlers.NotFoundResponse "Page out of range"
// @Failure     500  {object} handlers.ErrorResponse    "Internal error"
// @Router      /plats [get]
func (h *Handlers) APIListDishes(c *gin.Context) {
	ctx := c.Request.Context()
	q := strings.TrimSpace(c.Query("q"))
	page := utils.ParsePage(c.Query("page"))

	// ETag pre-check (best effort).
	if count, maxTS, err := h.dishes.Stats(ctx); err == nil {
		var ts int64
		if maxTS != nil {
			ts = maxTS.UnixNano()
		}
		etag := `W/"plats:` + strconv.FormatInt(count, 10) + ":" + strconv.FormatInt(ts, 10) +
			":" + strconv.Itoa(page) + ":" + url.QueryEscape(q) + `"`
		c.Header("ETag", etag)
		if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
			c.Status(http.StatusNotModified)
			return
		}
	}

	p, err := h.dishes.Browse(ctx, q, page)
	if errors.Is(err, services.ErrPageOutOfRange) {
		notFoundJSON(c)
		return
	}
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}

	base := origin(c)
	doc := DishListDocument{
		Links: ListLinks{Self: base + c.Request.URL.RequestURI()},
		Data:  make([]DishDocument, 0, len(p.Items)),
	}
	for _, d := range p.Items {
		editions, err := h.dishes.Editions(ctx, d.ID)
		if err != nil {
			fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
			return
		}
		doc.Data = append(doc.Data, h.dishDocument(base, d, editions))
	}
	path := c.Request.URL.Path
	if p.HasNext() {
		doc.Links.Next = pageLink(base, path, p.NextNum(), q)
	}
	if p.HasPrev() {
		doc.Links.Prev = pageLink(base, path, p.PrevNum(), q)
	}
	ok(c, http.StatusOK, doc)
}

// APIGetDish godoc
// @ID          getPlat
// @Summary     Get a dish
// @Description Returns one dish with its editions (who created or modified it, and when).
// @Tags        Plats
// @Produce     json
//
// @Param       id  path  int  true  "Dish ID"  minimum(1) example(1)
//
// @Success     200  {object} handlers.DishDocument
// @Failure     404  {object} handlers.NotFoundResponse "Dish not found"
// @Failure     500  {object} handlers.ErrorResponse    "Internal error"
// @Router      /plats/{id} [get]
func (h *Handlers) APIGetDish(c *gin.Context) {
	ctx := c.Request.Context()
	id, valid := utils.ParseID(c.Param("id"))
	if !valid {
		notFoundJSON(c)
		return
	}
	d, err := h.dishes.Get(ctx, id)
	if errors.Is(err, services.ErrDishNotFound) {
		notFoundJSON(c)
		return
	}
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeLookupFailed, err.Error())
		return
	}
	editions, err := h.dishes.Editions(ctx, id)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeLookupFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, h.dishDocument(origin(c), *d, editions))
}
