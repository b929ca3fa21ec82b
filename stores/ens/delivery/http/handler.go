package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/domaindao/goapi/base/ctx"
	"github.com/domaindao/goapi/base/delivery"
	"github.com/domaindao/goapi/domain"
	"github.com/domaindao/goapi/service/ens"
)

type handler struct {
	ens ens.ENS
}

func New(e *echo.Echo, ens ens.ENS) {
	h := &handler{
		ens,
	}

	g := e.Group("/ens")

	g.GET("/resolve/:name", h.resolve)

	g.GET("/reverse-resolve/:address", h.reverseResolve)

	g.GET("/token-id/:name", h.tokenId)
}

func (h *handler) resolve(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := struct {
		Name string `param:"name" validate:"required"`
	}{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	address, err := h.ens.Resolve(ctx, p.Name)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, address)
}

func (h *handler) reverseResolve(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := struct {
		Address domain.Address `param:"address" validate:"required"`
	}{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	name, err := h.ens.ReverseResolve(ctx, p.Address)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, name)
}

func (h *handler) tokenId(c echo.Context) error {
	p := struct {
		Name string `param:"name" validate:"required"`
	}{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	tokenId, err := h.ens.TokenId(p.Name)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, tokenId)
}
