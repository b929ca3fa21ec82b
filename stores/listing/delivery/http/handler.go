package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/domaindao/goapi/base/ctx"
	"github.com/domaindao/goapi/base/delivery"
	"github.com/domaindao/goapi/domain"
	"github.com/domaindao/goapi/domain/listing"
)

type handler struct {
	listingUC listing.UseCase
}

func New(e *echo.Echo, listingUC listing.UseCase) {
	h := &handler{listingUC}

	g := e.Group("/listings")
	g.POST("", h.createListing)
	g.GET("", h.findListings)
	g.GET("/:listingId", h.getListing)
	g.POST("/:listingId/cancel", h.cancelListing)
	g.POST("/:listingId/buy", h.buy)
}

func (h *handler) createListing(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := struct {
		Seller        domain.Address `json:"seller" validate:"required"`
		TokenContract domain.Address `json:"tokenContract" validate:"required"`
		TokenId       domain.TokenId `json:"tokenId" validate:"required"`
		Price         string         `json:"price" validate:"required"`
		PaymentToken  domain.Address `json:"paymentToken" validate:"required"`
		DurationSecs  int64          `json:"durationSecs" validate:"required,gt=0"`
	}{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.listingUC.CreateListing(ctx, listing.CreateListingReq{
		Seller:        p.Seller,
		TokenContract: p.TokenContract,
		TokenId:       p.TokenId,
		Price:         p.Price,
		PaymentToken:  p.PaymentToken,
		Duration:      time.Duration(p.DurationSecs) * time.Second,
	})
	if err != nil {
		return delivery.MakeErrResp(c, err)
	}

	return delivery.MakeJsonResp(c, http.StatusCreated, res)
}

func (h *handler) findListings(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := struct {
		Seller        *domain.Address `query:"seller"`
		TokenContract *domain.Address `query:"tokenContract"`
		TokenId       *domain.TokenId `query:"tokenId"`
		IsActive      *bool           `query:"isActive"`
		Offset        int32           `query:"offset"`
		Limit         int32           `query:"limit"`
	}{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	opts := []listing.FindAllOptionsFunc{}
	if p.Seller != nil {
		opts = append(opts, listing.WithSeller(*p.Seller))
	}
	if p.TokenContract != nil && p.TokenId != nil {
		opts = append(opts, listing.WithToken(*p.TokenContract, *p.TokenId))
	}
	if p.IsActive != nil {
		opts = append(opts, listing.WithIsActive(*p.IsActive))
	}
	if p.Limit > 0 {
		opts = append(opts, listing.WithPagination(p.Offset, p.Limit))
	}

	res, err := h.listingUC.FindAll(ctx, opts...)
	if err != nil {
		return delivery.MakeErrResp(c, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) getListing(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	res, err := h.listingUC.Get(ctx, c.Param("listingId"))
	if err != nil {
		return delivery.MakeErrResp(c, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) cancelListing(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := struct {
		Requester domain.Address `json:"requester" validate:"required"`
	}{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.listingUC.CancelListing(ctx, c.Param("listingId"), p.Requester)
	if err != nil {
		return delivery.MakeErrResp(c, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) buy(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := struct {
		Buyer domain.Address `json:"buyer" validate:"required"`
	}{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.listingUC.Buy(ctx, c.Param("listingId"), p.Buyer)
	if err != nil {
		return delivery.MakeErrResp(c, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, res)
}
