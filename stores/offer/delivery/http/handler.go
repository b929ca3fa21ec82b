package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/domaindao/goapi/base/ctx"
	"github.com/domaindao/goapi/base/delivery"
	"github.com/domaindao/goapi/domain"
	"github.com/domaindao/goapi/domain/offer"
)

type handler struct {
	offerUC offer.UseCase
}

func New(e *echo.Echo, offerUC offer.UseCase) {
	h := &handler{offerUC}

	g := e.Group("/offers")
	g.POST("", h.makeOffer)
	g.GET("", h.findOffers)
	g.GET("/:offerId", h.getOffer)
	g.POST("/:offerId/accept", h.acceptOffer)
	g.POST("/reject", h.rejectOffers)
}

func (h *handler) makeOffer(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := struct {
		DomainOwner domain.Address `json:"domainOwner" validate:"required"`
		OfferMaker  domain.Address `json:"offerMaker" validate:"required"`
		TokenId     domain.TokenId `json:"tokenId" validate:"required"`
		Price       string         `json:"price" validate:"required"`
		OfferUntil  time.Time      `json:"offerUntil" validate:"required"`
	}{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.offerUC.MakeOffer(ctx, offer.MakeOfferReq{
		DomainOwner: p.DomainOwner,
		OfferMaker:  p.OfferMaker,
		TokenId:     p.TokenId,
		Price:       p.Price,
		OfferUntil:  p.OfferUntil,
	})
	if err != nil {
		return delivery.MakeErrResp(c, err)
	}

	return delivery.MakeJsonResp(c, http.StatusCreated, res)
}

func (h *handler) findOffers(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := struct {
		DomainOwner *domain.Address `query:"domainOwner"`
		OfferMaker  *domain.Address `query:"offerMaker"`
		TokenId     *domain.TokenId `query:"tokenId"`
		Offset      int32           `query:"offset"`
		Limit       int32           `query:"limit"`
	}{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	opts := []offer.FindAllOptionsFunc{}
	if p.DomainOwner != nil {
		opts = append(opts, offer.WithDomainOwner(*p.DomainOwner))
	}
	if p.OfferMaker != nil {
		opts = append(opts, offer.WithOfferMaker(*p.OfferMaker))
	}
	if p.TokenId != nil {
		opts = append(opts, offer.WithTokenId(*p.TokenId))
	}
	if p.Limit > 0 {
		opts = append(opts, offer.WithPagination(p.Offset, p.Limit))
	}

	res, err := h.offerUC.FindAll(ctx, opts...)
	if err != nil {
		return delivery.MakeErrResp(c, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) getOffer(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	res, err := h.offerUC.Get(ctx, c.Param("offerId"))
	if err != nil {
		return delivery.MakeErrResp(c, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) acceptOffer(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := struct {
		Acceptor domain.Address `json:"acceptor" validate:"required"`
	}{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.offerUC.AcceptOffer(ctx, c.Param("offerId"), p.Acceptor)
	if err != nil {
		return delivery.MakeErrResp(c, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) rejectOffers(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := struct {
		OfferIds []string `json:"offerIds" validate:"required,min=1"`
		Reason   string   `json:"reason"`
	}{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.offerUC.RejectOffers(ctx, p.OfferIds, p.Reason)
	if err != nil {
		return delivery.MakeErrResp(c, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, res)
}
