package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/domaindao/goapi/base/ctx"
	"github.com/domaindao/goapi/base/delivery"
	"github.com/domaindao/goapi/domain"
	"github.com/domaindao/goapi/domain/auction"
)

type handler struct {
	auctionUC auction.UseCase
}

func New(e *echo.Echo, auctionUC auction.UseCase) {
	h := &handler{auctionUC}

	g := e.Group("/auctions")
	g.POST("", h.createAuction)
	g.GET("", h.findAuctions)
	g.GET("/:auctionId", h.getAuction)
	g.GET("/:auctionId/bids", h.getBids)
	g.POST("/:auctionId/bids", h.placeBid)
	g.POST("/:auctionId/end", h.endAuction)
	g.POST("/:auctionId/cancel", h.cancelAuction)
}

func (h *handler) createAuction(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := struct {
		Seller        domain.Address `json:"seller" validate:"required"`
		TokenContract domain.Address `json:"tokenContract" validate:"required"`
		TokenId       domain.TokenId `json:"tokenId" validate:"required"`
		StartingPrice string         `json:"startingPrice" validate:"required"`
		ReservePrice  string         `json:"reservePrice" validate:"required"`
		PaymentToken  domain.Address `json:"paymentToken" validate:"required"`
		DurationSecs  int64          `json:"durationSecs" validate:"required,gt=0"`
	}{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.auctionUC.CreateAuction(ctx, auction.CreateAuctionReq{
		Seller:        p.Seller,
		TokenContract: p.TokenContract,
		TokenId:       p.TokenId,
		StartingPrice: p.StartingPrice,
		ReservePrice:  p.ReservePrice,
		PaymentToken:  p.PaymentToken,
		Duration:      time.Duration(p.DurationSecs) * time.Second,
	})
	if err != nil {
		return delivery.MakeErrResp(c, err)
	}

	return delivery.MakeJsonResp(c, http.StatusCreated, res)
}

func (h *handler) findAuctions(c echo.Context) error {
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

	opts := []auction.FindAllOptionsFunc{}
	if p.Seller != nil {
		opts = append(opts, auction.WithSeller(*p.Seller))
	}
	if p.TokenContract != nil && p.TokenId != nil {
		opts = append(opts, auction.WithToken(*p.TokenContract, *p.TokenId))
	}
	if p.IsActive != nil {
		opts = append(opts, auction.WithIsActive(*p.IsActive))
	}
	if p.Limit > 0 {
		opts = append(opts, auction.WithPagination(p.Offset, p.Limit))
	}

	res, err := h.auctionUC.FindAll(ctx, opts...)
	if err != nil {
		return delivery.MakeErrResp(c, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) getAuction(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	res, err := h.auctionUC.Get(ctx, c.Param("auctionId"))
	if err != nil {
		return delivery.MakeErrResp(c, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) getBids(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	res, err := h.auctionUC.GetBids(ctx, c.Param("auctionId"))
	if err != nil {
		return delivery.MakeErrResp(c, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) placeBid(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := struct {
		Bidder domain.Address `json:"bidder" validate:"required"`
		Amount string         `json:"amount" validate:"required"`
		TxHash domain.TxHash  `json:"txHash"`
	}{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.auctionUC.PlaceBid(ctx, c.Param("auctionId"), p.Bidder, p.Amount, p.TxHash)
	if err != nil {
		return delivery.MakeErrResp(c, err)
	}

	return delivery.MakeJsonResp(c, http.StatusCreated, res)
}

func (h *handler) endAuction(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := struct {
		Finalizer domain.Address `json:"finalizer" validate:"required"`
	}{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.auctionUC.EndAuction(ctx, c.Param("auctionId"), p.Finalizer)
	if err != nil {
		return delivery.MakeErrResp(c, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) cancelAuction(c echo.Context) error {
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

	res, err := h.auctionUC.CancelAuction(ctx, c.Param("auctionId"), p.Requester)
	if err != nil {
		return delivery.MakeErrResp(c, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, res)
}
