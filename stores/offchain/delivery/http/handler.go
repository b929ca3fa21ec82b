package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/domaindao/goapi/base/ctx"
	"github.com/domaindao/goapi/base/delivery"
	"github.com/domaindao/goapi/domain"
	"github.com/domaindao/goapi/domain/offchain"
)

type handler struct {
	offchainUC offchain.UseCase
}

func New(e *echo.Echo, offchainUC offchain.UseCase) {
	h := &handler{offchainUC}

	g := e.Group("/offchain-transactions")
	g.POST("", h.verifyAndSettle)
	g.GET("", h.findTransactions)
	g.GET("/:id", h.getTransaction)
	g.POST("/:id/tx-hash", h.attachTxHash)
}

func (h *handler) verifyAndSettle(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := offchain.SettleReq{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.offchainUC.VerifyAndSettle(ctx, p)
	if err != nil {
		return delivery.MakeErrResp(c, err)
	}

	return delivery.MakeJsonResp(c, http.StatusCreated, res)
}

func (h *handler) findTransactions(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := struct {
		TokenId *domain.TokenId `query:"tokenId"`
		Seller  *domain.Address `query:"seller"`
		Buyer   *domain.Address `query:"buyer"`
		Offset  int32           `query:"offset"`
		Limit   int32           `query:"limit"`
	}{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	opts := []offchain.FindAllOptionsFunc{}
	if p.TokenId != nil {
		opts = append(opts, offchain.WithTokenId(*p.TokenId))
	}
	if p.Seller != nil {
		opts = append(opts, offchain.WithSeller(*p.Seller))
	}
	if p.Buyer != nil {
		opts = append(opts, offchain.WithBuyer(*p.Buyer))
	}
	if p.Limit > 0 {
		opts = append(opts, offchain.WithPagination(p.Offset, p.Limit))
	}

	res, err := h.offchainUC.FindAll(ctx, opts...)
	if err != nil {
		return delivery.MakeErrResp(c, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) getTransaction(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	res, err := h.offchainUC.Get(ctx, c.Param("id"))
	if err != nil {
		return delivery.MakeErrResp(c, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) attachTxHash(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := struct {
		TxHash      domain.TxHash      `json:"txHash" validate:"required"`
		BlockNumber domain.BlockNumber `json:"blockNumber" validate:"required"`
	}{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.offchainUC.AttachTxHash(ctx, c.Param("id"), p.TxHash, p.BlockNumber)
	if err != nil {
		return delivery.MakeErrResp(c, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, res)
}
