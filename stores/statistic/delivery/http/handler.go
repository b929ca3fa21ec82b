package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/domaindao/goapi/base/ctx"
	"github.com/domaindao/goapi/base/delivery"
	"github.com/domaindao/goapi/domain/statistic"
	"github.com/domaindao/goapi/middleware"
)

type handler struct {
	statisticUC statistic.UseCase
}

func New(e *echo.Echo, statisticUC statistic.UseCase) {
	h := &handler{statisticUC}
	gs := e.Group("/statistics")
	gs.GET("/market", h.getMarketStats, middleware.CacheHttp(30*time.Second))
}

func (h *handler) getMarketStats(_ctx echo.Context) error {
	ctx := _ctx.Get("ctx").(ctx.Ctx)

	p := struct {
		After  int64 `query:"after"`
		Before int64 `query:"before"`
	}{}

	if err := _ctx.Bind(&p); err != nil {
		return delivery.MakeJsonResp(_ctx, http.StatusBadRequest, err)
	}

	opts := []statistic.FindOptionsFunc{}
	if p.After > 0 {
		opts = append(opts, statistic.WithAfter(time.Unix(p.After, 0)))
	}
	if p.Before > 0 {
		opts = append(opts, statistic.WithBefore(time.Unix(p.Before, 0)))
	}

	res, err := h.statisticUC.GetMarketStats(ctx, opts...)
	if err != nil {
		return delivery.MakeErrResp(_ctx, err)
	}

	return delivery.MakeJsonResp(_ctx, http.StatusOK, res)
}
