package usecase

import (
	bCtx "github.com/domaindao/goapi/base/ctx"
	"github.com/domaindao/goapi/base/log"
	"github.com/domaindao/goapi/domain/statistic"
)

type uc struct {
	statisticRepo statistic.Repo
}

func New(repo statistic.Repo) statistic.UseCase {
	return &uc{repo}
}

func (u *uc) GetMarketStats(ctx bCtx.Ctx, opts ...statistic.FindOptionsFunc) (*statistic.MarketStats, error) {
	res, err := u.statisticRepo.GetMarketStats(ctx, opts...)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
		}).Error("repo.GetMarketStats failed")
		return nil, err
	}
	return res, nil
}
