package repository

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/domaindao/goapi/base/ctx"
	"github.com/domaindao/goapi/base/database/mongoclient"
	"github.com/domaindao/goapi/base/log"
	"github.com/domaindao/goapi/domain"
	"github.com/domaindao/goapi/domain/auction"
	"github.com/domaindao/goapi/service/query"
)

type bidRepoImpl struct {
	q query.Mongo
}

func NewBidRepo(q query.Mongo) auction.BidRepo {
	return &bidRepoImpl{q}
}

func (im *bidRepoImpl) makeQuery(opts ...auction.BidFindAllOptionsFunc) (bson.M, error) {
	options, err := auction.GetBidFindAllOptions(opts...)
	if err != nil {
		return nil, err
	}
	query := bson.M{}

	if options.AuctionId != nil {
		query["auctionId"] = *options.AuctionId
	}

	if options.Bidder != nil {
		query["bidder"] = *options.Bidder
	}

	if options.IsActive != nil {
		query["isActive"] = *options.IsActive
	}

	return query, nil
}

func (im *bidRepoImpl) FindAll(ctx ctx.Ctx, opts ...auction.BidFindAllOptionsFunc) ([]*auction.Bid, error) {
	qry, err := im.makeQuery(opts...)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
		}).Error("im.makeQuery")
		return nil, err
	}

	options, _ := auction.GetBidFindAllOptions(opts...)
	offset, limit := 0, 0
	if options.Offset != nil {
		offset = int(*options.Offset)
	}
	if options.Limit != nil {
		limit = int(*options.Limit)
	}

	res := []*auction.Bid{}
	err = im.q.Search(ctx, domain.TableBids, offset, limit, "timestamp", qry, &res)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err":   err,
			"query": qry,
		}).Error("failed to q.Search")
		return nil, err
	}

	return res, nil
}

func (im *bidRepoImpl) Count(ctx ctx.Ctx, opts ...auction.BidFindAllOptionsFunc) (int, error) {
	qry, err := im.makeQuery(opts...)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
		}).Error("im.makeQuery")
		return 0, err
	}

	cnt, err := im.q.Count(ctx, domain.TableBids, qry)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err":   err,
			"query": qry,
		}).Error("failed to q.Count")
		return 0, err
	}

	return cnt, nil
}

func (im *bidRepoImpl) Insert(ctx ctx.Ctx, b *auction.Bid) error {
	if err := im.q.Insert(ctx, domain.TableBids, b); err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
			"bid": *b,
		}).Error("failed to q.Insert")
		if err == query.ErrDuplicateKey {
			return domain.ErrConflict
		}
		return err
	}
	return nil
}

func (im *bidRepoImpl) Update(ctx ctx.Ctx, id auction.BidId, patchable auction.BidPatchable) error {
	selector, err := mongoclient.MakeBsonM(id)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
			"id":  id,
		}).Error("failed to mongoclient.MakeBsonM")
		return err
	}

	updater, err := mongoclient.MakeBsonM(patchable)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err":       err,
			"patchable": patchable,
		}).Error("failed to mongoclient.MakeBsonM")
		return err
	}

	err = im.q.Patch(ctx, domain.TableBids, selector, updater)
	if err == query.ErrNotFound {
		return domain.ErrNotFound
	} else if err != nil {
		ctx.WithFields(log.Fields{
			"err":      err,
			"selector": selector,
			"updater":  updater,
		}).Error("failed to q.Patch")
		return err
	}

	return nil
}
