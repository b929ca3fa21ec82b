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

type auctionRepoImpl struct {
	q query.Mongo
}

func NewAuctionRepo(q query.Mongo) auction.Repo {
	return &auctionRepoImpl{q}
}

func (im *auctionRepoImpl) makeQuery(opts ...auction.FindAllOptionsFunc) (bson.M, error) {
	options, err := auction.GetFindAllOptions(opts...)
	if err != nil {
		return nil, err
	}
	query := bson.M{}

	if options.Seller != nil {
		query["seller"] = *options.Seller
	}

	if options.TokenContract != nil {
		query["tokenContract"] = *options.TokenContract
	}

	if options.TokenId != nil {
		query["tokenId"] = *options.TokenId
	}

	if options.IsActive != nil {
		query["isActive"] = *options.IsActive
	}

	if options.TxHash != nil {
		query["txHash"] = *options.TxHash
	}

	endTimeQuery := bson.M{}
	if options.EndTimeAfter != nil {
		endTimeQuery["$gt"] = *options.EndTimeAfter
	}

	if options.EndTimeBefore != nil {
		endTimeQuery["$lt"] = *options.EndTimeBefore
	}

	if len(endTimeQuery) > 0 {
		query["endTime"] = endTimeQuery
	}

	return query, nil
}

func (im *auctionRepoImpl) FindAll(ctx ctx.Ctx, opts ...auction.FindAllOptionsFunc) ([]*auction.Auction, error) {
	qry, err := im.makeQuery(opts...)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
		}).Error("im.makeQuery")
		return nil, err
	}

	options, _ := auction.GetFindAllOptions(opts...)
	offset, limit := 0, 0
	if options.Offset != nil {
		offset = int(*options.Offset)
	}
	if options.Limit != nil {
		limit = int(*options.Limit)
	}

	res := []*auction.Auction{}
	err = im.q.Search(ctx, domain.TableAuctions, offset, limit, "-endTime", qry, &res)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err":   err,
			"query": qry,
		}).Error("failed to q.Search")
		return nil, err
	}

	return res, nil
}

func (im *auctionRepoImpl) Count(ctx ctx.Ctx, opts ...auction.FindAllOptionsFunc) (int, error) {
	qry, err := im.makeQuery(opts...)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
		}).Error("im.makeQuery")
		return 0, err
	}

	cnt, err := im.q.Count(ctx, domain.TableAuctions, qry)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err":   err,
			"query": qry,
		}).Error("failed to q.Count")
		return 0, err
	}

	return cnt, nil
}

func (im *auctionRepoImpl) FindOne(ctx ctx.Ctx, id auction.Id) (*auction.Auction, error) {
	qry, err := mongoclient.MakeBsonM(id)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
			"id":  id,
		}).Error("failed to mongoclient.MakeBsonM")
		return nil, err
	}

	res := auction.Auction{}
	err = im.q.FindOne(ctx, domain.TableAuctions, qry, &res)
	if err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		ctx.WithFields(log.Fields{
			"err":   err,
			"query": qry,
		}).Error("failed to q.FindOne")
		return nil, err
	}

	return &res, nil
}

func (im *auctionRepoImpl) Insert(ctx ctx.Ctx, a *auction.Auction) error {
	if err := im.q.Insert(ctx, domain.TableAuctions, a); err != nil {
		ctx.WithFields(log.Fields{
			"err":     err,
			"auction": *a,
		}).Error("failed to q.Insert")
		if err == query.ErrDuplicateKey {
			return domain.ErrConflict
		}
		return err
	}
	return nil
}

func (im *auctionRepoImpl) Update(ctx ctx.Ctx, id auction.Id, patchable auction.Patchable) error {
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

	err = im.q.Patch(ctx, domain.TableAuctions, selector, updater)
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

func (im *auctionRepoImpl) ClearSettlement(ctx ctx.Ctx, id auction.Id) error {
	selector, err := mongoclient.MakeBsonM(id)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
			"id":  id,
		}).Error("failed to mongoclient.MakeBsonM")
		return err
	}

	updater := bson.M{
		"$unset": bson.M{"txHash": "", "blockNumber": ""},
	}
	err = im.q.CustomPatch(ctx, domain.TableAuctions, selector, updater, false)
	if err == query.ErrNotFound {
		return domain.ErrNotFound
	} else if err != nil {
		ctx.WithFields(log.Fields{
			"err":      err,
			"selector": selector,
		}).Error("failed to q.CustomPatch")
		return err
	}

	return nil
}
