package repository

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/domaindao/goapi/base/ctx"
	"github.com/domaindao/goapi/base/database/mongoclient"
	"github.com/domaindao/goapi/base/log"
	"github.com/domaindao/goapi/domain"
	"github.com/domaindao/goapi/domain/offer"
	"github.com/domaindao/goapi/service/query"
)

type offerRepoImpl struct {
	q query.Mongo
}

func NewOfferRepo(q query.Mongo) offer.Repo {
	return &offerRepoImpl{q}
}

func (im *offerRepoImpl) makeQuery(opts ...offer.FindAllOptionsFunc) (bson.M, error) {
	options, err := offer.GetFindAllOptions(opts...)
	if err != nil {
		return nil, err
	}
	query := bson.M{}

	if options.DomainOwner != nil {
		query["domainOwner"] = *options.DomainOwner
	}

	if options.OfferMaker != nil {
		query["offerMaker"] = *options.OfferMaker
	}

	if options.TokenId != nil {
		query["tokenId"] = *options.TokenId
	}

	if options.TxHash != nil {
		query["txHash"] = *options.TxHash
	}

	offeredAtQuery := bson.M{}
	if options.OfferedAfter != nil {
		offeredAtQuery["$gt"] = *options.OfferedAfter
	}

	if options.OfferedBefore != nil {
		offeredAtQuery["$lt"] = *options.OfferedBefore
	}

	if len(offeredAtQuery) > 0 {
		query["offeredAt"] = offeredAtQuery
	}

	return query, nil
}

func (im *offerRepoImpl) FindAll(ctx ctx.Ctx, opts ...offer.FindAllOptionsFunc) ([]*offer.Offer, error) {
	qry, err := im.makeQuery(opts...)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
		}).Error("im.makeQuery")
		return nil, err
	}

	options, _ := offer.GetFindAllOptions(opts...)
	offset, limit := 0, 0
	if options.Offset != nil {
		offset = int(*options.Offset)
	}
	if options.Limit != nil {
		limit = int(*options.Limit)
	}

	res := []*offer.Offer{}
	err = im.q.Search(ctx, domain.TableOffers, offset, limit, "-offeredAt", qry, &res)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err":   err,
			"query": qry,
		}).Error("failed to q.Search")
		return nil, err
	}

	return res, nil
}

func (im *offerRepoImpl) Count(ctx ctx.Ctx, opts ...offer.FindAllOptionsFunc) (int, error) {
	qry, err := im.makeQuery(opts...)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
		}).Error("im.makeQuery")
		return 0, err
	}

	cnt, err := im.q.Count(ctx, domain.TableOffers, qry)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err":   err,
			"query": qry,
		}).Error("failed to q.Count")
		return 0, err
	}

	return cnt, nil
}

func (im *offerRepoImpl) FindOne(ctx ctx.Ctx, id offer.Id) (*offer.Offer, error) {
	qry, err := mongoclient.MakeBsonM(id)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
			"id":  id,
		}).Error("failed to mongoclient.MakeBsonM")
		return nil, err
	}

	res := offer.Offer{}
	err = im.q.FindOne(ctx, domain.TableOffers, qry, &res)
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

func (im *offerRepoImpl) Insert(ctx ctx.Ctx, o *offer.Offer) error {
	if err := im.q.Insert(ctx, domain.TableOffers, o); err != nil {
		ctx.WithFields(log.Fields{
			"err":   err,
			"offer": *o,
		}).Error("failed to q.Insert")
		if err == query.ErrDuplicateKey {
			return domain.ErrConflict
		}
		return err
	}
	return nil
}

func (im *offerRepoImpl) Update(ctx ctx.Ctx, id offer.Id, patchable offer.Patchable) error {
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

	err = im.q.Patch(ctx, domain.TableOffers, selector, updater)
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

func (im *offerRepoImpl) ClearSettlement(ctx ctx.Ctx, id offer.Id) error {
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
	err = im.q.CustomPatch(ctx, domain.TableOffers, selector, updater, false)
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
