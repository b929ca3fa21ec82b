package repository

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/domaindao/goapi/base/ctx"
	"github.com/domaindao/goapi/base/database/mongoclient"
	"github.com/domaindao/goapi/base/log"
	"github.com/domaindao/goapi/domain"
	"github.com/domaindao/goapi/domain/listing"
	"github.com/domaindao/goapi/service/query"
)

type listingRepoImpl struct {
	q query.Mongo
}

func NewListingRepo(q query.Mongo) listing.Repo {
	return &listingRepoImpl{q}
}

func (im *listingRepoImpl) makeQuery(opts ...listing.FindAllOptionsFunc) (bson.M, error) {
	options, err := listing.GetFindAllOptions(opts...)
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

	if options.Cancelled != nil {
		query["cancelled"] = *options.Cancelled
	}

	if options.TxHash != nil {
		query["txHash"] = *options.TxHash
	}

	createdAtQuery := bson.M{}
	if options.CreatedAfter != nil {
		createdAtQuery["$gt"] = *options.CreatedAfter
	}

	if options.CreatedBefore != nil {
		createdAtQuery["$lt"] = *options.CreatedBefore
	}

	if len(createdAtQuery) > 0 {
		query["createdAt"] = createdAtQuery
	}

	return query, nil
}

func (im *listingRepoImpl) FindAll(ctx ctx.Ctx, opts ...listing.FindAllOptionsFunc) ([]*listing.Listing, error) {
	qry, err := im.makeQuery(opts...)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
		}).Error("im.makeQuery")
		return nil, err
	}

	options, _ := listing.GetFindAllOptions(opts...)
	offset, limit := 0, 0
	if options.Offset != nil {
		offset = int(*options.Offset)
	}
	if options.Limit != nil {
		limit = int(*options.Limit)
	}
	sort := "-createdAt"
	if options.OldestFirst != nil && *options.OldestFirst {
		sort = "createdAt"
	}

	res := []*listing.Listing{}
	err = im.q.Search(ctx, domain.TableListings, offset, limit, sort, qry, &res)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err":   err,
			"query": qry,
		}).Error("failed to q.Search")
		return nil, err
	}

	return res, nil
}

func (im *listingRepoImpl) Count(ctx ctx.Ctx, opts ...listing.FindAllOptionsFunc) (int, error) {
	qry, err := im.makeQuery(opts...)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
		}).Error("im.makeQuery")
		return 0, err
	}

	cnt, err := im.q.Count(ctx, domain.TableListings, qry)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err":   err,
			"query": qry,
		}).Error("failed to q.Count")
		return 0, err
	}

	return cnt, nil
}

func (im *listingRepoImpl) FindOne(ctx ctx.Ctx, id listing.Id) (*listing.Listing, error) {
	qry, err := mongoclient.MakeBsonM(id)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
			"id":  id,
		}).Error("failed to mongoclient.MakeBsonM")
		return nil, err
	}

	res := listing.Listing{}
	err = im.q.FindOne(ctx, domain.TableListings, qry, &res)
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

func (im *listingRepoImpl) Insert(ctx ctx.Ctx, l *listing.Listing) error {
	if err := im.q.Insert(ctx, domain.TableListings, l); err != nil {
		ctx.WithFields(log.Fields{
			"err":     err,
			"listing": *l,
		}).Error("failed to q.Insert")
		if err == query.ErrDuplicateKey {
			return domain.ErrConflict
		}
		return err
	}
	return nil
}

func (im *listingRepoImpl) Update(ctx ctx.Ctx, id listing.Id, patchable listing.Patchable) error {
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

	err = im.q.Patch(ctx, domain.TableListings, selector, updater)
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

func (im *listingRepoImpl) RecordSale(ctx ctx.Ctx, id listing.Id, patchable listing.Patchable) error {
	selector, err := mongoclient.MakeBsonM(id)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
			"id":  id,
		}).Error("failed to mongoclient.MakeBsonM")
		return err
	}

	setter, err := mongoclient.MakeBsonM(patchable)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err":       err,
			"patchable": patchable,
		}).Error("failed to mongoclient.MakeBsonM")
		return err
	}

	updater := bson.M{
		"$set":   setter,
		"$unset": bson.M{"pendingBuyer": "", "pendingAt": ""},
	}
	err = im.q.CustomPatch(ctx, domain.TableListings, selector, updater, false)
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

func (im *listingRepoImpl) ClearSale(ctx ctx.Ctx, id listing.Id) error {
	selector, err := mongoclient.MakeBsonM(id)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
			"id":  id,
		}).Error("failed to mongoclient.MakeBsonM")
		return err
	}

	updater := bson.M{
		"$set":   bson.M{"isActive": true},
		"$unset": bson.M{"buyer": "", "selectedAt": "", "txHash": "", "blockNumber": ""},
	}
	err = im.q.CustomPatch(ctx, domain.TableListings, selector, updater, false)
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
