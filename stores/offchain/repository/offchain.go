package repository

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/domaindao/goapi/base/ctx"
	"github.com/domaindao/goapi/base/database/mongoclient"
	"github.com/domaindao/goapi/base/log"
	"github.com/domaindao/goapi/domain"
	"github.com/domaindao/goapi/domain/offchain"
	"github.com/domaindao/goapi/service/query"
)

type offchainRepoImpl struct {
	q query.Mongo
}

func NewOffchainRepo(q query.Mongo) offchain.Repo {
	return &offchainRepoImpl{q}
}

func (im *offchainRepoImpl) makeQuery(opts ...offchain.FindAllOptionsFunc) (bson.M, error) {
	options, err := offchain.GetFindAllOptions(opts...)
	if err != nil {
		return nil, err
	}
	query := bson.M{}

	if options.TokenId != nil {
		query["tokenId"] = *options.TokenId
	}

	if options.Seller != nil {
		query["seller"] = *options.Seller
	}

	if options.Buyer != nil {
		query["buyer"] = *options.Buyer
	}

	if options.TxHash != nil {
		query["txHash"] = *options.TxHash
	}

	soldAtQuery := bson.M{}
	if options.SoldAfter != nil {
		soldAtQuery["$gt"] = *options.SoldAfter
	}

	if options.SoldBefore != nil {
		soldAtQuery["$lt"] = *options.SoldBefore
	}

	if len(soldAtQuery) > 0 {
		query["soldAt"] = soldAtQuery
	}

	return query, nil
}

func (im *offchainRepoImpl) FindAll(ctx ctx.Ctx, opts ...offchain.FindAllOptionsFunc) ([]*offchain.Transaction, error) {
	qry, err := im.makeQuery(opts...)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
		}).Error("im.makeQuery")
		return nil, err
	}

	options, _ := offchain.GetFindAllOptions(opts...)
	offset, limit := 0, 0
	if options.Offset != nil {
		offset = int(*options.Offset)
	}
	if options.Limit != nil {
		limit = int(*options.Limit)
	}

	res := []*offchain.Transaction{}
	err = im.q.Search(ctx, domain.TableOffchainTransactions, offset, limit, "-soldAt", qry, &res)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err":   err,
			"query": qry,
		}).Error("failed to q.Search")
		return nil, err
	}

	return res, nil
}

func (im *offchainRepoImpl) Count(ctx ctx.Ctx, opts ...offchain.FindAllOptionsFunc) (int, error) {
	qry, err := im.makeQuery(opts...)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
		}).Error("im.makeQuery")
		return 0, err
	}

	cnt, err := im.q.Count(ctx, domain.TableOffchainTransactions, qry)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err":   err,
			"query": qry,
		}).Error("failed to q.Count")
		return 0, err
	}

	return cnt, nil
}

func (im *offchainRepoImpl) FindOne(ctx ctx.Ctx, id offchain.Id) (*offchain.Transaction, error) {
	qry, err := mongoclient.MakeBsonM(id)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
			"id":  id,
		}).Error("failed to mongoclient.MakeBsonM")
		return nil, err
	}

	res := offchain.Transaction{}
	err = im.q.FindOne(ctx, domain.TableOffchainTransactions, qry, &res)
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

func (im *offchainRepoImpl) Insert(ctx ctx.Ctx, tx *offchain.Transaction) error {
	if err := im.q.Insert(ctx, domain.TableOffchainTransactions, tx); err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
			"tx":  *tx,
		}).Error("failed to q.Insert")
		if err == query.ErrDuplicateKey {
			return domain.ErrConflict
		}
		return err
	}
	return nil
}

func (im *offchainRepoImpl) Update(ctx ctx.Ctx, id offchain.Id, patchable offchain.Patchable) error {
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

	err = im.q.Patch(ctx, domain.TableOffchainTransactions, selector, updater)
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

func (im *offchainRepoImpl) ClearConfirmation(ctx ctx.Ctx, id offchain.Id) error {
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
	err = im.q.CustomPatch(ctx, domain.TableOffchainTransactions, selector, updater, false)
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
